package common

import "fmt"

// LType describes one key or value column: its logical identity plus the
// width/scale parameters that vary within a family (decimal precision,
// fixed-binary width, timestamp unit). It mirrors the teacher's
// Id/PTyp/Width/Scale split but drops the cast-cost and serialization
// machinery that split served in the full SQL engine; this module's LType
// only needs to answer "what kernel state shape and encoding does this
// column need".
type LType struct {
	Id    LTypeId
	PTyp  PhyType
	Width int // FIXED: byte width. DECIMAL128/256: precision. LIST: fixed length, 0 for a variable-length list.
	Scale int // DECIMAL128/256: scale. TIMESTAMP/DURATION: time.Duration unit in nanoseconds per tick.

	Child *LType // LIST only: the element type.
}

func MakeLType(id LTypeId) LType {
	ret := LType{Id: id}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func NullType() LType       { return MakeLType(LTID_NULL) }
func BooleanType() LType    { return MakeLType(LTID_BOOLEAN) }
func TinyintType() LType    { return MakeLType(LTID_TINYINT) }
func SmallintType() LType   { return MakeLType(LTID_SMALLINT) }
func IntegerType() LType    { return MakeLType(LTID_INTEGER) }
func BigintType() LType     { return MakeLType(LTID_BIGINT) }
func UTinyintType() LType   { return MakeLType(LTID_UTINYINT) }
func USmallintType() LType  { return MakeLType(LTID_USMALLINT) }
func UIntegerType() LType   { return MakeLType(LTID_UINTEGER) }
func UBigintType() LType    { return MakeLType(LTID_UBIGINT) }
func HalfFloatType() LType  { return MakeLType(LTID_HALF_FLOAT) }
func FloatType() LType      { return MakeLType(LTID_FLOAT) }
func DoubleType() LType     { return MakeLType(LTID_DOUBLE) }
func VarcharType() LType    { return MakeLType(LTID_VARCHAR) }
func BlobType() LType       { return MakeLType(LTID_BLOB) }
func Date32Type() LType     { return MakeLType(LTID_DATE32) }
func IntervalType() LType   { return MakeLType(LTID_INTERVAL) }

func FixedType(widthBytes int) LType {
	ret := MakeLType(LTID_FIXED)
	ret.Width = widthBytes
	return ret
}

func Decimal128Type(precision, scale int) LType {
	ret := MakeLType(LTID_DECIMAL128)
	ret.Width = precision
	ret.Scale = scale
	return ret
}

func HugeintType() LType { return MakeLType(LTID_HUGEINT) }

func Decimal256Type(precision, scale int) LType {
	ret := MakeLType(LTID_DECIMAL256)
	ret.Width = precision
	ret.Scale = scale
	return ret
}

// TimestampType describes a timestamp with the given tick size, e.g.
// TimestampType(time.Microsecond) for a microsecond-resolution timestamp.
func TimestampType(unitNanos int) LType {
	ret := MakeLType(LTID_TIMESTAMP)
	ret.Scale = unitNanos
	return ret
}

func DurationType(unitNanos int) LType {
	ret := MakeLType(LTID_DURATION)
	ret.Scale = unitNanos
	return ret
}

// DictionaryType describes dictionary-encoded VARCHAR keys.
func DictionaryType() LType { return MakeLType(LTID_DICTIONARY) }

// ListType describes a variable-length list<child> output column, the
// type the distinct and list kernels finalize to.
func ListType(child LType) LType {
	ret := MakeLType(LTID_LIST)
	ret.Child = &child
	return ret
}

// FixedSizeListType describes a fixed_size_list<child, size> output
// column, the type the t-digest kernel finalizes to: one list of
// length(quantiles) per group.
func FixedSizeListType(child LType, size int) LType {
	ret := ListType(child)
	ret.Width = size
	return ret
}

func (lt LType) IsNumeric() bool {
	return lt.PTyp.IsNumeric()
}

func (lt LType) IsIntegral() bool {
	return lt.PTyp.IsInteger()
}

func (lt LType) IsDecimal() bool {
	return lt.Id == LTID_DECIMAL128 || lt.Id == LTID_DECIMAL256
}

func (lt LType) IsTemporal() bool {
	switch lt.Id {
	case LTID_DATE32, LTID_TIMESTAMP, LTID_DURATION, LTID_INTERVAL:
		return true
	default:
		return false
	}
}

// Comparable reports whether this type supports the ordering min/max needs.
func (lt LType) Comparable() bool {
	switch lt.Id {
	case LTID_LIST, LTID_STRUCT, LTID_UNION:
		return false
	default:
		return true
	}
}

func (lt LType) Equal(o LType) bool {
	if lt.Id != o.Id {
		return false
	}
	switch lt.Id {
	case LTID_DECIMAL128, LTID_DECIMAL256:
		return lt.Width == o.Width && lt.Scale == o.Scale
	case LTID_FIXED:
		return lt.Width == o.Width
	case LTID_TIMESTAMP, LTID_DURATION:
		return lt.Scale == o.Scale
	case LTID_LIST:
		return lt.Width == o.Width && lt.Child != nil && o.Child != nil && lt.Child.Equal(*o.Child)
	default:
		return true
	}
}

// GetInternalType maps the logical type to its physical storage
// representation, the same split the teacher's common.LType draws.
func (lt LType) GetInternalType() PhyType {
	switch lt.Id {
	case LTID_NULL:
		return INVALID
	case LTID_BOOLEAN:
		return BOOL
	case LTID_TINYINT:
		return INT8
	case LTID_UTINYINT:
		return UINT8
	case LTID_SMALLINT:
		return INT16
	case LTID_USMALLINT:
		return UINT16
	case LTID_INTEGER:
		return INT32
	case LTID_UINTEGER:
		return UINT32
	case LTID_BIGINT, LTID_TIMESTAMP, LTID_DURATION:
		return INT64
	case LTID_UBIGINT:
		return UINT64
	case LTID_DATE32:
		return INT32
	case LTID_HALF_FLOAT, LTID_FLOAT:
		return FLOAT
	case LTID_DOUBLE:
		return DOUBLE
	case LTID_VARCHAR, LTID_BLOB, LTID_DICTIONARY:
		return VARCHAR
	case LTID_FIXED:
		return FIXED
	case LTID_DECIMAL128:
		return DECIMAL128
	case LTID_DECIMAL256:
		return DECIMAL256
	case LTID_HUGEINT:
		return HUGEINT
	case LTID_INTERVAL:
		return INTERVAL
	case LTID_LIST:
		return LIST
	default:
		panic(fmt.Sprintf("unsupported logical type %v", lt.Id))
	}
}

func (lt LType) String() string {
	switch lt.Id {
	case LTID_DECIMAL128, LTID_DECIMAL256:
		return fmt.Sprintf("%v(%d,%d)", lt.Id, lt.Width, lt.Scale)
	case LTID_FIXED:
		return fmt.Sprintf("FIXED(%d)", lt.Width)
	case LTID_LIST:
		if lt.Width > 0 {
			return fmt.Sprintf("FIXED_SIZE_LIST(%v, %d)", lt.Child, lt.Width)
		}
		return fmt.Sprintf("LIST(%v)", lt.Child)
	default:
		return lt.Id.String()
	}
}
