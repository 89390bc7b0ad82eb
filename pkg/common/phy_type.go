package common

import "fmt"

// PhyType is the physical storage representation backing an LType. Several
// logical types share one physical type (e.g. TIMESTAMP and DURATION are both
// stored as INT64); kernels switch on PhyType when picking an accumulator
// layout, and on LTypeId when picking aggregation semantics.
type PhyType int

const (
	INVALID PhyType = 0

	BOOL PhyType = 1

	INT8  PhyType = 2
	INT16 PhyType = 3
	INT32 PhyType = 4
	INT64 PhyType = 5

	UINT8  PhyType = 6
	UINT16 PhyType = 7
	UINT32 PhyType = 8
	UINT64 PhyType = 9

	FLOAT  PhyType = 10
	DOUBLE PhyType = 11

	VARCHAR PhyType = 20 // variable-length string/blob, stored as Go string/[]byte
	FIXED   PhyType = 21 // fixed-size binary, width on LType.Width

	DECIMAL128 PhyType = 30
	DECIMAL256 PhyType = 31

	INTERVAL PhyType = 40

	HUGEINT PhyType = 50 // widened accumulator type for integer sum/product

	LIST PhyType = 60 // list<child>/fixed_size_list<child,N>, stored as [][]Value
)

var pTypeToStr = map[PhyType]string{
	INVALID:    "INVALID",
	BOOL:       "BOOL",
	INT8:       "INT8",
	INT16:      "INT16",
	INT32:      "INT32",
	INT64:      "INT64",
	UINT8:      "UINT8",
	UINT16:     "UINT16",
	UINT32:     "UINT32",
	UINT64:     "UINT64",
	FLOAT:      "FLOAT",
	DOUBLE:     "DOUBLE",
	VARCHAR:    "VARCHAR",
	FIXED:      "FIXED",
	DECIMAL128: "DECIMAL128",
	DECIMAL256: "DECIMAL256",
	INTERVAL:   "INTERVAL",
	HUGEINT:    "HUGEINT",
	LIST:       "LIST",
}

func (pt PhyType) String() string {
	if s, has := pTypeToStr[pt]; has {
		return s
	}
	return fmt.Sprintf("PhyType(%d)", int(pt))
}

// Size returns the fixed per-value width in bytes, or 0 for variable-width
// types (VARCHAR) which store a Go string/[]byte header instead.
func (pt PhyType) Size() int {
	switch pt {
	case BOOL, INT8, UINT8:
		return 1
	case INT16, UINT16:
		return 2
	case INT32, UINT32, FLOAT:
		return 4
	case INT64, UINT64, DOUBLE:
		return 8
	case VARCHAR:
		return 0
	case LIST:
		return 0
	case FIXED:
		return 0 // width-dependent, carried on the Vector's LType
	case DECIMAL128:
		return 16
	case DECIMAL256:
		return 32
	case INTERVAL:
		return 16
	case HUGEINT:
		return 16
	default:
		return 0
	}
}

// FixedWidth reports whether values of this type occupy a constant number
// of bytes, which is the split the key encoder uses to choose its
// fixed-width vs. general encoding path.
func (pt PhyType) FixedWidth() bool {
	switch pt {
	case VARCHAR, LIST:
		return false
	default:
		return true
	}
}

func (pt PhyType) IsNumeric() bool {
	switch pt {
	case INT8, INT16, INT32, INT64,
		UINT8, UINT16, UINT32, UINT64,
		FLOAT, DOUBLE, DECIMAL128, DECIMAL256, HUGEINT:
		return true
	default:
		return false
	}
}

func (pt PhyType) IsInteger() bool {
	switch pt {
	case INT8, INT16, INT32, INT64, UINT8, UINT16, UINT32, UINT64, HUGEINT:
		return true
	default:
		return false
	}
}

func (pt PhyType) IsFloat() bool {
	return pt == FLOAT || pt == DOUBLE
}

func (pt PhyType) IsDecimal() bool {
	return pt == DECIMAL128 || pt == DECIMAL256
}
