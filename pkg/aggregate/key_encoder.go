package aggregate

import (
	"encoding/binary"
	"math"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// KeyEncoder turns one row of a key batch into a byte signature such that
// byte-equality of signatures is equivalent to the key batch's row
// equality (null-aware per column, bit-pattern equality for floats).
//
// AllFixedWidth reports whether every key descriptor is fixed-width, which
// NewGrouper uses to pick GrouperFastImpl. Both kinds of descriptor are
// encoded by the same EncodeRow path.
type KeyEncoder struct {
	types      []common.LType
	fixedWidth bool
	rowWidth   int
	colWidths  []int
}

func NewKeyEncoder(types []common.LType) *KeyEncoder {
	ke := &KeyEncoder{types: types}
	ke.fixedWidth = true
	ke.colWidths = make([]int, len(types))
	width := 0
	for i, t := range types {
		if t.Id == common.LTID_NULL {
			ke.colWidths[i] = 0
			continue
		}
		if !t.PTyp.FixedWidth() {
			ke.fixedWidth = false
			break
		}
		w := fixedCellWidth(t)
		ke.colWidths[i] = w
		width += 1 + w // 1 null-flag byte + payload
	}
	if ke.fixedWidth {
		ke.rowWidth = width
	}
	return ke
}

func fixedCellWidth(t common.LType) int {
	if t.Id == common.LTID_FIXED {
		return t.Width
	}
	return t.PTyp.Size()
}

// AllFixedWidth reports whether every key column uses the fixed-width
// encoding path.
func (ke *KeyEncoder) AllFixedWidth() bool {
	return ke.fixedWidth
}

// EncodeRow appends the encoding of row idx of cols to dst and returns the
// extended slice. dst may be nil; callers on the fixed-width path
// typically pass a reusable buffer reset to length 0 per row.
func (ke *KeyEncoder) EncodeRow(cols []*chunk.Vector, idx int, dst []byte) []byte {
	for i, col := range cols {
		dst = encodeCell(col, idx, ke.types[i], dst)
	}
	return dst
}

func encodeCell(vec *chunk.Vector, idx int, typ common.LType, dst []byte) []byte {
	if typ.Id == common.LTID_NULL {
		return dst
	}
	if !vec.RowIsValid(idx) {
		return append(dst, 0)
	}
	return encodeCellValue(vec.GetValue(idx), typ, dst)
}

// encodeCellValue encodes an already-boxed chunk.Value the same way
// encodeCell encodes a live vector cell. Used where the value has been
// pulled out of its vector already (e.g. re-deriving a distinct kernel's
// dedup key from its first-seen-order buffer).
func encodeCellValue(v chunk.Value, typ common.LType, dst []byte) []byte {
	if typ.Id == common.LTID_NULL {
		return dst
	}
	if v.IsNull {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	switch typ.PTyp {
	case common.BOOL:
		if v.Bool {
			return append(dst, 1)
		}
		return append(dst, 0)
	case common.INT8:
		return append(dst, byte(int8(v.I64)))
	case common.INT16:
		return appendUint16(dst, uint16(int16(v.I64)))
	case common.INT32:
		return appendUint32(dst, uint32(int32(v.I64)))
	case common.INT64:
		return appendUint64(dst, uint64(v.I64))
	case common.UINT8:
		return append(dst, byte(v.U64))
	case common.UINT16:
		return appendUint16(dst, uint16(v.U64))
	case common.UINT32:
		return appendUint32(dst, uint32(v.U64))
	case common.UINT64:
		return appendUint64(dst, v.U64)
	case common.FLOAT:
		return appendUint32(dst, math.Float32bits(float32(v.F64)))
	case common.DOUBLE:
		return appendUint64(dst, math.Float64bits(v.F64))
	case common.VARCHAR:
		b := []byte(v.Str)
		dst = appendUint32(dst, uint32(len(b)))
		return append(dst, b...)
	case common.FIXED:
		b := []byte(v.Str)
		if len(b) < typ.Width {
			padded := make([]byte, typ.Width)
			copy(padded, b)
			b = padded
		}
		return append(dst, b[:typ.Width]...)
	case common.DECIMAL128, common.DECIMAL256:
		b := []byte(v.Decimal.String())
		dst = appendUint32(dst, uint32(len(b)))
		return append(dst, b...)
	case common.HUGEINT:
		dst = appendUint64(dst, v.Hugeint.Lower)
		return appendUint64(dst, uint64(v.Hugeint.Upper))
	case common.INTERVAL:
		dst = appendUint32(dst, uint32(v.Interval.Months))
		dst = appendUint32(dst, uint32(v.Interval.Days))
		return appendUint64(dst, uint64(v.Interval.Micros))
	default:
		return dst
	}
}

func appendUint16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}
