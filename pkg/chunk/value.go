package chunk

import (
	"fmt"

	"github.com/axon-data/hashagg/pkg/common"
)

// Value is a single boxed cell, as returned by Vector.GetValue. The kernels
// and the key encoder read their input one row at a time through it, and
// logging call sites use it to print one cell without caring about its
// physical representation.
type Value struct {
	Typ    common.LType
	IsNull bool

	Bool    bool
	I64     int64
	U64     uint64
	F64     float64
	Str     string
	Decimal  common.Decimal
	Hugeint  common.Hugeint
	Interval common.Interval
	List     []Value // LTID_LIST only: the row's element values.
}

func (val Value) String() string {
	if val.IsNull {
		return "NULL"
	}
	switch val.Typ.Id {
	case common.LTID_BOOLEAN:
		return fmt.Sprintf("%v", val.Bool)
	case common.LTID_VARCHAR, common.LTID_BLOB, common.LTID_FIXED, common.LTID_DICTIONARY:
		return val.Str
	case common.LTID_DECIMAL128, common.LTID_DECIMAL256:
		return val.Decimal.String()
	case common.LTID_DATE32:
		return common.Date32(val.I64).Time().Format("2006-01-02")
	case common.LTID_TINYINT, common.LTID_SMALLINT, common.LTID_INTEGER, common.LTID_BIGINT,
		common.LTID_TIMESTAMP, common.LTID_DURATION:
		return fmt.Sprintf("%d", val.I64)
	case common.LTID_UTINYINT, common.LTID_USMALLINT, common.LTID_UINTEGER, common.LTID_UBIGINT:
		return fmt.Sprintf("%d", val.U64)
	case common.LTID_HALF_FLOAT, common.LTID_FLOAT, common.LTID_DOUBLE:
		return fmt.Sprintf("%v", val.F64)
	case common.LTID_INTERVAL:
		return fmt.Sprintf("%d mons %d days %d us", val.Interval.Months, val.Interval.Days, val.Interval.Micros)
	case common.LTID_LIST:
		parts := make([]string, len(val.List))
		for i, e := range val.List {
			parts[i] = e.String()
		}
		return fmt.Sprintf("%v", parts)
	default:
		return fmt.Sprintf("%v", val.Hugeint)
	}
}
