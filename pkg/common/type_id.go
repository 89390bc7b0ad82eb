package common

import "fmt"

// LTypeId names the logical type of a key or value column. Trimmed down
// from the teacher's full SQL type catalogue to the families the grouper
// and the hash-aggregate kernels need to reason about.
type LTypeId int

const (
	LTID_INVALID LTypeId = 0
	LTID_NULL    LTypeId = 1

	LTID_BOOLEAN LTypeId = 10

	LTID_TINYINT  LTypeId = 11
	LTID_SMALLINT LTypeId = 12
	LTID_INTEGER  LTypeId = 13
	LTID_BIGINT   LTypeId = 14

	LTID_UTINYINT  LTypeId = 15
	LTID_USMALLINT LTypeId = 16
	LTID_UINTEGER  LTypeId = 17
	LTID_UBIGINT   LTypeId = 18

	LTID_HALF_FLOAT LTypeId = 19
	LTID_FLOAT      LTypeId = 20
	LTID_DOUBLE     LTypeId = 21

	LTID_VARCHAR LTypeId = 30
	LTID_BLOB    LTypeId = 31
	LTID_FIXED   LTypeId = 32 // fixed-size binary, width carried on LType.Width

	LTID_DECIMAL128 LTypeId = 40
	LTID_DECIMAL256 LTypeId = 41
	LTID_HUGEINT    LTypeId = 42 // widened 128-bit integer, the sum/product kernels' output type for integer inputs

	LTID_DATE32    LTypeId = 50
	LTID_TIMESTAMP LTypeId = 51
	LTID_DURATION  LTypeId = 52
	LTID_INTERVAL  LTypeId = 53

	LTID_DICTIONARY LTypeId = 60 // dictionary<VARCHAR>

	// Unsupported by the Grouper; construction must reject these with
	// NotImplemented.
	LTID_LIST   LTypeId = 100
	LTID_STRUCT LTypeId = 101
	LTID_UNION  LTypeId = 102
)

var lTypeIdToStr = map[LTypeId]string{
	LTID_INVALID:    "INVALID",
	LTID_NULL:       "NULL",
	LTID_BOOLEAN:    "BOOLEAN",
	LTID_TINYINT:    "TINYINT",
	LTID_SMALLINT:   "SMALLINT",
	LTID_INTEGER:    "INTEGER",
	LTID_BIGINT:     "BIGINT",
	LTID_UTINYINT:   "UTINYINT",
	LTID_USMALLINT:  "USMALLINT",
	LTID_UINTEGER:   "UINTEGER",
	LTID_UBIGINT:    "UBIGINT",
	LTID_HALF_FLOAT: "HALF_FLOAT",
	LTID_FLOAT:      "FLOAT",
	LTID_DOUBLE:     "DOUBLE",
	LTID_VARCHAR:    "VARCHAR",
	LTID_BLOB:       "BLOB",
	LTID_FIXED:      "FIXED",
	LTID_DECIMAL128: "DECIMAL128",
	LTID_DECIMAL256: "DECIMAL256",
	LTID_HUGEINT:    "HUGEINT",
	LTID_DATE32:     "DATE32",
	LTID_TIMESTAMP:  "TIMESTAMP",
	LTID_DURATION:   "DURATION",
	LTID_INTERVAL:   "INTERVAL",
	LTID_DICTIONARY: "DICTIONARY",
	LTID_LIST:       "LIST",
	LTID_STRUCT:     "STRUCT",
	LTID_UNION:      "UNION",
}

func (id LTypeId) String() string {
	if s, has := lTypeIdToStr[id]; has {
		return s
	}
	return fmt.Sprintf("LTypeId(%d)", int(id))
}

// IsNested reports the key-column type families the Grouper must reject at
// construction with NotImplemented.
func (id LTypeId) IsNested() bool {
	return id == LTID_LIST || id == LTID_STRUCT || id == LTID_UNION
}
