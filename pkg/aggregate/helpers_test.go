package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// cell is a tiny notation for a test row: nil means null, anything else is
// boxed into the column's physical type by setVectorRows.
type cell any

// buildVector allocates a flat vector of typ and fills it with vals,
// treating a nil entry as a null cell.
func buildVector(typ common.LType, vals []cell) *chunk.Vector {
	vec := chunk.NewFlatVector(typ, len(vals))
	for i, v := range vals {
		if v == nil {
			vec.Mask.SetInvalid(uint64(i))
			continue
		}
		vec.SetValueTyped(i, boxCell(typ, v))
	}
	return vec
}

func boxCell(typ common.LType, v any) chunk.Value {
	switch x := v.(type) {
	case bool:
		return chunk.Value{Typ: typ, Bool: x}
	case int:
		return chunk.Value{Typ: typ, I64: int64(x)}
	case int64:
		return chunk.Value{Typ: typ, I64: x}
	case uint64:
		return chunk.Value{Typ: typ, U64: x}
	case float64:
		return chunk.Value{Typ: typ, F64: x}
	case string:
		return chunk.Value{Typ: typ, Str: x}
	default:
		panic("boxCell: unsupported literal type")
	}
}

// keyChunk builds a Chunk out of one or more key columns, each described
// as a (type, values) pair via buildVector, all sharing the given row
// count.
func keyChunk(count int, cols ...*chunk.Vector) *chunk.Chunk {
	c := &chunk.Chunk{Data: cols, Count: count}
	return c
}
