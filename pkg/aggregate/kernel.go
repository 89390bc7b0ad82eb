package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// KernelState is the per-group accumulator array for one kernel instance.
// Resize grows it to at least newNumGroups, Merge folds another state into
// it under a transposition, and Finalize reads out of it; the concrete
// shape is kernel-specific.
type KernelState interface {
	NumGroups() uint32
	Resize(newNumGroups uint32)
	Merge(src KernelState, transposition []uint32)
	Finalize() *chunk.Vector
}

// Kernel is the hash-aggregate kernel contract: one Kernel value is bound
// to an aggregate spec (function name + options + input type) and used to
// create and drive a KernelState per partition.
type Kernel interface {
	Init(opts Options, valueType common.LType) KernelState
	Consume(state KernelState, values *chunk.Vector, ids []uint32, count int)
}

// cellFloat64 reads row idx of a numeric vector as a float64, regardless
// of its physical width, so the float paths of sum/mean, variance and
// tdigest can share one accumulation loop across int8..double inputs. Returns false if the
// cell is null.
func cellFloat64(vec *chunk.Vector, idx int) (float64, bool) {
	if !vec.RowIsValid(idx) {
		return 0, false
	}
	v := vec.GetValue(idx)
	switch vec.Typ().PTyp {
	case common.BOOL:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case common.FLOAT, common.DOUBLE:
		return v.F64, true
	case common.UINT8, common.UINT16, common.UINT32, common.UINT64:
		return float64(v.U64), true
	case common.DECIMAL128, common.DECIMAL256:
		return v.Decimal.Float64(), true
	case common.HUGEINT:
		return v.Hugeint.Float64(), true
	default:
		return float64(v.I64), true
	}
}

// cellHugeint reads row idx of an integer vector widened into a Hugeint,
// the exact accumulator sum/product use for integer inputs.
func cellHugeint(vec *chunk.Vector, idx int) (common.Hugeint, bool) {
	if !vec.RowIsValid(idx) {
		return common.Hugeint{}, false
	}
	v := vec.GetValue(idx)
	switch vec.Typ().PTyp {
	case common.UINT64:
		return common.Hugeint{Lower: v.U64, Upper: 0}, true
	case common.UINT8, common.UINT16, common.UINT32:
		return common.Hugeint{Lower: v.U64, Upper: 0}, true
	default:
		return common.HugeintFromInt64(v.I64), true
	}
}

func isIntegerFamily(t common.LType) bool {
	return t.PTyp.IsInteger()
}

func isDecimalFamily(t common.LType) bool {
	return t.IsDecimal()
}

// growBool/growInt/growFloat64 append identity-initialized slots to a
// per-group slice, the geometric-resize-friendly growth every kernel
// state uses; callers pre-size new to the target length.
func growFloat64(s []float64, n int, identity float64) []float64 {
	old := len(s)
	if n <= old {
		return s
	}
	grown := make([]float64, n)
	copy(grown, s)
	for i := old; i < n; i++ {
		grown[i] = identity
	}
	return grown
}

func growInt(s []int, n int) []int {
	old := len(s)
	if n <= old {
		return s
	}
	grown := make([]int, n)
	copy(grown, s)
	return grown
}

func growBool(s []bool, n int) []bool {
	old := len(s)
	if n <= old {
		return s
	}
	grown := make([]bool, n)
	copy(grown, s)
	return grown
}
