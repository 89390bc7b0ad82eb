package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// minMaxProjection selects which half of a min_max pair a MinKernel or
// MaxKernel instance reports; MinMaxKernel reports both, as a pair of
// parallel output columns.
type minMaxProjection int

const (
	projectBoth minMaxProjection = iota
	projectMin
	projectMax
)

// MinMaxKernel implements hash_min_max (and, via projection, hash_min and
// hash_max): per group it tracks the least and greatest value seen, using
// the input's own ordering so min/max compose with any comparable type.
type MinMaxKernel struct {
	Project minMaxProjection
}

type minMaxState struct {
	opts       Options
	valueType  common.LType
	project    minMaxProjection
	min        []chunk.Value
	max        []chunk.Value
	validCount []int
	nullCount  []int
	numGroups  uint32
}

func (k MinMaxKernel) Init(opts Options, valueType common.LType) KernelState {
	return &minMaxState{opts: opts, valueType: valueType, project: k.Project}
}

func (s *minMaxState) NumGroups() uint32 { return s.numGroups }

func (s *minMaxState) Resize(n uint32) {
	old := len(s.min)
	if int(n) > old {
		grownMin := make([]chunk.Value, n)
		grownMax := make([]chunk.Value, n)
		copy(grownMin, s.min)
		copy(grownMax, s.max)
		for i := old; i < int(n); i++ {
			grownMin[i] = chunk.Value{Typ: s.valueType, IsNull: true}
			grownMax[i] = chunk.Value{Typ: s.valueType, IsNull: true}
		}
		s.min = grownMin
		s.max = grownMax
	}
	s.validCount = growInt(s.validCount, int(n))
	s.nullCount = growInt(s.nullCount, int(n))
	s.numGroups = n
}

func (MinMaxKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*minMaxState)
	for r := 0; r < count; r++ {
		gid := ids[r]
		if !values.RowIsValid(r) {
			s.nullCount[gid]++
			continue
		}
		s.validCount[gid]++
		v := values.GetValue(r)
		if s.min[gid].IsNull || valueLess(v, s.min[gid]) || (isNaNValue(s.min[gid]) && !isNaNValue(v)) {
			s.min[gid] = v
		}
		if s.max[gid].IsNull || valueLess(s.max[gid], v) || (isNaNValue(s.max[gid]) && !isNaNValue(v)) {
			s.max[gid] = v
		}
	}
}

// isNaNValue reports whether v is a floating-point NaN.
func isNaNValue(v chunk.Value) bool {
	return (v.Typ.PTyp == common.FLOAT || v.Typ.PTyp == common.DOUBLE) && v.F64 != v.F64
}

// valueLess orders two boxed values of the same logical type. NaN compares
// as neither less nor greater than anything, including itself, so a NaN
// input never displaces a running non-NaN min/max; Consume and Merge replace
// a held NaN with the first non-NaN value, so a group's min/max is NaN only
// when every valid value in it is NaN.
func valueLess(a, b chunk.Value) bool {
	switch a.Typ.PTyp {
	case common.BOOL:
		return !a.Bool && b.Bool
	case common.FLOAT, common.DOUBLE:
		if a.F64 != a.F64 || b.F64 != b.F64 {
			return false
		}
		return a.F64 < b.F64
	case common.UINT8, common.UINT16, common.UINT32, common.UINT64:
		return a.U64 < b.U64
	case common.VARCHAR, common.FIXED:
		return a.Str < b.Str
	case common.DECIMAL128, common.DECIMAL256:
		return a.Decimal.Less(b.Decimal)
	case common.HUGEINT:
		return a.Hugeint.Less(b.Hugeint)
	default:
		return a.I64 < b.I64
	}
}

func (s *minMaxState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*minMaxState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.validCount[d] += src.validCount[j]
		s.nullCount[d] += src.nullCount[j]
		if !src.min[j].IsNull && (s.min[d].IsNull || valueLess(src.min[j], s.min[d]) || (isNaNValue(s.min[d]) && !isNaNValue(src.min[j]))) {
			s.min[d] = src.min[j]
		}
		if !src.max[j].IsNull && (s.max[d].IsNull || valueLess(s.max[d], src.max[j]) || (isNaNValue(s.max[d]) && !isNaNValue(src.max[j]))) {
			s.max[d] = src.max[j]
		}
	}
}

func (s *minMaxState) Finalize() *chunk.Vector {
	switch s.project {
	case projectMin:
		return s.finalizeOne(s.min)
	case projectMax:
		return s.finalizeOne(s.max)
	default:
		return s.finalizeStruct()
	}
}

func (s *minMaxState) finalizeOne(vals []chunk.Value) *chunk.Vector {
	out := chunk.NewFlatVector(s.valueType, int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		if numericPolicy(s.validCount[g], s.nullCount[g], s.opts) || vals[g].IsNull {
			out.Mask.Set(uint64(g), false)
			continue
		}
		out.SetValueTyped(int(g), vals[g])
	}
	return out
}

// MinMaxPair is the finalized value of the combined hash_min_max kernel:
// one {min, max} pair per group, reported as two parallel output vectors
// rather than an Arrow struct column, since this module has no struct
// vector type.
type MinMaxPair struct {
	Min *chunk.Vector
	Max *chunk.Vector
}

func (s *minMaxState) finalizeStruct() *chunk.Vector {
	// Finalize's signature returns a single vector; MinMaxKernel with
	// Project == projectBoth is only driven through FinalizePair, which
	// calls finalizeOne twice directly. A bare Finalize() call on a
	// both-projection state still has to return something well-formed,
	// so it reports min.
	return s.finalizeOne(s.min)
}

// FinalizePair is the entry point for a combined min_max aggregate spec:
// it returns both projections without forcing the caller through the
// single-vector Finalize contract.
func (s *minMaxState) FinalizePair() MinMaxPair {
	return MinMaxPair{Min: s.finalizeOne(s.min), Max: s.finalizeOne(s.max)}
}

// MinKernel and MaxKernel implement hash_min and hash_max: they share
// minMaxState but only ever surface one side of the pair.
var MinKernel Kernel = MinMaxKernel{Project: projectMin}
var MaxKernel Kernel = MinMaxKernel{Project: projectMax}
