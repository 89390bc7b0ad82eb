package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// CountKernel implements hash_count: count carries no skip_nulls/min_count
// policy, only the mode selecting which side of the valid/null split to
// report.
type CountKernel struct{}

type countState struct {
	mode       CountMode
	validCount []int
	nullCount  []int
	numGroups  uint32
}

func (CountKernel) Init(opts Options, valueType common.LType) KernelState {
	return &countState{mode: opts.Mode}
}

func (s *countState) NumGroups() uint32 { return s.numGroups }

func (s *countState) Resize(n uint32) {
	s.validCount = growInt(s.validCount, int(n))
	s.nullCount = growInt(s.nullCount, int(n))
	s.numGroups = n
}

func (s *countState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*countState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.validCount[d] += src.validCount[j]
		s.nullCount[d] += src.nullCount[j]
	}
}

func (s *countState) Finalize() *chunk.Vector {
	out := chunk.NewFlatVector(common.BigintType(), int(s.numGroups))
	data := chunk.GetSlice[int64](out)
	for g := uint32(0); g < s.numGroups; g++ {
		var v int64
		switch s.mode {
		case CountOnlyValid:
			v = int64(s.validCount[g])
		case CountOnlyNull:
			v = int64(s.nullCount[g])
		default:
			v = int64(s.validCount[g] + s.nullCount[g])
		}
		data[g] = v
		out.Mask.SetValid(uint64(g))
	}
	return out
}

func (CountKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*countState)
	for r := 0; r < count; r++ {
		gid := ids[r]
		if values.RowIsValid(r) {
			s.validCount[gid]++
		} else {
			s.nullCount[gid]++
		}
	}
}
