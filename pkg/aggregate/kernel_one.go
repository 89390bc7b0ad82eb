package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// OneKernel implements hash_one: the first non-null value seen per group,
// or null if the group saw only nulls. Once a group has a value, later
// rows for it are skipped without even checking validity.
type OneKernel struct{}

type oneState struct {
	valueType common.LType
	values    []chunk.Value
	have      []bool
	numGroups uint32
}

func (OneKernel) Init(opts Options, valueType common.LType) KernelState {
	return &oneState{valueType: valueType}
}

func (s *oneState) NumGroups() uint32 { return s.numGroups }

func (s *oneState) Resize(n uint32) {
	old := uint32(len(s.values))
	if n > old {
		grownVals := make([]chunk.Value, n)
		grownHave := make([]bool, n)
		copy(grownVals, s.values)
		copy(grownHave, s.have)
		for i := old; i < n; i++ {
			grownVals[i] = chunk.Value{Typ: s.valueType, IsNull: true}
		}
		s.values = grownVals
		s.have = grownHave
	}
	s.numGroups = n
}

func (OneKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*oneState)
	for r := 0; r < count; r++ {
		gid := ids[r]
		if s.have[gid] || !values.RowIsValid(r) {
			continue
		}
		s.values[gid] = values.GetValue(r)
		s.have[gid] = true
	}
}

func (s *oneState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*oneState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		if s.have[d] || !src.have[j] {
			continue
		}
		s.values[d] = src.values[j]
		s.have[d] = true
	}
}

func (s *oneState) Finalize() *chunk.Vector {
	out := chunk.NewFlatVector(s.valueType, int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		if !s.have[g] {
			out.Mask.Set(uint64(g), false)
			continue
		}
		out.SetValueTyped(int(g), s.values[g])
	}
	return out
}
