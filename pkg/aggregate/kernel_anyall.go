package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// anyAllProjection picks which of hash_any/hash_all a boolAccState reports.
type anyAllProjection int

const (
	projectAny anyAllProjection = iota
	projectAll
)

// AnyAllKernel implements hash_any and hash_all: any is true once any row
// is true, all is true unless any row is false. Both fold the same
// (saw_true, saw_false, null_count) triple so one state shape serves both.
type AnyAllKernel struct {
	Project anyAllProjection
}

var AnyKernel Kernel = AnyAllKernel{Project: projectAny}
var AllKernel Kernel = AnyAllKernel{Project: projectAll}

type boolAccState struct {
	opts       Options
	project    anyAllProjection
	sawTrue    []bool
	sawFalse   []bool
	validCount []int
	nullCount  []int
	numGroups  uint32
}

func (k AnyAllKernel) Init(opts Options, valueType common.LType) KernelState {
	return &boolAccState{opts: opts, project: k.Project}
}

func (s *boolAccState) NumGroups() uint32 { return s.numGroups }

func (s *boolAccState) Resize(n uint32) {
	s.sawTrue = growBool(s.sawTrue, int(n))
	s.sawFalse = growBool(s.sawFalse, int(n))
	s.validCount = growInt(s.validCount, int(n))
	s.nullCount = growInt(s.nullCount, int(n))
	s.numGroups = n
}

func (AnyAllKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*boolAccState)
	for r := 0; r < count; r++ {
		gid := ids[r]
		if !values.RowIsValid(r) {
			s.nullCount[gid]++
			continue
		}
		s.validCount[gid]++
		if values.GetValue(r).Bool {
			s.sawTrue[gid] = true
		} else {
			s.sawFalse[gid] = true
		}
	}
}

func (s *boolAccState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*boolAccState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.validCount[d] += src.validCount[j]
		s.nullCount[d] += src.nullCount[j]
		s.sawTrue[d] = s.sawTrue[d] || src.sawTrue[j]
		s.sawFalse[d] = s.sawFalse[d] || src.sawFalse[j]
	}
}

func (s *boolAccState) Finalize() *chunk.Vector {
	out := chunk.NewFlatVector(common.BooleanType(), int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		if numericPolicy(s.validCount[g], s.nullCount[g], s.opts) {
			out.Mask.Set(uint64(g), false)
			continue
		}
		var v bool
		if s.project == projectAny {
			v = s.sawTrue[g]
		} else {
			v = !s.sawFalse[g]
		}
		out.SetValueTyped(int(g), chunk.Value{Typ: common.BooleanType(), Bool: v})
	}
	return out
}
