package aggregate

import (
	"github.com/axiomhq/hyperloglog"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// CountDistinctKernel implements hash_count_distinct: an exact set of
// value encodings per group, counted at finalize time. Exactness (not an
// HLL-style estimate) is the documented behavior; the hyperloglog.Sketch
// kept alongside the exact set is never consulted by Finalize, only by
// EstimatedCardinality, for callers that want a cheap approximate count
// without paying for the exact set's memory.
type CountDistinctKernel struct{}

type countDistinctState struct {
	opts      Options
	valueType common.LType
	sets      []map[string]struct{}
	sketches  []*hyperloglog.Sketch
	nullSeen  []bool
	numGroups uint32
}

func (CountDistinctKernel) Init(opts Options, valueType common.LType) KernelState {
	return &countDistinctState{opts: opts, valueType: valueType}
}

func (s *countDistinctState) NumGroups() uint32 { return s.numGroups }

func (s *countDistinctState) Resize(n uint32) {
	old := uint32(len(s.sets))
	if n > old {
		grownSets := make([]map[string]struct{}, n)
		grownSketch := make([]*hyperloglog.Sketch, n)
		grownNull := make([]bool, n)
		copy(grownSets, s.sets)
		copy(grownSketch, s.sketches)
		copy(grownNull, s.nullSeen)
		for i := old; i < n; i++ {
			grownSets[i] = make(map[string]struct{})
			grownSketch[i] = hyperloglog.New()
		}
		s.sets = grownSets
		s.sketches = grownSketch
		s.nullSeen = grownNull
	}
	s.numGroups = n
}

func (CountDistinctKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*countDistinctState)
	distinctConsume(s.sets, s.sketches, s.nullSeen, s.valueType, values, ids, count)
}

// distinctConsume is count_distinct's consume loop: a per-group dedup set,
// keyed by the value's key-encoded byte form so NaN bit patterns collapse
// and -0.0/+0.0 stay distinct the same way a grouping key does. sketches
// may be nil, in which case the HLL update is skipped.
func distinctConsume(sets []map[string]struct{}, sketches []*hyperloglog.Sketch, nullSeen []bool, valueType common.LType, values *chunk.Vector, ids []uint32, count int) {
	var buf []byte
	for r := 0; r < count; r++ {
		gid := ids[r]
		if !values.RowIsValid(r) {
			nullSeen[gid] = true
			continue
		}
		buf = encodeCell(values, r, valueType, buf[:0])
		if sketches != nil {
			sketches[gid].Insert(buf)
		}
		sets[gid][string(buf)] = struct{}{}
	}
}

func (s *countDistinctState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*countDistinctState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.nullSeen[d] = s.nullSeen[d] || src.nullSeen[j]
		_ = s.sketches[d].Merge(src.sketches[j])
		for enc := range src.sets[j] {
			s.sets[d][enc] = struct{}{}
		}
	}
}

// EstimatedCardinality reports the hyperloglog estimate for group g, a
// cheap approximate alternative to len(set) that a caller can read
// without materializing the exact count (and, unlike Finalize, without
// requiring SkipNulls/MinCount/Mode to resolve first).
func (s *countDistinctState) EstimatedCardinality(g uint32) uint64 {
	return s.sketches[g].Estimate()
}

func (s *countDistinctState) Finalize() *chunk.Vector {
	out := chunk.NewFlatVector(common.BigintType(), int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		n := int64(len(s.sets[g]))
		if s.opts.Mode == CountOnlyNull {
			if s.nullSeen[g] {
				n = 1
			} else {
				n = 0
			}
		} else if s.opts.Mode == CountAll && s.nullSeen[g] {
			n++
		}
		out.SetValueTyped(int(g), chunk.Value{Typ: common.BigintType(), I64: n})
	}
	return out
}
