package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// TDigestKernel implements hash_tdigest: one t-digest sketch per group,
// finalized into a fixed_size_list<float64, len(quantiles)> column.
type TDigestKernel struct{}

type tdigestState struct {
	opts      Options
	digests   []*tdigest
	nullCount []int
	numGroups uint32
}

func (TDigestKernel) Init(opts Options, valueType common.LType) KernelState {
	return &tdigestState{opts: opts}
}

func (s *tdigestState) NumGroups() uint32 { return s.numGroups }

func (s *tdigestState) Resize(n uint32) {
	old := uint32(len(s.digests))
	if n > old {
		grown := make([]*tdigest, n)
		copy(grown, s.digests)
		for i := old; i < n; i++ {
			grown[i] = newTDigest(float64(s.opts.Delta), s.opts.BufferSize)
		}
		s.digests = grown
	}
	s.nullCount = growInt(s.nullCount, int(n))
	s.numGroups = n
}

func (TDigestKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*tdigestState)
	for r := 0; r < count; r++ {
		gid := ids[r]
		v, ok := cellFloat64(values, r)
		if !ok {
			s.nullCount[gid]++
			continue
		}
		s.digests[gid].Add(v)
	}
}

func (s *tdigestState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*tdigestState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.nullCount[d] += src.nullCount[j]
		s.digests[d].Merge(src.digests[j])
	}
}

// Quantiles returns the per-group quantile lists directly, the entry
// point a caller assembling a fixed_size_list output column uses instead
// of the single-vector Finalize contract.
func (s *tdigestState) Quantiles() [][]float64 {
	out := make([][]float64, s.numGroups)
	for g := uint32(0); g < s.numGroups; g++ {
		seenCount := s.digests[g].SeenCount()
		if (s.nullCount[g] > 0 && !s.opts.SkipNulls) || seenCount < s.opts.MinCount || seenCount == 0 {
			out[g] = nil
			continue
		}
		qs := make([]float64, len(s.opts.Quantiles))
		for i, q := range s.opts.Quantiles {
			qs[i] = s.digests[g].Quantile(q)
		}
		out[g] = qs
	}
	return out
}

// Finalize reports each group's quantiles as a fixed_size_list<float64,
// len(quantiles)> column, per §4.3's hash_tdigest output type. A group
// failing its null policy (checked inside Quantiles) reports a null list
// rather than an empty one.
func (s *tdigestState) Finalize() *chunk.Vector {
	listType := common.FixedSizeListType(common.DoubleType(), len(s.opts.Quantiles))
	out := chunk.NewFlatVector(listType, int(s.numGroups))
	qs := s.Quantiles()
	for g := uint32(0); g < s.numGroups; g++ {
		if len(qs[g]) == 0 {
			out.Mask.Set(uint64(g), false)
			continue
		}
		elems := make([]chunk.Value, len(qs[g]))
		for i, q := range qs[g] {
			elems[i] = chunk.Value{Typ: common.DoubleType(), F64: q}
		}
		out.SetValueTyped(int(g), chunk.Value{Typ: listType, List: elems})
	}
	return out
}
