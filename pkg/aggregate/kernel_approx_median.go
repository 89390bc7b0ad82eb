package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// ApproxMedianKernel implements hash_approximate_median: a tdigestState
// pinned to the single quantile 0.5, finalized straight to a float64
// scalar (§4.3: "single scalar; null per policy") instead of the
// fixed_size_list TDigestKernel reports.
type ApproxMedianKernel struct{}

// approxMedianState embeds tdigestState for its Resize/NumGroups/Consume
// plumbing and overrides Finalize/Merge, since both need to unwrap the
// embedding rather than letting tdigestState's own methods run: a plain
// promoted Merge would type-assert its peer argument as *tdigestState
// and panic on the *approxMedianState it actually receives.
type approxMedianState struct {
	*tdigestState
}

func (ApproxMedianKernel) Init(opts Options, valueType common.LType) KernelState {
	opts.Quantiles = []float64{0.5}
	return &approxMedianState{tdigestState: &tdigestState{opts: opts}}
}

func (ApproxMedianKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*approxMedianState)
	TDigestKernel{}.Consume(s.tdigestState, values, ids, count)
}

func (s *approxMedianState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*approxMedianState)
	s.tdigestState.Merge(src.tdigestState, transposition)
}

func (s *approxMedianState) Finalize() *chunk.Vector {
	out := chunk.NewFlatVector(common.DoubleType(), int(s.numGroups))
	qs := s.Quantiles()
	for g := uint32(0); g < s.numGroups; g++ {
		if len(qs[g]) == 0 {
			out.Mask.Set(uint64(g), false)
			continue
		}
		out.SetValueTyped(int(g), chunk.Value{Typ: common.DoubleType(), F64: qs[g][0]})
	}
	return out
}
