package aggregate

import (
	"math"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// varianceProjection picks whether a VarianceKernel instance reports the
// variance or its square root.
type varianceProjection int

const (
	projectVariance varianceProjection = iota
	projectStddev
)

// VarianceKernel implements hash_variance and hash_stddev: a numerically
// stable one-pass fold (Welford's algorithm) of (count, mean, M2) per
// group, sample-corrected by opts.Ddof.
type VarianceKernel struct {
	Project varianceProjection
}

var VarKernel Kernel = VarianceKernel{Project: projectVariance}
var StddevKernel Kernel = VarianceKernel{Project: projectStddev}

type varianceState struct {
	opts      Options
	project   varianceProjection
	count     []int
	mean      []float64
	m2        []float64
	nullCount []int
	numGroups uint32
}

func (k VarianceKernel) Init(opts Options, valueType common.LType) KernelState {
	return &varianceState{opts: opts, project: k.Project}
}

func (s *varianceState) NumGroups() uint32 { return s.numGroups }

func (s *varianceState) Resize(n uint32) {
	s.count = growInt(s.count, int(n))
	s.mean = growFloat64(s.mean, int(n), 0)
	s.m2 = growFloat64(s.m2, int(n), 0)
	s.nullCount = growInt(s.nullCount, int(n))
	s.numGroups = n
}

func (VarianceKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*varianceState)
	for r := 0; r < count; r++ {
		gid := ids[r]
		v, ok := cellFloat64(values, r)
		if !ok {
			s.nullCount[gid]++
			continue
		}
		s.count[gid]++
		delta := v - s.mean[gid]
		s.mean[gid] += delta / float64(s.count[gid])
		delta2 := v - s.mean[gid]
		s.m2[gid] += delta * delta2
	}
}

// Merge combines two Welford accumulators with Chan et al.'s parallel
// variance formula, so a partition-local fold and a cross-partition
// merge produce the same result as one pass over the concatenated input.
func (s *varianceState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*varianceState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.nullCount[d] += src.nullCount[j]
		na, nb := s.count[d], src.count[j]
		if nb == 0 {
			continue
		}
		if na == 0 {
			s.count[d] = nb
			s.mean[d] = src.mean[j]
			s.m2[d] = src.m2[j]
			continue
		}
		delta := src.mean[j] - s.mean[d]
		total := na + nb
		s.mean[d] += delta * float64(nb) / float64(total)
		s.m2[d] += src.m2[j] + delta*delta*float64(na)*float64(nb)/float64(total)
		s.count[d] = total
	}
}

func (s *varianceState) Finalize() *chunk.Vector {
	out := chunk.NewFlatVector(common.DoubleType(), int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		n := s.count[g]
		if (s.nullCount[g] > 0 && !s.opts.SkipNulls) || n < s.opts.MinCount || n <= s.opts.Ddof {
			out.Mask.Set(uint64(g), false)
			continue
		}
		variance := s.m2[g] / float64(n-s.opts.Ddof)
		v := variance
		if s.project == projectStddev {
			v = math.Sqrt(variance)
		}
		out.SetValueTyped(int(g), chunk.Value{Typ: common.DoubleType(), F64: v})
	}
	return out
}
