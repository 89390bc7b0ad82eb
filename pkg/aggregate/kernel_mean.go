package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// MeanKernel implements hash_mean: the same (sum, valid_count, null_count)
// state as SumKernel, but always finalizes to float64 regardless of the
// input category, since division makes Hugeint and fixed-scale Decimal
// awkward output types for a grouped mean.
type MeanKernel struct{}

type meanState struct {
	opts       Options
	cat        numericCategory
	valueType  common.LType
	floatSum   []float64
	intSum     []common.Hugeint
	decSum     []common.Decimal
	validCount []int
	nullCount  []int
	numGroups  uint32
}

func (MeanKernel) Init(opts Options, valueType common.LType) KernelState {
	return &meanState{opts: opts, cat: categoryOf(valueType), valueType: valueType}
}

func (s *meanState) NumGroups() uint32 { return s.numGroups }

func (s *meanState) Resize(n uint32) {
	switch s.cat {
	case catFloat:
		s.floatSum = growFloat64(s.floatSum, int(n), 0)
	case catInteger:
		old := len(s.intSum)
		if int(n) > old {
			grown := make([]common.Hugeint, n)
			copy(grown, s.intSum)
			s.intSum = grown
		}
	case catDecimal:
		old := len(s.decSum)
		if int(n) > old {
			grown := make([]common.Decimal, n)
			zero := common.DecimalFromInt64(0, s.valueType.Scale)
			for i := old; i < int(n); i++ {
				grown[i] = zero
			}
			copy(grown, s.decSum)
			s.decSum = grown
		}
	}
	s.validCount = growInt(s.validCount, int(n))
	s.nullCount = growInt(s.nullCount, int(n))
	s.numGroups = n
}

func (MeanKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*meanState)
	for r := 0; r < count; r++ {
		gid := ids[r]
		if !values.RowIsValid(r) {
			s.nullCount[gid]++
			continue
		}
		s.validCount[gid]++
		switch s.cat {
		case catFloat:
			v, _ := cellFloat64(values, r)
			s.floatSum[gid] += v
		case catInteger:
			v, _ := cellHugeint(values, r)
			s.intSum[gid].Add(v)
		case catDecimal:
			val := values.GetValue(r)
			s.decSum[gid] = s.decSum[gid].Add(val.Decimal)
		}
	}
}

func (s *meanState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*meanState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.validCount[d] += src.validCount[j]
		s.nullCount[d] += src.nullCount[j]
		switch s.cat {
		case catFloat:
			s.floatSum[d] += src.floatSum[j]
		case catInteger:
			s.intSum[d].Add(src.intSum[j])
		case catDecimal:
			s.decSum[d] = s.decSum[d].Add(src.decSum[j])
		}
	}
}

func (s *meanState) Finalize() *chunk.Vector {
	out := chunk.NewFlatVector(common.DoubleType(), int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		if s.validCount[g] == 0 || numericPolicy(s.validCount[g], s.nullCount[g], s.opts) {
			out.Mask.Set(uint64(g), false)
			continue
		}
		var sum float64
		switch s.cat {
		case catFloat:
			sum = s.floatSum[g]
		case catInteger:
			sum = s.intSum[g].Float64()
		case catDecimal:
			sum = s.decSum[g].Float64()
		}
		out.SetValueTyped(int(g), chunk.Value{Typ: common.DoubleType(), F64: sum / float64(s.validCount[g])})
	}
	return out
}
