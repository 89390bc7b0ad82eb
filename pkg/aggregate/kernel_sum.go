package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

type numericCategory int

const (
	catFloat numericCategory = iota
	catInteger
	catDecimal
)

func categoryOf(t common.LType) numericCategory {
	switch {
	case isDecimalFamily(t):
		return catDecimal
	case isIntegerFamily(t):
		return catInteger
	default:
		return catFloat
	}
}

// SumKernel implements hash_sum: numeric/decimal inputs widen into a
// Hugeint (integers) or Decimal (decimals) accumulator, float inputs
// accumulate in float64. product is the same shape with multiplication
// and identity 1 instead of 0 (ProductKernel below).
type SumKernel struct{}

type sumState struct {
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

func (SumKernel) Init(opts Options, valueType common.LType) KernelState {
	return &sumState{opts: opts, cat: categoryOf(valueType), valueType: valueType}
}

func (s *sumState) NumGroups() uint32 { return s.numGroups }

func (s *sumState) Resize(n uint32) {
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

func (SumKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*sumState)
	sumConsume(s, values, ids, count, false)
}

// sumConsume is shared by SumKernel and ProductKernel: product passes
// asProduct=true so non-null inputs multiply instead of add.
func sumConsume(s *sumState, values *chunk.Vector, ids []uint32, count int, asProduct bool) {
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
			if asProduct {
				s.floatSum[gid] *= v
			} else {
				s.floatSum[gid] += v
			}
		case catInteger:
			v, _ := cellHugeint(values, r)
			if asProduct {
				s.intSum[gid].Mul(v)
			} else {
				s.intSum[gid].Add(v)
			}
		case catDecimal:
			val := values.GetValue(r)
			if asProduct {
				s.decSum[gid] = s.decSum[gid].Mul(val.Decimal)
			} else {
				s.decSum[gid] = s.decSum[gid].Add(val.Decimal)
			}
		}
	}
}

func (s *sumState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*sumState)
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

func (s *sumState) mergeProduct(srcState *sumState, transposition []uint32) {
	for j := uint32(0); j < srcState.numGroups; j++ {
		d := transposition[j]
		s.validCount[d] += srcState.validCount[j]
		s.nullCount[d] += srcState.nullCount[j]
		switch s.cat {
		case catFloat:
			s.floatSum[d] *= srcState.floatSum[j]
		case catInteger:
			s.intSum[d].Mul(srcState.intSum[j])
		case catDecimal:
			s.decSum[d] = s.decSum[d].Mul(srcState.decSum[j])
		}
	}
}

func (s *sumState) Finalize() *chunk.Vector {
	outType := s.outputType()
	out := chunk.NewFlatVector(outType, int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		isNull := numericPolicy(s.validCount[g], s.nullCount[g], s.opts)
		if isNull {
			out.Mask.Set(uint64(g), false)
			continue
		}
		switch s.cat {
		case catFloat:
			out.SetValueTyped(int(g), chunk.Value{Typ: outType, F64: s.floatSum[g]})
		case catInteger:
			out.SetValueTyped(int(g), chunk.Value{Typ: outType, Hugeint: s.intSum[g]})
		case catDecimal:
			out.SetValueTyped(int(g), chunk.Value{Typ: outType, Decimal: s.decSum[g]})
		}
	}
	return out
}

func (s *sumState) outputType() common.LType {
	switch s.cat {
	case catInteger:
		return common.HugeintType()
	case catDecimal:
		return s.valueType
	default:
		return common.DoubleType()
	}
}
