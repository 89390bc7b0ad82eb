package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// ProductKernel implements hash_product: same accumulator shape as
// SumKernel, multiplication instead of addition, identity 1 instead of 0.
type ProductKernel struct{}

func (ProductKernel) Init(opts Options, valueType common.LType) KernelState {
	return &productState{sumState: &sumState{opts: opts, cat: categoryOf(valueType), valueType: valueType}}
}

func (ProductKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*productState)
	sumConsume(s.sumState, values, ids, count, true)
}

// productState wraps sumState's Resize to seed fresh accumulator slots at
// the multiplicative identity instead of zero, and routes Merge through
// mergeProduct instead of the additive Merge.
type productState struct {
	*sumState
}

func (s *productState) Resize(n uint32) {
	old := s.numGroups
	s.sumState.Resize(n)
	switch s.cat {
	case catFloat:
		for i := old; i < n; i++ {
			s.floatSum[i] = 1
		}
	case catInteger:
		for i := old; i < n; i++ {
			s.intSum[i] = common.HugeintFromInt64(1)
		}
	case catDecimal:
		unscaledOne := int64(1)
		for i := 0; i < s.valueType.Scale; i++ {
			unscaledOne *= 10
		}
		one := common.DecimalFromInt64(unscaledOne, s.valueType.Scale)
		for i := old; i < n; i++ {
			s.decSum[i] = one
		}
	}
}

func (s *productState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*productState)
	s.sumState.mergeProduct(src.sumState, transposition)
}
