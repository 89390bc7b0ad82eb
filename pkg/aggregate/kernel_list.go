package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// ListKernel implements hash_list: an append-only buffer per group,
// preserving row order within a partition. Nulls are appended like any
// other value unless opts.SkipNulls is set; cross-partition order beyond
// that is unspecified, since partitions are merged in an arbitrary order.
type ListKernel struct{}

type listState struct {
	opts      Options
	valueType common.LType
	buf       [][]chunk.Value
	numGroups uint32
}

func (ListKernel) Init(opts Options, valueType common.LType) KernelState {
	return &listState{opts: opts, valueType: valueType}
}

func (s *listState) NumGroups() uint32 { return s.numGroups }

func (s *listState) Resize(n uint32) {
	old := uint32(len(s.buf))
	if n > old {
		grown := make([][]chunk.Value, n)
		copy(grown, s.buf)
		s.buf = grown
	}
	s.numGroups = n
}

func (ListKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*listState)
	for r := 0; r < count; r++ {
		if s.opts.SkipNulls && !values.RowIsValid(r) {
			continue
		}
		gid := ids[r]
		s.buf[gid] = append(s.buf[gid], values.GetValue(r))
	}
}

func (s *listState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*listState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.buf[d] = append(s.buf[d], src.buf[j]...)
	}
}

// Lists returns each group's buffered values directly, the list<input>
// output a caller assembling a list output column needs.
func (s *listState) Lists() [][]chunk.Value {
	return s.buf
}

// Finalize reports each group's buffered values as a list<input> column,
// per §4.3's hash_list output type.
func (s *listState) Finalize() *chunk.Vector {
	listType := common.ListType(s.valueType)
	out := chunk.NewFlatVector(listType, int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		out.SetValueTyped(int(g), chunk.Value{Typ: listType, List: s.buf[g]})
	}
	return out
}
