package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// DistinctKernel implements hash_distinct: per group, the distinct non-null
// values seen, in first-seen order. Options.Mode is not applied (unlike
// CountDistinctKernel), and nulls never appear in the output list.
type DistinctKernel struct{}

type distinctState struct {
	opts      Options
	valueType common.LType
	seen      []map[string]struct{}
	order     [][]chunk.Value
	nullSeen  []bool
	numGroups uint32
}

func (DistinctKernel) Init(opts Options, valueType common.LType) KernelState {
	return &distinctState{opts: opts, valueType: valueType}
}

func (s *distinctState) NumGroups() uint32 { return s.numGroups }

func (s *distinctState) Resize(n uint32) {
	old := uint32(len(s.seen))
	if n > old {
		grownSeen := make([]map[string]struct{}, n)
		grownOrder := make([][]chunk.Value, n)
		grownNull := make([]bool, n)
		copy(grownSeen, s.seen)
		copy(grownOrder, s.order)
		copy(grownNull, s.nullSeen)
		for i := old; i < n; i++ {
			grownSeen[i] = make(map[string]struct{})
		}
		s.seen = grownSeen
		s.order = grownOrder
		s.nullSeen = grownNull
	}
	s.numGroups = n
}

func (DistinctKernel) Consume(state KernelState, values *chunk.Vector, ids []uint32, count int) {
	s := state.(*distinctState)
	var buf []byte
	for r := 0; r < count; r++ {
		gid := ids[r]
		if !values.RowIsValid(r) {
			s.nullSeen[gid] = true
			continue
		}
		buf = encodeCell(values, r, s.valueType, buf[:0])
		key := string(buf)
		if _, has := s.seen[gid][key]; has {
			continue
		}
		s.seen[gid][key] = struct{}{}
		s.order[gid] = append(s.order[gid], values.GetValue(r))
	}
}

func (s *distinctState) Merge(srcState KernelState, transposition []uint32) {
	src := srcState.(*distinctState)
	for j := uint32(0); j < src.numGroups; j++ {
		d := transposition[j]
		s.nullSeen[d] = s.nullSeen[d] || src.nullSeen[j]
		for i, enc := range src.orderKeys(j) {
			if _, has := s.seen[d][enc]; has {
				continue
			}
			s.seen[d][enc] = struct{}{}
			s.order[d] = append(s.order[d], src.order[j][i])
		}
	}
}

// orderKeys re-derives the encoded key for each value already collected
// for group j, in the same first-seen order, so Merge can dedup against
// the destination's set without a second pass over the source rows.
func (s *distinctState) orderKeys(j uint32) []string {
	var buf []byte
	keys := make([]string, len(s.order[j]))
	for i, v := range s.order[j] {
		buf = encodeCellValue(v, s.valueType, buf[:0])
		keys[i] = string(buf)
	}
	return keys
}

// Lists returns each group's distinct values directly; the list<input>
// output a caller assembling a list output column needs, bypassing the
// single-vector Finalize contract.
func (s *distinctState) Lists() [][]chunk.Value {
	return s.order
}

// Finalize reports each group's distinct values as a list<input> column,
// per §4.3's hash_distinct output type: the set contents in first-seen
// order.
func (s *distinctState) Finalize() *chunk.Vector {
	listType := common.ListType(s.valueType)
	out := chunk.NewFlatVector(listType, int(s.numGroups))
	for g := uint32(0); g < s.numGroups; g++ {
		out.SetValueTyped(int(g), chunk.Value{Typ: listType, List: s.order[g]})
	}
	return out
}
