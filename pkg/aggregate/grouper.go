package aggregate

import (
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
	"github.com/axon-data/hashagg/pkg/util"
)

// Grouper maps rows of a key batch to dense group ids and retains the
// unique key tuples observed so far. GrouperImpl and GrouperFastImpl both
// satisfy this; NewGrouper picks between them internally.
type Grouper interface {
	Consume(keys []*chunk.Vector, count int) ([]uint32, error)
	NumGroups() uint32
	GetUniques() *chunk.Chunk
	Descriptors() []common.LType
}

// NewGrouper validates the key descriptor and returns the implementation
// best suited to it: GrouperFastImpl when every column is fixed-width
// (primitive keys, the "cache-friendly" path), GrouperImpl otherwise.
func NewGrouper(descriptors []common.LType) (Grouper, error) {
	for i, t := range descriptors {
		if t.Id.IsNested() {
			return nil, NotImplemented("key column %d has unsupported nested type %v", i, t)
		}
	}
	encoder := NewKeyEncoder(descriptors)
	base := newGrouperBase(descriptors, encoder)
	if encoder.AllFixedWidth() {
		return newGrouperFastImpl(base), nil
	}
	return newGrouperImpl(base), nil
}

// grouperBase holds the state both Grouper implementations share: the
// encoder, the dictionary-divergence check, and the uniques table. Each
// implementation only supplies its own encoding-to-group-id index.
type grouperBase struct {
	descriptors []common.LType
	encoder     *KeyEncoder
	uniques     *chunk.Chunk
	numGroups   uint32
	dictSeen    map[int]*chunk.Vector
}

func newGrouperBase(descriptors []common.LType, encoder *KeyEncoder) *grouperBase {
	b := &grouperBase{
		descriptors: descriptors,
		encoder:     encoder,
		dictSeen:    make(map[int]*chunk.Vector),
	}
	b.uniques = &chunk.Chunk{}
	b.uniques.Init(descriptors, util.DefaultVectorSize)
	return b
}

func (b *grouperBase) Descriptors() []common.LType {
	return b.descriptors
}

func (b *grouperBase) NumGroups() uint32 {
	return b.numGroups
}

func (b *grouperBase) GetUniques() *chunk.Chunk {
	return chunk.NewView(b.uniques.Data, int(b.numGroups))
}

// checkDictDivergence enforces that every batch handed to this Grouper
// carries the same dictionary for a given dictionary-encoded key column.
// The first batch's child vector is remembered; later batches must
// reference the identical child (fast path) or an equal one (slow path).
func (b *grouperBase) checkDictDivergence(keys []*chunk.Vector) error {
	for i, k := range keys {
		if !k.PhyFormat().IsDict() {
			continue
		}
		child := k.DictChild()
		prev, ok := b.dictSeen[i]
		if !ok {
			b.dictSeen[i] = child
			continue
		}
		if prev == child {
			continue
		}
		if !dictionariesEqual(prev, child) {
			return NotImplemented("Unifying differing dictionaries")
		}
	}
	return nil
}

func dictionariesEqual(a, b *chunk.Vector) bool {
	aLen := dictLen(a)
	bLen := dictLen(b)
	if aLen != bLen {
		return false
	}
	for i := 0; i < aLen; i++ {
		av, bv := a.GetValue(i), b.GetValue(i)
		if av.IsNull != bv.IsNull {
			return false
		}
		if !av.IsNull && av.Str != bv.Str {
			return false
		}
	}
	return true
}

func dictLen(v *chunk.Vector) int {
	switch d := v.Data.(type) {
	case []common.String:
		return len(d)
	default:
		return 0
	}
}

// growUniques doubles the uniques chunk's capacity in place, the
// amortized growth the design calls for so a batch introducing many new
// groups doesn't reallocate once per group.
func (b *grouperBase) growUniques() {
	oldCap := b.uniques.Cap()
	newCap := oldCap * 2
	if newCap == 0 {
		newCap = util.DefaultVectorSize
	}
	grown := &chunk.Chunk{}
	grown.Init(b.descriptors, newCap)
	grown.SetCard(int(b.numGroups))
	for c := 0; c < len(b.descriptors); c++ {
		for r := 0; r < int(b.numGroups); r++ {
			grown.Data[c].SetValueTyped(r, b.uniques.Data[c].GetValue(r))
		}
	}
	b.uniques = grown
}

// appendUniqueRow copies row srcIdx of keys into the uniques table at the
// next group slot and returns the new group id.
func (b *grouperBase) appendUniqueRow(keys []*chunk.Vector, srcIdx int) uint32 {
	if int(b.numGroups) >= b.uniques.Cap() {
		b.growUniques()
	}
	gid := b.numGroups
	for c, col := range keys {
		b.uniques.Data[c].SetValueTyped(int(gid), col.GetValue(srcIdx))
	}
	b.numGroups++
	b.uniques.SetCard(int(b.numGroups))
	return gid
}
