package aggregate

import "github.com/axon-data/hashagg/pkg/chunk"

// GrouperImpl is the general Grouper: it works for every supported key
// descriptor, including variable-width and dictionary-encoded columns,
// at the cost of hashing through a Go string-keyed map instead of the
// integer-keyed table GrouperFastImpl uses.
type GrouperImpl struct {
	*grouperBase
	index map[string]uint32
}

func newGrouperImpl(base *grouperBase) *GrouperImpl {
	return &GrouperImpl{grouperBase: base, index: make(map[string]uint32)}
}

func (g *GrouperImpl) Consume(keys []*chunk.Vector, count int) ([]uint32, error) {
	if err := g.checkDictDivergence(keys); err != nil {
		return nil, err
	}
	ids := make([]uint32, count)
	var buf []byte
	for r := 0; r < count; r++ {
		buf = g.encoder.EncodeRow(keys, r, buf[:0])
		key := string(buf)
		if gid, ok := g.index[key]; ok {
			ids[r] = gid
			continue
		}
		gid := g.appendUniqueRow(keys, r)
		g.index[key] = gid
		ids[r] = gid
	}
	return ids, nil
}
