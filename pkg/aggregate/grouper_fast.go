package aggregate

import (
	"bytes"

	"github.com/kamstrup/intmap"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/util"
)

// GrouperFastImpl is the cache-friendly Grouper restricted to all-fixed-
// width key descriptors. It indexes row encodings by their MetroHash64
// in a kamstrup/intmap.Map (a flat, open-addressed uint64->uint32 table)
// instead of the Go runtime's string-keyed map GrouperImpl uses, and
// keeps the encoded bytes for each group around so a hash collision
// between two distinct key tuples is caught and chained rather than
// silently merging groups.
type GrouperFastImpl struct {
	*grouperBase
	index    *intmap.Map[uint64, uint32]
	chains   map[uint64][]uint32
	encoding [][]byte
}

func newGrouperFastImpl(base *grouperBase) *GrouperFastImpl {
	return &GrouperFastImpl{
		grouperBase: base,
		index:       intmap.New[uint64, uint32](1024),
		chains:      make(map[uint64][]uint32),
	}
}

func (g *GrouperFastImpl) Consume(keys []*chunk.Vector, count int) ([]uint32, error) {
	if err := g.checkDictDivergence(keys); err != nil {
		return nil, err
	}
	ids := make([]uint32, count)
	var buf []byte
	for r := 0; r < count; r++ {
		buf = g.encoder.EncodeRow(keys, r, buf[:0])
		h := util.HashBytes(buf)

		gid, found := g.lookup(h, buf)
		if found {
			ids[r] = gid
			continue
		}

		gid = g.appendUniqueRow(keys, r)
		owned := make([]byte, len(buf))
		copy(owned, buf)
		g.encoding = append(g.encoding, owned)
		if _, exists := g.index.Get(h); !exists {
			g.index.Put(h, gid)
		} else {
			g.chains[h] = append(g.chains[h], gid)
		}
		ids[r] = gid
	}
	return ids, nil
}

func (g *GrouperFastImpl) lookup(h uint64, enc []byte) (uint32, bool) {
	if first, ok := g.index.Get(h); ok {
		if bytes.Equal(g.encoding[first], enc) {
			return first, true
		}
		for _, gid := range g.chains[h] {
			if bytes.Equal(g.encoding[gid], enc) {
				return gid, true
			}
		}
	}
	return 0, false
}
