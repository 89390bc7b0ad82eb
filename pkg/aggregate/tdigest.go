package aggregate

import (
	"math"

	"github.com/tidwall/btree"
)

// centroid is one cluster of a t-digest: a running mean of the values it
// absorbed and the total weight (row count) behind that mean. seq breaks
// ties between centroids that land on the same mean (e.g. many equal
// input values) so the btree never silently collapses distinct centroids
// into one Set call.
type centroid struct {
	mean   float64
	weight float64
	seq    uint64
}

func centroidLess(a, b centroid) bool {
	if a.mean != b.mean {
		return a.mean < b.mean
	}
	return a.seq < b.seq
}

// tdigest is Dunning's t-digest: an approximate, mergeable sketch of a
// distribution that answers quantile queries accurately near 0 and 1 and
// less accurately (but boundedly) near the median. Centroids are kept in
// an ordered btree so Quantile can walk them in mean order without a sort.
type tdigest struct {
	centroids *btree.BTreeG[centroid]
	count     float64
	compress  float64 // delta: larger means more centroids, tighter accuracy
	bufSize   int
	buffered  []float64
	nextSeq   uint64
}

func newTDigest(compress float64, bufSize int) *tdigest {
	if compress <= 0 {
		compress = 100
	}
	if bufSize <= 0 {
		bufSize = 500
	}
	return &tdigest{
		centroids: btree.NewBTreeG[centroid](centroidLess),
		compress:  compress,
		bufSize:   bufSize,
	}
}

// Add records one value with weight 1. Values are buffered and flushed in
// a batch once bufSize is reached, which amortizes the O(n log n)
// resorting a single-value add would otherwise require.
func (t *tdigest) Add(v float64) {
	if math.IsNaN(v) {
		return
	}
	t.buffered = append(t.buffered, v)
	if len(t.buffered) >= t.bufSize {
		t.flush()
	}
}

func (t *tdigest) flush() {
	for _, v := range t.buffered {
		t.addCentroid(centroid{mean: v, weight: 1})
	}
	t.buffered = t.buffered[:0]
	t.compress_()
}

// SeenCount returns the number of values Add has recorded, including ones
// still sitting in the buffer waiting for the next flush. t.count alone
// undercounts until a flush happens, which is wrong for any group smaller
// than bufSize.
func (t *tdigest) SeenCount() int {
	return int(t.count) + len(t.buffered)
}

func (t *tdigest) addCentroid(c centroid) {
	c.seq = t.nextSeq
	t.nextSeq++
	t.count += c.weight
	t.centroids.Set(c)
}

// compress_ makes one low-to-high pass over the centroids, merging each
// into the previous one unless the combined weight would exceed
// 4*total*q*(1-q)/compress, q being the combined centroid's quantile.
func (t *tdigest) compress_() {
	if t.centroids.Len() == 0 {
		return
	}
	merged := btree.NewBTreeG[centroid](centroidLess)
	var cur centroid
	have := false
	var weightSoFar float64
	total := t.count
	t.centroids.Scan(func(c centroid) bool {
		if !have {
			cur = c
			have = true
			return true
		}
		combined := cur.weight + c.weight
		q := (weightSoFar + combined/2) / total
		if combined <= 4*total*q*(1-q)/t.compress {
			cur = centroid{
				mean:   (cur.mean*cur.weight + c.mean*c.weight) / combined,
				weight: combined,
				seq:    cur.seq,
			}
			return true
		}
		weightSoFar += cur.weight
		merged.Set(cur)
		cur = c
		return true
	})
	if have {
		merged.Set(cur)
	}
	t.centroids = merged
}

// Merge folds another digest's centroids into this one, the KernelState
// Merge entry point for cross-partition t-digest combination.
func (t *tdigest) Merge(o *tdigest) {
	o.flush()
	o.centroids.Scan(func(c centroid) bool {
		t.addCentroid(c)
		return true
	})
	t.compress_()
}

// Quantile returns the value at rank q in [0, 1], or NaN if the digest has
// seen no values.
func (t *tdigest) Quantile(q float64) float64 {
	t.flush()
	if t.centroids.Len() == 0 {
		return math.NaN()
	}
	if t.centroids.Len() == 1 {
		var only float64
		t.centroids.Scan(func(c centroid) bool { only = c.mean; return false })
		return only
	}
	target := q * t.count
	var weightSoFar float64
	var prev centroid
	havePrev := false
	result := math.NaN()
	found := false
	t.centroids.Scan(func(c centroid) bool {
		if found {
			return false
		}
		mid := weightSoFar + c.weight/2
		if target <= mid {
			if !havePrev {
				result = c.mean
			} else {
				span := mid - (weightSoFar - prev.weight/2)
				if span <= 0 {
					result = c.mean
				} else {
					frac := (target - (weightSoFar - prev.weight/2)) / span
					result = prev.mean + frac*(c.mean-prev.mean)
				}
			}
			found = true
			return false
		}
		weightSoFar += c.weight
		prev = c
		havePrev = true
		return true
	})
	if !found {
		result = prev.mean
	}
	return result
}
