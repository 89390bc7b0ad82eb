package aggregate

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-data/hashagg/pkg/common"
)

// groupRow pairs a finalized key with its aggregate value for sorted
// comparison; output row order across partitions is unspecified (§4.4),
// so every multi-group scenario test sorts by key before asserting.
type groupRow[K comparable, V any] struct {
	Key K
	Val V
}

func sortedByKey[K comparable, V any](rows []groupRow[K, V], less func(a, b K) bool) []groupRow[K, V] {
	out := append([]groupRow[K, V]{}, rows...)
	sort.Slice(out, func(i, j int) bool { return less(out[i].Key, out[j].Key) })
	return out
}

// TestHashCountOnlyValid is scenario S1: count(ONLY_VALID) grouped by an
// int64 key with a null group.
func TestHashCountOnlyValid(t *testing.T) {
	g, err := NewGrouper([]common.LType{common.BigintType()})
	require.NoError(t, err)

	keyCol := buildVector(common.BigintType(), []cell{1, 1, 2, 3, nil, 1, 2, 2, nil, 3})
	ids, err := g.Consume(vecs(keyCol), 10)
	require.NoError(t, err)

	argCol := buildVector(common.DoubleType(), []cell{
		1.0, nil, 0.0, nil, 4.0, 3.25, 0.125, -0.25, 0.75, nil,
	})

	opts := DefaultOptions()
	opts.Mode = CountOnlyValid
	kernel := CountKernel{}
	state := kernel.Init(opts, common.DoubleType())
	state.Resize(g.NumGroups())
	kernel.Consume(state, argCol, ids, 10)

	out := state.Finalize()
	uniques := g.GetUniques()

	rows := make([]groupRow[int64, int64], 0, g.NumGroups())
	nullKey := false
	var nullVal int64
	for gid := uint32(0); gid < g.NumGroups(); gid++ {
		kv := uniques.Data[0].GetValue(int(gid))
		v := out.GetValue(int(gid)).I64
		if kv.IsNull {
			nullKey = true
			nullVal = v
			continue
		}
		rows = append(rows, groupRow[int64, int64]{Key: kv.I64, Val: v})
	}
	sorted := sortedByKey(rows, func(a, b int64) bool { return a < b })

	require.Len(t, sorted, 3)
	assert.Equal(t, int64(2), sorted[0].Val) // key 1: two valid (1.0, 3.25)
	assert.Equal(t, int64(3), sorted[1].Val) // key 2: three valid
	assert.Equal(t, int64(0), sorted[2].Val) // key 3: zero valid
	require.True(t, nullKey)
	assert.Equal(t, int64(2), nullVal) // key null: two valid (4.0, 0.75)
}

func TestHashCountAllCountsNulls(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = CountAll
	kernel := CountKernel{}
	state := kernel.Init(opts, common.DoubleType())
	state.Resize(1)

	allNull := buildVector(common.DoubleType(), []cell{nil, nil, nil})
	ids := []uint32{0, 0, 0}
	kernel.Consume(state, allNull, ids, 3)

	out := state.Finalize()
	assert.Equal(t, int64(3), out.GetValue(0).I64)
}

func TestHashCountOnlyValidOfAllNullIsZero(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = CountOnlyValid
	kernel := CountKernel{}
	state := kernel.Init(opts, common.DoubleType())
	state.Resize(1)

	allNull := buildVector(common.DoubleType(), []cell{nil, nil, nil})
	ids := []uint32{0, 0, 0}
	kernel.Consume(state, allNull, ids, 3)

	out := state.Finalize()
	assert.Equal(t, int64(0), out.GetValue(0).I64)
}

func TestHashCountMerge(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = CountAll
	kernel := CountKernel{}

	dst := kernel.Init(opts, common.DoubleType())
	dst.Resize(2)
	dstValues := buildVector(common.DoubleType(), []cell{1.0, nil})
	kernel.Consume(dst, dstValues, []uint32{0, 1}, 2)

	src := kernel.Init(opts, common.DoubleType())
	src.Resize(1)
	srcValues := buildVector(common.DoubleType(), []cell{2.0})
	kernel.Consume(src, srcValues, []uint32{0}, 1)

	// src's group 0 maps onto dst's group 1.
	dst.Merge(src, []uint32{1})
	out := dst.Finalize()
	assert.Equal(t, int64(1), out.GetValue(0).I64)
	assert.Equal(t, int64(2), out.GetValue(1).I64)
}
