package aggregate

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

func newTestNode(t *testing.T, numThreads int) (*AggregateNode, *ExecContext) {
	ctx := NewExecContext(numThreads, nil)
	spec, err := NewAggregateSpec("hash_sum", 0, common.DoubleType(), DefaultOptions())
	require.NoError(t, err)
	node, err := NewAggregateNode(ctx, []common.LType{common.IntegerType()}, []int{0}, []AggregateSpec{spec}, numThreads)
	require.NoError(t, err)
	return node, ctx
}

func TestAggregateNodeLifecycleRejectsOutOfOrderCalls(t *testing.T) {
	node, _ := newTestNode(t, 1)
	assert.Equal(t, StateCreated, node.State())

	err := node.OnInput(0, vecs(buildVector(common.IntegerType(), []cell{1})), vecs(buildVector(common.DoubleType(), []cell{1.0})), 1)
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))

	require.NoError(t, node.Start())
	assert.Equal(t, StateProducing, node.State())
	require.Error(t, node.Start())
}

func TestAggregateNodeRejectsOutOfRangeThreadIndex(t *testing.T) {
	node, _ := newTestNode(t, 1)
	require.NoError(t, node.Start())

	err := node.OnInput(5, vecs(buildVector(common.IntegerType(), []cell{1})), vecs(buildVector(common.DoubleType(), []cell{1.0})), 1)
	require.Error(t, err)
	assert.Equal(t, KindIndexError, KindOf(err))
}

func runSingleThreaded(t *testing.T, keyVals, valVals []cell) []*chunk.Chunk {
	node, _ := newTestNode(t, 1)
	require.NoError(t, node.Start())

	keys := buildVector(common.IntegerType(), keyVals)
	vals := buildVector(common.DoubleType(), valVals)
	require.NoError(t, node.OnInput(0, vecs(keys), vecs(vals), len(keyVals)))
	require.NoError(t, node.OnInputTotal(int64(len(keyVals))))

	var out []*chunk.Chunk
	require.NoError(t, node.Finalize(func(c *chunk.Chunk) error {
		out = append(out, c)
		return nil
	}))
	return out
}

func TestAggregateNodeSingleThreadedSumByKey(t *testing.T) {
	out := runSingleThreaded(t,
		[]cell{1, 2, 1, 2, 3},
		[]cell{10.0, 20.0, 5.0, 1.0, 100.0},
	)
	require.Len(t, out, 1)
	chunkOut := out[0]
	require.Equal(t, 3, chunkOut.Card())

	// column 0 is the sum, column 1 is the key (aggregate columns first,
	// key columns last, per §6's output contract).
	type row struct{ key int64; sum float64 }
	rows := make([]row, chunkOut.Card())
	for i := 0; i < chunkOut.Card(); i++ {
		rows[i] = row{key: chunkOut.Data[1].GetValue(i).I64, sum: chunkOut.Data[0].GetValue(i).F64}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].key < rows[j].key })

	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0].key)
	assert.InDelta(t, 15.0, rows[0].sum, 1e-9)
	assert.Equal(t, int64(2), rows[1].key)
	assert.InDelta(t, 21.0, rows[1].sum, 1e-9)
	assert.Equal(t, int64(3), rows[2].key)
	assert.InDelta(t, 100.0, rows[2].sum, 1e-9)
}

// TestAggregateNodeMergeEquivalence is testable property 5: partitioning
// an input stream across threads and merging must be equivalent (up to
// output row order) to running it as one stream.
func TestAggregateNodeMergeEquivalence(t *testing.T) {
	keyVals := []cell{1, 2, 3, 1, 2, 1, 3, 2, 1, 3}
	valVals := []cell{1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0, 10.0}

	single := runSingleThreaded(t, keyVals, valVals)
	singleTotals := totalsByKey(single)

	node, _ := newTestNode(t, 3)
	require.NoError(t, node.Start())

	keys := buildVector(common.IntegerType(), keyVals)
	vals := buildVector(common.DoubleType(), valVals)

	// Split rows round-robin across 3 threads to simulate concurrent
	// partitions, each fed one row at a time.
	for i := 0; i < len(keyVals); i++ {
		thread := i % 3
		row := &chunk.Chunk{}
		row.Init([]common.LType{common.IntegerType()}, 1)
		row.Data[0].SetValueTyped(0, keys.GetValue(i))
		row.SetCard(1)
		valRow := &chunk.Chunk{}
		valRow.Init([]common.LType{common.DoubleType()}, 1)
		valRow.Data[0].SetValueTyped(0, vals.GetValue(i))
		valRow.SetCard(1)
		require.NoError(t, node.OnInput(thread, row.Data, valRow.Data, 1))
	}
	for thread := 0; thread < 3; thread++ {
		require.NoError(t, node.OnInputTotal(0))
	}

	var merged []*chunk.Chunk
	require.NoError(t, node.Finalize(func(c *chunk.Chunk) error {
		merged = append(merged, c)
		return nil
	}))
	mergedTotals := totalsByKey(merged)

	assert.Equal(t, singleTotals, mergedTotals)
}

func totalsByKey(chunks []*chunk.Chunk) map[int64]float64 {
	totals := make(map[int64]float64)
	for _, c := range chunks {
		for i := 0; i < c.Card(); i++ {
			key := c.Data[1].GetValue(i).I64
			totals[key] = c.Data[0].GetValue(i).F64
		}
	}
	return totals
}

func TestAggregateNodeEmptyInputEmitsNoBatchesAndFinishes(t *testing.T) {
	node, _ := newTestNode(t, 1)
	require.NoError(t, node.Start())
	require.NoError(t, node.OnInputTotal(0))

	var emitCount int
	require.NoError(t, node.Finalize(func(c *chunk.Chunk) error {
		emitCount++
		return nil
	}))
	assert.Equal(t, 0, emitCount)
	assert.Equal(t, StateFinished, node.State())
}

// TestAggregateNodeMinMaxEmitsBothColumns guards against hash_min_max
// silently dropping max when driven through the node: the combined
// kernel finalizes to two columns, not one, so the output layout is
// [min, max, key] rather than [min, key].
func TestAggregateNodeMinMaxEmitsBothColumns(t *testing.T) {
	ctx := NewExecContext(1, nil)
	spec, err := NewAggregateSpec("hash_min_max", 0, common.DoubleType(), DefaultOptions())
	require.NoError(t, err)
	node, err := NewAggregateNode(ctx, []common.LType{common.IntegerType()}, []int{0}, []AggregateSpec{spec}, 1)
	require.NoError(t, err)
	require.NoError(t, node.Start())

	keys := buildVector(common.IntegerType(), []cell{1, 1, 2, 2})
	vals := buildVector(common.DoubleType(), []cell{3.0, 7.0, -1.0, 4.0})
	require.NoError(t, node.OnInput(0, vecs(keys), vecs(vals), 4))
	require.NoError(t, node.OnInputTotal(4))

	var out []*chunk.Chunk
	require.NoError(t, node.Finalize(func(c *chunk.Chunk) error {
		out = append(out, c)
		return nil
	}))
	require.Len(t, out, 1)
	chunkOut := out[0]
	require.Len(t, chunkOut.Data, 3, "min, max, key")

	type row struct{ key int64; min, max float64 }
	rows := make([]row, chunkOut.Card())
	for i := 0; i < chunkOut.Card(); i++ {
		rows[i] = row{
			key: chunkOut.Data[2].GetValue(i).I64,
			min: chunkOut.Data[0].GetValue(i).F64,
			max: chunkOut.Data[1].GetValue(i).F64,
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].key < rows[j].key })

	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].key)
	assert.InDelta(t, 3.0, rows[0].min, 1e-9)
	assert.InDelta(t, 7.0, rows[0].max, 1e-9)
	assert.Equal(t, int64(2), rows[1].key)
	assert.InDelta(t, -1.0, rows[1].min, 1e-9)
	assert.InDelta(t, 4.0, rows[1].max, 1e-9)
}

// TestAggregateNodeListEmitsListColumn guards hash_list's §4.3 output type:
// driven end-to-end through AggregateNode, the value column must come back
// as a list<input> column, not a scalar.
func TestAggregateNodeListEmitsListColumn(t *testing.T) {
	ctx := NewExecContext(1, nil)
	spec, err := NewAggregateSpec("hash_list", 0, common.IntegerType(), DefaultOptions())
	require.NoError(t, err)
	node, err := NewAggregateNode(ctx, []common.LType{common.IntegerType()}, []int{0}, []AggregateSpec{spec}, 1)
	require.NoError(t, err)
	require.NoError(t, node.Start())

	keys := buildVector(common.IntegerType(), []cell{1, 1, 2})
	vals := buildVector(common.IntegerType(), []cell{10, 20, 30})
	require.NoError(t, node.OnInput(0, vecs(keys), vecs(vals), 3))
	require.NoError(t, node.OnInputTotal(3))

	var out []*chunk.Chunk
	require.NoError(t, node.Finalize(func(c *chunk.Chunk) error {
		out = append(out, c)
		return nil
	}))
	require.Len(t, out, 1)
	chunkOut := out[0]
	require.Len(t, chunkOut.Data, 2, "list, key")

	listCol := chunkOut.Data[0]
	assert.Equal(t, common.LTID_LIST, listCol.Typ().Id)

	keyCol := chunkOut.Data[1]
	for i := 0; i < chunkOut.Card(); i++ {
		if keyCol.GetValue(i).I64 == 1 {
			got := listCol.GetValue(i).List
			require.Len(t, got, 2)
			assert.Equal(t, int64(10), got[0].I64)
			assert.Equal(t, int64(20), got[1].I64)
		}
	}
}

func TestAggregateNodeStopCancels(t *testing.T) {
	node, _ := newTestNode(t, 1)
	require.NoError(t, node.Start())
	require.NoError(t, node.Stop())
	assert.Equal(t, StateStopped, node.State())
}
