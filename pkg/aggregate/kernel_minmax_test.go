package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-data/hashagg/pkg/common"
)

// TestHashMinMaxBool is scenario S3.
func TestHashMinMaxBool(t *testing.T) {
	g, err := NewGrouper([]common.LType{common.BigintType()})
	require.NoError(t, err)

	keyCol := buildVector(common.BigintType(), []cell{1, 1, 2, 3, nil, 1, 2, 2, nil, 3})
	ids, err := g.Consume(vecs(keyCol), 10)
	require.NoError(t, err)

	argCol := buildVector(common.BooleanType(), []cell{
		true, nil, false, false, nil, true, false, false, true, true,
	})

	kernel := MinMaxKernel{Project: projectBoth}
	state := kernel.Init(DefaultOptions(), common.BooleanType())
	state.Resize(g.NumGroups())
	kernel.Consume(state, argCol, ids, 10)

	mm := state.(*minMaxState)
	pair := mm.FinalizePair()

	uniques := g.GetUniques()
	type pairRow struct {
		Key      int64
		IsNull   bool
		Min, Max bool
	}
	rows := make([]pairRow, 0, g.NumGroups())
	var nullRow pairRow
	var sawNullKey bool
	for gid := uint32(0); gid < g.NumGroups(); gid++ {
		kv := uniques.Data[0].GetValue(int(gid))
		minV := pair.Min.GetValue(int(gid))
		maxV := pair.Max.GetValue(int(gid))
		row := pairRow{IsNull: minV.IsNull, Min: minV.Bool, Max: maxV.Bool}
		if kv.IsNull {
			sawNullKey = true
			nullRow = row
			continue
		}
		row.Key = kv.I64
		rows = append(rows, row)
	}
	sortedRows := append([]pairRow{}, rows...)
	for i := 0; i < len(sortedRows); i++ {
		for j := i + 1; j < len(sortedRows); j++ {
			if sortedRows[j].Key < sortedRows[i].Key {
				sortedRows[i], sortedRows[j] = sortedRows[j], sortedRows[i]
			}
		}
	}

	require.Len(t, sortedRows, 3)
	assert.Equal(t, pairRow{Key: 1, Min: true, Max: true}, sortedRows[0])
	assert.Equal(t, pairRow{Key: 2, Min: false, Max: false}, sortedRows[1])
	assert.Equal(t, pairRow{Key: 3, Min: false, Max: true}, sortedRows[2])
	require.True(t, sawNullKey)
	assert.Equal(t, pairRow{Min: true, Max: true}, nullRow)
}

func TestMinMaxNaNNeitherLessNorGreater(t *testing.T) {
	kernel := MinMaxKernel{Project: projectBoth}
	state := kernel.Init(DefaultOptions(), common.DoubleType())
	state.Resize(1)

	values := buildVector(common.DoubleType(), []cell{1.0, math.NaN(), 5.0})
	kernel.Consume(state, values, []uint32{0, 0, 0}, 3)

	mm := state.(*minMaxState)
	pair := mm.FinalizePair()
	assert.InDelta(t, 1.0, pair.Min.GetValue(0).F64, 1e-9)
	assert.InDelta(t, 5.0, pair.Max.GetValue(0).F64, 1e-9)
}

func TestMinMaxAllNaNReportsNaN(t *testing.T) {
	kernel := MinMaxKernel{Project: projectBoth}
	state := kernel.Init(DefaultOptions(), common.DoubleType())
	state.Resize(1)

	values := buildVector(common.DoubleType(), []cell{math.NaN(), math.NaN()})
	kernel.Consume(state, values, []uint32{0, 0}, 2)

	mm := state.(*minMaxState)
	pair := mm.FinalizePair()
	assert.True(t, math.IsNaN(pair.Min.GetValue(0).F64))
	assert.True(t, math.IsNaN(pair.Max.GetValue(0).F64))
}

func TestHashMinAndHashMaxProjections(t *testing.T) {
	minState := MinKernel.Init(DefaultOptions(), common.DoubleType())
	maxState := MaxKernel.Init(DefaultOptions(), common.DoubleType())
	minState.Resize(1)
	maxState.Resize(1)

	values := buildVector(common.DoubleType(), []cell{3.0, 1.0, 2.0})
	MinKernel.Consume(minState, values, []uint32{0, 0, 0}, 3)
	MaxKernel.Consume(maxState, values, []uint32{0, 0, 0}, 3)

	assert.InDelta(t, 1.0, minState.Finalize().GetValue(0).F64, 1e-9)
	assert.InDelta(t, 3.0, maxState.Finalize().GetValue(0).F64, 1e-9)
}
