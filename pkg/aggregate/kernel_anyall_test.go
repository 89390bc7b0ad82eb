package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axon-data/hashagg/pkg/common"
)

func TestHashAnyAll(t *testing.T) {
	values := buildVector(common.BooleanType(), []cell{true, false, nil, false})

	anyState := AnyKernel.Init(DefaultOptions(), common.BooleanType())
	allState := AllKernel.Init(DefaultOptions(), common.BooleanType())
	anyState.Resize(1)
	allState.Resize(1)

	ids := []uint32{0, 0, 0, 0}
	AnyKernel.Consume(anyState, values, ids, 4)
	AllKernel.Consume(allState, values, ids, 4)

	assert.True(t, anyState.Finalize().GetValue(0).Bool)
	assert.False(t, allState.Finalize().GetValue(0).Bool)
}

func TestHashAllTrueWhenNoFalseSeen(t *testing.T) {
	values := buildVector(common.BooleanType(), []cell{true, true, nil})
	allState := AllKernel.Init(DefaultOptions(), common.BooleanType())
	allState.Resize(1)
	AllKernel.Consume(allState, values, []uint32{0, 0, 0}, 3)
	assert.True(t, allState.Finalize().GetValue(0).Bool)
}

func TestHashAnyAllMerge(t *testing.T) {
	dst := AnyKernel.Init(DefaultOptions(), common.BooleanType())
	dst.Resize(1)
	dstValues := buildVector(common.BooleanType(), []cell{false})
	AnyKernel.Consume(dst, dstValues, []uint32{0}, 1)

	src := AnyKernel.Init(DefaultOptions(), common.BooleanType())
	src.Resize(1)
	srcValues := buildVector(common.BooleanType(), []cell{true})
	AnyKernel.Consume(src, srcValues, []uint32{0}, 1)

	dst.Merge(src, []uint32{0})
	assert.True(t, dst.Finalize().GetValue(0).Bool)
}

// TestHashVarianceMatchesKnownSample checks Welford's one-pass variance
// against the textbook two-pass formula for ddof=1 (sample variance).
func TestHashVarianceMatchesKnownSample(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	sumSq := 0.0
	for _, v := range data {
		sumSq += (v - mean) * (v - mean)
	}
	want := sumSq / float64(len(data)-1)

	opts := DefaultOptions()
	opts.Ddof = 1
	kernel := VarianceKernel{Project: projectVariance}
	state := kernel.Init(opts, common.DoubleType())
	state.Resize(1)

	cells := make([]cell, len(data))
	for i, v := range data {
		cells[i] = v
	}
	values := buildVector(common.DoubleType(), cells)
	ids := make([]uint32, len(data))
	kernel.Consume(state, values, ids, len(data))

	out := state.Finalize()
	assert.InDelta(t, want, out.GetValue(0).F64, 1e-9)
}

func TestHashStddevIsSqrtOfVariance(t *testing.T) {
	values := buildVector(common.DoubleType(), []cell{1.0, 2.0, 3.0, 4.0})
	ids := []uint32{0, 0, 0, 0}

	varState := VarKernel.Init(DefaultOptions(), common.DoubleType())
	stdState := StddevKernel.Init(DefaultOptions(), common.DoubleType())
	varState.Resize(1)
	stdState.Resize(1)
	VarKernel.Consume(varState, values, ids, 4)
	StddevKernel.Consume(stdState, values, ids, 4)

	variance := varState.Finalize().GetValue(0).F64
	stddev := stdState.Finalize().GetValue(0).F64
	assert.InDelta(t, math.Sqrt(variance), stddev, 1e-9)
}

func TestHashVarianceDdofAtOrAboveNIsNull(t *testing.T) {
	opts := DefaultOptions()
	opts.Ddof = 2
	kernel := VarianceKernel{Project: projectVariance}
	state := kernel.Init(opts, common.DoubleType())
	state.Resize(1)

	values := buildVector(common.DoubleType(), []cell{1.0, 2.0})
	kernel.Consume(state, values, []uint32{0, 0}, 2)

	out := state.Finalize()
	assert.True(t, out.GetValue(0).IsNull, "n=2 <= ddof=2 must null the group")
}

// TestHashVarianceMergeMatchesSinglePass checks the Chan et al. merge
// formula reproduces the one-pass result when an input is split across
// two partial states.
func TestHashVarianceMergeMatchesSinglePass(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	opts := DefaultOptions()

	onePass := VarianceKernel{Project: projectVariance}.Init(opts, common.DoubleType())
	onePass.Resize(1)
	cells := make([]cell, len(data))
	for i, v := range data {
		cells[i] = v
	}
	onePassVec := buildVector(common.DoubleType(), cells)
	VarianceKernel{}.Consume(onePass, onePassVec, make([]uint32, len(data)), len(data))

	left := VarianceKernel{Project: projectVariance}.Init(opts, common.DoubleType())
	right := VarianceKernel{Project: projectVariance}.Init(opts, common.DoubleType())
	left.Resize(1)
	right.Resize(1)
	leftCells := make([]cell, 3)
	rightCells := make([]cell, 3)
	for i := 0; i < 3; i++ {
		leftCells[i] = data[i]
		rightCells[i] = data[i+3]
	}
	leftVec := buildVector(common.DoubleType(), leftCells)
	rightVec := buildVector(common.DoubleType(), rightCells)
	VarianceKernel{}.Consume(left, leftVec, []uint32{0, 0, 0}, 3)
	VarianceKernel{}.Consume(right, rightVec, []uint32{0, 0, 0}, 3)
	left.Merge(right, []uint32{0})

	assert.InDelta(t, onePass.Finalize().GetValue(0).F64, left.Finalize().GetValue(0).F64, 1e-9)
}
