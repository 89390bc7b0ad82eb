package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

func vecs(v *chunk.Vector) []*chunk.Vector { return []*chunk.Vector{v} }

func TestKeyEncoderAllFixedWidthSelection(t *testing.T) {
	ke := NewKeyEncoder([]common.LType{common.IntegerType(), common.DoubleType()})
	assert.True(t, ke.AllFixedWidth())

	ke = NewKeyEncoder([]common.LType{common.IntegerType(), common.VarcharType()})
	assert.False(t, ke.AllFixedWidth())
}

func TestKeyEncoderNullFlagDistinguishesNullFromValue(t *testing.T) {
	ke := NewKeyEncoder([]common.LType{common.IntegerType()})
	val := buildVector(common.IntegerType(), []cell{0})
	null := buildVector(common.IntegerType(), []cell{nil})

	encVal := ke.EncodeRow(vecs(val), 0, nil)
	encNull := ke.EncodeRow(vecs(null), 0, nil)
	assert.NotEqual(t, encVal, encNull)
}

func TestKeyEncoderFloatBitPatternEquality(t *testing.T) {
	ke := NewKeyEncoder([]common.LType{common.DoubleType()})

	posZero := buildVector(common.DoubleType(), []cell{0.0})
	negZero := buildVector(common.DoubleType(), []cell{math.Copysign(0, -1)})
	nan1 := buildVector(common.DoubleType(), []cell{math.NaN()})
	nan2 := buildVector(common.DoubleType(), []cell{math.NaN()})

	encPosZero := ke.EncodeRow(vecs(posZero), 0, nil)
	encNegZero := ke.EncodeRow(vecs(negZero), 0, nil)
	encNaN1 := ke.EncodeRow(vecs(nan1), 0, nil)
	encNaN2 := ke.EncodeRow(vecs(nan2), 0, nil)

	assert.NotEqual(t, encPosZero, encNegZero, "+0.0 and -0.0 must encode differently")
	assert.Equal(t, encNaN1, encNaN2, "identical NaN bit patterns must encode identically")
}

func TestKeyEncoderVarcharLengthPrefixed(t *testing.T) {
	ke := NewKeyEncoder([]common.LType{common.VarcharType()})
	require.False(t, ke.AllFixedWidth())

	short := buildVector(common.VarcharType(), []cell{"a"})
	long := buildVector(common.VarcharType(), []cell{"aa"})
	encShort := ke.EncodeRow(vecs(short), 0, nil)
	encLong := ke.EncodeRow(vecs(long), 0, nil)
	assert.NotEqual(t, encShort, encLong)
}
