package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecimalAddAccumulates(t *testing.T) {
	a := DecimalFromInt64(125, 2) // 1.25
	b := DecimalFromInt64(275, 2) // 2.75
	sum := a.Add(b)
	assert.InDelta(t, 4.0, sum.Float64(), 1e-9)
}

func TestDecimalOrderingMatchesMagnitude(t *testing.T) {
	small := DecimalFromInt64(100, 2)
	big := DecimalFromInt64(200, 2)
	assert.True(t, small.Less(big))
	assert.True(t, big.Greater(small))
	assert.False(t, small.Equal(big))
}

func TestDecimalNegate(t *testing.T) {
	d := DecimalFromInt64(150, 2)
	assert.InDelta(t, -1.5, d.Negate().Float64(), 1e-9)
}
