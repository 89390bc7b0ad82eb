package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLTypeGetInternalTypeMapsFamilies(t *testing.T) {
	assert.Equal(t, INT32, IntegerType().PTyp)
	assert.Equal(t, DOUBLE, DoubleType().PTyp)
	assert.Equal(t, VARCHAR, VarcharType().PTyp)
	assert.Equal(t, HUGEINT, HugeintType().PTyp)
	assert.Equal(t, DECIMAL128, Decimal128Type(10, 2).PTyp)
}

func TestLTypeEqualComparesWidthAndScaleWhereItMatters(t *testing.T) {
	assert.True(t, Decimal128Type(10, 2).Equal(Decimal128Type(10, 2)))
	assert.False(t, Decimal128Type(10, 2).Equal(Decimal128Type(10, 3)))
	assert.False(t, Decimal128Type(10, 2).Equal(Decimal256Type(10, 2)))
	assert.True(t, IntegerType().Equal(IntegerType()))
}

func TestLTypeComparableExcludesNestedFamilies(t *testing.T) {
	assert.True(t, IntegerType().Comparable())
	assert.True(t, DoubleType().Comparable())
	nested := LType{Id: LTID_LIST}
	assert.False(t, nested.Comparable())
}

func TestLTypeIsIntegralAndIsDecimal(t *testing.T) {
	assert.True(t, BigintType().IsIntegral())
	assert.False(t, DoubleType().IsIntegral())
	assert.True(t, Decimal128Type(5, 1).IsDecimal())
	assert.False(t, BigintType().IsDecimal())
}
