package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmapDefaultIsAllValid(t *testing.T) {
	bm := &Bitmap{}
	assert.True(t, bm.AllValid())
	assert.True(t, bm.RowIsValid(0))
	assert.True(t, bm.RowIsValid(1000))
}

func TestBitmapSetInvalidAllocatesOnFirstUse(t *testing.T) {
	bm := &Bitmap{}
	bm.SetInvalid(5)
	assert.False(t, bm.RowIsValid(5))
	assert.True(t, bm.RowIsValid(0))
	assert.True(t, bm.RowIsValid(6))
}

func TestBitmapSetValidAfterInvalid(t *testing.T) {
	bm := &Bitmap{}
	bm.SetInvalid(3)
	bm.SetValid(3)
	assert.True(t, bm.RowIsValid(3))
}

func TestBitmapSetAllInvalidThenAllValid(t *testing.T) {
	bm := &Bitmap{}
	bm.SetAllInvalid(10)
	for i := 0; i < 10; i++ {
		assert.False(t, bm.RowIsValid(uint64(i)))
	}
	bm.SetAllValid(10)
	for i := 0; i < 10; i++ {
		assert.True(t, bm.RowIsValid(uint64(i)))
	}
}

func TestBitmapResizeExtendsAsValid(t *testing.T) {
	bm := &Bitmap{}
	bm.SetInvalid(0)
	bm.Resize(8, 16)
	assert.False(t, bm.RowIsValid(0))
	for i := 8; i < 16; i++ {
		assert.True(t, bm.RowIsValid(uint64(i)))
	}
}

func TestBitmapCombineIsLogicalAnd(t *testing.T) {
	a := &Bitmap{}
	a.Init(8)
	a.SetInvalidUnsafe(2)

	b := &Bitmap{}
	b.Init(8)
	b.SetInvalidUnsafe(4)

	a.Combine(b, 8)
	assert.False(t, a.RowIsValid(2))
	assert.False(t, a.RowIsValid(4))
	assert.True(t, a.RowIsValid(0))
}

func TestEntryCount(t *testing.T) {
	assert.Equal(t, 0, EntryCount(0))
	assert.Equal(t, 1, EntryCount(1))
	assert.Equal(t, 1, EntryCount(8))
	assert.Equal(t, 2, EntryCount(9))
}
