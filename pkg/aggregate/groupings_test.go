package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMakeGroupings is scenario S4.
func TestMakeGroupings(t *testing.T) {
	groupings, err := MakeGroupings([]uint32{0, 0, 0, 1, 1, 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]int32{0: {0, 1, 2}, 1: {3, 4}, 2: {5}, 3: nil}, groupings)
}

func TestMakeGroupingsNullableRejectsNullIds(t *testing.T) {
	_, err := MakeGroupingsNullable([]uint32{0, 1, 1}, []bool{true, false, true}, 2)
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestMakeGroupingsNullableAcceptsAllValid(t *testing.T) {
	groupings, err := MakeGroupingsNullable([]uint32{0, 1, 1}, []bool{true, true, true}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int32{{0}, {1, 2}}, groupings)
}

// TestApplyGroupingsIdentity is testable property 6: apply_groupings
// composed with make_groupings on a null-free ids column reproduces a
// per-group filter of the values column.
func TestApplyGroupingsIdentity(t *testing.T) {
	ids := []uint32{0, 1, 0, 2, 1}
	values := []string{"a", "b", "c", "d", "e"}
	groupings, err := MakeGroupings(ids, 3)
	require.NoError(t, err)

	result := ApplyGroupings(groupings, values)
	require.Len(t, result, 3)
	assert.Equal(t, []string{"a", "c"}, result[0])
	assert.Equal(t, []string{"b", "e"}, result[1])
	assert.Equal(t, []string{"d"}, result[2])
}
