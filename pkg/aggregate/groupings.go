package aggregate

// MakeGroupings returns, for each group id in [0, numGroups), the ascending
// row-index positions in ids that equal that group id.
func MakeGroupings(ids []uint32, numGroups uint32) ([][]int32, error) {
	groupings := make([][]int32, numGroups)
	for i, id := range ids {
		groupings[id] = append(groupings[id], int32(i))
	}
	return groupings, nil
}

// MakeGroupingsNullable is MakeGroupings for an id column that may carry
// nulls (idValid[i] false means ids[i] is null); any null id is rejected.
func MakeGroupingsNullable(ids []uint32, idValid []bool, numGroups uint32) ([][]int32, error) {
	for _, valid := range idValid {
		if !valid {
			return nil, Invalid("MakeGroupings with null ids")
		}
	}
	return MakeGroupings(ids, numGroups)
}

// ApplyGroupings reshapes values by the row-index lists MakeGroupings
// produced: result[i] = values.take(groupings[i]).
func ApplyGroupings[T any](groupings [][]int32, values []T) [][]T {
	result := make([][]T, len(groupings))
	for i, rows := range groupings {
		taken := make([]T, len(rows))
		for j, r := range rows {
			taken[j] = values[r]
		}
		result[i] = taken
	}
	return result
}
