package topsis

import "sort"

// Rank returns the indices of scores ordered from highest to lowest score.
// Equal scores keep their original relative order, so the lower index wins a tie.
func Rank(scores []float64) []int {
	indexes := make([]int, len(scores))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return scores[indexes[a]] > scores[indexes[b]]
	})
	return indexes
}

// Positions converts an ordering produced by Rank into 1-based rank positions
// per alternative: Positions(order)[i] is the rank of alternative i.
func Positions(order []int) []int {
	pos := make([]int, len(order))
	for rank, idx := range order {
		pos[idx] = rank + 1
	}
	return pos
}
