package scoring

// ParetoFrontier returns the indices of the non-dominated rows of matrix.
// Every column is higher-is-better, matching the engine's benefit-only model.
// A row is dominated if another row is >= on all columns and strictly better
// on at least one. O(n^2) dominance check.
func ParetoFrontier(matrix [][]float64) []int {
	if len(matrix) == 0 {
		return nil
	}

	var frontier []int
	for i := range matrix {
		dominated := false
		for j := range matrix {
			if i == j {
				continue
			}
			if dominates(matrix[j], matrix[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, i)
		}
	}
	return frontier
}

// dominates returns true if a dominates b. Rows must have equal length.
func dominates(a, b []float64) bool {
	strict := false
	for k := range a {
		if a[k] < b[k] {
			return false
		}
		if a[k] > b[k] {
			strict = true
		}
	}
	return strict
}
