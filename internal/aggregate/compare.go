package aggregate

import "github.com/sentinelforge/sentinelforge/internal/api"

// Best returns the index of the winning scorecard row: the row with
// the highest pass rate, where a missing rate counts as 0. Ties keep
// the first row that reached the maximum, so the result is stable in
// encounter order. Returns -1 for an empty slice.
func Best(rows []api.ScorecardRow) int {
	best := -1
	bestRate := -1.0
	for i, row := range rows {
		rate := 0.0
		if row.PassRate != nil {
			rate = *row.PassRate
		}
		if rate > bestRate {
			bestRate = rate
			best = i
		}
	}
	return best
}
