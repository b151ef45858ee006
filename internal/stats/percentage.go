package stats

import "math"

// Percentage computes the month-over-month delta between current and
// previous as a percentage, rounded to two decimal places.
//
// A zero baseline returns current*100: dashboards consuming this API expect
// that exact magnitude for "grew from nothing", so no other zero-handling
// rule may be substituted. Inputs are counts and currency sums and are
// therefore non-negative.
func Percentage(current, previous float64) float64 {
	if previous == 0 {
		return round2(current * 100)
	}
	return round2((current - previous) / previous * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
