package vocab

import "time"

// Intervals is the review delay table, indexed by review count.
var Intervals = []time.Duration{
	1 * time.Hour,
	6 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

const (
	// CorrectDelta is added to mastery on a correct answer.
	CorrectDelta = 0.15
	// IncorrectDelta is added to mastery on an incorrect answer.
	IncorrectDelta = -0.20
	// MasteredThreshold is the mastery at which a word counts as mastered.
	MasteredThreshold = 0.8
	// DefaultDueLimit caps due-word queries when no limit is given.
	DefaultDueLimit = 10
	// DefaultRecentLimit caps recent-word queries when no limit is given.
	DefaultRecentLimit = 20
)

// NextInterval returns the delay until the next review. An incorrect answer
// always resets to the shortest interval.
func NextInterval(reviewCount int, correct bool) time.Duration {
	if !correct {
		return Intervals[0]
	}
	idx := reviewCount
	if idx < 0 {
		idx = 0
	}
	if idx > len(Intervals)-1 {
		idx = len(Intervals) - 1
	}
	return Intervals[idx]
}

func clampMastery(m float64) float64 {
	if m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}
