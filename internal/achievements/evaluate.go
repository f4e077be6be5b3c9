package achievements

import "time"

// Evaluate returns every achievement not in unlocked whose statistic has
// reached its requirement, stamped with now, in catalog order.
func Evaluate(stats Stats, unlocked []Unlocked, now time.Time) []Unlocked {
	have := make(map[string]bool, len(unlocked))
	for _, u := range unlocked {
		have[u.AchievementID] = true
	}

	var out []Unlocked
	for _, a := range catalog {
		if have[a.ID] {
			continue
		}
		if stats.Value(a.Stat) >= a.Requirement {
			out = append(out, Unlocked{AchievementID: a.ID, UnlockedAt: now})
		}
	}
	return out
}

// Progress returns how close stats are to unlocking id, in [0, 1].
// Unknown ids report 0.
func Progress(id string, stats Stats) float64 {
	a, ok := byID[id]
	if !ok || a.Requirement <= 0 {
		return 0
	}
	return min(1, float64(stats.Value(a.Stat))/float64(a.Requirement))
}
