package vocab

import (
	"sort"
	"time"
)

// Entry is one vocabulary word tracked for spaced repetition.
type Entry struct {
	ID             string     `json:"id"`
	Word           string     `json:"word"`
	Translation    string     `json:"translation"`
	PartOfSpeech   string     `json:"partOfSpeech,omitempty"`
	Example        string     `json:"example,omitempty"`
	Mastery        float64    `json:"mastery"`
	NextReviewAt   time.Time  `json:"nextReviewAt"`
	ReviewCount    int        `json:"reviewCount"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// IsDue returns true if the word's review time has passed and it is not
// fully mastered.
func (e Entry) IsDue(now time.Time) bool {
	return !now.Before(e.NextReviewAt) && e.Mastery < 1
}

// IsMastered reports whether the word has crossed MasteredThreshold.
func (e Entry) IsMastered() bool {
	return e.Mastery >= MasteredThreshold
}

// Review applies one review outcome and returns the updated entry.
func Review(e Entry, correct bool, now time.Time) Entry {
	if correct {
		e.ReviewCount++
		e.Mastery = clampMastery(e.Mastery + CorrectDelta)
	} else {
		e.ReviewCount = max(0, e.ReviewCount-1)
		e.Mastery = clampMastery(e.Mastery + IncorrectDelta)
	}
	e.NextReviewAt = now.Add(NextInterval(e.ReviewCount, correct))
	reviewed := now
	e.LastReviewedAt = &reviewed
	return e
}

// Due returns the words due for review, soonest first. A non-positive limit
// means DefaultDueLimit.
func Due(entries []Entry, now time.Time, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultDueLimit
	}

	due := []Entry{}
	for _, e := range entries {
		if e.IsDue(now) {
			due = append(due, e)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due
}

// Stats summarises a language's vocabulary.
type Stats struct {
	Total        int `json:"total"`
	Mastered     int `json:"mastered"`
	Learning     int `json:"learning"`
	DueForReview int `json:"dueForReview"`
}

// ComputeStats counts mastered, learning and due words.
func ComputeStats(entries []Entry, now time.Time) Stats {
	st := Stats{Total: len(entries)}
	for _, e := range entries {
		switch {
		case e.IsMastered():
			st.Mastered++
		case e.Mastery > 0:
			st.Learning++
		}
		if e.IsDue(now) {
			st.DueForReview++
		}
	}
	return st
}
