package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/lingua/internal/store"
)

// DailyStateKey is the state entry daily counters are persisted under.
const DailyStateKey = "lingua-agents-gamification"

// Daily counts today's activity. Date is a UTC YYYY-MM-DD day.
type Daily struct {
	Date          string `json:"date"`
	MessagesSent  int    `json:"messagesSent"`
	WordsReviewed int    `json:"wordsReviewed"`
}

type dailyState struct {
	DailyStats Daily `json:"dailyStats"`
}

// DailyTracker keeps the activity counters for the current UTC day.
// Counters start over at zero when the day changes.
type DailyTracker struct {
	mu   sync.Mutex
	repo store.StateRepo
	st   dailyState
	now  func() time.Time
}

// NewDailyTracker creates a tracker, loading persisted counters.
func NewDailyTracker(ctx context.Context, repo store.StateRepo) (*DailyTracker, error) {
	d := &DailyTracker{repo: repo, now: time.Now}
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload replaces in-memory counters with the persisted entry.
func (d *DailyTracker) Reload(ctx context.Context) error {
	var st dailyState
	if _, err := store.LoadJSON(ctx, d.repo, DailyStateKey, &st); err != nil {
		return fmt.Errorf("load daily stats: %w", err)
	}

	d.mu.Lock()
	d.st = st
	d.mu.Unlock()
	return nil
}

func (d *DailyTracker) today() string {
	return d.now().UTC().Format(time.DateOnly)
}

// current returns today's counters, rolling over if the stored day is old.
func (d *DailyTracker) current() *Daily {
	if today := d.today(); d.st.DailyStats.Date != today {
		d.st.DailyStats = Daily{Date: today}
	}
	return &d.st.DailyStats
}

// RecordMessage counts one sent message.
func (d *DailyTracker) RecordMessage(ctx context.Context) (Daily, error) {
	return d.record(ctx, func(s *Daily) { s.MessagesSent++ })
}

// RecordWordReview counts one reviewed word.
func (d *DailyTracker) RecordWordReview(ctx context.Context) (Daily, error) {
	return d.record(ctx, func(s *Daily) { s.WordsReviewed++ })
}

func (d *DailyTracker) record(ctx context.Context, fn func(*Daily)) (Daily, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.current()
	fn(cur)
	if err := store.SaveJSON(ctx, d.repo, DailyStateKey, d.st, 0); err != nil {
		return *cur, fmt.Errorf("save daily stats: %w", err)
	}
	return *cur, nil
}

// Today returns today's counters without modifying stored state.
func (d *DailyTracker) Today() Daily {
	d.mu.Lock()
	defer d.mu.Unlock()

	if today := d.today(); d.st.DailyStats.Date != today {
		return Daily{Date: today}
	}
	return d.st.DailyStats
}

// Reset clears today's counters.
func (d *DailyTracker) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.st = dailyState{DailyStats: Daily{Date: d.today()}}
	if err := store.SaveJSON(ctx, d.repo, DailyStateKey, d.st, 0); err != nil {
		return fmt.Errorf("save daily stats: %w", err)
	}
	return nil
}
