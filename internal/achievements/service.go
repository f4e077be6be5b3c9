package achievements

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/lingua/internal/store"
)

// StateKey is the state entry unlocked achievements are persisted under.
const StateKey = "lingua-agents-achievements"

// ErrUnknownAchievement is returned for ids missing from the catalog.
var ErrUnknownAchievement = errors.New("unknown achievement")

type state struct {
	Unlocked []Unlocked `json:"unlocked"`
}

// Status is a catalog entry joined with the learner's progress on it.
type Status struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
	Progress   float64    `json:"progress"`
}

// Service tracks which achievements the learner has earned.
type Service struct {
	mu   sync.Mutex
	repo store.StateRepo
	st   state
	now  func() time.Time
}

// NewService creates an achievement service, loading persisted state.
func NewService(ctx context.Context, repo store.StateRepo) (*Service, error) {
	s := &Service{repo: repo, now: time.Now}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces in-memory state with the persisted entry.
func (s *Service) Reload(ctx context.Context) error {
	var st state
	if _, err := store.LoadJSON(ctx, s.repo, StateKey, &st); err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}
	if st.Unlocked == nil {
		st.Unlocked = []Unlocked{}
	}

	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
	return nil
}

// CheckAndUnlock evaluates stats, records newly earned achievements and
// returns them. Nothing is written when nothing new unlocks.
func (s *Service) CheckAndUnlock(ctx context.Context, stats Stats) ([]Unlocked, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := Evaluate(stats, s.st.Unlocked, s.now())
	if len(fresh) == 0 {
		return nil, nil
	}
	s.st.Unlocked = append(s.st.Unlocked, fresh...)
	if err := store.SaveJSON(ctx, s.repo, StateKey, s.st, 0); err != nil {
		return nil, fmt.Errorf("save achievements: %w", err)
	}
	return fresh, nil
}

// Unlocked returns the earned achievements in unlock order.
func (s *Service) Unlocked() []Unlocked {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Unlocked(nil), s.st.Unlocked...)
}

// IsUnlocked reports whether id has been earned.
func (s *Service) IsUnlocked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.st.Unlocked {
		if u.AchievementID == id {
			return true
		}
	}
	return false
}

// Progress returns progress towards id.
func (s *Service) Progress(id string, stats Stats) (float64, error) {
	if _, ok := Lookup(id); !ok {
		return 0, fmt.Errorf("%q: %w", id, ErrUnknownAchievement)
	}
	return Progress(id, stats), nil
}

// Statuses returns the whole catalog with lock state and progress.
func (s *Service) Statuses(stats Stats) []Status {
	s.mu.Lock()
	when := make(map[string]time.Time, len(s.st.Unlocked))
	for _, u := range s.st.Unlocked {
		when[u.AchievementID] = u.UnlockedAt
	}
	s.mu.Unlock()

	out := make([]Status, 0, len(catalog))
	for _, a := range catalog {
		st := Status{Achievement: a, Progress: Progress(a.ID, stats)}
		if t, ok := when[a.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = &t
			st.Progress = 1
		}
		out = append(out, st)
	}
	return out
}

// Reset forgets every unlocked achievement.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st = state{Unlocked: []Unlocked{}}
	if err := store.SaveJSON(ctx, s.repo, StateKey, s.st, 0); err != nil {
		return fmt.Errorf("save achievements: %w", err)
	}
	return nil
}
