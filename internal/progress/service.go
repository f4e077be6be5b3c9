package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/store"
)

// StateKey is the state entry learner profiles are persisted under.
const StateKey = "lingua-agents-user"

// DefaultNativeLanguage is the learner's assumed native language.
const DefaultNativeLanguage = "en"

var (
	// ErrNoProfile is returned when a language has no profile yet.
	ErrNoProfile = errors.New("no profile for language")

	// ErrNegativeXP is returned when asked to subtract XP.
	ErrNegativeXP = errors.New("xp amount must not be negative")
)

type state struct {
	UserID         string                     `json:"userId"`
	Profiles       map[lang.Language]*Profile `json:"profiles"`
	ActiveLanguage lang.Language              `json:"activeLanguage,omitempty"`
	Onboarded      bool                       `json:"onboarded"`
}

func emptyState() state {
	st := state{UserID: uuid.NewString(), Profiles: make(map[lang.Language]*Profile)}
	for _, l := range lang.All() {
		st.Profiles[l] = nil
	}
	return st
}

// Service owns the learner's profiles and persists them after each
// mutation.
type Service struct {
	mu   sync.Mutex
	repo store.StateRepo
	st   state
	now  func() time.Time
}

// NewService creates a profile service, loading persisted state.
func NewService(ctx context.Context, repo store.StateRepo) (*Service, error) {
	s := &Service{repo: repo, now: time.Now}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces in-memory state with the persisted entry.
func (s *Service) Reload(ctx context.Context) error {
	st := emptyState()
	if _, err := store.LoadJSON(ctx, s.repo, StateKey, &st); err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	if st.Profiles == nil {
		st.Profiles = emptyState().Profiles
	}
	for _, p := range st.Profiles {
		if p != nil {
			p.normalize()
		}
	}

	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	if err := store.SaveJSON(ctx, s.repo, StateKey, s.st, 0); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

// update applies fn to l's profile and persists the result.
func (s *Service) update(ctx context.Context, l lang.Language, fn func(p *Profile) error) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.st.Profiles[l]
	if p == nil {
		return Profile{}, fmt.Errorf("%s: %w", l, ErrNoProfile)
	}
	if err := fn(p); err != nil {
		return p.clone(), err
	}
	return p.clone(), s.persist(ctx)
}

// CreateProfile starts learning l at level, A1 when level is empty, and
// makes l the active language. An existing profile is kept as is.
func (s *Service) CreateProfile(ctx context.Context, l lang.Language, level lang.Level) (Profile, error) {
	if !l.Valid() {
		return Profile{}, fmt.Errorf("create profile: unsupported language %q", l)
	}
	if level == "" {
		level = lang.A1
	}
	if !level.Valid() {
		return Profile{}, fmt.Errorf("create profile: unsupported CEFR level %q", level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.st.Profiles[l]
	if p == nil {
		p = &Profile{
			ID:             uuid.NewString(),
			TargetLanguage: l,
			NativeLanguage: DefaultNativeLanguage,
			CEFRLevel:      level,
		}
		p.normalize()
		s.st.Profiles[l] = p
	}
	s.st.ActiveLanguage = l
	return p.clone(), s.persist(ctx)
}

// Profile returns l's profile.
func (s *Service) Profile(l lang.Language) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.st.Profiles[l]
	if p == nil {
		return Profile{}, fmt.Errorf("%s: %w", l, ErrNoProfile)
	}
	return p.clone(), nil
}

// Profiles returns every created profile in language order.
func (s *Service) Profiles() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Profile
	for _, l := range lang.All() {
		if p := s.st.Profiles[l]; p != nil {
			out = append(out, p.clone())
		}
	}
	return out
}

// UpdateLevel sets l's CEFR level and returns the previous one.
func (s *Service) UpdateLevel(ctx context.Context, l lang.Language, level lang.Level) (lang.Level, error) {
	if !level.Valid() {
		return "", fmt.Errorf("update level: unsupported CEFR level %q", level)
	}
	var old lang.Level
	_, err := s.update(ctx, l, func(p *Profile) error {
		old = p.CEFRLevel
		p.CEFRLevel = level
		return nil
	})
	return old, err
}

// AddXP adds xp to l's total. XP never decreases outside Reset.
func (s *Service) AddXP(ctx context.Context, l lang.Language, xp int) (Profile, error) {
	if xp < 0 {
		return Profile{}, fmt.Errorf("add %d xp: %w", xp, ErrNegativeXP)
	}
	return s.update(ctx, l, func(p *Profile) error {
		p.TotalXP += xp
		return nil
	})
}

// IncrementStreak adds one day to l's streak.
func (s *Service) IncrementStreak(ctx context.Context, l lang.Language) (Profile, error) {
	return s.update(ctx, l, func(p *Profile) error {
		p.Streak++
		return nil
	})
}

// RecordActivity updates l's streak for activity now. The streak grows on
// the first activity of a UTC day that follows an active day, restarts at
// one after a gap, and is unchanged for repeat activity on the same day.
func (s *Service) RecordActivity(ctx context.Context, l lang.Language) (Profile, error) {
	now := s.now().UTC()
	today := now.Format(time.DateOnly)
	yesterday := now.AddDate(0, 0, -1).Format(time.DateOnly)

	return s.update(ctx, l, func(p *Profile) error {
		switch p.LastActiveDate {
		case today:
			return nil
		case yesterday:
			p.Streak++
		default:
			p.Streak = 1
		}
		p.LastActiveDate = today
		return nil
	})
}

// AddCompletedTopic records topic as completed. The returned bool reports
// whether it was new.
func (s *Service) AddCompletedTopic(ctx context.Context, l lang.Language, topic string) (bool, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return false, fmt.Errorf("add topic: empty topic")
	}
	added := false
	_, err := s.update(ctx, l, func(p *Profile) error {
		if p.HasTopic(topic) {
			return nil
		}
		p.CompletedTopics = append(p.CompletedTopics, topic)
		added = true
		return nil
	})
	return added, err
}

// UpdateSkill adds delta to a skill score, clamped to [0, MaxSkill], and
// returns the new score.
func (s *Service) UpdateSkill(ctx context.Context, l lang.Language, skill Skill, delta int) (int, error) {
	if !skill.Valid() {
		return 0, fmt.Errorf("update skill: unknown skill %q", skill)
	}
	p, err := s.update(ctx, l, func(p *Profile) error {
		p.SkillScores[skill] = max(0, min(MaxSkill, p.SkillScores[skill]+delta))
		return nil
	})
	return p.SkillScores[skill], err
}

// SetActiveLanguage switches the language new sessions use.
func (s *Service) SetActiveLanguage(ctx context.Context, l lang.Language) error {
	if !l.Valid() {
		return fmt.Errorf("set active language: unsupported language %q", l)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.ActiveLanguage = l
	return s.persist(ctx)
}

// ActiveLanguage returns the active language, or "" before onboarding.
func (s *Service) ActiveLanguage() lang.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ActiveLanguage
}

// ActiveProfile returns the profile of the active language.
func (s *Service) ActiveProfile() (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.st.ActiveLanguage
	if l == "" || s.st.Profiles[l] == nil {
		return Profile{}, fmt.Errorf("active language %q: %w", l, ErrNoProfile)
	}
	return s.st.Profiles[l].clone(), nil
}

// Onboarded reports whether the learner finished onboarding.
func (s *Service) Onboarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Onboarded
}

// SetOnboarded records the onboarding flag.
func (s *Service) SetOnboarded(ctx context.Context, v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Onboarded = v
	return s.persist(ctx)
}

// UserID returns the learner's anonymous id.
func (s *Service) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UserID
}

// Reset drops every profile and issues a new user id.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st = emptyState()
	return s.persist(ctx)
}
