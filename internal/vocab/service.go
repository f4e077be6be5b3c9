package vocab

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/store"
)

// StateKey is the state entry the vocabulary is persisted under.
const StateKey = "lingua-agents-vocabulary"

// ErrWordNotFound is returned when a word id or spelling is unknown.
var ErrWordNotFound = errors.New("word not found")

// NewWord is a word to be added to a language's vocabulary.
type NewWord struct {
	Word         string `json:"word"`
	Translation  string `json:"translation"`
	PartOfSpeech string `json:"partOfSpeech,omitempty"`
	Example      string `json:"example,omitempty"`
}

type state struct {
	Entries map[lang.Language][]Entry `json:"entries"`
}

func emptyState() state {
	st := state{Entries: make(map[lang.Language][]Entry)}
	for _, l := range lang.All() {
		st.Entries[l] = []Entry{}
	}
	return st
}

// Service owns every language's vocabulary and persists it after each
// mutation.
type Service struct {
	mu   sync.Mutex
	repo store.StateRepo
	st   state
	now  func() time.Time
}

// NewService creates a vocabulary service, loading persisted state.
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
		return fmt.Errorf("load vocabulary: %w", err)
	}
	if st.Entries == nil {
		st.Entries = emptyState().Entries
	}

	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	if err := store.SaveJSON(ctx, s.repo, StateKey, s.st, 0); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}

func (s *Service) newEntry(w NewWord, now time.Time) Entry {
	return Entry{
		ID:           uuid.NewString(),
		Word:         strings.TrimSpace(w.Word),
		Translation:  strings.TrimSpace(w.Translation),
		PartOfSpeech: w.PartOfSpeech,
		Example:      w.Example,
		NextReviewAt: now.Add(Intervals[0]),
		CreatedAt:    now,
	}
}

func indexOfWord(entries []Entry, word string) int {
	for i, e := range entries {
		if strings.EqualFold(e.Word, word) {
			return i
		}
	}
	return -1
}

// AddWord adds a word unless the language already has it, compared
// case-insensitively. The returned bool reports whether it was added.
func (s *Service) AddWord(ctx context.Context, l lang.Language, w NewWord) (Entry, bool, error) {
	if strings.TrimSpace(w.Word) == "" {
		return Entry{}, false, fmt.Errorf("add word: empty word")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.st.Entries[l]
	if i := indexOfWord(entries, strings.TrimSpace(w.Word)); i >= 0 {
		return entries[i], false, nil
	}

	e := s.newEntry(w, s.now())
	s.st.Entries[l] = append(entries, e)
	return e, true, s.persist(ctx)
}

// AddWords adds every word not already present and returns how many were
// added. Duplicates inside words are collapsed too.
func (s *Service) AddWords(ctx context.Context, l lang.Language, words []NewWord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	seen := make(map[string]bool)
	for _, e := range s.st.Entries[l] {
		seen[strings.ToLower(e.Word)] = true
	}

	added := 0
	for _, w := range words {
		key := strings.ToLower(strings.TrimSpace(w.Word))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		s.st.Entries[l] = append(s.st.Entries[l], s.newEntry(w, now))
		added++
	}

	if added == 0 {
		return 0, nil
	}
	return added, s.persist(ctx)
}

// ReviewWord applies a review outcome to the word with the given id.
func (s *Service) ReviewWord(ctx context.Context, l lang.Language, id string, correct bool) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.st.Entries[l]
	for i := range entries {
		if entries[i].ID == id {
			entries[i] = Review(entries[i], correct, s.now())
			return entries[i], s.persist(ctx)
		}
	}
	return Entry{}, fmt.Errorf("review %s: %w", id, ErrWordNotFound)
}

// ReviewByWord applies a review outcome to a word looked up by spelling.
func (s *Service) ReviewByWord(ctx context.Context, l lang.Language, word string, correct bool) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.st.Entries[l]
	i := indexOfWord(entries, strings.TrimSpace(word))
	if i < 0 {
		return Entry{}, fmt.Errorf("review %q: %w", word, ErrWordNotFound)
	}
	entries[i] = Review(entries[i], correct, s.now())
	return entries[i], s.persist(ctx)
}

// WordsForReview returns due words, soonest first.
func (s *Service) WordsForReview(l lang.Language, limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Due(s.st.Entries[l], s.now(), limit)
}

// KnownWords returns every word spelling in insertion order.
func (s *Service) KnownWords(l lang.Language) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := make([]string, len(s.st.Entries[l]))
	for i, e := range s.st.Entries[l] {
		words[i] = e.Word
	}
	return words
}

// RecentWords returns the newest words first. A non-positive limit means
// DefaultRecentLimit.
func (s *Service) RecentWords(l lang.Language, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.Lock()
	recent := append(make([]Entry, 0, len(s.st.Entries[l])), s.st.Entries[l]...)
	s.mu.Unlock()

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// Entries returns a copy of a language's vocabulary.
func (s *Service) Entries(l lang.Language) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]Entry, 0, len(s.st.Entries[l])), s.st.Entries[l]...)
}

// Stats summarises one language.
func (s *Service) Stats(l lang.Language) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStats(s.st.Entries[l], s.now())
}

// TotalStats summarises every language together.
func (s *Service) TotalStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []Entry
	for _, entries := range s.st.Entries {
		all = append(all, entries...)
	}
	return ComputeStats(all, s.now())
}

// RemoveWord deletes a word by id.
func (s *Service) RemoveWord(ctx context.Context, l lang.Language, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.st.Entries[l]
	for i := range entries {
		if entries[i].ID == id {
			s.st.Entries[l] = append(entries[:i:i], entries[i+1:]...)
			return s.persist(ctx)
		}
	}
	return fmt.Errorf("remove %s: %w", id, ErrWordNotFound)
}

// Reset clears every language's vocabulary.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st = emptyState()
	return s.persist(ctx)
}
