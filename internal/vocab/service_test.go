package vocab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/store"
)

func newTestService(t *testing.T, repo store.StateRepo) (*Service, *time.Time) {
	t.Helper()
	if repo == nil {
		repo = store.NewMemoryStateRepo()
	}
	svc, err := NewService(context.Background(), repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	clock := t0
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestAddWord_DeduplicatesCaseInsensitively(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	e, added, err := svc.AddWord(ctx, lang.Spanish, NewWord{Word: "Casa", Translation: "house"})
	if err != nil || !added {
		t.Fatalf("first add = %v, %v", added, err)
	}
	if e.Mastery != 0 || e.ReviewCount != 0 || e.LastReviewedAt != nil {
		t.Errorf("new entry not pristine: %+v", e)
	}
	if !e.NextReviewAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("nextReviewAt = %v, want now+1h", e.NextReviewAt)
	}

	dup, added, err := svc.AddWord(ctx, lang.Spanish, NewWord{Word: "casa", Translation: "home"})
	if err != nil || added {
		t.Fatalf("duplicate add = %v, %v", added, err)
	}
	if dup.ID != e.ID || dup.Translation != "house" {
		t.Errorf("duplicate returned %+v, want the original", dup)
	}

	// Same spelling in another language is a different word.
	if _, added, _ := svc.AddWord(ctx, lang.German, NewWord{Word: "casa", Translation: "x"}); !added {
		t.Error("expected word to be added to a different language")
	}

	if _, _, err := svc.AddWord(ctx, lang.Spanish, NewWord{Word: "  "}); err == nil {
		t.Error("expected error for empty word")
	}
}

func TestAddWords(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	svc.AddWord(ctx, lang.German, NewWord{Word: "Hund", Translation: "dog"})
	n, err := svc.AddWords(ctx, lang.German, []NewWord{
		{Word: "hund", Translation: "dog"},
		{Word: "Katze", Translation: "cat"},
		{Word: "KATZE", Translation: "cat"},
		{Word: "", Translation: "nothing"},
		{Word: "Maus", Translation: "mouse"},
	})
	if err != nil {
		t.Fatalf("add words: %v", err)
	}
	if n != 2 {
		t.Errorf("added = %d, want 2", n)
	}
	if got := svc.KnownWords(lang.German); len(got) != 3 || got[0] != "Hund" || got[2] != "Maus" {
		t.Errorf("known words = %v", got)
	}
}

func TestReviewWordAndStats(t *testing.T) {
	svc, clock := newTestService(t, nil)
	ctx := context.Background()

	e, _, _ := svc.AddWord(ctx, lang.Spanish, NewWord{Word: "gato", Translation: "cat"})

	if due := svc.WordsForReview(lang.Spanish, 0); len(due) != 0 {
		t.Fatalf("expected nothing due yet, got %d", len(due))
	}

	*clock = t0.Add(2 * time.Hour)
	if due := svc.WordsForReview(lang.Spanish, 0); len(due) != 1 {
		t.Fatalf("expected one due word, got %d", len(due))
	}

	got, err := svc.ReviewWord(ctx, lang.Spanish, e.ID, true)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.ReviewCount != 1 || !approx(got.Mastery, 0.15) {
		t.Errorf("after review = %+v", got)
	}
	if !got.NextReviewAt.Equal(clock.Add(6 * time.Hour)) {
		t.Errorf("next = %v, want now+6h", got.NextReviewAt)
	}

	st := svc.Stats(lang.Spanish)
	if st != (Stats{Total: 1, Learning: 1}) {
		t.Errorf("stats = %+v", st)
	}

	if _, err := svc.ReviewWord(ctx, lang.Spanish, "missing", true); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("err = %v, want ErrWordNotFound", err)
	}
}

func TestReviewByWord(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	svc.AddWord(ctx, lang.English, NewWord{Word: "Serendipity", Translation: "casualidad"})
	got, err := svc.ReviewByWord(ctx, lang.English, "serendipity", false)
	if err != nil {
		t.Fatalf("review by word: %v", err)
	}
	if got.Mastery != 0 || got.LastReviewedAt == nil {
		t.Errorf("after review = %+v", got)
	}
	if _, err := svc.ReviewByWord(ctx, lang.English, "nope", true); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("err = %v, want ErrWordNotFound", err)
	}
}

func TestRecentWords(t *testing.T) {
	svc, clock := newTestService(t, nil)
	ctx := context.Background()

	for i, w := range []string{"uno", "dos", "tres"} {
		*clock = t0.Add(time.Duration(i) * time.Minute)
		svc.AddWord(ctx, lang.Spanish, NewWord{Word: w, Translation: w})
	}

	got := svc.RecentWords(lang.Spanish, 2)
	if len(got) != 2 || got[0].Word != "tres" || got[1].Word != "dos" {
		t.Errorf("recent = %+v", got)
	}
}

func TestRemoveWordAndReset(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	a, _, _ := svc.AddWord(ctx, lang.Spanish, NewWord{Word: "a", Translation: "a"})
	svc.AddWord(ctx, lang.Spanish, NewWord{Word: "b", Translation: "b"})

	if err := svc.RemoveWord(ctx, lang.Spanish, a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := svc.KnownWords(lang.Spanish); len(got) != 1 || got[0] != "b" {
		t.Errorf("known = %v", got)
	}
	if err := svc.RemoveWord(ctx, lang.Spanish, a.ID); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("second remove err = %v", err)
	}

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if st := svc.TotalStats(); st.Total != 0 {
		t.Errorf("total after reset = %d", st.Total)
	}
}

func TestStatePersistsAcrossServices(t *testing.T) {
	repo := store.NewMemoryStateRepo()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	e, _, _ := svc.AddWord(ctx, lang.German, NewWord{Word: "Baum", Translation: "tree", Example: "Der Baum ist grün."})
	if _, err := svc.ReviewWord(ctx, lang.German, e.ID, true); err != nil {
		t.Fatalf("review: %v", err)
	}

	reloaded, _ := newTestService(t, repo)
	got := reloaded.Entries(lang.German)
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	if got[0].ID != e.ID || got[0].ReviewCount != 1 || got[0].Example != "Der Baum ist grün." {
		t.Errorf("reloaded entry = %+v", got[0])
	}
	if reloaded.Entries(lang.Spanish) == nil {
		t.Error("expected empty, non-nil slice for untouched language")
	}
}
