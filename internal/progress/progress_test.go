package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/store"
)

var t0 = time.Date(2026, 5, 4, 22, 30, 0, 0, time.UTC)

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

func TestCreateProfile_Defaults(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, lang.German, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.CEFRLevel != lang.A1 || p.NativeLanguage != "en" || p.TotalXP != 0 {
		t.Errorf("profile = %+v", p)
	}
	if len(p.SkillScores) != 5 || len(p.CompletedTopics) != 0 {
		t.Errorf("skills/topics not initialised: %+v", p)
	}
	if svc.ActiveLanguage() != lang.German {
		t.Errorf("active language = %q", svc.ActiveLanguage())
	}

	if _, err := svc.AddXP(ctx, lang.German, 40); err != nil {
		t.Fatalf("add xp: %v", err)
	}
	again, err := svc.CreateProfile(ctx, lang.German, lang.C1)
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if again.ID != p.ID || again.TotalXP != 40 || again.CEFRLevel != lang.A1 {
		t.Errorf("existing profile should be kept: %+v", again)
	}

	if _, err := svc.CreateProfile(ctx, "fr", lang.A1); err == nil {
		t.Error("expected unsupported language error")
	}
	if _, err := svc.CreateProfile(ctx, lang.Spanish, "D4"); err == nil {
		t.Error("expected unsupported level error")
	}
}

func TestMutationsRequireProfile(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.AddXP(ctx, lang.Spanish, 5); !errors.Is(err, ErrNoProfile) {
		t.Errorf("AddXP: expected ErrNoProfile, got %v", err)
	}
	if _, err := svc.UpdateLevel(ctx, lang.Spanish, lang.B1); !errors.Is(err, ErrNoProfile) {
		t.Errorf("UpdateLevel: expected ErrNoProfile, got %v", err)
	}
	if _, err := svc.ActiveProfile(); !errors.Is(err, ErrNoProfile) {
		t.Errorf("ActiveProfile: expected ErrNoProfile, got %v", err)
	}
}

func TestAddXP_RejectsNegative(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.CreateProfile(ctx, lang.Spanish, lang.A2); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddXP(ctx, lang.Spanish, 25); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddXP(ctx, lang.Spanish, -10); !errors.Is(err, ErrNegativeXP) {
		t.Fatalf("expected ErrNegativeXP, got %v", err)
	}
	p, _ := svc.Profile(lang.Spanish)
	if p.TotalXP != 25 {
		t.Errorf("xp = %d, want 25", p.TotalXP)
	}
}

func TestUpdateSkill_Clamps(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.CreateProfile(ctx, lang.English, lang.B2); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		delta int
		want  int
	}{
		{2, 2},
		{-5, 0},
		{150, 100},
		{1, 100},
		{-30, 70},
	}
	for _, tt := range tests {
		got, err := svc.UpdateSkill(ctx, lang.English, SkillCulture, tt.delta)
		if err != nil {
			t.Fatalf("update skill: %v", err)
		}
		if got != tt.want {
			t.Errorf("after %+d: score = %d, want %d", tt.delta, got, tt.want)
		}
	}
	if _, err := svc.UpdateSkill(ctx, lang.English, "listening", 1); err == nil {
		t.Error("expected unknown skill error")
	}
}

func TestAddCompletedTopic_Deduplicates(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.CreateProfile(ctx, lang.Spanish, lang.A1); err != nil {
		t.Fatal(err)
	}

	for i, want := range []bool{true, false} {
		added, err := svc.AddCompletedTopic(ctx, lang.Spanish, "Greetings and introductions")
		if err != nil {
			t.Fatalf("add topic: %v", err)
		}
		if added != want {
			t.Errorf("call %d added = %v, want %v", i, added, want)
		}
	}
	p, _ := svc.Profile(lang.Spanish)
	if len(p.CompletedTopics) != 1 {
		t.Errorf("topics = %v", p.CompletedTopics)
	}
}

func TestUpdateLevel_ReturnsPrevious(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.CreateProfile(ctx, lang.German, lang.A2); err != nil {
		t.Fatal(err)
	}

	old, err := svc.UpdateLevel(ctx, lang.German, lang.B1)
	if err != nil {
		t.Fatalf("update level: %v", err)
	}
	if old != lang.A2 {
		t.Errorf("old = %q", old)
	}
	p, _ := svc.ActiveProfile()
	if p.CEFRLevel != lang.B1 {
		t.Errorf("level = %q", p.CEFRLevel)
	}
}

func TestRecordActivity_Streak(t *testing.T) {
	svc, clock := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.CreateProfile(ctx, lang.Spanish, lang.A1); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		advance time.Duration
		want    int
	}{
		{0, 1},
		{2 * time.Hour, 2}, // past midnight UTC
		{10 * time.Minute, 2},
		{24 * time.Hour, 3},
		{72 * time.Hour, 1},
	}
	for i, st := range steps {
		*clock = clock.Add(st.advance)
		p, err := svc.RecordActivity(ctx, lang.Spanish)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if p.Streak != st.want {
			t.Errorf("step %d: streak = %d, want %d", i, p.Streak, st.want)
		}
	}
}

func TestPersistAndReset(t *testing.T) {
	repo := store.NewMemoryStateRepo()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.CreateProfile(ctx, lang.English, lang.B1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateProfile(ctx, lang.Spanish, lang.A1); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetActiveLanguage(ctx, lang.English); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetOnboarded(ctx, true); err != nil {
		t.Fatal(err)
	}
	id := svc.UserID()

	reloaded, _ := newTestService(t, repo)
	if got := len(reloaded.Profiles()); got != 2 {
		t.Fatalf("profiles = %d", got)
	}
	if reloaded.ActiveLanguage() != lang.English || !reloaded.Onboarded() || reloaded.UserID() != id {
		t.Errorf("state not persisted: active=%q onboarded=%v", reloaded.ActiveLanguage(), reloaded.Onboarded())
	}

	if err := reloaded.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(reloaded.Profiles()) != 0 || reloaded.Onboarded() || reloaded.UserID() == id {
		t.Error("reset should clear profiles and issue a new user id")
	}
}

func TestSkillFor(t *testing.T) {
	tests := map[lang.SessionType]Skill{
		lang.SessionConversation: SkillConversation,
		lang.SessionLesson:       SkillGrammar,
		lang.SessionVocabulary:   SkillVocabulary,
		lang.SessionCulture:      SkillCulture,
		lang.SessionExercise:     SkillGrammar,
		lang.SessionAssessment:   SkillReading,
	}
	for st, want := range tests {
		if got := SkillFor(st); got != want {
			t.Errorf("SkillFor(%s) = %s, want %s", st, got, want)
		}
	}
}

func TestDailyTracker_RollsOver(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryStateRepo()
	d, err := NewDailyTracker(ctx, repo)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	clock := t0
	d.now = func() time.Time { return clock }

	d.RecordMessage(ctx)
	d.RecordMessage(ctx)
	got, err := d.RecordWordReview(ctx)
	if err != nil {
		t.Fatalf("record review: %v", err)
	}
	if got != (Daily{Date: "2026-05-04", MessagesSent: 2, WordsReviewed: 1}) {
		t.Errorf("daily = %+v", got)
	}

	reloaded, err := NewDailyTracker(ctx, repo)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	reloaded.now = func() time.Time { return clock }
	if reloaded.Today().MessagesSent != 2 {
		t.Errorf("reloaded = %+v", reloaded.Today())
	}

	clock = t0.Add(2 * time.Hour)
	if today := reloaded.Today(); today != (Daily{Date: "2026-05-05"}) {
		t.Errorf("after midnight = %+v", today)
	}
	next, _ := reloaded.RecordMessage(ctx)
	if next.MessagesSent != 1 || next.WordsReviewed != 0 {
		t.Errorf("rolled over = %+v", next)
	}
}
