package app

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/tutor"
)

func newTestModel(t *testing.T, withProfile bool, responses ...llm.MockResponse) (Model, *learner.Service) {
	t.Helper()
	ctx := context.Background()
	mock := llm.NewMockProvider(responses...)
	tut := tutor.NewService(mock, tutor.DefaultConfig())
	svc, err := learner.New(ctx, store.NewMemoryStateRepo(), tut)
	if err != nil {
		t.Fatalf("new learner: %v", err)
	}
	if withProfile {
		if _, err := svc.Profiles.CreateProfile(ctx, lang.Spanish, lang.A2); err != nil {
			t.Fatal(err)
		}
	}
	m := New(ctx, Options{Learner: svc, Quizzer: tut})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), svc
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// press feeds a key and then runs the resulting commands to completion.
func press(t *testing.T, m Model, key tea.KeyPressMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	return drain(t, next, cmd)
}

func drain(t *testing.T, m tea.Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 100 {
			t.Fatal("command chain did not settle")
		}
		msg := cmd()
		if msg == nil {
			break
		}
		m, cmd = m.Update(msg)
	}
	return m.(Model)
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(keyPress(r))
		m = next.(Model)
	}
	return m
}

func submit(t *testing.T, m Model, text string) Model {
	t.Helper()
	return press(t, typeText(m, text), specialKey(tea.KeyEnter))
}

func lastEntry(m Model) entry {
	if len(m.entries) == 0 {
		return entry{}
	}
	return m.entries[len(m.entries)-1]
}

func TestChat_StreamsReply(t *testing.T) {
	m, svc := newTestModel(t, true, llm.MockResponse{Chunks: []string{"¡Hola!", " ¿Qué tal?"}})

	m = submit(t, m, "hola")

	if m.busy {
		t.Fatal("still busy after the stream ended")
	}
	if len(m.entries) != 3 {
		t.Fatalf("entries = %+v", m.entries)
	}
	if m.entries[0].kind != entryLearner || m.entries[0].text != "hola" {
		t.Errorf("learner entry = %+v", m.entries[0])
	}
	if m.entries[1].kind != entryTutor || m.entries[1].text != "¡Hola! ¿Qué tal?" {
		t.Errorf("tutor entry = %+v", m.entries[1])
	}
	if e := m.entries[2]; e.kind != entryNotice || !strings.Contains(e.text, "+5 XP") {
		t.Errorf("notice = %+v", e)
	}
	if m.input.Model.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Model.Value())
	}

	p, _ := svc.Profiles.Profile(lang.Spanish)
	if p.TotalXP != learner.ExchangeXP {
		t.Errorf("xp = %d", p.TotalXP)
	}
	if !strings.Contains(m.chatView(30), "Qué tal") {
		t.Error("reply missing from the chat view")
	}
}

func TestChat_NoProfile(t *testing.T) {
	m, _ := newTestModel(t, false)
	if len(m.entries) != 1 || m.entries[0].kind != entryNotice {
		t.Fatalf("expected a welcome notice, got %+v", m.entries)
	}

	m = submit(t, m, "hello")
	if e := lastEntry(m); e.kind != entryNotice || !strings.Contains(e.text, "/lang") {
		t.Errorf("last entry = %+v", e)
	}
}

func TestChat_ProviderFailure(t *testing.T) {
	m, svc := newTestModel(t, true)

	m = submit(t, m, "hola")

	if e := lastEntry(m); e.kind != entryError || !strings.Contains(e.text, "tutor unavailable") {
		t.Errorf("last entry = %+v", e)
	}
	p, _ := svc.Profiles.Profile(lang.Spanish)
	if p.TotalXP != 0 {
		t.Errorf("xp awarded for a failed exchange: %d", p.TotalXP)
	}
}

func TestChat_IgnoresInputWhileBusy(t *testing.T) {
	m, _ := newTestModel(t, true)
	m.busy = true
	m = typeText(m, "hola")

	next, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command while busy")
	}
	if next.(Model).input.Model.Value() != "hola" {
		t.Error("input should be kept while busy")
	}
}

func TestCommands(t *testing.T) {
	m, svc := newTestModel(t, false)

	m = submit(t, m, "/lang de")
	p, err := svc.Profiles.ActiveProfile()
	if err != nil || p.TargetLanguage != lang.German || p.CEFRLevel != lang.A1 {
		t.Fatalf("profile = %+v, %v", p, err)
	}
	if e := lastEntry(m); !strings.Contains(e.text, "German") {
		t.Errorf("lang notice = %+v", e)
	}

	m = submit(t, m, "/level b1")
	p, _ = svc.Profiles.ActiveProfile()
	if p.CEFRLevel != lang.B1 {
		t.Errorf("level = %s", p.CEFRLevel)
	}

	m = submit(t, m, "/mode culture")
	if m.sessionType != lang.SessionCulture {
		t.Errorf("session type = %s", m.sessionType)
	}

	m = submit(t, m, "/style immersion")
	if m.mode != "immersion" {
		t.Errorf("mode = %s", m.mode)
	}

	tests := []string{"/mode poetry", "/lang fr", "/level Z9", "/dance", "/quiz"}
	for _, cmd := range tests {
		m = submit(t, m, cmd)
		if e := lastEntry(m); e.kind != entryError {
			t.Errorf("%s: expected error entry, got %+v", cmd, e)
		}
	}

	m = submit(t, m, "/progress")
	if m.panel != panelProgress {
		t.Error("/progress should open the progress panel")
	}
	if !strings.Contains(m.progressView(), "vocabulary") {
		t.Error("progress panel missing skills")
	}
	m = press(t, m, specialKey(tea.KeyTab))
	if m.panel != panelChat {
		t.Error("tab should return to the chat")
	}
}

func TestReview_NothingDue(t *testing.T) {
	m, _ := newTestModel(t, true)

	m = submit(t, m, "/review")

	if e := lastEntry(m); e.kind != entryNotice || !strings.Contains(e.text, "Nothing is due") {
		t.Errorf("last entry = %+v", e)
	}
}

func quizResponse(t *testing.T) llm.MockResponse {
	t.Helper()
	quiz := tutor.Quiz{
		Title: "Saludos",
		Questions: []tutor.QuizQuestion{
			{Type: "multiple_choice", Question: "How do you say hello?", Options: []string{"adiós", "hola"}, Correct: "hola", Explanation: "Hola is hello."},
			{Type: "short_answer", Question: "Translate: thank you", Correct: "gracias"},
		},
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		t.Fatal(err)
	}
	return llm.MockResponse{Content: data}
}

func TestQuiz_Flow(t *testing.T) {
	m, svc := newTestModel(t, true, quizResponse(t))

	m = submit(t, m, "/quiz greetings")
	if m.quiz == nil {
		t.Fatalf("quiz did not start: %+v", m.entries)
	}
	if m.quiz.language != lang.Spanish {
		t.Errorf("quiz language = %s", m.quiz.language)
	}
	if !strings.Contains(m.quizView(), "How do you say hello?") {
		t.Error("quiz view missing the question")
	}

	m = press(t, m, specialKey(tea.KeyDown))
	m = press(t, m, specialKey(tea.KeyEnter))
	if !m.quiz.answered || !m.quiz.lastCorrect {
		t.Fatalf("first answer state = %+v", m.quiz)
	}
	if !strings.Contains(m.quizView(), "Correct!") {
		t.Error("feedback missing")
	}

	m = press(t, m, specialKey(tea.KeyEnter))
	if m.quiz.index != 1 || m.quiz.answered {
		t.Fatalf("did not advance: %+v", m.quiz)
	}

	m = submit(t, m, "¡Gracias!")
	if !m.quiz.lastCorrect {
		t.Fatal("short answer should match ignoring case and punctuation")
	}

	m = press(t, m, specialKey(tea.KeyEnter))
	if m.quiz != nil {
		t.Fatal("quiz should be finished")
	}
	if e := lastEntry(m); !strings.Contains(e.text, "2/2") {
		t.Errorf("summary = %+v", e)
	}
	p, _ := svc.Profiles.Profile(lang.Spanish)
	if p.TotalXP != 2*learner.QuizXPPerAnswer {
		t.Errorf("xp = %d", p.TotalXP)
	}
}

func TestQuiz_WrongAnswerAndAbandon(t *testing.T) {
	m, svc := newTestModel(t, true, quizResponse(t))
	m = submit(t, m, "/quiz greetings")

	m = press(t, m, specialKey(tea.KeyEnter))
	if m.quiz.lastCorrect {
		t.Fatal("adiós is not hello")
	}
	if !strings.Contains(m.quizView(), "Answer: hola") {
		t.Error("correct answer not shown")
	}

	m = press(t, m, specialKey(tea.KeyEscape))
	if m.quiz != nil {
		t.Fatal("esc should leave the quiz")
	}
	p, _ := svc.Profiles.Profile(lang.Spanish)
	if p.TotalXP != 0 {
		t.Errorf("abandoned quiz awarded %d XP", p.TotalXP)
	}
}

func TestQuiz_GenerationFailure(t *testing.T) {
	m, _ := newTestModel(t, true)

	m = submit(t, m, "/quiz food")

	if m.quiz != nil || m.busy {
		t.Fatal("quiz should not start")
	}
	if e := lastEntry(m); e.kind != entryError || !strings.Contains(e.text, "quiz unavailable") {
		t.Errorf("last entry = %+v", e)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, true)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestOutcomeNotice(t *testing.T) {
	out := &learner.Outcome{
		XPGained:        55,
		WordsAdded:      1,
		TopicsCompleted: []string{"greetings"},
		LevelChange:     &learner.LevelChange{From: lang.A1, To: lang.B1},
	}
	got := outcomeNotice(out)
	for _, want := range []string{"+55 XP", "1 new word", `lesson "greetings" done`, "A1 → B1"} {
		if !strings.Contains(got, want) {
			t.Errorf("notice %q missing %q", got, want)
		}
	}
	if outcomeNotice(&learner.Outcome{}) != "" {
		t.Error("empty outcome should give an empty notice")
	}
}
