package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/router"
)

func history(n int) []Turn {
	turns := make([]Turn, n)
	for i := range turns {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		turns[i] = Turn{Role: role, Content: fmt.Sprintf("m%02d", i)}
	}
	return turns
}

func TestService_StreamsAndRoutes(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"El subjuntivo ", "expresa deseos."}})
	svc := NewService(mock, DefaultConfig())

	var got []string
	route, err := svc.Stream(context.Background(), Input{
		Message:     "What's the subjunctive tense?",
		Language:    lang.Spanish,
		Level:       lang.B1,
		SessionType: lang.SessionConversation,
	}, func(s string) error {
		got = append(got, s)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route != router.RouteGrammar {
		t.Fatalf("route = %q, want grammar", route)
	}
	if strings.Join(got, "") != "El subjuntivo expresa deseos." {
		t.Fatalf("chunks = %q", got)
	}

	req := mock.LastCall()
	if !strings.Contains(req.System, "grammar expert") {
		t.Error("expected grammar system prompt")
	}
	if req.Temperature != 0.7 {
		t.Errorf("temperature = %v", req.Temperature)
	}
	if req.Model != "" {
		t.Errorf("route models disabled, got model %q", req.Model)
	}
}

func TestService_HistoryWindows(t *testing.T) {
	tests := []struct {
		route router.Route
		kept  int
	}{
		{router.RouteConversation, 10},
		{router.RouteGrammar, 6},
		{router.RouteAssessment, 20},
		{router.RouteCurriculum, 12},
		{router.RouteVocabulary, 10},
		{router.RouteCulture, 8},
		{router.RouteGeneral, 10},
	}
	for _, tt := range tests {
		t.Run(string(tt.route), func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"ok"}})
			svc := NewService(mock, DefaultConfig())

			_, err := svc.Stream(context.Background(), Input{
				Message:  "next",
				Language: lang.English,
				Level:    lang.A2,
				History:  history(20),
				Route:    tt.route,
			}, func(string) error { return nil })
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			msgs := mock.LastCall().Messages
			if len(msgs) != tt.kept+1 {
				t.Fatalf("sent %d messages, want %d", len(msgs), tt.kept+1)
			}
			if first := msgs[0].Content; first != fmt.Sprintf("m%02d", 20-tt.kept) {
				t.Errorf("oldest kept = %q", first)
			}
			if last := msgs[len(msgs)-1]; last.Role != llm.RoleUser || last.Content != "next" {
				t.Errorf("last message = %+v", last)
			}
		})
	}
}

func TestService_NonUserRolesBecomeAssistant(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"ok"}})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Stream(context.Background(), Input{
		Message:  "hello",
		Language: lang.English,
		Level:    lang.A1,
		History:  []Turn{{Role: "system", Content: "a"}, {Role: "tutor", Content: "b"}, {Role: "user", Content: "c"}},
	}, func(string) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := mock.LastCall().Messages
	want := []llm.Role{llm.RoleAssistant, llm.RoleAssistant, llm.RoleUser, llm.RoleUser}
	for i, m := range msgs {
		if m.Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, m.Role, want[i])
		}
	}
}

func TestService_RouteModels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RouteModels = true

	tests := []struct {
		msg   string
		model string
	}{
		{"tell me about a local festival tradition", ModelGemma},
		{"I want a placement test", ModelLlama},
		{"hola, ¿cómo estás?", ModelMistral},
	}
	for _, tt := range tests {
		mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"ok"}})
		svc := NewService(mock, cfg)
		if _, err := svc.Stream(context.Background(), Input{
			Message: tt.msg, Language: lang.Spanish, Level: lang.A2,
		}, func(string) error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := mock.LastCall().Model; got != tt.model {
			t.Errorf("%q: model = %q, want %q", tt.msg, got, tt.model)
		}
	}
}

func TestService_Validation(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig())
	noop := func(string) error { return nil }

	if _, err := svc.Stream(context.Background(), Input{Message: "  ", Language: lang.English}, noop); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Stream(context.Background(), Input{Message: "hi", Language: "fr"}, noop); err == nil {
		t.Error("expected unsupported language error")
	}
	if _, err := svc.Stream(context.Background(), Input{Message: "hi", Language: lang.English, Level: "Z9"}, noop); err == nil {
		t.Error("expected unsupported level error")
	}
}

func TestService_ReplyReturnsPartialOnError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Chunks: []string{"Guten "},
		Err:    errors.New("connection reset"),
	})
	svc := NewService(mock, DefaultConfig())

	text, route, err := svc.Reply(context.Background(), Input{
		Message: "hallo", Language: lang.German, Level: lang.A1,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if text != "Guten " {
		t.Errorf("text = %q", text)
	}
	if route != router.RouteConversation {
		t.Errorf("route = %q", route)
	}
}

func TestService_Quiz(t *testing.T) {
	content := json.RawMessage(`{
		"title": "Food and drink",
		"questions": [
			{"type": "multiple-choice", "question": "¿Qué es 'pan'?", "options": ["bread", "water", "milk", "rice"], "correct": "bread", "explanation": "Pan means bread."},
			{"type": "short-answer", "question": "Translate 'water'.", "options": [], "correct": "agua", "explanation": "Agua is water."}
		]
	}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	svc := NewService(mock, DefaultConfig())

	quiz, err := svc.Quiz(context.Background(), QuizInput{Language: lang.Spanish, Level: lang.A1, Topic: "Food and drink"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quiz.Questions) != 2 || quiz.Questions[1].Correct != "agua" {
		t.Fatalf("quiz = %+v", quiz)
	}
	if quiz.Language != lang.Spanish || quiz.Level != lang.A1 {
		t.Errorf("quiz metadata = %q/%q", quiz.Language, quiz.Level)
	}

	req := mock.LastCall()
	if req.Schema != QuizSchema {
		t.Error("expected quiz schema")
	}
	if !strings.Contains(req.System, `quick quiz about "Food and drink"`) {
		t.Errorf("system = %q", req.System)
	}
}

func TestQuizSchema_Validates(t *testing.T) {
	good := json.RawMessage(`{"title":"t","questions":[{"type":"short-answer","question":"q","options":[],"correct":"c","explanation":"e"}]}`)
	if err := llm.ValidateJSON(QuizSchema, good); err != nil {
		t.Fatalf("expected valid quiz, got %v", err)
	}
	bad := json.RawMessage(`{"title":"t","questions":[{"type":"essay","question":"q","options":[],"correct":"c","explanation":"e"}]}`)
	if err := llm.ValidateJSON(QuizSchema, bad); err == nil {
		t.Fatal("expected invalid question type to fail")
	}
}

func TestService_QuizRequiresTopic(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig())
	if _, err := svc.Quiz(context.Background(), QuizInput{Language: lang.English, Level: lang.A1}); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_ReviewSession(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"¿Qué significa 'perro'?"}})
	svc := NewService(mock, DefaultConfig())

	route, err := svc.Stream(context.Background(), Input{
		Message:  "Let's review my words",
		Language: lang.Spanish,
		Level:    lang.A2,
		Review:   []prompts.ReviewWord{{Word: "perro", Translation: "dog", Mastery: 0.4}},
	}, func(string) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route != router.RouteVocabulary {
		t.Errorf("route = %q, want vocabulary", route)
	}
	if sys := mock.LastCall().System; !strings.Contains(sys, "WORDS TO REVIEW (1)") || !strings.Contains(sys, "mastery: 40%") {
		t.Errorf("system = %q", sys)
	}
}

func TestQuizQuestion_Check(t *testing.T) {
	q := QuizQuestion{Type: "multiple-choice", Options: []string{"bread", "Water", "milk"}, Correct: "water"}
	if got := q.CorrectIndex(); got != 1 {
		t.Errorf("correct index = %d, want 1", got)
	}

	tests := []struct {
		answer string
		want   bool
	}{
		{"water", true},
		{"  WATER. ", true},
		{"milk", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := q.Check(tt.answer); got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}

	open := QuizQuestion{Type: "short-answer", Correct: "¿Dónde está?"}
	if open.CorrectIndex() != -1 || !open.Check("dónde está") {
		t.Error("short answer should match without punctuation")
	}
}
