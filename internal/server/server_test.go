package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/backup"
	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/tutor"
	"github.com/abhisek/lingua/internal/vocab"
)

type testEnv struct {
	srv     *Server
	mock    *llm.MockProvider
	learner *learner.Service
}

func newTestEnv(t *testing.T, responses ...llm.MockResponse) *testEnv {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	repo := store.NewMemoryStateRepo()
	tut := tutor.NewService(mock, tutor.DefaultConfig())
	ls, err := learner.New(context.Background(), repo, tut)
	require.NoError(t, err)

	srv := New(Options{
		Tutor:   tut,
		Learner: ls,
		Backup:  backup.NewService(repo, "1.2.0"),
		Version: "1.2.0",
	})
	return &testEnv{srv: srv, mock: mock, learner: ls}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorBody(t *testing.T, data []byte) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	return body.Error
}

func TestChat_Streams(t *testing.T) {
	env := newTestEnv(t, llm.MockResponse{Chunks: []string{"¡Hola", ", amigo!"}})

	resp, data := env.do(t, http.MethodPost, "/api/chat", map[string]any{
		"message":        "hola",
		"targetLanguage": "es",
		"cefrLevel":      "A1",
		"history":        []map[string]string{{"role": "user", "content": "buenos días"}},
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.True(t, strings.HasSuffix(string(data), "data: [DONE]\n\n"))

	text, streamErr, err := CollectText(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, streamErr)
	assert.Equal(t, "¡Hola, amigo!", text)

	call := env.mock.LastCall()
	require.Len(t, call.Messages, 2)
	assert.Equal(t, "buenos días", call.Messages[0].Content)
}

func TestChat_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		err    string
	}{
		{"missing message", map[string]any{"targetLanguage": "es", "cefrLevel": "A1"}, 400, "Missing required fields"},
		{"whitespace-only message", map[string]any{"message": "  \n\t", "targetLanguage": "es", "cefrLevel": "A1"}, 400, "Missing required fields"},
		{"missing level", map[string]any{"message": "hi", "targetLanguage": "es"}, 400, "Missing required fields"},
		{"unsupported language", map[string]any{"message": "hi", "targetLanguage": "fr", "cefrLevel": "A1"}, 400, "Unsupported targetLanguage"},
		{"unsupported level", map[string]any{"message": "hi", "targetLanguage": "es", "cefrLevel": "D1"}, 400, "Unsupported cefrLevel"},
		{"unsupported session type", map[string]any{"message": "hi", "targetLanguage": "es", "cefrLevel": "A1", "sessionType": "karaoke"}, 400, "Unsupported sessionType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			resp, data := env.do(t, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.err, errorBody(t, data))
			assert.Empty(t, env.mock.Calls)
		})
	}
}

func TestChat_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	resp, data := env.do(t, http.MethodPost, "/api/chat", "{not json")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, errorBody(t, data))
}

func TestChat_StreamFailure(t *testing.T) {
	env := newTestEnv(t, llm.MockResponse{Chunks: []string{"Guten "}, Err: errors.New("connection reset")})

	resp, data := env.do(t, http.MethodPost, "/api/chat", map[string]any{
		"message": "hallo", "targetLanguage": "de", "cefrLevel": "A2",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(data), "[DONE]")

	text, streamErr, err := CollectText(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Guten ", text)
	assert.Contains(t, streamErr, "connection reset")
}

func TestAssess_UsesPlacement(t *testing.T) {
	env := newTestEnv(t, llm.MockResponse{Chunks: []string{"Question 1"}})

	resp, data := env.do(t, http.MethodPost, "/api/assess", map[string]any{
		"message": "I'm ready", "targetLanguage": "de",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	text, _, err := CollectText(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Question 1", text)
	assert.Contains(t, env.mock.LastCall().System, "placement test")

	resp, _ = env.do(t, http.MethodPost, "/api/assess", map[string]any{"message": "hi"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuiz(t *testing.T) {
	env := newTestEnv(t, llm.MockResponse{Content: json.RawMessage(`{
		"title": "Numbers",
		"questions": [{"type": "short-answer", "question": "Translate 'three'.", "options": [], "correct": "tres", "explanation": "Tres is three."}]
	}`)})

	resp, data := env.do(t, http.MethodPost, "/api/quiz", map[string]any{
		"targetLanguage": "es", "cefrLevel": "A1", "topic": "Numbers",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quiz tutor.Quiz
	require.NoError(t, json.Unmarshal(data, &quiz))
	assert.Equal(t, "Numbers", quiz.Topic)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "tres", quiz.Questions[0].Correct)

	resp, _ = env.do(t, http.MethodPost, "/api/quiz", map[string]any{"targetLanguage": "es", "cefrLevel": "A1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProfiles(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/profiles/de", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, data := env.do(t, http.MethodPost, "/api/profiles", map[string]any{"language": "de", "level": "B1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(data), `"cefrLevel":"B1"`)

	resp, data = env.do(t, http.MethodPut, "/api/profiles/de/level", map[string]any{"level": "B2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"from":"B1","to":"B2"}`, string(data))

	resp, data = env.do(t, http.MethodPost, "/api/profiles/de/xp", map[string]any{"xp": -5})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, errorBody(t, data))

	resp, _ = env.do(t, http.MethodPost, "/api/profiles/de/xp", map[string]any{"xp": 25})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	p, err := env.learner.Profiles.Profile(lang.German)
	require.NoError(t, err)
	assert.Equal(t, 25, p.TotalXP)
	assert.Equal(t, lang.B2, p.CEFRLevel)
	assert.Equal(t, lang.German, env.learner.Profiles.ActiveLanguage())
}

func TestVocabulary(t *testing.T) {
	env := newTestEnv(t)
	word := map[string]any{"word": "la casa", "translation": "the house"}

	resp, data := env.do(t, http.MethodPost, "/api/vocabulary/es", word)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var entry vocab.Entry
	require.NoError(t, json.Unmarshal(data, &entry))

	resp, _ = env.do(t, http.MethodPost, "/api/vocabulary/es", map[string]any{"word": "La Casa", "translation": "house"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, data = env.do(t, http.MethodGet, "/api/vocabulary/es/due", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var due []vocab.Entry
	require.NoError(t, json.Unmarshal(data, &due))
	assert.Empty(t, due, "new words wait one interval before their first review")

	resp, _ = env.do(t, http.MethodPost, "/api/vocabulary/es/"+entry.ID+"/review", map[string]any{"correct": true})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.learner.Daily.Today().WordsReviewed)

	resp, _ = env.do(t, http.MethodPost, "/api/vocabulary/es/missing/review", map[string]any{"correct": true})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/vocabulary/es/"+entry.ID+"/review", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/vocabulary/xx", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/vocabulary/es/"+entry.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, env.learner.Vocab.Entries(lang.Spanish))
}

func TestVocabulary_EmptyListsAreArrays(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/vocabulary/es", "/api/vocabulary/es/due"} {
		resp, data := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, "[]", string(data), path)
	}
}

func TestLearn_StreamsOutcome(t *testing.T) {
	env := newTestEnv(t, llm.MockResponse{Chunks: []string{
		"Muy bien. [VOCAB]",
		`{"word": "gato", "translation": "cat"}`,
		"[/VOCAB]",
	}})

	resp, _ := env.do(t, http.MethodPost, "/api/learn", map[string]any{"message": "hola"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	_, err := env.learner.Profiles.CreateProfile(context.Background(), lang.Spanish, lang.A1)
	require.NoError(t, err)

	resp, data := env.do(t, http.MethodPost, "/api/learn", map[string]any{"message": "hola"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var outcome *learner.Outcome
	err = ReadFrames(bytes.NewReader(data), func(f Frame) error {
		if f.Outcome == nil {
			return nil
		}
		raw, err := json.Marshal(f.Outcome)
		if err != nil {
			return err
		}
		outcome = new(learner.Outcome)
		return json.Unmarshal(raw, outcome)
	})
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, learner.ExchangeXP, outcome.XPGained)
	assert.Equal(t, 1, outcome.WordsAdded)
	assert.Len(t, env.learner.Vocab.Entries(lang.Spanish), 1)

	resp, _ = env.do(t, http.MethodPost, "/api/learn", map[string]any{"message": "repasar", "review": true})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, env.mock.Calls, 1)
}

func TestLearn_NothingToReview(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.learner.Profiles.CreateProfile(context.Background(), lang.German, lang.A1)
	require.NoError(t, err)

	resp, _ := env.do(t, http.MethodPost, "/api/learn", map[string]any{"message": "review", "review": true})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.mock.Calls)
}

func TestBackup_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.learner.Profiles.CreateProfile(ctx, lang.English, lang.C1)
	require.NoError(t, err)
	_, _, err = env.learner.Vocab.AddWord(ctx, lang.English, vocab.NewWord{Word: "serendipity", Translation: "casualidad"})
	require.NoError(t, err)

	resp, data := env.do(t, http.MethodGet, "/api/backup", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "lingua-backup-")

	resp, _ = env.do(t, http.MethodPost, "/api/reset", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, env.learner.Profiles.Profiles())

	resp, _ = env.do(t, http.MethodPost, "/api/backup", string(data))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	p, err := env.learner.Profiles.Profile(lang.English)
	require.NoError(t, err)
	assert.Equal(t, lang.C1, p.CEFRLevel)
	assert.Len(t, env.learner.Vocab.Entries(lang.English), 1)

	resp, _ = env.do(t, http.MethodPost, "/api/backup", map[string]any{"version": 2})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReportAndStats(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.learner.Profiles.CreateProfile(context.Background(), lang.Spanish, lang.A2)
	require.NoError(t, err)

	resp, data := env.do(t, http.MethodGet, "/api/report?format=text", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(data), "=== Lingua Progress Report ==="))

	resp, data = env.do(t, http.MethodGet, "/api/report", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var r backup.Report
	require.NoError(t, json.Unmarshal(data, &r))
	require.Len(t, r.Languages, 1)
	assert.Equal(t, "Carlos", r.Languages[0].TutorName)

	resp, data = env.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"today"`)

	resp, data = env.do(t, http.MethodGet, "/api/achievements", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"unlocked":false`)

	resp, _ = env.do(t, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, data := env.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","version":"1.2.0"}`, string(data))
}

func TestReadFrames_SkipsNoise(t *testing.T) {
	stream := ": keep-alive\n\n" +
		"data: {\"text\":\"a\"}\n\n" +
		"event: ping\n" +
		"data: not-json\n\n" +
		"data: {\"text\":\"b\"}\n\n" +
		"data: [DONE]\n\n" +
		"data: {\"text\":\"ignored\"}\n\n"

	text, streamErr, err := CollectText(strings.NewReader(stream))
	require.NoError(t, err)
	assert.Empty(t, streamErr)
	assert.Equal(t, "ab", text)
}
