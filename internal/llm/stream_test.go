package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/lingua/internal/store"
)

func collect(t *testing.T, p Provider, req Request) ([]string, *Response, error) {
	t.Helper()
	var got []string
	resp, err := p.Stream(context.Background(), req, func(s string) error {
		got = append(got, s)
		return nil
	})
	return got, resp, err
}

func TestMockProvider_StreamChunks(t *testing.T) {
	mock := NewMockProvider(MockResponse{Chunks: []string{"Guten ", "", "Tag"}})

	got, resp, err := collect(t, mock, Request{Model: "google/gemma-2-9b-it:free"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(got, "|") != "Guten |Tag" {
		t.Fatalf("fragments = %q", got)
	}
	if resp.Text != "Guten Tag" {
		t.Fatalf("text = %q", resp.Text)
	}
	if resp.Model != "google/gemma-2-9b-it:free" {
		t.Fatalf("model = %q", resp.Model)
	}
}

func TestMockProvider_StreamContentFallback(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage("Hola")})

	got, _, err := collect(t, mock, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Hola" {
		t.Fatalf("fragments = %q", got)
	}
}

type recordingEvents struct {
	store.EventRepo
	events []store.LLMRequestEventData
	ctxErr error
}

func (r *recordingEvents) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	r.ctxErr = ctx.Err()
	r.events = append(r.events, data)
	return nil
}

func TestLogging_RecordsStream(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Chunks: []string{"Hej", " då"},
		Usage:  Usage{InputTokens: 9, OutputTokens: 3, TotalTokens: 12},
	})
	events := &recordingEvents{}
	p := WithLogging(mock, "openrouter", events)

	ctx := WithPurpose(context.Background(), "conversation")
	if _, err := p.Stream(ctx, Request{
		Model:    "mistralai/mistral-7b-instruct:free",
		System:   "Be friendly.",
		Messages: []Message{{Role: RoleUser, Content: "hej"}},
	}, func(string) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.events))
	}
	ev := events.events[0]
	if ev.Provider != "openrouter" || ev.Purpose != "conversation" {
		t.Errorf("provider/purpose = %q/%q", ev.Provider, ev.Purpose)
	}
	if ev.Model != "mistralai/mistral-7b-instruct:free" {
		t.Errorf("model = %q", ev.Model)
	}
	if !ev.Success || ev.ResponseBody != "Hej då" {
		t.Errorf("success=%v body=%q", ev.Success, ev.ResponseBody)
	}
	if ev.InputTokens != 9 || ev.OutputTokens != 3 {
		t.Errorf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "[system]\nBe friendly.") {
		t.Errorf("request body = %q", ev.RequestBody)
	}
}

func TestLogging_RecordsFailureAfterCancel(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: errors.New("boom")})
	events := &recordingEvents{}
	p := WithLogging(mock, "mock", events)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(events.events) != 1 || events.events[0].Success {
		t.Fatalf("events = %+v", events.events)
	}
	if events.events[0].ErrorMessage != "boom" {
		t.Errorf("error message = %q", events.events[0].ErrorMessage)
	}
	if events.ctxErr != nil {
		t.Errorf("journal write saw cancelled context: %v", events.ctxErr)
	}
}

func TestLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mistralai/mistral-7b-instruct:free" {
		t.Fatalf("model = %q", p.ModelID())
	}

	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
