package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// callVia runs one request through Generate or Stream and returns the text.
func callVia(t *testing.T, ctx context.Context, p Provider, stream bool) (string, error) {
	t.Helper()
	if !stream {
		resp, err := p.Generate(ctx, Request{})
		if err != nil {
			return "", err
		}
		return string(resp.Content), nil
	}
	var b strings.Builder
	_, err := p.Stream(ctx, Request{}, func(s string) error {
		b.WriteString(s)
		return nil
	})
	return b.String(), err
}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("upstream 503")}}
}

func invalid() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"word":`), Err: errors.New("truncated")}}
}

const vocabReply = `{"word":"der Baum","translation":"the tree"}`

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(vocabReply)}

	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   func(error) bool
	}{
		{"first attempt", []MockResponse{ok}, 1, nil},
		{"transient then success", []MockResponse{unavailable(), ok}, 2, nil},
		{"rate limit honours retry-after", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, ok,
		}, 2, nil},
		{"all attempts fail", []MockResponse{unavailable(), unavailable(), unavailable(), ok}, 3, func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e)
		}},
		{"max tokens is final", []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}}, ok}, 1, func(err error) bool {
			var e *ErrMaxTokensExceeded
			return errors.As(err, &e)
		}},
		{"invalid response retried once", []MockResponse{invalid(), invalid(), ok}, 2, func(err error) bool {
			var e *ErrInvalidResponse
			return errors.As(err, &e)
		}},
	}

	for _, tt := range tests {
		for _, stream := range []bool{false, true} {
			name := tt.name + "/generate"
			if stream {
				name = tt.name + "/stream"
			}
			t.Run(name, func(t *testing.T) {
				mock := NewMockProvider(tt.responses...)
				p := WithRetry(mock, retryConfig())

				text, err := callVia(t, context.Background(), p, stream)
				if tt.wantErr == nil {
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if text != vocabReply {
						t.Fatalf("text = %q", text)
					}
				} else if !tt.wantErr(err) {
					t.Fatalf("unexpected error: %T (%v)", err, err)
				}
				if mock.CallCount() != tt.wantCalls {
					t.Fatalf("expected %d calls, got %d", tt.wantCalls, mock.CallCount())
				}
			})
		}
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	for _, stream := range []bool{false, true} {
		mock := NewMockProvider(unavailable(), unavailable(), MockResponse{Content: json.RawMessage(vocabReply)})
		p := WithRetry(mock, retryConfig())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := callVia(t, ctx, p, stream); !errors.Is(err, context.Canceled) {
			t.Fatalf("stream=%v: expected context.Canceled, got %v", stream, err)
		}
		if mock.CallCount() != 1 {
			t.Fatalf("stream=%v: expected 1 call, got %d", stream, mock.CallCount())
		}
	}
}

func TestRetry_StreamRetriesBeforeFirstChunk(t *testing.T) {
	mock := NewMockProvider(
		unavailable(),
		MockResponse{Chunks: []string{"¡Hola", "!"}},
	)
	p := WithRetry(mock, retryConfig())

	got, _, err := collect(t, p, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(got, "") != "¡Hola!" {
		t.Fatalf("fragments = %q", got)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_StreamNotRetriedAfterDelivery(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Chunks: []string{"Guten ", "Tag"}, Err: errors.New("connection reset")},
		MockResponse{Chunks: []string{"never"}},
	)
	p := WithRetry(mock, retryConfig())

	got, resp, err := collect(t, p, Request{})
	var interrupted *ErrStreamInterrupted
	if !errors.As(err, &interrupted) || !interrupted.Delivered {
		t.Fatalf("expected delivered ErrStreamInterrupted, got %T (%v)", err, err)
	}
	if strings.Join(got, "") != "Guten Tag" {
		t.Fatalf("fragments = %q", got)
	}
	if resp == nil || resp.Text != "Guten Tag" {
		t.Fatalf("partial response = %+v", resp)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
