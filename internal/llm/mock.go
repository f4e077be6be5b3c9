package llm

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// Chunks are delivered in order by Stream. When empty, Stream delivers
	// Content as a single chunk. When Err is also set, the error is
	// returned after the chunks, as an interrupted stream.
	Chunks []string
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// next records the request and pops the next canned response.
func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return MockResponse{}, false
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, true
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	resp, ok := m.next(req)
	if !ok {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Text:       string(resp.Content),
		Usage:      resp.Usage,
		Model:      req.modelFor("mock"),
		StopReason: "end",
	}, nil
}

// Stream delivers the next canned response chunk by chunk.
func (m *MockProvider) Stream(ctx context.Context, req Request, onText func(string) error) (*Response, error) {
	resp, ok := m.next(req)
	if !ok {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	chunks := resp.Chunks
	if len(chunks) == 0 && len(resp.Content) > 0 {
		chunks = []string{string(resp.Content)}
	}
	if resp.Err != nil && len(resp.Chunks) == 0 {
		return nil, resp.Err
	}

	out := &Response{Usage: resp.Usage, Model: req.modelFor("mock"), StopReason: "end"}
	var text strings.Builder
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return partial(out, &text), err
		}
		if c == "" {
			continue
		}
		text.WriteString(c)
		if err := onText(c); err != nil {
			return partial(out, &text), err
		}
	}

	if resp.Err != nil {
		return partial(out, &text), &ErrStreamInterrupted{Delivered: text.Len() > 0, Err: resp.Err}
	}
	return partial(out, &text), nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate or Stream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or a zero Request.
func (m *MockProvider) LastCall() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}
	}
	return m.Calls[len(m.Calls)-1]
}
