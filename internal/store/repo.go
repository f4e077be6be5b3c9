package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Offset  int       // rows to skip
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match
}

// StateEntry is one persisted key-value record. State holds the raw JSON
// object of the owning domain service.
type StateEntry struct {
	Key       string
	State     json.RawMessage
	Version   int
	UpdatedAt time.Time
}

// StateRepo persists the namespaced learner state entries.
type StateRepo interface {
	// LoadState returns the entry stored under key, or nil if none exists.
	LoadState(ctx context.Context, key string) (*StateEntry, error)

	// SaveState upserts the entry stored under key.
	SaveState(ctx context.Context, key string, state json.RawMessage, version int) error

	// DeleteState removes the entry stored under key. Missing keys are not an error.
	DeleteState(ctx context.Context, key string) error

	// ListStates returns every entry ordered by key.
	ListStates(ctx context.Context) ([]StateEntry, error)
}

// SnapshotData captures every state entry at a point in time.
type SnapshotData struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries,omitempty"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls grouped by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event by id, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per provider model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
