package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryStateRepo is an in-process StateRepo for tests and dry runs.
type MemoryStateRepo struct {
	mu      sync.Mutex
	entries map[string]StateEntry
	saves   int
}

// NewMemoryStateRepo returns an empty MemoryStateRepo.
func NewMemoryStateRepo() *MemoryStateRepo {
	return &MemoryStateRepo{entries: make(map[string]StateEntry)}
}

func (m *MemoryStateRepo) LoadState(_ context.Context, key string) (*StateEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	e.State = append(json.RawMessage(nil), e.State...)
	return &e, nil
}

func (m *MemoryStateRepo) SaveState(_ context.Context, key string, state json.RawMessage, version int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = StateEntry{
		Key:       key,
		State:     append(json.RawMessage(nil), state...),
		Version:   version,
		UpdatedAt: time.Now(),
	}
	m.saves++
	return nil
}

func (m *MemoryStateRepo) DeleteState(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryStateRepo) ListStates(_ context.Context) ([]StateEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StateEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Saves returns how many times SaveState has been called.
func (m *MemoryStateRepo) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
