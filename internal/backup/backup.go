// Package backup exports and imports the learner's persisted state and
// renders progress reports.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/lingua/internal/achievements"
	"github.com/abhisek/lingua/internal/chat"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/vocab"
)

// FormatVersion is the backup file format this build reads and writes.
const FormatVersion = 1

// ErrUnsupportedVersion is returned for backups this build cannot read.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Data is a full backup. Each state field holds the raw persisted object
// of one store.
type Data struct {
	Version      int             `json:"version"`
	ExportedAt   time.Time       `json:"exportedAt"`
	AppVersion   string          `json:"appVersion,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
	Chat         json.RawMessage `json:"chat,omitempty"`
	Vocabulary   json.RawMessage `json:"vocabulary,omitempty"`
	Achievements json.RawMessage `json:"achievements,omitempty"`
	Gamification json.RawMessage `json:"gamification,omitempty"`
}

// fields pairs each state key with its slot in d.
func (d *Data) fields() []struct {
	key string
	raw *json.RawMessage
} {
	return []struct {
		key string
		raw *json.RawMessage
	}{
		{progress.StateKey, &d.User},
		{chat.StateKey, &d.Chat},
		{vocab.StateKey, &d.Vocabulary},
		{achievements.StateKey, &d.Achievements},
		{progress.DailyStateKey, &d.Gamification},
	}
}

// Service reads and writes backups of a state repository.
type Service struct {
	repo       store.StateRepo
	appVersion string
	now        func() time.Time
}

// NewService creates a backup service. appVersion is stamped into exports
// and compared against imports.
func NewService(repo store.StateRepo, appVersion string) *Service {
	return &Service{repo: repo, appVersion: appVersion, now: time.Now}
}

// Export captures every state entry.
func (s *Service) Export(ctx context.Context) (*Data, error) {
	d := &Data{
		Version:    FormatVersion,
		ExportedAt: s.now().UTC(),
		AppVersion: s.appVersion,
	}
	for _, f := range d.fields() {
		entry, err := s.repo.LoadState(ctx, f.key)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", f.key, err)
		}
		if entry != nil {
			*f.raw = entry.State
		}
	}
	return d, nil
}

// Check reports whether d can be imported by this build.
func (s *Service) Check(d *Data) error {
	if d.Version != FormatVersion {
		return fmt.Errorf("version %d: %w", d.Version, ErrUnsupportedVersion)
	}
	current, from := canonical(s.appVersion), canonical(d.AppVersion)
	if current != "" && from != "" && semver.Compare(semver.Major(from), semver.Major(current)) > 0 {
		return fmt.Errorf("written by %s, running %s: %w", d.AppVersion, s.appVersion, ErrUnsupportedVersion)
	}
	return nil
}

// canonical returns v as a "v"-prefixed semantic version, or "" when v is
// not one (e.g. development builds).
func canonical(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// Import writes every state entry present in d. Entries missing from d
// are left untouched. Callers reload their services afterwards.
func (s *Service) Import(ctx context.Context, d *Data) error {
	if err := s.Check(d); err != nil {
		return err
	}
	for _, f := range d.fields() {
		raw := *f.raw
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		if !json.Valid(raw) {
			return fmt.Errorf("import %s: invalid JSON", f.key)
		}
		if err := s.repo.SaveState(ctx, f.key, raw, 0); err != nil {
			return fmt.Errorf("import %s: %w", f.key, err)
		}
	}
	return nil
}

// Snapshot captures every state entry for the snapshots table.
func (s *Service) Snapshot(ctx context.Context) (store.SnapshotData, error) {
	entries, err := s.repo.ListStates(ctx)
	if err != nil {
		return store.SnapshotData{}, fmt.Errorf("snapshot: %w", err)
	}
	data := store.SnapshotData{Version: FormatVersion, Entries: make(map[string]json.RawMessage, len(entries))}
	for _, e := range entries {
		data.Entries[e.Key] = e.State
	}
	return data, nil
}

// WriteFile exports to path as indented JSON.
func (s *Service) WriteFile(ctx context.Context, path string) error {
	d, err := s.Export(ctx)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ReadFile parses the backup at path and imports it.
func (s *Service) ReadFile(ctx context.Context, path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	if err := s.Import(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Filename returns the conventional backup file name for a day.
func Filename(t time.Time) string {
	return "lingua-backup-" + t.Format(time.DateOnly) + ".json"
}
