package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// envelope is the on-disk shape of a state entry value.
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

type stateRow struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	Version   int    `db:"version"`
	UpdatedAt int64  `db:"updated_at"`
}

// stateRepo implements StateRepo on the state_entries table.
type stateRepo struct {
	db      *sqlx.DB
	dialect string
}

func (r *stateRepo) LoadState(ctx context.Context, key string) (*StateEntry, error) {
	query, args := builder(r.dialect).
		Select("key", "value", "version", "updated_at").
		From(entsql.Table(StateEntriesTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var row stateRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load state %q: %w", key, err)
	}
	return row.toEntry()
}

func (r *stateRepo) SaveState(ctx context.Context, key string, state json.RawMessage, version int) error {
	if len(state) == 0 {
		state = json.RawMessage("null")
	}
	value, err := json.Marshal(envelope{State: state, Version: version})
	if err != nil {
		return fmt.Errorf("marshal state %q: %w", key, err)
	}

	query, args := builder(r.dialect).
		Insert(StateEntriesTable.Name).
		Columns("key", "value", "version", "updated_at").
		Values(key, string(value), version, time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save state %q: %w", key, err)
	}
	return nil
}

func (r *stateRepo) DeleteState(ctx context.Context, key string) error {
	query, args := builder(r.dialect).
		Delete(StateEntriesTable.Name).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

func (r *stateRepo) ListStates(ctx context.Context) ([]StateEntry, error) {
	query, args := builder(r.dialect).
		Select("key", "value", "version", "updated_at").
		From(entsql.Table(StateEntriesTable.Name)).
		OrderBy(entsql.Asc("key")).
		Query()

	var rows []stateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}

	out := make([]StateEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func (row stateRow) toEntry() (*StateEntry, error) {
	var env envelope
	if err := json.Unmarshal([]byte(row.Value), &env); err != nil {
		return nil, fmt.Errorf("decode state %q: %w", row.Key, err)
	}
	return &StateEntry{
		Key:       row.Key,
		State:     env.State,
		Version:   row.Version,
		UpdatedAt: time.UnixMilli(row.UpdatedAt),
	}, nil
}

// LoadJSON decodes the state stored under key into v. It reports whether an
// entry existed; v is left untouched when it did not.
func LoadJSON(ctx context.Context, repo StateRepo, key string, v any) (bool, error) {
	e, err := repo.LoadState(ctx, key)
	if err != nil {
		return false, err
	}
	if e == nil || len(e.State) == 0 || string(e.State) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(e.State, v); err != nil {
		return false, fmt.Errorf("decode state %q: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, repo StateRepo, key string, v any, version int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state %q: %w", key, err)
	}
	return repo.SaveState(ctx, key, b, version)
}
