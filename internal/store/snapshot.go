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

type snapshotRow struct {
	ID        int    `db:"id"`
	Sequence  int64  `db:"sequence"`
	Timestamp int64  `db:"timestamp"`
	Data      string `db:"data"`
}

// snapshotRepo implements SnapshotRepo on the snapshots table.
type snapshotRepo struct {
	db      *sqlx.DB
	dialect string
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	query, args := builder(r.dialect).
		Insert(SnapshotsTable.Name).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UnixMilli(), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	query, args := builder(r.dialect).
		Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(SnapshotsTable.Name)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Query()

	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	var data SnapshotData
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &Snapshot{
		ID:        row.ID,
		Sequence:  row.Sequence,
		Timestamp: time.UnixMilli(row.Timestamp),
		Data:      data,
	}, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the newest snapshot that falls outside the kept window.
	query, args := builder(r.dialect).
		Select("id").
		From(entsql.Table(SnapshotsTable.Name)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int
	if err := r.db.GetContext(ctx, &threshold, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // fewer than keep snapshots exist
		}
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	var ts int64
	query, args = builder(r.dialect).
		Select("timestamp").
		From(entsql.Table(SnapshotsTable.Name)).
		Where(entsql.EQ("id", threshold)).
		Query()
	if err := r.db.GetContext(ctx, &ts, query, args...); err != nil {
		return fmt.Errorf("query prune threshold: %w", err)
	}

	query, args = builder(r.dialect).
		Delete(SnapshotsTable.Name).
		Where(entsql.Or(
			entsql.LT("timestamp", ts),
			entsql.And(entsql.EQ("timestamp", ts), entsql.LTE("id", threshold)),
		)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
