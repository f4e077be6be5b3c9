package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

type llmEventRow struct {
	ID           int    `db:"id"`
	Sequence     int64  `db:"sequence"`
	Timestamp    int64  `db:"timestamp"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	ErrorMessage string `db:"error_message"`
	RequestBody  string `db:"request_body"`
	ResponseBody string `db:"response_body"`
}

func (row llmEventRow) toEvent() LLMRequestEvent {
	return LLMRequestEvent{
		ID:        row.ID,
		Sequence:  row.Sequence,
		Timestamp: time.UnixMilli(row.Timestamp),
		LLMRequestEventData: LLMRequestEventData{
			Provider:     row.Provider,
			Model:        row.Model,
			Purpose:      row.Purpose,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			LatencyMs:    row.LatencyMs,
			Success:      row.Success,
			ErrorMessage: row.ErrorMessage,
			RequestBody:  row.RequestBody,
			ResponseBody: row.ResponseBody,
		},
	}
}

type usageRow struct {
	Key          string          `db:"key"`
	Calls        int             `db:"calls"`
	InputTokens  sql.NullInt64   `db:"input_tokens"`
	OutputTokens sql.NullInt64   `db:"output_tokens"`
	AvgLatencyMs sql.NullFloat64 `db:"avg_latency_ms"`
}

// eventRepo implements EventRepo backed by sqlx and the global sequence counter.
type eventRepo struct {
	db      *sqlx.DB
	dialect string
	seq     *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder(r.dialect).
		Insert(LLMRequestEventsTable.Name).
		Columns(llmEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.Provider,
			data.Model,
			data.Purpose,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.RequestBody,
			data.ResponseBody,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}

	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder(r.dialect).
		Select(llmEventColumns...).
		From(entsql.Table(LLMRequestEventsTable.Name)).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ("purpose", opts.Purpose))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		sel.Offset(opts.Offset)
	}

	query, args := sel.Query()
	var rows []llmEventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	events := make([]LLMRequestEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toEvent()
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	query, args := builder(r.dialect).
		Select(llmEventColumns...).
		From(entsql.Table(LLMRequestEventsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var row llmEventRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	ev := row.toEvent()
	return &ev, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	rows, err := r.usageBy(ctx, "purpose")
	if err != nil {
		return nil, err
	}
	out := make([]LLMUsage, len(rows))
	for i, row := range rows {
		out[i] = row.toUsage()
		out[i].Purpose = row.Key
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	rows, err := r.usageBy(ctx, "model")
	if err != nil {
		return nil, err
	}
	out := make([]LLMUsage, len(rows))
	for i, row := range rows {
		out[i] = row.toUsage()
		out[i].Model = row.Key
	}
	return out, nil
}

func (r *eventRepo) usageBy(ctx context.Context, column string) ([]usageRow, error) {
	query, args := builder(r.dialect).
		Select(
			entsql.As(column, "key"),
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As(entsql.Avg("latency_ms"), "avg_latency_ms"),
		).
		From(entsql.Table(LLMRequestEventsTable.Name)).
		GroupBy(column).
		OrderBy(entsql.Asc(column)).
		Query()

	var rows []usageRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate LLM usage by %s: %w", column, err)
	}
	return rows, nil
}

func (row usageRow) toUsage() LLMUsage {
	return LLMUsage{
		Calls:        row.Calls,
		InputTokens:  int(row.InputTokens.Int64),
		OutputTokens: int(row.OutputTokens.Int64),
		AvgLatencyMs: row.AvgLatencyMs.Float64,
	}
}
