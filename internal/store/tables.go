package store

import (
	"math"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Timestamps are stored as Unix milliseconds so both dialects agree on the
// column type.

var (
	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the schema information for the "global_sequence" table.
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// StateEntriesColumns holds the columns for the "state_entries" table.
	StateEntriesColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Size: 255},
		{Name: "value", Type: field.TypeString, Size: math.MaxInt32},
		{Name: "version", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// StateEntriesTable holds the schema information for the "state_entries" table.
	StateEntriesTable = &schema.Table{
		Name:       "state_entries",
		Columns:    StateEntriesColumns,
		PrimaryKey: []*schema.Column{StateEntriesColumns[0]},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString, Size: 64},
		{Name: "model", Type: field.TypeString, Size: 255},
		{Name: "purpose", Type: field.TypeString, Size: 64},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: math.MaxInt32, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: math.MaxInt32, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: math.MaxInt32, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_sequence", Unique: true, Columns: []*schema.Column{LLMRequestEventsColumns[1]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
		},
	}

	// SnapshotsColumns holds the columns for the "snapshots" table.
	SnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "data", Type: field.TypeString, Size: math.MaxInt32},
	}
	// SnapshotsTable holds the schema information for the "snapshots" table.
	SnapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    SnapshotsColumns,
		PrimaryKey: []*schema.Column{SnapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_timestamp", Columns: []*schema.Column{SnapshotsColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		GlobalSequenceTable,
		StateEntriesTable,
		LLMRequestEventsTable,
		SnapshotsTable,
	}
)
