package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/jmoiron/sqlx"

	// Postgres driver for shared deployments.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sqlx.DB
	dialect string
	seq     *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
func Open(dsn string) (*Store, error) {
	return OpenDriver(DriverSQLite, dsn)
}

// OpenDriver creates a new Store for the given driver ("sqlite" or
// "postgres"). It applies SQLite pragmas where relevant and runs
// auto-migration.
func OpenDriver(driver, dsn string) (*Store, error) {
	var d string
	switch driver {
	case DriverSQLite, "":
		driver, d = DriverSQLite, dialect.SQLite
	case DriverPostgres:
		d = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if d == dialect.SQLite {
		// One connection keeps per-connection pragmas and in-memory databases intact.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := migrate(context.Background(), db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db, d)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dialect: d, seq: seq}, nil
}

// DB returns the underlying *sqlx.DB for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect returns the ent dialect name of the connection.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StateRepo returns a StateRepo backed by this store.
func (s *Store) StateRepo() StateRepo {
	return &stateRepo{db: s.db, dialect: s.dialect}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, dialect: s.dialect, seq: s.seq}
}

// SnapshotRepo returns a SnapshotRepo backed by this store.
func (s *Store) SnapshotRepo() SnapshotRepo {
	return &snapshotRepo{db: s.db, dialect: s.dialect}
}

// NextSequence returns the next global sequence number.
func (s *Store) NextSequence(ctx context.Context) (int64, error) {
	return s.seq.Next(ctx)
}

// builder returns an ent SQL builder for the store's dialect.
func builder(d string) *entsql.DialectBuilder {
	return entsql.Dialect(d)
}

func migrate(ctx context.Context, db *sqlx.DB, d string) error {
	m, err := schema.NewMigrate(entsql.OpenDB(d, db.DB))
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINGUA_DB environment variable
// 2. $XDG_DATA_HOME/lingua/lingua.db
// 3. ~/.local/share/lingua/lingua.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINGUA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lingua", "lingua.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
