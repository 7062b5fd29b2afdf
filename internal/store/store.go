// Package store owns the relational handle shared by the catalog and quote
// repositories. Every call into the database goes through Run or RunTx, which
// hold a single mutex for the duration of the call.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

//go:embed schema.sql
var schemaSQL string

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Querier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx. Queries are
// written with ? placeholders and passed through Rebind before execution.
type Querier interface {
	sqlx.ExtContext
}

// Store is the process-wide database handle.
type Store struct {
	mu     sync.Mutex
	db     *sqlx.DB
	pool   *pgxpool.Pool
	driver string
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open connects to the database identified by driver and dsn and creates the
// schema if it does not exist yet. For SQLite the dsn is a file path (or
// MemoryDSN); missing parent directories are created.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("store dsn is required")
	}

	var (
		db   *sqlx.DB
		pool *pgxpool.Pool
		err  error
	)
	switch driver {
	case DriverSQLite:
		db, err = openSQLite(dsn)
	case DriverPostgres:
		db, pool, err = openPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}

	s := &Store{db: db, pool: pool, driver: driver, now: time.Now}
	if err := db.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("pinging %s store: %w", driver, err)
	}

	if err := applySchema(ctx, db); err != nil {
		_ = s.Close()
		return nil, err
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// openPostgres builds a pgx connection pool and exposes it through
// database/sql so the repositories share one code path across drivers.
func openPostgres(ctx context.Context, databaseURL string) (*sqlx.DB, *pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return sqlx.NewDb(stdlib.OpenDBFromPool(pool), DriverPostgres), pool, nil
}

func openSQLite(path string) (*sqlx.DB, error) {
	if path != MemoryDSN && !strings.HasPrefix(path, "file:") {
		path = filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sqlx.Open(DriverSQLite, path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// A single connection keeps an in-memory database alive and matches the
	// one-operation-at-a-time access model.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

func applySchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// Run calls fn while holding the store lock.
func (s *Store) Run(ctx context.Context, fn func(q Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.db)
}

// RunTx calls fn inside a transaction while holding the store lock. The
// transaction is rolled back if fn returns an error.
func (s *Store) RunTx(ctx context.Context, fn func(q Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Now returns the current time in the stored timestamp resolution.
func (s *Store) Now() Timestamp {
	return NewTimestamp(s.now())
}

// Driver returns the database/sql driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle and, for Postgres, the
// connection pool behind it.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// DB returns the underlying handle. It bypasses the store lock and is meant
// for tests and tooling only.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// IsForeignKeyViolation reports whether err was caused by a foreign key
// constraint failing, for either supported driver.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
