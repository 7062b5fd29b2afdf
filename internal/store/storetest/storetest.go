// Package storetest opens stores for repository tests against every
// supported driver.
package storetest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/daap14/quotator/internal/store"
)

// DatabaseURLEnv names the variable holding the PostgreSQL URL for test
// runs. Postgres runs are skipped when it is unset or unreachable.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// schemaLockKey serializes schema creation between test packages sharing
// one Postgres database.
const schemaLockKey = 7_340_112

// Drivers lists the drivers repository tests run against.
var Drivers = []string{store.DriverSQLite, store.DriverPostgres}

// Run calls fn in one subtest per driver.
func Run(t *testing.T, fn func(t *testing.T, driver string)) {
	t.Helper()
	for _, driver := range Drivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, driver)
		})
	}
}

// Open returns an empty store for driver. SQLite stores are private
// in-memory databases. Postgres stores share the database at
// TEST_DATABASE_URL, so the given tables are emptied first, in order.
func Open(t *testing.T, driver string, tables []string, opts ...store.Option) *store.Store {
	t.Helper()
	ctx := context.Background()

	if driver != store.DriverPostgres {
		s, err := store.Open(ctx, driver, store.MemoryDSN, opts...)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	dbURL := os.Getenv(DatabaseURLEnv)
	if dbURL == "" {
		t.Skipf("skipping: %s is not set", DatabaseURLEnv)
	}

	s := openPostgres(t, dbURL, opts...)
	for _, table := range tables {
		_, err := s.DB().ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}
	return s
}

func openPostgres(t *testing.T, dbURL string, opts ...store.Option) *store.Store {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Skipf("skipping: cannot connect to test database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		t.Skipf("skipping: cannot ping test database: %v", err)
	}

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	_, err = conn.Exec(ctx, "SELECT pg_advisory_lock($1)", schemaLockKey)
	require.NoError(t, err)
	defer func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", schemaLockKey)
	}()

	s, err := store.Open(ctx, store.DriverPostgres, dbURL, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
