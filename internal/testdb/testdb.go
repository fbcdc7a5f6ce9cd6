//go:build integration

// Package testdb connects integration tests to a real Postgres database.
// Tests are skipped unless LIFT_TEST_DATABASE_URL is set.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/lift-api/internal/config"
	"github.com/phrazzld/lift-api/internal/platform/postgres"
	"github.com/phrazzld/lift-api/internal/redact"
)

// EnvTestDatabaseURL names the variable holding the test database URL.
const EnvTestDatabaseURL = "LIFT_TEST_DATABASE_URL"

// Open connects to the test database and applies every migration. The
// connection is closed when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv(EnvTestDatabaseURL)
	if dbURL == "" {
		t.Skipf("%s not set", EnvTestDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := postgres.Open(ctx, config.DatabaseConfig{
		URL:          dbURL,
		MaxOpenConns: 5,
		MaxIdleConns: 5,
		PingTimeout:  5 * time.Second,
	}, log)
	if err != nil {
		t.Fatalf("failed to connect to test database: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := postgres.Migrate(ctx, db, log); err != nil {
		t.Fatalf("failed to migrate test database: %s", redact.Error(err))
	}
	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so
// tests can share one database without seeing each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %s", redact.Error(err))
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
