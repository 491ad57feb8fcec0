// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pgtest opens a migrated PostgreSQL database for store tests.

Tests are skipped unless TEST_DATABASE_URL points at a disposable database.
Each package truncates only the tables it owns, so packages may share it.
*/
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/toolauth/internal/platform/migration"
	"github.com/taibuivan/toolauth/internal/platform/postgres"
)

// EnvDatabaseURL names the variable holding the test DSN.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// Open returns a pool on a migrated database with the given tables emptied.
func Open(t *testing.T, tables ...string) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if err := migration.RunUp(dsn, migrationsPath(), logger); err != nil {
		t.Fatalf("pgtest: migrate: %v", err)
	}

	pool, err := postgres.NewPool(context.Background(), dsn, logger)
	if err != nil {
		t.Fatalf("pgtest: connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if len(tables) > 0 {
		if _, err := pool.Exec(context.Background(), "TRUNCATE "+strings.Join(tables, ", ")+" CASCADE"); err != nil {
			t.Fatalf("pgtest: truncate: %v", err)
		}
	}

	return pool
}

// migrationsPath resolves data/migrations from this file's location.
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
