package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/logger"
)

// NewSQLiteDB creates an attendance database in a temporary file with the
// device schema applied. Each test gets its own file.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "attendance.db"),
	}

	db, err := database.New(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}
