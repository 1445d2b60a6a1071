package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/logger"
)

// IntegrationEnv enables tests that need Docker
const IntegrationEnv = "ATTENDLY_INTEGRATION"

// IntegrationEnabled reports whether Docker backed tests should run
func IntegrationEnabled() bool {
	return os.Getenv(IntegrationEnv) == "1"
}

// IntegrationSuite provides a Postgres database with the attendance schema
type IntegrationSuite struct {
	Container *PostgresContainer
	DB        *database.DB
}

// NewIntegrationSuite starts a container and applies the schema.
// Call this in TestMain and share the suite across tests.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    if !testutil.IntegrationEnabled() {
//	        os.Exit(m.Run())
//	    }
//	    ctx := context.Background()
//	    suite, err = testutil.NewIntegrationSuite(ctx)
//	    ...
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, err := StartPostgres(ctx)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(config.DriverPostgres, container.DSN, logger.Nop())
	if err != nil {
		container.Terminate(ctx)
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		container.Terminate(ctx)
		return nil, err
	}

	return &IntegrationSuite{Container: container, DB: db}, nil
}

// Reset truncates every attendance table so each test starts empty
func (s *IntegrationSuite) Reset(t *testing.T) {
	t.Helper()
	stmt := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(database.Tables, ", "))
	if _, err := s.DB.ExecContext(context.Background(), stmt); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Cleanup closes the database and terminates the container
func (s *IntegrationSuite) Cleanup(ctx context.Context) {
	s.DB.Close()
	s.Container.Terminate(ctx)
}
