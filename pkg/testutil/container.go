// Package testutil provides testing utilities for the attendance reporting
// backend: SQLite fixture databases, a Postgres testcontainer, sqlmock
// wrappers and HTTP helpers.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresImage matches the server version of consolidated deployments
const PostgresImage = "postgres:15-alpine"

// PostgresContainer is a throwaway Postgres server for dialect tests
type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

// StartPostgres starts an empty attendly_test database. Postgres logs the
// ready line twice, once for the init run and once for the real server.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(PostgresImage),
		postgres.WithDatabase("attendly_test"),
		postgres.WithUsername("attendly"),
		postgres.WithPassword("attendly"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		DSN:               dsn,
	}, nil
}
