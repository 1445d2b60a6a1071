package database

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// DB wraps sqlx.DB with the SQL dialect of the underlying driver
type DB struct {
	*sqlx.DB
	Dialect Dialect
	logger  *logger.Logger
}

// New creates a new database connection for the configured driver
func New(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	db, err := Open(cfg.Driver, cfg.DSN(), log)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite {
		// a single writer avoids SQLITE_BUSY on the device file
		db.SetMaxOpenConns(1)
		if cfg.Path == ":memory:" {
			db.SetConnMaxLifetime(0)
		}
		return db, nil
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Open connects with an explicit driver name and DSN
func Open(driver, dsn string, log *logger.Logger) (*DB, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	wrapped := Wrap(db, dialect, log)
	wrapped.logger.Info().Str("driver", driver).Msg("connected to database")
	return wrapped, nil
}

// Wrap adopts an existing sqlx handle, e.g. a sqlmock connection in tests
func Wrap(db *sqlx.DB, dialect Dialect, log *logger.Logger) *DB {
	if log == nil {
		log = logger.Nop()
	}
	return &DB{
		DB:      db,
		Dialect: dialect,
		logger:  log,
	}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health returns the health status of the database
func (db *DB) Health(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "up",
		"driver": db.Dialect.Name(),
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
	}

	return status
}

// SelectNamed binds named parameters for this driver and runs the query into dest
func (db *DB) SelectNamed(ctx context.Context, dest interface{}, query string, arg interface{}) error {
	q, args, err := db.BindNamed(query, arg)
	if err != nil {
		return fmt.Errorf("failed to bind query: %w", err)
	}
	return db.SelectContext(ctx, dest, q, args...)
}

// GetNamed is SelectNamed for a single row
func (db *DB) GetNamed(ctx context.Context, dest interface{}, query string, arg interface{}) error {
	q, args, err := db.BindNamed(query, arg)
	if err != nil {
		return fmt.Errorf("failed to bind query: %w", err)
	}
	return db.GetContext(ctx, dest, q, args...)
}
