package testutil

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/jmoiron/sqlx"
)

// MockDB is a Postgres-dialect database backed by sqlmock. Expected SQL is
// matched as a substring of the executed statement, so a distinctive
// fragment such as "FROM att_exceptionassign" is enough.
type MockDB struct {
	DB   *database.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB is used to drive repository error paths that SQLite fixtures
// cannot produce
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(containsMatcher))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &MockDB{
		DB:   database.Wrap(sqlx.NewDb(conn, "postgres"), database.Postgres{}, nil),
		Mock: mock,
	}
}

var containsMatcher = sqlmock.QueryMatcherFunc(func(expected, actual string) error {
	if !strings.Contains(actual, expected) {
		return fmt.Errorf("query %q does not contain %q", actual, expected)
	}
	return nil
})

// ExpectationsWereMet fails t if an expected statement never ran
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled sql expectations: %v", err)
	}
}

// NewResult creates a result for ExpectExec
func NewResult(lastInsertID, rowsAffected int64) driver.Result {
	return sqlmock.NewResult(lastInsertID, rowsAffected)
}

// MockPublisher records published events. Safe for concurrent use.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	Err    error
}

// PublishedEvent represents an event that was published
type PublishedEvent struct {
	Type    string
	Payload interface{}
}

// NewMockPublisher creates a new mock publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records an event for later verification
func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{Type: eventType, Payload: payload})
	return m.Err
}

// Events returns a copy of the recorded events
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// AssertEventPublished checks if an event of the given type was published
func (m *MockPublisher) AssertEventPublished(t *testing.T, eventType string) PublishedEvent {
	t.Helper()
	for _, e := range m.Events() {
		if e.Type == eventType {
			return e
		}
	}
	t.Errorf("expected event %q to be published, but it wasn't", eventType)
	return PublishedEvent{}
}

// AssertNoEventsPublished checks that no events were published
func (m *MockPublisher) AssertNoEventsPublished(t *testing.T) {
	t.Helper()
	if events := m.Events(); len(events) > 0 {
		t.Errorf("expected no events, but got %d: %+v", len(events), events)
	}
}
