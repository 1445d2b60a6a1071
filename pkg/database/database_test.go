package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/attendly/attendly-backend/pkg/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Scan(t *testing.T) {
	want := time.Date(2024, 9, 2, 8, 1, 30, 0, time.UTC)

	tests := []struct {
		name      string
		src       interface{}
		wantValid bool
		want      time.Time
	}{
		{"nil", nil, false, time.Time{}},
		{"time", want, true, want},
		{"sqlite text", "2024-09-02 08:01:30", true, want},
		{"bytes", []byte("2024-09-02 08:01:30"), true, want},
		{"iso", "2024-09-02T08:01:30Z", true, want},
		{"date only", "2024-09-02", true, time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)},
		{"empty", "", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, ts.Scan(tt.src))
			assert.Equal(t, tt.wantValid, ts.Valid)
			if tt.wantValid {
				assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
			}
		})
	}
}

func TestTimestamp_ScanInvalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
	assert.Nil(t, ts.Ptr())
}

func TestDialects(t *testing.T) {
	lite, err := DialectFor("sqlite")
	require.NoError(t, err)
	assert.Equal(t,
		"dates(d) AS (SELECT date(:start) UNION ALL SELECT date(d, '+1 day') FROM dates WHERE d < date(:end))",
		lite.DateSpine("dates", ":start", ":end"))
	assert.Equal(t, "strftime('%Y-%m', x)", lite.YearMonth("x"))

	pg, err := DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t,
		"dates(d) AS (SELECT CAST(:start AS date) UNION ALL SELECT d + 1 FROM dates WHERE d < CAST(:end AS date))",
		pg.DateSpine("dates", ":start", ":end"))
	assert.Equal(t, "CAST(p.punch_time AS date)", pg.DateOf("p.punch_time"))
	assert.NotContains(t, pg.TimeOfDay("x"), "::")

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil, "employee"))

	notFound := MapError(fmt.Errorf("get: %w", sql.ErrNoRows), "Empleado")
	require.NotNil(t, notFound)
	assert.True(t, errors.Is(notFound, errors.ErrNotFound))

	conflict := MapError(&pq.Error{Code: "23505"}, "employee")
	require.NotNil(t, conflict)
	assert.Equal(t, "CONFLICT", conflict.Code)

	assert.Nil(t, MapError(fmt.Errorf("network"), "employee"))
	assert.EqualError(t, Err(context.Background(), fmt.Errorf("network"), "employee"), "network")
	assert.NoError(t, Err(context.Background(), nil, "employee"))
}

func TestMapError_Timeouts(t *testing.T) {
	expired := MapError(fmt.Errorf("select: %w", context.DeadlineExceeded), "attendance")
	require.NotNil(t, expired)
	assert.True(t, errors.Is(expired, errors.ErrTimeout))
	assert.Equal(t, http.StatusGatewayTimeout, expired.StatusCode)

	canceled := MapError(&pq.Error{Code: "57014"}, "attendance")
	require.NotNil(t, canceled)
	assert.True(t, errors.Is(canceled, errors.ErrTimeout))

	busy := MapError(&pq.Error{Code: "53300"}, "attendance")
	require.NotNil(t, busy)
	assert.True(t, errors.Is(busy, errors.ErrUnavailable))
}

func TestErr_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	// sqlmock and SQLite report a cancelled statement without wrapping ctx.Err()
	err := Err(ctx, fmt.Errorf("canceling query due to user request"), "dashboard")

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "QUERY_TIMEOUT", appErr.Code)
	assert.Equal(t, http.StatusGatewayTimeout, appErr.StatusCode)
}
