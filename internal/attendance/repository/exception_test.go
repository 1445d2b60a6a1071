package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExceptions(t *testing.T) *repository.ExceptionRepository {
	t.Helper()
	db := seedAttendance(t)
	testutil.NewFixtures(t, db).
		StandardPaycodes().
		Exception(1, "2024-09-05", "2024-09-05 08:00:00", "2024-09-05 12:30:00", 11).
		Exception(2, "2024-09-06", "2024-09-06 08:00:00", "2024-09-06 17:00:00", 12).
		Exception(2, "2024-09-20", "2024-09-20 09:00:00", "2024-09-20 11:00:00", 13).
		Exception(3, "2024-09-06", "2024-09-06 08:00:00", "2024-09-06 17:00:00", 12).
		Exception(1, "2024-10-01", "2024-10-01 08:00:00", "2024-10-01 17:00:00", 12)
	return repository.NewExceptionRepository(db)
}

func TestExceptionList_RangeAndActiveEmployees(t *testing.T) {
	repo := seedExceptions(t)

	rows, err := repo.List(context.Background(), "2024-09-01", "2024-09-30")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// ordered by pin, then date
	assert.Equal(t, int64(1), rows[0].EmployeeID)
	assert.Equal(t, int64(2), rows[1].EmployeeID)
	assert.Equal(t, "2024-09-06", rows[1].ExceptionDate.Time.Format("2006-01-02"))
	assert.Equal(t, "2024-09-20", rows[2].ExceptionDate.Time.Format("2006-01-02"))

	for _, r := range rows {
		assert.NotEqual(t, int64(3), r.EmployeeID, "inactive employee listed")
	}
}

func TestExceptionList_TypeFromPaycodeDescription(t *testing.T) {
	repo := seedExceptions(t)

	rows, err := repo.List(context.Background(), "2024-09-01", "2024-09-30")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, repository.ExceptionSick, rows[0].ExceptionType)
	assert.Equal(t, "Sick leave", rows[0].Paycode)
	assert.Equal(t, repository.ExceptionVacation, rows[1].ExceptionType)
	assert.Equal(t, "Permiso personal", rows[2].ExceptionType)

	require.True(t, rows[0].StartTime.Valid)
	require.True(t, rows[0].EndTime.Valid)
	assert.Equal(t, 4.5, rows[0].EndTime.Time.Sub(rows[0].StartTime.Time).Hours())
}

func TestExceptionList_EmptyRange(t *testing.T) {
	repo := seedExceptions(t)

	rows, err := repo.List(context.Background(), "2023-01-01", "2023-01-31")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExceptionListByPaycode(t *testing.T) {
	repo := seedExceptions(t)

	rows, err := repo.ListByPaycode(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].EmployeeID)
	assert.Equal(t, "2024-10-01", rows[0].ExceptionDate.Time.Format("2006-01-02"))
	assert.Equal(t, int64(2), rows[1].EmployeeID)
	for _, r := range rows {
		assert.Equal(t, repository.ExceptionVacation, r.ExceptionType)
	}
}

func TestExceptionList_DatabaseError(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	mockDB.Mock.ExpectQuery("FROM att_exceptionassign ea").WillReturnError(sql.ErrConnDone)

	repo := repository.NewExceptionRepository(mockDB.DB)
	rows, err := repo.List(context.Background(), "2024-09-01", "2024-09-30")

	assert.Nil(t, rows)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	mockDB.ExpectationsWereMet(t)
}
