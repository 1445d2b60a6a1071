package repository_test

import (
	"context"
	"testing"

	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeFilter() repository.AttendanceFilter {
	return repository.AttendanceFilter{StartDate: "2024-09-02", EndDate: "2024-09-04"}
}

type dayKey struct {
	EmployeeID int64
	Day        string
	Status     string
}

func keys(rows []repository.DayRow) []dayKey {
	out := make([]dayKey, 0, len(rows))
	for _, r := range rows {
		out = append(out, dayKey{r.EmployeeID, r.Day.Time.Format("2006-01-02"), r.Status})
	}
	return out
}

// ============================================================================
// DATE SPINE
// ============================================================================

func TestSearchByDay_OneRowPerActiveEmployeeAndDay(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	rows, total, err := repo.SearchByDay(context.Background(), rangeFilter(), repository.Page{})
	require.NoError(t, err)

	want := []dayKey{
		{2, "2024-09-02", repository.StatusComplete},
		{1, "2024-09-02", repository.StatusComplete},
		{2, "2024-09-03", repository.StatusMissing},
		{1, "2024-09-03", repository.StatusPending},
		{2, "2024-09-04", repository.StatusMissing},
		{1, "2024-09-04", repository.StatusMissing},
	}
	if diff := cmp.Diff(want, keys(rows)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(len(rows)), total)
}

func TestSearchByDay_PunchAggregates(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	rows, _, err := repo.SearchByDay(context.Background(), rangeFilter(), repository.Page{})
	require.NoError(t, err)

	byKey := map[dayKey]repository.DayRow{}
	for _, r := range rows {
		byKey[dayKey{r.EmployeeID, r.Day.Time.Format("2006-01-02"), r.Status}] = r
	}

	complete := byKey[dayKey{2, "2024-09-02", repository.StatusComplete}]
	assert.Equal(t, 3, complete.PunchCount)
	require.True(t, complete.FirstPunch.Valid)
	require.True(t, complete.LastPunch.Valid)
	assert.Equal(t, "08:10", complete.FirstPunch.Time.Format("15:04"))
	assert.Equal(t, "16:40", complete.LastPunch.Time.Format("15:04"))
	assert.Equal(t, "E002", complete.EmployeeCode.String)
	assert.Equal(t, staffDept, complete.Department.String)

	pending := byKey[dayKey{1, "2024-09-03", repository.StatusPending}]
	assert.Equal(t, 1, pending.PunchCount)
	assert.True(t, pending.FirstPunch.Valid)
	assert.Equal(t, "08:05", pending.FirstPunch.Time.Format("15:04"))

	missing := byKey[dayKey{1, "2024-09-04", repository.StatusMissing}]
	assert.Equal(t, 0, missing.PunchCount)
	assert.False(t, missing.FirstPunch.Valid)
	assert.False(t, missing.LastPunch.Valid)
}

func TestSearchByDay_InactiveEmployeesExcluded(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	rows, _, err := repo.SearchByDay(context.Background(), rangeFilter(), repository.Page{})
	require.NoError(t, err)

	for _, r := range rows {
		assert.NotEqual(t, int64(3), r.EmployeeID)
	}
}

func TestSearchByDay_SingleDayRange(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	f := repository.AttendanceFilter{StartDate: "2024-09-04", EndDate: "2024-09-04"}
	rows, total, err := repo.SearchByDay(context.Background(), f, repository.Page{})
	require.NoError(t, err)

	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), total)
}

// ============================================================================
// FILTERS
// ============================================================================

func TestSearchByDay_StatusFilterAppliesAfterGrouping(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	tests := []struct {
		status string
		want   int
	}{
		{repository.StatusComplete, 2},
		{repository.StatusPending, 1},
		{repository.StatusMissing, 3},
		{repository.StatusAll, 6},
		{"", 6},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			f := rangeFilter()
			f.Status = tt.status

			rows, total, err := repo.SearchByDay(context.Background(), f, repository.Page{})
			require.NoError(t, err)

			assert.Len(t, rows, tt.want)
			assert.Equal(t, int64(tt.want), total)
			if tt.status != "" && tt.status != repository.StatusAll {
				for _, r := range rows {
					assert.Equal(t, tt.status, r.Status)
				}
			}
		})
	}
}

func TestSearchByDay_NameFilterIsCaseInsensitiveSubstring(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	for _, name := range []string{"torres", "ANA T", "na Tor"} {
		f := rangeFilter()
		f.Name = name

		rows, total, err := repo.SearchByDay(context.Background(), f, repository.Page{})
		require.NoError(t, err, name)

		assert.Len(t, rows, 3, name)
		assert.Equal(t, int64(3), total, name)
		for _, r := range rows {
			assert.Equal(t, int64(1), r.EmployeeID, name)
		}
	}
}

func TestSearchByDay_NameFilterTreatsWildcardsLiterally(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	for _, name := range []string{"_", "%", "a%t", "an_ t"} {
		f := rangeFilter()
		f.Name = name

		rows, total, err := repo.SearchByDay(context.Background(), f, repository.Page{})
		require.NoError(t, err, name)

		assert.Empty(t, rows, name)
		assert.Zero(t, total, name)
	}
}

func TestSearchByDay_DepartmentAndEmployeeFilters(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	f := rangeFilter()
	f.Department = staffDept
	rows, _, err := repo.SearchByDay(context.Background(), f, repository.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, int64(2), r.EmployeeID)
	}

	id := int64(1)
	f = rangeFilter()
	f.EmployeeID = &id
	f.Status = repository.StatusMissing
	rows, total, err := repo.SearchByDay(context.Background(), f, repository.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "2024-09-04", rows[0].Day.Time.Format("2006-01-02"))
}

func TestSearchByDay_NoMatchesReturnsEmptySlice(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	f := rangeFilter()
	f.Name = "nobody"
	rows, total, err := repo.SearchByDay(context.Background(), f, repository.Page{})
	require.NoError(t, err)

	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Zero(t, total)
}

// ============================================================================
// PAGINATION
// ============================================================================

func TestSearchByDay_PagesPartitionTheUnpaginatedResult(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))
	ctx := context.Background()

	all, total, err := repo.SearchByDay(ctx, rangeFilter(), repository.Page{})
	require.NoError(t, err)

	var paged []repository.DayRow
	for offset := 0; offset < len(all); offset += 4 {
		rows, pageTotal, err := repo.SearchByDay(ctx, rangeFilter(), repository.Page{Limit: 4, Offset: offset})
		require.NoError(t, err)
		assert.Equal(t, total, pageTotal)
		assert.LessOrEqual(t, len(rows), 4)
		paged = append(paged, rows...)
	}

	if diff := cmp.Diff(keys(all), keys(paged)); diff != "" {
		t.Errorf("paged rows differ from unpaginated rows (-all +paged):\n%s", diff)
	}
}

func TestSearchByDay_OffsetPastEnd(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	rows, total, err := repo.SearchByDay(context.Background(), rangeFilter(), repository.Page{Limit: 10, Offset: 50})
	require.NoError(t, err)

	assert.Empty(t, rows)
	assert.Equal(t, int64(6), total)
}

// ============================================================================
// PUNCH DAYS
// ============================================================================

func TestPunchDays_OnlyDaysWithPunches(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	f := repository.AttendanceFilter{StartDate: "2024-09-01", EndDate: "2024-09-30"}
	rows, total, err := repo.PunchDays(context.Background(), f, repository.Page{})
	require.NoError(t, err)

	want := []dayKey{
		{2, "2024-09-02", repository.StatusComplete},
		{3, "2024-09-02", repository.StatusComplete},
		{1, "2024-09-02", repository.StatusComplete},
		{1, "2024-09-03", repository.StatusPending},
	}
	if diff := cmp.Diff(want, keys(rows)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(4), total)
}

func TestPunchDays_DepartmentFilterAndPaging(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	f := repository.AttendanceFilter{StartDate: "2024-09-01", EndDate: "2024-09-30", Department: supportDept}
	rows, total, err := repo.PunchDays(context.Background(), f, repository.Page{Limit: 1})
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), rows[0].EmployeeID)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, repository.StatusMissing, repository.StatusFor(0))
	assert.Equal(t, repository.StatusPending, repository.StatusFor(1))
	assert.Equal(t, repository.StatusComplete, repository.StatusFor(2))
	assert.Equal(t, repository.StatusComplete, repository.StatusFor(7))
}

// ============================================================================
// CONTROL GRID
// ============================================================================

func TestControlGrid_CollapsesExceptionsPerDay(t *testing.T) {
	db := seedAttendance(t)
	ctx := context.Background()

	testutil.NewFixtures(t, db).
		StandardPaycodes().
		Exception(2, "2024-09-03", "2024-09-03 08:00:00", "2024-09-03 17:00:00", 12).
		Exception(2, "2024-09-03", "2024-09-03 08:00:00", "2024-09-03 12:00:00", 11).
		Exception(1, "2024-09-10", "2024-09-10 08:00:00", "2024-09-10 17:00:00", 12)

	repo := repository.NewAttendanceRepository(db)
	rows, err := repo.ControlGrid(ctx, "2024-09-02", "2024-09-04", "")
	require.NoError(t, err)
	require.Len(t, rows, 6)

	// department descending puts Personal.HeH ahead of Pers.Apoyo HeH
	for i, r := range rows[:3] {
		assert.Equal(t, int64(2), r.EmployeeID, "row %d", i)
	}
	for i, r := range rows[3:] {
		assert.Equal(t, int64(1), r.EmployeeID, "row %d", i+3)
	}

	assert.Equal(t, "2024-09-02", rows[0].Day.Time.Format("2006-01-02"))
	assert.Equal(t, 3, rows[0].PunchCount)
	assert.False(t, rows[0].PaycodeID.Valid)

	assert.Equal(t, "2024-09-03", rows[1].Day.Time.Format("2006-01-02"))
	assert.Equal(t, 0, rows[1].PunchCount)
	require.True(t, rows[1].PaycodeID.Valid)
	assert.Equal(t, int64(11), rows[1].PaycodeID.Int64)

	assert.Equal(t, "102", rows[0].EmployeePin.String)
}

func TestControlGrid_DepartmentFilter(t *testing.T) {
	repo := repository.NewAttendanceRepository(seedAttendance(t))

	rows, err := repo.ControlGrid(context.Background(), "2024-09-01", "2024-09-30", supportDept)
	require.NoError(t, err)

	assert.Len(t, rows, 30)
	for _, r := range rows {
		assert.Equal(t, int64(1), r.EmployeeID)
	}
}
