package service_test

import (
	"testing"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/attendly/attendly-backend/pkg/testutil"
)

const (
	supportDept = "Pers.Apoyo HeH"
	staffDept   = "Personal.HeH"
)

type staticSettings settings.Settings

func (s staticSettings) Get() settings.Settings { return settings.Settings(s) }

func reportsConfig() config.ReportsConfig {
	return config.ReportsConfig{
		Timezone:          "UTC",
		MaxRangeDays:      366,
		Paycodes:          config.PaycodeConfig{Sick: 11, Vacation: 12, Leave: 13},
		SupportDepartment: supportDept,
		StaffDepartment:   staffDept,
		QueryTimeout:      10 * time.Second,
		DefaultPageSize:   10,
		MaxPageSize:       500,
	}
}

func fixedNow(s string) func() time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newPublisher() (*events.AttendanceEventPublisher, *testutil.MockPublisher) {
	mock := testutil.NewMockPublisher()
	return events.NewAttendanceEventPublisher(mock, logger.Nop()), mock
}

// seed creates the September 2024 fixture (Sept 1 is a Sunday):
//
//	Ana Torres (1, support):  09-02 08:00-17:30, 09-03 08:05 only, sick leave 09-04
//	Luis Bravo (2, staff):    09-02 08:10/12:00/16:40, vacation 09-03
//	Eva Ruiz (3, inactive):   09-02 09:00-18:00
func seed(t *testing.T) *database.DB {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	testutil.NewFixtures(t, db).
		Department(1, supportDept).
		Department(2, staffDept).
		Employee(testutil.EmployeeFixture{ID: 1, Code: "E001", Pin: "101", FirstName: "Ana", LastName: "Torres", Email: "ana@hospital.ec", DepartmentID: 1, Active: true}).
		Employee(testutil.EmployeeFixture{ID: 2, Code: "E002", Pin: "102", FirstName: "Luis", LastName: "Bravo", Email: "luis@hospital.ec", DepartmentID: 2, Active: true}).
		Employee(testutil.EmployeeFixture{ID: 3, Code: "E003", Pin: "103", FirstName: "Eva", LastName: "Ruiz", Email: "eva@hospital.ec", DepartmentID: 2, Active: false}).
		Punch(1, "2024-09-02 08:00:00").
		Punch(1, "2024-09-02 17:30:00").
		Punch(1, "2024-09-03 08:05:00").
		Punch(2, "2024-09-02 08:10:00").
		Punch(2, "2024-09-02 12:00:00").
		Punch(2, "2024-09-02 16:40:00").
		Punch(3, "2024-09-02 09:00:00").
		Punch(3, "2024-09-02 18:00:00").
		StandardPaycodes().
		Exception(1, "2024-09-04", "2024-09-04 08:00:00", "2024-09-04 12:20:00", 11).
		Exception(2, "2024-09-03", "2024-09-03 08:00:00", "2024-09-03 17:00:00", 12)

	return db
}
