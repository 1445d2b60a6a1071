package repository_test

import (
	"testing"

	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/testutil"
)

const (
	supportDept = "Pers.Apoyo HeH"
	staffDept   = "Personal.HeH"
)

// seedAttendance creates two active employees in different departments,
// one inactive employee and a few punches in the first days of September 2024:
//
//	Ana Torres (1):  09-02 two punches, 09-03 one punch
//	Luis Bravo (2):  09-02 three punches
//	Eva Ruiz (3):    inactive, punches on 09-02
func seedAttendance(t *testing.T) *database.DB {
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
		Punch(3, "2024-09-02 18:00:00")

	return db
}
