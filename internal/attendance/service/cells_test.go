package service_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/render"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/internal/attendance/service"
	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/stretchr/testify/assert"
)

func ts(s string) database.Timestamp {
	var t database.Timestamp
	if err := t.Scan(s); err != nil {
		panic(err)
	}
	return t
}

func TestDeriveCell(t *testing.T) {
	symbols := settings.Defaults().Symbols
	paycodes := reportsConfig().Paycodes

	monday := ts("2024-09-02")
	saturday := ts("2024-09-07")
	vacation := sql.NullInt64{Int64: 12, Valid: true}

	tests := []struct {
		name string
		row  repository.ControlRow
		want render.ControlCell
	}{
		{
			name: "two punches round to whole hours",
			row:  repository.ControlRow{Day: monday, PunchCount: 2, FirstPunch: ts("2024-09-02 08:00:00"), LastPunch: ts("2024-09-02 16:29:00")},
			want: render.HoursCell(8),
		},
		{
			name: "hours win over an exception",
			row:  repository.ControlRow{Day: monday, PunchCount: 3, FirstPunch: ts("2024-09-02 08:00:00"), LastPunch: ts("2024-09-02 16:30:00"), PaycodeID: vacation},
			want: render.HoursCell(9),
		},
		{
			name: "vacation",
			row:  repository.ControlRow{Day: monday, PaycodeID: vacation},
			want: render.SymbolCell("V"),
		},
		{
			name: "sick leave over a lone punch",
			row:  repository.ControlRow{Day: monday, PunchCount: 1, FirstPunch: ts("2024-09-02 08:00:00"), LastPunch: ts("2024-09-02 08:00:00"), PaycodeID: sql.NullInt64{Int64: 11, Valid: true}},
			want: render.SymbolCell("E"),
		},
		{
			name: "leave",
			row:  repository.ControlRow{Day: saturday, PaycodeID: sql.NullInt64{Int64: 13, Valid: true}},
			want: render.SymbolCell("P"),
		},
		{
			name: "unmapped paycode falls through",
			row:  repository.ControlRow{Day: monday, PaycodeID: sql.NullInt64{Int64: 99, Valid: true}},
			want: render.SymbolCell("Z"),
		},
		{
			name: "morning punch only",
			row:  repository.ControlRow{Day: monday, PunchCount: 1, FirstPunch: ts("2024-09-02 11:59:00"), LastPunch: ts("2024-09-02 11:59:00")},
			want: render.SymbolCell("HI"),
		},
		{
			name: "afternoon punch only",
			row:  repository.ControlRow{Day: monday, PunchCount: 1, FirstPunch: ts("2024-09-02 12:00:00"), LastPunch: ts("2024-09-02 12:00:00")},
			want: render.SymbolCell("HS"),
		},
		{
			name: "absent on a weekday",
			row:  repository.ControlRow{Day: monday},
			want: render.SymbolCell("Z"),
		},
		{
			name: "nothing on a weekend",
			row:  repository.ControlRow{Day: saturday},
			want: render.ControlCell{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.DeriveCell(tt.row, symbols, paycodes))
		})
	}
}

func TestDeriveCell_CustomSymbols(t *testing.T) {
	symbols := settings.Defaults().Symbols
	symbols.Absent = "F"

	cell := service.DeriveCell(repository.ControlRow{Day: ts("2024-09-03")}, symbols, reportsConfig().Paycodes)
	assert.Equal(t, "F", cell.Symbol)
}

func TestBuildControlEmployees(t *testing.T) {
	rng := service.DateRange{
		Start: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC),
	}
	pin := sql.NullString{String: "7", Valid: true}
	rows := []repository.ControlRow{
		{EmployeeID: 7, EmployeePin: pin, FirstName: "Eva", LastName: "Ruiz", Day: ts("2024-09-01")},
		{EmployeeID: 7, EmployeePin: pin, FirstName: "Eva", LastName: "Ruiz", Day: ts("2024-09-02")},
		{EmployeeID: 7, EmployeePin: pin, FirstName: "Eva", LastName: "Ruiz", Day: ts("2024-09-03"), PaycodeID: sql.NullInt64{Int64: 12, Valid: true}},
		{EmployeeID: 4, FirstName: "Ivan", Day: ts("2024-09-02")},
	}

	got := service.BuildControlEmployees(rows, rng, settings.Defaults().Symbols, reportsConfig().Paycodes)

	assert.Len(t, got, 2)
	assert.Equal(t, "7", got[0].Code)
	assert.Equal(t, "Eva Ruiz", got[0].Name)
	assert.Equal(t, []render.ControlCell{{}, render.SymbolCell("Z"), render.SymbolCell("V")}, got[0].Cells)

	// days missing from the query stay blank
	assert.Equal(t, "Ivan", got[1].Name)
	assert.Equal(t, []render.ControlCell{{}, render.SymbolCell("Z"), {}}, got[1].Cells)
}
