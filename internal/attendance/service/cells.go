package service

import (
	"math"

	"github.com/attendly/attendly-backend/internal/attendance/render"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/config"
)

// noon splits single punches into entry-only and exit-only days
const noon = 12

// DeriveCell decides what a control report cell shows for one employee-day.
// Worked hours win over any exception; an exception wins over a lone punch.
func DeriveCell(row repository.ControlRow, symbols settings.Symbols, paycodes config.PaycodeConfig) render.ControlCell {
	if row.PunchCount >= 2 && row.FirstPunch.Valid && row.LastPunch.Valid {
		hours := row.LastPunch.Time.Sub(row.FirstPunch.Time).Hours()
		return render.HoursCell(int(math.Round(hours)))
	}

	if row.PaycodeID.Valid {
		switch row.PaycodeID.Int64 {
		case paycodes.Vacation:
			return render.SymbolCell(symbols.Vacation)
		case paycodes.Sick:
			return render.SymbolCell(symbols.SickLeave)
		case paycodes.Leave:
			return render.SymbolCell(symbols.Leave)
		}
	}

	if row.PunchCount == 1 && row.FirstPunch.Valid {
		if row.FirstPunch.Time.Hour() < noon {
			return render.SymbolCell(symbols.EntryOnly)
		}
		return render.SymbolCell(symbols.ExitOnly)
	}

	if render.IsWeekend(row.Day.Time) {
		return render.ControlCell{}
	}
	return render.SymbolCell(symbols.Absent)
}

// roundHours rounds a duration in hours to two decimals
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
