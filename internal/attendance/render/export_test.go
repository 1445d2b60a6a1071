package render_test

import (
	"testing"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/render"
	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAttendanceExport(t *testing.T) {
	hours := 9.5
	rows := []render.ExportRow{
		{Code: "101", Name: "Ana Torres", Department: "Pers.Apoyo HeH", Date: "2024-09-02", Weekday: "Lunes", Entry: "08:00:00", Exit: "17:30:00", Hours: &hours, Status: "Completo"},
		{Code: "102", Name: "Luis Bravo", Department: "Personal.HeH", Date: "2024-09-02", Weekday: "Lunes", Status: "Sin Marcar"},
	}

	data, err := render.RenderAttendanceExport(rows, i18n.NewLocalizer(i18n.LocaleSpanish))
	require.NoError(t, err)

	f := openWorkbook(t, data)
	sheet := f.GetSheetName(0)
	assert.Equal(t, "Asistencias", sheet)

	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"Número", "Nombre", "Departamento", "Fecha", "Día", "Entrada", "Salida", "Horas", "Estado"}, got[0])
	assert.Equal(t, []string{"101", "Ana Torres", "Pers.Apoyo HeH", "2024-09-02", "Lunes", "08:00:00", "17:30:00", "9.5", "Completo"}, got[1])
	assert.Equal(t, "Sin Marcar", got[2][8])
	assert.Equal(t, "", got[2][7])
}

func TestRenderAttendanceExport_Empty(t *testing.T) {
	data, err := render.RenderAttendanceExport(nil, nil)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	got, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRenderExceptionReport(t *testing.T) {
	lines := make([]render.ExceptionLine, 0, 120)
	for i := 0; i < 120; i++ {
		lines = append(lines, render.ExceptionLine{
			Pin:   "101",
			Name:  "Ana Torres Núñez",
			Date:  time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC),
			Start: "08:00",
			End:   "12:30",
			Hours: 4.5,
			Type:  "Enfermedad",
		})
	}

	data, err := render.RenderExceptionReport(&render.ExceptionReport{
		Lines:       lines,
		GeneratedAt: time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC),
		LogoPath:    "/nonexistent/logo.png",
	}, i18n.NewLocalizer(i18n.LocaleSpanish))
	require.NoError(t, err)

	assert.True(t, len(data) > 1000)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderExceptionReport_NoLines(t *testing.T) {
	data, err := render.RenderExceptionReport(&render.ExceptionReport{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
