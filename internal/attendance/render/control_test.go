package render_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/render"
	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// september builds a 2024-09-01..2024-09-07 grid; Sept 1 is a Sunday
func september() *render.ControlReport {
	blank := render.ControlCell{}
	return &render.ControlReport{
		Start:    date("2024-09-01"),
		End:      date("2024-09-07"),
		Settings: settings.Defaults(),
		Employees: []render.ControlEmployee{
			{
				Code:       "101",
				Name:       "Ana Torres",
				Department: "Pers.Apoyo HeH",
				Cells: []render.ControlCell{
					blank,
					render.HoursCell(9),
					render.SymbolCell("HI"),
					render.SymbolCell("Z"),
					render.HoursCell(8),
					render.SymbolCell("V"),
					render.HoursCell(4),
				},
			},
			{
				Code:       "102",
				Name:       "Luis Bravo",
				Department: "Personal.HeH",
				Cells: []render.ControlCell{
					blank,
					render.HoursCell(0),
					render.HoursCell(12),
					render.SymbolCell("E"),
					render.SymbolCell("E"),
					render.SymbolCell("HS"),
					blank,
				},
			},
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRenderControlReport_RoundTrip(t *testing.T) {
	report := september()

	data, err := render.RenderControlReport(report, i18n.NewLocalizer(i18n.LocaleSpanish))
	require.NoError(t, err)

	parsed, err := render.ParseControlReport(bytes.NewReader(data))
	require.NoError(t, err)

	assert.True(t, parsed.Start.Equal(report.Start))
	assert.True(t, parsed.End.Equal(report.End))
	assert.Equal(t, report.Settings.Title, parsed.Settings.Title)
	if diff := cmp.Diff(report.Employees, parsed.Employees); diff != "" {
		t.Errorf("employees mismatch (-want +got):\n%s", diff)
	}
}

func TestParseControlReport_UnnamedEmployeeAndNumericSymbol(t *testing.T) {
	report := september()
	report.Employees[0].Code = ""
	report.Employees[0].Name = ""
	report.Employees[0].Department = ""
	report.Employees[1].Cells[3] = render.SymbolCell("0")

	data, err := render.RenderControlReport(report, i18n.NewLocalizer(i18n.LocaleSpanish))
	require.NoError(t, err)

	parsed, err := render.ParseControlReport(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, parsed.Employees, 2)
	assert.Equal(t, "Luis Bravo", parsed.Employees[1].Name)
	assert.Equal(t, render.SymbolCell("0"), parsed.Employees[1].Cells[3])
	assert.Equal(t, render.HoursCell(0), parsed.Employees[1].Cells[1])
	if diff := cmp.Diff(report.Employees, parsed.Employees); diff != "" {
		t.Errorf("employees mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderControlReport_Layout(t *testing.T) {
	data, err := render.RenderControlReport(september(), i18n.NewLocalizer(i18n.LocaleSpanish))
	require.NoError(t, err)

	f := openWorkbook(t, data)
	sheet := f.GetSheetName(0)
	assert.Equal(t, "Asistencia", sheet)

	cells := map[string]string{
		"A1":  "TALLER DE ESTRUCTURAS METÁLICAS",
		"A2":  "CONTROL DE HORAS Y ASISTENCIA LABORAL",
		"A4":  "COD",
		"B4":  "NOMBRES",
		"C4":  "DEPARTAMENTO",
		"D4":  "DÍAS",
		"E4":  "SEPTIEMBRE 2024",
		"E5":  "1",
		"E6":  "D",
		"F6":  "L",
		"K6":  "S",
		"D7":  "7",
		"A10": "ELABORADO POR",
		"A13": "JEFE ADMINISTRATIVA",
		"A14": "TALLER DE METALMECÁNICA",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	merged, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	refs := make(map[string]bool, len(merged))
	for _, m := range merged {
		refs[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}
	assert.True(t, refs["A4:A6"])
	assert.True(t, refs["E4:K4"])
	assert.True(t, refs["A10:F10"])

	// weekend columns carry their own style
	sunday, err := f.GetCellStyle(sheet, "E7")
	require.NoError(t, err)
	monday, err := f.GetCellStyle(sheet, "F7")
	require.NoError(t, err)
	assert.NotEqual(t, sunday, monday)
}

func TestRenderControlReport_EnglishHeaders(t *testing.T) {
	data, err := render.RenderControlReport(september(), i18n.NewLocalizer(i18n.LocaleEnglish))
	require.NoError(t, err)

	f := openWorkbook(t, data)
	sheet := f.GetSheetName(0)
	got, err := f.GetCellValue(sheet, "E4")
	require.NoError(t, err)
	assert.Equal(t, "SEPTEMBER 2024", got)
}

func TestRenderControlReport_InvalidRange(t *testing.T) {
	report := september()
	report.Start, report.End = report.End, report.Start

	_, err := render.RenderControlReport(report, nil)
	assert.Error(t, err)
}

func TestParseControlReport_MissingRange(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = render.ParseControlReport(buf)
	assert.Error(t, err)
}

func TestDays(t *testing.T) {
	days := render.Days(date("2024-02-27"), date("2024-03-02"))
	require.Len(t, days, 5)
	assert.Equal(t, "2024-02-29", days[2].Format("2006-01-02"))

	assert.Empty(t, render.Days(date("2024-03-02"), date("2024-03-01")))
	assert.True(t, render.IsWeekend(date("2024-09-01")))
	assert.False(t, render.IsWeekend(date("2024-09-02")))
}
