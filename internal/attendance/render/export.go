package render

import (
	"fmt"

	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/xuri/excelize/v2"
)

// ExportRow is one attendance search result as written to the export sheet
type ExportRow struct {
	Code       string
	Name       string
	Department string
	Date       string
	Weekday    string
	Entry      string
	Exit       string
	Hours      *float64
	Status     string
}

var exportColumns = []string{
	"reports.columns.code",
	"reports.columns.name",
	"reports.columns.department",
	"reports.columns.date",
	"reports.columns.weekday",
	"reports.columns.entry",
	"reports.columns.exit",
	"reports.columns.hours",
	"reports.columns.status",
}

var exportWidths = []float64{10, 28, 20, 12, 12, 10, 10, 8, 12}

// RenderAttendanceExport writes a flat sheet with a header row and one row per result
func RenderAttendanceExport(rows []ExportRow, l *i18n.Localizer) ([]byte, error) {
	if l == nil {
		l = i18n.NewLocalizer(i18n.DefaultLocale)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := l.T("reports.export_sheet")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solidFill("D9D9D9"),
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	for i, key := range exportColumns {
		f.SetCellValue(sheet, cellName(i+1, 1), l.T(key))
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, exportWidths[i])
	}
	f.SetCellStyle(sheet, cellName(1, 1), cellName(len(exportColumns), 1), headerStyle)

	for i, r := range rows {
		row := i + 2
		values := []interface{}{r.Code, r.Name, r.Department, r.Date, r.Weekday, r.Entry, r.Exit, nil, r.Status}
		if r.Hours != nil {
			values[7] = *r.Hours
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			f.SetCellValue(sheet, cellName(c+1, row), v)
		}
	}

	if len(rows) > 0 {
		if err := f.AutoFilter(sheet, "A1:"+cellName(len(exportColumns), len(rows)+1), nil); err != nil {
			return nil, fmt.Errorf("failed to set filter: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
