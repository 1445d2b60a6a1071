package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseControlReport reads back a workbook written by RenderControlReport.
// The range comes from the document subject; dates are returned in UTC.
func ParseControlReport(r io.Reader) (*ControlReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	props, err := f.GetDocProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read document properties: %w", err)
	}
	startRaw, endRaw, ok := strings.Cut(props.Subject, "/")
	if !ok {
		return nil, fmt.Errorf("workbook has no report range")
	}
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid report start %q: %w", startRaw, err)
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid report end %q: %w", endRaw, err)
	}

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	report := &ControlReport{Start: start, End: end}
	if len(rows) > 0 && len(rows[0]) > 0 {
		report.Settings.Title = rows[0][0]
	}
	if len(rows) > 1 && len(rows[1]) > 0 {
		report.Settings.Subtitle = rows[1][0]
	}

	days := len(Days(start, end))
	for i := firstDataRow - 1; i < len(rows); i++ {
		row := rows[i]
		// the days column is filled on every employee row, so only the
		// blank row above the signature block has all four empty
		if column(row, 1) == "" && column(row, 2) == "" && column(row, 3) == "" && column(row, 4) == "" {
			break
		}

		emp := ControlEmployee{
			Code:       column(row, 1),
			Name:       column(row, 2),
			Department: column(row, 3),
			Cells:      make([]ControlCell, days),
		}
		for d := 0; d < days; d++ {
			value := column(row, firstDayCol+d)
			if value == "" {
				continue
			}
			cell, err := readCell(f, sheet, cellName(firstDayCol+d, i+1), value)
			if err != nil {
				return nil, err
			}
			emp.Cells[d] = cell
		}
		report.Employees = append(report.Employees, emp)
	}

	return report, nil
}

// readCell tells hours from symbols by the stored cell type, so a symbol
// such as "0" stays a symbol
func readCell(f *excelize.File, sheet, name, value string) (ControlCell, error) {
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return ControlCell{}, fmt.Errorf("failed to read cell %s: %w", name, err)
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if h, err := strconv.Atoi(value); err == nil {
			return HoursCell(h), nil
		}
	}
	return SymbolCell(value), nil
}

// column returns the trimmed value of a 1-based column, or "" past the row end
func column(row []string, col int) string {
	if col-1 >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}
