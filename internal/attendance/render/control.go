package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/xuri/excelize/v2"
)

// Control report layout
const (
	headerRow    = 4
	firstDataRow = 7
	firstDayCol  = 5
	signatureCol = 6
	dateLayout   = "2006-01-02"
)

// ContentTypeXLSX is the MIME type of the spreadsheet renderers
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ControlReport is the monthly hours grid for a date range
type ControlReport struct {
	Start     time.Time
	End       time.Time
	Settings  settings.Settings
	Employees []ControlEmployee
}

// ControlEmployee is one grid row. Cells holds one entry per day of the range.
type ControlEmployee struct {
	Code       string
	Name       string
	Department string
	Cells      []ControlCell
}

// ControlCell holds either whole hours or a symbol; both empty is a blank cell
type ControlCell struct {
	Hours  *int
	Symbol string
}

// HoursCell returns a cell holding h hours
func HoursCell(h int) ControlCell {
	return ControlCell{Hours: &h}
}

// SymbolCell returns a cell holding a settings symbol
func SymbolCell(s string) ControlCell {
	return ControlCell{Symbol: s}
}

// Empty reports whether the cell renders blank
func (c ControlCell) Empty() bool {
	return c.Hours == nil && c.Symbol == ""
}

// Days returns every calendar day of [start, end]
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsWeekend reports whether d falls on Saturday or Sunday
func IsWeekend(d time.Time) bool {
	return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
}

type controlStyles struct {
	title, subtitle           int
	header, headerWeekend     int
	text, cell, cellWeekend   int
	symbol, symbolWeekend     int
	signatureBold, signature  int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

func newControlStyles(f *excelize.File, doc settings.Settings) (*controlStyles, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	weekend := solidFill(doc.Colors.WeekendFill)
	header := solidFill(doc.Colors.HeaderFill)

	s := &controlStyles{}
	defs := []struct {
		dest  *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}, Alignment: center}},
		{&s.subtitle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: center}},
		{&s.header, &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: center, Border: thinBorder(), Fill: header}},
		{&s.headerWeekend, &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: center, Border: thinBorder(), Fill: weekend}},
		{&s.text, &excelize.Style{Alignment: &excelize.Alignment{Vertical: "center"}, Border: thinBorder()}},
		{&s.cell, &excelize.Style{Alignment: center, Border: thinBorder()}},
		{&s.cellWeekend, &excelize.Style{Alignment: center, Border: thinBorder(), Fill: weekend}},
		{&s.symbol, &excelize.Style{Font: &excelize.Font{Bold: true, Color: doc.Colors.SymbolFont}, Alignment: center, Border: thinBorder()}},
		{&s.symbolWeekend, &excelize.Style{Font: &excelize.Font{Bold: true, Color: doc.Colors.SymbolFont}, Alignment: center, Border: thinBorder(), Fill: weekend}},
		{&s.signatureBold, &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: center}},
		{&s.signature, &excelize.Style{Alignment: center}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		*d.dest = id
	}
	return s, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// monthLabel names the months covered by the range, e.g. "SEPTIEMBRE 2024"
func monthLabel(l *i18n.Localizer, start, end time.Time) string {
	first := strings.ToUpper(l.Month(start.Month()))
	if start.Year() == end.Year() && start.Month() == end.Month() {
		return fmt.Sprintf("%s %d", first, start.Year())
	}
	last := strings.ToUpper(l.Month(end.Month()))
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s %d", first, last, end.Year())
	}
	return fmt.Sprintf("%s %d - %s %d", first, start.Year(), last, end.Year())
}

// RenderControlReport lays out the control grid as an xlsx workbook
func RenderControlReport(report *ControlReport, l *i18n.Localizer) ([]byte, error) {
	if report.End.Before(report.Start) {
		return nil, fmt.Errorf("report ends before it starts")
	}
	if l == nil {
		l = i18n.NewLocalizer(i18n.DefaultLocale)
	}

	doc := report.Settings
	days := Days(report.Start, report.End)
	lastCol := firstDayCol + len(days) - 1
	if lastCol < signatureCol {
		lastCol = signatureCol
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := l.T("reports.control.sheet")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   doc.Subtitle,
		Subject: report.Start.Format(dateLayout) + "/" + report.End.Format(dateLayout),
		Creator: "attendly",
	}); err != nil {
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	st, err := newControlStyles(f, doc)
	if err != nil {
		return nil, err
	}

	// titles
	for row, text := range map[int]string{1: doc.Title, 2: doc.Subtitle} {
		style := st.title
		if row == 2 {
			style = st.subtitle
		}
		if err := f.MergeCell(sheet, cellName(1, row), cellName(lastCol, row)); err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cellName(1, row), text)
		f.SetCellStyle(sheet, cellName(1, row), cellName(lastCol, row), style)
	}

	// fixed header columns span rows 4-6
	for col, key := range []string{"reports.control.code", "reports.control.names", "reports.control.department", "reports.control.days"} {
		top, bottom := cellName(col+1, headerRow), cellName(col+1, headerRow+2)
		if err := f.MergeCell(sheet, top, bottom); err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, top, l.T(key))
		f.SetCellStyle(sheet, top, bottom, st.header)
	}

	monthStart, monthEnd := cellName(firstDayCol, headerRow), cellName(firstDayCol+len(days)-1, headerRow)
	if len(days) > 1 {
		if err := f.MergeCell(sheet, monthStart, monthEnd); err != nil {
			return nil, err
		}
	}
	f.SetCellValue(sheet, monthStart, monthLabel(l, report.Start, report.End))
	f.SetCellStyle(sheet, monthStart, monthEnd, st.header)

	for i, day := range days {
		col := firstDayCol + i
		style := st.header
		if IsWeekend(day) {
			style = st.headerWeekend
		}
		f.SetCellValue(sheet, cellName(col, headerRow+1), day.Day())
		f.SetCellValue(sheet, cellName(col, headerRow+2), l.WeekdayInitial(day.Weekday()))
		f.SetCellStyle(sheet, cellName(col, headerRow+1), cellName(col, headerRow+2), style)
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 28)
	f.SetColWidth(sheet, "C", "C", 18)
	f.SetColWidth(sheet, "D", "D", 7)
	if len(days) > 0 {
		first, _ := excelize.ColumnNumberToName(firstDayCol)
		last, _ := excelize.ColumnNumberToName(firstDayCol + len(days) - 1)
		f.SetColWidth(sheet, first, last, 4)
	}

	// one row per employee
	row := firstDataRow
	for _, emp := range report.Employees {
		f.SetCellValue(sheet, cellName(1, row), emp.Code)
		f.SetCellValue(sheet, cellName(2, row), emp.Name)
		f.SetCellValue(sheet, cellName(3, row), emp.Department)
		f.SetCellValue(sheet, cellName(4, row), len(days))
		f.SetCellStyle(sheet, cellName(1, row), cellName(4, row), st.text)

		for i, day := range days {
			name := cellName(firstDayCol+i, row)
			weekend := IsWeekend(day)

			var c ControlCell
			if i < len(emp.Cells) {
				c = emp.Cells[i]
			}

			style := st.cell
			switch {
			case c.Hours != nil:
				f.SetCellValue(sheet, name, *c.Hours)
				if weekend {
					style = st.cellWeekend
				}
			case c.Symbol != "":
				f.SetCellValue(sheet, name, c.Symbol)
				style = st.symbol
				if weekend {
					style = st.symbolWeekend
				}
			case weekend:
				style = st.cellWeekend
			}
			f.SetCellStyle(sheet, name, name, style)
		}
		row++
	}

	// signature block below a blank row
	sig := row + 1
	lines := []struct {
		offset int
		text   string
		style  int
	}{
		{0, doc.Signature.Label, st.signatureBold},
		{2, doc.Signature.Name, st.signature},
		{3, doc.Signature.Title, st.signatureBold},
		{4, doc.Signature.Organization, st.signatureBold},
	}
	for _, line := range lines {
		left, right := cellName(1, sig+line.offset), cellName(signatureCol, sig+line.offset)
		if err := f.MergeCell(sheet, left, right); err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, left, line.text)
		f.SetCellStyle(sheet, left, right, line.style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
