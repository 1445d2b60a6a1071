package render

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/go-pdf/fpdf"
)

// ContentTypePDF is the MIME type of the exception report
const ContentTypePDF = "application/pdf"

// ExceptionLine is one row of the exception report, already formatted for print
type ExceptionLine struct {
	Pin   string
	Name  string
	Date  time.Time
	Start string
	End   string
	Hours float64
	Type  string
}

// ExceptionReport is the input of RenderExceptionReport
type ExceptionReport struct {
	Lines       []ExceptionLine
	GeneratedAt time.Time
	// LogoPath is drawn on the first page when the file exists
	LogoPath string
}

const (
	pdfMargin    = 14.0
	pdfRowHeight = 6.0
	pdfFontSize  = 8.0
)

var exceptionColumns = []struct {
	key   string
	width float64 // share of the printable width
	align string
}{
	{"reports.columns.id", 0.10, "C"},
	{"reports.columns.name", 0.20, "L"},
	{"reports.columns.date", 0.15, "C"},
	{"reports.columns.start", 0.13, "C"},
	{"reports.columns.end", 0.13, "C"},
	{"reports.columns.exception", 0.14, "C"},
	{"reports.columns.type", 0.15, "C"},
}

// RenderExceptionReport prints the exception table as an A4 PDF
func RenderExceptionReport(report *ExceptionReport, l *i18n.Localizer) ([]byte, error) {
	if l == nil {
		l = i18n.NewLocalizer(i18n.DefaultLocale)
	}
	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 20, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(l.T("reports.exception_title"), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	printable := pageW - 2*pdfMargin
	bottom := pageH - 20

	hasLogo := false
	if report.LogoPath != "" {
		if _, err := os.Stat(report.LogoPath); err == nil {
			hasLogo = true
		}
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() != 1 {
			return
		}
		if hasLogo {
			pdf.ImageOptions(report.LogoPath, pdfMargin, 8, 22, 0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(pdfMargin, 12)
		pdf.CellFormat(printable, 10, tr(l.T("reports.exception_title")), "", 1, "C", false, 0, "")
		pdf.SetY(30)
	})

	footer := tr(l.T("reports.report_date", map[string]string{"date": generated.Format("02/01/2006")}))
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", pdfFontSize)
		pdf.CellFormat(printable/2, 8, footer, "", 0, "L", false, 0, "")
		page := tr(l.T("reports.page", map[string]string{"page": strconv.Itoa(pdf.PageNo())}))
		pdf.CellFormat(printable/2, 8, page, "", 0, "R", false, 0, "")
	})

	tableHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(204, 204, 204)
		for _, c := range exceptionColumns {
			pdf.CellFormat(printable*c.width, pdfRowHeight+1, tr(l.T(c.key)), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}

	pdf.AddPage()
	tableHeader()

	pdf.SetFillColor(245, 245, 245)
	for i, line := range report.Lines {
		if pdf.GetY()+pdfRowHeight > bottom {
			pdf.AddPage()
			tableHeader()
			pdf.SetFillColor(245, 245, 245)
		}

		values := []string{
			line.Pin,
			line.Name,
			line.Date.Format("02/01/2006"),
			line.Start,
			line.End,
			strconv.FormatFloat(line.Hours, 'f', -1, 64),
			line.Type,
		}
		fill := i%2 == 1
		for c, v := range values {
			col := exceptionColumns[c]
			pdf.CellFormat(printable*col.width, pdfRowHeight, tr(v), "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
