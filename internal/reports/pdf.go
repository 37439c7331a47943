package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// pdfDoc wraps fpdf with the report's fonts and a cp1252 translator, since
// the core fonts cannot render UTF-8 directly.
type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFDoc(title string) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("taskboard", true)
	pdf.AddPage()
	d := &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, d.tr(title))
	pdf.Ln(12)
	return d
}

func (d *pdfDoc) heading(text string) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Arial", "B", 14)
	d.pdf.Cell(0, 10, d.tr(text))
	d.pdf.Ln(8)
}

func (d *pdfDoc) line(text string) {
	d.pdf.SetFont("Arial", "", 12)
	d.pdf.MultiCell(0, 7, d.tr(text), "", "", false)
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *pdfDoc) boardSummary(s BoardSummary) {
	d.heading("Still Open")
	d.line(fmt.Sprintf("Pending: %d   Overdue: %d   Sections: %d", s.Pending, s.Overdue, s.Sections))
}

// FormatDailyPDF renders a daily report as a PDF document.
func FormatDailyPDF(r *DailyReport) ([]byte, error) {
	d := newPDFDoc(fmt.Sprintf("Daily Report: %s", r.Date.Format("Monday, 02 Jan 2006")))

	d.heading(fmt.Sprintf("Completed (%d)", r.CompletedCount))
	if len(r.Completed) == 0 {
		d.line("  - Nothing completed.")
	}
	for _, c := range r.Completed {
		text := fmt.Sprintf("  [x] %s", c.Name)
		if c.CompletionTime != "" {
			text += fmt.Sprintf(" (%s)", c.CompletionTime)
		}
		text += fmt.Sprintf(" - %s, %s", c.Section, c.Priority)
		d.line(text)
	}

	if len(r.BySection) > 0 {
		d.heading("By Section")
		for _, s := range r.BySection {
			d.line(fmt.Sprintf("  %s: %d", s.Section, s.Count))
		}
	}

	d.boardSummary(r.Board)
	return d.bytes()
}

// FormatWeeklyPDF renders a weekly report as a PDF document.
func FormatWeeklyPDF(r *WeeklyReport) ([]byte, error) {
	d := newPDFDoc(fmt.Sprintf("Weekly Report: %s - %s",
		r.StartDate.Format("02 Jan"), r.EndDate.Format("02 Jan 2006")))

	d.line(fmt.Sprintf("Total completed: %d (%.1f per day)", r.TotalCompleted, r.DailyAverage))

	d.heading("By Day")
	for _, day := range r.ByDay {
		d.line(fmt.Sprintf("  %s %s: %d", day.DayOfWeek, day.Date, day.Completed))
	}

	if len(r.BySection) > 0 {
		d.heading("By Section")
		for _, s := range r.BySection {
			d.line(fmt.Sprintf("  %s: %d", s.Section, s.Count))
		}
	}

	d.boardSummary(r.Board)
	return d.bytes()
}
