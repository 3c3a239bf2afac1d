package output

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/format"
)

const (
	pdfMargin      = 10.0
	pdfContentW    = 277.0 // A4 landscape less margins
	pdfRowHeight   = 6.0
	pdfScenarioCol = 56.0
)

var pdfHeaders = []string{
	"Scenario", "Price", "Deposit", "Loan", "Rate %", "Yearly Int.", "Monthly Int.",
	"Monthly Loan", "Mortgage", "Rent", "Yield", "Taxable", "Tax", "Cashflow",
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFReport(title string) *pdfReport {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	r := &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentW, 10, r.tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(pdfContentW, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	return r
}

func (r *pdfReport) row(widths []float64, cells []string, header bool) {
	if header {
		r.pdf.SetFont("Arial", "B", 7)
		r.pdf.SetFillColor(0, 51, 102)
		r.pdf.SetTextColor(255, 255, 255)
	} else {
		r.pdf.SetFont("Arial", "", 7)
		r.pdf.SetFillColor(245, 247, 250)
		r.pdf.SetTextColor(50, 50, 50)
	}
	for i, cell := range cells {
		align := "R"
		if i == 0 || header {
			align = "L"
		}
		r.pdf.CellFormat(widths[i], pdfRowHeight, r.tr(cell), "1", 0, align, header, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) output(w io.Writer) error {
	if err := r.pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF report: %w", err)
	}
	return r.pdf.Output(w)
}

// PDFFormat writes rows as a landscape PDF table.
func PDFFormat(w io.Writer, rows []analytics.Row) error {
	r := newPDFReport("Mortgage Analytics")

	widths := make([]float64, len(pdfHeaders))
	widths[0] = pdfScenarioCol
	for i := 1; i < len(widths); i++ {
		widths[i] = (pdfContentW - pdfScenarioCol) / float64(len(widths)-1)
	}

	r.row(widths, pdfHeaders, true)
	for _, row := range Display(rows) {
		values := row.Values()
		cells := make([]string, len(values))
		cells[0] = values[0]
		for i, v := range []float64{
			row.Price.InexactFloat64(),
			row.Deposit.InexactFloat64(),
			row.LoanToValue.InexactFloat64(),
		} {
			cells[i+1] = format.NumericCurrency(v)
		}
		copy(cells[4:], values[4:])
		r.row(widths, cells, false)
	}

	for _, row := range rows {
		r.pdf.Ln(2)
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.SetTextColor(0, 51, 102)
		line := fmt.Sprintf("%s: mortgage %s, tax %s, cashflow %s (%s of rent)",
			row.Label, format.Currency(row.MonthlyMortgagePayment), format.Currency(row.Tax),
			format.Currency(row.Cashflow), format.Percent(row.CashflowPercent()))
		r.pdf.CellFormat(pdfContentW, 5, r.tr(line), "", 1, "L", false, 0, "")
	}

	return r.output(w)
}

// SurfacePDFFormat writes the per-scenario surface summary as a PDF table.
func SurfacePDFFormat(w io.Writer, points []analytics.SurfacePoint) error {
	r := newPDFReport(fmt.Sprintf("Cash-flow Surface (%d points)", len(points)))

	headers := []string{"Scenario", "Points", "Min Cashflow", "Mean Cashflow", "Max Cashflow", "Best Price", "Best Rent"}
	widths := []float64{77, 25, 35, 35, 35, 35, 35}
	r.row(widths, headers, true)
	for _, s := range SummarizeSurface(points) {
		r.row(widths, []string{
			s.Scenario,
			fmt.Sprintf("%d", s.Points),
			format.Currency(s.MinCashflow),
			format.Currency(s.MeanCashflow),
			format.Currency(s.MaxCashflow),
			format.Currency(s.BestPrice),
			format.Currency(s.BestRent),
		}, false)
	}

	return r.output(w)
}
