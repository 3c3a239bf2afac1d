package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SurfaceSummary describes one scenario's slice of a cash-flow surface.
type SurfaceSummary struct {
	Scenario     string  `json:"scenario"`
	Points       int     `json:"points"`
	MinCashflow  float64 `json:"minCashflow"`
	MaxCashflow  float64 `json:"maxCashflow"`
	BestPrice    float64 `json:"bestPrice"`
	BestRent     float64 `json:"bestRent"`
	MeanCashflow float64 `json:"meanCashflow"`
}

// SummarizeSurface groups points by scenario, in order of first appearance.
func SummarizeSurface(points []analytics.SurfacePoint) []SurfaceSummary {
	index := make(map[string]int)
	var summaries []SurfaceSummary
	totals := make([]float64, 0)

	for _, p := range points {
		i, ok := index[p.Label]
		if !ok {
			i = len(summaries)
			index[p.Label] = i
			summaries = append(summaries, SurfaceSummary{
				Scenario:    p.Label,
				MinCashflow: p.Cashflow,
				MaxCashflow: p.Cashflow,
				BestPrice:   p.Price,
				BestRent:    p.Rent,
			})
			totals = append(totals, 0)
		}

		s := &summaries[i]
		s.Points++
		totals[i] += p.Cashflow
		if p.Cashflow < s.MinCashflow {
			s.MinCashflow = p.Cashflow
		}
		if p.Cashflow > s.MaxCashflow {
			s.MaxCashflow = p.Cashflow
			s.BestPrice = p.Price
			s.BestRent = p.Rent
		}
	}

	for i := range summaries {
		summaries[i].MeanCashflow = totals[i] / float64(summaries[i].Points)
	}
	return summaries
}

// SurfacePrettyFormat writes a per-scenario summary of the surface.
func SurfacePrettyFormat(w io.Writer, points []analytics.SurfacePoint) error {
	p := message.NewPrinter(language.BritishEnglish)
	if _, err := p.Fprintf(w, "Cash-flow surface: %d points\n", len(points)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Scenario | Points | Min Cashflow | Mean Cashflow | Max Cashflow | Best Price | Best Rent"); err != nil {
		return err
	}
	for _, s := range SummarizeSurface(points) {
		_, err := p.Fprintf(w, "%s | %d | £%.2f | £%.2f | £%.2f | £%.0f | £%.0f\n",
			s.Scenario, s.Points, s.MinCashflow, s.MeanCashflow, s.MaxCashflow, s.BestPrice, s.BestRent)
		if err != nil {
			return err
		}
	}
	return nil
}

// SurfaceCsvFormat writes every surface point as comma-separated values.
func SurfaceCsvFormat(w io.Writer, points []analytics.SurfacePoint) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SurfaceColumns); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{p.Label, fixed(round(p.Price)), fixed(round(p.Rent)), fixed(round(p.Cashflow))}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SurfaceJSONFormat writes every surface point as a JSON array.
func SurfaceJSONFormat(w io.Writer, points []analytics.SurfacePoint) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if points == nil {
		points = []analytics.SurfacePoint{}
	}
	return encoder.Encode(points)
}

// WriteSurface renders surface points in the named output format.
func WriteSurface(w io.Writer, format string, points []analytics.SurfacePoint) error {
	switch format {
	case constants.OutputFormatPretty:
		return SurfacePrettyFormat(w, points)
	case constants.OutputFormatCSV:
		return SurfaceCsvFormat(w, points)
	case constants.OutputFormatJSON:
		return SurfaceJSONFormat(w, points)
	case constants.OutputFormatPDF:
		return SurfacePDFFormat(w, points)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
