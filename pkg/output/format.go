// Package output provides utilities for formatting and displaying analytics
// results and cash-flow surfaces.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Columns is the display column order of an analytics table.
var Columns = []string{
	"scenario",
	"price",
	"deposit",
	"loan_to_value",
	"interest_rate (%)",
	"yearly_interest_payment",
	"monthly_interest_payment",
	"monthly_loan_payment",
	"monthly_mortgage_payment",
	"rent",
	"rental_yield",
	"taxable_amount",
	"tax",
	"cashflow",
}

// SurfaceColumns is the display column order of a cash-flow surface.
var SurfaceColumns = []string{"scenario", "price", "rent", "cashflow"}

// Amount is a rounded display figure. It encodes as a JSON number and leaves
// the decimal package's global quoting setting untouched.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON encodes a as an unquoted number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// DisplayRow is an analytics row rounded for display, with the interest
// rate expressed as a percentage.
type DisplayRow struct {
	Scenario               string `json:"scenario"`
	Price                  Amount `json:"price"`
	Deposit                Amount `json:"deposit"`
	LoanToValue            Amount `json:"loan_to_value"`
	InterestRatePercent    Amount `json:"interest_rate_pct"`
	YearlyInterestPayment  Amount `json:"yearly_interest_payment"`
	MonthlyInterestPayment Amount `json:"monthly_interest_payment"`
	MonthlyLoanPayment     Amount `json:"monthly_loan_payment"`
	MonthlyMortgagePayment Amount `json:"monthly_mortgage_payment"`
	Rent                   Amount `json:"rent"`
	RentalYield            Amount `json:"rental_yield"`
	TaxableAmount          Amount `json:"taxable_amount"`
	Tax                    Amount `json:"tax"`
	Cashflow               Amount `json:"cashflow"`
}

// Values returns the row's cells in Columns order.
func (d DisplayRow) Values() []string {
	return []string{
		d.Scenario,
		fixed(d.Price),
		fixed(d.Deposit),
		fixed(d.LoanToValue),
		fixed(d.InterestRatePercent),
		fixed(d.YearlyInterestPayment),
		fixed(d.MonthlyInterestPayment),
		fixed(d.MonthlyLoanPayment),
		fixed(d.MonthlyMortgagePayment),
		fixed(d.Rent),
		fixed(d.RentalYield),
		fixed(d.TaxableAmount),
		fixed(d.Tax),
		fixed(d.Cashflow),
	}
}

// Display rounds rows to two decimals in Columns order.
func Display(rows []analytics.Row) []DisplayRow {
	display := make([]DisplayRow, 0, len(rows))
	for _, row := range rows {
		display = append(display, DisplayRow{
			Scenario:               row.Label,
			Price:                  round(row.Price),
			Deposit:                round(row.Deposit),
			LoanToValue:            round(row.LoanToValue),
			InterestRatePercent:    round(row.InterestRate * constants.PercentageMultiplier),
			YearlyInterestPayment:  round(row.YearlyInterestPayment),
			MonthlyInterestPayment: round(row.MonthlyInterestPayment),
			MonthlyLoanPayment:     round(row.MonthlyLoanPayment),
			MonthlyMortgagePayment: round(row.MonthlyMortgagePayment),
			Rent:                   round(row.Rent),
			RentalYield:            round(row.RentalYield),
			TaxableAmount:          round(row.TaxableAmount),
			Tax:                    round(row.Tax),
			Cashflow:               round(row.Cashflow),
		})
	}
	return display
}

func round(val float64) Amount {
	return Amount{decimal.NewFromFloat(val).Round(constants.DisplayDecimalPlaces)}
}

func fixed(a Amount) string {
	return a.StringFixed(constants.DisplayDecimalPlaces)
}

// PrettyFormat writes a human-readable summary and table of rows.
func PrettyFormat(w io.Writer, rows []analytics.Row) error {
	p := message.NewPrinter(language.BritishEnglish)
	for _, row := range rows {
		if _, err := p.Fprintf(w, "--- %s ---\n", row.Label); err != nil {
			return err
		}
		_, err := p.Fprintf(w, "Mortgage Payment: £%.2f | Tax: £%.2f | Cashflow: £%.2f (%.0f%% of rent)\n",
			row.MonthlyMortgagePayment, row.Tax, row.Cashflow, row.CashflowPercent())
		if err != nil {
			return err
		}
		_, err = p.Fprintf(w, "Price: £%.2f | Deposit: £%.2f | Loan to Value: £%.2f | Interest Rate: %.2f%%\n",
			row.Price, row.Deposit, row.LoanToValue, row.InterestRate*constants.PercentageMultiplier)
		if err != nil {
			return err
		}
		_, err = p.Fprintf(w, "Monthly Interest: £%.2f | Monthly Loan: £%.2f | Rent: £%.2f | Rental Yield: %.2f\n",
			row.MonthlyInterestPayment, row.MonthlyLoanPayment, row.Rent, row.RentalYield)
		if err != nil {
			return err
		}
		if _, err := p.Fprintf(w, "Taxable Amount: £%.2f\n", row.TaxableAmount); err != nil {
			return err
		}
		if len(rows) > 1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat writes rows as comma-separated values in Columns order.
func CsvFormat(w io.Writer, rows []analytics.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, row := range Display(rows) {
		if err := writer.Write(row.Values()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// JSONFormat writes rows as an indented JSON array of rounded values.
func JSONFormat(w io.Writer, rows []analytics.Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Display(rows))
}

// Write renders rows in the named output format.
func Write(w io.Writer, format string, rows []analytics.Row) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, rows)
	case constants.OutputFormatCSV:
		return CsvFormat(w, rows)
	case constants.OutputFormatJSON:
		return JSONFormat(w, rows)
	case constants.OutputFormatPDF:
		return PDFFormat(w, rows)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
