// Package loans provides common loan processing utilities.
package loans

import (
	"math"

	"github.com/iwvelando/mortgage-analytics/pkg/constants"
)

// Payment holds the steady-state monthly figures for a loan.
type Payment struct {
	// Payment is the full monthly outgoing: the loan instalment plus any
	// flat monthly expenses.
	Payment float64
	// Principal is Payment less Interest. Expenses are not separated out.
	Principal float64
	Interest  float64
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. annualInterestRate is a fraction (0.045 for 4.5%).
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / constants.MonthsPerYear
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// CalculateAnnualInterest calculates a year of interest on an outstanding principal.
func CalculateAnnualInterest(principal, annualInterestRate float64) float64 {
	return principal * annualInterestRate
}

// CalculateInterestPayment calculates the interest portion of a monthly payment.
func CalculateInterestPayment(principal, annualInterestRate float64) float64 {
	return CalculateAnnualInterest(principal, annualInterestRate) / constants.MonthsPerYear
}

// CalculateRepaymentPayment returns the monthly figures for a capital repayment
// mortgage with monthlyExpenses added flat on top of the instalment.
func CalculateRepaymentPayment(principal, annualInterestRate float64, termMonths int, monthlyExpenses float64) Payment {
	interest := CalculateInterestPayment(principal, annualInterestRate)
	total := CalculateMonthlyPayment(principal, annualInterestRate, termMonths) + monthlyExpenses
	return Payment{
		Payment:   total,
		Principal: total - interest,
		Interest:  interest,
	}
}

// CalculateInterestOnlyPayment returns the monthly figures for an interest-only
// mortgage; no principal is repaid before the end of the term.
func CalculateInterestOnlyPayment(principal, annualInterestRate, monthlyExpenses float64) Payment {
	interest := CalculateInterestPayment(principal, annualInterestRate)
	return Payment{
		Payment:   interest + monthlyExpenses,
		Principal: 0,
		Interest:  interest,
	}
}
