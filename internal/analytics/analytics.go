// Package analytics computes steady-state monthly mortgage, tax and cash-flow
// figures for property purchase scenarios, and sweeps that computation over a
// price/rent grid to build a cash-flow surface.
package analytics

import (
	"runtime"

	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/iwvelando/mortgage-analytics/pkg/loans"
	"github.com/iwvelando/mortgage-analytics/pkg/mathutil"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
	"go.uber.org/zap"
)

// Input is the scalar request for one analytics computation. Rent is monthly,
// ServiceCharge and AdditionalExpenses are annual, Term is in years.
type Input struct {
	Price              float64 `json:"price" yaml:"price" mapstructure:"price"`
	Rent               float64 `json:"rent" yaml:"rent" mapstructure:"rent"`
	ServiceCharge      float64 `json:"serviceCharge" yaml:"serviceCharge" mapstructure:"serviceCharge"`
	AdditionalExpenses float64 `json:"additionalExpenses" yaml:"additionalExpenses" mapstructure:"additionalExpenses"`
	Term               int     `json:"term" yaml:"term" mapstructure:"term"`
}

// Row holds the computed figures for one scenario. All monetary values are
// monthly unless the name says otherwise.
type Row struct {
	Scenario               scenario.Scenario `json:"-"`
	Label                  string            `json:"scenario"`
	Price                  float64           `json:"price"`
	Deposit                float64           `json:"deposit"`
	LoanToValue            float64           `json:"loan_to_value"`
	InterestRate           float64           `json:"interest_rate"`
	YearlyInterestPayment  float64           `json:"yearly_interest_payment"`
	MonthlyInterestPayment float64           `json:"monthly_interest_payment"`
	MonthlyLoanPayment     float64           `json:"monthly_loan_payment"`
	MonthlyMortgagePayment float64           `json:"monthly_mortgage_payment"`
	MonthlyExpenses        float64           `json:"monthly_expenses"`
	Rent                   float64           `json:"rent"`
	TaxableAmount          float64           `json:"taxable_amount"`
	TaxRelief              float64           `json:"tax_relief"`
	Tax                    float64           `json:"tax"`
	Cashflow               float64           `json:"cashflow"`
	// RentalYield is a percentage of price for private buy-to-let rows, a
	// ratio of cash flow to rent for limited company rows and zero for
	// residential rows.
	RentalYield float64 `json:"rental_yield"`
}

// CashflowPercent returns the cash flow as a percentage of the row's rent,
// or zero when the row carries no rent.
func (r Row) CashflowPercent() float64 {
	if mathutil.IsZero(r.Rent) {
		return 0
	}
	return mathutil.CalculatePercentage(r.Cashflow, r.Rent)
}

// Engine evaluates scenarios against an assumptions table.
type Engine struct {
	logger      *zap.Logger
	assumptions scenario.Assumptions
	workers     int
}

// NewEngine constructs an Engine. workers bounds the surface sweep
// parallelism; zero or less means GOMAXPROCS.
func NewEngine(logger *zap.Logger, assumptions scenario.Assumptions, workers int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{logger: logger, assumptions: assumptions, workers: workers}
}

// Assumptions returns the table the engine evaluates against.
func (e *Engine) Assumptions() scenario.Assumptions {
	return e.assumptions
}

// Workers returns the surface sweep parallelism.
func (e *Engine) Workers() int {
	return e.workers
}

// Compute returns one Row per scenario, in scenario order. Invalid input is
// rejected with an error wrapping ErrInvalidInput. An empty scenario list
// yields an empty result.
func (e *Engine) Compute(input Input, scenarios []scenario.Scenario) ([]Row, error) {
	if err := Validate(input, scenarios); err != nil {
		return nil, err
	}

	rows := e.compute(input, scenarios)
	e.logger.Debug("computed mortgage analytics",
		zap.String("op", "analytics.Compute"),
		zap.Int("scenarios", len(scenarios)),
		zap.Float64("price", input.Price),
		zap.Float64("rent", input.Rent),
	)
	return rows, nil
}

func (e *Engine) compute(input Input, scenarios []scenario.Scenario) []Row {
	rows := make([]Row, 0, len(scenarios))
	for _, s := range scenarios {
		rows = append(rows, e.computeRow(input, s))
	}
	return rows
}

func (e *Engine) computeRow(input Input, s scenario.Scenario) Row {
	a := e.assumptions
	rate := a.InterestRate(s)

	deposit := input.Price * a.DepositPercent(s)
	loanToValue := input.Price - deposit
	monthlyExpenses := (input.ServiceCharge + input.AdditionalExpenses) / constants.MonthsPerYear
	payments := input.Term * constants.MonthsPerYear

	var payment loans.Payment
	if s.InterestOnly {
		payment = loans.CalculateInterestOnlyPayment(loanToValue, rate, monthlyExpenses)
	} else {
		payment = loans.CalculateRepaymentPayment(loanToValue, rate, payments, monthlyExpenses)
	}

	row := Row{
		Scenario:               s,
		Label:                  s.Label(),
		Price:                  input.Price,
		Deposit:                deposit,
		LoanToValue:            loanToValue,
		InterestRate:           rate,
		YearlyInterestPayment:  loans.CalculateAnnualInterest(loanToValue, rate),
		MonthlyInterestPayment: payment.Interest,
		MonthlyLoanPayment:     payment.Principal,
		MonthlyMortgagePayment: payment.Payment,
		MonthlyExpenses:        monthlyExpenses,
		Rent:                   input.Rent,
		RentalYield:            mathutil.CalculatePercentage(input.Rent, input.Price),
	}

	if s.LimitedCompany {
		row.TaxableAmount = mathutil.Max(input.Rent-payment.Payment, 0)
		row.Tax = row.TaxableAmount * a.CorporationTaxRate
		row.Cashflow = input.Rent - payment.Payment - row.Tax
		if input.Rent != 0 {
			row.RentalYield = row.Cashflow / input.Rent
		}
	} else {
		// The relief may exceed the tax due, leaving a negative tax figure.
		row.TaxableAmount = mathutil.Max(input.Rent-monthlyExpenses, 0)
		row.TaxRelief = a.MortgageInterestReliefRate * payment.Interest
		row.Tax = row.TaxableAmount*a.IncomeTaxRate - row.TaxRelief
		row.Cashflow = input.Rent - payment.Payment - row.Tax
	}

	if !s.BuyToLet {
		row.Tax = 0
		row.Cashflow = -payment.Payment
		row.RentalYield = 0
		row.Rent = 0
	}

	return row
}

var defaultEngine = NewEngine(nil, scenario.DefaultAssumptions, 0)

// ComputeAnalytics evaluates scenarios under DefaultAssumptions.
func ComputeAnalytics(input Input, scenarios []scenario.Scenario) ([]Row, error) {
	return defaultEngine.Compute(input, scenarios)
}

