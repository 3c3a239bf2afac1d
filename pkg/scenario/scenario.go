// Package scenario defines the mortgage scenario variants and the static
// assumptions attached to each combination of purchase axes.
package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-analytics/pkg/constants"
)

// Scenario is one purchase variant. It is a plain value; every derived
// attribute is a pure function of the three flags.
type Scenario struct {
	BuyToLet       bool `json:"buyToLet" yaml:"buyToLet"`
	InterestOnly   bool `json:"interestOnly" yaml:"interestOnly"`
	LimitedCompany bool `json:"limitedCompany" yaml:"limitedCompany"`
}

// New returns the Scenario for the given flags.
func New(buyToLet, interestOnly, limitedCompany bool) Scenario {
	return Scenario{BuyToLet: buyToLet, InterestOnly: interestOnly, LimitedCompany: limitedCompany}
}

// All returns the eight scenario combinations in catalog order.
func All() []Scenario {
	return ExpandSelection(AllLabels())
}

// DepositPercent returns the deposit fraction under DefaultAssumptions.
func (s Scenario) DepositPercent() float64 {
	return DefaultAssumptions.DepositPercent(s)
}

// InterestRate returns the annual interest rate under DefaultAssumptions.
func (s Scenario) InterestRate() float64 {
	return DefaultAssumptions.InterestRate(s)
}

// LendersFee returns the arrangement fee under DefaultAssumptions.
func (s Scenario) LendersFee() float64 {
	return DefaultAssumptions.LendersFee(s)
}

// Label returns the canonical display label, e.g.
// "Buy To Let Interest Only Limited Company".
func (s Scenario) Label() string {
	label := LabelResidential
	if s.BuyToLet {
		label = LabelBuyToLet
	}
	if s.InterestOnly {
		label += " " + LabelInterestOnly
	} else {
		label += " " + LabelCapitalRepayment
	}
	if s.LimitedCompany {
		label += " " + LabelLimitedCompany
	} else {
		label += " " + LabelPrivatePurchase
	}
	return label
}

// String implements fmt.Stringer.
func (s Scenario) String() string {
	return s.Label()
}

// Assumptions is the static lookup table behind the derived scenario
// attributes. Rates are fractions.
type Assumptions struct {
	BuyToLetDepositPercent     float64 `mapstructure:"buyToLetDepositPercent" json:"buyToLetDepositPercent" yaml:"buyToLetDepositPercent"`
	ResidentialDepositPercent  float64 `mapstructure:"residentialDepositPercent" json:"residentialDepositPercent" yaml:"residentialDepositPercent"`
	LimitedCompanyInterestRate float64 `mapstructure:"limitedCompanyInterestRate" json:"limitedCompanyInterestRate" yaml:"limitedCompanyInterestRate"`
	BuyToLetInterestRate       float64 `mapstructure:"buyToLetInterestRate" json:"buyToLetInterestRate" yaml:"buyToLetInterestRate"`
	ResidentialInterestRate    float64 `mapstructure:"residentialInterestRate" json:"residentialInterestRate" yaml:"residentialInterestRate"`
	LimitedCompanyLendersFee   float64 `mapstructure:"limitedCompanyLendersFee" json:"limitedCompanyLendersFee" yaml:"limitedCompanyLendersFee"`
	PrivateLendersFee          float64 `mapstructure:"privateLendersFee" json:"privateLendersFee" yaml:"privateLendersFee"`
	CorporationTaxRate         float64 `mapstructure:"corporationTaxRate" json:"corporationTaxRate" yaml:"corporationTaxRate"`
	IncomeTaxRate              float64 `mapstructure:"incomeTaxRate" json:"incomeTaxRate" yaml:"incomeTaxRate"`
	MortgageInterestReliefRate float64 `mapstructure:"mortgageInterestReliefRate" json:"mortgageInterestReliefRate" yaml:"mortgageInterestReliefRate"`
}

// DefaultAssumptions holds the current lending and tax rules.
var DefaultAssumptions = Assumptions{
	BuyToLetDepositPercent:     constants.BuyToLetDepositPercent,
	ResidentialDepositPercent:  constants.ResidentialDepositPercent,
	LimitedCompanyInterestRate: constants.LimitedCompanyInterestRate,
	BuyToLetInterestRate:       constants.BuyToLetInterestRate,
	ResidentialInterestRate:    constants.ResidentialInterestRate,
	LimitedCompanyLendersFee:   constants.LimitedCompanyLendersFee,
	PrivateLendersFee:          constants.PrivateLendersFee,
	CorporationTaxRate:         constants.CorporationTaxRate,
	IncomeTaxRate:              constants.IncomeTaxRate,
	MortgageInterestReliefRate: constants.MortgageInterestReliefRate,
}

// DepositPercent returns the deposit fraction for s.
func (a Assumptions) DepositPercent(s Scenario) float64 {
	if s.BuyToLet {
		return a.BuyToLetDepositPercent
	}
	return a.ResidentialDepositPercent
}

// InterestRate returns the annual interest rate for s. Company borrowers pay
// the same rate whatever the tenancy or repayment type.
func (a Assumptions) InterestRate(s Scenario) float64 {
	if s.LimitedCompany {
		return a.LimitedCompanyInterestRate
	}
	if s.BuyToLet {
		return a.BuyToLetInterestRate
	}
	return a.ResidentialInterestRate
}

// LendersFee returns the arrangement fee for s.
func (a Assumptions) LendersFee(s Scenario) float64 {
	if s.LimitedCompany {
		return a.LimitedCompanyLendersFee
	}
	return a.PrivateLendersFee
}

// AssumptionField is one named entry of an Assumptions table. Name is the
// configuration key; Value points into the table.
type AssumptionField struct {
	Name  string
	Value *float64
}

// Fields lists every entry of a in declaration order, deposit fractions first.
func (a *Assumptions) Fields() []AssumptionField {
	return []AssumptionField{
		{"buyToLetDepositPercent", &a.BuyToLetDepositPercent},
		{"residentialDepositPercent", &a.ResidentialDepositPercent},
		{"limitedCompanyInterestRate", &a.LimitedCompanyInterestRate},
		{"buyToLetInterestRate", &a.BuyToLetInterestRate},
		{"residentialInterestRate", &a.ResidentialInterestRate},
		{"limitedCompanyLendersFee", &a.LimitedCompanyLendersFee},
		{"privateLendersFee", &a.PrivateLendersFee},
		{"corporationTaxRate", &a.CorporationTaxRate},
		{"incomeTaxRate", &a.IncomeTaxRate},
		{"mortgageInterestReliefRate", &a.MortgageInterestReliefRate},
	}
}

// Validate reports every negative or non-finite entry, and deposit fractions
// above one. Zero is a valid value for every entry.
func (a Assumptions) Validate() error {
	var errs []error
	for _, f := range a.Fields() {
		v := *f.Value
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Errorf("assumption %s must be finite, got %v", f.Name, v))
		case v < 0:
			errs = append(errs, fmt.Errorf("assumption %s must not be negative, got %v", f.Name, v))
		}
	}
	for _, f := range a.Fields()[:2] {
		if *f.Value > 1 {
			errs = append(errs, fmt.Errorf("assumption %s is a fraction of the price and must not exceed 1, got %v",
				f.Name, *f.Value))
		}
	}
	return errors.Join(errs...)
}
