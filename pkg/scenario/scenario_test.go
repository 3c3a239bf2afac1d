package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedAttributes(t *testing.T) {
	for _, s := range All() {
		t.Run(s.Label(), func(t *testing.T) {
			switch {
			case s.LimitedCompany:
				assert.Equal(t, 0.0544, s.InterestRate())
				assert.Equal(t, 2000.0, s.LendersFee())
			case s.BuyToLet:
				assert.Equal(t, 0.045, s.InterestRate())
				assert.Equal(t, 1000.0, s.LendersFee())
			default:
				assert.Equal(t, 0.049, s.InterestRate())
				assert.Equal(t, 1000.0, s.LendersFee())
			}

			if s.BuyToLet {
				assert.Equal(t, 0.25, s.DepositPercent())
			} else {
				assert.Equal(t, 0.10, s.DepositPercent())
			}
		})
	}
}

func TestDerivedAttributesArePureFunctionsOfFlags(t *testing.T) {
	a := New(true, false, true)
	b := Scenario{BuyToLet: true, LimitedCompany: true}

	assert.Equal(t, a, b)
	assert.Equal(t, a.InterestRate(), b.InterestRate())
	assert.Equal(t, a.DepositPercent(), b.DepositPercent())
	assert.Equal(t, a.LendersFee(), b.LendersFee())
	assert.Equal(t, a.Label(), b.Label())
}

func TestLabel(t *testing.T) {
	tests := []struct {
		scenario Scenario
		expected string
	}{
		{New(true, true, true), "Buy To Let Interest Only Limited Company"},
		{New(true, false, false), "Buy To Let Capital Repayment Private Purchase"},
		{New(false, false, false), "Residential Capital Repayment Private Purchase"},
		{New(false, true, true), "Residential Interest Only Limited Company"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.scenario.Label())
		assert.Equal(t, tt.expected, tt.scenario.String())
	}
}

func TestAssumptionsFields(t *testing.T) {
	a := DefaultAssumptions
	fields := a.Fields()
	require.Len(t, fields, 10)
	assert.Equal(t, "buyToLetDepositPercent", fields[0].Name)
	assert.Equal(t, "mortgageInterestReliefRate", fields[9].Name)

	for _, f := range fields {
		if f.Name == "buyToLetInterestRate" {
			*f.Value = 0.05
		}
		if f.Name == "corporationTaxRate" {
			*f.Value = 0
		}
	}
	assert.Equal(t, 0.05, a.BuyToLetInterestRate)
	assert.Equal(t, 0.0, a.CorporationTaxRate)
	assert.Equal(t, 0.19, DefaultAssumptions.CorporationTaxRate, "fields of a copy must not touch the defaults")

	s := New(true, true, false)
	assert.Equal(t, 0.05, a.InterestRate(s))
	assert.Equal(t, 0.045, s.InterestRate(), "scenario methods always read the default table")
}

func TestAssumptionsValidate(t *testing.T) {
	require.NoError(t, DefaultAssumptions.Validate())

	zero := Assumptions{}
	require.NoError(t, zero.Validate(), "zero rates and fees are valid")

	bad := DefaultAssumptions
	bad.IncomeTaxRate = -0.2
	bad.ResidentialDepositPercent = 1.5
	bad.PrivateLendersFee = math.NaN()
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomeTaxRate must not be negative")
	assert.Contains(t, err.Error(), "residentialDepositPercent is a fraction")
	assert.Contains(t, err.Error(), "privateLendersFee must be finite")
}

func TestExpandSelectionAllLabels(t *testing.T) {
	scenarios := ExpandSelection(AllLabels())
	require.Len(t, scenarios, 8)

	expected := []Scenario{
		New(true, true, true),
		New(true, true, false),
		New(true, false, true),
		New(true, false, false),
		New(false, true, true),
		New(false, true, false),
		New(false, false, true),
		New(false, false, false),
	}
	assert.Equal(t, expected, scenarios)
}

func TestExpandSelectionFollowsSelectionOrder(t *testing.T) {
	scenarios := ExpandSelection([]string{
		LabelPrivatePurchase,
		LabelResidential,
		LabelCapitalRepayment,
		LabelBuyToLet,
		LabelLimitedCompany,
	})

	expected := []Scenario{
		New(false, false, false),
		New(false, false, true),
		New(true, false, false),
		New(true, false, true),
	}
	assert.Equal(t, expected, scenarios)
}

func TestExpandSelectionMissingGroup(t *testing.T) {
	scenarios := ExpandSelection([]string{LabelBuyToLet, LabelInterestOnly})
	assert.Empty(t, scenarios)
	assert.NotNil(t, scenarios)

	assert.Empty(t, ExpandSelection(nil))
}

func TestExpandSelectionNormalisesLabels(t *testing.T) {
	scenarios := ExpandSelection([]string{" buy to let ", "INTEREST ONLY", "limited company", "Bungalow"})
	assert.Equal(t, []Scenario{New(true, true, true)}, scenarios)
}

func TestUnknownLabels(t *testing.T) {
	assert.Equal(t, []string{"Bungalow"}, UnknownLabels([]string{LabelBuyToLet, "Bungalow"}))
	assert.Empty(t, UnknownLabels(AllLabels()))
}

func TestMissingGroups(t *testing.T) {
	assert.Empty(t, MissingGroups(AllLabels()))
	assert.Equal(t, []string{"repayment type", "ownership type"}, MissingGroups([]string{LabelResidential}))
	assert.Equal(t, []string{"mortgage type", "repayment type", "ownership type"}, MissingGroups(nil))
}
