package scenario

import "strings"

// Axis labels offered to callers as three independent multi-select groups.
const (
	LabelBuyToLet         = "Buy To Let"
	LabelResidential      = "Residential"
	LabelInterestOnly     = "Interest Only"
	LabelCapitalRepayment = "Capital Repayment"
	LabelLimitedCompany   = "Limited Company"
	LabelPrivatePurchase  = "Private Purchase"
)

// AllLabels returns every axis label in display order.
func AllLabels() []string {
	return []string{
		LabelBuyToLet,
		LabelResidential,
		LabelInterestOnly,
		LabelCapitalRepayment,
		LabelLimitedCompany,
		LabelPrivatePurchase,
	}
}

// ExpandSelection partitions the selected labels into the mortgage type,
// repayment type and ownership type groups and returns their cross product,
// ordered mortgage type, then repayment type, then ownership type, each in
// selection order. A group with no selected label yields no scenarios.
// Labels match case-insensitively; unrecognised labels are ignored.
func ExpandSelection(selected []string) []Scenario {
	var mortgageTypes, repaymentTypes, ownershipTypes []bool

	for _, label := range selected {
		switch canonical(label) {
		case LabelBuyToLet:
			mortgageTypes = append(mortgageTypes, true)
		case LabelResidential:
			mortgageTypes = append(mortgageTypes, false)
		case LabelInterestOnly:
			repaymentTypes = append(repaymentTypes, true)
		case LabelCapitalRepayment:
			repaymentTypes = append(repaymentTypes, false)
		case LabelLimitedCompany:
			ownershipTypes = append(ownershipTypes, true)
		case LabelPrivatePurchase:
			ownershipTypes = append(ownershipTypes, false)
		}
	}

	scenarios := make([]Scenario, 0, len(mortgageTypes)*len(repaymentTypes)*len(ownershipTypes))
	for _, buyToLet := range mortgageTypes {
		for _, interestOnly := range repaymentTypes {
			for _, limitedCompany := range ownershipTypes {
				scenarios = append(scenarios, New(buyToLet, interestOnly, limitedCompany))
			}
		}
	}
	return scenarios
}

// UnknownLabels returns the selected labels that belong to no axis group.
func UnknownLabels(selected []string) []string {
	var unknown []string
	for _, label := range selected {
		if canonical(label) == "" {
			unknown = append(unknown, label)
		}
	}
	return unknown
}

// MissingGroups names the axis groups with no selected label.
func MissingGroups(selected []string) []string {
	var mortgage, repayment, ownership bool
	for _, label := range selected {
		switch canonical(label) {
		case LabelBuyToLet, LabelResidential:
			mortgage = true
		case LabelInterestOnly, LabelCapitalRepayment:
			repayment = true
		case LabelLimitedCompany, LabelPrivatePurchase:
			ownership = true
		}
	}

	var missing []string
	if !mortgage {
		missing = append(missing, "mortgage type")
	}
	if !repayment {
		missing = append(missing, "repayment type")
	}
	if !ownership {
		missing = append(missing, "ownership type")
	}
	return missing
}

func canonical(label string) string {
	trimmed := strings.TrimSpace(label)
	for _, known := range AllLabels() {
		if strings.EqualFold(trimmed, known) {
			return known
		}
	}
	return ""
}
