// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
)

// FindRow finds a scenario's row by label in the results slice.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []analytics.Row, label string) *analytics.Row {
	for i := range rows {
		if rows[i].Label == label {
			return &rows[i]
		}
	}
	return nil
}

// SampleRows computes rows for the default slider inputs across all scenarios.
func SampleRows() []analytics.Row {
	rows, err := analytics.ComputeAnalytics(SampleInput(), scenario.All())
	if err != nil {
		panic(err)
	}
	return rows
}

// SampleInput returns the default slider inputs.
func SampleInput() analytics.Input {
	return analytics.Input{
		Price:              300000,
		Rent:               1800,
		ServiceCharge:      2000,
		AdditionalExpenses: 2000,
		Term:               25,
	}
}
