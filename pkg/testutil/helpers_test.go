package testutil

import (
	"testing"

	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
)

func TestFindRow(t *testing.T) {
	rows := SampleRows()

	tests := []struct {
		name        string
		label       string
		expectFound bool
	}{
		{
			name:        "Find buy-to-let row",
			label:       scenario.New(true, true, false).Label(),
			expectFound: true,
		},
		{
			name:        "Find residential row",
			label:       scenario.New(false, false, false).Label(),
			expectFound: true,
		},
		{
			name:        "Label is case sensitive",
			label:       "buy to let interest only private purchase",
			expectFound: false,
		},
		{
			name:        "Unknown label",
			label:       "Holiday Let",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := FindRow(rows, tt.label)
			if tt.expectFound && row == nil {
				t.Fatalf("FindRow(%q) returned nil", tt.label)
			}
			if !tt.expectFound && row != nil {
				t.Fatalf("FindRow(%q) = %+v, expected nil", tt.label, row)
			}
			if row != nil && row.Label != tt.label {
				t.Errorf("FindRow(%q) returned row %q", tt.label, row.Label)
			}
		})
	}
}

func TestFindRowReturnsPointerIntoSlice(t *testing.T) {
	rows := SampleRows()
	label := scenario.New(true, false, true).Label()

	row := FindRow(rows, label)
	if row == nil {
		t.Fatalf("FindRow(%q) returned nil", label)
	}
	row.Cashflow = 42

	if FindRow(rows, label).Cashflow != 42 {
		t.Error("expected FindRow to return a pointer into the slice")
	}
}
