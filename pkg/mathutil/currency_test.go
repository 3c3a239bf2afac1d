package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Monthly expenses", 4000.0 / 12, 333.33},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small negative", -0.001, 0.00},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1800) {
		t.Error("IsFinite(1800) = false, expected true")
	}
	if IsFinite(math.NaN()) {
		t.Error("IsFinite(NaN) = true, expected false")
	}
	if IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("IsFinite(Inf) = true, expected false")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(205.0, 205.004, 0.01) {
		t.Error("expected values within a cent to match")
	}
	if WithinTolerance(205.0, 205.5, 0.01) {
		t.Error("expected values half a pound apart not to match")
	}
}

func TestMax(t *testing.T) {
	if got := Max(-3, 0); got != 0 {
		t.Errorf("Max(-3, 0) = %v, expected 0", got)
	}
	if got := Max(1466.67, 0); got != 1466.67 {
		t.Errorf("Max(1466.67, 0) = %v, expected 1466.67", got)
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Rental yield", 1800, 300000, 0.72},
		{"Half", 50, 100, 50},
		{"Zero total", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}
