package analytics

import (
	"errors"
	"fmt"

	"github.com/iwvelando/mortgage-analytics/pkg/mathutil"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
)

// ErrInvalidInput is wrapped by every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Validate checks input against the engine's numeric constraints. Rent must be
// positive only when a buy-to-let scenario is requested. All violations are
// reported together.
func Validate(input Input, scenarios []scenario.Scenario) error {
	var errs []error

	fields := []struct {
		name  string
		value float64
	}{
		{"price", input.Price},
		{"rent", input.Rent},
		{"service charge", input.ServiceCharge},
		{"additional expenses", input.AdditionalExpenses},
	}
	for _, field := range fields {
		if !mathutil.IsFinite(field.value) {
			errs = append(errs, fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidInput, field.name, field.value))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if input.Price <= 0 {
		errs = append(errs, fmt.Errorf("%w: price must be positive, got %v", ErrInvalidInput, input.Price))
	}
	if input.Term <= 0 {
		errs = append(errs, fmt.Errorf("%w: term must be a positive number of years, got %d", ErrInvalidInput, input.Term))
	}
	if input.ServiceCharge < 0 {
		errs = append(errs, fmt.Errorf("%w: service charge must not be negative, got %v", ErrInvalidInput, input.ServiceCharge))
	}
	if input.AdditionalExpenses < 0 {
		errs = append(errs, fmt.Errorf("%w: additional expenses must not be negative, got %v", ErrInvalidInput, input.AdditionalExpenses))
	}
	if input.Rent < 0 {
		errs = append(errs, fmt.Errorf("%w: rent must not be negative, got %v", ErrInvalidInput, input.Rent))
	} else if input.Rent == 0 && hasBuyToLet(scenarios) {
		errs = append(errs, fmt.Errorf("%w: rent must be positive for buy-to-let scenarios", ErrInvalidInput))
	}

	return errors.Join(errs...)
}

func hasBuyToLet(scenarios []scenario.Scenario) bool {
	for _, s := range scenarios {
		if s.BuyToLet {
			return true
		}
	}
	return false
}
