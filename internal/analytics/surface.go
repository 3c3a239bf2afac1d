package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SurfacePoint is the cash flow of one scenario at one grid point.
type SurfacePoint struct {
	Scenario scenario.Scenario `json:"-"`
	Label    string            `json:"scenario"`
	Price    float64           `json:"price"`
	Rent     float64           `json:"rent"`
	Cashflow float64           `json:"cashflow"`
}

// RentBracket gives the rent range swept for prices below PriceBelow. A zero
// PriceBelow matches every price.
type RentBracket struct {
	PriceBelow float64 `json:"priceBelow"`
	RentMin    float64 `json:"rentMin"`
	RentMax    float64 `json:"rentMax"`
}

// Grid describes the price/rent combinations swept by a surface. Upper bounds
// are exclusive.
type Grid struct {
	PriceMin  float64       `json:"priceMin"`
	PriceMax  float64       `json:"priceMax"`
	PriceStep float64       `json:"priceStep"`
	RentStep  float64       `json:"rentStep"`
	Brackets  []RentBracket `json:"brackets"`
}

// GridPoint is one (price, rent) pair of a Grid.
type GridPoint struct {
	Price float64
	Rent  float64
}

// DefaultGrid returns the standard sweep: prices 200,000 to 390,000 in steps
// of 10,000 with a rent range per price tier, rents in steps of 10.
func DefaultGrid() Grid {
	return Grid{
		PriceMin:  constants.SurfacePriceMin,
		PriceMax:  constants.SurfacePriceMax,
		PriceStep: constants.SurfacePriceStep,
		RentStep:  constants.SurfaceRentStep,
		Brackets: []RentBracket{
			{PriceBelow: 250000, RentMin: 1000, RentMax: 1250},
			{PriceBelow: 300000, RentMin: 1250, RentMax: 1750},
			{PriceBelow: 350000, RentMin: 1750, RentMax: 2250},
			{RentMin: 2000, RentMax: 4000},
		},
	}
}

// Validate checks that the grid is non-empty and every point is a valid input.
func (g Grid) Validate() error {
	var errs []error
	if g.PriceMin <= 0 {
		errs = append(errs, fmt.Errorf("%w: grid minimum price must be positive, got %v", ErrInvalidInput, g.PriceMin))
	}
	if g.PriceMax <= g.PriceMin {
		errs = append(errs, fmt.Errorf("%w: grid maximum price %v must exceed minimum %v", ErrInvalidInput, g.PriceMax, g.PriceMin))
	}
	if g.PriceStep <= 0 || g.RentStep <= 0 {
		errs = append(errs, fmt.Errorf("%w: grid steps must be positive", ErrInvalidInput))
	}
	if len(g.Brackets) == 0 {
		errs = append(errs, fmt.Errorf("%w: grid needs at least one rent bracket", ErrInvalidInput))
	}
	for i, b := range g.Brackets {
		if b.RentMin <= 0 || b.RentMax <= b.RentMin {
			errs = append(errs, fmt.Errorf("%w: rent bracket %d range [%v, %v) is empty or not positive",
				ErrInvalidInput, i, b.RentMin, b.RentMax))
		}
	}
	return errors.Join(errs...)
}

// RentRange returns the rent range [min, max) swept at price.
func (g Grid) RentRange(price float64) (float64, float64, bool) {
	for _, b := range g.Brackets {
		if b.PriceBelow == 0 || price < b.PriceBelow {
			return b.RentMin, b.RentMax, true
		}
	}
	return 0, 0, false
}

// Points enumerates the grid in price-major, rent-minor order.
func (g Grid) Points() []GridPoint {
	var points []GridPoint
	if g.PriceStep <= 0 || g.RentStep <= 0 {
		return points
	}
	for i := 0; ; i++ {
		price := g.PriceMin + float64(i)*g.PriceStep
		if price >= g.PriceMax {
			break
		}
		rentMin, rentMax, ok := g.RentRange(price)
		if !ok {
			continue
		}
		for j := 0; ; j++ {
			rent := rentMin + float64(j)*g.RentStep
			if rent >= rentMax {
				break
			}
			points = append(points, GridPoint{Price: price, Rent: rent})
		}
	}
	return points
}

// SurfaceRequest holds the fixed inputs of a surface sweep.
type SurfaceRequest struct {
	Grid               Grid
	ServiceCharge      float64
	AdditionalExpenses float64
	Term               int
	Scenarios          []scenario.Scenario
}

// Surface evaluates every scenario at every grid point. Grid points are
// evaluated in parallel; the result is ordered price-major, rent-minor,
// scenario-innermost regardless of completion order.
func (e *Engine) Surface(ctx context.Context, req SurfaceRequest) ([]SurfacePoint, error) {
	if err := req.Grid.Validate(); err != nil {
		return nil, err
	}
	points := req.Grid.Points()
	if len(points) == 0 {
		return []SurfacePoint{}, nil
	}

	// The first grid point stands in for the rest: only price and rent vary,
	// and the grid guarantees both are positive.
	first := Input{
		Price:              points[0].Price,
		Rent:               points[0].Rent,
		ServiceCharge:      req.ServiceCharge,
		AdditionalExpenses: req.AdditionalExpenses,
		Term:               req.Term,
	}
	if err := Validate(first, req.Scenarios); err != nil {
		return nil, err
	}

	start := time.Now()
	n := len(req.Scenarios)
	surface := make([]SurfacePoint, len(points)*n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, point := range points {
		if gctx.Err() != nil {
			break
		}
		i, point := i, point
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			input := first
			input.Price = point.Price
			input.Rent = point.Rent
			for j, row := range e.compute(input, req.Scenarios) {
				surface[i*n+j] = SurfacePoint{
					Scenario: row.Scenario,
					Label:    row.Label,
					Price:    point.Price,
					Rent:     point.Rent,
					Cashflow: row.Cashflow,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cash-flow surface sweep aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cash-flow surface sweep aborted: %w", err)
	}

	e.logger.Debug("computed cash-flow surface",
		zap.String("op", "analytics.Surface"),
		zap.Int("gridPoints", len(points)),
		zap.Int("scenarios", n),
		zap.Int("workers", e.workers),
		zap.Duration("duration", time.Since(start)),
	)
	return surface, nil
}

// ComputeCashflowSurface sweeps DefaultGrid under DefaultAssumptions.
func ComputeCashflowSurface(serviceCharge float64, term int, scenarios []scenario.Scenario) ([]SurfacePoint, error) {
	return defaultEngine.Surface(context.Background(), SurfaceRequest{
		Grid:          DefaultGrid(),
		ServiceCharge: serviceCharge,
		Term:          term,
		Scenarios:     scenarios,
	})
}

// FilterViable keeps the points whose cash flow strictly exceeds minimum.
func FilterViable(points []SurfacePoint, minimum float64) []SurfacePoint {
	viable := make([]SurfacePoint, 0, len(points))
	for _, p := range points {
		if p.Cashflow > minimum {
			viable = append(viable, p)
		}
	}
	return viable
}
