package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
	"go.uber.org/zap"
)

// TestSurfacePerformance checks the full default sweep stays well within an
// interactive response time.
func TestSurfacePerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	engine := NewEngine(zap.NewNop(), scenario.DefaultAssumptions, 0)
	req := SurfaceRequest{
		Grid:          DefaultGrid(),
		ServiceCharge: 2000,
		Term:          25,
		Scenarios:     scenario.All(),
	}

	start := time.Now()
	points, err := engine.Surface(context.Background(), req)
	if err != nil {
		t.Fatalf("Surface failed: %v", err)
	}
	elapsed := time.Since(start)

	t.Logf("computed %d surface points with %d workers in %v", len(points), engine.Workers(), elapsed)
	if elapsed > 5*time.Second {
		t.Errorf("surface sweep took %v, exceeds 5 second threshold", elapsed)
	}
	if len(points) != len(req.Grid.Points())*len(req.Scenarios) {
		t.Errorf("expected %d points, got %d", len(req.Grid.Points())*len(req.Scenarios), len(points))
	}
}

func BenchmarkCompute(b *testing.B) {
	input := defaultInput()
	scenarios := scenario.All()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ComputeAnalytics(input, scenarios); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSurface(b *testing.B) {
	for _, workers := range []int{1, 4, 0} {
		engine := NewEngine(zap.NewNop(), scenario.DefaultAssumptions, workers)
		req := SurfaceRequest{
			Grid:          DefaultGrid(),
			ServiceCharge: 2000,
			Term:          25,
			Scenarios:     scenario.All(),
		}
		b.Run(fmt.Sprintf("workers=%d", engine.Workers()), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := engine.Surface(context.Background(), req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
