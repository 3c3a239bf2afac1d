package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func surfaceCmd(a *app) *cobra.Command {
	var (
		props           propertyFlags
		workers         int
		minimumCashflow float64
		viableOnly      bool
	)

	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Sweep cash flow over the price and rent grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "main.surface"
			props.apply(cmd, a)
			flags := cmd.Flags()
			if flags.Changed("workers") {
				a.conf.Surface.Workers = workers
			}
			if flags.Changed("minimum-cashflow") {
				a.conf.Surface.MinimumCashflow = minimumCashflow
			}
			if flags.Changed("viable-only") {
				a.conf.Surface.ViableOnly = viableOnly
			}

			outputFormat, err := a.format()
			if err != nil {
				return a.fail(op, "invalid output format", err)
			}
			a.warnConfiguration(op, a.conf.ValidateSurfaceConfiguration())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := a.conf.Engine(a.logger)
			points, err := engine.Surface(ctx, a.conf.SurfaceRequest())
			if err != nil {
				return a.fail(op, "failed to compute cash-flow surface", err)
			}

			total := len(points)
			if a.conf.Surface.ViableOnly {
				points = analytics.FilterViable(points, a.conf.Surface.MinimumCashflow)
			}
			a.logger.Info("cash-flow surface computed",
				zap.String("op", op),
				zap.Int("points", len(points)),
				zap.Int("total", total),
				zap.Int("workers", engine.Workers()),
			)

			if err := output.WriteSurface(a.stdout, outputFormat, points); err != nil {
				return a.fail(op, "failed to write output", err)
			}
			return nil
		},
	}
	props.register(cmd, false)
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers for the sweep (0 uses one per CPU)")
	cmd.Flags().Float64Var(&minimumCashflow, "minimum-cashflow", 0, "monthly cash flow a point must exceed to be viable")
	cmd.Flags().BoolVar(&viableOnly, "viable-only", false, "only output points above the minimum cash flow")
	return cmd
}
