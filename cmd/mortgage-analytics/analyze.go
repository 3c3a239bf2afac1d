package main

import (
	"github.com/iwvelando/mortgage-analytics/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type propertyFlags struct {
	price              float64
	rent               float64
	serviceCharge      float64
	additionalExpenses float64
	term               int
	scenarios          []string
}

func (p *propertyFlags) register(cmd *cobra.Command, withPriceAndRent bool) {
	if withPriceAndRent {
		cmd.Flags().Float64Var(&p.price, "price", 0, "property price override")
		cmd.Flags().Float64Var(&p.rent, "rent", 0, "monthly rent override")
		cmd.Flags().Float64Var(&p.additionalExpenses, "additional-expenses", 0, "annual additional expenses override")
	}
	cmd.Flags().Float64Var(&p.serviceCharge, "service-charge", 0, "annual service charge override")
	cmd.Flags().IntVar(&p.term, "term", 0, "mortgage term override in years")
	cmd.Flags().StringArrayVar(&p.scenarios, "scenario", nil, "scenario label to select, repeatable (e.g. --scenario \"Buy To Let\")")
}

// apply copies every flag the user set onto the loaded configuration.
func (p *propertyFlags) apply(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	prop := &a.conf.Property
	if flags.Changed("price") {
		prop.Price = p.price
	}
	if flags.Changed("rent") {
		prop.Rent = p.rent
	}
	if flags.Changed("service-charge") {
		prop.ServiceCharge = p.serviceCharge
	}
	if flags.Changed("additional-expenses") {
		prop.AdditionalExpenses = p.additionalExpenses
	}
	if flags.Changed("term") {
		prop.Term = p.term
	}
	if flags.Changed("scenario") {
		a.conf.Scenarios = p.scenarios
	}
}

func analyzeCmd(a *app) *cobra.Command {
	var props propertyFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute mortgage and cash-flow figures for each selected scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "main.analyze"
			props.apply(cmd, a)

			outputFormat, err := a.format()
			if err != nil {
				return a.fail(op, "invalid output format", err)
			}
			a.warnConfiguration(op, a.conf.ValidateConfiguration())

			engine := a.conf.Engine(a.logger)
			rows, err := engine.Compute(a.conf.Property, a.conf.SelectedScenarios())
			if err != nil {
				return a.fail(op, "failed to compute analytics", err)
			}

			a.logger.Debug("analytics computed",
				zap.String("op", op),
				zap.Int("rows", len(rows)),
			)

			if err := output.Write(a.stdout, outputFormat, rows); err != nil {
				return a.fail(op, "failed to write output", err)
			}
			return nil
		},
	}
	props.register(cmd, true)
	return cmd
}
