package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/iwvelando/mortgage-analytics/pkg/format"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
	"github.com/spf13/cobra"
)

func scenariosCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List scenario labels and the assumptions behind each scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assumptions := a.conf.Assumptions

			fmt.Fprintln(a.stdout, "Labels:")
			for _, label := range scenario.AllLabels() {
				fmt.Fprintf(a.stdout, "  %s\n", label)
			}
			fmt.Fprintln(a.stdout)

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Scenario\tDeposit\tInterest rate\tLenders fee")
			for _, s := range scenario.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					s.Label(),
					format.Percent(assumptions.DepositPercent(s)*constants.PercentageMultiplier),
					format.Percent(assumptions.InterestRate(s)*constants.PercentageMultiplier),
					format.Currency(assumptions.LendersFee(s)),
				)
			}
			return tw.Flush()
		},
	}
}
