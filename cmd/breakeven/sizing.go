package main

import (
	"fmt"
	"io"

	"github.com/icodeforyou/solarproposal-go/optimize"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/spf13/cobra"
)

func newSizingCmd(opts *options) *cobra.Command {
	var objectiveName string

	cmd := &cobra.Command{
		Use:   "sizing",
		Short: "Find the sweet spot and the best panel count for a household",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objective, ok := optimize.ParseObjective(objectiveName)
			if !ok {
				return fmt.Errorf("unknown objective %q", objectiveName)
			}

			cnfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			in, err := opts.loadInput()
			if err != nil {
				return err
			}
			sim, err := newSimulator(cnfg)
			if err != nil {
				return err
			}

			sizer := proposal.NewSizer(sim, newEstimator(cnfg), proposal.SizingCosts{
				PanelPowerW:  cnfg.Sizing.GetPanelPower(),
				CostPerPanel: cnfg.Sizing.GetCostPerPanel(),
				FixedCost:    cnfg.Sizing.GetFixedCost(),
				MaxPanels:    cnfg.Sizing.GetMaxPanels(),
			})
			out, err := sizer.Size(cmd.Context(), in, objective)
			if err != nil {
				return err
			}
			printSizing(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&objectiveName, "objective", optimize.ObjectiveNetSavings.String(), "net_savings or earliest_breakeven")

	return cmd
}

func printSizing(w io.Writer, out proposal.SizingOutput) {
	r := out.Recommendation
	fmt.Fprintf(w, "Production per kWp:  %.0f kWh/year\n", out.ProductionPerKwp)
	fmt.Fprintf(w, "Usage to cover:      %.0f kWh/year\n", r.AnnualBlueRedUsage)
	fmt.Fprintf(w, "Sweet spot:          %d panels (%.1f kWp), range %d-%d panels\n",
		r.Panels.Optimal, r.PowerKw.Optimal, r.Panels.Min, r.Panels.Max)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%6s %8s %12s %10s %14s\n", "Panels", "kWp", "Cost", "Breakeven", "Net savings")
	for _, c := range out.Candidates {
		breakeven := "-"
		if c.Breakeven.IsValid() {
			breakeven = fmt.Sprintf("%d", c.Breakeven.Value())
		}
		marker := ""
		if c.Panels == out.Best.Panels {
			marker = " *"
		}
		fmt.Fprintf(w, "%6d %8.2f %12d %10s %14d%s\n", c.Panels, c.PowerKw, c.SystemCost, breakeven, c.NetSavings, marker)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Best by %s: %d panels\n", out.Objective, out.Best.Panels)
}
