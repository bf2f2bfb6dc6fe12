package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/icodeforyou/solarproposal-go/report"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		xlsxPath string
		pdfPath  string
		asJson   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a proposal and print its breakeven summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			out, err := proposal.NewService(sim, newEstimator(cnfg), nil, nil).Run(cmd.Context(), in)
			if err != nil {
				return err
			}

			baseYear := cnfg.Simulation.GetBaseYear()
			for format, path := range map[report.Format]string{report.FormatXLSX: xlsxPath, report.FormatPDF: pdfPath} {
				if path == "" {
					continue
				}
				buf, err := report.Build(format, out.Summary, out.Months, baseYear)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, buf, 0o644); err != nil {
					return fmt.Errorf("writing %s report: %w", format, err)
				}
			}

			if asJson {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printSummary(cmd.OutOrStdout(), out.Summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an XLSX report to this path")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF report to this path")
	cmd.Flags().BoolVar(&asJson, "json", false, "print the full result as JSON")

	return cmd
}

func printSummary(w io.Writer, s proposal.Summary) {
	fmt.Fprintf(w, "Customer:            %s\n", s.Customer)
	if s.Address != "" {
		fmt.Fprintf(w, "Address:             %s\n", s.Address)
	}
	fmt.Fprintf(w, "System cost:         %d RSD\n", s.SystemCost)
	if s.PeakPowerKw > 0 {
		fmt.Fprintf(w, "Peak power:          %.2f kW\n", s.PeakPowerKw)
	}
	fmt.Fprintf(w, "Annual usage:        %.0f kWh\n", s.AnnualUsage)
	fmt.Fprintf(w, "Annual production:   %.0f kWh (%.2f%% of usage)\n", s.AnnualProduction, s.SolarPercentage)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s %12s %12s\n", "Month", "Grid only", "With solar")
	for i := range s.MonthlyBillsPreSolar {
		fmt.Fprintf(w, "%-6s %12d %12d\n", months.ShortName(i+1), s.MonthlyBillsPreSolar[i], s.MonthlyBillsPostSolar[i])
	}
	fmt.Fprintf(w, "%-6s %12d %12d\n", "Year", s.AnnualCostPreSolar, s.AnnualCostPostSolar)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Annual savings:      %d RSD\n", s.AnnualSavings)
	fmt.Fprintf(w, "Breakeven:           %s (%s)\n", s.BreakevenTextEn, s.BreakevenText)
	if s.YearsInProfit.IsValid() {
		fmt.Fprintf(w, "Years in profit:     %d\n", s.YearsInProfit.Value())
	}
	fmt.Fprintf(w, "Net savings:         %d RSD over %d years\n", s.NetSavings, months.Years(s.HorizonMonths))
	fmt.Fprintf(w, "CO2 reduction:       %d kg/year (%d trees)\n", s.CO2.ReductionKg, s.CO2.TreesEquivalent)
	if r := s.Recommendation; r != nil {
		fmt.Fprintf(w, "Recommended size:    %d-%d panels, %.1f kWp\n", r.Panels.Min, r.Panels.Max, r.PowerKw.Optimal)
	}
}
