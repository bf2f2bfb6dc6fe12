package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/icodeforyou/solarproposal-go/config"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/icodeforyou/solarproposal-go/pvgis"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	configPath string
	inputPath  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "breakeven",
		Short: "Price a rooftop solar proposal against the grid tariff",
		Long: `breakeven simulates the monthly electricity bills of a household with
and without a net-metered solar system and reports when the system
pays for itself.

Examples:
  breakeven run -i proposal.yaml
  breakeven run -i proposal.yaml --pdf proposal.pdf
  breakeven sizing -i proposal.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			})))
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is built-in tariff and settings)")
	root.PersistentFlags().StringVarP(&opts.inputPath, "input", "i", "", "proposal file (YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	_ = root.MarkPersistentFlagRequired("input")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newSizingCmd(opts))

	return root
}

// loadConfig reads the config file when one is given, otherwise every
// setting falls back to its default.
func (o *options) loadConfig() (*config.AppConfig, error) {
	if o.configPath == "" {
		return &config.AppConfig{}, nil
	}
	return config.Load(o.configPath)
}

func (o *options) loadInput() (proposal.Input, error) {
	var in proposal.Input
	buf, err := os.ReadFile(o.inputPath)
	if err != nil {
		return in, fmt.Errorf("reading proposal file: %w", err)
	}
	if err := yaml.Unmarshal(buf, &in); err != nil {
		return in, fmt.Errorf("parsing proposal file %s: %w", o.inputPath, err)
	}
	return in, nil
}

func newSimulator(cnfg *config.AppConfig) (*simulate.Simulator, error) {
	rates, err := cnfg.Tariff.Rates()
	if err != nil {
		return nil, err
	}
	return simulate.New(rates, cnfg.Simulation.GetHorizonMonths())
}

func newEstimator(cnfg *config.AppConfig) *pvgis.Client {
	return pvgis.New(cnfg.Pvgis.GetBaseURL(), cnfg.Pvgis.GetLoss(), cnfg.Pvgis.GetTimeout())
}
