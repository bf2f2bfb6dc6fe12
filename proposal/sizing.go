package proposal

import (
	"context"
	"fmt"
	"time"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/convert"
	"github.com/icodeforyou/solarproposal-go/metrics"
	"github.com/icodeforyou/solarproposal-go/optimize"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/shopspring/decimal"
)

type BaseEstimator interface {
	BaseProductionPerKwp(ctx context.Context, loc types.Location) (types.ProductionProfile, error)
}

type SizingCosts struct {
	PanelPowerW  float64
	CostPerPanel int64
	FixedCost    int64
	MaxPanels    int
}

type SizingOutput struct {
	ProductionPerKwp float64                 `json:"productionPerKwp"` // Annual kWh of a 1 kWp system
	Recommendation   optimize.Recommendation `json:"recommendation"`
	Objective        string                  `json:"objective"`
	Best             optimize.Candidate      `json:"best"`
	Candidates       []optimize.Candidate    `json:"candidates"`
}

// Sizer finds the system size for a customer: the sweet spot range that
// covers the expensive day usage, and the panel count the simulation ranks
// best. The search never goes above the configured maximum, even when the
// sweet spot does.
type Sizer struct {
	sim   *simulate.Simulator
	base  BaseEstimator
	costs SizingCosts
}

func NewSizer(sim *simulate.Simulator, base BaseEstimator, costs SizingCosts) *Sizer {
	return &Sizer{sim: sim, base: base, costs: costs}
}

func (z *Sizer) Size(ctx context.Context, in Input, objective optimize.Objective) (out SizingOutput, err error) {
	start := time.Now()
	defer func() { metrics.ObserveSizing(err, time.Since(start)) }()

	if err := in.validateLayout(); err != nil {
		return SizingOutput{}, err
	}
	usage, err := usageProfile(in)
	if err != nil {
		return SizingOutput{}, err
	}
	permittedPower, err := in.permittedPower(z.sim.Rates().PermittedPower)
	if err != nil {
		return SizingOutput{}, err
	}

	panelPower := in.PanelPowerW
	if panelPower <= 0 {
		panelPower = z.costs.PanelPowerW
	}

	base, err := z.baseProduction(ctx, in, panelPower)
	if err != nil {
		return SizingOutput{}, err
	}
	perKwp := base.Annual().InexactFloat64()

	rec, err := optimize.SweetSpot(usage, z.sim.Rates().Bands.Green, perKwp, panelPower)
	if err != nil {
		return SizingOutput{}, err
	}

	best, err := optimize.BestPanelCount(ctx, z.sim, optimize.Input{
		Usage:          usage,
		BaseProduction: base,
		PanelPowerW:    panelPower,
		CostPerPanel:   z.costs.CostPerPanel,
		FixedCost:      z.costs.FixedCost,
		PermittedPower: permittedPower,
		MinPanels:      1,
		MaxPanels:      z.costs.MaxPanels,
		Step:           1,
		Objective:      objective,
	})
	if err != nil {
		return SizingOutput{}, fmt.Errorf("ranking panel counts: %w", err)
	}

	return SizingOutput{
		ProductionPerKwp: convert.TwoDecimals(perKwp),
		Recommendation:   rec,
		Objective:        objective.String(),
		Best:             best.Best,
		Candidates:       best.Candidates,
	}, nil
}

// baseProduction gives the monthly production of 1 kWp. A given production
// profile is scaled down by the installed power of the roof layout,
// otherwise the estimator is asked for the location.
func (z *Sizer) baseProduction(ctx context.Context, in Input, panelPower float64) (types.ProductionProfile, error) {
	if len(in.Production) > 0 {
		peakKw := types.ProductionRequest{PanelPowerW: panelPower, Surfaces: in.Surfaces}.PeakPowerKw()
		if peakKw <= 0 {
			return types.ProductionProfile{}, fmt.Errorf("%w: roof surfaces are required to size from a production profile", calc.ErrValidation)
		}
		m, err := types.MonthlyFromKeyed("production", in.Production)
		if err != nil {
			return types.ProductionProfile{}, err
		}
		p, err := types.NewProductionProfile(m)
		if err != nil {
			return types.ProductionProfile{}, err
		}
		return p.PerKw(decimal.NewFromFloat(peakKw)), nil
	}

	if z.base == nil {
		return types.ProductionProfile{}, fmt.Errorf("%w: monthly production is required when no estimator is configured", calc.ErrValidation)
	}

	loc, err := in.location()
	if err != nil {
		return types.ProductionProfile{}, err
	}
	p, err := z.base.BaseProductionPerKwp(ctx, loc)
	if err != nil {
		return types.ProductionProfile{}, fmt.Errorf("estimating production: %w", err)
	}
	return p, nil
}
