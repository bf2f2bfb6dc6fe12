package optimize

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Input struct {
	Usage          types.UsageProfile
	BaseProduction types.ProductionProfile // Production of a 1 kWp system
	PanelPowerW    float64
	CostPerPanel   int64 // Installed cost per panel
	FixedCost      int64 // Installation cost independent of system size
	PermittedPower decimal.Decimal
	MinPanels      int
	MaxPanels      int
	Step           int
	Objective      Objective
}

type Candidate struct {
	Panels     int              `json:"panels"`
	PowerKw    float64          `json:"powerKw"`
	SystemCost int64            `json:"systemCost"`
	Status     simulate.Status  `json:"status"`
	Breakeven  maybe.Maybe[int] `json:"breakevenMonth"`
	NetSavings int64            `json:"netSavings"`
}

type Output struct {
	Best       Candidate
	Candidates []Candidate // Ordered by panel count
}

// SystemCost is the upfront cost of a system with n panels.
func (i Input) SystemCost(n int) int64 {
	return i.FixedCost + int64(n)*i.CostPerPanel
}

// BestPanelCount simulates every candidate system size (brute-force) and
// returns the one that serves the objective best.
func BestPanelCount(ctx context.Context, sim *simulate.Simulator, input Input) (Output, error) {
	if !(input.PanelPowerW > 0) || math.IsInf(input.PanelPowerW, 1) {
		return Output{}, fmt.Errorf("%w: panel power must be positive, got %f", calc.ErrValidation, input.PanelPowerW)
	}
	if input.CostPerPanel < 0 || input.FixedCost < 0 {
		return Output{}, fmt.Errorf("%w: system cost must not be negative", calc.ErrValidation)
	}
	if !input.Objective.IsValid() {
		return Output{}, fmt.Errorf("%w: unknown objective %d", calc.ErrValidation, input.Objective)
	}

	counts := candidates(input.MinPanels, input.MaxPanels, input.Step)
	if len(counts) == 0 {
		return Output{}, fmt.Errorf("%w: no candidates between %d and %d panels", calc.ErrValidation, input.MinPanels, input.MaxPanels)
	}

	result := make([]Candidate, len(counts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, n := range counts {
		g.Go(func() error {
			c, err := costForCandidate(ctx, sim, input, n)
			if err != nil {
				return fmt.Errorf("candidate with %d panels: %w", n, err)
			}
			result[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Output{}, err
	}

	best := result[0]
	for _, c := range result[1:] {
		if better(input.Objective, c, best) {
			best = c
		}
	}

	return Output{Best: best, Candidates: result}, nil
}

func costForCandidate(ctx context.Context, sim *simulate.Simulator, input Input, panels int) (Candidate, error) {
	kwp := decimal.NewFromInt(int64(panels)).Mul(decimal.NewFromFloat(input.PanelPowerW)).Div(decimal.NewFromInt(1000))
	cost := input.SystemCost(panels)

	res, err := sim.Run(ctx, simulate.Input{
		Usage:          input.Usage,
		Production:     input.BaseProduction.Scale(kwp),
		UpfrontCost:    cost,
		PermittedPower: input.PermittedPower,
	})
	if err != nil {
		return Candidate{}, err
	}

	breakeven := maybe.None[int]()
	if res.Breakeven.IsValid() {
		breakeven = maybe.Some(int(res.Breakeven.Value()))
	}

	return Candidate{
		Panels:     panels,
		PowerKw:    kwp.InexactFloat64(),
		SystemCost: cost,
		Status:     res.Status,
		Breakeven:  breakeven,
		NetSavings: res.NetSavings(),
	}, nil
}

// better reports whether a beats b. Remaining ties go to the smaller system.
func better(objective Objective, a, b Candidate) bool {
	bySavings := func() int { return compareInt64(a.NetSavings, b.NetSavings) }
	byBreakeven := func() int {
		switch {
		case a.Breakeven.IsValid() && !b.Breakeven.IsValid():
			return 1
		case !a.Breakeven.IsValid() && b.Breakeven.IsValid():
			return -1
		case !a.Breakeven.IsValid():
			return 0
		default:
			return compareInt64(int64(b.Breakeven.Value()), int64(a.Breakeven.Value()))
		}
	}

	order := []func() int{bySavings, byBreakeven}
	if objective == ObjectiveEarliestBreakeven {
		slices.Reverse(order)
	}
	for _, cmp := range order {
		if c := cmp(); c != 0 {
			return c > 0
		}
	}
	return a.Panels < b.Panels
}

func compareInt64(a, b int64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
