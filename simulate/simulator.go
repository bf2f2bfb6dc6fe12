package simulate

import (
	"context"
	"fmt"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
	"github.com/shopspring/decimal"
)

// 25 years
const DefaultHorizonMonths = 300

// State is carried from one simulated month to the next.
type State struct {
	CumulativeStandard int64
	CumulativeSolar    int64
	Credit             decimal.Decimal // Export credit (kWh) carried into the next month
	Month              months.Index    // Last simulated month, 0 before the first step
	Status             Status
	Breakeven          maybe.Maybe[months.Index]
}

// NewState seeds the solar path with the upfront system cost.
func NewState(upfrontCost int64) State {
	return State{
		CumulativeSolar: upfrontCost,
		Credit:          decimal.Zero,
		Status:          StatusRunning,
		Breakeven:       maybe.None[months.Index](),
	}
}

type MonthInput struct {
	Usage          decimal.Decimal
	Production     decimal.Decimal
	HighFraction   decimal.Decimal
	PermittedPower decimal.Decimal
}

type MonthOutcome struct {
	Index              months.Index                `json:"index"`
	Standard           calc.StandardMonthResult    `json:"standard"`
	NetMetering        calc.NetMeteringMonthResult `json:"netMetering"`
	CumulativeStandard int64                       `json:"cumulativeStandard"`
	CumulativeSolar    int64                       `json:"cumulativeSolar"`
}

type Input struct {
	Usage          types.UsageProfile
	Production     types.ProductionProfile
	UpfrontCost    int64
	PermittedPower decimal.Decimal
}

type Simulator struct {
	standard    *calc.StandardBillCalculator
	netMetering *calc.NetMeteringBillCalculator
	horizon     int
}

func New(rates calc.TariffRates, horizonMonths int) (*Simulator, error) {
	if horizonMonths < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least one month, got %d", calc.ErrConfiguration, horizonMonths)
	}
	standard, err := calc.NewStandardBillCalculator(rates)
	if err != nil {
		return nil, err
	}
	netMetering, err := calc.NewNetMeteringBillCalculator(rates)
	if err != nil {
		return nil, err
	}
	return &Simulator{standard: standard, netMetering: netMetering, horizon: horizonMonths}, nil
}

func (s *Simulator) HorizonMonths() int {
	return s.horizon
}

func (s *Simulator) Rates() calc.TariffRates {
	return s.standard.Rates()
}

// Step simulates the month following state.Month. The returned state is a new
// value, the one passed in is left untouched.
func (s *Simulator) Step(state State, in MonthInput) (MonthOutcome, State, error) {
	idx := state.Month.Add(1)

	std, err := s.standard.Calculate(calc.StandardMonthInput{
		Month:          idx.Month(),
		YearOffset:     idx.YearOffset(),
		Usage:          in.Usage,
		HighFraction:   in.HighFraction,
		PermittedPower: in.PermittedPower,
	})
	if err != nil {
		return MonthOutcome{}, state, fmt.Errorf("standard bill for %s: %w", idx, err)
	}

	nm, err := s.netMetering.Calculate(calc.NetMeteringMonthInput{
		Month:          idx.Month(),
		YearOffset:     idx.YearOffset(),
		Usage:          in.Usage,
		Production:     in.Production,
		CarriedIn:      state.Credit,
		HighFraction:   in.HighFraction,
		PermittedPower: in.PermittedPower,
	})
	if err != nil {
		return MonthOutcome{}, state, fmt.Errorf("net metering bill for %s: %w", idx, err)
	}

	next := state
	next.Month = idx
	next.CumulativeStandard += std.Cost
	next.CumulativeSolar += nm.Cost
	next.Credit = nm.CarriedOut

	if next.Status == StatusRunning {
		if next.CumulativeSolar <= next.CumulativeStandard {
			next.Status = StatusFound
			next.Breakeven = maybe.Some(idx)
		} else if int(idx) >= s.horizon {
			next.Status = StatusExhausted
		}
	}

	return MonthOutcome{
		Index:              idx,
		Standard:           std,
		NetMetering:        nm,
		CumulativeStandard: next.CumulativeStandard,
		CumulativeSolar:    next.CumulativeSolar,
	}, next, nil
}

// Run folds Step over the whole horizon. The series always cover the full
// horizon, also after breakeven has been found.
func (s *Simulator) Run(ctx context.Context, in Input) (Result, error) {
	if in.UpfrontCost < 0 {
		return Result{}, fmt.Errorf("%w: upfront cost must not be negative, got %d", calc.ErrValidation, in.UpfrontCost)
	}

	state := NewState(in.UpfrontCost)
	outcomes := make([]MonthOutcome, 0, s.horizon)

	for i := 1; i <= s.horizon; i++ {
		if i%months.PerYear == 1 && ctx.Err() != nil {
			return Result{}, fmt.Errorf("simulation cancelled at month %d: %w", i, ctx.Err())
		}

		idx := months.Index(i)
		outcome, next, err := s.Step(state, MonthInput{
			Usage:          in.Usage.Month(idx.Month()),
			Production:     in.Production.Month(idx.Month()),
			HighFraction:   in.Usage.HighFraction(),
			PermittedPower: in.PermittedPower,
		})
		if err != nil {
			return Result{}, err
		}
		outcomes = append(outcomes, outcome)
		state = next
	}

	return Result{
		Status:      state.Status,
		Breakeven:   state.Breakeven,
		UpfrontCost: in.UpfrontCost,
		Months:      outcomes,
	}, nil
}
