package proposal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/co2"
	"github.com/icodeforyou/solarproposal-go/convert"
	"github.com/icodeforyou/solarproposal-go/database"
	"github.com/icodeforyou/solarproposal-go/metrics"
	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/optimize"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/icodeforyou/solarproposal-go/slice"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
	"github.com/shopspring/decimal"
)

type Store interface {
	SaveProposal(ctx context.Context, p database.ProposalRow, months []database.ProposalMonthRow) (int64, error)
}

type Publisher interface {
	Publish(ctx context.Context, id int64, summary Summary) error
}

// Service turns a customer request into a priced proposal. Estimator,
// store and publisher are optional.
type Service struct {
	logger    *slog.Logger
	sim       *simulate.Simulator
	estimator types.ProductionEstimator
	store     Store
	publisher Publisher
}

func NewService(sim *simulate.Simulator, estimator types.ProductionEstimator, store Store, publisher Publisher) *Service {
	return &Service{
		logger:    slog.Default().With("module", "proposal"),
		sim:       sim,
		estimator: estimator,
		store:     store,
		publisher: publisher,
	}
}

func (s *Service) Run(ctx context.Context, in Input) (*Output, error) {
	if err := in.validateLayout(); err != nil {
		return nil, err
	}

	usage, err := usageProfile(in)
	if err != nil {
		return nil, err
	}

	production, err := s.productionProfile(ctx, in)
	if err != nil {
		return nil, err
	}

	permittedPower, err := in.permittedPower(s.sim.Rates().PermittedPower)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.sim.Run(ctx, simulate.Input{
		Usage:          usage,
		Production:     production,
		UpfrontCost:    in.SystemCost,
		PermittedPower: permittedPower,
	})
	if err != nil {
		metrics.ObserveSimulation("", time.Since(start))
		return nil, fmt.Errorf("simulating proposal: %w", err)
	}
	metrics.ObserveSimulation(res.Status.String(), time.Since(start))

	out := &Output{
		Summary: summarize(in, s.sim.Rates().Bands.Green, usage, production, res),
		Months:  MonthsFromResult(res),
	}

	s.logger.Info("proposal calculated",
		slog.String("customer", in.Customer),
		slog.String("status", res.Status.String()),
		slog.Any("breakeven", out.Summary.BreakevenMonths.Ptr()),
		slog.Int64("netSavings", out.Summary.NetSavings))

	if s.store != nil {
		id, err := s.save(ctx, in, out)
		if err != nil {
			return nil, err
		}
		out.Id = id
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, out.Id, out.Summary); err != nil {
			s.logger.Warn("failed to publish proposal", slog.Int64("id", out.Id), slog.Any("error", err))
		}
	}

	return out, nil
}

func usageProfile(in Input) (types.UsageProfile, error) {
	m, err := types.MonthlyFromKeyed("usage", in.Usage)
	if err != nil {
		return types.UsageProfile{}, err
	}
	highFraction, err := in.highFraction()
	if err != nil {
		return types.UsageProfile{}, err
	}
	return types.NewUsageProfile(m, highFraction)
}

func (s *Service) productionProfile(ctx context.Context, in Input) (types.ProductionProfile, error) {
	if len(in.Production) > 0 {
		m, err := types.MonthlyFromKeyed("production", in.Production)
		if err != nil {
			return types.ProductionProfile{}, err
		}
		return types.NewProductionProfile(m)
	}

	if s.estimator == nil {
		return types.ProductionProfile{}, fmt.Errorf("%w: monthly production is required when no estimator is configured", calc.ErrValidation)
	}

	loc, err := in.location()
	if err != nil {
		return types.ProductionProfile{}, err
	}

	p, err := s.estimator.EstimateProduction(ctx, in.productionRequest(loc))
	if err != nil {
		return types.ProductionProfile{}, fmt.Errorf("estimating production: %w", err)
	}
	return p, nil
}

func (in Input) location() (types.Location, error) {
	if in.Location != nil {
		return *in.Location, nil
	}
	if in.City != "" {
		if loc, ok := types.CityLocation(in.City); ok {
			return loc, nil
		}
		return types.Location{}, fmt.Errorf("%w: unknown city %q", calc.ErrValidation, in.City)
	}
	return types.Location{}, fmt.Errorf("%w: location or city is required to estimate production", calc.ErrValidation)
}

func summarize(in Input, greenLimit decimal.Decimal, usage types.UsageProfile, production types.ProductionProfile, res simulate.Result) Summary {
	firstYear := res.FirstYear()
	pre := slice.Map(firstYear, func(o simulate.MonthOutcome) int64 { return o.Standard.Cost })
	post := slice.Map(firstYear, func(o simulate.MonthOutcome) int64 { return o.NetMetering.Cost })
	annualPre := slice.Sum(pre)
	annualPost := slice.Sum(post)

	breakeven := maybe.None[int]()
	if res.Breakeven.IsValid() {
		breakeven = maybe.Some(int(res.Breakeven.Value()))
	}

	annualUsage := usage.Annual().InexactFloat64()
	annualProduction := production.Annual().InexactFloat64()
	solarPct := convert.TwoDecimals(convert.Percentage(annualProduction, annualUsage))

	peakKw := types.ProductionRequest{PanelPowerW: in.PanelPowerW, Surfaces: in.Surfaces}.PeakPowerKw()

	s := Summary{
		Customer:              in.Customer,
		Address:               in.Address,
		SystemCost:            in.SystemCost,
		PeakPowerKw:           peakKw,
		HighFraction:          usage.HighFraction().InexactFloat64(),
		AnnualUsage:           annualUsage,
		AnnualProduction:      annualProduction,
		MonthlyUsage:          usage.Months().Float64s(),
		MonthlyProduction:     production.Months().Float64s(),
		MonthlyBillsPreSolar:  pre,
		MonthlyBillsPostSolar: post,
		AnnualCostPreSolar:    annualPre,
		AnnualCostPostSolar:   annualPost,
		AnnualSavings:         annualPre - annualPost,
		HorizonMonths:         res.HorizonMonths(),
		Status:                res.Status,
		BreakevenMonths:       breakeven,
		BreakevenText:         BreakevenText(breakeven, res.HorizonMonths(), LanguageSerbian),
		BreakevenTextEn:       BreakevenText(breakeven, res.HorizonMonths(), LanguageEnglish),
		YearsInProfit:         res.YearsInProfit(),
		NetSavings:            res.NetSavings(),
		SolarPercentage:       solarPct,
		ImportPercentage:      convert.TwoDecimals(100 - solarPct),
		CO2:                   co2.Calculate(annualUsage, annualProduction),
		Years:                 res.Years(),
	}
	if breakeven.IsValid() {
		s.BreakevenYears = breakeven.Value() / months.PerYear
		s.BreakevenExtraMonths = breakeven.Value() % months.PerYear
	}

	if peakKw > 0 && annualProduction > 0 {
		rec, err := optimize.SweetSpot(usage, greenLimit, annualProduction/peakKw, in.PanelPowerW)
		if err == nil {
			s.Recommendation = &rec
		}
	}

	return s
}

func MonthsFromResult(res simulate.Result) []Month {
	return slice.Map(res.Months, func(o simulate.MonthOutcome) Month {
		return Month{
			Index:              o.Index,
			StandardCost:       o.Standard.Cost,
			SolarCost:          o.NetMetering.Cost,
			CumulativeStandard: o.CumulativeStandard,
			CumulativeSolar:    o.CumulativeSolar,
			CarriedCredit:      o.NetMetering.CarriedOut.InexactFloat64(),
		}
	})
}

func MonthsFromRows(rows []database.ProposalMonthRow) []Month {
	return slice.Map(rows, func(r database.ProposalMonthRow) Month {
		return Month{
			Index:              months.Index(r.MonthIndex),
			StandardCost:       r.StandardCost,
			SolarCost:          r.SolarCost,
			CumulativeStandard: r.CumulativeStandard,
			CumulativeSolar:    r.CumulativeSolar,
			CarriedCredit:      r.CarriedCredit,
		}
	})
}

func (s *Service) save(ctx context.Context, in Input, out *Output) (int64, error) {
	input, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("encoding proposal input: %w", err)
	}
	summary, err := json.Marshal(out.Summary)
	if err != nil {
		return 0, fmt.Errorf("encoding proposal summary: %w", err)
	}

	row := database.ProposalRow{
		Customer:         in.Customer,
		Address:          in.Address,
		SystemCost:       in.SystemCost,
		AnnualUsage:      out.Summary.AnnualUsage,
		AnnualProduction: out.Summary.AnnualProduction,
		Status:           out.Summary.Status.String(),
		NetSavings:       out.Summary.NetSavings,
		Input:            string(input),
		Summary:          string(summary),
	}
	if b := out.Summary.BreakevenMonths; b.IsValid() {
		row.BreakevenMonth = sql.NullInt64{Int64: int64(b.Value()), Valid: true}
	}
	if y := out.Summary.YearsInProfit; y.IsValid() {
		row.YearsInProfit = sql.NullInt64{Int64: int64(y.Value()), Valid: true}
	}

	rows := slice.Map(out.Months, func(m Month) database.ProposalMonthRow {
		return database.ProposalMonthRow{
			MonthIndex:         int(m.Index),
			StandardCost:       m.StandardCost,
			SolarCost:          m.SolarCost,
			CumulativeStandard: m.CumulativeStandard,
			CumulativeSolar:    m.CumulativeSolar,
			CarriedCredit:      m.CarriedCredit,
		}
	})

	id, err := s.store.SaveProposal(ctx, row, rows)
	if err != nil {
		return 0, fmt.Errorf("storing proposal: %w", err)
	}
	return id, nil
}

// FromRows rebuilds a stored proposal.
func FromRows(row database.ProposalRow, months []database.ProposalMonthRow) (*Output, error) {
	var s Summary
	if err := json.Unmarshal([]byte(row.Summary), &s); err != nil {
		return nil, fmt.Errorf("decoding summary of proposal %d: %w", row.Id, err)
	}
	return &Output{Id: row.Id, Summary: s, Months: MonthsFromRows(months)}, nil
}
