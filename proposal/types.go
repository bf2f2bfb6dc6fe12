package proposal

import (
	"github.com/icodeforyou/solarproposal-go/co2"
	"github.com/icodeforyou/solarproposal-go/convert"
	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/optimize"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
	"github.com/shopspring/decimal"
)

const DefaultHighFraction = 0.85

// Input is a customer request as it arrives from the API or a proposal file.
// Production is either given month by month or estimated from the roof
// layout at the location.
type Input struct {
	Customer       string              `json:"customer" yaml:"customer"`
	Address        string              `json:"address" yaml:"address"`
	City           string              `json:"city,omitempty" yaml:"city"`
	Location       *types.Location     `json:"location,omitempty" yaml:"location"`
	Usage          map[string]float64  `json:"usage" yaml:"usage"` // kWh keyed by month "1".."12"
	HighFraction   *float64            `json:"highFraction,omitempty" yaml:"high_fraction"`
	Production     map[string]float64  `json:"production,omitempty" yaml:"production"` // kWh keyed by month "1".."12"
	PanelPowerW    float64             `json:"panelPower,omitempty" yaml:"panel_power"`
	Surfaces       []types.RoofSurface `json:"surfaces,omitempty" yaml:"surfaces"`
	SystemCost     int64               `json:"systemCost" yaml:"system_cost"`
	PermittedPower *float64            `json:"permittedPower,omitempty" yaml:"permitted_power"` // kW, defaults to the tariff's
}

func (in Input) highFraction() (decimal.Decimal, error) {
	return convert.DecimalPtr("high tariff fraction", in.HighFraction, decimal.NewFromFloat(DefaultHighFraction))
}

func (in Input) permittedPower(fallback decimal.Decimal) (decimal.Decimal, error) {
	return convert.DecimalPtr("permitted power", in.PermittedPower, fallback)
}

// validateLayout rejects a location, panel power or roof surface that
// cannot be used in a calculation.
func (in Input) validateLayout() error {
	if in.Location != nil {
		if err := in.Location.Validate(); err != nil {
			return err
		}
	}
	return types.ProductionRequest{PanelPowerW: in.PanelPowerW, Surfaces: in.Surfaces}.Validate()
}

func (in Input) productionRequest(loc types.Location) types.ProductionRequest {
	return types.ProductionRequest{
		Location:    loc,
		PanelPowerW: in.PanelPowerW,
		Surfaces:    in.Surfaces,
	}
}

// Month is one simulated month of a proposal.
type Month struct {
	Index              months.Index `json:"index"`
	StandardCost       int64        `json:"standardCost"`
	SolarCost          int64        `json:"solarCost"`
	CumulativeStandard int64        `json:"cumulativeStandard"`
	CumulativeSolar    int64        `json:"cumulativeSolar"`
	CarriedCredit      float64      `json:"carriedCredit"` // kWh carried into the next month
}

type Summary struct {
	Customer          string    `json:"customer"`
	Address           string    `json:"address"`
	SystemCost        int64     `json:"systemCost"`
	PeakPowerKw       float64   `json:"peakPowerKw"`
	HighFraction      float64   `json:"highFraction"`
	AnnualUsage       float64   `json:"annualUsage"`
	AnnualProduction  float64   `json:"annualProduction"`
	MonthlyUsage      []float64 `json:"monthlyUsage"`
	MonthlyProduction []float64 `json:"monthlyProduction"`

	// First simulated year
	MonthlyBillsPreSolar  []int64 `json:"monthlyBillsPreSolar"`
	MonthlyBillsPostSolar []int64 `json:"monthlyBillsPostSolar"`
	AnnualCostPreSolar    int64   `json:"annualCostPreSolar"`
	AnnualCostPostSolar   int64   `json:"annualCostPostSolar"`
	AnnualSavings         int64   `json:"annualSavings"`

	HorizonMonths        int              `json:"horizonMonths"`
	Status               simulate.Status  `json:"status"`
	BreakevenMonths      maybe.Maybe[int] `json:"breakevenMonths"`
	BreakevenYears       int              `json:"breakevenYears"`
	BreakevenExtraMonths int              `json:"breakevenExtraMonths"`
	BreakevenText        string           `json:"breakevenText"`
	BreakevenTextEn      string           `json:"breakevenTextEn"`
	YearsInProfit        maybe.Maybe[int] `json:"yearsInProfit"`
	NetSavings           int64            `json:"netSavings"`

	SolarPercentage  float64 `json:"solarPercentage"`
	ImportPercentage float64 `json:"importPercentage"`

	CO2            co2.Equivalence          `json:"co2"`
	Recommendation *optimize.Recommendation `json:"recommendation,omitempty"`
	Years          []simulate.YearTotal     `json:"years"`
}

type Output struct {
	Id      int64   `json:"id,omitempty"`
	Summary Summary `json:"summary"`
	Months  []Month `json:"months"`
}
