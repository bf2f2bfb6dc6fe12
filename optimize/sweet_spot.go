package optimize

import (
	"fmt"
	"math"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/convert"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/shopspring/decimal"
)

const (
	minCoverage = 0.85
	maxCoverage = 1.10
)

type Range[T any] struct {
	Min     T `json:"min"`
	Optimal T `json:"optimal"`
	Max     T `json:"max"`
}

type Recommendation struct {
	Panels             Range[int]     `json:"panels"`
	PowerKw            Range[float64] `json:"powerKw"`
	AnnualBlueRedUsage float64        `json:"annualBlueRedUsage"` // kWh of day usage above the green band
}

// SweetSpot sizes a system to produce the high tariff usage that falls
// above greenLimit during a year. Everything in the green band is cheap
// enough not to be worth covering.
func SweetSpot(usage types.UsageProfile, greenLimit decimal.Decimal, productionPerKwp, panelPowerW float64) (Recommendation, error) {
	if !(productionPerKwp > 0) || math.IsInf(productionPerKwp, 1) {
		return Recommendation{}, fmt.Errorf("%w: production per kWp must be positive, got %f", calc.ErrValidation, productionPerKwp)
	}
	if !(panelPowerW > 0) || math.IsInf(panelPowerW, 1) {
		return Recommendation{}, fmt.Errorf("%w: panel power must be positive, got %f", calc.ErrValidation, panelPowerW)
	}

	green := greenLimit.InexactFloat64()
	fraction := usage.HighFraction().InexactFloat64()

	blueRed := 0.0
	for month := 1; month <= types.MonthsPerYear; month++ {
		dayUsage := usage.Month(month).InexactFloat64() * fraction
		blueRed += max(0, dayUsage-green)
	}

	optimalKwp := blueRed / productionPerKwp
	minKwp := optimalKwp * minCoverage
	maxKwp := optimalKwp * maxCoverage

	panels := func(kwp float64, round func(float64) float64) int {
		return max(1, int(round(kwp*1000/panelPowerW)))
	}

	return Recommendation{
		Panels: Range[int]{
			Min:     panels(minKwp, math.Floor),
			Optimal: panels(optimalKwp, math.Round),
			Max:     panels(maxKwp, math.Ceil),
		},
		PowerKw: Range[float64]{
			Min:     convert.RoundFloat64(minKwp, 1),
			Optimal: convert.RoundFloat64(optimalKwp, 1),
			Max:     convert.RoundFloat64(maxKwp, 1),
		},
		AnnualBlueRedUsage: blueRed,
	}, nil
}
