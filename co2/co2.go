package co2

import "math"

const (
	CoalShare               = 0.7  // Share of grid electricity produced from coal
	KgPerKWhCoal            = 0.9  // kg CO2 per kWh from coal
	TreeAbsorptionKgPerYear = 50.0 // kg CO2 absorbed by an adult tree per year
	CarKgPer100Km           = 13.4 // kg CO2 emitted by a car per 100 km
)

type Equivalence struct {
	PreSolarKg      float64 `json:"preSolarKg"`
	PostSolarKg     float64 `json:"postSolarKg"`
	ReductionKg     int64   `json:"reductionKg"`
	TreesEquivalent int64   `json:"treesEquivalent"`
	CarKilometres   int64   `json:"carKilometres"`
}

// Calculate estimates the yearly CO2 avoided by replacing grid electricity
// with annualProduction kWh of solar energy.
func Calculate(annualUsage, annualProduction float64) Equivalence {
	pre := annualUsage * CoalShare * KgPerKWhCoal
	post := (annualUsage - annualProduction) * CoalShare * KgPerKWhCoal
	reduction := math.Round(pre - post)

	return Equivalence{
		PreSolarKg:      pre,
		PostSolarKg:     post,
		ReductionKg:     int64(reduction),
		TreesEquivalent: int64(math.Round(reduction / TreeAbsorptionKgPerYear)),
		CarKilometres:   int64(math.Round(reduction / CarKgPer100Km * 100)),
	}
}
