package types

import (
	"fmt"
	"strconv"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/convert"
	"github.com/shopspring/decimal"
)

const MonthsPerYear = 12

// Monthly holds one kWh value per calendar month, index 0 is January.
type Monthly [MonthsPerYear]decimal.Decimal

func (m Monthly) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range m {
		sum = sum.Add(v)
	}
	return sum
}

// Month returns the value for calendar month 1-12.
func (m Monthly) Month(month int) decimal.Decimal {
	return m[month-1]
}

func (m Monthly) Float64s() []float64 {
	result := make([]float64, MonthsPerYear)
	for i, v := range m {
		result[i] = v.InexactFloat64()
	}
	return result
}

// NewMonthly validates that values has exactly twelve non-negative entries.
func NewMonthly(name string, values []decimal.Decimal) (Monthly, error) {
	var m Monthly
	if len(values) != MonthsPerYear {
		return m, fmt.Errorf("%w: %s must have %d months, got %d", calc.ErrValidation, name, MonthsPerYear, len(values))
	}
	for i, v := range values {
		if v.IsNegative() {
			return m, fmt.Errorf("%w: %s for month %d must not be negative, got %s", calc.ErrValidation, name, i+1, v)
		}
		m[i] = v
	}
	return m, nil
}

func MonthlyFromFloats(name string, values []float64) (Monthly, error) {
	d := make([]decimal.Decimal, len(values))
	for i, v := range values {
		var err error
		if d[i], err = convert.Decimal(fmt.Sprintf("%s for month %d", name, i+1), v); err != nil {
			return Monthly{}, err
		}
	}
	return NewMonthly(name, d)
}

// MonthlyFromKeyed accepts month keyed values ("1".."12") and requires every
// month to be present exactly once.
func MonthlyFromKeyed(name string, values map[string]float64) (Monthly, error) {
	var m Monthly
	if len(values) != MonthsPerYear {
		return m, fmt.Errorf("%w: %s must have %d months, got %d", calc.ErrValidation, name, MonthsPerYear, len(values))
	}
	ordered := make([]float64, MonthsPerYear)
	seen := make([]bool, MonthsPerYear)
	for key, v := range values {
		month, err := strconv.Atoi(key)
		if err != nil || month < 1 || month > MonthsPerYear {
			return m, fmt.Errorf("%w: %s has invalid month key %q", calc.ErrValidation, name, key)
		}
		if seen[month-1] {
			return m, fmt.Errorf("%w: %s has duplicate month %d", calc.ErrValidation, name, month)
		}
		seen[month-1] = true
		ordered[month-1] = v
	}
	return MonthlyFromFloats(name, ordered)
}

// UsageProfile is a customer's monthly consumption and the share of it that
// falls in high tariff hours.
type UsageProfile struct {
	months       Monthly
	highFraction decimal.Decimal
}

func NewUsageProfile(months Monthly, highFraction decimal.Decimal) (UsageProfile, error) {
	if highFraction.IsNegative() || highFraction.GreaterThan(decimal.NewFromInt(1)) {
		return UsageProfile{}, fmt.Errorf("%w: high tariff fraction must be within [0,1], got %s", calc.ErrValidation, highFraction)
	}
	if _, err := NewMonthly("usage", months[:]); err != nil {
		return UsageProfile{}, err
	}
	return UsageProfile{months: months, highFraction: highFraction}, nil
}

func (p UsageProfile) Months() Monthly                 { return p.months }
func (p UsageProfile) Month(month int) decimal.Decimal { return p.months.Month(month) }
func (p UsageProfile) Annual() decimal.Decimal         { return p.months.Sum() }
func (p UsageProfile) HighFraction() decimal.Decimal   { return p.highFraction }

// ProductionProfile is the expected monthly output of a PV system.
type ProductionProfile struct {
	months Monthly
}

func NewProductionProfile(months Monthly) (ProductionProfile, error) {
	if _, err := NewMonthly("production", months[:]); err != nil {
		return ProductionProfile{}, err
	}
	return ProductionProfile{months: months}, nil
}

func (p ProductionProfile) Months() Monthly                 { return p.months }
func (p ProductionProfile) Month(month int) decimal.Decimal { return p.months.Month(month) }
func (p ProductionProfile) Annual() decimal.Decimal         { return p.months.Sum() }

// PerKw divides the profile by the installed power without rounding, giving
// the production of 1 kWp.
func (p ProductionProfile) PerKw(peakKw decimal.Decimal) ProductionProfile {
	var base Monthly
	for i, v := range p.months {
		base[i] = v.Div(peakKw)
	}
	return ProductionProfile{months: base}
}

// Scale returns the profile multiplied by factor, rounded to whole kWh.
func (p ProductionProfile) Scale(factor decimal.Decimal) ProductionProfile {
	var scaled Monthly
	for i, v := range p.months {
		scaled[i] = v.Mul(factor).Round(0)
	}
	return ProductionProfile{months: scaled}
}
