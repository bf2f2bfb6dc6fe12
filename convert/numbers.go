package convert

import (
	"fmt"
	"math"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/shopspring/decimal"
)

func TwoDecimals(number float64) float64 {
	return RoundFloat64(number, 2)
}

func RoundFloat64(number float64, decimals int) float64 {
	return math.Round(number*math.Pow10(int(decimals))) / math.Pow10(int(decimals))
}

// Percentage returns part of whole in percent, capped at 100.
// A zero whole gives 0.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return min(100, part/whole*100)
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Decimal converts a float taken from a request body. NaN and infinities
// are validation errors.
func Decimal(name string, f float64) (decimal.Decimal, error) {
	if !IsFinite(f) {
		return decimal.Zero, fmt.Errorf("%w: %s must be a finite number, got %v", calc.ErrValidation, name, f)
	}
	return decimal.NewFromFloat(f), nil
}

// DecimalPtr converts an optional float, nil gives fallback.
func DecimalPtr(name string, f *float64, fallback decimal.Decimal) (decimal.Decimal, error) {
	if f == nil {
		return fallback, nil
	}
	return Decimal(name, *f)
}

func Float64(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
