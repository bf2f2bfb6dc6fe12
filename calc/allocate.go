package calc

import (
	"github.com/shopspring/decimal"
)

// Allocation is a quantity of energy split into progressive bands and
// high/low time-of-use portions.
type Allocation struct {
	GreenHigh decimal.Decimal `json:"greenHigh"`
	GreenLow  decimal.Decimal `json:"greenLow"`
	BlueHigh  decimal.Decimal `json:"blueHigh"`
	BlueLow   decimal.Decimal `json:"blueLow"`
	RedHigh   decimal.Decimal `json:"redHigh"`
	RedLow    decimal.Decimal `json:"redLow"`
}

func (a Allocation) Green() decimal.Decimal { return a.GreenHigh.Add(a.GreenLow) }
func (a Allocation) Blue() decimal.Decimal  { return a.BlueHigh.Add(a.BlueLow) }
func (a Allocation) Red() decimal.Decimal   { return a.RedHigh.Add(a.RedLow) }
func (a Allocation) High() decimal.Decimal  { return a.GreenHigh.Add(a.BlueHigh).Add(a.RedHigh) }
func (a Allocation) Low() decimal.Decimal   { return a.GreenLow.Add(a.BlueLow).Add(a.RedLow) }

func (a Allocation) Total() decimal.Decimal {
	return a.Green().Add(a.Blue()).Add(a.Red())
}

// Allocate splits quantity over the default 350/1600 kWh bands.
func Allocate(quantity, highFraction decimal.Decimal) Allocation {
	return DefaultBandLimits.Allocate(quantity, highFraction)
}

// Allocate splits quantity (>= 0) into green, blue and red bands and each
// band into a high part (band * highFraction) and a low part (the rest).
// The parts always sum exactly to quantity.
func (b BandLimits) Allocate(quantity, highFraction decimal.Decimal) Allocation {
	green := decimal.Min(quantity, b.Green)
	blue := decimal.Min(decimal.Max(quantity.Sub(b.Green), decimal.Zero), b.Blue.Sub(b.Green))
	red := decimal.Max(quantity.Sub(b.Blue), decimal.Zero)

	lowFraction := decimal.NewFromInt(1).Sub(highFraction)

	return Allocation{
		GreenHigh: green.Mul(highFraction),
		GreenLow:  green.Mul(lowFraction),
		BlueHigh:  blue.Mul(highFraction),
		BlueLow:   blue.Mul(lowFraction),
		RedHigh:   red.Mul(highFraction),
		RedLow:    red.Mul(lowFraction),
	}
}
