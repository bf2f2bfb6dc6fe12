package calc

import (
	"github.com/shopspring/decimal"
)

// Precision used when a negative year offset requires a division.
const indexationDivPrecision = 16

// IndexedRate returns base * (1 + escalation)^yearOffset. Negative offsets
// index backwards in time.
func IndexedRate(base decimal.Decimal, yearOffset int, escalation decimal.Decimal) decimal.Decimal {
	return base.Mul(IndexationFactor(yearOffset, escalation))
}

// IndexationFactor returns (1 + escalation)^yearOffset. Positive offsets are
// exact, negative offsets are rounded to 16 decimal places.
func IndexationFactor(yearOffset int, escalation decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	growth := one.Add(escalation)

	n := yearOffset
	if n < 0 {
		n = -n
	}

	factor := one
	for range n {
		factor = factor.Mul(growth)
	}

	if yearOffset < 0 {
		if factor.IsZero() {
			return decimal.Zero
		}
		return one.DivRound(factor, indexationDivPrecision)
	}
	return factor
}
