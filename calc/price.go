package calc

import (
	"github.com/shopspring/decimal"
)

// Charge is the pre-tax amount of a bill followed by the tax layers.
type Charge struct {
	Base   decimal.Decimal `json:"base"`
	Excise decimal.Decimal `json:"excise"`
	Vat    decimal.Decimal `json:"vat"`
	Total  int64           `json:"total"`
}

// energyCost prices the six cells of an allocation at rates indexed by factor.
func (r TariffRates) energyCost(a Allocation, factor decimal.Decimal) decimal.Decimal {
	return a.GreenHigh.Mul(r.GreenHigh).
		Add(a.GreenLow.Mul(r.GreenLow)).
		Add(a.BlueHigh.Mul(r.BlueHigh)).
		Add(a.BlueLow.Mul(r.BlueLow)).
		Add(a.RedHigh.Mul(r.RedHigh)).
		Add(a.RedLow.Mul(r.RedLow)).
		Mul(factor)
}

func (r TariffRates) fixedCharges(permittedPower decimal.Decimal) decimal.Decimal {
	return permittedPower.Mul(r.PermittedPowerRate).Add(r.SupplierFee)
}

// applyTaxes layers excise and VAT on base, adds the fixed monthly tax and
// truncates toward zero to whole currency units.
func (r TariffRates) applyTaxes(base decimal.Decimal) Charge {
	excise := base.Mul(r.ExciseRate)
	vat := base.Add(excise).Mul(r.VatRate)
	return Charge{
		Base:   base,
		Excise: excise,
		Vat:    vat,
		Total:  base.Add(excise).Add(vat).Add(r.FixedTax).IntPart(),
	}
}
