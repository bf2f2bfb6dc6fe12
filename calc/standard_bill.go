package calc

import (
	"github.com/shopspring/decimal"
)

type StandardMonthInput struct {
	Month          int             // Calendar month 1-12
	YearOffset     int             // Years from the base year, may be negative
	Usage          decimal.Decimal // kWh
	HighFraction   decimal.Decimal // Share of usage in high tariff hours, 0-1
	PermittedPower decimal.Decimal // kW
}

type StandardMonthResult struct {
	Month      int             `json:"month"`
	YearOffset int             `json:"yearOffset"`
	Usage      decimal.Decimal `json:"usage"`
	Allocation Allocation      `json:"allocation"`
	Charge     Charge          `json:"charge"`
	Cost       int64           `json:"cost"`
}

// StandardBillCalculator prices a month of pure grid consumption.
type StandardBillCalculator struct {
	rates TariffRates
}

func NewStandardBillCalculator(rates TariffRates) (*StandardBillCalculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &StandardBillCalculator{rates: rates}, nil
}

func (c *StandardBillCalculator) Rates() TariffRates {
	return c.rates
}

func (c *StandardBillCalculator) Calculate(in StandardMonthInput) (StandardMonthResult, error) {
	if err := validateMonth(in.Month); err != nil {
		return StandardMonthResult{}, err
	}
	if err := validateNonNegative("usage", in.Usage); err != nil {
		return StandardMonthResult{}, err
	}
	if err := validateFraction(in.HighFraction); err != nil {
		return StandardMonthResult{}, err
	}
	if err := validateNonNegative("permitted power", in.PermittedPower); err != nil {
		return StandardMonthResult{}, err
	}

	r := c.rates
	factor := IndexationFactor(in.YearOffset, r.Escalation)
	alloc := r.Bands.Allocate(in.Usage, in.HighFraction)

	base := r.energyCost(alloc, factor).
		Add(r.fixedCharges(in.PermittedPower)).
		Add(in.Usage.Mul(r.SubsidyFee)).
		Add(in.Usage.Mul(r.EfficiencyFee))

	charge := r.applyTaxes(base)

	return StandardMonthResult{
		Month:      in.Month,
		YearOffset: in.YearOffset,
		Usage:      in.Usage,
		Allocation: alloc,
		Charge:     charge,
		Cost:       charge.Total,
	}, nil
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return validationError("month must be 1-12, got %d", month)
	}
	return nil
}

func validateNonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return validationError("%s must not be negative, got %s", name, v)
	}
	return nil
}

func validateFraction(f decimal.Decimal) error {
	if f.IsNegative() || f.GreaterThan(decimal.NewFromInt(1)) {
		return validationError("high tariff fraction must be within [0,1], got %s", f)
	}
	return nil
}
