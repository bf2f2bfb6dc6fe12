package calc

import (
	"github.com/shopspring/decimal"
)

// DefaultCreditResetMonth is the calendar month in which carried export
// credit is forfeited.
const DefaultCreditResetMonth = 3

// BandLimits holds the cumulative upper limits (kWh) of the green and blue
// bands. Everything above Blue falls into the red band.
type BandLimits struct {
	Green decimal.Decimal
	Blue  decimal.Decimal
}

var DefaultBandLimits = BandLimits{
	Green: decimal.NewFromInt(350),
	Blue:  decimal.NewFromInt(1600),
}

func (b BandLimits) validate() error {
	if !b.Green.IsPositive() {
		return configurationError("green band limit must be positive, got %s", b.Green)
	}
	if !b.Blue.GreaterThan(b.Green) {
		return configurationError("blue band limit %s must be greater than green band limit %s", b.Blue, b.Green)
	}
	return nil
}

// TariffRates is an immutable rate schedule. Energy rates are per kWh,
// the permitted power rate is per kW and month, fees and taxes are per month.
type TariffRates struct {
	PermittedPowerRate    decimal.Decimal
	SupplierFee           decimal.Decimal
	GreenHigh             decimal.Decimal
	GreenLow              decimal.Decimal
	BlueHigh              decimal.Decimal
	BlueLow               decimal.Decimal
	RedHigh               decimal.Decimal
	RedLow                decimal.Decimal
	SubsidyFee            decimal.Decimal
	EfficiencyFee         decimal.Decimal
	DistributionSurcharge decimal.Decimal
	Escalation            decimal.Decimal // Yearly increase of energy rates, 0.05 = 5%
	ExciseRate            decimal.Decimal
	VatRate               decimal.Decimal
	FixedTax              decimal.Decimal
	PermittedPower        decimal.Decimal // Contracted permitted power in kW
	Bands                 BandLimits
	CreditResetMonth      int // 1-12, or 0 when credit is never forfeited
}

// DefaultTariffRates returns the residential schedule (RSD) the engine was
// calibrated against.
func DefaultTariffRates() TariffRates {
	return TariffRates{
		PermittedPowerRate:    decimal.RequireFromString("54.258"),
		SupplierFee:           decimal.RequireFromString("146.521"),
		GreenHigh:             decimal.RequireFromString("8.336"),
		GreenLow:              decimal.RequireFromString("2.084"),
		BlueHigh:              decimal.RequireFromString("12.504"),
		BlueLow:               decimal.RequireFromString("3.126"),
		RedHigh:               decimal.RequireFromString("25.008"),
		RedLow:                decimal.RequireFromString("6.252"),
		SubsidyFee:            decimal.RequireFromString("0.801"),
		EfficiencyFee:         decimal.RequireFromString("0.015"),
		DistributionSurcharge: decimal.RequireFromString("3.897"),
		Escalation:            decimal.RequireFromString("0.05"),
		ExciseRate:            decimal.RequireFromString("0.075"),
		VatRate:               decimal.RequireFromString("0.2"),
		FixedTax:              decimal.NewFromInt(300),
		PermittedPower:        decimal.RequireFromString("11.4"),
		Bands:                 DefaultBandLimits,
		CreditResetMonth:      DefaultCreditResetMonth,
	}
}

// Validate reports the first malformed field wrapped in ErrConfiguration.
func (r TariffRates) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"permitted_power_rate", r.PermittedPowerRate},
		{"supplier_fee", r.SupplierFee},
		{"green_high", r.GreenHigh},
		{"green_low", r.GreenLow},
		{"blue_high", r.BlueHigh},
		{"blue_low", r.BlueLow},
		{"red_high", r.RedHigh},
		{"red_low", r.RedLow},
		{"subsidy_fee", r.SubsidyFee},
		{"efficiency_fee", r.EfficiencyFee},
		{"distribution_surcharge", r.DistributionSurcharge},
		{"escalation", r.Escalation},
		{"excise_rate", r.ExciseRate},
		{"vat_rate", r.VatRate},
		{"fixed_tax", r.FixedTax},
		{"permitted_power", r.PermittedPower},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return configurationError("%s must not be negative, got %s", f.name, f.value)
		}
	}

	if r.CreditResetMonth < 0 || r.CreditResetMonth > 12 {
		return configurationError("credit reset month must be 0 (disabled) or 1-12, got %d", r.CreditResetMonth)
	}

	return r.Bands.validate()
}

func (r TariffRates) resetsCredit(month int) bool {
	return r.CreditResetMonth != 0 && month == r.CreditResetMonth
}
