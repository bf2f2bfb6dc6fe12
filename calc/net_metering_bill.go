package calc

import (
	"github.com/shopspring/decimal"
)

var (
	// Share of the monthly production assumed to be consumed on the spot...
	SelfConsumptionProductionShare = decimal.RequireFromString("0.4")
	// ...capped at this share of the high tariff usage.
	SelfConsumptionHighUsageShare = decimal.RequireFromString("0.6")
)

type NetMeteringMonthInput struct {
	Month          int
	YearOffset     int
	Usage          decimal.Decimal // kWh
	Production     decimal.Decimal // kWh
	CarriedIn      decimal.Decimal // Export credit (kWh) carried from the previous month
	HighFraction   decimal.Decimal
	PermittedPower decimal.Decimal
}

type NetMeteringMonthResult struct {
	Month           int             `json:"month"`
	YearOffset      int             `json:"yearOffset"`
	Usage           decimal.Decimal `json:"usage"`
	Production      decimal.Decimal `json:"production"`
	CarriedIn       decimal.Decimal `json:"carriedIn"`
	SelfConsumed    decimal.Decimal `json:"selfConsumed"`
	Imported        decimal.Decimal `json:"imported"`
	Exported        decimal.Decimal `json:"exported"`
	NetBillableHigh decimal.Decimal `json:"netBillableHigh"`
	NetLow          decimal.Decimal `json:"netLow"`
	NetHighFraction decimal.Decimal `json:"netHighFraction"`
	SurchargeKWh    decimal.Decimal `json:"surchargeKWh"`
	Allocation      Allocation      `json:"allocation"`
	Charge          Charge          `json:"charge"`
	Cost            int64           `json:"cost"`
	CarriedOut      decimal.Decimal `json:"carriedOut"`
}

func (r NetMeteringMonthResult) NetTotal() decimal.Decimal {
	return r.NetBillableHigh.Add(r.NetLow)
}

// NetMeteringBillCalculator prices a month where on-site production offsets
// consumption and unused export is carried forward as credit.
type NetMeteringBillCalculator struct {
	rates TariffRates
}

func NewNetMeteringBillCalculator(rates TariffRates) (*NetMeteringBillCalculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &NetMeteringBillCalculator{rates: rates}, nil
}

func (c *NetMeteringBillCalculator) Rates() TariffRates {
	return c.rates
}

func (c *NetMeteringBillCalculator) Calculate(in NetMeteringMonthInput) (NetMeteringMonthResult, error) {
	if err := validateMonth(in.Month); err != nil {
		return NetMeteringMonthResult{}, err
	}
	if err := validateNonNegative("usage", in.Usage); err != nil {
		return NetMeteringMonthResult{}, err
	}
	if err := validateNonNegative("production", in.Production); err != nil {
		return NetMeteringMonthResult{}, err
	}
	if err := validateNonNegative("carried in credit", in.CarriedIn); err != nil {
		return NetMeteringMonthResult{}, err
	}
	if err := validateFraction(in.HighFraction); err != nil {
		return NetMeteringMonthResult{}, err
	}
	if err := validateNonNegative("permitted power", in.PermittedPower); err != nil {
		return NetMeteringMonthResult{}, err
	}

	r := c.rates
	one := decimal.NewFromInt(1)

	highUsage := in.Usage.Mul(in.HighFraction)
	lowUsage := in.Usage.Mul(one.Sub(in.HighFraction))

	selfConsumed := decimal.Min(
		in.Production.Mul(SelfConsumptionProductionShare),
		highUsage.Mul(SelfConsumptionHighUsageShare))

	// Both are >= 0 for validated inputs, the clamp only pins that down.
	exported := decimal.Max(in.Production.Sub(selfConsumed), decimal.Zero)
	imported := decimal.Max(highUsage.Sub(selfConsumed), decimal.Zero)

	netHigh := decimal.Max(imported.Sub(exported).Sub(in.CarriedIn), decimal.Zero)

	carriedOut := decimal.Max(in.CarriedIn.Add(in.Production).Sub(in.Usage), decimal.Zero)
	if r.resetsCredit(in.Month) {
		carriedOut = decimal.Zero
	}

	factor := IndexationFactor(in.YearOffset, r.Escalation)

	surchargeKWh := imported.Sub(netHigh)
	surcharge := surchargeKWh.Mul(r.DistributionSurcharge).Mul(factor)

	netTotal := netHigh.Add(lowUsage)
	netFraction := NetHighFraction(netHigh, lowUsage)
	alloc := r.Bands.Allocate(netTotal, netFraction)

	base := r.energyCost(alloc, factor).
		Add(r.fixedCharges(in.PermittedPower)).
		Add(exported.Mul(r.SubsidyFee)).
		Add(exported.Mul(r.EfficiencyFee)).
		Add(surcharge)

	charge := r.applyTaxes(base)

	return NetMeteringMonthResult{
		Month:           in.Month,
		YearOffset:      in.YearOffset,
		Usage:           in.Usage,
		Production:      in.Production,
		CarriedIn:       in.CarriedIn,
		SelfConsumed:    selfConsumed,
		Imported:        imported,
		Exported:        exported,
		NetBillableHigh: netHigh,
		NetLow:          lowUsage,
		NetHighFraction: netFraction,
		SurchargeKWh:    surchargeKWh,
		Allocation:      alloc,
		Charge:          charge,
		Cost:            charge.Total,
		CarriedOut:      carriedOut,
	}, nil
}

// NetHighFraction is the high tariff share of the net billable usage. Nothing
// billable in high tariff gives 0, nothing in low tariff gives 1.
func NetHighFraction(netHigh, netLow decimal.Decimal) decimal.Decimal {
	switch {
	case netHigh.IsZero():
		return decimal.Zero
	case netLow.IsZero():
		return decimal.NewFromInt(1)
	default:
		return netHigh.Div(netHigh.Add(netLow))
	}
}
