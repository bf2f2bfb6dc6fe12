package calc

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func newNetMetering(t *testing.T) *NetMeteringBillCalculator {
	t.Helper()
	c, err := NewNetMeteringBillCalculator(DefaultTariffRates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNetMeteringBill(t *testing.T) {
	tests := []struct {
		name         string
		month        int
		yearOffset   int
		usage        string
		production   string
		carriedIn    string
		fraction     string
		selfConsumed string
		exported     string
		imported     string
		netHigh      string
		carriedOut   string
		cost         int64
	}{
		{"surplus carried", 1, 0, "900", "1100", "0", "0.9", "440", "660", "370", "0", "200", 4083},
		{"credit reset month", 3, 0, "900", "1100", "300", "0.9", "440", "660", "370", "0", "0", 4083},
		{"small production", 7, 0, "900", "200", "0", "0.9", "80", "120", "730", "610", "0", 10518},
		{"credit consumed", 2, 0, "900", "100", "500", "0.9", "40", "60", "770", "210", "0", 6665},
		{"no production", 5, 0, "900", "0", "0", "0.9", "0", "0", "810", "810", "0", 12974},
		{"high tariff only second year", 6, 1, "1000", "300", "0", "1", "120", "180", "880", "700", "0", 12306},
	}

	c := newNetMetering(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Calculate(NetMeteringMonthInput{
				Month:          tt.month,
				YearOffset:     tt.yearOffset,
				Usage:          dec(tt.usage),
				Production:     dec(tt.production),
				CarriedIn:      dec(tt.carriedIn),
				HighFraction:   dec(tt.fraction),
				PermittedPower: dec("11.4"),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			check := func(field string, got decimal.Decimal, wanted string) {
				if !got.Equal(dec(wanted)) {
					t.Errorf("got %s %s, wanted %s", field, got, wanted)
				}
			}
			check("self consumed", res.SelfConsumed, tt.selfConsumed)
			check("exported", res.Exported, tt.exported)
			check("imported", res.Imported, tt.imported)
			check("net high", res.NetBillableHigh, tt.netHigh)
			check("carried out", res.CarriedOut, tt.carriedOut)
			if res.Cost != tt.cost {
				t.Errorf("got cost %d, wanted %d", res.Cost, tt.cost)
			}
		})
	}
}

func TestNetMeteringCarriedOutNeverNegative(t *testing.T) {
	c := newNetMetering(t)
	for month := 1; month <= 12; month++ {
		for usage := 0; usage <= 2400; usage += 300 {
			for production := 0; production <= 2400; production += 400 {
				res, err := c.Calculate(NetMeteringMonthInput{
					Month:          month,
					Usage:          decimal.NewFromInt(int64(usage)),
					Production:     decimal.NewFromInt(int64(production)),
					CarriedIn:      dec("150"),
					HighFraction:   dec("0.85"),
					PermittedPower: dec("11.4"),
				})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.CarriedOut.IsNegative() || res.Exported.IsNegative() || res.Imported.IsNegative() {
					t.Errorf("got negative quantities for usage %d, production %d: %+v", usage, production, res)
				}
				if res.Cost < 0 {
					t.Errorf("got negative cost %d", res.Cost)
				}
			}
		}
	}
}

func TestNetMeteringResetMonthConfigurable(t *testing.T) {
	rates := DefaultTariffRates()
	rates.CreditResetMonth = 0
	c, err := NewNetMeteringBillCalculator(rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := c.Calculate(NetMeteringMonthInput{
		Month: 3, Usage: dec("900"), Production: dec("1100"), CarriedIn: dec("0"),
		HighFraction: dec("0.9"), PermittedPower: dec("11.4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.CarriedOut.Equal(dec("200")) {
		t.Errorf("got carried out %s, wanted 200", res.CarriedOut)
	}
}

func TestNetMeteringIdempotent(t *testing.T) {
	c := newNetMetering(t)
	in := NetMeteringMonthInput{
		Month: 8, YearOffset: 4, Usage: dec("640"), Production: dec("910"), CarriedIn: dec("75"),
		HighFraction: dec("0.85"), PermittedPower: dec("11.4"),
	}
	a, err := c.Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := c.Calculate(in)
	if a.Cost != b.Cost || !a.CarriedOut.Equal(b.CarriedOut) {
		t.Errorf("got (%d, %s) and (%d, %s) for identical input", a.Cost, a.CarriedOut, b.Cost, b.CarriedOut)
	}
}

func TestNetMeteringValidation(t *testing.T) {
	c := newNetMetering(t)
	valid := NetMeteringMonthInput{
		Month: 1, Usage: dec("100"), Production: dec("100"), CarriedIn: dec("0"),
		HighFraction: dec("0.5"), PermittedPower: dec("11.4"),
	}

	tests := []struct {
		name   string
		mutate func(in *NetMeteringMonthInput)
	}{
		{"negative usage", func(in *NetMeteringMonthInput) { in.Usage = dec("-1") }},
		{"negative production", func(in *NetMeteringMonthInput) { in.Production = dec("-1") }},
		{"negative credit", func(in *NetMeteringMonthInput) { in.CarriedIn = dec("-1") }},
		{"fraction above one", func(in *NetMeteringMonthInput) { in.HighFraction = dec("2") }},
		{"month out of range", func(in *NetMeteringMonthInput) { in.Month = 14 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := c.Calculate(in); !errors.Is(err, ErrValidation) {
				t.Errorf("got error %v, wanted %v", err, ErrValidation)
			}
		})
	}
}

func TestNetHighFraction(t *testing.T) {
	tests := []struct {
		name    string
		netHigh string
		netLow  string
		wanted  string
	}{
		{"nothing billable", "0", "0", "0"},
		{"no high usage", "0", "90", "0"},
		{"no low usage", "120", "0", "1"},
		{"both", "30", "90", "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetHighFraction(dec(tt.netHigh), dec(tt.netLow))
			if !got.Equal(dec(tt.wanted)) {
				t.Errorf("got %s, wanted %s", got, tt.wanted)
			}
		})
	}
}
