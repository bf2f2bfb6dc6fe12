package calc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		fraction string
		expected Allocation
	}{
		{
			name:     "green and blue",
			quantity: "900",
			fraction: "0.9",
			expected: Allocation{
				GreenHigh: dec("315"), GreenLow: dec("35"),
				BlueHigh: dec("495"), BlueLow: dec("55"),
				RedHigh: dec("0"), RedLow: dec("0"),
			},
		},
		{
			name:     "zero",
			quantity: "0",
			fraction: "0.85",
			expected: Allocation{
				GreenHigh: dec("0"), GreenLow: dec("0"),
				BlueHigh: dec("0"), BlueLow: dec("0"),
				RedHigh: dec("0"), RedLow: dec("0"),
			},
		},
		{
			name:     "exactly green limit",
			quantity: "350",
			fraction: "1",
			expected: Allocation{
				GreenHigh: dec("350"), GreenLow: dec("0"),
				BlueHigh: dec("0"), BlueLow: dec("0"),
				RedHigh: dec("0"), RedLow: dec("0"),
			},
		},
		{
			name:     "all bands",
			quantity: "2000",
			fraction: "0.85",
			expected: Allocation{
				GreenHigh: dec("297.5"), GreenLow: dec("52.5"),
				BlueHigh: dec("1062.5"), BlueLow: dec("187.5"),
				RedHigh: dec("340"), RedLow: dec("60"),
			},
		},
		{
			name:     "low tariff only",
			quantity: "1700",
			fraction: "0",
			expected: Allocation{
				GreenHigh: dec("0"), GreenLow: dec("350"),
				BlueHigh: dec("0"), BlueLow: dec("1250"),
				RedHigh: dec("0"), RedLow: dec("100"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Allocate(dec(tt.quantity), dec(tt.fraction))
			check := func(field string, got, wanted decimal.Decimal) {
				if !got.Equal(wanted) {
					t.Errorf("got %s %s, wanted %s", field, got, wanted)
				}
			}
			check("green high", a.GreenHigh, tt.expected.GreenHigh)
			check("green low", a.GreenLow, tt.expected.GreenLow)
			check("blue high", a.BlueHigh, tt.expected.BlueHigh)
			check("blue low", a.BlueLow, tt.expected.BlueLow)
			check("red high", a.RedHigh, tt.expected.RedHigh)
			check("red low", a.RedLow, tt.expected.RedLow)
		})
	}
}

func TestAllocateSumsToQuantity(t *testing.T) {
	fractions := []string{"0", "0.1", "0.333", "0.5", "0.85", "0.9", "0.8714285714285714", "1"}
	for q := 0; q <= 4000; q += 37 {
		quantity := decimal.NewFromInt(int64(q)).Add(dec("0.25"))
		for _, f := range fractions {
			a := Allocate(quantity, dec(f))
			if !a.Total().Equal(quantity) {
				t.Errorf("got total %s, wanted %s (fraction %s)", a.Total(), quantity, f)
			}
			if !a.High().Add(a.Low()).Equal(quantity) {
				t.Errorf("got high+low %s, wanted %s (fraction %s)", a.High().Add(a.Low()), quantity, f)
			}
		}
	}
}

func TestAllocateCustomLimits(t *testing.T) {
	limits := BandLimits{Green: dec("350"), Blue: dec("1200")}
	a := limits.Allocate(dec("1500"), dec("1"))
	if !a.Blue().Equal(dec("850")) {
		t.Errorf("got blue %s, wanted 850", a.Blue())
	}
	if !a.Red().Equal(dec("300")) {
		t.Errorf("got red %s, wanted 300", a.Red())
	}
}
