package optimize

import (
	"errors"
	"math"
	"testing"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/shopspring/decimal"
)

func usageProfile(t *testing.T, usage []float64, fraction string) types.UsageProfile {
	t.Helper()
	m, err := types.MonthlyFromFloats("usage", usage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := types.NewUsageProfile(m, decimal.RequireFromString(fraction))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func flat(v float64) []float64 {
	m := make([]float64, types.MonthsPerYear)
	for i := range m {
		m[i] = v
	}
	return m
}

func TestSweetSpot(t *testing.T) {
	rec, err := SweetSpot(usageProfile(t, flat(900), "0.9"), calc.DefaultBandLimits.Green, 1200, 450)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.AnnualBlueRedUsage != 5520 {
		t.Errorf("got blue/red usage %f, wanted 5520", rec.AnnualBlueRedUsage)
	}
	if rec.PowerKw != (Range[float64]{Min: 3.9, Optimal: 4.6, Max: 5.1}) {
		t.Errorf("got power %+v, wanted 3.9/4.6/5.1", rec.PowerKw)
	}
	if rec.Panels != (Range[int]{Min: 8, Optimal: 10, Max: 12}) {
		t.Errorf("got panels %+v, wanted 8/10/12", rec.Panels)
	}
}

func TestSweetSpotConfiguredGreenLimit(t *testing.T) {
	rec, err := SweetSpot(usageProfile(t, flat(900), "0.9"), decimal.NewFromInt(500), 1200, 450)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.AnnualBlueRedUsage != 3720 {
		t.Errorf("got blue/red usage %f, wanted 3720", rec.AnnualBlueRedUsage)
	}
	if rec.PowerKw != (Range[float64]{Min: 2.6, Optimal: 3.1, Max: 3.4}) {
		t.Errorf("got power %+v, wanted 2.6/3.1/3.4", rec.PowerKw)
	}
	if rec.Panels != (Range[int]{Min: 5, Optimal: 7, Max: 8}) {
		t.Errorf("got panels %+v, wanted 5/7/8", rec.Panels)
	}
}

func TestSweetSpotGreenOnlyUsage(t *testing.T) {
	rec, err := SweetSpot(usageProfile(t, flat(300), "0.9"), calc.DefaultBandLimits.Green, 1200, 450)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.AnnualBlueRedUsage != 0 {
		t.Errorf("got blue/red usage %f, wanted 0", rec.AnnualBlueRedUsage)
	}
	if rec.Panels.Min != 1 || rec.Panels.Optimal != 1 || rec.Panels.Max != 1 {
		t.Errorf("got panels %+v, wanted at least one panel", rec.Panels)
	}
}

func TestSweetSpotRejects(t *testing.T) {
	usage := usageProfile(t, flat(900), "0.9")
	tests := []struct {
		perKwp, panelPower float64
	}{
		{0, 450},
		{1200, -1},
		{math.NaN(), 450},
		{1200, math.Inf(1)},
	}
	for _, tt := range tests {
		if _, err := SweetSpot(usage, calc.DefaultBandLimits.Green, tt.perKwp, tt.panelPower); !errors.Is(err, calc.ErrValidation) {
			t.Errorf("SweetSpot(%v, %v) got error %v, wanted %v", tt.perKwp, tt.panelPower, err, calc.ErrValidation)
		}
	}
}
