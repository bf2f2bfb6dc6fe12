package proposal

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/optimize"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBase struct {
	loc     types.Location
	profile []float64
	err     error
}

func (b *fakeBase) BaseProductionPerKwp(_ context.Context, loc types.Location) (types.ProductionProfile, error) {
	b.loc = loc
	if b.err != nil {
		return types.ProductionProfile{}, b.err
	}
	m, err := types.MonthlyFromFloats("production", b.profile)
	if err != nil {
		return types.ProductionProfile{}, err
	}
	return types.NewProductionProfile(m)
}

var testCosts = SizingCosts{PanelPowerW: 450, CostPerPanel: 55000, FixedCost: 120000, MaxPanels: 12}

func sizingInput() Input {
	return Input{
		City:         "Novi Sad",
		Usage:        keyed(flat(900)),
		HighFraction: fraction(0.9),
	}
}

func TestSize(t *testing.T) {
	base := &fakeBase{profile: flat(100)}
	z := NewSizer(newSimulator(t), base, testCosts)

	out, err := z.Size(context.Background(), sizingInput(), optimize.ObjectiveNetSavings)
	require.NoError(t, err)

	assert.Equal(t, 45.2671, base.loc.Latitude)
	assert.Equal(t, 1200.0, out.ProductionPerKwp)
	assert.Equal(t, 5520.0, out.Recommendation.AnnualBlueRedUsage)
	assert.Equal(t, optimize.Range[int]{Min: 8, Optimal: 10, Max: 12}, out.Recommendation.Panels)
	assert.Equal(t, 4.6, out.Recommendation.PowerKw.Optimal)

	assert.Equal(t, "net_savings", out.Objective)
	require.Len(t, out.Candidates, 12)
	for _, c := range out.Candidates {
		assert.LessOrEqual(t, c.NetSavings, out.Best.NetSavings)
	}
	assert.Equal(t, testCosts.FixedCost+int64(out.Best.Panels)*testCosts.CostPerPanel, out.Best.SystemCost)
}

func TestSizeFromProductionProfile(t *testing.T) {
	in := sizingInput()
	in.City = ""
	in.Production = keyed(flat(450))
	in.Surfaces = []types.RoofSurface{{Name: "south", Panels: 10, Slope: 30}}

	out, err := NewSizer(newSimulator(t), nil, testCosts).Size(context.Background(), in, optimize.ObjectiveEarliestBreakeven)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, out.ProductionPerKwp)
	assert.Equal(t, 10, out.Recommendation.Panels.Optimal)
}

func TestSizeKeepsProductionPerKwpUnrounded(t *testing.T) {
	in := sizingInput()
	in.City = ""
	in.Production = keyed(flat(451))
	in.Surfaces = []types.RoofSurface{{Name: "south", Panels: 10, Slope: 30}}

	sim := newSimulator(t)
	out, err := NewSizer(sim, nil, testCosts).Size(context.Background(), in, optimize.ObjectiveNetSavings)
	require.NoError(t, err)
	assert.Equal(t, 1202.67, out.ProductionPerKwp)

	// The candidate with the installed layout reproduces the given profile.
	installed := out.Candidates[9]
	require.Equal(t, 10, installed.Panels)

	proposalIn := typicalInput()
	proposalIn.Usage = in.Usage
	proposalIn.Production = in.Production
	proposalIn.SystemCost = testCosts.FixedCost + 10*testCosts.CostPerPanel
	p, err := NewService(sim, nil, nil, nil).Run(context.Background(), proposalIn)
	require.NoError(t, err)
	assert.Equal(t, p.Summary.NetSavings, installed.NetSavings)
}

func TestSizeStaysWithinMaxPanels(t *testing.T) {
	in := sizingInput()
	in.Usage = keyed(flat(20000))

	out, err := NewSizer(newSimulator(t), &fakeBase{profile: flat(100)}, testCosts).Size(context.Background(), in, optimize.ObjectiveNetSavings)
	require.NoError(t, err)

	assert.Greater(t, out.Recommendation.Panels.Max, testCosts.MaxPanels)
	assert.LessOrEqual(t, len(out.Candidates), testCosts.MaxPanels)
	assert.LessOrEqual(t, out.Best.Panels, testCosts.MaxPanels)
}

func TestSizeRejects(t *testing.T) {
	tests := []struct {
		name   string
		base   BaseEstimator
		mutate func(in *Input)
	}{
		{"no estimator", nil, func(in *Input) {}},
		{"production without surfaces", nil, func(in *Input) { in.Production = keyed(flat(450)) }},
		{"unknown city", &fakeBase{profile: flat(100)}, func(in *Input) { in.City = "Atlantis" }},
		{"missing usage", &fakeBase{profile: flat(100)}, func(in *Input) { in.Usage = nil }},
		{"no production", &fakeBase{profile: flat(0)}, func(in *Input) {}},
		{"infinite usage", &fakeBase{profile: flat(100)}, func(in *Input) { in.Usage["4"] = math.Inf(1) }},
		{"NaN fraction", &fakeBase{profile: flat(100)}, func(in *Input) { in.HighFraction = fraction(math.NaN()) }},
		{"NaN permitted power", &fakeBase{profile: flat(100)}, func(in *Input) { in.PermittedPower = fraction(math.NaN()) }},
		{"infinite panel power", &fakeBase{profile: flat(100)}, func(in *Input) { in.PanelPowerW = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sizingInput()
			tt.mutate(&in)
			_, err := NewSizer(newSimulator(t), tt.base, testCosts).Size(context.Background(), in, optimize.ObjectiveNetSavings)
			assert.True(t, errors.Is(err, calc.ErrValidation), "got error %v", err)
		})
	}
}

func TestSizeEstimatorFailure(t *testing.T) {
	boom := errors.New("pvgis down")
	_, err := NewSizer(newSimulator(t), &fakeBase{err: boom}, testCosts).Size(context.Background(), sizingInput(), optimize.ObjectiveNetSavings)
	assert.ErrorIs(t, err, boom)
}
