package www

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/icodeforyou/solarproposal-go/slice"
	"github.com/icodeforyou/solarproposal-go/www/chartjs"
)

// NewChartHandler serves two charts for a stored proposal: cumulative grid
// and solar cost at the end of every simulated year, and the monthly bills
// of the first year with and without solar.
func NewChartHandler(logger *slog.Logger, db ProposalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, row, err := loadProposal(r, db)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		yearEnds := yearEndMonths(out.Months)
		labels := slice.Map(yearEnds, func(m proposal.Month) string {
			return m.Index.Label(row.CreatedAt.Year())
		})
		chart1 := chartjs.NewChart(chartjs.TypeLine, "Cumulative cost", labels, "Grid only", "With solar")
		chart1.SetSeries(0, slice.Map(yearEnds, func(m proposal.Month) int64 { return m.CumulativeStandard }))
		chart1.SetSeries(1, slice.Map(yearEnds, func(m proposal.Month) int64 { return m.CumulativeSolar }))
		chart1.Options.Scales["YAxis1"] = chart1.Options.Scales["YAxis1"].
			WithTitle("Cost (RSD)")

		s := out.Summary
		monthLabels := make([]string, len(s.MonthlyBillsPreSolar))
		for i := range monthLabels {
			monthLabels[i] = months.ShortName(i + 1)
		}
		chart2 := chartjs.NewChart(chartjs.TypeBar, "First year bills", monthLabels, "Grid only", "With solar")
		chart2.SetSeries(0, s.MonthlyBillsPreSolar)
		chart2.SetSeries(1, s.MonthlyBillsPostSolar)
		chart2.Options.Scales["YAxis1"] = chart2.Options.Scales["YAxis1"].
			WithTitle("Bill (RSD)").
			WithMinAndMax(0, math.Ceil(float64(slice.Max(s.MonthlyBillsPreSolar))/5000)*5000) // Round up to nearest 5000

		writeJson(logger, w, http.StatusOK, []chartjs.Chart{chart1, chart2})
	}
}

// yearEndMonths picks the last month of every year, and the final month
// when the horizon ends mid-year.
func yearEndMonths(ms []proposal.Month) []proposal.Month {
	var result []proposal.Month
	for i, m := range ms {
		if m.Index.Month() == months.PerYear || i == len(ms)-1 {
			result = append(result, m)
		}
	}
	return result
}
