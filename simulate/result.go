package simulate

import (
	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
)

type Result struct {
	Status      Status
	Breakeven   maybe.Maybe[months.Index]
	UpfrontCost int64
	Months      []MonthOutcome
}

type YearTotal struct {
	Year     int   `json:"year"` // 1-based
	Standard int64 `json:"standard"`
	Solar    int64 `json:"solar"`
	Savings  int64 `json:"savings"`
}

func (r Result) HorizonMonths() int {
	return len(r.Months)
}

func (r Result) StandardCosts() []int64 {
	return r.series(func(o MonthOutcome) int64 { return o.Standard.Cost })
}

func (r Result) SolarCosts() []int64 {
	return r.series(func(o MonthOutcome) int64 { return o.NetMetering.Cost })
}

func (r Result) CumulativeStandard() []int64 {
	return r.series(func(o MonthOutcome) int64 { return o.CumulativeStandard })
}

// CumulativeSolar includes the upfront cost.
func (r Result) CumulativeSolar() []int64 {
	return r.series(func(o MonthOutcome) int64 { return o.CumulativeSolar })
}

func (r Result) series(value func(MonthOutcome) int64) []int64 {
	result := make([]int64, len(r.Months))
	for i, o := range r.Months {
		result[i] = value(o)
	}
	return result
}

// YearsInProfit is the number of whole horizon years left after the year in
// which breakeven happens. Undefined when breakeven was never reached.
func (r Result) YearsInProfit() maybe.Maybe[int] {
	if !r.Breakeven.IsValid() {
		return maybe.None[int]()
	}
	return maybe.Some(months.Years(r.HorizonMonths()) - months.Years(int(r.Breakeven.Value())))
}

// FirstYear returns the outcomes of the first (up to) twelve months.
func (r Result) FirstYear() []MonthOutcome {
	return r.Months[:min(months.PerYear, len(r.Months))]
}

func (r Result) Years() []YearTotal {
	var years []YearTotal
	for _, o := range r.Months {
		y := o.Index.YearOffset()
		if y >= len(years) {
			years = append(years, YearTotal{Year: y + 1})
		}
		years[y].Standard += o.Standard.Cost
		years[y].Solar += o.NetMetering.Cost
		years[y].Savings = years[y].Standard - years[y].Solar
	}
	return years
}

// NetSavings is what the solar path saves over the whole horizon, upfront
// cost included. Negative when the system never pays off.
func (r Result) NetSavings() int64 {
	if len(r.Months) == 0 {
		return -r.UpfrontCost
	}
	last := r.Months[len(r.Months)-1]
	return last.CumulativeStandard - last.CumulativeSolar
}
