package chartjs

import (
	"math"
)

const ColorYellow = "#ffc107d4"
const ColorRed = "#f44336d4"

const (
	TypeLine = "line"
	TypeBar  = "bar"
)

// NewChart creates a chart with one dataset per series name, all on the
// left axis. Series colors alternate red and yellow, grid cost first.
func NewChart(chartType, title string, labels []string, series ...string) Chart {
	colors := []string{ColorRed, ColorYellow}
	datasets := make([]ChartDataset, len(series))
	for i, name := range series {
		color := colors[i%len(colors)]
		datasets[i] = ChartDataset{
			Label:       name,
			Data:        make([]*float64, len(labels)),
			BorderWidth: 1,
			BorderColor: color,
			YAxisID:     "YAxis1",
		}
		if chartType == TypeLine {
			noPoints := 0
			datasets[i].Tension = 0.4
			datasets[i].PointRadius = &noPoints
		} else {
			datasets[i].BackgroundColor = color
		}
	}

	chart := Chart{
		Type: chartType,
		Data: ChartData{
			Labels:   labels,
			Datasets: datasets,
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: len(series) > 1},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				"YAxis1": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Title:    ChartScaleTitle{Display: true, Text: ""}},
			},
		},
	}

	if title != "" {
		chart.Options.Plugins.Title = ChartTitle{Display: true, Text: title}
	}

	return chart
}

// SetSeries fills dataset i from values. Labels without a value stay empty.
func (c *Chart) SetSeries(i int, values []int64) {
	data := c.Data.Datasets[i].Data
	for j := range data {
		if j < len(values) {
			data[j] = FixedFloat64(float64(values[j]), 0)
		} else {
			data[j] = nil
		}
	}
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	cs.Title.Text = title
	return cs
}

func (cs ChartScale) WithMinAndMax(min, max float64) ChartScale {
	cs.Min = &min
	cs.Max = &max
	return cs
}

func FixedFloat64(num float64, precision int) *float64 {
	p := math.Pow(10, float64(precision))
	rounded := math.Round(num * p)
	result := rounded / p
	return &result
}
