package metrics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "solarproposal_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	simulationsTotal  *prometheus.CounterVec
	simulationLatency *prometheus.HistogramVec

	pvgisRequestsTotal *prometheus.CounterVec
	pvgisLatency       *prometheus.HistogramVec

	exportsTotal *prometheus.CounterVec

	sizingTotal   *prometheus.CounterVec
	sizingLatency *prometheus.HistogramVec
)

// Init registers the metrics with the default registry. When countProposals
// is set the number of stored proposals is exported as a gauge.
func Init(countProposals func() (int, error)) {
	registerOnce.Do(func() {
		simulationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulations_total",
				Help: "Total breakeven simulations by outcome",
			},
			[]string{"status"},
		)
		simulationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "simulation_latency_seconds",
				Help:    "Breakeven simulation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		)
		pvgisRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "pvgis_requests_total",
				Help: "Total PVGIS requests by result",
			},
			[]string{"result"},
		)
		pvgisLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "pvgis_latency_seconds",
				Help:    "PVGIS request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		sizingTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sizing_total",
				Help: "Total system sizing runs by result",
			},
			[]string{"result"},
		)
		sizingLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "sizing_latency_seconds",
				Help:    "System sizing latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		prometheus.MustRegister(
			simulationsTotal,
			simulationLatency,
			pvgisRequestsTotal,
			pvgisLatency,
			exportsTotal,
			sizingTotal,
			sizingLatency,
		)
		if countProposals != nil {
			registerProposalGauge(countProposals)
		}
	})
}

func registerProposalGauge(countProposals func() (int, error)) {
	logger := slog.Default().With("module", "metrics")
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "stored_proposals",
			Help: "Number of proposals in the database",
		},
		func() float64 {
			n, err := countProposals()
			if err != nil {
				logger.Warn("failed to count proposals", slog.Any("error", err))
				return 0
			}
			return float64(n)
		},
	))
}

// ObserveSimulation records a finished simulation, status is the
// simulation status or ResultError.
func ObserveSimulation(status string, duration time.Duration) {
	if status == "" {
		status = ResultError
	}
	if simulationsTotal != nil {
		simulationsTotal.WithLabelValues(status).Inc()
	}
	if simulationLatency != nil {
		simulationLatency.WithLabelValues(status).Observe(duration.Seconds())
	}
}

func ObservePvgis(err error, duration time.Duration) {
	result := resultOf(err)
	if pvgisRequestsTotal != nil {
		pvgisRequestsTotal.WithLabelValues(result).Inc()
	}
	if pvgisLatency != nil {
		pvgisLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func IncExport(format string, err error) {
	if format == "" {
		format = "unknown"
	}
	if exportsTotal != nil {
		exportsTotal.WithLabelValues(format, resultOf(err)).Inc()
	}
}

func ObserveSizing(err error, duration time.Duration) {
	result := resultOf(err)
	if sizingTotal != nil {
		sizingTotal.WithLabelValues(result).Inc()
	}
	if sizingLatency != nil {
		sizingLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
