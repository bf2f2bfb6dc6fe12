package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBeforeInitIsNoop(t *testing.T) {
	if simulationsTotal != nil {
		t.Skip("metrics already initialized")
	}
	ObserveSimulation("found", time.Millisecond)
	ObservePvgis(nil, time.Millisecond)
	IncExport("pdf", nil)
	ObserveSizing(errors.New("boom"), time.Millisecond)
}

func TestObserve(t *testing.T) {
	Init(func() (int, error) { return 3, nil })

	before := testutil.ToFloat64(simulationsTotal.WithLabelValues("found"))
	ObserveSimulation("found", 20*time.Millisecond)
	if got := testutil.ToFloat64(simulationsTotal.WithLabelValues("found")); got != before+1 {
		t.Errorf("got %f simulations, wanted %f", got, before+1)
	}

	ObservePvgis(errors.New("timeout"), time.Second)
	if got := testutil.ToFloat64(pvgisRequestsTotal.WithLabelValues(ResultError)); got < 1 {
		t.Errorf("got %f failed PVGIS requests, wanted at least 1", got)
	}

	IncExport("", nil)
	if got := testutil.ToFloat64(exportsTotal.WithLabelValues("unknown", ResultSuccess)); got < 1 {
		t.Errorf("got %f exports, wanted at least 1", got)
	}

	// A second Init must not panic on duplicate registration.
	Init(nil)
}
