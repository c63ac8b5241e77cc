package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/etatrack/pkg/progress"
)

func TestExporterServesProgressSeries(t *testing.T) {
	tracker := progress.NewTracker(10, 10)
	for i := 0; i < 3; i++ {
		tracker.Tick()
	}

	exporter := NewExporter(tracker, "run-1", promclient.NewRegistry())

	rec := httptest.NewRecorder()
	exporter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; version=0.0.4", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `etatrack_units_completed{run_id="run-1"} 3`)
	assert.Contains(t, body, `etatrack_units_total{run_id="run-1"} 10`)
	assert.Contains(t, body, `etatrack_units_remaining{run_id="run-1"} 7`)
	assert.Contains(t, body, "# TYPE etatrack_eta_seconds gauge")
}

func TestExporterMarksCurrentState(t *testing.T) {
	tracker := progress.NewTracker(10, 5)
	exporter := NewExporter(tracker, "run-2", promclient.NewRegistry())

	rec := httptest.NewRecorder()
	exporter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `etatrack_state{run_id="run-2",state="warming"} 1`)
	assert.Contains(t, body, `etatrack_state{run_id="run-2",state="estimating"} 0`)
}

func TestExporterAppendsGatheredRegistry(t *testing.T) {
	registry := promclient.NewRegistry()
	counter := promclient.NewCounter(promclient.CounterOpts{
		Name: "test_scrapes_total",
		Help: "Scrapes recorded by the test.",
	})
	registry.MustRegister(counter)
	counter.Add(2)

	tracker := progress.NewTracker(10, 10)
	exporter := NewExporter(tracker, "run-3", registry)

	rec := httptest.NewRecorder()
	exporter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "test_scrapes_total 2")
}
