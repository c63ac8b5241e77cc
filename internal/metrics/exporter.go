// Package metrics serves run progress in the Prometheus text format.
// The handler writes the estimator-derived series by hand, then
// appends whatever the gathered registry holds (HTTP stats, runtime
// collectors) through the expfmt encoder.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/psantana5/etatrack/pkg/progress"
)

// Exporter serves a tracked run's progress at /metrics.
type Exporter struct {
	tracker  *progress.Tracker
	runID    string
	gatherer promclient.Gatherer
	started  time.Time
}

// NewExporter creates an exporter for tracker. A nil gatherer falls
// back to the Prometheus default registry.
func NewExporter(tracker *progress.Tracker, runID string, gatherer promclient.Gatherer) *Exporter {
	if gatherer == nil {
		gatherer = promclient.DefaultGatherer
	}
	return &Exporter{
		tracker:  tracker,
		runID:    runID,
		gatherer: gatherer,
		started:  time.Now(),
	}
}

// handWritten lists the families emitted by ServeHTTP itself, so the
// gathered registry cannot duplicate them.
var handWritten = map[string]bool{
	"etatrack_units_completed":       true,
	"etatrack_units_total":           true,
	"etatrack_units_remaining":       true,
	"etatrack_progress_percent":      true,
	"etatrack_eta_available":         true,
	"etatrack_eta_seconds":           true,
	"etatrack_mean_interval_seconds": true,
	"etatrack_units_per_second":      true,
	"etatrack_state":                 true,
	"etatrack_uptime_seconds":        true,
}

// ServeHTTP serves Prometheus-compatible metrics.
func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	snap := e.tracker.Snapshot()

	fmt.Fprintf(w, "# HELP etatrack_units_completed Units of work completed so far\n")
	fmt.Fprintf(w, "# TYPE etatrack_units_completed counter\n")
	fmt.Fprintf(w, "etatrack_units_completed{run_id=\"%s\"} %d\n", e.runID, snap.Completed)

	fmt.Fprintf(w, "\n# HELP etatrack_units_total Units of work declared at start\n")
	fmt.Fprintf(w, "# TYPE etatrack_units_total gauge\n")
	fmt.Fprintf(w, "etatrack_units_total{run_id=\"%s\"} %d\n", e.runID, snap.Total)

	fmt.Fprintf(w, "\n# HELP etatrack_units_remaining Units of work left to complete\n")
	fmt.Fprintf(w, "# TYPE etatrack_units_remaining gauge\n")
	fmt.Fprintf(w, "etatrack_units_remaining{run_id=\"%s\"} %d\n", e.runID, snap.Remaining)

	fmt.Fprintf(w, "\n# HELP etatrack_progress_percent Completion percentage\n")
	fmt.Fprintf(w, "# TYPE etatrack_progress_percent gauge\n")
	fmt.Fprintf(w, "etatrack_progress_percent{run_id=\"%s\"} %.2f\n", e.runID, snap.Percent)

	// eta_seconds is only meaningful while an estimate exists;
	// eta_available tells scrapes when to trust it.
	available := 0
	if snap.HasETA {
		available = 1
	}
	fmt.Fprintf(w, "\n# HELP etatrack_eta_available Whether a usable estimate currently exists\n")
	fmt.Fprintf(w, "# TYPE etatrack_eta_available gauge\n")
	fmt.Fprintf(w, "etatrack_eta_available{run_id=\"%s\"} %d\n", e.runID, available)

	fmt.Fprintf(w, "\n# HELP etatrack_eta_seconds Projected remaining time in seconds\n")
	fmt.Fprintf(w, "# TYPE etatrack_eta_seconds gauge\n")
	fmt.Fprintf(w, "etatrack_eta_seconds{run_id=\"%s\"} %.3f\n", e.runID, float64(snap.ETAMillis)/1000)

	fmt.Fprintf(w, "\n# HELP etatrack_mean_interval_seconds Mean gap between recent completions\n")
	fmt.Fprintf(w, "# TYPE etatrack_mean_interval_seconds gauge\n")
	fmt.Fprintf(w, "etatrack_mean_interval_seconds{run_id=\"%s\"} %.3f\n", e.runID, float64(snap.MeanIntervalMillis)/1000)

	fmt.Fprintf(w, "\n# HELP etatrack_units_per_second Observed completion throughput\n")
	fmt.Fprintf(w, "# TYPE etatrack_units_per_second gauge\n")
	fmt.Fprintf(w, "etatrack_units_per_second{run_id=\"%s\"} %.3f\n", e.runID, snap.UnitsPerSecond)

	// One series per state; the current one reads 1.
	fmt.Fprintf(w, "\n# HELP etatrack_state Run state\n")
	fmt.Fprintf(w, "# TYPE etatrack_state gauge\n")
	for _, state := range []string{"warming", "estimating", "complete", "overrun"} {
		value := 0
		if snap.State == state {
			value = 1
		}
		fmt.Fprintf(w, "etatrack_state{run_id=\"%s\",state=\"%s\"} %d\n", e.runID, state, value)
	}

	fmt.Fprintf(w, "\n# HELP etatrack_uptime_seconds Time since the exporter started\n")
	fmt.Fprintf(w, "# TYPE etatrack_uptime_seconds gauge\n")
	fmt.Fprintf(w, "etatrack_uptime_seconds{run_id=\"%s\"} %.0f\n", e.runID, time.Since(e.started).Seconds())

	fmt.Fprintf(w, "\n")

	families, err := e.gatherer.Gather()
	if err != nil {
		fmt.Fprintf(w, "# Error gathering registry metrics: %v\n", err)
		return
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, mf := range families {
		if handWritten[mf.GetName()] {
			continue
		}
		if err := encoder.Encode(mf); err != nil {
			fmt.Fprintf(w, "# Error encoding metric %s: %v\n", mf.GetName(), err)
		}
	}
	w.Write(buf.Bytes())
}
