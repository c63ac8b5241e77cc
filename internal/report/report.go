// Package report assembles the end-of-run record: what ran, how fast,
// and where. A Result is built once from the final snapshot and never
// modified afterwards.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/psantana5/etatrack/internal/logging"
	"github.com/psantana5/etatrack/pkg/progress"
)

// Result is the immutable end-of-run record.
type Result struct {
	RunID string `json:"run_id" yaml:"run_id"`
	Kind  string `json:"kind" yaml:"kind"` // "run" or "pipe"

	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`

	UnitsCompleted int `json:"units_completed" yaml:"units_completed"`
	UnitsTotal     int `json:"units_total" yaml:"units_total"`

	WallTimeMillis     int64   `json:"wall_time_ms" yaml:"wall_time_ms"`
	MeanIntervalMillis int64   `json:"mean_interval_ms" yaml:"mean_interval_ms"`
	UnitsPerSecond     float64 `json:"units_per_second" yaml:"units_per_second"`
	FinalState         string  `json:"final_state" yaml:"final_state"`

	Host HostInfo `json:"host" yaml:"host"`
}

// NewRunID returns a fresh identifier for a run. Generated up front
// so the status server and the final report agree on it.
func NewRunID() string {
	return uuid.New().String()
}

// New builds the record for a finished run from its last snapshot.
func New(runID, kind string, snap progress.Snapshot, host HostInfo, completedAt time.Time) *Result {
	return &Result{
		RunID:              runID,
		Kind:               kind,
		StartedAt:          snap.StartedAt,
		CompletedAt:        completedAt,
		UnitsCompleted:     snap.Completed,
		UnitsTotal:         snap.Total,
		WallTimeMillis:     snap.ElapsedMillis,
		MeanIntervalMillis: snap.MeanIntervalMillis,
		UnitsPerSecond:     snap.UnitsPerSecond,
		FinalState:         snap.State,
		Host:               host,
	}
}

// LogSummary emits the one-line record ops grep for.
func (r *Result) LogSummary(log *logging.Logger) {
	log.Info().
		Str("run_id", r.RunID).
		Str("kind", r.Kind).
		Int("units", r.UnitsCompleted).
		Int("total", r.UnitsTotal).
		Str("state", r.FinalState).
		Int64("wall_time_ms", r.WallTimeMillis).
		Float64("units_per_second", r.UnitsPerSecond).
		Msg("run complete")
}
