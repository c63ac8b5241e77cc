package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/psantana5/etatrack/pkg/progress"
)

// StatusResponse is the JSON document served on /status. The watch
// command decodes exactly this shape.
type StatusResponse struct {
	RunID    string            `json:"run_id"`
	Progress progress.Snapshot `json:"progress"`
	ETA      string            `json:"eta"`
	Now      time.Time         `json:"now"`
}

func handleStatus(tracker *progress.Tracker, runID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := tracker.Snapshot()
		resp := StatusResponse{
			RunID:    runID,
			Progress: snap,
			ETA:      progress.FormatETA(snap.ETA()),
			Now:      time.Now(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
		}
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
