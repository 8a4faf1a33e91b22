package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// livenessResponse is the /health body.
type livenessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// readinessResponse is the /readiness body.
type readinessResponse struct {
	Ready bool `json:"ready"`
	State
}

// LivenessHandler answers /health. It always reports healthy while the
// process can serve HTTP at all; provider and sink state are deliberately
// not consulted, so orchestrators keep the pod alive through a provider
// outage instead of restart-looping it.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, livenessResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler answers /readiness from the tracker's cached snapshot:
// 200 when the provider is reachable and the telemetry backlog is within
// bounds, 503 otherwise. The body carries the full state either way.
func ReadinessHandler(tracker *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := tracker.Snapshot()

		status := http.StatusOK
		if !state.Ready() {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, readinessResponse{
			Ready: state.Ready(),
			State: state,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
