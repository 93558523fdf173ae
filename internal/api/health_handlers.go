package api

import (
	"net/http"
	"time"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/health"
)

// HealthHandlers provides health and readiness check endpoints.
type HealthHandlers struct {
	checkers map[string]health.Checker
}

// NewHealthHandlers creates health handlers over the given dependency
// probes. Nil checkers are skipped so optional dependencies (Redis) can be
// left unwired.
func NewHealthHandlers(checkers map[string]health.Checker) *HealthHandlers {
	live := make(map[string]health.Checker, len(checkers))
	for name, c := range checkers {
		if c != nil {
			live[name] = c
		}
	}
	return &HealthHandlers{checkers: live}
}

// HealthResponse represents the JSON response for health checks.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// Health handles GET /health (liveness probe).
// Returns 200 if the process is alive; it does not touch dependencies.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	WriteJSON(w, r.Context(), http.StatusOK, HealthResponse{
		Status:    "healthy",
		Checks:    map[string]string{"runtime": "ok"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready (readiness probe).
// Probes every registered dependency and returns 503 if any is unavailable.
func (h *HealthHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	results := health.CheckAll(r.Context(), h.checkers)

	checks := make(map[string]string, len(results))
	healthy := true
	for name, err := range results {
		if err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	statusText := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		statusText = "unavailable"
	}

	WriteJSON(w, r.Context(), status, HealthResponse{
		Status:    statusText,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
