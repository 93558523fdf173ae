package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes wires every handler onto a ServeMux. The metrics handler is
// optional; pass nil to leave /metrics unregistered.
func Routes(feedHandlers *FeedHandlers, engagementHandlers *EngagementHandlers, healthHandlers *HealthHandlers, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	mux.HandleFunc("/feed", feedHandlers.GetFeed)

	mux.HandleFunc("/posts/{id}/like", engagementHandlers.Like)
	mux.HandleFunc("/posts/{id}/bookmark", engagementHandlers.Bookmark)
	mux.HandleFunc("/posts/{id}/comments", engagementHandlers.Comment)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeNotFound, "The requested resource was not found")
			return
		}
		WriteJSON(w, r.Context(), http.StatusOK, map[string]string{
			"service": "roamly-api",
			"version": "0.1.0",
		})
	})

	return mux
}

// MetricsHandler returns the Prometheus scrape handler for the default
// registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
