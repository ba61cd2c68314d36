// Package router configures HTTP routes for the forecaster's API.
//
// Routes configured:
//   - GET /forecast/current?area=<name> - Retrieve latest forecast snapshot
//   - GET /healthz - Health check endpoint (returns 200 OK)
//   - GET /metrics - Prometheus metrics endpoint
//
// Snapshots older than the stale threshold carry an X-Epicurve-Stale header.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/epiforge/epicurve/pkg/httpx"
	"github.com/epiforge/epicurve/pkg/storage"
)

// SetupRoutes configures HTTP endpoints for the forecaster.
func SetupRoutes(store storage.Store, staleAfter time.Duration, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/healthz", httpx.HealthHandler())
	mux.HandleFunc("/forecast/current", handleGetSnapshot(store, staleAfter, logger))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// handleGetSnapshot returns a handler for GET /forecast/current?area=<name>.
func handleGetSnapshot(store storage.Store, staleAfter time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		area := r.URL.Query().Get("area")
		if area == "" {
			httpx.WriteErrorMessage(w, http.StatusBadRequest, "area parameter required")
			return
		}

		snapshot, found, err := store.GetLatest(area)
		if err != nil {
			logger.Error("failed to get snapshot", "area", area, "error", err)
			httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if !found {
			httpx.WriteErrorMessage(w, http.StatusNotFound, fmt.Sprintf("snapshot not found for area %q", area))
			return
		}

		if time.Since(snapshot.GeneratedAt) > staleAfter {
			w.Header().Set("X-Epicurve-Stale", "true")
		}

		httpx.WriteJSON(w, http.StatusOK, snapshot)
	}
}
