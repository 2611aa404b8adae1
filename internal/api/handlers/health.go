package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/citymap/internal/config"
)

// Pinger checks that a database accepts connections.
type Pinger interface {
	Ping(ctx context.Context, databaseURL string) error
}

// Healthz reports process liveness; it never touches the database.
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondHealth(w, http.StatusOK, "ok")
	})
}

// Readyz opens and closes one database connection.
func Readyz(pinger Pinger, database config.DatabaseConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		databaseURL, err := database.DSN()
		if err != nil || pinger == nil {
			respondHealth(w, http.StatusServiceUnavailable, "unavailable")
			return
		}

		// Create child context with per-check timeout so a hung database
		// does not hold the probe open.
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx, databaseURL); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
			respondHealth(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		respondHealth(w, http.StatusOK, "ready")
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func respondHealth(w http.ResponseWriter, status int, value string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: value})
}
