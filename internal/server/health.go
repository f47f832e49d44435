package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func handleHealth(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok", Timestamp: time.Now().UTC()}
		status := http.StatusOK
		if err := store.Ping(ctx); err != nil {
			logger.Error("health check failed", "name", "sqlite", "error", err)
			resp.Status = "error"
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
