package handlers

import (
	"context"
	"net/http"
	"time"
)

// GetHealth handles GET /health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.healthChecker.PingContext(pingCtx); err != nil {
		h.logger.Error("health check failed: database unreachable", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "SimpleFIN API is running",
	})
}

// GetRoot handles GET / with API information
func (h *Handler) GetRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "SimpleFIN Web API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"accounts": "/api/accounts?user_id=<user_id>",
			"health":   "/health",
		},
	})
}
