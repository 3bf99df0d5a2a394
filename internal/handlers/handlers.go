// Package handlers implements HTTP handlers for the read API consumed by
// the Telegram WebApp.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/guberm/SimpleFinTelegramBot/internal/service"
)

// Handler serves the read API endpoints
type Handler struct {
	links         service.Linker
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	links service.Linker,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		links:         links,
		healthChecker: healthChecker,
		logger:        logger,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
