package handlers

import (
	"log/slog"
	"net/http"

	"github.com/guberm/SimpleFinTelegramBot/internal/config"
	"github.com/guberm/SimpleFinTelegramBot/internal/db"
	"github.com/guberm/SimpleFinTelegramBot/internal/middleware"
	"github.com/guberm/SimpleFinTelegramBot/internal/repository"
	"github.com/guberm/SimpleFinTelegramBot/internal/service"
	"github.com/guberm/SimpleFinTelegramBot/internal/simplefin"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	repo := repository.NewLinkRepository(database)
	client := simplefin.NewClient(cfg.SimpleFIN.RequestTimeout, logger)
	links := service.NewLinkService(repo, client, client, logger)

	handler := NewHandler(links, database, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handler.GetRoot)
	mux.HandleFunc("GET /health", handler.GetHealth)
	mux.HandleFunc("GET /api/accounts", handler.GetAccounts)

	var finalHandler http.Handler = mux
	finalHandler = middleware.CORS(finalHandler)
	finalHandler = middleware.Logging(logger)(finalHandler)

	return finalHandler
}
