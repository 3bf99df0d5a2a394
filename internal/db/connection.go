// Package db provides database connection and management utilities.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/guberm/SimpleFinTelegramBot/internal/config"

	// Import sqlite driver for registration with database/sql
	_ "modernc.org/sqlite"
)

// DB wraps the database connection pool
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Connect opens the SQLite database file and brings the schema up to date.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	logger.Info("opening database", "path", cfg.Path)

	sqlDB, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The sqlite driver serializes writers itself; a single connection
	// avoids SQLITE_BUSY under concurrent request handling.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		logger: logger,
	}

	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}

	logger.Info("database ready", "path", cfg.Path)

	return db, nil
}

// Close closes the database connection and logs the closure.
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}
