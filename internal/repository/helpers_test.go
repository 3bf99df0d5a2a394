package repository

import (
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"testing"

	"github.com/guberm/SimpleFinTelegramBot/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "links_test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	database := db.NewTestDB(sqlDB)
	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return database
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		log.Printf("failed to close test database: %v", err)
	}
}
