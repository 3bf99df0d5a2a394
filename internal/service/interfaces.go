package service

import (
	"context"

	"github.com/guberm/SimpleFinTelegramBot/internal/models"
	"github.com/guberm/SimpleFinTelegramBot/internal/simplefin"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// TokenClaimer exchanges one-time setup tokens for access URLs
type TokenClaimer interface {
	Claim(ctx context.Context, setupToken string) (string, error)
}

// AccountFetcher retrieves live account data for an access URL
type AccountFetcher interface {
	FetchAccounts(ctx context.Context, accessURL string) ([]models.AccountSnapshot, error)
}

// Linker handles the bank linking lifecycle
type Linker interface {
	Link(ctx context.Context, userID int64, setupToken string) (*models.BankLink, error)
	Banks(ctx context.Context, userID int64) ([]models.BankLink, error)
	ListAccounts(ctx context.Context, userID int64) ([]models.BankAccounts, error)
	StartUnlink(ctx context.Context, userID int64) ([]models.BankLink, error)
	CompleteUnlink(ctx context.Context, userID int64, selection string) (*models.BankLink, error)
	HasPendingUnlink(userID int64) bool
}

// Ensure concrete types implement interfaces
var (
	_ TokenClaimer   = (*simplefin.Client)(nil)
	_ AccountFetcher = (*simplefin.Client)(nil)
	_ Linker         = (*LinkService)(nil)
)
