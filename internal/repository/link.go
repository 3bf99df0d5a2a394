// Package repository provides data access for stored bank links.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guberm/SimpleFinTelegramBot/internal/db"
	"github.com/guberm/SimpleFinTelegramBot/internal/models"
)

// LinkRepository defines the interface for bank link persistence
type LinkRepository interface {
	// Save upserts a link keyed by (user id, access URL). Re-saving the
	// same pair overwrites the bank name and timestamp but keeps the
	// original link ID; it never creates a duplicate row.
	Save(ctx context.Context, link *models.BankLink) error

	// ListByUser returns the user's links in insertion order. The order is
	// stable across calls so a rendered removal menu stays meaningful.
	ListByUser(ctx context.Context, userID int64) ([]models.BankLink, error)

	// Remove deletes at most one link. Removing an absent pair is a no-op.
	Remove(ctx context.Context, userID int64, accessURL string) error
}

// linkRepository implements LinkRepository
type linkRepository struct {
	db *db.DB
}

// NewLinkRepository creates a new LinkRepository
func NewLinkRepository(database *db.DB) LinkRepository {
	return &linkRepository{db: database}
}

func (r *linkRepository) Save(ctx context.Context, link *models.BankLink) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO bank_links (id, user_id, access_url, bank_name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, access_url) DO UPDATE SET
			bank_name = excluded.bank_name,
			created_at = excluded.created_at
	`

	_, err := r.db.ExecContext(ctx, query,
		link.ID.String(),
		link.UserID,
		link.AccessURL,
		link.BankName,
		link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save bank link: %w", err)
	}

	return nil
}

func (r *linkRepository) ListByUser(ctx context.Context, userID int64) ([]models.BankLink, error) {
	query := `
		SELECT id, user_id, access_url, bank_name, created_at
		FROM bank_links
		WHERE user_id = ?
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank links: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var links []models.BankLink
	for rows.Next() {
		var (
			link models.BankLink
			id   string
		)
		if err := rows.Scan(&id, &link.UserID, &link.AccessURL, &link.BankName, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank link: %w", err)
		}
		link.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid bank link id %q: %w", id, err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank links: %w", err)
	}

	return links, nil
}

func (r *linkRepository) Remove(ctx context.Context, userID int64, accessURL string) error {
	query := `DELETE FROM bank_links WHERE user_id = ? AND access_url = ?`

	_, err := r.db.ExecContext(ctx, query, userID, accessURL)
	if err != nil {
		return fmt.Errorf("failed to remove bank link: %w", err)
	}

	return nil
}
