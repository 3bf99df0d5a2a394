// Package service implements the account linking orchestration on top of
// the credential store and the bridge client.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/guberm/SimpleFinTelegramBot/internal/models"
	"github.com/guberm/SimpleFinTelegramBot/internal/repository"
	"github.com/guberm/SimpleFinTelegramBot/internal/simplefin"
)

// defaultBankName labels a link whose organization could not be resolved
// at linking time.
const defaultBankName = "Bank"

// LinkService orchestrates claiming, storing, and aggregating bank links.
type LinkService struct {
	repo     repository.LinkRepository
	claims   TokenClaimer
	accounts AccountFetcher
	logger   *slog.Logger

	// pendingUnlinks snapshots a user's link list when a removal menu is
	// rendered, so the numeric selection resolves against what the user
	// actually saw even if the list mutates in between.
	mu             sync.Mutex
	pendingUnlinks map[int64][]models.BankLink
}

// NewLinkService creates a new LinkService
func NewLinkService(
	repo repository.LinkRepository,
	claims TokenClaimer,
	accounts AccountFetcher,
	logger *slog.Logger,
) *LinkService {
	return &LinkService{
		repo:           repo,
		claims:         claims,
		accounts:       accounts,
		logger:         logger,
		pendingUnlinks: make(map[int64][]models.BankLink),
	}
}

// IsSetupToken reports whether input is structurally a setup token: it must
// base64-decode to an http(s) URL. Ordinal selections and free text fail
// the decode, which keeps the two kinds of input apart.
func IsSetupToken(input string) bool {
	_, err := simplefin.DecodeSetupToken(input)
	return err == nil
}

// Link claims a setup token and stores the resulting access URL for the
// user. The bank label is resolved best-effort: if the bridge cannot be
// queried right after the claim, the link is still stored under a default
// label rather than failing the whole operation.
func (s *LinkService) Link(ctx context.Context, userID int64, setupToken string) (*models.BankLink, error) {
	accessURL, err := s.claims.Claim(ctx, setupToken)
	if err != nil {
		if errors.Is(err, simplefin.ErrMalformedToken) {
			return nil, &ServiceError{
				Code:    ErrCodeInvalidToken,
				Message: "input is not a setup token",
				Err:     err,
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeTokenRejected,
			Message: "token is invalid or already used",
			Err:     err,
		}
	}

	if accessURL == "" {
		return nil, &ServiceError{
			Code:    ErrCodeTokenRejected,
			Message: "bridge returned an empty access URL",
		}
	}

	bankName := defaultBankName
	if accounts, fetchErr := s.accounts.FetchAccounts(ctx, accessURL); fetchErr != nil {
		s.logger.Warn("could not resolve bank label during linking", "user_id", userID, "error", fetchErr)
	} else if label := simplefin.OrgLabel(accounts); label != "" {
		bankName = label
	}

	link := &models.BankLink{
		UserID:    userID,
		AccessURL: accessURL,
		BankName:  bankName,
	}
	if err := s.repo.Save(ctx, link); err != nil {
		s.logger.Error("failed to store bank link", "user_id", userID, "error", err)
		return nil, &ServiceError{
			Code:    ErrCodeStorageError,
			Message: "failed to store bank link",
			Err:     err,
		}
	}

	s.logger.Info("bank linked", "user_id", userID, "bank", bankName)

	return link, nil
}

// Banks returns the user's stored links without touching the bridge.
func (s *LinkService) Banks(ctx context.Context, userID int64) ([]models.BankLink, error) {
	links, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeStorageError,
			Message: "failed to load bank links",
			Err:     err,
		}
	}
	return links, nil
}

// ListAccounts fetches live account data for every linked bank, one bank at
// a time. A bank whose bridge endpoint is unreachable is reported as
// unavailable; it never prevents the remaining banks from being returned.
func (s *LinkService) ListAccounts(ctx context.Context, userID int64) ([]models.BankAccounts, error) {
	links, err := s.Banks(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]models.BankAccounts, 0, len(links))
	for _, link := range links {
		accounts, fetchErr := s.accounts.FetchAccounts(ctx, link.AccessURL)
		if fetchErr != nil {
			s.logger.Warn("bank data unavailable", "user_id", userID, "bank", link.BankName, "error", fetchErr)
			results = append(results, models.BankAccounts{Link: link, Unavailable: true})
			continue
		}
		results = append(results, models.BankAccounts{Link: link, Accounts: accounts})
	}

	return results, nil
}

// StartUnlink begins a removal: it snapshots the user's current links and
// returns them for menu rendering. Selections are later resolved against
// this snapshot, not against a re-read of the store.
func (s *LinkService) StartUnlink(ctx context.Context, userID int64) ([]models.BankLink, error) {
	links, err := s.Banks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, &ServiceError{
			Code:    ErrCodeNoBanks,
			Message: "no connected banks",
		}
	}

	s.mu.Lock()
	s.pendingUnlinks[userID] = links
	s.mu.Unlock()

	return links, nil
}

// CompleteUnlink resolves a 1-based ordinal selection against the pending
// snapshot and removes that link. Out-of-range or non-numeric input leaves
// the snapshot and the store untouched.
func (s *LinkService) CompleteUnlink(ctx context.Context, userID int64, selection string) (*models.BankLink, error) {
	ordinal, err := parseOrdinal(selection)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidSelection,
			Message: "invalid number",
			Err:     err,
		}
	}

	s.mu.Lock()
	snapshot, ok := s.pendingUnlinks[userID]
	s.mu.Unlock()

	if !ok {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidSelection,
			Message: "no removal in progress",
		}
	}
	if ordinal < 1 || ordinal > len(snapshot) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidSelection,
			Message: "invalid number",
		}
	}

	target := snapshot[ordinal-1]
	if err := s.repo.Remove(ctx, userID, target.AccessURL); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeStorageError,
			Message: "failed to remove bank link",
			Err:     err,
		}
	}

	s.mu.Lock()
	delete(s.pendingUnlinks, userID)
	s.mu.Unlock()

	s.logger.Info("bank unlinked", "user_id", userID, "bank", target.BankName)

	return &target, nil
}

// HasPendingUnlink reports whether the user is mid-removal, which is what
// makes a bare number a menu selection rather than noise.
func (s *LinkService) HasPendingUnlink(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pendingUnlinks[userID]
	return ok
}

// parseOrdinal reads the leading integer out of a selection like "2" or
// "2. Example Bank" (the removal keyboard echoes the full button label).
func parseOrdinal(selection string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(selection), ".")
	ordinal, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("selection %q is not a number", selection)
	}
	return ordinal, nil
}
