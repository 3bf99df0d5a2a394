package simplefin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/guberm/SimpleFinTelegramBot/internal/models"
)

// Field defaults applied when the bridge omits or mangles a value. A bad
// field degrades that field only, never the whole fetch.
const (
	defaultAccountName = "Unknown"
	defaultBalance     = "0"
	defaultCurrency    = "USD"
)

// accountsRetries is the total number of attempts for the accounts GET.
// Only transport errors are retried; the request is idempotent.
const accountsRetries = 2

type accountsPayload struct {
	Accounts []map[string]any `json:"accounts"`
}

// FetchAccounts retrieves the current account list for an access URL. The
// basic-auth credentials embedded in the URL authenticate the request.
// Any transport, status, or parse failure yields ErrUnavailable; callers
// should treat that as "data temporarily unavailable", not a broken link.
func (c *Client) FetchAccounts(ctx context.Context, accessURL string) ([]models.AccountSnapshot, error) {
	parsed, err := url.Parse(accessURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid access URL: %v", ErrUnavailable, err)
	}
	if parsed.User == nil {
		return nil, fmt.Errorf("%w: access URL has no embedded credentials", ErrUnavailable)
	}

	username := parsed.User.Username()
	password, _ := parsed.User.Password()

	queryURL := &url.URL{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path + "/accounts",
	}

	resp, err := c.getWithRetry(ctx, queryURL.String(), username, password)
	if err != nil {
		c.logger.Error("accounts request failed", "host", parsed.Host, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("accounts request refused", "host", parsed.Host, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: bridge returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload accountsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	snapshots := make([]models.AccountSnapshot, 0, len(payload.Accounts))
	for _, raw := range payload.Accounts {
		snapshots = append(snapshots, models.AccountSnapshot{
			ID:       stringField(raw, "id", ""),
			Name:     stringField(raw, "name", defaultAccountName),
			Balance:  stringField(raw, "balance", defaultBalance),
			Currency: stringField(raw, "currency", defaultCurrency),
			OrgLabel: orgLabel(raw),
		})
	}

	return snapshots, nil
}

// OrgLabel extracts the organization label for a fetched account list:
// the first account's label, empty when nothing is available.
func OrgLabel(accounts []models.AccountSnapshot) string {
	if len(accounts) == 0 {
		return ""
	}
	return accounts[0].OrgLabel
}

func (c *Client) getWithRetry(ctx context.Context, queryURL, username, password string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < accountsRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(username, password)

		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// orgLabel prefers the org domain and falls back to the org name,
// matching what the bridge populates for different institutions.
func orgLabel(raw map[string]any) string {
	org, ok := raw["org"].(map[string]any)
	if !ok {
		return ""
	}
	if domain := stringField(org, "domain", ""); domain != "" {
		return domain
	}
	return stringField(org, "name", "")
}

func stringField(raw map[string]any, key, defaultValue string) string {
	switch v := raw[key].(type) {
	case string:
		if v == "" {
			return defaultValue
		}
		return v
	case float64:
		// Some institutions report balances as JSON numbers.
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return defaultValue
	}
}
