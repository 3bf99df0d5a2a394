package simplefin

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DecodeSetupToken validates a setup token structurally: it must
// base64-decode to a UTF-8 http(s) URL. This replaces shape heuristics as
// the test for "is this a token" while still rejecting ordinal-selection
// input and free text.
func DecodeSetupToken(setupToken string) (string, error) {
	raw := strings.TrimSpace(setupToken)
	if raw == "" {
		return "", fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// Tokens copied out of the bridge UI occasionally lose their padding.
		decoded, err = base64.RawStdEncoding.DecodeString(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformedToken)
	}

	claimURL := string(decoded)
	parsed, err := url.Parse(claimURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: payload is not an http(s) URL", ErrMalformedToken)
	}

	return claimURL, nil
}

// Claim exchanges a one-time setup token for a durable access URL. The
// bridge consumes the token and returns the credential in one step, so this
// call is never retried: a failed claim is terminal for that token.
func (c *Client) Claim(ctx context.Context, setupToken string) (string, error) {
	claimURL, err := DecodeSetupToken(setupToken)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claimURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("claim request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrClaimRejected, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("claim rejected by bridge", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: bridge returned status %d", ErrClaimRejected, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrClaimRejected, err)
	}

	return strings.TrimSpace(string(body)), nil
}
