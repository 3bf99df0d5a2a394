// Package simplefin implements the client side of the SimpleFIN bridge
// protocol: claiming setup tokens and fetching account data.
package simplefin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Failure modes of the bridge exchange. The bridge gives no way to tell an
// already-consumed token from a never-valid one, so both surface as
// ErrClaimRejected.
var (
	// ErrMalformedToken indicates the setup token did not decode to a URL
	ErrMalformedToken = errors.New("malformed setup token")

	// ErrClaimRejected indicates the bridge refused the claim or was unreachable
	ErrClaimRejected = errors.New("setup token rejected")

	// ErrUnavailable indicates account data could not be retrieved
	ErrUnavailable = errors.New("account data unavailable")
)

// Client talks to the SimpleFIN bridge over a shared pooled HTTP client.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a bridge client with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}
