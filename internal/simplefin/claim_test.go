package simplefin

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return NewClient(5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func encodeToken(url string) string {
	return base64.StdEncoding.EncodeToString([]byte(url))
}

func TestDecodeSetupToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{
			name:  "valid token with padding",
			token: encodeToken("https://u:p@bridge.example/access/ABC123"),
			want:  "https://u:p@bridge.example/access/ABC123",
		},
		{
			name:  "valid token without padding",
			token: base64.RawStdEncoding.EncodeToString([]byte("https://bridge.example/claim/XYZ")),
			want:  "https://bridge.example/claim/XYZ",
		},
		{
			name:    "not base64",
			token:   "!!!definitely not a token!!!",
			wantErr: true,
		},
		{
			name:    "decodes to non-URL text",
			token:   encodeToken("hello there"),
			wantErr: true,
		},
		{
			name:    "decodes to non-http scheme",
			token:   encodeToken("ftp://bridge.example/claim"),
			wantErr: true,
		},
		{
			name:    "numeric selection input",
			token:   "2",
			wantErr: true,
		},
		{
			name:    "empty input",
			token:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSetupToken(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaim_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method, "claim must be a POST")
		_, _ = w.Write([]byte("  https://u2:p2@bridge.example/access/XYZ\n"))
	}))
	defer server.Close()

	client := newTestClient()
	accessURL, err := client.Claim(context.Background(), encodeToken(server.URL))

	require.NoError(t, err)
	assert.Equal(t, "https://u2:p2@bridge.example/access/XYZ", accessURL, "response body should be trimmed")
}

func TestClaim_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient()
	_, err := client.Claim(context.Background(), encodeToken(server.URL))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClaimRejected)
}

func TestClaim_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient()
	_, err := client.Claim(context.Background(), encodeToken(server.URL))

	assert.ErrorIs(t, err, ErrClaimRejected)
}

func TestClaim_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient()
	_, err := client.Claim(context.Background(), encodeToken(server.URL))

	assert.ErrorIs(t, err, ErrClaimRejected)
}

func TestClaim_IsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient()
	_, err := client.Claim(context.Background(), encodeToken(server.URL))

	require.Error(t, err)
	assert.Equal(t, 1, calls, "a claim must be attempted exactly once")
}
