package simplefin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCredentials embeds basic-auth credentials into a test server URL and
// appends the given access path.
func withCredentials(serverURL, user, pass, path string) string {
	return strings.Replace(serverURL, "://", "://"+user+":"+pass+"@", 1) + path
}

func TestFetchAccounts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/access/XYZ/accounts", r.URL.Path, "query path should append /accounts")

		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "request must carry basic auth")
		assert.Equal(t, "u2", user)
		assert.Equal(t, "p2", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"accounts": [
				{"id": "1", "name": "Checking", "balance": "42.10", "currency": "USD",
				 "org": {"domain": "bank.example", "name": "Example Bank"}},
				{"id": "2", "name": "Savings", "balance": "100.00", "currency": "EUR",
				 "org": {"name": "Example Bank"}}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient()
	accessURL := withCredentials(server.URL, "u2", "p2", "/access/XYZ")

	accounts, err := client.FetchAccounts(context.Background(), accessURL)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "Checking", accounts[0].Name)
	assert.Equal(t, "42.10", accounts[0].Balance)
	assert.Equal(t, "bank.example", accounts[0].OrgLabel, "org domain is preferred")
	assert.Equal(t, "Example Bank", accounts[1].OrgLabel, "org name is the fallback")

	assert.Equal(t, "bank.example", OrgLabel(accounts))
}

func TestFetchAccounts_FieldDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accounts":[{"id":"1","balance":"42.10"}]}`))
	}))
	defer server.Close()

	client := newTestClient()
	accounts, err := client.FetchAccounts(context.Background(), withCredentials(server.URL, "u", "p", "/a"))

	require.NoError(t, err, "missing fields must not fail the fetch")
	require.Len(t, accounts, 1)

	assert.Equal(t, "1", accounts[0].ID)
	assert.Equal(t, "Unknown", accounts[0].Name)
	assert.Equal(t, "42.10", accounts[0].Balance)
	assert.Equal(t, "USD", accounts[0].Currency)
	assert.Empty(t, accounts[0].OrgLabel)
	assert.Empty(t, OrgLabel(nil))
}

func TestFetchAccounts_NumericBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accounts":[{"id":"1","balance":12.5,"name":7}]}`))
	}))
	defer server.Close()

	client := newTestClient()
	accounts, err := client.FetchAccounts(context.Background(), withCredentials(server.URL, "u", "p", "/a"))

	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "12.5", accounts[0].Balance, "numeric balances degrade to their string form")
	assert.Equal(t, "7", accounts[0].Name)
}

func TestFetchAccounts_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"accounts": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestClient()
			accounts, err := client.FetchAccounts(context.Background(), withCredentials(server.URL, "u", "p", "/a"))

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Nil(t, accounts)
		})
	}
}

func TestFetchAccounts_NoEmbeddedCredentials(t *testing.T) {
	client := newTestClient()
	_, err := client.FetchAccounts(context.Background(), "https://bridge.example/access/XYZ")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchAccounts_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient()
	_, err := client.FetchAccounts(context.Background(), withCredentials(server.URL, "u", "p", "/a"))

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchAccounts_NoRetryOnErrorStatus(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient()
	_, err := client.FetchAccounts(context.Background(), withCredentials(server.URL, "u", "p", "/a"))

	require.Error(t, err)
	assert.Equal(t, 1, calls, "status errors are not retried")
}
