// internal/api/client_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querydesk/internal/core"
	"querydesk/internal/stub"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(stub.SetupRouter(stub.NewServer()))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(baseURL, 5*time.Second)
	require.NoError(t, err)
	return client
}

func mongoConfig(mode core.Mode) core.ConnectionConfig {
	return core.ConnectionConfig{
		DBType: core.DBTypeMongoDB,
		Method: core.MethodConnectionString,
		Mode:   mode,
	}
}

func TestConnectEstablishesSessionCookie(t *testing.T) {
	server := newStubServer(t)
	client := newClient(t, server.URL)
	ctx := context.Background()

	err := client.Connect(ctx, mongoConfig(core.ModeReadOnly), map[string]string{
		"connection_string": "mongodb+srv://u:p@cluster.mongodb.net/db",
	})
	require.NoError(t, err)

	// The history call only succeeds if the jar carried the session cookie.
	entries, err := client.History(ctx)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryWithoutSessionIsApplicationError(t *testing.T) {
	server := newStubServer(t)
	client := newClient(t, server.URL)

	_, err := client.History(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, OpHistory, apiErr.Op)
	assert.False(t, apiErr.Transport)
	assert.Equal(t, "Not connected to a database.", apiErr.Message)
}

func TestQueryDecodesResponse(t *testing.T) {
	server := newStubServer(t)
	client := newClient(t, server.URL)
	ctx := context.Background()

	require.NoError(t, client.Connect(ctx, mongoConfig(core.ModeReadOnly), map[string]string{
		"connection_string": "mongodb+srv://u:p@cluster.mongodb.net/db",
	}))

	response, err := client.Query(ctx, "count students")
	require.NoError(t, err)
	assert.Contains(t, response, "count students")
}

func TestBackendErrorMessageIsPreserved(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "syntax error"}`))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Query(context.Background(), "select broken")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.Transport)
	assert.Equal(t, "syntax error", apiErr.Message)
}

func TestUndecodableErrorBodyIsTransport(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"html body", "<html>Bad Gateway</html>"},
		{"empty error field", `{"error": ""}`},
		{"wrong shape", `{"detail": "nope"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tc.body))
			})
			server := httptest.NewServer(handler)
			defer server.Close()

			client := newClient(t, server.URL)
			_, err := client.Query(context.Background(), "anything")

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.True(t, apiErr.Transport)
			assert.Equal(t, TransportMessage, apiErr.Message)
		})
	}
}

func TestUnreachableServerIsTransport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newClient(t, url)
	err := client.Health(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Transport)
	assert.Equal(t, TransportMessage, apiErr.Message)
}

func TestRevertSendsHistoryID(t *testing.T) {
	server := newStubServer(t)
	client := newClient(t, server.URL)
	ctx := context.Background()

	require.NoError(t, client.Connect(ctx, mongoConfig(core.ModeReadWrite), map[string]string{
		"connection_string": "mongodb+srv://u:p@cluster.mongodb.net/db",
	}))
	_, err := client.Query(ctx, "add a student named Ada")
	require.NoError(t, err)

	require.NoError(t, client.Revert(ctx, 0))

	entries, err := client.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Reverted)

	// A second revert of the same entry is rejected with the backend message.
	err = client.Revert(ctx, 0)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "This change has already been reverted.", apiErr.Message)
}

func TestHealth(t *testing.T) {
	server := newStubServer(t)
	client := newClient(t, server.URL)
	assert.NoError(t, client.Health(context.Background()))
}
