// internal/common/botcheck/botcheck_test.go
package botcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPChecker_HumanPasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostFormValue("secret"))
		assert.Equal(t, "client-token", r.PostFormValue("response"))
		assert.Equal(t, "203.0.113.9", r.PostFormValue("remoteip"))
		w.Write([]byte(`{"success": true, "score": 0.9}`))
	}))
	defer srv.Close()

	checker := NewHTTPChecker("secret-key", srv.URL)
	isBot, err := checker.IsBot(context.Background(), Request{
		Token:    "client-token",
		ClientIP: "203.0.113.9",
	})

	require.NoError(t, err)
	assert.False(t, isBot)
}

func TestHTTPChecker_BotFlagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	checker := NewHTTPChecker("secret-key", srv.URL)
	isBot, err := checker.IsBot(context.Background(), Request{Token: "bad-token"})

	require.NoError(t, err)
	assert.True(t, isBot)
}

func TestHTTPChecker_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	checker := NewHTTPChecker("secret-key", srv.URL)
	_, err := checker.IsBot(context.Background(), Request{Token: "token"})

	assert.Error(t, err)
}
