package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/internal/devserver/jwt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth_Success(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	token, _, err := tokens.Issue("user123", "admin@example.com", "admin")
	require.NoError(t, err)

	handler := Auth(discardLogger(), tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok, "claims should be in context")
		assert.Equal(t, "user123", claims.UserID)
		assert.Equal(t, "admin@example.com", claims.Email)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/booking/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	foreign, _, err := jwt.NewService("other-secret", time.Minute).Issue("user123", "a@b.co", "admin")
	require.NoError(t, err)

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{name: "missing header", header: "", wantMessage: "Unauthorized: missing token"},
		{name: "no scheme", header: "token-only", wantMessage: "Unauthorized: invalid token format"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantMessage: "Unauthorized: invalid token format"},
		{name: "empty token", header: "Bearer ", wantMessage: "Unauthorized: invalid token format"},
		{name: "foreign signature", header: "Bearer " + foreign, wantMessage: "Unauthorized: invalid token"},
	}

	handler := Auth(discardLogger(), tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/event", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"status":false,"message":"`+tt.wantMessage+`"}`, w.Body.String())
		})
	}
}

func TestClaimsFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
}
