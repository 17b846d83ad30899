package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/pkg/api"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DBPath = ":memory:"
	cfg.JWTSecret = "test-secret"
	return cfg
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	srv, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})
	return ts
}

func login(t *testing.T, baseURL, email, password string) (*http.Response, api.LoginResponse) {
	t.Helper()
	body, err := json.Marshal(api.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	var out api.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func TestNew_RequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func TestServer_Routes(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp := get(t, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	// события публичные
	resp = get(t, ts.URL+"/event/get-all-events", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events api.EventsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.Len(t, events.Data, 3)

	resp = get(t, ts.URL+"/event/evt-graduation", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// админские маршруты без токена
	for _, path := range []string{"/booking/summary?filter=month", "/video/get-all-videos"} {
		resp = get(t, ts.URL+path, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		var e api.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Equal(t, "Unauthorized: missing token", e.Message)
	}

	loginResp, out := login(t, ts.URL, "admin@havelock.test", "admin123")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	require.NotNil(t, out.Data)
	token := out.Data.AccessToken
	require.NotEmpty(t, token)

	resp = get(t, ts.URL+"/booking/summary?filter=month&year=2026", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary api.BookingSummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 2026, summary.Message.Year)
	assert.InDelta(t, 360.0, summary.Message.TotalRevenue, 0.001)
	assert.Equal(t, 8, summary.Message.TotalBookings)

	resp = get(t, ts.URL+"/video/get-all-videos?page=1&limit=10", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var videos api.VideoListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&videos))
	assert.Len(t, videos.Data.Videos, 3)

	// метод не из маршрута
	req, err := http.NewRequest(http.MethodPatch, ts.URL+"/event/evt-graduation", nil)
	require.NoError(t, err)
	patch, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = patch.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, patch.StatusCode)
}

func TestServer_LoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRate = 2
	ts := newTestServer(t, cfg)

	for range 2 {
		resp, _ := login(t, ts.URL, "admin@havelock.test", "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := login(t, ts.URL, "admin@havelock.test", "admin123")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestServer_NoSeed(t *testing.T) {
	cfg := testConfig()
	cfg.NoSeed = true
	ts := newTestServer(t, cfg)

	resp, _ := login(t, ts.URL, "admin@havelock.test", "admin123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_Run(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	cfg := testConfig()
	cfg.Addr = addr
	srv, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
