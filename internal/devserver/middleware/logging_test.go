package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogging(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		requestID  string
		wantLevel  string
		status     int
		wantLogged bool
	}{
		{name: "ok request", path: "/event/get-all-events", status: http.StatusOK, wantLevel: "level=INFO", wantLogged: true},
		{name: "client error", path: "/event/missing", status: http.StatusNotFound, wantLevel: "level=WARN", wantLogged: true},
		{name: "server error", path: "/booking/summary", status: http.StatusInternalServerError, wantLevel: "level=ERROR", wantLogged: true},
		{name: "skipped path", path: "/health", status: http.StatusOK, wantLogged: false},
		{name: "request id echoed", path: "/video/get-all-videos", requestID: "req-42", status: http.StatusOK, wantLevel: "request_id=req-42", wantLogged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			handler := Logging(logger, "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, w.Header().Get(RequestIDHeader))
			}

			if !tt.wantLogged {
				assert.Empty(t, buf.String())
				return
			}
			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "path="+tt.path)
			assert.Contains(t, out, "bytes_written=4")
		})
	}
}

func TestLogging_DoesNotLogHeaders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodPost, "/auth/change-password", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotContains(t, buf.String(), "secret-token")
}
