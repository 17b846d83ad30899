package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

func staticToken(token string) TokenSource {
	return TokenFunc(func(ctx context.Context) (string, error) {
		return token, nil
	})
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:3001/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:3001", client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)

	client = NewClient("http://localhost:3001", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

// TestClient_Request_BearerHeader проверяет, что токен прикрепляется только при наличии сессии
func TestClient_Request_BearerHeader(t *testing.T) {
	tests := []struct {
		name       string
		token      TokenSource
		wantHeader string
	}{
		{name: "with session", token: staticToken("abc"), wantHeader: "Bearer abc"},
		{name: "empty token", token: staticToken(""), wantHeader: ""},
		{name: "no token source", token: nil, wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantHeader, r.Header.Get("Authorization"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				_, _ = w.Write([]byte(`{"status":true,"message":"ok"}`))
			}))
			defer server.Close()

			var opts []Option
			if tt.token != nil {
				opts = append(opts, WithTokenSource(tt.token))
			}
			client := NewClient(server.URL, opts...)

			var out pkgapi.MessageResponse
			err := client.Request(context.Background(), http.MethodGet, "/ping", RequestOptions{}, &out)
			require.NoError(t, err)
			assert.Equal(t, "ok", out.Message)
		})
	}
}

func TestClient_Request_TokenSourceError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", WithTokenSource(TokenFunc(func(ctx context.Context) (string, error) {
		return "", errors.New("storage is closed")
	})))

	err := client.Request(context.Background(), http.MethodGet, "/ping", RequestOptions{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get access token")
}

// TestClient_Request_Errors проверяет извлечение message из тела ошибки
func TestClient_Request_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		fallback    string
		wantMessage string
		statusCode  int
	}{
		{
			name:        "message from body",
			statusCode:  http.StatusBadRequest,
			body:        `{"status":false,"message":"Event not found"}`,
			fallback:    "Failed to fetch event",
			wantMessage: "Event not found",
		},
		{
			name:        "non json body uses fallback",
			statusCode:  http.StatusInternalServerError,
			body:        "Internal Server Error",
			fallback:    "Failed to fetch events",
			wantMessage: "Failed to fetch events",
		},
		{
			name:        "non string message uses fallback",
			statusCode:  http.StatusBadGateway,
			body:        `{"message":{"code":1}}`,
			fallback:    "Failed to fetch bookings",
			wantMessage: "Failed to fetch bookings",
		},
		{
			name:        "no fallback uses status text",
			statusCode:  http.StatusNotFound,
			body:        "",
			wantMessage: "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			err := client.Request(context.Background(), http.MethodGet, "/x", RequestOptions{Fallback: tt.fallback}, nil)
			require.Error(t, err)

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.statusCode, httpErr.Status)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
			assert.Equal(t, tt.wantMessage, ErrorMessage(err))
			assert.Equal(t, tt.statusCode, StatusCode(err))
		})
	}
}

func TestHTTPError_IsUnauthorized(t *testing.T) {
	assert.ErrorIs(t, &HTTPError{Status: http.StatusUnauthorized}, ErrUnauthorized)
	assert.ErrorIs(t, &HTTPError{Status: http.StatusForbidden}, ErrUnauthorized)
	assert.NotErrorIs(t, &HTTPError{Status: http.StatusBadRequest}, ErrUnauthorized)
}

// TestClient_Login проверяет извлечение токена с разных уровней вложенности
func TestClient_Login(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "top level", body: `{"user":{"_id":"u1","name":"Admin"},"accessToken":"tok"}`},
		{name: "nested data", body: `{"status":true,"data":{"user":{"_id":"u1","name":"Admin"},"accessToken":"tok"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/auth/login", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req pkgapi.LoginRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "admin@example.com", req.Email)

				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			resp, err := client.Login(context.Background(), pkgapi.LoginRequest{Email: "admin@example.com", Password: "secret1"})
			require.NoError(t, err)
			assert.Equal(t, "tok", resp.Token())
			require.NotNil(t, resp.Account())
			assert.Equal(t, "u1", resp.Account().ID)
		})
	}
}

func TestClient_Login_WrongCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), pkgapi.LoginRequest{Email: "a@b.c", Password: "wrong1"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", ErrorMessage(err))
}

func TestClient_BookingSummary_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/booking/summary", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("filter"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("year"))
		_, _ = w.Write([]byte(`{"status":"success","message":{"bookings":[{"_id":"b1","name":"Jane","eventId":{"_id":"e1","title":"Portraits"},"paymentStatus":"paid","totalAmount":"40","createdAt":"2025-07-18T09:00:00Z"}],"pagination":{"currentPage":2,"totalPages":3,"totalData":17}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.BookingSummary(context.Background(), pkgapi.BookingSummaryParams{Filter: pkgapi.FilterAll, Page: 2, Limit: 8})
	require.NoError(t, err)
	require.Len(t, resp.Message.Bookings, 1)
	assert.Equal(t, "e1", resp.Message.Bookings[0].EventID.ID)
	assert.Equal(t, "Portraits", resp.Message.Bookings[0].EventID.Title())
	assert.Equal(t, 17, resp.Message.Pagination.TotalData)
}

func TestClient_CancelBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/booking/admin-cancel/b1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"message":"Booking cancelled"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticToken("tok")))
	resp, err := client.CancelBooking(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Booking cancelled", resp.Message)
}

// TestClient_DeleteVideo_StatusFalse проверяет, что 200 со status=false считается ошибкой
func TestClient_DeleteVideo_StatusFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"Video not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.DeleteVideo(context.Background(), "v1")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, "Video not found", ErrorMessage(err))
}

// TestClient_CreateEvent_Multipart проверяет состав multipart формы и отсутствие JSON content type
func TestClient_CreateEvent_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/event", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Family shoot", r.FormValue("title"))
		assert.Equal(t, "120", r.FormValue("price"))
		assert.Equal(t, `["family","outdoor"]`, r.FormValue("type"))
		assert.Equal(t, "30m", r.FormValue("duration"))
		assert.Equal(t, `[{"types":["kids"]}]`, r.MultipartForm.Value["eventDetails"][0])
		assert.Empty(t, r.FormValue("_id"))

		thumb, header, err := r.FormFile("thumbnail")
		require.NoError(t, err)
		defer thumb.Close()
		assert.Equal(t, "thumb.jpg", header.Filename)
		data, _ := io.ReadAll(thumb)
		assert.Equal(t, "jpeg-bytes", string(data))

		require.Len(t, r.MultipartForm.File["eventDetails"], 1)
		assert.Equal(t, "kids.jpg", r.MultipartForm.File["eventDetails"][0].Filename)

		_, _ = w.Write([]byte(`{"status":true,"message":"Event created","data":{"_id":"e1","title":"Family shoot"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticToken("tok")))
	resp, err := client.CreateEvent(context.Background(), pkgapi.EventInput{
		Title:     "Family shoot",
		Price:     120,
		Types:     []string{"family", "outdoor"},
		Duration:  "30m",
		Location:  "Havelock",
		Thumbnail: &pkgapi.Upload{Filename: "thumb.jpg", Content: strings.NewReader("jpeg-bytes")},
		Details: []pkgapi.EventDetailInput{
			{Types: []string{"kids"}, Image: &pkgapi.Upload{Filename: "kids.jpg", Content: strings.NewReader("kids")}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", resp.Data.ID)
}

func TestClient_Request_BodyAndFormExclusive(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	err := client.Request(context.Background(), http.MethodPost, "/x", RequestOptions{Body: map[string]string{}, Form: NewForm()}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
