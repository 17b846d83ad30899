package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized матчится через errors.Is для ответов 401 и 403
var ErrUnauthorized = errors.New("unauthorized")

// HTTPError - ответ сервера со статусом вне диапазона 2xx
type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// Is позволяет проверять ошибки авторизации через errors.Is(err, ErrUnauthorized)
func (e *HTTPError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// newHTTPError берет сообщение из поля message JSON тела, иначе fallback
func newHTTPError(status int, body []byte, fallback string) *HTTPError {
	return &HTTPError{
		Status:  status,
		Message: messageFromBody(body, fallback, status),
	}
}

func messageFromBody(body []byte, fallback string, status int) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if fallback != "" {
		return fallback
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}

// ErrorMessage возвращает сообщение, пригодное для показа пользователю:
// текст сервера для HTTPError, иначе текст ошибки целиком
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}

// StatusCode возвращает HTTP статус из цепочки ошибок или 0
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
