package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// DefaultTimeout - таймаут HTTP клиента по умолчанию
const DefaultTimeout = 30 * time.Second

// TokenSource отдает текущий access token.
// Пустая строка без ошибки означает, что сессии нет и заголовок не нужен.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc адаптирует функцию к TokenSource
type TokenFunc func(ctx context.Context) (string, error)

// Token implements TokenSource
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Client представляет HTTP клиент для взаимодействия с бэкендом
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	baseURL    string
}

// Option настраивает Client
type Option func(*Client)

// WithTokenSource подключает источник bearer токена
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger задает логгер запросов
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout задает таймаут HTTP клиента
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient подменяет http.Client (тесты, прокси)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.New(slog.DiscardHandler),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL возвращает адрес бэкенда
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions описывает тело и параметры запроса.
// Body кодируется в JSON, Form - в multipart/form-data; одновременно задавать нельзя.
type RequestOptions struct {
	Query url.Values
	Body  any
	Form  *Form
	// Fallback - сообщение об ошибке, если сервер не прислал message
	Fallback string
}

// Request выполняет HTTP запрос и декодирует успешный ответ в out (если out != nil)
func (c *Client) Request(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	if opts.Body != nil && opts.Form != nil {
		return fmt.Errorf("request %s %s: body and form are mutually exclusive", method, path)
	}

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var (
		bodyReader  io.Reader
		contentType string
	)
	switch {
	case opts.Form != nil:
		buf, ct, err := opts.Form.encode()
		if err != nil {
			return fmt.Errorf("failed to encode form: %w", err)
		}
		bodyReader, contentType = buf, ct
	case opts.Body != nil:
		jsonData, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader, contentType = bytes.NewReader(jsonData), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Для multipart заголовок содержит boundary, JSON тип не ставим
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "HTTP request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.DebugContext(ctx, "HTTP request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp.StatusCode, respBody, opts.Fallback)
	}

	// Декодируем успешный ответ
	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// checkMessage превращает 2xx ответ с status/success=false в HTTPError
func checkMessage(resp *pkgapi.MessageResponse, fallback string) error {
	if !resp.Failed() {
		return nil
	}
	msg := resp.Message
	if msg == "" {
		msg = fallback
	}
	return &HTTPError{Status: http.StatusOK, Message: msg}
}
