// Package handlers - HTTP обработчики dev-сервера. Форматы ответов повторяют
// наблюдаемый контракт бэкенда, включая разные обертки у разных ресурсов.
package handlers

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/havelockadmin/internal/devserver/jwt"
	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/pkg/api"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	// maxUploadSize - предел multipart формы
	maxUploadSize = 64 << 20
	otpTTL        = 10 * time.Minute
)

// OTPSender доставляет код сброса пароля
type OTPSender interface {
	SendOTP(email, code string) error
}

// OTPSenderFunc adapts a function to OTPSender
type OTPSenderFunc func(email, code string) error

// SendOTP implements OTPSender
func (f OTPSenderFunc) SendOTP(email, code string) error {
	return f(email, code)
}

// LogSender пишет код в лог вместо письма
func LogSender(logger *slog.Logger) OTPSender {
	return OTPSenderFunc(func(email, code string) error {
		logger.Info("Password reset code", "email", email, "otp", code)
		return nil
	})
}

// Handler обрабатывает все ресурсы dev-сервера
type Handler struct {
	logger *slog.Logger
	store  storage.Store
	tokens *jwt.Service
	otp    OTPSender
	now    func() time.Time
}

// Option настраивает Handler
type Option func(*Handler)

// WithOTPSender задает доставку кодов сброса пароля
func WithOTPSender(s OTPSender) Option {
	return func(h *Handler) {
		h.otp = s
	}
}

// WithClock подменяет часы (тесты)
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New создает Handler
func New(logger *slog.Logger, store storage.Store, tokens *jwt.Service, opts ...Option) *Handler {
	h := &Handler{
		logger: logger,
		store:  store,
		tokens: tokens,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.otp == nil {
		h.otp = LogSender(logger)
	}
	return h
}

// statusMessage - ответ мутаций: {"status": bool, "message": "..."}
type statusMessage struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

func (h *Handler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func (h *Handler) sendOK(w http.ResponseWriter, message string) {
	h.sendJSON(w, statusMessage{Status: true, Message: message}, http.StatusOK)
}

func (h *Handler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, statusMessage{Message: message}, statusCode)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	h.sendError(w, "internal server error", http.StatusInternalServerError)
}

// pageParams читает page/limit; некорректные значения заменяются значениями по умолчанию
func pageParams(r *http.Request) (page, limit int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	return page, min(limit, maxPageLimit)
}

func paginate(page, limit, total int) api.Pagination {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	return api.Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalData:   total,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}
