// Package devserver - справочный бэкенд с REST контрактом админки поверх SQLite.
// Используется для локальной разработки и end-to-end тестов клиента.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/havelockadmin/internal/devserver/handlers"
	"github.com/iudanet/havelockadmin/internal/devserver/jwt"
	"github.com/iudanet/havelockadmin/internal/devserver/middleware"
	"github.com/iudanet/havelockadmin/internal/devserver/storage/sqlite"
)

// Config - параметры dev-сервера
type Config struct {
	Addr      string
	DBPath    string
	SeedPath  string
	JWTSecret string
	TokenTTL  time.Duration
	// NoSeed - не заполнять базу демо-данными
	NoSeed bool
	// LoginRate - попыток входа в минуту с одного адреса
	LoginRate int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Addr:      "localhost:8080",
		DBPath:    "havelock-dev.db",
		JWTSecret: "havelock-dev-secret",
		TokenTTL:  24 * time.Hour,
		LoginRate: 20,
	}
}

// Server - собранный dev-сервер
type Server struct {
	logger     *slog.Logger
	store      *sqlite.Storage
	handler    http.Handler
	stopLimits func()
	cfg        Config
}

// Option настраивает Server
type Option func(*options)

type options struct {
	handlerOpts []handlers.Option
}

// WithHandlerOptions передает опции обработчикам (например, перехват OTP в тестах)
func WithHandlerOptions(opts ...handlers.Option) Option {
	return func(o *options) {
		o.handlerOpts = append(o.handlerOpts, opts...)
	}
}

// New открывает базу, применяет сид и собирает маршруты
func New(ctx context.Context, cfg Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	if cfg.LoginRate <= 0 {
		cfg.LoginRate = DefaultConfig().LoginRate
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if !cfg.NoSeed {
		seed, err := LoadSeed(cfg.SeedPath)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		applied, err := seed.Apply(ctx, store)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to apply seed: %w", err)
		}
		logger.Info("Seed checked", "applied", applied, "users", len(seed.Users), "events", len(seed.Events))
	}

	tokens := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	s := &Server{cfg: cfg, logger: logger, store: store}
	s.handler = s.routes(handlers.New(logger, store, tokens, o.handlerOpts...), tokens)
	return s, nil
}

func (s *Server) routes(h *handlers.Handler, tokens *jwt.Service) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(s.logger, tokens)
	protected := func(f http.HandlerFunc) http.Handler {
		return auth(f)
	}

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /uploads/{id}", h.GetUpload)

	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/forget-password", h.ForgotPassword)
	mux.HandleFunc("POST /auth/verify-code", h.VerifyCode)
	mux.Handle("POST /auth/change-password", protected(h.ChangePassword))

	mux.Handle("GET /booking/summary", protected(h.BookingSummary))
	mux.Handle("DELETE /booking/admin-cancel/{id}", protected(h.CancelBooking))

	mux.HandleFunc("GET /event/get-all-events", h.ListEvents)
	mux.HandleFunc("GET /event/{id}", h.GetEvent)
	mux.Handle("POST /event", protected(h.CreateEvent))
	mux.Handle("PUT /event/{id}", protected(h.UpdateEvent))
	mux.Handle("DELETE /event/{id}", protected(h.DeleteEvent))

	mux.Handle("GET /video/get-all-videos", protected(h.ListVideos))
	mux.Handle("POST /video", protected(h.AddVideo))
	mux.Handle("DELETE /video/{id}", protected(h.DeleteVideo))

	rateLimit, stop := middleware.RateLimit(s.logger, 600, time.Minute,
		middleware.PathRateLimit{Path: "/auth/login", Rate: s.cfg.LoginRate, Window: time.Minute},
		middleware.PathRateLimit{Path: "/auth/forget-password", Rate: 5, Window: time.Minute},
	)
	s.stopLimits = stop

	return middleware.Chain(mux,
		middleware.Recovery(s.logger),
		middleware.Logging(s.logger, "/health"),
		rateLimit,
	)
}

// Handler возвращает корневой http.Handler (для httptest)
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает адрес до отмены ctx, затем останавливается с таймаутом
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dev server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down dev server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Close освобождает ресурсы сервера
func (s *Server) Close() error {
	if s.stopLimits != nil {
		s.stopLimits()
	}
	return s.store.Close()
}
