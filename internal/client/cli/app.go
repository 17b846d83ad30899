package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/iocli"
	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/client/nav"
	"github.com/iudanet/havelockadmin/internal/client/query"
	"github.com/iudanet/havelockadmin/internal/client/session"
	"github.com/iudanet/havelockadmin/internal/client/storage/boltdb"
	"github.com/iudanet/havelockadmin/internal/client/views"
	"github.com/iudanet/havelockadmin/internal/config"
)

// App - все долгоживущие части клиента. В режиме shell живет между командами,
// поэтому кэш, сессия и исполнители мутаций общие для всех экранов.
type App struct {
	cfg      *config.Config
	io       iocli.IO
	logger   *slog.Logger
	client   *api.Client
	cache    *query.Cache
	sessions *session.Provider
	nav      *nav.Navigator
	store    *boltdb.Storage

	dashboard *views.DashboardView
	revenue   *views.RevenueView
	bookings  *views.BookingsView
	events    *views.EventsView
	videos    *views.VideosView
	account   *views.AccountView
}

// NewApp открывает хранилище сессии и собирает клиент
func NewApp(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger) (*App, error) {
	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &App{
		cfg:    cfg,
		io:     io,
		logger: logger,
		store:  store,
	}

	// клиент берет токен у провайдера, провайдер входит через клиент
	a.client = api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
		api.WithTokenSource(api.TokenFunc(func(ctx context.Context) (string, error) {
			return a.sessions.Token(ctx)
		})),
	)
	a.cache = query.New(
		query.WithLogger(logger),
		query.WithStaleTime(cfg.StaleTime),
		query.WithRetry(query.RetryPolicy{Retries: cfg.QueryRetries, Retryable: transient}),
	)
	a.sessions = session.NewProvider(store, a.client,
		session.WithCache(a.cache),
		session.WithLogger(logger),
		session.WithBaseURL(cfg.APIBaseURL),
	)
	if err := a.sessions.Init(ctx); err != nil {
		logger.Warn("Failed to restore session", "error", err)
	}
	a.nav = nav.NewNavigator(a.sessions)

	vc := views.Config{
		Notifier: mutation.NewWriterNotifier(io),
		Logger:   logger,
		PageSize: cfg.PageSize,
	}
	a.dashboard = views.NewDashboardView(a.client, a.cache, 0, vc)
	a.revenue = views.NewRevenueView(a.client, a.cache, 0, vc)
	a.bookings = views.NewBookingsView(a.client, a.cache, vc)
	a.events = views.NewEventsView(a.client, a.cache, vc)
	a.videos = views.NewVideosView(a.client, a.cache, vc)
	a.account = views.NewAccountView(a.client, vc)

	return a, nil
}

// Close останавливает кэш и закрывает хранилище
func (a *App) Close() error {
	a.bookings.Unmount()
	a.cache.Close()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// enter проверяет маршрут экрана. Без сессии защищенные экраны уводят на /login.
func (a *App) enter(ctx context.Context, route string) error {
	_, err := a.nav.Enter(ctx, route)
	var redirect *nav.RedirectError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &redirect) && redirect.To == nav.RouteLogin:
		return fmt.Errorf("%w: run 'havelock-admin login' first (redirected to %s)", session.ErrNotAuthenticated, redirect.To)
	default:
		return err
	}
}

// preference читает настройку; ошибка хранилища не мешает работе экрана
func (a *App) preference(ctx context.Context, key string) string {
	value, err := a.store.GetPreference(ctx, key)
	if err != nil {
		a.logger.Warn("Failed to read preference", "key", key, "error", err)
		return ""
	}
	return value
}

func (a *App) setPreference(ctx context.Context, key, value string) {
	if err := a.store.SetPreference(ctx, key, value); err != nil {
		a.logger.Warn("Failed to save preference", "key", key, "error", err)
	}
}

// transient - повторять имеет смысл только сетевые сбои и 5xx
func transient(err error) bool {
	status := api.StatusCode(err)
	return status == 0 || status >= http.StatusInternalServerError
}
