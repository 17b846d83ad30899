package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/havelockadmin/internal/client/storage"
	"github.com/iudanet/havelockadmin/internal/validation"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// Authenticator - вызов входа на бэкенде (api.Client)
type Authenticator interface {
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.LoginResponse, error)
}

// CacheClearer - кэш запросов, который очищается при смене сессии
type CacheClearer interface {
	Clear()
}

// Provider - единственный владелец сессии в процессе.
// Все записи идут через Init, SignIn и SignOut; остальным доступно только чтение.
type Provider struct {
	current *Session
	store   storage.SessionStorage
	auth    Authenticator
	cache   CacheClearer
	logger  *slog.Logger
	now     func() time.Time
	ready   chan struct{}
	baseURL string
	state   State
	once    sync.Once
	mu      sync.RWMutex
}

// Option настраивает Provider
type Option func(*Provider)

// WithCache задает кэш, очищаемый при входе и выходе
func WithCache(c CacheClearer) Option {
	return func(p *Provider) {
		p.cache = c
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// WithBaseURL привязывает сессии к бэкенду: сохраненная для другого адреса не восстанавливается
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// NewProvider создает провайдер в состоянии loading
func NewProvider(store storage.SessionStorage, auth Authenticator, opts ...Option) *Provider {
	p := &Provider{
		store:  store,
		auth:   auth,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		ready:  make(chan struct{}),
		state:  StateLoading,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init читает сохраненную сессию и переводит провайдер из loading.
// Истекшая или чужая сессия удаляется и дает unauthenticated.
// Ошибка хранилища тоже дает unauthenticated, но возвращается вызывающему.
func (p *Provider) Init(ctx context.Context) error {
	data, err := p.store.GetSession(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		p.resolve(nil)
		return nil
	case err != nil:
		p.resolve(nil)
		return fmt.Errorf("failed to load session: %w", err)
	}

	s := fromData(data)
	if s.Expired(p.now()) || (p.baseURL != "" && data.BaseURL != p.baseURL) || s.AccessToken == "" {
		p.logger.Info("Stored session discarded", "user_id", s.UserID, "expired", s.Expired(p.now()))
		if err := p.store.DeleteSession(ctx); err != nil {
			p.logger.Warn("Failed to delete stale session", "error", err)
		}
		p.resolve(nil)
		return nil
	}

	p.resolve(s)
	return nil
}

// resolve выставляет сессию и, при первом вызове, снимает состояние loading
func (p *Provider) resolve(s *Session) {
	p.mu.Lock()
	p.current = s
	if s != nil {
		p.state = StateAuthenticated
	} else {
		p.state = StateUnauthenticated
	}
	p.mu.Unlock()
	p.once.Do(func() { close(p.ready) })
}

// Session возвращает сессию, дожидаясь окончания loading. nil - не вошли.
func (p *Provider) Session(ctx context.Context) (*Session, error) {
	select {
	case <-p.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.Current(), nil
}

// Current возвращает копию сессии без ожидания; nil в loading и без входа
func (p *Provider) Current() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	s := *p.current
	return &s
}

// State возвращает текущее состояние
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Token implements api.TokenSource: пустая строка - заголовок не нужен
func (p *Provider) Token(ctx context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return "", nil
	}
	return p.current.AccessToken, nil
}

// SignIn проверяет форму, входит на бэкенде и сохраняет сессию.
// Кэш очищается: страницы прошлой учетной записи не должны показываться новой.
// При любой ошибке сессия не создается и состояние не меняется.
func (p *Provider) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	if err := validation.ValidateLogin(creds.Email, creds.Password); err != nil {
		return nil, err
	}

	resp, err := p.auth.Login(ctx, pkgapi.LoginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}

	token := resp.Token()
	if token == "" {
		return nil, fmt.Errorf("sign in failed: login response has no access token")
	}

	s := &Session{
		AccessToken: token,
		Email:       creds.Email,
		Expiry:      tokenExpiry(token),
	}
	if u := resp.Account(); u != nil {
		s.UserID = u.ID
		s.DisplayName = u.Name
		s.Role = u.Role
		if u.Email != "" {
			s.Email = u.Email
		}
	}

	if err := p.store.SaveSession(ctx, toData(s, p.baseURL)); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	p.resolve(s)
	if p.cache != nil {
		p.cache.Clear()
	}
	p.logger.Info("Signed in", "user_id", s.UserID, "email", s.Email)

	out := *s
	return &out, nil
}

// SignOut удаляет сессию из хранилища и очищает кэш запросов
func (p *Provider) SignOut(ctx context.Context) error {
	err := p.store.DeleteSession(ctx)

	p.resolve(nil)
	if p.cache != nil {
		p.cache.Clear()
	}
	p.logger.Info("Signed out")

	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func fromData(d *storage.SessionData) *Session {
	s := &Session{
		UserID:      d.UserID,
		DisplayName: d.DisplayName,
		Email:       d.Email,
		Role:        d.Role,
		AccessToken: d.AccessToken,
	}
	if d.ExpiresAt != 0 {
		s.Expiry = time.Unix(d.ExpiresAt, 0)
	} else {
		s.Expiry = tokenExpiry(d.AccessToken)
	}
	return s
}

func toData(s *Session, baseURL string) *storage.SessionData {
	d := &storage.SessionData{
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		Email:       s.Email,
		Role:        s.Role,
		AccessToken: s.AccessToken,
		BaseURL:     baseURL,
	}
	if !s.Expiry.IsZero() {
		d.ExpiresAt = s.Expiry.Unix()
	}
	return d
}
