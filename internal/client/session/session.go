package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated возвращается операциями, которым нужна сессия
var ErrNotAuthenticated = errors.New("not authenticated")

// State - состояние провайдера сессии
type State int

const (
	// StateLoading - сохраненная сессия еще не прочитана
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session - вошедший администратор
type Session struct {
	Expiry      time.Time
	UserID      string
	DisplayName string
	Email       string
	Role        string
	AccessToken string
}

// Expired сообщает, истек ли токен. Нулевой Expiry - срок неизвестен.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && !now.Before(s.Expiry)
}

// Credentials - данные формы входа
type Credentials struct {
	Email    string
	Password string
}

// tokenExpiry читает exp из JWT без проверки подписи: ключа у клиента нет,
// подпись проверяет бэкенд. Непрозрачный токен дает нулевое время.
func tokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
