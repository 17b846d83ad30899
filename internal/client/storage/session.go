package storage

import (
	"context"
	"time"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage хранит сессию администратора между запусками клиента
type SessionStorage interface {
	// SaveSession сохраняет (перезаписывает) текущую сессию
	SaveSession(ctx context.Context, s *SessionData) error

	// GetSession возвращает сохраненную сессию.
	// Returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession удаляет сессию (logout). Отсутствие сессии не ошибка.
	DeleteSession(ctx context.Context) error
}

// SessionData - сессия в хранилище
type SessionData struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role,omitempty"`
	AccessToken string `json:"access_token"`
	// BaseURL - бэкенд, выдавший токен; с другим бэкендом сессия не восстанавливается
	BaseURL   string `json:"base_url"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// Expired сообщает, истек ли токен к моменту now. ExpiresAt == 0 - срок неизвестен.
func (s *SessionData) Expired(now time.Time) bool {
	return s.ExpiresAt != 0 && !now.Before(time.Unix(s.ExpiresAt, 0))
}
