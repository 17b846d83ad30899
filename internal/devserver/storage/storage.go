// Package storage - хранилище dev-сервера: пользователи, коды сброса пароля,
// события, бронирования, видео и загруженные файлы
package storage

import (
	"context"
	"time"

	"github.com/iudanet/havelockadmin/pkg/api"
)

// User - учетная запись администратора
type User struct {
	CreatedAt    time.Time
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	Role         string
}

// OTP - одноразовый код сброса пароля
type OTP struct {
	ExpiresAt time.Time
	Email     string
	Code      string
	Verified  bool
}

// File - загруженный файл (обложка, изображение детали, видео)
type File struct {
	CreatedAt   time.Time
	ID          string
	Name        string
	ContentType string
	Data        []byte
}

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser returns ErrUserAlreadyExists if email is taken
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*User, error)

	// UpdatePassword returns ErrUserNotFound if user doesn't exist
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// OTPStorage хранит по одному коду на email
type OTPStorage interface {
	// SaveOTP заменяет предыдущий код
	SaveOTP(ctx context.Context, otp *OTP) error
	// GetOTP returns ErrOTPNotFound if no code was issued
	GetOTP(ctx context.Context, email string) (*OTP, error)
	MarkOTPVerified(ctx context.Context, email string) error
	DeleteOTP(ctx context.Context, email string) error
}

// EventStorage defines interface for events
type EventStorage interface {
	CreateEvent(ctx context.Context, event *api.Event) error
	// GetEvent returns ErrEventNotFound if event doesn't exist
	GetEvent(ctx context.Context, eventID string) (*api.Event, error)
	// ListEvents возвращает события в порядке создания
	ListEvents(ctx context.Context) ([]api.Event, error)
	UpdateEvent(ctx context.Context, event *api.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// BookingStorage defines interface for bookings
type BookingStorage interface {
	CreateBooking(ctx context.Context, booking *api.Booking) error
	// GetBooking returns ErrBookingNotFound if booking doesn't exist
	GetBooking(ctx context.Context, bookingID string) (*api.Booking, error)
	// ListBookings - страница бронирований, новые первыми, и общее количество
	ListBookings(ctx context.Context, offset, limit int) ([]api.Booking, int, error)
	// BookingsBetween - бронирования, созданные в [from, to)
	BookingsBetween(ctx context.Context, from, to time.Time) ([]api.Booking, error)
	UpdatePaymentStatus(ctx context.Context, bookingID, status string) error
}

// VideoStorage defines interface for videos
type VideoStorage interface {
	CreateVideo(ctx context.Context, video *api.Video) error
	// ListVideos - страница видео, новые первыми, и общее количество
	ListVideos(ctx context.Context, offset, limit int) ([]api.Video, int, error)
	DeleteVideo(ctx context.Context, videoID string) error
}

// FileStorage хранит загрузки в базе, чтобы dev-серверу не нужен был каталог
type FileStorage interface {
	SaveFile(ctx context.Context, file *File) error
	// GetFile returns ErrFileNotFound if file doesn't exist
	GetFile(ctx context.Context, fileID string) (*File, error)
}

// Store - все хранилища dev-сервера
type Store interface {
	UserStorage
	OTPStorage
	EventStorage
	BookingStorage
	VideoStorage
	FileStorage
}
