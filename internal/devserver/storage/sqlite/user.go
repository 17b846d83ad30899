package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/havelockadmin/internal/devserver/storage"
)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *storage.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*storage.User, error) {
	return s.getUser(ctx, "id", userID)
}

func (s *Storage) getUser(ctx context.Context, column, value string) (*storage.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE ` + column + ` = ?
	`

	user := &storage.User{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdatePassword заменяет хеш пароля
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return checkAffected(res, storage.ErrUserNotFound)
}

// SaveOTP сохраняет новый код, заменяя предыдущий
func (s *Storage) SaveOTP(ctx context.Context, otp *storage.OTP) error {
	query := `
		INSERT INTO otps (email, code, expires_at, verified)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			code = excluded.code,
			expires_at = excluded.expires_at,
			verified = excluded.verified
	`
	if _, err := s.db.ExecContext(ctx, query, otp.Email, otp.Code, otp.ExpiresAt, otp.Verified); err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}

// GetOTP возвращает последний выданный код
func (s *Storage) GetOTP(ctx context.Context, email string) (*storage.OTP, error) {
	otp := &storage.OTP{}
	err := s.db.QueryRowContext(ctx,
		`SELECT email, code, expires_at, verified FROM otps WHERE email = ?`, email,
	).Scan(&otp.Email, &otp.Code, &otp.ExpiresAt, &otp.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return otp, nil
}

// MarkOTPVerified разрешает сброс пароля для email
func (s *Storage) MarkOTPVerified(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE otps SET verified = 1 WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	return checkAffected(res, storage.ErrOTPNotFound)
}

// DeleteOTP удаляет использованный код
func (s *Storage) DeleteOTP(ctx context.Context, email string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM otps WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return nil
}

// SaveFile сохраняет загруженный файл
func (s *Storage) SaveFile(ctx context.Context, file *storage.File) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (id, name, content_type, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		file.ID, file.Name, file.ContentType, file.Data, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

// GetFile возвращает файл вместе с содержимым
func (s *Storage) GetFile(ctx context.Context, fileID string) (*storage.File, error) {
	file := &storage.File{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, content_type, data, created_at FROM files WHERE id = ?`, fileID,
	).Scan(&file.ID, &file.Name, &file.ContentType, &file.Data, &file.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}
