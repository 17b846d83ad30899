package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/internal/devserver/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	// in-memory database для тестов
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newTestUser(email string) *storage.User {
	return &storage.User{
		ID:           uuid.New().String(),
		Name:         "Admin",
		Email:        email,
		PasswordHash: "hash",
		Role:         "admin",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	tests := []struct {
		wantError error
		user      *storage.User
		name      string
	}{
		{
			name: "create new user successfully",
			user: newTestUser("admin@example.com"),
		},
		{
			name:      "duplicate email",
			user:      newTestUser("admin@example.com"),
			wantError: storage.ErrUserAlreadyExists,
		},
		{
			name: "another email",
			user: newTestUser("other@example.com"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := s.GetUserByEmail(ctx, tt.user.Email)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, got.ID)
			assert.Equal(t, tt.user.Role, got.Role)
			assert.True(t, tt.user.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestUserStorage_NotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	err = s.UpdatePassword(ctx, uuid.New().String(), "hash")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	user := newTestUser("admin@example.com")
	require.NoError(t, s.CreateUser(ctx, user))
	require.NoError(t, s.UpdatePassword(ctx, user.ID, "new-hash"))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestOTPStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)
	expires := time.Now().UTC().Add(10 * time.Minute).Truncate(time.Second)

	_, err := s.GetOTP(ctx, "admin@example.com")
	require.ErrorIs(t, err, storage.ErrOTPNotFound)

	require.NoError(t, s.SaveOTP(ctx, &storage.OTP{Email: "admin@example.com", Code: "111111", ExpiresAt: expires}))
	require.NoError(t, s.MarkOTPVerified(ctx, "admin@example.com"))

	// новый код сбрасывает подтверждение
	require.NoError(t, s.SaveOTP(ctx, &storage.OTP{Email: "admin@example.com", Code: "222222", ExpiresAt: expires}))
	otp, err := s.GetOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", otp.Code)
	assert.False(t, otp.Verified)
	assert.True(t, expires.Equal(otp.ExpiresAt))

	require.NoError(t, s.MarkOTPVerified(ctx, "admin@example.com"))
	otp, err = s.GetOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, otp.Verified)

	require.NoError(t, s.DeleteOTP(ctx, "admin@example.com"))
	_, err = s.GetOTP(ctx, "admin@example.com")
	assert.ErrorIs(t, err, storage.ErrOTPNotFound)
	assert.ErrorIs(t, s.MarkOTPVerified(ctx, "admin@example.com"), storage.ErrOTPNotFound)
}

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	file := &storage.File{
		ID:          uuid.New().String(),
		Name:        "cover.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.SaveFile(ctx, file))

	got, err := s.GetFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.Data, got.Data)
	assert.Equal(t, "image/jpeg", got.ContentType)

	_, err = s.GetFile(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}
