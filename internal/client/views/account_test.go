package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/validation"
)

func TestAccountView_ResetFlow(t *testing.T) {
	backend := newFakeBackend()
	rec := newRecorder()
	view := NewAccountView(backend, testConfig(rec))
	ctx := context.Background()

	require.NoError(t, view.ForgotPassword(ctx, "admin@example.com"))
	require.NoError(t, view.VerifyOTP(ctx, "admin@example.com", "123456"))
	require.NoError(t, view.ResetPassword(ctx, "admin@example.com", "secret1", "secret1"))

	assert.Equal(t, []mutation.Notification{
		{Kind: mutation.KindSuccess, Message: "OTP sent"},
		// сервер не прислал message
		{Kind: mutation.KindSuccess, Message: "OTP verified successfully"},
		{Kind: mutation.KindSuccess, Message: "Password updated"},
	}, rec.messages())
}

func TestAccountView_WrongOTP(t *testing.T) {
	rec := newRecorder()
	view := NewAccountView(newFakeBackend(), testConfig(rec))

	err := view.VerifyOTP(context.Background(), "admin@example.com", "654321")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", api.ErrorMessage(err))
	assert.Equal(t, []mutation.Notification{{Kind: mutation.KindError, Message: "Invalid or expired OTP"}}, rec.messages())
}

func TestAccountView_Validation(t *testing.T) {
	tests := []struct {
		call  func(v *AccountView) error
		name  string
		field string
	}{
		{
			name:  "bad email",
			call:  func(v *AccountView) error { return v.ForgotPassword(context.Background(), "not-an-email") },
			field: "email",
		},
		{
			name:  "short otp",
			call:  func(v *AccountView) error { return v.VerifyOTP(context.Background(), "a@b.co", "123") },
			field: "otp",
		},
		{
			name:  "reset mismatch",
			call:  func(v *AccountView) error { return v.ResetPassword(context.Background(), "a@b.co", "secret1", "secret2") },
			field: "confirmPassword",
		},
		{
			name: "change mismatch",
			call: func(v *AccountView) error {
				return v.ChangePassword(context.Background(), "oldpass", "secret1", "secret2")
			},
			field: "confirmNewPassword",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			rec := newRecorder()
			view := NewAccountView(backend, testConfig(rec))

			err := tt.call(view)
			require.ErrorIs(t, err, validation.ErrInvalid)
			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.NotNil(t, errs.Field(tt.field))

			assert.Empty(t, backend.calls)
			assert.Empty(t, rec.messages())
		})
	}
}

func TestAccountView_ChangePassword(t *testing.T) {
	backend := newFakeBackend()
	rec := newRecorder()
	view := NewAccountView(backend, testConfig(rec))

	require.NoError(t, view.ChangePassword(context.Background(), "oldpass", "secret1", "secret1"))
	assert.Equal(t, 1, backend.count("change"))
	assert.Equal(t, []mutation.Notification{{Kind: mutation.KindSuccess, Message: "Password changed"}}, rec.messages())
}
