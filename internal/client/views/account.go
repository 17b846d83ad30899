package views

import (
	"context"
	"fmt"

	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/validation"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// AccountBackend - восстановление и смена пароля
type AccountBackend interface {
	ForgotPassword(ctx context.Context, req pkgapi.ForgotPasswordRequest) (*pkgapi.MessageResponse, error)
	VerifyOTP(ctx context.Context, req pkgapi.VerifyOTPRequest) (*pkgapi.MessageResponse, error)
	ResetPassword(ctx context.Context, req pkgapi.ResetPasswordRequest) (*pkgapi.MessageResponse, error)
	ChangePassword(ctx context.Context, req pkgapi.ChangePasswordRequest) (*pkgapi.MessageResponse, error)
}

// AccountView - формы восстановления пароля и настроек.
// Кэш не трогают: ни один ключ не зависит от пароля.
type AccountView struct {
	forgot *mutation.Executor[pkgapi.ForgotPasswordRequest, *pkgapi.MessageResponse]
	verify *mutation.Executor[pkgapi.VerifyOTPRequest, *pkgapi.MessageResponse]
	reset  *mutation.Executor[pkgapi.ResetPasswordRequest, *pkgapi.MessageResponse]
	change *mutation.Executor[pkgapi.ChangePasswordRequest, *pkgapi.MessageResponse]
}

func serverMessage(resp *pkgapi.MessageResponse) string {
	return resp.Message
}

func messageOptions(cfg Config, success, failure string) mutation.Options[*pkgapi.MessageResponse] {
	return mutation.Options[*pkgapi.MessageResponse]{
		Notifier:       cfg.Notifier,
		Logger:         cfg.Logger,
		SuccessMessage: serverMessage,
		Success:        success,
		Failure:        failure,
	}
}

// NewAccountView создает формы аккаунта
func NewAccountView(backend AccountBackend, cfg Config) *AccountView {
	cfg = cfg.withDefaults()
	return &AccountView{
		forgot: mutation.New[pkgapi.ForgotPasswordRequest, *pkgapi.MessageResponse](nil, backend.ForgotPassword,
			messageOptions(cfg, "OTP sent to your email", "Failed to send OTP")),
		verify: mutation.New[pkgapi.VerifyOTPRequest, *pkgapi.MessageResponse](nil, backend.VerifyOTP,
			messageOptions(cfg, "OTP verified successfully", "Invalid OTP")),
		reset: mutation.New[pkgapi.ResetPasswordRequest, *pkgapi.MessageResponse](nil, backend.ResetPassword,
			messageOptions(cfg, "Password reset successfully", "Failed to reset password")),
		change: mutation.New[pkgapi.ChangePasswordRequest, *pkgapi.MessageResponse](nil, backend.ChangePassword,
			messageOptions(cfg, "Password changed successfully", "Failed to change password")),
	}
}

// ForgotPassword отправляет код на email
func (v *AccountView) ForgotPassword(ctx context.Context, email string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}
	if _, err := v.forgot.Mutate(ctx, pkgapi.ForgotPasswordRequest{Email: email}); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

// VerifyOTP проверяет код из письма
func (v *AccountView) VerifyOTP(ctx context.Context, email, otp string) error {
	if err := validation.ValidateOTP(otp); err != nil {
		return err
	}
	if _, err := v.verify.Mutate(ctx, pkgapi.VerifyOTPRequest{Email: email, OTP: otp}); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	return nil
}

// ResetPassword устанавливает новый пароль после проверки кода
func (v *AccountView) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	if err := validation.ValidateResetPassword(newPassword, confirmPassword); err != nil {
		return err
	}
	if _, err := v.reset.Mutate(ctx, pkgapi.ResetPasswordRequest{Email: email, NewPassword: newPassword}); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// ChangePassword меняет пароль текущего пользователя
func (v *AccountView) ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) error {
	if err := validation.ValidateChangePassword(currentPassword, newPassword, confirmPassword); err != nil {
		return err
	}
	req := pkgapi.ChangePasswordRequest{OldPassword: currentPassword, NewPassword: newPassword}
	if _, err := v.change.Mutate(ctx, req); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
