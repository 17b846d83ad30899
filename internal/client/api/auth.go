package api

import (
	"context"
	"fmt"
	"net/http"

	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// Login выполняет аутентификацию администратора
func (c *Client) Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.LoginResponse, error) {
	var resp pkgapi.LoginResponse
	err := c.Request(ctx, http.MethodPost, "/auth/login", RequestOptions{
		Body:     req,
		Fallback: "Invalid email or password",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// ForgotPassword запрашивает отправку OTP на email
func (c *Client) ForgotPassword(ctx context.Context, req pkgapi.ForgotPasswordRequest) (*pkgapi.MessageResponse, error) {
	var resp pkgapi.MessageResponse
	err := c.Request(ctx, http.MethodPost, "/auth/forget-password", RequestOptions{
		Body:     req,
		Fallback: "Email not found or unable to send OTP",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("forgot password request failed: %w", err)
	}
	return &resp, nil
}

// VerifyOTP проверяет одноразовый код
func (c *Client) VerifyOTP(ctx context.Context, req pkgapi.VerifyOTPRequest) (*pkgapi.MessageResponse, error) {
	var resp pkgapi.MessageResponse
	err := c.Request(ctx, http.MethodPost, "/auth/verify-code", RequestOptions{
		Body:     req,
		Fallback: "Invalid or expired verification code",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("verify code request failed: %w", err)
	}
	return &resp, nil
}

// ResetPassword устанавливает новый пароль (тот же endpoint, что и VerifyOTP)
func (c *Client) ResetPassword(ctx context.Context, req pkgapi.ResetPasswordRequest) (*pkgapi.MessageResponse, error) {
	var resp pkgapi.MessageResponse
	err := c.Request(ctx, http.MethodPost, "/auth/verify-code", RequestOptions{
		Body:     req,
		Fallback: "Unable to reset password",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("reset password request failed: %w", err)
	}
	return &resp, nil
}

// ChangePassword меняет пароль текущего пользователя (требует bearer токен)
func (c *Client) ChangePassword(ctx context.Context, req pkgapi.ChangePasswordRequest) (*pkgapi.MessageResponse, error) {
	var resp pkgapi.MessageResponse
	err := c.Request(ctx, http.MethodPost, "/auth/change-password", RequestOptions{
		Body:     req,
		Fallback: "Failed to change password",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("change password request failed: %w", err)
	}
	if err := checkMessage(&resp, "Failed to change password"); err != nil {
		return nil, fmt.Errorf("change password request failed: %w", err)
	}
	return &resp, nil
}
