package handlers

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/havelockadmin/internal/devserver/middleware"
	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/internal/validation"
	"github.com/iudanet/havelockadmin/pkg/api"
)

// HashPassword хеширует пароль bcrypt (также используется сидом)
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login обрабатывает POST /auth/login.
// Токен отдается во вложенном data, как у бэкенда.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.ValidateLogin(req.Email, req.Password); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login for unknown user")
			h.sendError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.internalError(w, r, "failed to get user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "invalid password", slog.String("user_id", user.ID))
		h.sendError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, _, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		h.internalError(w, r, "failed to issue token", err)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	h.sendJSON(w, api.LoginResponse{
		Message: "Login successful",
		Data: &api.LoginData{
			User:        &api.User{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
			AccessToken: token,
		},
	}, http.StatusOK)
}

// ForgotPassword обрабатывает POST /auth/forget-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetUserByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, "User not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, "failed to get user", err)
		return
	}

	code, err := newOTP()
	if err != nil {
		h.internalError(w, r, "failed to generate otp", err)
		return
	}
	otp := &storage.OTP{Email: req.Email, Code: code, ExpiresAt: h.now().Add(otpTTL)}
	if err := h.store.SaveOTP(ctx, otp); err != nil {
		h.internalError(w, r, "failed to save otp", err)
		return
	}
	if err := h.otp.SendOTP(req.Email, code); err != nil {
		h.internalError(w, r, "failed to send otp", err)
		return
	}

	h.sendOK(w, "OTP sent to your email")
}

// verifyCodeRequest - /auth/verify-code принимает и проверку кода, и новый пароль
type verifyCodeRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// VerifyCode обрабатывает POST /auth/verify-code: {otp, email} или {email, newPassword}
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch {
	case req.OTP != "":
		h.verifyOTP(w, r, req)
	case req.NewPassword != "":
		h.resetPassword(w, r, req)
	default:
		h.sendError(w, "otp or newPassword is required", http.StatusBadRequest)
	}
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request, req verifyCodeRequest) {
	ctx := r.Context()

	otp, err := h.store.GetOTP(ctx, req.Email)
	if err != nil && !errors.Is(err, storage.ErrOTPNotFound) {
		h.internalError(w, r, "failed to get otp", err)
		return
	}
	if otp == nil || otp.Code != req.OTP || h.now().After(otp.ExpiresAt) {
		h.sendError(w, "Invalid or expired OTP", http.StatusBadRequest)
		return
	}

	if err := h.store.MarkOTPVerified(ctx, req.Email); err != nil {
		h.internalError(w, r, "failed to verify otp", err)
		return
	}
	h.sendOK(w, "OTP verified successfully")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request, req verifyCodeRequest) {
	ctx := r.Context()

	otp, err := h.store.GetOTP(ctx, req.Email)
	if err != nil && !errors.Is(err, storage.ErrOTPNotFound) {
		h.internalError(w, r, "failed to get otp", err)
		return
	}
	if otp == nil || !otp.Verified || h.now().After(otp.ExpiresAt) {
		h.sendError(w, "OTP is not verified", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateResetPassword(req.NewPassword, req.NewPassword); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, "User not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, "failed to get user", err)
		return
	}
	if !h.setPassword(w, r, user.ID, req.NewPassword) {
		return
	}
	if err := h.store.DeleteOTP(ctx, req.Email); err != nil {
		h.internalError(w, r, "failed to delete otp", err)
		return
	}

	h.logger.InfoContext(ctx, "password reset", slog.String("user_id", user.ID))
	h.sendOK(w, "Password reset successfully")
}

// ChangePassword обрабатывает POST /auth/change-password (требует токен)
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		h.internalError(w, r, "failed to get user", err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		h.sendError(w, "Old password is incorrect", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateResetPassword(req.NewPassword, req.NewPassword); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.setPassword(w, r, user.ID, req.NewPassword) {
		return
	}

	h.logger.InfoContext(ctx, "password changed", slog.String("user_id", user.ID))
	h.sendOK(w, "Password changed successfully")
}

func (h *Handler) setPassword(w http.ResponseWriter, r *http.Request, userID, password string) bool {
	hash, err := HashPassword(password)
	if err != nil {
		h.internalError(w, r, "failed to hash password", err)
		return false
	}
	if err := h.store.UpdatePassword(r.Context(), userID, hash); err != nil {
		h.internalError(w, r, "failed to update password", err)
		return false
	}
	return true
}

// newOTP - 6 случайных цифр
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", validation.OTPLength, n.Int64()), nil
}
