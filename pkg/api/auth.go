package api

// LoginRequest представляет запрос на аутентификацию администратора
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User описывает учетную запись, возвращаемую бэкендом после логина
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// LoginData - вложенный вариант ответа на логин ({"data": {...}})
type LoginData struct {
	User        *User  `json:"user,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// LoginResponse представляет ответ на POST /auth/login.
// Бэкенд отдает accessToken то на верхнем уровне, то внутри data,
// поэтому читать токен и пользователя нужно только через Token и Account.
type LoginResponse struct {
	User        *User      `json:"user,omitempty"`
	Data        *LoginData `json:"data,omitempty"`
	AccessToken string     `json:"accessToken,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// Token возвращает access token независимо от уровня вложенности
func (r *LoginResponse) Token() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	if r.Data != nil {
		return r.Data.AccessToken
	}
	return ""
}

// Account возвращает данные пользователя независимо от уровня вложенности
func (r *LoginResponse) Account() *User {
	if r.User != nil {
		return r.User
	}
	if r.Data != nil {
		return r.Data.User
	}
	return nil
}

// ForgotPasswordRequest запускает отправку OTP на email
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest проверяет одноразовый код
type VerifyOTPRequest struct {
	OTP   string `json:"otp"`
	Email string `json:"email"`
}

// ResetPasswordRequest устанавливает новый пароль после проверки OTP.
// Отправляется на тот же /auth/verify-code, что и VerifyOTPRequest.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest меняет пароль авторизованного пользователя
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
