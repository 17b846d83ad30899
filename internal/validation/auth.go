package validation

import (
	"fmt"
	"net/mail"
	"regexp"
)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 6
	// OTPLength длина кода из письма
	OTPLength = 6
)

var otpPattern = regexp.MustCompile(fmt.Sprintf(`^[0-9]{%d}$`, OTPLength))

// ValidateEmail проверяет адрес в форме входа и восстановления пароля
func ValidateEmail(email string) error {
	var c collector
	checkEmail(&c, email)
	return c.err()
}

func checkEmail(c *collector, email string) {
	addr, err := mail.ParseAddress(email)
	// адрес вида "Name <a@b.c>" в поле email не принимаем
	c.check(err == nil && addr.Address == email, "email", "Please enter a valid email address.")
}

func checkPassword(c *collector, field, label, password string) {
	c.check(len(password) >= MinPasswordLen, field,
		fmt.Sprintf("%s must be at least %d characters.", label, MinPasswordLen))
}

// ValidateLogin - схема формы входа
func ValidateLogin(email, password string) error {
	var c collector
	checkEmail(&c, email)
	checkPassword(&c, "password", "Password", password)
	return c.err()
}

// ValidateOTP проверяет код подтверждения: ровно 6 цифр
func ValidateOTP(otp string) error {
	var c collector
	c.check(otpPattern.MatchString(otp), "otp", fmt.Sprintf("OTP must be %d digits.", OTPLength))
	return c.err()
}

// ValidateResetPassword - схема формы нового пароля после OTP
func ValidateResetPassword(newPassword, confirmPassword string) error {
	var c collector
	checkPassword(&c, "newPassword", "Password", newPassword)
	checkPassword(&c, "confirmPassword", "Password", confirmPassword)
	if len(c.errs) == 0 {
		c.check(newPassword == confirmPassword, "confirmPassword", "Passwords don't match")
	}
	return c.err()
}

// ValidateChangePassword - схема формы смены пароля в настройках
func ValidateChangePassword(currentPassword, newPassword, confirmPassword string) error {
	var c collector
	checkPassword(&c, "currentPassword", "Current Password", currentPassword)
	checkPassword(&c, "newPassword", "New Password", newPassword)
	checkPassword(&c, "confirmNewPassword", "Confirm New Password", confirmPassword)
	if len(c.errs) == 0 {
		c.check(newPassword == confirmPassword, "confirmNewPassword", "Passwords do not match.")
	}
	return c.err()
}
