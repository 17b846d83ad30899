package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrOTPNotFound indicates that no reset code was issued for the email
	ErrOTPNotFound = errors.New("otp not found")

	// ErrEventNotFound indicates that event was not found
	ErrEventNotFound = errors.New("event not found")

	// ErrBookingNotFound indicates that booking was not found
	ErrBookingNotFound = errors.New("booking not found")

	// ErrVideoNotFound indicates that video was not found
	ErrVideoNotFound = errors.New("video not found")

	// ErrFileNotFound indicates that uploaded file was not found
	ErrFileNotFound = errors.New("file not found")
)
