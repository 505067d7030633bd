package auth

import "errors"

var (
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrEmailAlreadyExists      = errors.New("an account with this email already exists")
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailNotVerified        = errors.New("email address is not verified")
	ErrEmailAlreadyVerified    = errors.New("email is already verified")
	ErrResendCooldown          = errors.New("a code was sent recently, wait before requesting another")
	ErrInvalidVerificationCode = errors.New("invalid or expired verification code")
	ErrTooManyAttempts         = errors.New("too many incorrect attempts, request a new code")
)
