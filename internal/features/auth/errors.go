package auth

import "errors"

var (
	ErrMissingFields      = errors.New("all required fields must be provided")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidState       = errors.New("oauth state mismatch")
	ErrGoogleExchange     = errors.New("google token exchange failed")
)
