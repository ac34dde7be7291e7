package credentials

import (
	"errors"
	"time"
)

type Credential struct {
	ID           string
	UserID       string
	PasswordHash string
	HashVersion  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyRegistered  = errors.New("an account with this email already exists")
)

// unavailableError hides storage failures from the person signing in
// while keeping the cause for logs.
type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return "credentials: store unavailable: " + e.cause.Error()
}

func (e *unavailableError) Unwrap() error {
	return e.cause
}

func (e *unavailableError) UserMessage() string {
	return "Sign in is temporarily unavailable. Please try again later."
}

// IsUnavailable reports whether err came from the credential store
// rather than from the credentials themselves.
func IsUnavailable(err error) bool {
	var u *unavailableError
	return errors.As(err, &u)
}
