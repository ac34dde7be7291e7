package signin

import (
	"context"
	"errors"
	"strings"
)

// FallbackMessage is shown when a failed sign-in carries no readable text.
const FallbackMessage = "Sign in failed. Please try again."

var (
	// ErrInvalidInput is returned by Submit when a field fails validation.
	// The per-field messages are available through Snapshot.
	ErrInvalidInput = errors.New("signin: invalid input")

	// ErrSubmissionInFlight is returned by Submit while another attempt
	// on the same controller has not settled.
	ErrSubmissionInFlight = errors.New("signin: submission already in flight")

	// ErrOAuthUnavailable is returned by BeginOAuth when no trigger is set.
	ErrOAuthUnavailable = errors.New("signin: oauth sign-in is not configured")
)

// FailureKind tags why a sign-in attempt failed.
type FailureKind int

const (
	// KindAuthentication is a rejection that carries its own text.
	KindAuthentication FailureKind = iota
	// KindCanceled covers context cancellation and deadlines.
	KindCanceled
	// KindUnexpected covers empty errors, panics and non-error values.
	KindUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindCanceled:
		return "canceled"
	default:
		return "unexpected"
	}
}

// UserMessager is implemented by errors whose display text differs from Error().
type UserMessager interface {
	UserMessage() string
}

// Failure is the settled result of a rejected sign-in attempt.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure converts any rejection into a Failure with a displayable message.
// A nil err yields an Unexpected failure with FallbackMessage.
func AsFailure(err error) *Failure {
	if err == nil {
		return &Failure{Kind: KindUnexpected, Message: FallbackMessage}
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	var um UserMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return &Failure{Kind: KindAuthentication, Message: msg, Err: err}
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: KindCanceled, Message: "Sign in timed out. Please try again.", Err: err}
	case errors.Is(err, context.Canceled):
		return &Failure{Kind: KindCanceled, Message: "Sign in was canceled.", Err: err}
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return &Failure{Kind: KindUnexpected, Message: FallbackMessage, Err: err}
	}
	return &Failure{Kind: KindAuthentication, Message: msg, Err: err}
}

// failureFromPanic coerces a recovered value. Errors keep their text,
// anything else gets FallbackMessage.
func failureFromPanic(v any) *Failure {
	if err, ok := v.(error); ok {
		f := AsFailure(err)
		return &Failure{Kind: KindUnexpected, Message: f.Message, Err: err}
	}
	return &Failure{Kind: KindUnexpected, Message: FallbackMessage}
}
