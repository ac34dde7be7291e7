package signin

import (
	"context"

	"signin-portal/internal/logger"
)

// Authenticator performs the password sign-in. A returned error is a
// rejection; its text is shown to the user unless it is empty.
type Authenticator interface {
	SignIn(ctx context.Context, email string, password string) error
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, email string, password string) error

func (f AuthenticatorFunc) SignIn(ctx context.Context, email string, password string) error {
	return f(ctx, email, password)
}

// Notifier presents the outcome of a sign-in attempt. Calls are
// fire-and-forget.
type Notifier interface {
	SuccessSignIn()
	ErrorSignIn(message string)
}

// OAuthTrigger starts a redirect-based third-party sign-in. Its outcome
// is not observed here.
type OAuthTrigger interface {
	Trigger(ctx context.Context) error
}

// OAuthTriggerFunc adapts a function to OAuthTrigger.
type OAuthTriggerFunc func(ctx context.Context) error

func (f OAuthTriggerFunc) Trigger(ctx context.Context) error {
	return f(ctx)
}

// settler receives the final state of an attempt.
type settler interface {
	settle(State)
}

// Orchestrator mediates between form state and the authenticator.
type Orchestrator struct {
	auth   Authenticator
	notify Notifier
	oauth  OAuthTrigger
}

// NewOrchestrator wires the collaborators. oauth may be nil.
func NewOrchestrator(auth Authenticator, notify Notifier, oauth OAuthTrigger) *Orchestrator {
	return &Orchestrator{
		auth:   auth,
		notify: notify,
		oauth:  oauth,
	}
}

// AttemptSignIn runs one attempt and settles sink exactly once, whatever
// happens in between. Success notifies SuccessSignIn; a rejection is
// converted to a Failure, passed to ErrorSignIn and returned.
func (o *Orchestrator) AttemptSignIn(
	ctx context.Context,
	email string,
	password string,
	sink settler,
) error {
	final := State{Phase: Failed, Message: FallbackMessage}
	defer func() {
		sink.settle(final)
	}()

	if err := o.callAuth(ctx, email, password); err != nil {
		f := AsFailure(err)
		final = State{Phase: Failed, Message: f.Message}

		logger.Warn("sign in rejected", map[string]any{
			"kind":  f.Kind.String(),
			"error": f.Message,
		})

		o.notify.ErrorSignIn(f.Message)
		return f
	}

	final = State{Phase: Succeeded}
	o.notify.SuccessSignIn()
	return nil
}

func (o *Orchestrator) callAuth(ctx context.Context, email, password string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("authenticator panicked", map[string]any{
				"panic": r,
			})
			err = failureFromPanic(r)
		}
	}()
	return o.auth.SignIn(ctx, email, password)
}

// BeginOAuth starts the third-party flow. It is independent of any
// password submission and touches no form state.
func (o *Orchestrator) BeginOAuth(ctx context.Context) error {
	if o.oauth == nil {
		return ErrOAuthUnavailable
	}
	return o.oauth.Trigger(ctx)
}
