package signin

import "signin-portal/internal/logger"

// LogNotifier reports outcomes through the application logger.
type LogNotifier struct {
	Email string
}

func (n LogNotifier) SuccessSignIn() {
	logger.Info("sign in succeeded", map[string]any{
		"email": n.Email,
	})
}

func (n LogNotifier) ErrorSignIn(message string) {
	logger.Info("sign in failed", map[string]any{
		"email": n.Email,
		"error": message,
	})
}

// Notifiers fans each call out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) SuccessSignIn() {
	for _, n := range ns {
		n.SuccessSignIn()
	}
}

func (ns Notifiers) ErrorSignIn(message string) {
	for _, n := range ns {
		n.ErrorSignIn(message)
	}
}
