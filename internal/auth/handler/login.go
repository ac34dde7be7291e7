package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/logger"
	"signin-portal/internal/session"
)

// sessionAuthenticator checks the password and, on success, starts the
// authenticated session for the current request.
type sessionAuthenticator struct {
	h *Handler
	c *gin.Context
}

func (a sessionAuthenticator) SignIn(ctx context.Context, email string, password string) error {
	userID, err := a.h.credentials.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	return a.h.startSession(ctx, a.c, userID, "password")
}

// sessionError keeps store failures out of user-facing messages.
type sessionError struct {
	err error
}

func (e *sessionError) Error() string       { return "start session: " + e.err.Error() }
func (e *sessionError) Unwrap() error       { return e.err }
func (e *sessionError) UserMessage() string { return "Could not start your session. Please try again." }

func (h *Handler) startSession(ctx context.Context, c *gin.Context, userID string, method string) error {
	sess, err := session.New(userID, method, h.sessionTTL)
	if err != nil {
		return &sessionError{err: err}
	}

	if err := h.sessionStore.Create(ctx, sess); err != nil {
		logger.Error("failed to persist session", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return &sessionError{err: fmt.Errorf("persist: %w", err)}
	}

	session.SetCookie(c.Writer, sess, h.cookieOpts)

	logger.Info("login success", map[string]any{
		"user_id": userID,
		"method":  method,
		"ip":      c.ClientIP(),
	})
	return nil
}
