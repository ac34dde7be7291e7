package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/auth/credentials"
	"signin-portal/internal/signin"
)

// apiSignIn is the JSON form of the password sign-in. It runs the same
// controller as the HTML form with a log-only notifier.
func (h *Handler) apiSignIn(c *gin.Context) {
	var in signin.CredentialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request")
		return
	}

	orch := signin.NewOrchestrator(
		sessionAuthenticator{h: h, c: c},
		signin.LogNotifier{Email: in.Email},
		nil,
	)
	ctrl := signin.NewController(h.schema, orch)

	err := ctrl.Submit(c.Request.Context(), in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "signed_in"})

	case errors.Is(err, signin.ErrInvalidInput):
		fields := make(map[string]string)
		for f, msg := range ctrl.Snapshot().FieldErrors {
			fields[string(f)] = msg
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fields})

	default:
		status := http.StatusUnauthorized
		if credentials.IsUnavailable(err) {
			status = http.StatusServiceUnavailable
		}
		var se *sessionError
		if errors.As(err, &se) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": ctrl.State().Message})
	}
}
