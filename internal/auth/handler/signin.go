package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/logger"
	"signin-portal/internal/signin"
	"signin-portal/internal/view"
)

func (h *Handler) signInForm(snap signin.Snapshot) view.SignInForm {
	return view.SignInForm{
		Snapshot:  snap,
		Providers: h.providerLinks(),
	}
}

// signInPage renders the stored form. A failure is shown once: it is
// dropped from the form cookie as it is rendered.
func (h *Handler) signInPage(c *gin.Context) {
	snap := h.loadSnapshot(c)
	if snap.State.Phase == signin.Failed {
		shown := snap
		shown.State = signin.State{Phase: signin.Idle}
		h.saveSnapshot(c, shown)
	}
	h.page(c, http.StatusOK, "Sign in", view.SignInPage(h.signInForm(snap)))
}

// signInPost is the password sign-in command. It is the only action
// bound to the form's submit.
func (h *Handler) signInPost(c *gin.Context) {
	in := signin.CredentialInput{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	ctrl := h.controller(c)
	err := ctrl.Submit(c.Request.Context(), in)

	switch {
	case err == nil:
		h.clearSnapshot(c)
		c.Redirect(http.StatusSeeOther, view.RouteGallery)

	case errors.Is(err, signin.ErrInvalidInput):
		snap := ctrl.Snapshot()
		h.saveSnapshot(c, snap)
		h.page(c, http.StatusUnprocessableEntity, "Sign in", view.SignInPage(h.signInForm(snap)))

	default:
		logger.Debug("sign in attempt settled with failure", map[string]any{
			"state": ctrl.State().Phase.String(),
		})
		h.saveSnapshot(c, ctrl.Snapshot())
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
	}
}

// validateField runs blur validation and returns the re-rendered field.
func (h *Handler) validateField(c *gin.Context) {
	f, ok := signin.ParseField(c.Param("field"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	value := c.PostForm(string(f))
	ctrl := h.controller(c)
	res := ctrl.Blur(f, value)
	snap := ctrl.Snapshot()
	h.saveSnapshot(c, snap)

	switch f {
	case signin.FieldEmail:
		h.fragment(c, http.StatusOK, view.EmailField(value, res.Message))
	case signin.FieldPassword:
		h.fragment(c, http.StatusOK, view.PasswordField(value, snap.PasswordVisible, res.Message))
	}
}

func (h *Handler) toggleVisibility(c *gin.Context) {
	ctrl := h.controller(c)
	ctrl.ToggleVisibility()
	snap := ctrl.Snapshot()
	h.saveSnapshot(c, snap)

	h.fragment(c, http.StatusOK, view.PasswordField(
		c.PostForm("password"),
		snap.PasswordVisible,
		snap.FieldError(signin.FieldPassword),
	))
}
