package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/auth/credentials"
	"signin-portal/internal/logger"
	"signin-portal/internal/signin"
	"signin-portal/internal/view"
)

func (h *Handler) signUpPage(c *gin.Context) {
	h.page(c, http.StatusOK, "Sign up", view.SignUpPage(view.SignUpForm{}))
}

func (h *Handler) signUpPost(c *gin.Context) {
	in := signin.CredentialInput{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if errs := h.schema.ValidateInput(in); len(errs) > 0 {
		h.page(c, http.StatusUnprocessableEntity, "Sign up", view.SignUpPage(view.SignUpForm{
			Email:       in.Email,
			FieldErrors: errs,
		}))
		return
	}

	userID, err := h.credentials.Register(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrAlreadyRegistered) {
			h.page(c, http.StatusConflict, "Sign up", view.SignUpPage(view.SignUpForm{
				Email:       in.Email,
				FieldErrors: map[signin.Field]string{signin.FieldEmail: err.Error()},
			}))
			return
		}

		logger.Error("registration failed", map[string]any{
			"error": err.Error(),
		})
		h.addFlash(c, flashKeyError, signin.AsFailure(err).Message)
		c.Redirect(http.StatusSeeOther, view.RouteSignUp)
		return
	}

	if err := h.startSession(c.Request.Context(), c, userID, "password"); err != nil {
		h.addFlash(c, flashKeyError, "Account created. Please sign in.")
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
		return
	}

	h.addFlash(c, flashKeySuccess, "Account created.")
	c.Redirect(http.StatusSeeOther, view.RouteGallery)
}
