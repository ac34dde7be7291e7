package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/auth/resolver"
	"signin-portal/internal/logger"
	"signin-portal/internal/signin"
	"signin-portal/internal/view"
)

// oauthLogin is the third-party sign-in command. It is reached through
// its own link, never through the credential form's submit.
func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		h.badRequest(c, "unknown oauth provider")
		return
	}

	redirect := signin.OAuthTriggerFunc(func(context.Context) error {
		state, challenge, err := h.startFlow(c)
		if err != nil {
			return err
		}
		c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
		return nil
	})

	orch := signin.NewOrchestrator(sessionAuthenticator{h: h, c: c}, flashNotifier{h: h, c: c}, redirect)
	if err := orch.BeginOAuth(c.Request.Context()); err != nil {
		logger.Error("oauth start failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		h.addFlash(c, flashKeyError, "Could not start "+p.DisplayName()+" sign in.")
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
	}
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		h.badRequest(c, "unknown oauth provider")
		return
	}

	codeVerifier, err := h.finishFlow(c)
	if errors.Is(err, errFlowState) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		h.addFlash(c, flashKeyError, p.DisplayName()+" sign in was not completed.")
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	identity, err := p.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		logger.Error("oidc code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		h.addFlash(c, flashKeyError, p.DisplayName()+" sign in failed.")
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
		return
	}

	userID, err := h.resolver.Resolve(ctx, identity)
	if err != nil {
		msg := "Could not link your " + p.DisplayName() + " account."
		switch {
		case errors.Is(err, resolver.ErrEmailNotVerified):
			msg = "Verify your email with " + p.DisplayName() + " before signing in."
		case errors.Is(err, resolver.ErrUnverifiedAccount):
			msg = "An account with this email already exists. Sign in with your password."
		}
		logger.Error("identity resolve failed", map[string]any{
			"subject": identity.Subject(),
			"error":   err.Error(),
		})
		h.addFlash(c, flashKeyError, msg)
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
		return
	}

	if err := h.startSession(ctx, c, userID, providerName); err != nil {
		h.addFlash(c, flashKeyError, signin.AsFailure(err).Message)
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
		return
	}

	h.clearSnapshot(c)
	h.addFlash(c, flashKeySuccess, "Signed in with "+p.DisplayName()+".")
	c.Redirect(http.StatusSeeOther, view.RouteGallery)
}
