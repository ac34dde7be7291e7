package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/logger"
	"signin-portal/internal/session"
	"signin-portal/internal/view"
)

// Logout is idempotent: a missing or unknown session still clears the
// cookie. Browser form posts are redirected to the sign-in page.
func (h *Handler) Logout(c *gin.Context) {
	if sid, ok := session.IDFromRequest(c.Request); ok {
		if err := h.sessionStore.Delete(c.Request.Context(), sid); err != nil {
			logger.Warn("session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
		logger.Info("logout", map[string]any{
			"ip": c.ClientIP(),
		})
	}

	session.ClearCookie(c.Writer, h.cookieOpts)

	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") {
		h.addFlash(c, flashKeySuccess, "You have been signed out.")
		c.Redirect(http.StatusSeeOther, view.RouteSignIn)
		return
	}
	c.Status(http.StatusNoContent)
}
