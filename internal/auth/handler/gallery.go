package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/middleware"
	"signin-portal/internal/view"
)

// Gallery is the landing page after sign-in. It must be mounted behind
// middleware.GinRequireAuth.
func (h *Handler) Gallery(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	h.page(c, http.StatusOK, "Gallery", view.GalleryPage(userID))
}
