package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user.
const ContextUserID = "userID"

// GinRequireAuth adapts the net/http AuthMiddleware to Gin. On success
// the user ID is available through both c.Request.Context() and
// c.GetString(ContextUserID).
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			if id, ok := UserIDFromContext(r.Context()); ok {
				c.Set(ContextUserID, id)
			}
			c.Next()
		})

		auth.RequireAuth(next).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}
