package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"signin-portal/internal/logger"
	"signin-portal/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// WithUserID returns ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Unauthorized decides what an unauthenticated request receives.
type Unauthorized func(w http.ResponseWriter, r *http.Request)

// RedirectTo sends browsers to path with 303.
func RedirectTo(path string) Unauthorized {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}

func plainUnauthorized(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

type AuthMiddleware struct {
	Store        session.Store
	Unauthorized Unauthorized
	now          func() time.Time
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{
		Store:        store,
		Unauthorized: plainUnauthorized,
		now:          time.Now,
	}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := session.IDFromRequest(r)
		if !ok {
			a.Unauthorized(w, r)
			return
		}

		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Error("session lookup failed", map[string]any{
					"error": err.Error(),
				})
			}
			a.Unauthorized(w, r)
			return
		}

		if sess.Expired(a.now()) {
			_ = a.Store.Delete(r.Context(), sessionID)
			a.Unauthorized(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), sess.UserID)))
	})
}
