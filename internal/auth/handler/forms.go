package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"signin-portal/internal/logger"
	"signin-portal/internal/signin"
	"signin-portal/internal/view"
)

const (
	formSessionName  = "signin-form"
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"

	keyEmail   = "email"
	keyVisible = "visible"
	keyPhase   = "phase"
	keyMessage = "message"
	keyErrPfx  = "err_"
)

func (h *Handler) cookieSession(c *gin.Context, name string) *sessions.Session {
	sess, err := h.cookies.Get(c.Request, name)
	if err != nil {
		// Tampered or stale cookie; sess is a fresh session.
		logger.Debug("discarding unreadable cookie session", map[string]any{
			"name":  name,
			"error": err.Error(),
		})
	}
	return sess
}

func (h *Handler) saveCookieSession(c *gin.Context, sess *sessions.Session) {
	if err := sess.Save(c.Request, c.Writer); err != nil {
		logger.Error("failed to save cookie session", map[string]any{
			"name":  sess.Name(),
			"error": err.Error(),
		})
	}
}

// loadSnapshot reads the visitor's form state. The password is never stored.
func (h *Handler) loadSnapshot(c *gin.Context) signin.Snapshot {
	snap := signin.Snapshot{FieldErrors: make(map[signin.Field]string)}

	sess := h.cookieSession(c, formSessionName)
	if sess == nil {
		return snap
	}

	snap.Email, _ = sess.Values[keyEmail].(string)
	snap.PasswordVisible, _ = sess.Values[keyVisible].(bool)
	phase, _ := sess.Values[keyPhase].(int)
	msg, _ := sess.Values[keyMessage].(string)
	snap.State = signin.State{Phase: signin.Phase(phase), Message: msg}

	for _, f := range signin.Fields {
		if m, ok := sess.Values[keyErrPfx+string(f)].(string); ok && m != "" {
			snap.FieldErrors[f] = m
		}
	}
	return snap
}

func (h *Handler) saveSnapshot(c *gin.Context, snap signin.Snapshot) {
	sess := h.cookieSession(c, formSessionName)
	if sess == nil {
		return
	}

	sess.Values[keyEmail] = snap.Email
	sess.Values[keyVisible] = snap.PasswordVisible
	sess.Values[keyPhase] = int(snap.State.Phase)
	sess.Values[keyMessage] = snap.State.Message
	for _, f := range signin.Fields {
		if m := snap.FieldError(f); m != "" {
			sess.Values[keyErrPfx+string(f)] = m
		} else {
			delete(sess.Values, keyErrPfx+string(f))
		}
	}
	h.saveCookieSession(c, sess)
}

// clearSnapshot drops the form state once the visitor leaves the form.
func (h *Handler) clearSnapshot(c *gin.Context) {
	sess := h.cookieSession(c, formSessionName)
	if sess == nil {
		return
	}
	sess.Options.MaxAge = -1
	h.saveCookieSession(c, sess)
}

func (h *Handler) addFlash(c *gin.Context, key, message string) {
	sess := h.cookieSession(c, flashSessionName)
	if sess == nil {
		return
	}
	sess.AddFlash(message, key)
	h.saveCookieSession(c, sess)
}

// readFlashes returns and consumes pending flashes.
func (h *Handler) readFlashes(c *gin.Context) view.Flashes {
	var out view.Flashes

	sess := h.cookieSession(c, flashSessionName)
	if sess == nil {
		return out
	}

	success := sess.Flashes(flashKeySuccess)
	errs := sess.Flashes(flashKeyError)
	if len(success) == 0 && len(errs) == 0 {
		return out
	}

	out.Success = flashStrings(success)
	out.Error = flashStrings(errs)
	h.saveCookieSession(c, sess)
	return out
}

func flashStrings(vals []interface{}) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// flashNotifier presents sign-in outcomes as flash messages shown on
// the next rendered page.
type flashNotifier struct {
	h *Handler
	c *gin.Context
}

func (n flashNotifier) SuccessSignIn() {
	n.h.addFlash(n.c, flashKeySuccess, "Signed in successfully.")
}

func (n flashNotifier) ErrorSignIn(message string) {
	n.h.addFlash(n.c, flashKeyError, message)
}
