package session

import (
	"net/http"
	"time"
)

// CookieName carries the __Host- prefix: Secure, Path=/ and no Domain.
const CookieName = "__Host-session"

// CookieOptions are the attributes shared by every session cookie write.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// DefaultCookieOptions is what every handler issues. secure is false
// only for local plain-HTTP development.
func DefaultCookieOptions(secure bool) CookieOptions {
	return CookieOptions{Secure: secure, SameSite: http.SameSiteLaxMode}
}

func (o CookieOptions) cookie(value string) *http.Cookie {
	sameSite := o.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: sameSite,
	}
}

// SetCookie hands s to the browser. The cookie lives no longer than the
// session's absolute expiry.
func SetCookie(w http.ResponseWriter, s Session, opts CookieOptions) {
	c := opts.cookie(s.SessionID)
	c.Expires = s.AbsoluteExpiresAt
	if remaining := time.Until(s.AbsoluteExpiresAt); remaining > 0 {
		c.MaxAge = int(remaining.Seconds())
	}
	http.SetCookie(w, c)
}

// ClearCookie removes the session cookie from the browser.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	c := opts.cookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// IDFromRequest returns the session ID carried by r, if any.
func IDFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
