package handler

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"signin-portal/internal/utils"
)

const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	flowTTL         = 5 * time.Minute
)

var (
	errFlowState    = errors.New("invalid state")
	errFlowVerifier = errors.New("missing pkce verifier")
)

// pkceChallenge is the S256 transform of verifier (RFC 7636 §4.2).
func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func (h *Handler) flowCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieOpts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// startFlow stores a fresh state and PKCE verifier in short-lived
// cookies and returns the values the authorization URL needs.
func (h *Handler) startFlow(c *gin.Context) (state, challenge string, err error) {
	state, err = utils.RandomString(32)
	if err != nil {
		return "", "", err
	}
	verifier, err := utils.RandomString(32)
	if err != nil {
		return "", "", err
	}

	maxAge := int(flowTTL.Seconds())
	http.SetCookie(c.Writer, h.flowCookie(stateCookieName, state, maxAge))
	http.SetCookie(c.Writer, h.flowCookie(pkceCookieName, verifier, maxAge))
	return state, pkceChallenge(verifier), nil
}

// finishFlow checks the callback's state against its cookie and returns
// the PKCE verifier. Flow cookies are single-use: on a state match they
// are cleared in the response whatever happens next.
func (h *Handler) finishFlow(c *gin.Context) (verifier string, err error) {
	query := c.Query("state")
	cookie, cerr := c.Request.Cookie(stateCookieName)
	if query == "" || cerr != nil || cookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(query)) != 1 {
		return "", errFlowState
	}

	http.SetCookie(c.Writer, h.flowCookie(stateCookieName, "", -1))
	http.SetCookie(c.Writer, h.flowCookie(pkceCookieName, "", -1))

	v, verr := c.Request.Cookie(pkceCookieName)
	if verr != nil || v.Value == "" {
		return "", errFlowVerifier
	}
	return v.Value, nil
}
