package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	g "maragu.dev/gomponents"

	"signin-portal/internal/auth/provider"
	"signin-portal/internal/auth/resolver"
	"signin-portal/internal/logger"
	"signin-portal/internal/session"
	"signin-portal/internal/signin"
	"signin-portal/internal/view"
)

const defaultSessionTTL = 24 * time.Hour

// CredentialService checks and creates password credentials.
type CredentialService interface {
	Authenticate(ctx context.Context, email string, password string) (userID string, err error)
	Register(ctx context.Context, email string, password string) (userID string, err error)
}

type Options struct {
	// CookieSecure is false only for local plain-HTTP development.
	CookieSecure bool
	SessionTTL   time.Duration
}

type Handler struct {
	providers    *provider.Registry
	sessionStore session.Store
	resolver     resolver.Resolver
	credentials  CredentialService
	cookies      sessions.Store
	schema       *signin.Schema
	cookieOpts   session.CookieOptions
	sessionTTL   time.Duration
}

// NewHandler wires the auth routes. cookies backs the short-lived form
// and flash state; sessionStore backs the authenticated session.
func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	resolver resolver.Resolver,
	credentials CredentialService,
	cookies sessions.Store,
	opts Options,
) *Handler {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Handler{
		providers:    registry,
		sessionStore: sessionStore,
		resolver:     resolver,
		credentials:  credentials,
		cookies:      cookies,
		schema:       signin.NewSchema(),
		cookieOpts:   session.DefaultCookieOptions(opts.CookieSecure),
		sessionTTL:   ttl,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET(view.RouteSignIn, h.signInPage)
	r.POST(view.RouteSignIn, h.signInPost)
	r.POST("/signin/validate/:field", h.validateField)
	r.POST("/signin/visibility", h.toggleVisibility)

	r.GET(view.RouteSignUp, h.signUpPage)
	r.POST(view.RouteSignUp, h.signUpPost)

	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
	r.POST(view.RouteLogout, h.Logout)

	r.POST("/api/auth/signin", h.apiSignIn)
}

// controller restores the visitor's form and binds it to collaborators
// scoped to this request.
func (h *Handler) controller(c *gin.Context) *signin.Controller {
	orch := signin.NewOrchestrator(
		sessionAuthenticator{h: h, c: c},
		flashNotifier{h: h, c: c},
		nil,
	)
	return signin.NewController(h.schema, orch, signin.WithSnapshot(h.loadSnapshot(c)))
}

func (h *Handler) providerLinks() []view.ProviderLink {
	list := h.providers.List()
	links := make([]view.ProviderLink, 0, len(list))
	for _, p := range list {
		links = append(links, view.ProviderLink{Name: p.Name(), Label: p.DisplayName()})
	}
	return links
}

// page renders a full document including pending flashes.
func (h *Handler) page(c *gin.Context, status int, title string, content g.Node) {
	h.fragment(c, status, view.Page(title, h.readFlashes(c), content))
}

func (h *Handler) fragment(c *gin.Context, status int, node g.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := node.Render(c.Writer); err != nil {
		logger.Error("render failed", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
	}
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
