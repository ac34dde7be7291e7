package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"signin-portal/internal/auth/credentials"
	"signin-portal/internal/auth/handler"
	"signin-portal/internal/auth/provider"
	"signin-portal/internal/auth/provider/google"
	"signin-portal/internal/auth/provider/keycloak"
	"signin-portal/internal/auth/resolver"
	"signin-portal/internal/config"
	"signin-portal/internal/logger"
	"signin-portal/internal/middleware"
	"signin-portal/internal/session"
	"signin-portal/internal/view"
)

// Deps are the collaborators the router needs. They are built from
// infrastructure in production and from fakes in tests.
type Deps struct {
	Providers    *provider.Registry
	SessionStore session.Store
	Resolver     resolver.Resolver
	Credentials  handler.CredentialService
	Cookies      sessions.Store
	CookieSecure bool
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router := NewRouter(Deps{
		Providers:    registry,
		SessionStore: session.NewRedisStore(infra.Redis.Client),
		Resolver:     resolver.NewDBResolver(infra.DB),
		Credentials:  credentials.NewService(infra.DB),
		Cookies:      newCookieStore(cfg),
		CookieSecure: cfg.CookieSecure,
	})

	return router, infra.Close, nil
}

func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.KeycloakEnabled() {
		p, err := keycloak.New(ctx, cfg.KeycloakIssuer, cfg.KeycloakClientID, cfg.KeycloakRedirectURL, cfg.KeycloakPublicBaseURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	for _, p := range list {
		logger.Info("oauth provider enabled", map[string]any{"provider": p.Name()})
	}
	return provider.NewRegistry(list...), nil
}

func newCookieStore(cfg config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// NewRouter builds the full route table.
func NewRouter(d Deps) *gin.Engine {
	authHandler := handler.NewHandler(
		d.Providers,
		d.SessionStore,
		d.Resolver,
		d.Credentials,
		d.Cookies,
		handler.Options{CookieSecure: d.CookieSecure},
	)

	authMiddleware := middleware.NewAuthMiddleware(d.SessionStore)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, view.RouteGallery)
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(middleware.ContextUserID),
		})
	})

	// ----------------------------
	// Protected Web Routes
	// ----------------------------

	webAuth := middleware.NewAuthMiddleware(d.SessionStore)
	webAuth.Unauthorized = middleware.RedirectTo(view.RouteSignIn)

	web := router.Group("/")
	web.Use(middleware.GinRequireAuth(webAuth))

	web.GET(view.RouteGallery, authHandler.Gallery)

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request", map[string]any{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		})
	}
}
