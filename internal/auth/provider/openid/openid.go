package openid

import (
	"context"
	"errors"
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"signin-portal/internal/auth"
	"signin-portal/internal/logger"
)

// Config describes one OpenID Connect provider.
type Config struct {
	Name         string
	DisplayName  string
	Issuer       string
	ClientID     string
	ClientSecret string // empty for public clients
	RedirectURL  string

	// AuthURL overrides the discovered authorization endpoint. Used when
	// browsers reach the provider through a different host than the server.
	AuthURL string

	Scopes []string
}

// Provider implements provider.OAuthProvider for any OIDC issuer.
// It returns identity facts only; no user or session decisions are made here.
type Provider struct {
	name        string
	displayName string
	oauthConfig *oauth2.Config
	verifier    *gooidc.IDTokenVerifier
}

// New initializes a provider using issuer discovery.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Name == "" || cfg.Issuer == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%s oauth config missing required fields", cfg.Name)
	}

	oidcProvider, err := gooidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s oidc provider: %w", cfg.Name, err)
	}

	ep := oidcProvider.Endpoint()
	if cfg.AuthURL != "" {
		ep.AuthURL = cfg.AuthURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "profile", "email"}
	}

	return NewWithVerifier(cfg, &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     ep,
		Scopes:       scopes,
	}, oidcProvider.Verifier(&gooidc.Config{ClientID: cfg.ClientID})), nil
}

// NewWithVerifier builds a provider from explicit endpoints, skipping discovery.
func NewWithVerifier(cfg Config, oauthCfg *oauth2.Config, verifier *gooidc.IDTokenVerifier) *Provider {
	display := cfg.DisplayName
	if display == "" {
		display = cfg.Name
	}
	return &Provider{
		name:        cfg.Name,
		displayName: display,
		oauthConfig: oauthCfg,
		verifier:    verifier,
	}
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return p.name
}

// DisplayName is the label shown on the sign-in page.
func (p *Provider) DisplayName() string {
	return p.displayName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode exchanges the authorization code and returns a normalized identity.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange failed: %w", p.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%s did not return id_token", p.name)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%s id_token verification failed: %w", p.name, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s id_token claims parse failed: %w", p.name, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New(p.name + " id_token missing required claims")
	}

	logger.Info("oidc identity verified", map[string]any{
		"provider":       p.name,
		"issuer":         idToken.Issuer,
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       p.name,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
	}, nil
}
