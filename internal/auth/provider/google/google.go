package google

import (
	"context"
	"errors"

	"signin-portal/internal/auth/provider/openid"
)

const (
	providerName = "google"
	issuer       = "https://accounts.google.com"
)

// Config returns the OIDC settings for Google sign-in.
func Config(clientID, clientSecret, redirectURL string) openid.Config {
	return openid.Config{
		Name:         providerName,
		DisplayName:  "Google",
		Issuer:       issuer,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	}
}

func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*openid.Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	return openid.New(ctx, Config(clientID, clientSecret, redirectURL))
}
