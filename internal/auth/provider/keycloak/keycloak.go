package keycloak

import (
	"context"
	"errors"
	"strings"

	"signin-portal/internal/auth/provider/openid"
)

const providerName = "keycloak"

// Config returns the OIDC settings for a Keycloak realm. issuer is the
// realm issuer URL, e.g. http://keycloak:8080/realms/portal. When
// publicBaseURL is set, browsers are sent to the realm through it.
func Config(issuer, clientID, redirectURL, publicBaseURL string) openid.Config {
	cfg := openid.Config{
		Name:        providerName,
		DisplayName: "Keycloak",
		Issuer:      issuer,
		ClientID:    clientID,
		RedirectURL: redirectURL,
	}
	if publicBaseURL != "" {
		if i := strings.Index(issuer, "/realms/"); i >= 0 {
			cfg.AuthURL = strings.TrimRight(publicBaseURL, "/") + issuer[i:] + "/protocol/openid-connect/auth"
		}
	}
	return cfg
}

func New(ctx context.Context, issuer, clientID, redirectURL, publicBaseURL string) (*openid.Provider, error) {
	if issuer == "" || clientID == "" || redirectURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}
	return openid.New(ctx, Config(issuer, clientID, redirectURL, publicBaseURL))
}
