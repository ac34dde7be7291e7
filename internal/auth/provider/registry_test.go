package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"signin-portal/internal/auth/provider"
	"signin-portal/internal/auth/provider/google"
	"signin-portal/internal/auth/provider/keycloak"
	"signin-portal/internal/auth/provider/openid"
)

func staticProvider(cfg openid.Config) *openid.Provider {
	return openid.NewWithVerifier(cfg, &oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://idp.example.com/auth",
			TokenURL: "https://idp.example.com/token",
		},
		Scopes: []string{"openid", "email"},
	}, nil)
}

func TestRegistry(t *testing.T) {
	g := staticProvider(google.Config("gid", "gsecret", "http://localhost/oauth/callback/google"))
	k := staticProvider(keycloak.Config("http://kc:8080/realms/portal", "kid", "http://localhost/oauth/callback/keycloak", ""))

	reg := provider.NewRegistry(k, g)

	got, err := reg.Get("google")
	require.NoError(t, err)
	assert.Equal(t, "Google", got.DisplayName())

	_, err = reg.Get("github")
	assert.Error(t, err)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "google", list[0].Name())
	assert.Equal(t, "keycloak", list[1].Name())
}

func TestAuthCodeURLCarriesPKCE(t *testing.T) {
	p := staticProvider(google.Config("gid", "gsecret", "http://localhost/oauth/callback/google"))

	u := p.AuthCodeURL("state-123", "challenge-abc")

	assert.Contains(t, u, "https://idp.example.com/auth?")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "code_challenge=challenge-abc")
	assert.Contains(t, u, "code_challenge_method=S256")
	assert.Contains(t, u, "client_id=gid")
}

func TestKeycloakPublicAuthURL(t *testing.T) {
	cfg := keycloak.Config("http://keycloak:8080/realms/portal", "kid", "http://localhost/cb", "http://localhost:8081/")
	assert.Equal(t, "http://localhost:8081/realms/portal/protocol/openid-connect/auth", cfg.AuthURL)

	cfg = keycloak.Config("http://keycloak:8080/realms/portal", "kid", "http://localhost/cb", "")
	assert.Empty(t, cfg.AuthURL)
}
