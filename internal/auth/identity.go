package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google", "keycloak"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // email returned by provider
	EmailVerified  bool   // whether provider asserts email ownership
}

// Subject is the globally unique "provider:sub" key of the identity.
func (i Identity) Subject() string {
	return i.Provider + ":" + i.ProviderUserID
}
