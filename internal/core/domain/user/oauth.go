package user

import (
	c "authfront/internal/core/domain/common"
	"context"
)

type OAuthProviderName string

type OAuthProfile struct {
	Provider      OAuthProviderName
	Subject       string
	Email         c.Optional[c.Email]
	// EmailVerified is set only when the provider vouches for the address.
	EmailVerified bool
	Name          c.Optional[string]
	Image         c.Optional[string]
}

type OAuthProvider interface {
	Name() OAuthProviderName
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (OAuthProfile, error)
}

type OAuthProviders interface {
	Get(name OAuthProviderName) (OAuthProvider, bool)
}
