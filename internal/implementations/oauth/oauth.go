package oauth

import (
	c "authfront/internal/core/domain/common"
	"authfront/internal/core/domain/user"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const (
	Google   = user.OAuthProviderName("google")
	Facebook = user.OAuthProviderName("facebook")
)

type profileDecoder func(info map[string]any) user.OAuthProfile

// Provider runs the authorization code flow and reads the profile from the
// provider's user info endpoint.
type Provider struct {
	name        user.OAuthProviderName
	config      oauth2.Config
	userInfoURL string
	decode      profileDecoder
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: Google,
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		decode:      decodeGoogleProfile,
	}
}

func NewFacebook(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: Facebook,
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"email", "public_profile"},
		},
		userInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
		decode:      decodeFacebookProfile,
	}
}

func (p *Provider) Name() user.OAuthProviderName {
	return p.name
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *Provider) Exchange(ctx context.Context, code string) (profile user.OAuthProfile, err error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return profile, fmt.Errorf("could not exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return profile, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return profile, fmt.Errorf("could not get user info from %s: %w", p.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return profile, fmt.Errorf("user info request to %s failed with status %d", p.name, resp.StatusCode)
	}

	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return profile, fmt.Errorf("could not decode user info: %w", err)
	}
	profile = p.decode(info)
	profile.Provider = p.name
	return profile, nil
}

func decodeGoogleProfile(info map[string]any) user.OAuthProfile {
	profile := user.OAuthProfile{
		Subject: stringField(info, "id"),
		Name:    optionalString(stringField(info, "name")),
		Image:   optionalString(stringField(info, "picture")),
	}
	if verified, ok := info["verified_email"].(bool); ok && verified {
		profile.Email = optionalEmail(stringField(info, "email"))
		profile.EmailVerified = profile.Email.IsPresent
	}
	return profile
}

func decodeFacebookProfile(info map[string]any) user.OAuthProfile {
	profile := user.OAuthProfile{
		Subject: stringField(info, "id"),
		Name:    optionalString(stringField(info, "name")),
		Email:   optionalEmail(stringField(info, "email")),
	}
	if picture, ok := info["picture"].(map[string]any); ok {
		if data, ok := picture["data"].(map[string]any); ok {
			profile.Image = optionalString(stringField(data, "url"))
		}
	}
	return profile
}

func stringField(info map[string]any, key string) string {
	value, _ := info[key].(string)
	return value
}

func optionalString(value string) c.Optional[string] {
	return c.NewOptional(value, value != "")
}

func optionalEmail(value string) c.Optional[c.Email] {
	email := c.NewEmail(value)
	return c.NewOptional(email, email != "")
}

// Providers holds the providers that have credentials configured.
type Providers map[user.OAuthProviderName]user.OAuthProvider

func NewProviders(providers ...*Provider) Providers {
	registry := make(Providers, len(providers))
	for _, p := range providers {
		registry[p.Name()] = p
	}
	return registry
}

func (p Providers) Get(name user.OAuthProviderName) (user.OAuthProvider, bool) {
	provider, ok := p[name]
	return provider, ok
}
