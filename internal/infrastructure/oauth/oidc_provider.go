// Package oauth adapts OpenID Connect providers to application.IdentityProvider.
package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
)

const GoogleIssuer = "https://accounts.google.com"

var ErrMissingIDToken = errors.New("token response has no id_token")

// Config describes one OIDC client registration
type Config struct {
	Provider     entity.AuthProvider
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// OIDCProvider runs the authorization-code flow with PKCE and returns the
// verified ID token claims as the attribute bag.
type OIDCProvider struct {
	tag      entity.AuthProvider
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewOIDCProvider discovers the issuer's endpoints and signing keys.
func NewOIDCProvider(ctx context.Context, cfg Config) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"email", "profile"}
	}
	return &OIDCProvider{
		tag: cfg.Provider,
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       append([]string{oidc.ScopeOpenID}, scopes...),
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (p *OIDCProvider) Tag() entity.AuthProvider { return p.tag }

func (p *OIDCProvider) AuthCodeURL(state, codeVerifier string) string {
	if codeVerifier == "" {
		return p.oauth2.AuthCodeURL(state)
	}
	return p.oauth2.AuthCodeURL(state, oauth2.S256ChallengeOption(codeVerifier))
}

func (p *OIDCProvider) Exchange(ctx context.Context, code, codeVerifier string) (map[string]any, error) {
	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}
	tok, err := p.oauth2.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, ErrMissingIDToken
	}
	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode id token claims: %w", err)
	}
	return SanitizeClaims(claims), nil
}

// SanitizeClaims drops the email claim when the provider says it is not
// verified, so reconciliation treats it as missing.
func SanitizeClaims(claims map[string]any) map[string]any {
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		delete(claims, "email")
	}
	return claims
}

// NewCodeVerifier returns a fresh PKCE code verifier
func NewCodeVerifier() string {
	return oauth2.GenerateVerifier()
}

var _ application.IdentityProvider = (*OIDCProvider)(nil)
