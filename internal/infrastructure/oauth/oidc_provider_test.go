package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
)

// newIssuer serves a minimal discovery document and a token endpoint that
// never returns an id_token.
func newIssuer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                srv.URL,
			"authorization_endpoint":                srv.URL + "/auth",
			"token_endpoint":                        srv.URL + "/token",
			"jwks_uri":                              srv.URL + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at", "token_type": "Bearer", "expires_in": 3600})
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOIDCProviderAuthCodeURL(t *testing.T) {
	srv := newIssuer(t)
	p, err := NewOIDCProvider(context.Background(), Config{
		Provider:    entity.ProviderGoogle,
		IssuerURL:   srv.URL,
		ClientID:    "client",
		RedirectURL: "http://localhost/cb",
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.Tag() != entity.ProviderGoogle {
		t.Fatalf("expected GOOGLE tag, got %s", p.Tag())
	}

	u, err := url.Parse(p.AuthCodeURL("st", NewCodeVerifier()))
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	if u.Path != "/auth" || q.Get("state") != "st" || q.Get("client_id") != "client" {
		t.Fatalf("unexpected auth url %s", u)
	}
	if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
		t.Fatalf("expected PKCE challenge, got %s", u.RawQuery)
	}
	if q.Get("scope") != "openid email profile" {
		t.Fatalf("unexpected scope %q", q.Get("scope"))
	}
}

func TestOIDCProviderExchangeRequiresIDToken(t *testing.T) {
	srv := newIssuer(t)
	p, err := NewOIDCProvider(context.Background(), Config{Provider: entity.ProviderGoogle, IssuerURL: srv.URL, ClientID: "client"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := p.Exchange(context.Background(), "code", NewCodeVerifier()); !errors.Is(err, ErrMissingIDToken) {
		t.Fatalf("expected %v, got %v", ErrMissingIDToken, err)
	}
}

func TestSanitizeClaims(t *testing.T) {
	tests := []struct {
		name      string
		claims    map[string]any
		wantEmail bool
	}{
		{name: "verified", claims: map[string]any{"email": "a@x.com", "email_verified": true}, wantEmail: true},
		{name: "unverified", claims: map[string]any{"email": "a@x.com", "email_verified": false}, wantEmail: false},
		{name: "claim absent", claims: map[string]any{"email": "a@x.com"}, wantEmail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SanitizeClaims(tt.claims)["email"]
			if ok != tt.wantEmail {
				t.Fatalf("expected email present=%v, got %v", tt.wantEmail, ok)
			}
		})
	}
}

func TestNewCodeVerifierIsRandom(t *testing.T) {
	a, b := NewCodeVerifier(), NewCodeVerifier()
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty verifiers, got %q and %q", a, b)
	}
}
