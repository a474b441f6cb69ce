package testkit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// OTPStore is an in-memory application.OTPStore that ignores TTLs. Codes
// is keyed the same way as the Redis store.
type OTPStore struct {
	mu    sync.Mutex
	Codes map[string]string
}

func NewOTPStore() *OTPStore { return &OTPStore{Codes: map[string]string{}} }

// Code returns the pending code for email, or "".
func (s *OTPStore) Code(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Codes[helpers.KeyPasswordResetOTP(email)]
}

func (s *OTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Codes[helpers.KeyPasswordResetOTP(email)] = code
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Codes[helpers.KeyPasswordResetOTP(email)]
	return c, ok, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Codes, helpers.KeyPasswordResetOTP(email))
	return nil
}

// Publisher records every published job.
type Publisher struct {
	mu   sync.Mutex
	Jobs []any
	Err  error
}

func (p *Publisher) PublishJSON(ctx context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Jobs = append(p.Jobs, body)
	return nil
}

// StateStore is a one-shot in-memory application.StateStore.
type StateStore struct {
	mu     sync.Mutex
	next   int
	States map[string]application.OAuthState
}

func NewStateStore() *StateStore {
	return &StateStore{States: map[string]application.OAuthState{}}
}

func (s *StateStore) Create(ctx context.Context, st application.OAuthState, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	key := "state-" + strconv.Itoa(s.next)
	s.States[key] = st
	return key, nil
}

func (s *StateStore) Consume(ctx context.Context, state string) (application.OAuthState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.States[state]
	delete(s.States, state)
	return st, ok, nil
}

// IdentityProvider returns Attrs from every exchange.
type IdentityProvider struct {
	Provider     entity.AuthProvider
	Attrs        map[string]any
	Err          error
	LastCode     string
	LastVerifier string
}

func (p *IdentityProvider) Tag() entity.AuthProvider { return p.Provider }

func (p *IdentityProvider) AuthCodeURL(state, codeVerifier string) string {
	return "https://idp.example/auth?state=" + state
}

func (p *IdentityProvider) Exchange(ctx context.Context, code, codeVerifier string) (map[string]any, error) {
	p.LastCode = code
	p.LastVerifier = codeVerifier
	if p.Err != nil {
		return nil, p.Err
	}
	out := make(map[string]any, len(p.Attrs))
	for k, v := range p.Attrs {
		out[k] = v
	}
	return out, nil
}

var (
	_ application.OTPStore         = (*OTPStore)(nil)
	_ application.JobPublisher     = (*Publisher)(nil)
	_ application.StateStore       = (*StateStore)(nil)
	_ application.IdentityProvider = (*IdentityProvider)(nil)
)
