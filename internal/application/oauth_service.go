package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

const defaultReconcileAttempts = 3

// IdentityProvider is a federated login provider that has completed its own
// protocol handshake and hands back the verified attribute bag.
type IdentityProvider interface {
	Tag() entity.AuthProvider
	AuthCodeURL(state, codeVerifier string) string
	Exchange(ctx context.Context, code, codeVerifier string) (map[string]any, error)
}

// OAuthState is what is remembered between the redirect and the callback
type OAuthState struct {
	Provider     entity.AuthProvider `json:"provider"`
	CodeVerifier string              `json:"code_verifier"`
}

// StateStore keeps pending authorization states; Consume must be one-shot.
type StateStore interface {
	Create(ctx context.Context, st OAuthState, ttl time.Duration) (string, error)
	Consume(ctx context.Context, state string) (OAuthState, bool, error)
}

type OAuthService struct {
	Repo        repo.UserRepository
	Providers   map[entity.AuthProvider]IdentityProvider
	States      StateStore
	StateTTL    time.Duration
	NewVerifier func() string
	Logger      *logrus.Logger
	Now         func() time.Time
	MaxAttempts int
}

func NewOAuthService(repo repo.UserRepository, states StateStore, newVerifier func() string, logger *logrus.Logger, providers ...IdentityProvider) *OAuthService {
	s := &OAuthService{
		Repo:        repo,
		Providers:   make(map[entity.AuthProvider]IdentityProvider, len(providers)),
		States:      states,
		StateTTL:    10 * time.Minute,
		NewVerifier: newVerifier,
		Logger:      logger,
		Now:         utcNow,
		MaxAttempts: defaultReconcileAttempts,
	}
	for _, p := range providers {
		s.Providers[p.Tag()] = p
	}
	return s
}

func (s *OAuthService) provider(id string) (IdentityProvider, error) {
	tag, err := entity.ParseAuthProvider(id)
	if err != nil || tag == entity.ProviderLocal {
		return nil, ErrUnknownProvider
	}
	p, ok := s.Providers[tag]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// Begin records a new authorization state and returns the provider URL the
// browser should be sent to.
func (s *OAuthService) Begin(ctx context.Context, providerID string) (string, error) {
	p, err := s.provider(providerID)
	if err != nil {
		return "", err
	}
	verifier := ""
	if s.NewVerifier != nil {
		verifier = s.NewVerifier()
	}
	state, err := s.States.Create(ctx, OAuthState{Provider: p.Tag(), CodeVerifier: verifier}, s.StateTTL)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state, verifier), nil
}

// Complete validates the callback state, exchanges the code and reconciles
// the returned identity with the local user table.
func (s *OAuthService) Complete(ctx context.Context, providerID, state, code string) (*entity.User, error) {
	p, err := s.provider(providerID)
	if err != nil {
		return nil, err
	}
	st, ok, err := s.States.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok || st.Provider != p.Tag() {
		return nil, ErrInvalidOAuthState
	}
	attrs, err := p.Exchange(ctx, code, st.CodeVerifier)
	if err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, p.Tag(), attrs)
}

// Reconcile finds the user owning the federated email or creates one.
// A user bound to a different provider is never merged. Losing an insert
// race on username or email is retried a bounded number of times.
func (s *OAuthService) Reconcile(ctx context.Context, provider entity.AuthProvider, attrs map[string]any) (*entity.User, error) {
	email := stringAttr(attrs, "email")
	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidUpstreamData
	}
	name := stringAttr(attrs, "name")

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		var u *entity.User
		u, err = s.reconcileOnce(ctx, provider, email, name)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrDuplicateUsername) && !errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"provider": provider, "attempt": i + 1}).Warn("oauth user insert lost a race, retrying")
		}
	}
	return nil, err
}

func (s *OAuthService) reconcileOnce(ctx context.Context, provider entity.AuthProvider, email, name string) (*entity.User, error) {
	var out *entity.User
	err := s.Repo.WithTx(ctx, func(r repo.UserRepository) error {
		existing, err := r.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.Provider != provider {
				return ErrProviderConflict
			}
			if strings.TrimSpace(name) != "" && name != existing.FullName() {
				existing.SetName(name)
				if err := r.Update(ctx, existing); err != nil {
					return err
				}
			}
			out = existing
			return nil
		case !errors.Is(err, repo.ErrNotFound):
			return err
		}

		username, err := uniqueUsername(ctx, r, usernameBase(email))
		if err != nil {
			return err
		}
		u := &entity.User{
			Username:  username,
			Email:     email,
			Role:      entity.RoleBuyer,
			Provider:  provider,
			CreatedAt: s.now(),
		}
		if strings.TrimSpace(name) != "" {
			u.SetName(name)
		}
		if err := r.Create(ctx, u); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username, "provider": provider}).Info("created user from oauth login")
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OAuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utcNow()
}

// usernameBase is the local part of the email, or "user" when that is empty.
func usernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "user"
	}
	return local
}

// uniqueUsername probes base, base1, base2, ... and returns the first free one.
func uniqueUsername(ctx context.Context, r repo.UserRepository, base string) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		taken, err := r.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(n)
	}
}

func stringAttr(attrs map[string]any, key string) string {
	v, ok := attrs[key].(string)
	if !ok {
		return ""
	}
	return v
}
