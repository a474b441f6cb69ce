package application

import (
	"errors"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateUsername   = repo.ErrDuplicateUsername
	ErrDuplicateEmail      = repo.ErrDuplicateEmail
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPasswordUnchanged   = errors.New("new password must differ from the current password")
	ErrInvalidRole         = entity.ErrInvalidRole
	ErrProviderConflict    = errors.New("email already registered with a different sign-in method")
	ErrInvalidUpstreamData = errors.New("identity provider returned incomplete data")
	ErrInvalidSort         = errors.New("invalid sort")
	ErrInvalidOTP          = errors.New("invalid or expired code")
	ErrInvalidOAuthState   = errors.New("invalid or expired oauth state")
	ErrUnknownProvider     = entity.ErrUnknownProvider
)

// notFound maps the store's lookup miss onto ErrUserNotFound.
func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
