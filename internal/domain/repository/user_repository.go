package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// UserRepository defines the persistence port for user records.
// Implementations must enforce username and email uniqueness themselves and
// report violations as ErrDuplicateUsername / ErrDuplicateEmail.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error

	FindAll(ctx context.Context, p PageRequest) (Page[entity.User], error)
	SearchByNameOrEmail(ctx context.Context, term string, p PageRequest) (Page[entity.User], error)
	FindByRole(ctx context.Context, role entity.Role, p PageRequest) (Page[entity.User], error)
	SearchByRoleAndNameOrEmail(ctx context.Context, role entity.Role, term string, p PageRequest) (Page[entity.User], error)

	// WithTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(UserRepository) error) error
}

// PasswordHasher is the one-way hashing port used for local credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
