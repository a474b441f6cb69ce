package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

// UserService owns local credentials and the self-service profile.
type UserService struct {
	Repo   repo.UserRepository
	Hasher repo.PasswordHasher
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewUserService(repo repo.UserRepository, hasher repo.PasswordHasher, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Hasher: hasher, Logger: logger, Now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// RegisterInput is the candidate account submitted on sign-up or by an admin
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	Address     string
	DateOfBirth *time.Time
}

// ProfileFields is the complete set of attributes a user may change on their
// own profile.
type ProfileFields struct {
	FirstName   string
	LastName    string
	Phone       string
	Address     string
	DateOfBirth *time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utcNow()
}

// Register creates a LOCAL buyer account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.createLocal(ctx, in, entity.RoleBuyer)
}

// CreateByAdmin creates a LOCAL account with the requested role; a blank role
// means BUYER.
func (s *UserService) CreateByAdmin(ctx context.Context, in RegisterInput, requestedRole string) (*entity.User, error) {
	role := entity.RoleBuyer
	if requestedRole != "" {
		r, err := entity.ParseRole(requestedRole)
		if err != nil {
			return nil, err
		}
		role = r
	}
	return s.createLocal(ctx, in, role)
}

func (s *UserService) createLocal(ctx context.Context, in RegisterInput, role entity.Role) (*entity.User, error) {
	var created *entity.User
	err := s.Repo.WithTx(ctx, func(r repo.UserRepository) error {
		taken, err := r.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateUsername
		}
		taken, err = r.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}

		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u := &entity.User{
			Username:    in.Username,
			Password:    hash,
			Email:       in.Email,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Phone:       in.Phone,
			Address:     in.Address,
			DateOfBirth: in.DateOfBirth,
			Role:        role,
			Provider:    entity.ProviderLocal,
			CreatedAt:   s.now(),
		}
		if err := r.Create(ctx, u); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": created.ID, "role": created.Role}).Info("local user created")
	}
	return created, nil
}

// Authenticate returns the user only when the username exists and the
// password verifies. Every other outcome, store failures included, is a plain
// false so callers cannot tell which part was wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, bool) {
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).Error("authenticate lookup failed")
		}
		return nil, false
	}
	if !s.Hasher.Verify(u.Password, password) {
		return nil, false
	}
	return u, true
}

// ChangePassword verifies the current password before rejecting a new
// password equal to the stored one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	return s.Repo.WithTx(ctx, func(r repo.UserRepository) error {
		u, err := r.FindByID(ctx, userID)
		if err != nil {
			return notFound(err)
		}
		if !s.Hasher.Verify(u.Password, current) {
			return ErrInvalidCredentials
		}
		if s.Hasher.Verify(u.Password, next) {
			return ErrPasswordUnchanged
		}
		hash, err := s.Hasher.Hash(next)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
		return notFound(r.Update(ctx, u))
	})
}

// ResetPassword overwrites the password of the account bound to email. The
// caller is responsible for having proven the requester's identity.
func (s *UserService) ResetPassword(ctx context.Context, email, next string) error {
	return s.Repo.WithTx(ctx, func(r repo.UserRepository) error {
		u, err := r.FindByEmail(ctx, email)
		if err != nil {
			return notFound(err)
		}
		hash, err := s.Hasher.Hash(next)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
		return notFound(r.Update(ctx, u))
	})
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// UpdateProfile overwrites every profile field with the supplied values,
// blanks included.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ProfileFields) (*entity.User, error) {
	var updated *entity.User
	err := s.Repo.WithTx(ctx, func(r repo.UserRepository) error {
		u, err := r.FindByID(ctx, userID)
		if err != nil {
			return notFound(err)
		}
		u.FirstName = in.FirstName
		u.LastName = in.LastName
		u.Phone = in.Phone
		u.Address = in.Address
		u.DateOfBirth = in.DateOfBirth
		if err := r.Update(ctx, u); err != nil {
			return notFound(err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
