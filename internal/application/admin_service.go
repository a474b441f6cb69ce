package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// AdminService backs the administrative user screens.
type AdminService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewAdminService(repo repo.UserRepository, logger *logrus.Logger) *AdminService {
	return &AdminService{Repo: repo, Logger: logger}
}

// ListUsersQuery mirrors the admin list screen's query string
type ListUsersQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
	Search  string
	Role    string
}

var sortFields = map[string]repo.SortField{
	"":           repo.SortByID,
	"id":         repo.SortByID,
	"userid":     repo.SortByID,
	"user_id":    repo.SortByID,
	"username":   repo.SortByUsername,
	"email":      repo.SortByEmail,
	"firstname":  repo.SortByFirstName,
	"first_name": repo.SortByFirstName,
	"lastname":   repo.SortByLastName,
	"last_name":  repo.SortByLastName,
	"role":       repo.SortByRole,
	"createdat":  repo.SortByCreatedAt,
	"created_at": repo.SortByCreatedAt,
}

// PageRequest validates paging and sort parameters.
func (q ListUsersQuery) PageRequest() (repo.PageRequest, error) {
	field, ok := sortFields[strings.ToLower(strings.TrimSpace(q.SortBy))]
	if !ok {
		return repo.PageRequest{}, ErrInvalidSort
	}
	var desc bool
	switch strings.ToLower(strings.TrimSpace(q.SortDir)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return repo.PageRequest{}, ErrInvalidSort
	}

	page, size := q.Page, q.Size
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return repo.PageRequest{Page: page, Size: size, Sort: field, Desc: desc}, nil
}

// ListUsers pages through users, optionally restricted to a role and/or a
// name-or-email search term.
func (s *AdminService) ListUsers(ctx context.Context, q ListUsersQuery) (repo.Page[entity.User], error) {
	pr, err := q.PageRequest()
	if err != nil {
		return repo.Page[entity.User]{}, err
	}
	term := strings.TrimSpace(q.Search)

	if strings.TrimSpace(q.Role) == "" {
		if term != "" {
			return s.Repo.SearchByNameOrEmail(ctx, term, pr)
		}
		return s.Repo.FindAll(ctx, pr)
	}

	role, err := entity.ParseRole(q.Role)
	if err != nil {
		return repo.Page[entity.User]{}, err
	}
	if term != "" {
		return s.Repo.SearchByRoleAndNameOrEmail(ctx, role, term, pr)
	}
	return s.Repo.FindByRole(ctx, role, pr)
}

func (s *AdminService) GetUser(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// SetRole replaces the user's role. An unknown role leaves the record untouched.
func (s *AdminService) SetRole(ctx context.Context, userID int64, role string) (*entity.User, error) {
	var updated *entity.User
	err := s.Repo.WithTx(ctx, func(r repo.UserRepository) error {
		u, err := r.FindByID(ctx, userID)
		if err != nil {
			return notFound(err)
		}
		parsed, err := entity.ParseRole(role)
		if err != nil {
			return err
		}
		u.Role = parsed
		if err := r.Update(ctx, u); err != nil {
			return notFound(err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "role": updated.Role}).Info("user role updated")
	}
	return updated, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return notFound(err)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Info("user deleted")
	}
	return nil
}
