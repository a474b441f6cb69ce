package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

var userCols = []string{"id", "username", "password_hash", "email", "first_name", "last_name",
	"phone", "address", "date_of_birth", "role", "provider", "created_at"}

func newMockRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return newUserRepository(mock), mock
}

func TestFindByRolePagesAfterFilterArgs(t *testing.T) {
	repo, mock := newMockRepo(t)
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM users WHERE role = $1")).
		WithArgs("STAFF").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(21)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = $1 ORDER BY username DESC NULLS LAST, id ASC LIMIT $2 OFFSET $3")).
		WithArgs("STAFF", 10, 20).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(int64(3), "sam", "hash", "sam@x.com", "Sam", "Lee", "", "", &dob, "STAFF", "LOCAL", created))

	page, err := repo.FindByRole(context.Background(), entity.RoleStaff, repository.PageRequest{
		Page: 2, Size: 10, Sort: repository.SortByUsername, Desc: true,
	})
	if err != nil {
		t.Fatalf("find by role: %v", err)
	}
	if page.Total != 21 || page.Page != 2 || page.Size != 10 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	u := page.Items[0]
	if u.ID != 3 || u.Username != "sam" || u.Role != entity.RoleStaff || u.Provider != entity.ProviderLocal {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.DateOfBirth == nil || !u.DateOfBirth.Equal(dob) || !u.CreatedAt.Equal(created) {
		t.Fatalf("unexpected dates %+v", u)
	}
}

func TestSearchByRoleAndNameOrEmailNumbersPlaceholders(t *testing.T) {
	repo, mock := newMockRepo(t)
	where := "WHERE role = $1 AND (first_name ILIKE $2 OR last_name ILIKE $2 OR username ILIKE $2 OR email ILIKE $2)"

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM users "+where)).
		WithArgs("BUYER", `%50\%\_off%`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users "+where+" ORDER BY id ASC LIMIT $3 OFFSET $4")).
		WithArgs("BUYER", `%50\%\_off%`, 5, 0).
		WillReturnRows(pgxmock.NewRows(userCols))

	page, err := repo.SearchByRoleAndNameOrEmail(context.Background(), entity.RoleBuyer, "50%_off", repository.PageRequest{Size: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 0 || page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("expected an empty non-nil page, got %+v", page)
	}
}

func TestFindByIDMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows(userCols))

	if _, err := repo.FindByID(context.Background(), 9); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected %v, got %v", repository.ErrNotFound, err)
	}
}

func TestCreateTranslatesEmailConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{Username: "a", Email: "a@x.com", Role: entity.RoleBuyer, Provider: entity.ProviderLocal})
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected %v, got %v", repository.ErrDuplicateEmail, err)
	}
}

func TestDeleteMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), 5); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected %v, got %v", repository.ErrNotFound, err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepo(t)
	errStop := errors.New("stop")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectRollback()

	err := repo.WithTx(context.Background(), func(r repository.UserRepository) error {
		if err := r.Delete(context.Background(), 1); err != nil {
			return err
		}
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("expected %v, got %v", errStop, err)
	}
}

func TestWithTxCommits(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.WithTx(context.Background(), func(r repository.UserRepository) error {
		return r.Update(context.Background(), &entity.User{ID: 1, Username: "a", Email: "a@x.com", Role: entity.RoleAdmin, Provider: entity.ProviderLocal})
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}
}
