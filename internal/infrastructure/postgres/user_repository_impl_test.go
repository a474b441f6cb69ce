package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

func TestTranslateUniqueViolations(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "username", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, want: repository.ErrDuplicateUsername},
		{name: "email", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, want: repository.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	other := &pgconn.PgError{Code: "23503", ConstraintName: "users_username_key"}
	if got := translate(other); got != other {
		t.Fatalf("expected passthrough, got %v", got)
	}
	unknown := &pgconn.PgError{Code: "23505", ConstraintName: "other_key"}
	if got := translate(unknown); got != unknown {
		t.Fatalf("expected passthrough for unknown constraint, got %v", got)
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		req  repository.PageRequest
		want string
	}{
		{req: repository.PageRequest{}, want: " ORDER BY id ASC"},
		{req: repository.PageRequest{Sort: repository.SortByID, Desc: true}, want: " ORDER BY id DESC"},
		{req: repository.PageRequest{Sort: repository.SortByEmail}, want: " ORDER BY email ASC NULLS LAST, id ASC"},
		{req: repository.PageRequest{Sort: repository.SortByCreatedAt, Desc: true}, want: " ORDER BY created_at DESC NULLS LAST, id ASC"},
		{req: repository.PageRequest{Sort: "1; DROP TABLE users"}, want: " ORDER BY id ASC"},
	}
	for _, tt := range tests {
		if got := orderClause(tt.req); got != tt.want {
			t.Fatalf("orderClause(%+v) = %q, want %q", tt.req, got, tt.want)
		}
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	if got := likePattern(" ann "); got != "%ann%" {
		t.Fatalf("expected %%ann%%, got %q", got)
	}
	if got := likePattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Fatalf("unexpected escaped pattern %q", got)
	}
}

func TestSearchClausePlaceholder(t *testing.T) {
	want := "(first_name ILIKE $2 OR last_name ILIKE $2 OR username ILIKE $2 OR email ILIKE $2)"
	if got := searchClause(2); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
