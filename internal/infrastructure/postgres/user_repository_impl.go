package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

const (
	uniqueViolation = "23505"

	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

const userColumns = `id, username, COALESCE(password_hash, ''), email,
	COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(phone, ''), COALESCE(address, ''),
	date_of_birth, role, provider, created_at`

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txStarter is a dbtx that can open transactions, like *pgxpool.Pool
type txStarter interface {
	dbtx
	Begin(ctx context.Context) (pgx.Tx, error)
}

type UserRepository struct {
	pool txStarter
	db   dbtx
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return newUserRepository(pool)
}

func newUserRepository(pool txStarter) *UserRepository {
	return &UserRepository{pool: pool, db: pool}
}

// WithTx opens a transaction on the pool and commits it when fn succeeds.
// Calls made on a repository that is already bound to a transaction reuse it.
func (r *UserRepository) WithTx(ctx context.Context, fn func(repository.UserRepository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&UserRepository{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&ok)
	return ok, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&ok)
	return ok, err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, first_name, last_name, phone, address,
			date_of_birth, role, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, u.Username, nullable(u.Password), u.Email, nullable(u.FirstName), nullable(u.LastName),
		nullable(u.Phone), nullable(u.Address), u.DateOfBirth, string(u.Role), string(u.Provider), u.CreatedAt)

	if err := row.Scan(&u.ID); err != nil {
		return translate(err)
	}
	return nil
}

// Update writes every mutable column. created_at is never touched.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $1, password_hash = $2, email = $3, first_name = $4, last_name = $5,
			phone = $6, address = $7, date_of_birth = $8, role = $9, provider = $10
		WHERE id = $11
	`, u.Username, nullable(u.Password), u.Email, nullable(u.FirstName), nullable(u.LastName),
		nullable(u.Phone), nullable(u.Address), u.DateOfBirth, string(u.Role), string(u.Provider), u.ID)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(ctx, "", nil, p)
}

func (r *UserRepository) SearchByNameOrEmail(ctx context.Context, term string, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(ctx, searchClause(1), []any{likePattern(term)}, p)
}

func (r *UserRepository) FindByRole(ctx context.Context, role entity.Role, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(ctx, "role = $1", []any{string(role)}, p)
}

func (r *UserRepository) SearchByRoleAndNameOrEmail(ctx context.Context, role entity.Role, term string, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(ctx, "role = $1 AND "+searchClause(2), []any{string(role), likePattern(term)}, p)
}

func (r *UserRepository) list(ctx context.Context, where string, args []any, p repository.PageRequest) (repository.Page[entity.User], error) {
	page := repository.Page[entity.User]{Page: p.Page, Size: p.Size, Items: []entity.User{}}
	if where != "" {
		where = " WHERE " + where
	}

	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count users: %w", err)
	}

	n := len(args)
	q := `SELECT ` + userColumns + ` FROM users` + where + orderClause(p) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	rows, err := r.db.Query(ctx, q, append(args, p.Size, p.Offset())...)
	if err != nil {
		return page, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, *u)
	}
	return page, rows.Err()
}

func (r *UserRepository) findOne(ctx context.Context, q string, arg any) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role, provider string
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.FirstName, &u.LastName,
		&u.Phone, &u.Address, &u.DateOfBirth, &role, &provider, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Provider = entity.AuthProvider(provider)
	return u, nil
}

// translate maps unique constraint violations onto the repository's
// duplicate errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case usernameConstraint:
			return repository.ErrDuplicateUsername
		case emailConstraint:
			return repository.ErrDuplicateEmail
		}
	}
	return err
}

func orderClause(p repository.PageRequest) string {
	col := "id"
	switch p.Sort {
	case repository.SortByUsername, repository.SortByEmail, repository.SortByFirstName,
		repository.SortByLastName, repository.SortByRole, repository.SortByCreatedAt:
		col = string(p.Sort)
	}
	dir := " ASC"
	if p.Desc {
		dir = " DESC"
	}
	if col == "id" {
		return " ORDER BY id" + dir
	}
	return " ORDER BY " + col + dir + " NULLS LAST, id ASC"
}

func searchClause(arg int) string {
	ph := fmt.Sprintf("$%d", arg)
	return "(first_name ILIKE " + ph + " OR last_name ILIKE " + ph +
		" OR username ILIKE " + ph + " OR email ILIKE " + ph + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.UserRepository = (*UserRepository)(nil)
