// Package testkit provides in-memory stand-ins for the service's ports.
package testkit

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

type memState struct {
	users  map[int64]entity.User
	nextID int64
	writes int
}

func (s *memState) clone() *memState {
	c := &memState{users: make(map[int64]entity.User, len(s.users)), nextID: s.nextID, writes: s.writes}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// UserRepository is an in-memory repository.UserRepository. Transactions run
// against a copy of the state that replaces the original on success.
type UserRepository struct {
	mu    sync.Mutex
	state *memState

	// BeforeCreate, when set, runs ahead of every insert and may fail it.
	BeforeCreate func(u *entity.User) error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{state: &memState{users: map[int64]entity.User{}, nextID: 1}}
}

// Seed stores u directly, assigning an id when it has none.
func (r *UserRepository) Seed(u entity.User) entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.state.nextID
	}
	if u.ID >= r.state.nextID {
		r.state.nextID = u.ID + 1
	}
	r.state.users[u.ID] = u
	return u
}

// Writes counts committed creates, updates and deletes.
func (r *UserRepository) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.writes
}

// Get returns the stored record without going through the port.
func (r *UserRepository) Get(id int64) (entity.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.state.users[id]
	return u, ok
}

func (r *UserRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.users)
}

func (r *UserRepository) WithTx(ctx context.Context, fn func(repository.UserRepository) error) error {
	r.mu.Lock()
	tx := &UserRepository{state: r.state.clone(), BeforeCreate: r.BeforeCreate}
	r.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}
	r.mu.Lock()
	r.state = tx.state
	r.mu.Unlock()
	return nil
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.state.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepository) checkUnique(u *entity.User) error {
	for _, other := range r.state.users {
		if other.ID == u.ID {
			continue
		}
		if other.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if r.BeforeCreate != nil {
		if err := r.BeforeCreate(u); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = 0
	if err := r.checkUnique(u); err != nil {
		return err
	}
	u.ID = r.state.nextID
	r.state.nextID++
	r.state.users[u.ID] = *u
	r.state.writes++
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.state.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}
	cp := *u
	cp.CreatedAt = old.CreatedAt
	r.state.users[u.ID] = cp
	r.state.writes++
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.state.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.state.users, id)
	r.state.writes++
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(p, func(entity.User) bool { return true }), nil
}

func (r *UserRepository) SearchByNameOrEmail(ctx context.Context, term string, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(p, func(u entity.User) bool { return matches(u, term) }), nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role entity.Role, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(p, func(u entity.User) bool { return u.Role == role }), nil
}

func (r *UserRepository) SearchByRoleAndNameOrEmail(ctx context.Context, role entity.Role, term string, p repository.PageRequest) (repository.Page[entity.User], error) {
	return r.list(p, func(u entity.User) bool { return u.Role == role && matches(u, term) }), nil
}

func matches(u entity.User, term string) bool {
	term = strings.ToLower(term)
	for _, f := range []string{u.FirstName, u.LastName, u.Username, u.Email} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func sortKey(u entity.User, f repository.SortField) string {
	switch f {
	case repository.SortByUsername:
		return u.Username
	case repository.SortByEmail:
		return u.Email
	case repository.SortByFirstName:
		return u.FirstName
	case repository.SortByLastName:
		return u.LastName
	case repository.SortByRole:
		return string(u.Role)
	case repository.SortByCreatedAt:
		return u.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000")
	}
	return ""
}

func (r *UserRepository) list(p repository.PageRequest, keep func(entity.User) bool) repository.Page[entity.User] {
	r.mu.Lock()
	var all []entity.User
	for _, u := range r.state.users {
		if keep(u) {
			all = append(all, u)
		}
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if p.Sort == "" || p.Sort == repository.SortByID {
			if p.Desc {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		ka, kb := sortKey(a, p.Sort), sortKey(b, p.Sort)
		if ka != kb {
			if p.Desc {
				return ka > kb
			}
			return ka < kb
		}
		return a.ID < b.ID
	})

	page := repository.Page[entity.User]{Page: p.Page, Size: p.Size, Total: int64(len(all)), Items: []entity.User{}}
	start := p.Offset()
	if start >= len(all) {
		return page
	}
	end := start + p.Size
	if end > len(all) {
		end = len(all)
	}
	page.Items = append(page.Items, all[start:end]...)
	return page
}

var _ repository.UserRepository = (*UserRepository)(nil)
