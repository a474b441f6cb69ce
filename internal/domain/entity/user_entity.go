package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash and stays empty for users created through a
// federated provider.
type User struct {
	ID          int64
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	Address     string
	DateOfBirth *time.Time
	Role        Role
	Provider    AuthProvider
	CreatedAt   time.Time
}

// FullName joins first and last name with a single space, the way display
// names coming back from a provider are compared.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetName splits name into its first token and the remainder.
func (u *User) SetName(name string) {
	first, rest, _ := strings.Cut(name, " ")
	u.FirstName = first
	u.LastName = rest
}

func (u *User) IsLocal() bool { return u.Provider == ProviderLocal }
