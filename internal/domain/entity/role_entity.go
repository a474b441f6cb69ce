package entity

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrUnknownProvider = errors.New("unknown auth provider")
)

// Role represents an authorization role attached to a user
type Role string

const (
	RoleBuyer Role = "BUYER"
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

// Roles lists every known role
var Roles = []Role{RoleBuyer, RoleStaff, RoleAdmin}

// ParseRole matches s case-insensitively against the known roles.
// Unknown or blank tokens yield ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }

// AuthProvider tags how a user authenticates
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// ParseAuthProvider maps a provider id such as "google" onto its tag.
func ParseAuthProvider(s string) (AuthProvider, error) {
	switch AuthProvider(strings.ToUpper(strings.TrimSpace(s))) {
	case ProviderLocal:
		return ProviderLocal, nil
	case ProviderGoogle:
		return ProviderGoogle, nil
	}
	return "", ErrUnknownProvider
}

func (p AuthProvider) String() string { return string(p) }
