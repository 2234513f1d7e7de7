package domain

import (
	"fmt"
	"strings"
)

// Role is one of the closed set of roles a user may hold.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

const authorityPrefix = "ROLE_"

// DefaultRoles is the role set given to every newly registered user.
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

// Authority returns the stable authority string carried in tokens, e.g. "ROLE_USER".
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

// Valid reports whether r is a member of the role set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// ParseRole accepts either the bare role name ("ADMIN") or its authority
// string ("ROLE_ADMIN"), case-insensitively.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, authorityPrefix)
	r := Role(name)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Authorities maps roles to their authority strings, preserving order.
func Authorities(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Authority())
	}
	return out
}

func containsRole(roles []Role, r Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}
