package domain

import "context"

// Principal is the request-scoped identity produced by authentication.
// It is never persisted; role changes on the stored user are only observed
// once a new token is issued.
type Principal struct {
	ID         int64
	Name       string
	Email      string
	NationalID string
	Roles      []Role
}

// NewPrincipal projects a stored user into a principal.
func NewPrincipal(u *User) *Principal {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	return &Principal{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		NationalID: u.NationalID,
		Roles:      roles,
	}
}

// HasRole reports whether the principal holds role r.
func (p *Principal) HasRole(r Role) bool {
	if p == nil {
		return false
	}
	return containsRole(p.Roles, r)
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (p *Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// Authorities returns the principal's roles as authority strings.
func (p *Principal) Authorities() []string {
	return Authorities(p.Roles)
}

type principalKey struct{}

// ContextWithPrincipal returns a copy of ctx carrying p.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal attached to ctx, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
