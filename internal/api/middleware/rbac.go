package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/estagiarios/e-commerce/internal/api/metrics"
	"github.com/estagiarios/e-commerce/internal/core/domain"
)

// Access is the requirement a Rule places on a request.
type Access int

const (
	// Authenticated requires any principal.
	Authenticated Access = iota
	// Public lets anonymous requests through.
	Public
	// AnyRole requires a principal holding at least one of Rule.Roles.
	AnyRole
)

// Rule binds a path prefix to an access requirement. A prefix matches the
// path itself and everything below it.
type Rule struct {
	Prefix string
	Access Access
	Roles  []domain.Role
}

func (r Rule) matches(p string) bool {
	return p == r.Prefix || strings.HasPrefix(p, r.Prefix+"/")
}

// DefaultRules is the application's path table. Order matters: the first
// matching rule wins and unmatched paths require authentication.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/auth", Access: Public},
		{Prefix: "/api/public", Access: Public},
		{Prefix: "/swagger", Access: Public},
		{Prefix: "/health", Access: Public},
		{Prefix: "/metrics", Access: Public},
		{Prefix: "/api/user", Access: AnyRole, Roles: []domain.Role{domain.RoleUser}},
		{Prefix: "/api/admin", Access: AnyRole, Roles: []domain.Role{domain.RoleAdmin}},
		{Prefix: "/api/moderator", Access: AnyRole, Roles: []domain.Role{domain.RoleModerator, domain.RoleAdmin}},
	}
}

// Authorize enforces rules against the principal attached by Authenticate.
// Anonymous requests to protected paths get 401 with a Bearer challenge;
// authenticated requests lacking the required role get 403.
func Authorize(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := path.Clean("/" + c.Request().URL.Path)

			rule, label := Rule{Access: Authenticated}, "default"
			for _, r := range rules {
				if r.matches(p) {
					rule, label = r, r.Prefix
					break
				}
			}

			if rule.Access == Public {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "allow").Inc()
				return next(c)
			}

			principal, ok := PrincipalFrom(c)
			if !ok {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "unauthorized").Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			if rule.Access == AnyRole && !principal.HasAnyRole(rule.Roles...) {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}

			metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "allow").Inc()
			return next(c)
		}
	}
}
