package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/estagiarios/e-commerce/internal/api/metrics"
	"github.com/estagiarios/e-commerce/internal/core/domain"
	"github.com/estagiarios/e-commerce/internal/core/ports"
)

// principalKey is the echo context key under which the principal is stored
// alongside the request context.
const principalKey = "principal"

// Authenticate resolves an optional bearer token into a principal. Requests
// without a token, or with one that fails validation, continue anonymously;
// Authorize decides whether anonymous access is acceptable for the path.
func Authenticate(tokens ports.TokenIssuer, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			token, ok := bearerToken(header)
			if !ok {
				log.Debug().Str("path", c.Request().URL.Path).Msg("ignoring non-bearer authorization header")
				return next(c)
			}

			principal, err := tokens.Validate(token)
			if err != nil {
				result := "malformed"
				if errors.Is(err, domain.ErrTokenExpired) {
					result = "expired"
				}
				metrics.TokenValidationsTotal.WithLabelValues(result).Inc()
				log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("bearer token rejected, continuing anonymously")
				return next(c)
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// SetPrincipal attaches p to both the request context and the echo context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	req := c.Request()
	c.SetRequest(req.WithContext(domain.ContextWithPrincipal(req.Context(), p)))
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal attached by Authenticate, if any.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	if p, ok := c.Get(principalKey).(*domain.Principal); ok && p != nil {
		return p, true
	}
	return domain.PrincipalFromContext(c.Request().Context())
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
