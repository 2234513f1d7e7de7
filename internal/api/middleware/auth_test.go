package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

// stubTokens accepts exactly the tokens in its map.
type stubTokens struct {
	valid   map[string]*domain.Principal
	expired map[string]bool
}

func (s *stubTokens) Issue(p *domain.Principal) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *stubTokens) Validate(token string) (*domain.Principal, error) {
	if s.expired[token] {
		return nil, domain.ErrTokenExpired
	}
	if p, ok := s.valid[token]; ok {
		return p, nil
	}
	return nil, domain.ErrTokenMalformed
}

func newStubTokens() *stubTokens {
	return &stubTokens{
		valid: map[string]*domain.Principal{
			"user-token":      {ID: 1, Name: "Maria Silva", Roles: []domain.Role{domain.RoleUser}},
			"admin-token":     {ID: 2, Name: "Ana Admin", Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}},
			"moderator-token": {ID: 3, Name: "Mario Mod", Roles: []domain.Role{domain.RoleModerator}},
		},
		expired: map[string]bool{"expired-token": true},
	}
}

func runAuthenticate(t *testing.T, header string) (*domain.Principal, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		got    *domain.Principal
		found  bool
		called bool
	)
	mw := Authenticate(newStubTokens(), zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		got, found = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return got, found
}

func TestAuthenticate_ValidToken(t *testing.T) {
	p, ok := runAuthenticate(t, "Bearer admin-token")
	if !ok {
		t.Fatalf("expected principal to be attached")
	}
	if p.ID != 2 || !p.HasRole(domain.RoleAdmin) {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	if _, ok := runAuthenticate(t, "bearer user-token"); !ok {
		t.Fatalf("expected principal for lowercase scheme")
	}
}

func TestAuthenticate_AnonymousCases(t *testing.T) {
	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token user-token",
		"empty token":     "Bearer ",
		"malformed token": "Bearer not-a-token",
		"expired token":   "Bearer expired-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			if p, ok := runAuthenticate(t, header); ok {
				t.Fatalf("expected anonymous request, got %+v", p)
			}
		})
	}
}

func TestAuthenticate_PrincipalReachesRequestContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer user-token")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Authenticate(newStubTokens(), zerolog.Nop())(func(c echo.Context) error {
		p, ok := domain.PrincipalFromContext(c.Request().Context())
		if !ok || p.ID != 1 {
			t.Fatalf("principal missing from request context: %+v", p)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
