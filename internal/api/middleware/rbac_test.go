package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// serve runs a request through Authenticate and Authorize with the default
// rule table and returns the response status and whether the handler ran.
func serve(t *testing.T, target, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	chain := Authenticate(newStubTokens(), zerolog.Nop())(
		Authorize(DefaultRules())(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		}),
	)

	if err := chain(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthorize_Table(t *testing.T) {
	cases := []struct {
		name   string
		target string
		token  string
		want   int
	}{
		{"login is public", "/auth/login", "", http.StatusOK},
		{"public api", "/api/public/catalog", "", http.StatusOK},
		{"swagger", "/swagger/index.html", "", http.StatusOK},
		{"health", "/health/ready", "", http.StatusOK},
		{"metrics", "/metrics", "", http.StatusOK},
		{"user path anonymous", "/api/user/me", "", http.StatusUnauthorized},
		{"user path with user", "/api/user/me", "user-token", http.StatusOK},
		{"admin path with user", "/api/admin/users/1", "user-token", http.StatusForbidden},
		{"admin path with admin", "/api/admin/users/1", "admin-token", http.StatusOK},
		{"moderator path with moderator", "/api/moderator/users", "moderator-token", http.StatusOK},
		{"moderator path with admin", "/api/moderator/users", "admin-token", http.StatusOK},
		{"moderator path with user", "/api/moderator/users", "user-token", http.StatusForbidden},
		{"unlisted path anonymous", "/api/orders", "", http.StatusUnauthorized},
		{"unlisted path authenticated", "/api/orders", "moderator-token", http.StatusOK},
		{"expired token on protected path", "/api/user/me", "expired-token", http.StatusUnauthorized},
		{"prefix is not a substring match", "/authority", "", http.StatusUnauthorized},
		{"dot segments are cleaned", "/auth/../api/admin/users/1", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called := serve(t, tc.target, tc.token)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if called != (tc.want == http.StatusOK) {
				t.Fatalf("handler called=%v for status %d", called, rec.Code)
			}
		})
	}
}

func TestAuthorize_UnauthorizedCarriesBearerChallenge(t *testing.T) {
	rec, _ := serve(t, "/api/admin/users/1", "")
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
		t.Fatalf("expected Bearer challenge, got %q", got)
	}
}

func TestAuthorize_ForbiddenHasNoChallenge(t *testing.T) {
	rec, _ := serve(t, "/api/admin/users/1", "user-token")
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "" {
		t.Fatalf("expected no challenge on 403, got %q", got)
	}
}
