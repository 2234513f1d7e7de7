package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

type authFixture struct {
	repo   *stubUserRepo
	hasher *stubHasher
	dir    *DirectoryService
	tokens *TokenService
	svc    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newStubUserRepo()
	hasher := &stubHasher{}
	dir := NewDirectoryService(repo, hasher, nil, zerolog.Nop())
	dir.now = func() time.Time { return fixedNow }

	tokens, err := NewTokenService("secret", "e-commerce", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	tokens.now = func() time.Time { return fixedNow }

	return &authFixture{
		repo:   repo,
		hasher: hasher,
		dir:    dir,
		tokens: tokens,
		svc:    NewAuthService(dir, hasher, tokens, zerolog.Nop()),
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	user, err := f.dir.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := f.svc.Login(context.Background(), "111.444.777-35", "Secret@123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if !res.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", res.ExpiresAt)
	}
	if res.Principal.ID != user.ID || res.Principal.Email != user.Email {
		t.Fatalf("unexpected principal: %+v", res.Principal)
	}

	validated, err := f.tokens.Validate(res.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if validated.ID != user.ID || !validated.HasRole(domain.RoleUser) {
		t.Fatalf("unexpected token principal: %+v", validated)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownUserAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.dir.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPass := f.svc.Login(context.Background(), "11144477735", "Wrong@123")
	_, unknown := f.svc.Login(context.Background(), "52998224725", "Secret@123")

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if unknown != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPass, unknown)
	}
}

func TestAuthService_Login_UnknownUserStillHashes(t *testing.T) {
	f := newAuthFixture(t)

	_, _ = f.svc.Login(context.Background(), "52998224725", "Secret@123")
	if f.hasher.calls != 1 {
		t.Fatalf("expected one hash comparison for unknown user, got %d", f.hasher.calls)
	}
}

func TestAuthService_Login_AccountDisabled(t *testing.T) {
	f := newAuthFixture(t)
	user, err := f.dir.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	f.repo.byID[user.ID].Active = false

	if _, err := f.svc.Login(context.Background(), "11144477735", "Secret@123"); err != domain.ErrAccountDisabled {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Login_DisabledWithWrongPasswordIsInvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	user, err := f.dir.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	f.repo.byID[user.ID].Active = false

	if _, err := f.svc.Login(context.Background(), "11144477735", "Wrong@123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyCredentials(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), "", "Secret@123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "11144477735", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StorageErrorIsNotMasked(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.findErr = errors.New("mongo unavailable")

	_, err := f.svc.Login(context.Background(), "11144477735", "Secret@123")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
