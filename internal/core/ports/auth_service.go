package ports

import (
	"context"
	"time"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name       string
	NationalID string
	BirthDate  time.Time
	Email      string
	Password   string
}

// UserDirectory owns account lookup and creation.
type UserDirectory interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ResetPassword(ctx context.Context, nationalID string, birthDate time.Time, newPassword string) (*domain.User, error)
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(p *domain.Principal) (token string, expiresAt time.Time, err error)
	Validate(token string) (*domain.Principal, error)
}

// LoginResult is returned by a successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal *domain.Principal
}

// AuthService authenticates credentials and issues tokens.
type AuthService interface {
	Login(ctx context.Context, nationalID, password string) (*LoginResult, error)
}
