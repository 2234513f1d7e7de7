package ports

import (
	"context"
	"time"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

// UserRepository is the persistence store for user accounts.
//
// Find methods return domain.ErrUserNotFound when no record matches.
// Save inserts when user.ID is zero (assigning the ID) and updates otherwise;
// implementations must enforce uniqueness of NationalID and Email and report
// violations as domain.ErrDuplicateIdentifier / domain.ErrDuplicateEmail.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByNationalIDAndBirthDate(ctx context.Context, nationalID string, birthDate time.Time) (*domain.User, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
