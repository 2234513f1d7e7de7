package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/estagiarios/e-commerce/internal/core/domain"
	"github.com/estagiarios/e-commerce/internal/core/ports"
	"github.com/estagiarios/e-commerce/internal/core/validation"
)

const minimumAge = 18

// RegistrationGuard abstracts the short-lived reservation store (Redis) used
// to keep two concurrent registrations from claiming the same identifier.
// Reserve returns a token that Release must present to drop the claim.
type RegistrationGuard interface {
	Reserve(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// DirectoryService implements ports.UserDirectory on top of a UserRepository.
type DirectoryService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	guard  RegistrationGuard
	log    zerolog.Logger
	now    func() time.Time
}

// NewDirectoryService returns a DirectoryService. guard may be nil, in which
// case the store's unique indexes are the only protection against races.
func NewDirectoryService(repo ports.UserRepository, hasher ports.PasswordHasher, guard RegistrationGuard, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		repo:   repo,
		hasher: hasher,
		guard:  guard,
		log:    log,
		now:    time.Now,
	}
}

// Register validates a registration request and persists a new active user
// with the default role set.
func (s *DirectoryService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if !validation.IsValidNationalID(in.NationalID) {
		return nil, domain.ErrInvalidIdentifier
	}
	nationalID := validation.Normalize(in.NationalID)

	email := validation.NormalizeEmail(in.Email)
	if !validation.IsValidEmail(email) {
		return nil, domain.ErrInvalidEmail
	}

	name := strings.TrimSpace(in.Name)
	if !validation.IsValidName(name) {
		return nil, domain.ErrInvalidName
	}

	if err := validation.ValidateNewPassword(in.Password); err != nil {
		return nil, err
	}

	birthDate := dateOnly(in.BirthDate)
	today := dateOnly(s.now())
	if in.BirthDate.IsZero() || !birthDate.Before(today) {
		return nil, domain.ErrInvalidBirthDate
	}
	if domain.AgeAt(birthDate, today) < minimumAge {
		return nil, domain.ErrUnderage
	}

	log := s.log.With().
		Str("national_id", validation.MaskNationalID(nationalID)).
		Str("email", validation.MaskEmail(email)).
		Logger()

	release, err := s.reserve(ctx, nationalID, email)
	if err != nil {
		log.Warn().Err(err).Msg("registration rejected: identifier reserved by concurrent request")
		return nil, err
	}
	defer release()

	exists, err := s.repo.ExistsByNationalID(ctx, nationalID)
	if err != nil {
		return nil, storageError("register: check national id", err)
	}
	if exists {
		log.Warn().Msg("registration rejected: national id already registered")
		return nil, domain.ErrDuplicateIdentifier
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, storageError("register: check email", err)
	}
	if exists {
		log.Warn().Msg("registration rejected: email already registered")
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Save(ctx, &domain.User{
		Name:         name,
		NationalID:   nationalID,
		BirthDate:    birthDate,
		Email:        email,
		PasswordHash: hash,
		Roles:        domain.DefaultRoles(),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			log.Warn().Err(err).Msg("registration rejected by unique index")
			return nil, err
		}
		log.Error().Err(err).Msg("failed to save user")
		return nil, storageError("register: save user", err)
	}

	log.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// FindByID returns the user with the given id.
func (s *DirectoryService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.find(s.repo.FindByID(ctx, id))
}

// FindByNationalID returns the user registered under nationalID, which may
// be given formatted or digits-only.
func (s *DirectoryService) FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	return s.find(s.repo.FindByNationalID(ctx, validation.Normalize(nationalID)))
}

// FindByEmail returns the user registered under email, compared case-insensitively.
func (s *DirectoryService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(s.repo.FindByEmail(ctx, validation.NormalizeEmail(email)))
}

func (s *DirectoryService) find(u *domain.User, err error) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageError("find user", err)
	}
	return u, nil
}

// ResetPassword replaces the password of the user matching both nationalID
// and birthDate exactly. Only the reset length bound is applied to
// newPassword, not the registration policy. Identifiers that match no
// account, malformed ones included, yield domain.ErrUserNotFound.
func (s *DirectoryService) ResetPassword(ctx context.Context, nationalID string, birthDate time.Time, newPassword string) (*domain.User, error) {
	if err := validation.ValidateResetPassword(newPassword); err != nil {
		return nil, err
	}
	id := validation.Normalize(nationalID)
	log := s.log.With().Str("national_id", validation.MaskNationalID(id)).Logger()

	user, err := s.repo.FindByNationalIDAndBirthDate(ctx, id, dateOnly(birthDate))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn().Msg("password reset rejected: no account matches national id and birth date")
			return nil, domain.ErrUserNotFound
		}
		return nil, storageError("reset password: find user", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("reset password: hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to save new password")
		return nil, storageError("reset password: save user", err)
	}

	log.Info().Int64("user_id", saved.ID).Msg("password reset")
	return saved, nil
}

// reserve claims both identifiers in the guard. A failing guard is logged and
// ignored; the store's unique indexes still reject duplicates.
func (s *DirectoryService) reserve(ctx context.Context, nationalID, email string) (func(), error) {
	if s.guard == nil {
		return func() {}, nil
	}

	claims := []struct {
		key string
		dup error
	}{
		{"national_id:" + nationalID, domain.ErrDuplicateIdentifier},
		{"email:" + email, domain.ErrDuplicateEmail},
	}

	type hold struct{ key, token string }
	var held []hold
	release := func() {
		for _, h := range held {
			if err := s.guard.Release(context.WithoutCancel(ctx), h.key, h.token); err != nil {
				s.log.Warn().Err(err).Msg("failed to release registration reservation")
			}
		}
	}

	for _, c := range claims {
		token, ok, err := s.guard.Reserve(ctx, c.key)
		if err != nil {
			s.log.Warn().Err(err).Msg("registration guard unavailable, relying on unique indexes")
			continue
		}
		if !ok {
			release()
			return nil, c.dup
		}
		held = append(held, hold{key: c.key, token: token})
	}
	return release, nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
