package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/estagiarios/e-commerce/internal/core/domain"
	"github.com/estagiarios/e-commerce/internal/core/ports"
	"github.com/estagiarios/e-commerce/internal/core/validation"
)

// AuthService implements login: credential verification followed by token
// issuance.
type AuthService struct {
	users  ports.UserDirectory
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(users ports.UserDirectory, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Login authenticates nationalID/password. Unknown identifiers and wrong
// passwords both yield domain.ErrInvalidCredentials; only the log line tells
// them apart.
func (s *AuthService) Login(ctx context.Context, nationalID, password string) (*ports.LoginResult, error) {
	id := validation.Normalize(nationalID)
	log := s.log.With().Str("national_id", validation.MaskNationalID(id)).Logger()

	if id == "" || password == "" {
		log.Warn().Str("reason", "empty_credentials").Msg("login denied")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByNationalID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same hashing cost as a real comparison.
			s.hasher.Verify(password, s.dummyHash())
			log.Warn().Str("reason", "unknown_identifier").Msg("login denied")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Warn().Str("reason", "password_mismatch").Int64("user_id", user.ID).Msg("login denied")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		log.Warn().Str("reason", "account_disabled").Int64("user_id", user.ID).Msg("login denied")
		return nil, domain.ErrAccountDisabled
	}

	principal := domain.NewPrincipal(user)
	token, expiresAt, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("email", validation.MaskEmail(user.Email)).
		Strs("roles", principal.Authorities()).
		Msg("login succeeded")

	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: principal,
	}, nil
}

func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("timing-equalizer")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
			return
		}
		s.dummy = h
	})
	return s.dummy
}
