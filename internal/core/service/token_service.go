package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

// DefaultTokenTTL is the validity window used when none is configured.
const DefaultTokenTTL = time.Hour

// tokenClaims is the JWT payload. Subject carries the user id.
type tokenClaims struct {
	Roles      []string `json:"roles"`
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	NationalID string   `json:"national_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens. Validation is
// stateless: roles are read from the token, so a role change on the stored
// user only takes effect once the holder logs in again.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for p that expires after the configured TTL.
func (s *TokenService) Issue(p *domain.Principal) (string, time.Time, error) {
	if p == nil {
		return "", time.Time{}, errors.New("issue token: nil principal")
	}

	now := s.now()
	exp := now.Add(s.ttl)
	claims := tokenClaims{
		Roles:      p.Authorities(),
		Name:       p.Name,
		Email:      p.Email,
		NationalID: p.NationalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Validate verifies the signature and expiry of token and returns the
// embedded principal. It fails with domain.ErrTokenExpired once now >= exp and
// with domain.ErrTokenMalformed for anything else.
func (s *TokenService) Validate(token string) (*domain.Principal, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q is not a user id", domain.ErrTokenMalformed, claims.Subject)
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, a := range claims.Roles {
		r, err := domain.ParseRole(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
		}
		roles = append(roles, r)
	}

	return &domain.Principal{
		ID:         id,
		Name:       claims.Name,
		Email:      claims.Email,
		NationalID: claims.NationalID,
		Roles:      roles,
	}, nil
}
