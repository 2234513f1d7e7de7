package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

func newTestTokenService(t *testing.T, secret string, now *time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(secret, "e-commerce", time.Hour)
	require.NoError(t, err)
	svc.now = func() time.Time { return *now }
	return svc
}

func samplePrincipal() *domain.Principal {
	return &domain.Principal{
		ID:         42,
		Name:       "Maria Silva",
		Email:      "maria@example.com",
		NationalID: "11144477735",
		Roles:      []domain.Role{domain.RoleUser, domain.RoleModerator},
	}
}

func TestTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", "iss", time.Hour)
	assert.Error(t, err)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewTokenService("secret", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, svc.ttl)
}

func TestTokenService_IssueValidateRoundTrip(t *testing.T) {
	now := fixedNow
	svc := newTestTokenService(t, "secret", &now)

	token, exp, err := svc.Issue(samplePrincipal())
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(time.Hour), exp)

	now = fixedNow.Add(59 * time.Minute)
	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, samplePrincipal(), got)
	assert.True(t, got.HasRole(domain.RoleModerator))
	assert.False(t, got.HasRole(domain.RoleAdmin))
}

func TestTokenService_ClaimsShape(t *testing.T) {
	now := fixedNow
	svc := newTestTokenService(t, "secret", &now)

	token, _, err := svc.Issue(samplePrincipal())
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "e-commerce", claims["iss"])
	assert.Equal(t, []any{"ROLE_USER", "ROLE_MODERATOR"}, claims["roles"])
	assert.Equal(t, float64(fixedNow.Unix()), claims["iat"])
	assert.Equal(t, float64(fixedNow.Add(time.Hour).Unix()), claims["exp"])
	assert.NotEmpty(t, claims["jti"])
}

func TestTokenService_Expired(t *testing.T) {
	now := fixedNow
	svc := newTestTokenService(t, "secret", &now)

	token, _, err := svc.Issue(samplePrincipal())
	require.NoError(t, err)

	// now == exp counts as expired.
	now = fixedNow.Add(time.Hour)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	now = fixedNow.Add(2 * time.Hour)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_Malformed(t *testing.T) {
	now := fixedNow
	svc := newTestTokenService(t, "secret", &now)
	other := newTestTokenService(t, "other-secret", &now)

	good, _, err := svc.Issue(samplePrincipal())
	require.NoError(t, err)
	forged, _, err := other.Issue(&domain.Principal{ID: 1, Roles: []domain.Role{domain.RoleAdmin}})
	require.NoError(t, err)

	goodParts := strings.Split(good, ".")
	forgedParts := strings.Split(forged, ".")
	swappedPayload := goodParts[0] + "." + forgedParts[1] + "." + goodParts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "iss": "e-commerce", "exp": fixedNow.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":          "not-a-token",
		"empty":            "",
		"wrong secret":     forged,
		"tampered payload": swappedPayload,
		"alg none":         none,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(token)
			assert.ErrorIs(t, err, domain.ErrTokenMalformed)
			assert.False(t, errors.Is(err, domain.ErrTokenExpired))
		})
	}
}

func TestTokenService_WrongIssuer(t *testing.T) {
	now := fixedNow
	svc := newTestTokenService(t, "secret", &now)
	foreign, err := NewTokenService("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	foreign.now = svc.now

	token, _, err := foreign.Issue(samplePrincipal())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}
