package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

func TestValidateNewPassword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"valid", "Secret@123", nil},
		{"valid max length", "Abcdefgh1@abcdefghij", nil},
		{"too short", "Ab1@", ErrPasswordLength},
		{"too long", "Abcdefgh1@abcdefghijk", ErrPasswordLength},
		{"no lowercase", "SECRET@123", ErrPasswordLowercase},
		{"no uppercase", "secret@123", ErrPasswordUppercase},
		{"no digit", "Secret@abc", ErrPasswordDigit},
		{"no symbol", "Secret1234", ErrPasswordSymbol},
		{"symbol outside set", "Secret@12#", ErrPasswordCharset},
		{"first rule wins", "short", ErrPasswordLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewPassword(tt.in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestValidateLoginPassword_Bounds(t *testing.T) {
	assert.NoError(t, ValidateLoginPassword("12345678"))
	assert.NoError(t, ValidateLoginPassword("123456789012"))
	assert.ErrorIs(t, ValidateLoginPassword("1234567"), ErrLoginPasswordLength)
	// 13 characters is a valid registration length but exceeds the login bound.
	assert.ErrorIs(t, ValidateLoginPassword("Secret@123456"), ErrLoginPasswordLength)
}

func TestValidateResetPassword_Bounds(t *testing.T) {
	assert.NoError(t, ValidateResetPassword("NewPass@1"))
	assert.ErrorIs(t, ValidateResetPassword("short"), ErrResetPasswordLength)
	assert.ErrorIs(t, ValidateResetPassword("NewPass@12345"), ErrResetPasswordLength)
}
