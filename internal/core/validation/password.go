package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

// PasswordSymbols is the set of special characters accepted in passwords.
const PasswordSymbols = "@$!%*?&"

// Registration accepts 8..20 characters; login and reset only 8..12.
const (
	NewPasswordMinLen   = 8
	NewPasswordMaxLen   = 20
	LoginPasswordMinLen = 8
	LoginPasswordMaxLen = 12
)

var (
	ErrPasswordLength    = &domain.ValidationError{Field: "password", Message: "password must have between 8 and 20 characters"}
	ErrPasswordLowercase = &domain.ValidationError{Field: "password", Message: "password must contain a lowercase letter"}
	ErrPasswordUppercase = &domain.ValidationError{Field: "password", Message: "password must contain an uppercase letter"}
	ErrPasswordDigit     = &domain.ValidationError{Field: "password", Message: "password must contain a digit"}
	ErrPasswordSymbol    = &domain.ValidationError{Field: "password", Message: "password must contain one of " + PasswordSymbols}
	ErrPasswordCharset   = &domain.ValidationError{Field: "password", Message: "password may only contain letters, digits and " + PasswordSymbols}

	ErrLoginPasswordLength = &domain.ValidationError{Field: "password", Message: "password must have between 8 and 12 characters"}
	ErrResetPasswordLength = &domain.ValidationError{Field: "newPassword", Message: "new password must have between 8 and 12 characters"}
)

// ValidateNewPassword enforces the registration policy and returns the first
// rule raw violates, or nil.
func ValidateNewPassword(raw string) error {
	n := utf8.RuneCountInString(raw)
	if n < NewPasswordMinLen || n > NewPasswordMaxLen {
		return ErrPasswordLength
	}

	var lower, upper, digit, symbol bool
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	switch {
	case !lower:
		return ErrPasswordLowercase
	case !upper:
		return ErrPasswordUppercase
	case !digit:
		return ErrPasswordDigit
	case !symbol:
		return ErrPasswordSymbol
	}

	for _, r := range raw {
		if !isPasswordRune(r) {
			return ErrPasswordCharset
		}
	}
	return nil
}

// ValidateLoginPassword applies the looser length bound used at login.
func ValidateLoginPassword(raw string) error {
	if !lengthBetween(raw, LoginPasswordMinLen, LoginPasswordMaxLen) {
		return ErrLoginPasswordLength
	}
	return nil
}

// ValidateResetPassword applies the length bound used by password reset.
func ValidateResetPassword(raw string) error {
	if !lengthBetween(raw, LoginPasswordMinLen, LoginPasswordMaxLen) {
		return ErrResetPasswordLength
	}
	return nil
}

func lengthBetween(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

func isPasswordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		strings.ContainsRune(PasswordSymbols, r)
}
