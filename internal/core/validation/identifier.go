// Package validation holds the pure credential checks used at registration,
// login and password reset: national identifier (CPF) checksum, email and
// name syntax, password policy, and the masking helpers used in logs.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	nationalIDLength = 11
	maxEmailLength   = 150
	minNameLength    = 4
	maxNameLength    = 100
)

var (
	emailPattern     = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@([A-Za-z0-9.-]+\.[A-Za-z]{2,})$`)
	namePattern      = regexp.MustCompile(`^[\p{L}\s]+$`)
	nationalIDFormat = regexp.MustCompile(`^(\d{11}|\d{3}\.\d{3}\.\d{3}-\d{2})$`)
)

// Normalize strips every non-digit character from raw.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidNationalID reports whether raw, once normalized, is a CPF with
// correct check digits. Accepts both "11144477735" and "111.444.777-35".
func IsValidNationalID(raw string) bool {
	id := Normalize(raw)
	if len(id) != nationalIDLength {
		return false
	}
	if allSame(id) {
		return false
	}

	digits := make([]int, nationalIDLength)
	for i := range id {
		digits[i] = int(id[i] - '0')
	}

	first := checkDigit(digits[:9], 10)
	if first != digits[9] {
		return false
	}
	second := checkDigit(digits[:10], 11)
	return second == digits[10]
}

// IsNationalIDFormat reports whether raw is shaped like a CPF, either bare
// digits or punctuated. Check digits are not verified.
func IsNationalIDFormat(raw string) bool {
	return nationalIDFormat.MatchString(strings.TrimSpace(raw))
}

// checkDigit computes a CPF verification digit over ds with weights
// starting at startWeight and decreasing by one per position.
func checkDigit(ds []int, startWeight int) int {
	sum := 0
	for i, d := range ds {
		sum += d * (startWeight - i)
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidEmail checks raw against a light RFC-style pattern: allowed
// local-part characters, "@", a dotted domain and a TLD of two or more letters.
func IsValidEmail(raw string) bool {
	email := strings.TrimSpace(raw)
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	return emailPattern.MatchString(email)
}

// IsValidName reports whether raw is 4 to 100 characters of letters
// (accented included) and spaces.
func IsValidName(raw string) bool {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < minNameLength || n > maxNameLength {
		return false
	}
	return namePattern.MatchString(name)
}

// MaskNationalID keeps the first three digits and masks the rest,
// e.g. "11144477735" -> "111********".
func MaskNationalID(raw string) string {
	id := Normalize(raw)
	if len(id) <= 3 {
		return strings.Repeat("*", len(id))
	}
	return id[:3] + strings.Repeat("*", len(id)-3)
}

// MaskEmail keeps the first character of the local part and the domain,
// e.g. "user@domain.com" -> "u***@domain.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if email == "" || at < 0 {
		return "***"
	}
	local, domainPart := email[:at], email[at+1:]
	if utf8.RuneCountInString(local) <= 1 {
		return "***@" + domainPart
	}
	first, _ := utf8.DecodeRuneInString(local)
	return string(first) + "***@" + domainPart
}
