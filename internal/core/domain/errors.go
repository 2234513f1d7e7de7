package domain

import "errors"

// Error classes. Concrete errors below match one of these through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate record")
	ErrStorage    = errors.New("storage failure")
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenMalformed     = errors.New("malformed token")
	ErrTokenExpired       = errors.New("token expired")
)

// ValidationError describes malformed input. Its message is safe to return
// to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateError reports a uniqueness violation on a user field.
type DuplicateError struct {
	Field   string
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

var (
	ErrInvalidIdentifier = &ValidationError{Field: "nationalId", Message: "invalid national identifier"}
	ErrInvalidEmail      = &ValidationError{Field: "email", Message: "invalid email"}
	ErrInvalidName       = &ValidationError{Field: "name", Message: "name must have 4 to 100 letters or spaces"}
	ErrInvalidBirthDate  = &ValidationError{Field: "birthDate", Message: "birth date must be in the past"}
	ErrUnderage          = &ValidationError{Field: "birthDate", Message: "user must be at least 18 years old"}

	ErrDuplicateIdentifier = &DuplicateError{Field: "nationalId", Message: "national identifier already registered"}
	ErrDuplicateEmail      = &DuplicateError{Field: "email", Message: "email already registered"}
)
