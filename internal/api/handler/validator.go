package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/estagiarios/e-commerce/internal/core/domain"
	"github.com/estagiarios/e-commerce/internal/core/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Besides the built-in tags it understands:
//
//	email_light     loose email syntax, same rule the services apply
//	cpf             national identifier with valid check digits
//	cpf_format      11 digits, bare or as 000.000.000-00
//	personname      4 to 100 letters or spaces
//	password        registration password policy
//	login_password  login length bound
//	reset_password  password reset length bound
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	_ = v.RegisterValidation("email_light", func(fl validator.FieldLevel) bool {
		return validation.IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return validation.IsValidNationalID(fl.Field().String())
	})
	_ = v.RegisterValidation("cpf_format", func(fl validator.FieldLevel) bool {
		return validation.IsNationalIDFormat(fl.Field().String())
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return validation.IsValidName(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return validation.ValidateNewPassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("login_password", func(fl validator.FieldLevel) bool {
		return validation.ValidateLoginPassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("reset_password", func(fl validator.FieldLevel) bool {
		return validation.ValidateResetPassword(fl.Field().String()) == nil
	})

	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Only the first failing
// field is reported, as a *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fieldError(ve[0])
	}
	return err
}

// fieldError converts a single FieldError into a client-safe message. Custom
// tags reuse the domain's own messages so the HTTP layer and the services
// describe the same failure the same way.
func fieldError(fe validator.FieldError) *domain.ValidationError {
	field := fe.Field()
	value, _ := fe.Value().(string)

	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "email", "email_light":
		msg = domain.ErrInvalidEmail.Message
	case "cpf", "cpf_format":
		msg = domain.ErrInvalidIdentifier.Message
	case "personname":
		msg = domain.ErrInvalidName.Message
	case "password":
		msg = validation.ValidateNewPassword(value).Error()
	case "login_password":
		msg = validation.ErrLoginPasswordLength.Message
	case "reset_password":
		msg = validation.ErrResetPasswordLength.Message
	case "datetime":
		msg = field + " must be a date in YYYY-MM-DD format"
	case "min":
		msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		msg = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	return &domain.ValidationError{Field: field, Message: msg}
}

// jsonFieldName reports fields by their wire name: the json tag for bodies,
// the query or param tag for request parameters.
func jsonFieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "query", "param"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
