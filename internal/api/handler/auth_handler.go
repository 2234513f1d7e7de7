package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/estagiarios/e-commerce/internal/api/metrics"
	"github.com/estagiarios/e-commerce/internal/core/domain"
	"github.com/estagiarios/e-commerce/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	users       ports.UserDirectory
}

func NewAuthHandler(authService ports.AuthService, users ports.UserDirectory) *AuthHandler {
	return &AuthHandler{authService: authService, users: users}
}

// Login authenticates a national identifier and password and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.NationalID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrAccountDisabled):
			metrics.LoginAttemptsTotal.WithLabelValues("account_disabled").Inc()
		default:
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toLoginResponse(res))
}

// Register creates a new account with the USER role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	in, err := toRegisterInput(req)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.users.Register(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		case errors.Is(err, domain.ErrDuplicate):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user registered successfully",
		User:    toUserResponse(user),
	})
}

// ForgotPassword replaces the password of the account matching the national
// identifier and birth date.
//
// @Summary      Reset a forgotten password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Identity proof and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		return domain.ErrInvalidBirthDate
	}

	_, err = h.users.ResetPassword(c.Request().Context(), req.NationalID, birthDate, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.PasswordResetsTotal.WithLabelValues("not_found").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, "no account matches the given national identifier and birth date")
		case errors.Is(err, domain.ErrValidation):
			metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.PasswordResetsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated successfully"})
}
