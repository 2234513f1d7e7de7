package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/estagiarios/e-commerce/internal/core/ports"
)

// UserHandler serves read-only account lookups. Access per route is decided
// by the path rules, not here.
type UserHandler struct {
	users ports.UserDirectory
}

func NewUserHandler(users ports.UserDirectory) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the account of the authenticated caller.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByID(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetByID returns any account by its numeric id.
//
// @Summary      Get user by id
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	var req userIDRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.FindByID(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// FindByEmail returns the account registered under an email address.
//
// @Summary      Find user by email
// @Tags         moderator
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Email address"
// @Success      200    {object}  userResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/moderator/users [get]
func (h *UserHandler) FindByEmail(c echo.Context) error {
	var req findByEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
