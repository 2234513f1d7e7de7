package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/estagiarios/e-commerce/internal/api/middleware"
	"github.com/estagiarios/e-commerce/internal/core/domain"
)

// currentPrincipal returns the principal attached by the Authenticate
// middleware. Routes behind Authorize always have one; the check guards
// handlers mounted without it.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return p, nil
}
