// @title                       E-commerce Auth API
// @version                     1.0
// @description                 Registration, login, password reset and role-gated user lookups.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/estagiarios/e-commerce/docs"
	"github.com/estagiarios/e-commerce/internal/api/handler"
	"github.com/estagiarios/e-commerce/internal/api/middleware"
	"github.com/estagiarios/e-commerce/internal/core/ports"
	"github.com/estagiarios/e-commerce/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers and
// middleware.
type Dependencies struct {
	Log            zerolog.Logger
	Auth           ports.AuthService
	Users          ports.UserDirectory
	Tokens         ports.TokenIssuer
	AllowedOrigins []string
	// Checks are the readiness probes served at /health/ready, by name.
	Checks map[string]handlers.Checker
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/metrics" || strings.HasPrefix(c.Request().URL.Path, "/swagger")
		},
	}))

	// --- Authentication and path rules ---
	e.Use(middleware.Authenticate(deps.Tokens, deps.Log))
	e.Use(middleware.Authorize(middleware.DefaultRules()))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/forgot-password", authHandler.ForgotPassword)

	// --- Role-gated lookups ---
	userHandler := handler.NewUserHandler(deps.Users)
	e.GET("/api/user/me", userHandler.Me)
	e.GET("/api/admin/users/:id", userHandler.GetByID)
	e.GET("/api/moderator/users", userHandler.FindByEmail)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks, deps.Log)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
