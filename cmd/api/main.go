package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estagiarios/e-commerce/internal/api"
	"github.com/estagiarios/e-commerce/internal/core/service"
	"github.com/estagiarios/e-commerce/internal/infrastructure/config"
	mongostore "github.com/estagiarios/e-commerce/internal/infrastructure/db/mongo"
	redisstore "github.com/estagiarios/e-commerce/internal/infrastructure/db/redis"
	"github.com/estagiarios/e-commerce/internal/infrastructure/http/handlers"
	"github.com/estagiarios/e-commerce/internal/infrastructure/security"
	"github.com/estagiarios/e-commerce/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		bootLog := logger.Get()
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "e-commerce-auth",
		Env:     cfg.Env,
	})

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userRepo := mongostore.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	guard := redisstore.NewRegistrationGuard(rdb, cfg.Redis.ReservationTTL)
	directory := service.NewDirectoryService(userRepo, hasher, guard, logger.Component("directory"))

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token service")
	}
	authService := service.NewAuthService(directory, hasher, tokens, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		Log:            logger.Component("http"),
		Auth:           authService,
		Users:          directory,
		Tokens:         tokens,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Checks: map[string]handlers.Checker{
			"mongodb": mongostore.HealthCheck(db),
			"redis":   redisstore.HealthCheck(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
