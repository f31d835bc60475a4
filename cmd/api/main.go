package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskhub/task-tracker/internal/api"
	"github.com/taskhub/task-tracker/internal/core/service"
	"github.com/taskhub/task-tracker/internal/identity"
	mongodb "github.com/taskhub/task-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhub/task-tracker/internal/infrastructure/db/redis"
	"github.com/taskhub/task-tracker/internal/infrastructure/queue"
	"github.com/taskhub/task-tracker/internal/pkg/config"
	"github.com/taskhub/task-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Task Tracker API
// @version         1.0
// @description     Team task tracking backend with delegated identity and role-based access control.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure task indexes")
	}

	auditRepo := mongodb.NewAuditRepository(db)
	audit := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, log)
	audit.Start(ctx)

	revocations := redisdb.NewRevocationStore(rdb)
	verifier := identity.NewVerifier(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, revocations)

	users := service.NewUserService(userRepo, audit, log)
	tasks := service.NewTaskService(taskRepo, userRepo, audit, log)

	e := api.NewRouter(api.RouterDeps{
		Users:    users,
		Tasks:    tasks,
		Verifier: verifier,
		Revoker:  revocations,
		Mongo:    db,
		Redis:    rdb,
		Logger:   log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("shutdown complete")
}
