package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
	"github.com/Tomlord1122/todo-tracker/internal/server"
	"github.com/Tomlord1122/todo-tracker/internal/service"
	"github.com/Tomlord1122/todo-tracker/internal/session"
)

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Log.NewLogger()

	// 1. Database
	dbService, err := database.New(cfg.DB, logger)
	if err != nil {
		return err
	}
	if cfg.DB.AutoMigrate {
		if err := dbService.Migrate(ctx); err != nil {
			dbService.Close()
			return err
		}
	}
	gormDB := dbService.GetDB()

	// 2. Session storage
	var (
		sessions session.Store
		rdb      *redis.Client
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			dbService.Close()
			return fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		sessions = session.NewRedisStore(rdb, cfg.Session.TTL)
	default:
		dbStore := session.NewDatabaseStore(gormDB, cfg.Session.TTL)
		if n, err := dbStore.PurgeExpired(ctx); err != nil {
			logger.Warn("purge expired sessions", "err", err)
		} else if n > 0 {
			logger.Info("purged expired sessions", "count", n)
		}
		sessions = dbStore
	}

	// 3. Repositories and services
	todoRepo := repository.NewGormTodoRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)

	todoService := service.NewTodoService(todoRepo, nil, logger)
	authService := service.NewAuthService(userRepo, sessions, logger)

	// 4. HTTP server
	httpServer, err := server.NewServer(cfg, todoService, authService, dbService, logger)
	if err != nil {
		dbService.Close()
		return err
	}

	done := make(chan bool, 1)
	go gracefulShutdown(ctx, httpServer, dbService, rdb, logger, done)

	logger.Info("starting server", "addr", httpServer.Addr, "session_store", cfg.Session.Store)
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	<-done
	logger.Info("graceful shutdown complete")
	return nil
}

func gracefulShutdown(parent context.Context, apiServer *http.Server, dbService database.Service, rdb *redis.Client, logger *slog.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// The server has 5 seconds to finish the requests it is handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("close redis client", "err", err)
		}
	}
	if err := dbService.Close(); err != nil {
		logger.Error("close database connection pool", "err", err)
	}

	done <- true
}
