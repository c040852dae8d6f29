package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

type Server struct {
	todoService service.TodoService
	authService service.AuthService
	db          database.Service
	views       *Renderer
	cookies     cookieSettings
	origins     []string
	logger      *slog.Logger
}

// NewServer wires the handlers and returns the ready-to-run HTTP server.
func NewServer(cfg *config.Config, todoService service.TodoService, authService service.AuthService, dbService database.Service, logger *slog.Logger) (*http.Server, error) {
	views, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	appServer := &Server{
		todoService: todoService,
		authService: authService,
		db:          dbService,
		views:       views,
		cookies: cookieSettings{
			name:   cfg.Session.CookieName,
			maxAge: cfg.Session.TTL,
			secure: cfg.Session.SecureCookie,
		},
		origins: cfg.HTTP.AllowedOrigins,
		logger:  logger.With("component", "http"),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return server, nil
}
