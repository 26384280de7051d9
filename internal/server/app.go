// Package server initializes and runs the backend: it opens the database,
// applies migrations, assembles the HTTP API and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkraev/mycolog/internal/logging"
	"github.com/dkraev/mycolog/internal/server/config"
	"github.com/dkraev/mycolog/internal/server/httpapi"
	"github.com/dkraev/mycolog/internal/server/services"
	"github.com/dkraev/mycolog/internal/server/shared/db"
	"github.com/rs/zerolog"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.RepositoryManager
	server  *http.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewZerologLogger(newZerolog(c.Log.Level))

	manager, err := db.NewPostgresRepositoryManager(c.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := services.NewUserService(manager.Users(), []byte(c.JWT.Secret), c.JWT.TokenTTL)
	recordService := services.NewRecordService(manager.Records())

	server := &http.Server{
		Addr:         c.Server.Addr(),
		Handler:      httpapi.NewRouter(userService, recordService, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{config: c, logger: logger, manager: manager, server: server}, nil
}

func newZerolog(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "server shutdown failed", "error", err)
	}
	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}

	app.logger.Info(ctx, "server stopped")
	return nil
}
