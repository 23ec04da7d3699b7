// Package app initializes and runs the userstore process: it builds the
// logger, the hashing worker pool and the repository manager, runs schema
// migrations, and keeps the process alive until a shutdown signal arrives.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/userstore/internal/config"
	"github.com/dmitrijs2005/userstore/internal/logging"
	"github.com/dmitrijs2005/userstore/internal/passwd"
	"github.com/dmitrijs2005/userstore/internal/repositories/repomanager"
	"github.com/dmitrijs2005/userstore/internal/repositories/users"
	"github.com/dmitrijs2005/userstore/internal/taskpool"
)

type App struct {
	config *config.Config
	logger logging.Logger

	users users.Repository
}

func NewApp(c *config.Config) *App {
	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	return &App{config: c, logger: logger}
}

// Users exposes the account repository to embedding callers. It is nil
// until Run has connected to the database.
func (app *App) Users() users.Repository {
	return app.users
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run connects, migrates and blocks until ctx is cancelled or a shutdown
// signal arrives. Resources are released on the way out.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	pool := taskpool.New(app.config.HashWorkers, app.config.HashQueueSize)
	defer pool.Close()

	hasher, err := passwd.NewHasher([]byte(app.config.PasswordSecret), app.config.HashParams(), pool)
	if err != nil {
		return fmt.Errorf("hasher init error: %w", err)
	}

	m, err := repomanager.Open(ctx, app.config.PoolSettings(), hasher)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer m.Close()

	app.users = m.Users()

	app.logger.Info(ctx, "userstore ready",
		"max_conns", app.config.DBMaxConns,
		"hash_workers", app.config.HashWorkers,
	)

	<-ctx.Done()

	app.logger.Info(context.Background(), "Shutting down...")

	return nil
}
