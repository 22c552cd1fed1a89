// Package server wires configuration, persistence, the content store and the
// HTTP API into a runnable application.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/server/config"
	"github.com/dmitrijs2005/nkitsi/internal/server/httpapi"
	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nkitsi/internal/server/services"
	"github.com/dmitrijs2005/nkitsi/internal/server/storage"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const credentialsCheckTimeout = 5 * time.Second

var newContentStore = storage.New

type App struct {
	config  *config.Config
	logger  logging.Logger
	rm      repomanager.RepositoryManager
	store   storage.ContentStore
	uploads *services.UploadService
	server  *httpapi.Server
}

// NewApp builds the application. An empty DatabaseDSN selects the in-memory
// user store.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger := logging.NewJSON(out, c.LogLevel)

	var rm repomanager.RepositoryManager
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "DATABASE_DSN is not set, users are kept in memory")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		pg, err := repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := pg.RunMigrations(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		rm = pg
	}

	store, err := newContentStore(ctx, c)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	creds := services.NewCredentialService(rm, logger)
	sessions := services.NewSessionService(rm, creds, c, logger)
	uploads := services.NewUploadService(store, c.UploadTimeout, logger)

	srv := httpapi.NewServer(c.EndpointAddrHTTP, logger, creds, sessions, uploads, httpapi.Options{
		MaxUploadBytes:  c.MaxUploadBytes,
		ShutdownTimeout: c.ShutdownTimeout,
	})

	return &App{config: c, logger: logger, rm: rm, store: store, uploads: uploads, server: srv}, nil
}

// checkCredentials only warns; uploads report the failure per request.
func (app *App) checkCredentials(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, credentialsCheckTimeout)
	defer cancel()

	if err := app.uploads.CheckCredentials(ctx); err != nil {
		app.logger.Warn(ctx, "storage credentials are not available, uploads will fail", "error", err)
		return
	}
	app.logger.Info(ctx, "storage credentials resolved", "backend", app.config.StorageBackend)
}

func (app *App) close(ctx context.Context) {
	if c, ok := app.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			app.logger.Error(ctx, "storage close error", "error", err)
		}
	}
	if err := app.rm.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM/SIGQUIT arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.close(context.WithoutCancel(ctx))

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrHTTP)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.checkCredentials(gctx)
		return nil
	})

	g.Go(func() error {
		return app.server.Run(gctx)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	app.logger.Info(ctx, "server stopped")
	return nil
}

// Main is the body of cmd/server.
func Main(ctx context.Context, c *config.Config) error {
	gin.SetMode(gin.ReleaseMode)

	app, err := NewApp(ctx, c, os.Stdout)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
