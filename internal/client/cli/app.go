package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/client/client"
	"github.com/dmitrijs2005/nkitsi/internal/client/config"
	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/client/repositories/documents"
	"github.com/dmitrijs2005/nkitsi/internal/client/repositories/kv"
	"github.com/dmitrijs2005/nkitsi/internal/client/services"
	"github.com/dmitrijs2005/nkitsi/internal/filex"
	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/netx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// documentsService is the part of services.DocumentService the CLI uses.
type documentsService interface {
	Submit(ctx context.Context, req services.SubmitRequest, progress netx.ProgressFunc) (*services.SubmitResult, error)
	List(ctx context.Context) []models.DocumentRecord
	Remove(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

type App struct {
	config      *config.Config
	authService services.AuthService
	documents   documentsService
	logger      logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu       sync.Mutex
	userName string
	loggedIn bool
	mode     Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	db, err := kv.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	logger := logging.NewText(os.Stderr, c.LogLevel)
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, c.UploadTimeout)

	return &App{
		config:      c,
		authService: services.NewAuthService(api, db),
		documents:   services.NewDocumentService(api, documents.NewStore(db, logger), logger),
		logger:      logger,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run starts the status watcher and the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to nkitsi CLI (type 'help' for commands)")
	if u := a.authService.LastUser(ctx); u != "" {
		printlnFn("Last signed in as", u)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) setUser(name string, loggedIn bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName, a.loggedIn = name, loggedIn
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	parts := make([]string, 0, 2)
	if a.userName != "" {
		parts = append(parts, a.userName)
	}
	if a.mode != "" {
		parts = append(parts, string(a.mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s) ", strings.Join(parts, " "))
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
