// Package httpapi exposes the auth session service and the upload gateway
// over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/server/services"
	"github.com/gin-gonic/gin"
)

const readHeaderTimeout = 10 * time.Second

type Server struct {
	address         string
	credentials     *services.CredentialService
	sessions        *services.SessionService
	uploads         *services.UploadService
	logger          logging.Logger
	maxUploadBytes  int64
	shutdownTimeout time.Duration
}

type Options struct {
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

func NewServer(address string, l logging.Logger, cs *services.CredentialService, ss *services.SessionService, us *services.UploadService, opts Options) *Server {
	return &Server{
		address:         address,
		logger:          l.With("module", "http_server"),
		credentials:     cs,
		sessions:        ss,
		uploads:         us,
		maxUploadBytes:  opts.MaxUploadBytes,
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Router builds the gin engine with every route and middleware installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors())

	for _, prefix := range []string{"/auth", "/api/auth"} {
		s.registerAuthRoutes(r.Group(prefix))
	}

	api := r.Group("/api")
	api.POST("/upload", s.handleUpload)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func (s *Server) registerAuthRoutes(g *gin.RouterGroup) {
	g.POST("/signup", s.handleSignUp)
	g.POST("/confirm-signup", s.handleConfirmSignUp)
	g.POST("/resend-code", s.handleResendCode)
	g.POST("/login", s.handleLogin)
	g.POST("/forgot-password", s.handleForgotPassword)
	g.POST("/confirm-forgot-password", s.handleConfirmForgotPassword)

	// the access token presented to /refresh is expected to be stale
	g.POST("/refresh", s.bearer(false), s.handleRefresh)

	g.GET("/user", s.bearer(true), s.handleUser)
	g.POST("/change-password", s.bearer(true), s.handleChangePassword)
	g.POST("/logout", s.bearer(true), s.handleLogout)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
			_ = srv.Close()
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
