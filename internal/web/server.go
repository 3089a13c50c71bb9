// Package web serves the dashboard over HTTP.
//
// Every request carries its own State in the query string, is loaded and
// rendered synchronously on the request goroutine, and shares nothing with
// other requests except the immutable Shell and templates.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/aethervision/internal/shell"
)

// ShutdownTimeout bounds the graceful shutdown of Serve.
const ShutdownTimeout = 5 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Server is the HTTP surface of a Shell.
type Server struct {
	shell *shell.Shell
	ids   IDGenerator
	page  *template.Template
	mux   *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithIDGenerator replaces the request id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Server) {
		s.ids = g
	}
}

// New creates a server presenting sh.
func New(sh *shell.Shell, opts ...Option) (*Server, error) {
	page, err := template.New("page.html").Funcs(funcs).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	s := &Server{
		shell: sh,
		ids:   UUIDv7Generator{},
		page:  page,
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	return s, nil
}

// Handler returns the root handler, including request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("dashboard listening", "address", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
