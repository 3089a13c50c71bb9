package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/roach88/aethervision/internal/shell"
)

// RequestIDHeader carries the id of each request in its response.
const RequestIDHeader = "X-Request-Id"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := shell.ParseState(r.URL.Query())
	view := s.shell.View(state)

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, newPage(view, s.shell)); err != nil {
		slog.Error("rendering page failed", "module", view.Module.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	slog.Debug("health check", "remote_addr", r.RemoteAddr)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.ids.Generate()
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
