// Package server exposes the meetnotes HTTP API: transcript upload, summary
// generation, and summary read/update against the in-memory store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gofrs/flock"

	"meetnotes/internal/config"
	"meetnotes/internal/logging"
	"meetnotes/internal/summary"
	"meetnotes/internal/transcript"
)

// Server hosts the HTTP API and enforces single-instance execution via a
// runtime lock file.
type Server struct {
	bind    string
	logger  *slog.Logger
	intake  *transcript.Intake
	service *summary.Service

	lockPath string
	lock     *flock.Flock

	listener net.Listener
	server   *http.Server
}

// New constructs a Server from validated configuration and its dependencies.
func New(cfg *config.Config, svc *summary.Service, intake *transcript.Intake, logger *slog.Logger) (*Server, error) {
	if cfg == nil || svc == nil || intake == nil {
		return nil, errors.New("server requires config, summary service, and transcript intake")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		bind:     cfg.Server.Bind,
		logger:   logger.With(logging.String("component", "api-server")),
		intake:   intake,
		service:  svc,
		lockPath: cfg.LockFilePath(),
		lock:     flock.New(cfg.LockFilePath()),
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler builds the route table with CORS and panic recovery applied.
// Exposed so tests can drive the full middleware stack without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/upload-transcript", s.handleUploadTranscript)
	mux.HandleFunc("/api/generate-summary", s.handleGenerateSummary)
	mux.HandleFunc("/api/update-summary", s.handleUpdateSummary)
	mux.HandleFunc("/api/get-summary/", s.handleGetSummary)
	return corsMiddleware(s.recoverMiddleware(mux))
}

// Start acquires the instance lock, binds the listener, and serves until the
// context is canceled.
func (s *Server) Start(ctx context.Context) error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another meetnotes server instance is already running")
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", s.lockPath))
	return nil
}

// Addr reports the bound listener address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully and releases the instance lock.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	if err := s.lock.Unlock(); err == nil {
		s.logger.Info("api server stopped")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}
