package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"reel/internal/app"
	"reel/internal/config"
	"reel/internal/gate"
	"reel/internal/logging"
	"reel/internal/uiloop"
)

// Server runs the interactive loop and the HTTP control API for one
// controller, holding a lock so only one instance serves a state directory.
type Server struct {
	bind       string
	controller *app.Controller
	loop       *uiloop.Loop
	metrics    http.Handler
	logger     *slog.Logger

	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// New constructs a server. metrics may be nil to disable /metrics.
func New(cfg *config.Config, controller *app.Controller, loop *uiloop.Loop, metrics http.Handler, logger *slog.Logger) (*Server, error) {
	if cfg == nil || controller == nil || loop == nil {
		return nil, errors.New("server requires config, controller, and interactive loop")
	}
	lockPath := cfg.LockPath()
	s := &Server{
		bind:       strings.TrimSpace(cfg.Paths.APIBind),
		controller: controller,
		loop:       loop,
		metrics:    metrics,
		logger:     logging.NewComponentLogger(logger, "api-server"),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/create", s.handleCreate)
	mux.HandleFunc("/api/codec", s.handleCodec)
	mux.HandleFunc("/api/replay", s.handleReplay)
	mux.HandleFunc("/api/share", s.handleShare)
	mux.HandleFunc("/api/jobs", s.handleJobs)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// Run acquires the instance lock, starts the interactive loop and the API
// listener, and blocks until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reel server is already running")
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() { loopDone <- s.loop.Run(ctx) }()

	unsubscribe := s.controller.Gate().Subscribe(func(state gate.State) {
		s.logger.Info("actions changed",
			logging.Bool("create", state.Create),
			logging.Bool("replay", state.Replay),
			logging.Bool("share", state.Share),
			logging.String("target", state.Target),
		)
	})
	defer unsubscribe()

	if s.bind == "" {
		s.logger.Info("api disabled; serving interactive loop only", logging.String("lock", s.lockPath))
		<-ctx.Done()
		<-loopDone
		return nil
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		cancel()
		<-loopDone
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	serveErr := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()), logging.String("lock", s.lockPath))

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("api serve: %w", err)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = s.server.Shutdown(shutdownCtx)
	<-loopDone
	s.logger.Info("api server stopped")
	return runErr
}

// Addr returns the bound listener address once Run is serving.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
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

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
