// Package websocket carries map view commands and events over WebSocket.
// Each connection owns one view backed by the headless engine.
package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/mapbridge/mapbridge/internal/dispatcher"
	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/internal/storage"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	ws "github.com/gorilla/websocket"
)

const (
	sendChSize      = 1024
	maxMessageSize  = 8 << 20
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Dependencies holds everything a session needs.
type Dependencies struct {
	Map              config.MapConfig
	Viewport         geo.Viewport
	Journal          storage.Backend
	Logger           *slog.Logger
	DispatcherLogger dispatcher.Logger
	Meter            metric.Meter
	QueueSize        int
}

// Server upgrades HTTP requests and runs one session per connection.
type Server struct {
	deps     Dependencies
	upgrader ws.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a server. A nil Journal records nothing.
func NewServer(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Journal == nil {
		deps.Journal = storage.Nop{}
	}
	if deps.Map.Density <= 0 {
		deps.Map.Density = 1
	}
	if deps.Meter == nil {
		deps.Meter = noop.Meter{}
	}
	s := &Server{
		deps:     deps,
		upgrader: ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		sessions: make(map[string]*session),
	}
	if err := s.observe(); err != nil {
		deps.Logger.Warn("Session gauge unavailable", "error", err)
	}
	return s
}

// observe exports the open session count.
func (s *Server) observe() error {
	gauge, err := s.deps.Meter.Int64ObservableGauge("transport.sessions",
		metric.WithDescription("Open WebSocket sessions"),
	)
	if err != nil {
		return err
	}
	_, err = s.deps.Meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(s.Sessions()))
		return nil
	}, gauge)
	return err
}

// ServeHTTP upgrades the request and blocks until the session ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.deps.Logger.Warn("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := newSession(uuid.NewString(), conn, s.deps)
	if !s.track(sess) {
		sess.shutdown()
		return
	}
	defer s.untrack(sess)

	sess.serve(r.Context())
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves path on addr until ctx is cancelled, then closes
// every session.
func (s *Server) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, s)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: writeWait}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("Listening", "address", addr, "path", path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close asks every peer to go away and waits for the sessions to end.
// Later connections are refused.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	open := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.shutdown()
	}
	s.wg.Wait()
}

func (s *Server) track(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.wg.Done()
}
