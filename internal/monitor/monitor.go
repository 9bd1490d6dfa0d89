// Package monitor keeps a status snapshot of the running server on disk.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const defaultInterval = 5 * time.Second

// pender is implemented by journal backends that batch their writes.
type pender interface {
	Pending() int
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger     *slog.Logger
	StatusPath string
	Interval   time.Duration
	Version    string
	StartedAt  time.Time
	Sessions   func() int
	Journal    any
}

// Status is one snapshot written to the status file.
type Status struct {
	Time           time.Time `json:"time"`
	Version        string    `json:"version,omitempty"`
	UptimeSeconds  int64     `json:"uptimeSeconds"`
	Sessions       int       `json:"sessions"`
	JournalPending int       `json:"journalPending"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = defaultInterval
	}
	if deps.StartedAt.IsZero() {
		deps.StartedAt = time.Now()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current status.
func (s *Service) GetStatus() Status {
	now := time.Now()
	st := Status{
		Time:          now,
		Version:       s.deps.Version,
		UptimeSeconds: int64(now.Sub(s.deps.StartedAt).Seconds()),
	}
	if s.deps.Sessions != nil {
		st.Sessions = s.deps.Sessions()
	}
	if p, ok := s.deps.Journal.(pender); ok {
		st.JournalPending = p.Pending()
	}
	return st
}

// WriteStatus writes the current status to the status file.
func (s *Service) WriteStatus() error {
	data, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	if err := os.WriteFile(s.deps.StatusPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine. Without a status path it
// does nothing.
func (s *Service) Start() error {
	if s.deps.StatusPath == "" {
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	if err := s.WriteStatus(); err != nil {
		s.deps.Logger.Error("Error writing status file", "error", err)
	}

	go func() {
		defer close(s.done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("Starting status monitor", "path", s.deps.StatusPath, "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				if err := s.WriteStatus(); err != nil {
					s.deps.Logger.Error("Error writing status file", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
