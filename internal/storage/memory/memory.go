package memory

import (
	"sync"
	"time"

	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// SessionRecord groups a session with everything recorded for it
type SessionRecord struct {
	Session  core.Session
	Commands []core.CommandRecord
	Events   []core.EventRecord
}

// Backend keeps the journal in memory and exports one JSON file per
// session when the session ends.
type Backend struct {
	cfg      config.MemoryConfig
	sessions map[string]*SessionRecord // keyed by ViewID
	exported []string

	idCounter uint
	now       func() time.Time
	mu        sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		sessions: make(map[string]*SessionRecord),
		now:      time.Now,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close ends and exports every open session.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for id, rec := range b.sessions {
		if rec.Session.EndedAt.IsZero() {
			rec.Session.EndedAt = b.now()
		}
		if err := b.exportJSON(rec); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(b.sessions, id)
	}
	return firstErr
}

// StartSession begins recording a new session
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	s.ID = b.idCounter
	b.sessions[s.ViewID] = &SessionRecord{Session: *s}
	return nil
}

// EndSession finalizes and exports the session's journal
func (b *Backend) EndSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.sessions[s.ViewID]
	if !ok {
		return nil
	}
	if s.EndedAt.IsZero() {
		s.EndedAt = b.now()
	}
	rec.Session.EndedAt = s.EndedAt
	delete(b.sessions, s.ViewID)
	return b.exportJSON(rec)
}

// session returns the record for viewID, opening an implicit session for
// views that never called StartSession.
func (b *Backend) session(viewID string, at time.Time) *SessionRecord {
	rec, ok := b.sessions[viewID]
	if !ok {
		b.idCounter++
		rec = &SessionRecord{Session: core.Session{ID: b.idCounter, ViewID: viewID, StartedAt: at}}
		b.sessions[viewID] = rec
	}
	return rec
}

// RecordCommand appends a command to its session
func (b *Backend) RecordCommand(c core.CommandRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	c.ID = b.idCounter
	rec := b.session(c.ViewID, c.Time)
	rec.Commands = append(rec.Commands, c)
	return nil
}

// RecordEvent appends an event to its session
func (b *Backend) RecordEvent(e core.EventRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	e.ID = b.idCounter
	rec := b.session(e.ViewID, e.Time)
	rec.Events = append(rec.Events, e)
	return nil
}

// Commands returns a copy of the commands recorded for an open session.
func (b *Backend) Commands(viewID string) []core.CommandRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.sessions[viewID]
	if !ok {
		return nil
	}
	return append([]core.CommandRecord(nil), rec.Commands...)
}

// Events returns a copy of the events recorded for an open session.
func (b *Backend) Events(viewID string) []core.EventRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.sessions[viewID]
	if !ok {
		return nil
	}
	return append([]core.EventRecord(nil), rec.Events...)
}

// ExportedFiles returns the paths written so far, oldest first.
func (b *Backend) ExportedFiles() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.exported...)
}
