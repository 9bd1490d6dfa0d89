// Package gormstore implements the storage.Backend interface using GORM
// with internal queues and a background DB writer goroutine.
package gormstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mapbridge/mapbridge/internal/database"
	"github.com/mapbridge/mapbridge/internal/model"
	"github.com/mapbridge/mapbridge/internal/model/convert"
	"github.com/mapbridge/mapbridge/internal/queue"
	"github.com/mapbridge/mapbridge/pkg/core"

	"gorm.io/gorm"
)

const defaultFlushInterval = 2 * time.Second

// ErrNoDatabase is returned by Init when no DB was injected.
var ErrNoDatabase = errors.New("gormstore: no database")

// Dependencies holds all dependencies for the GORM journal backend.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
}

// Backend implements storage.Backend with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	commands *queue.Queue[model.Command]
	events   *queue.Queue[model.Event]

	writeMu  sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new GORM journal backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = defaultFlushInterval
	}
	return &Backend{
		deps:     deps,
		commands: queue.New[model.Command](),
		events:   queue.New[model.Event](),
	}
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return ErrNoDatabase
	}
	b.deps.Logger.Info("Migrating schema")
	if err := database.Setup(b.deps.DB); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

// Close stops the writer goroutine and flushes whatever is still queued.
func (b *Backend) Close() error {
	b.stopOnce.Do(func() {
		if b.stopChan != nil {
			close(b.stopChan)
			<-b.done
		}
	})
	if b.deps.DB == nil {
		return nil
	}
	return b.Flush()
}

// StartSession inserts the session synchronously so its ID is known.
func (b *Backend) StartSession(s *core.Session) error {
	if b.deps.DB == nil {
		return nil
	}
	row := convert.CoreToSession(*s)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	s.ID = row.ID
	return nil
}

// EndSession stamps the session's end time.
func (b *Backend) EndSession(s *core.Session) error {
	if b.deps.DB == nil || s.ID == 0 {
		return nil
	}
	if s.EndedAt.IsZero() {
		s.EndedAt = time.Now()
	}
	err := b.deps.DB.Model(&model.Session{}).Where("id = ?", s.ID).Update("ended_at", s.EndedAt).Error
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// RecordCommand converts and queues a command.
func (b *Backend) RecordCommand(rec core.CommandRecord) error {
	row, err := convert.CoreToCommand(rec)
	if err != nil {
		return err
	}
	b.commands.Push(row)
	return nil
}

// RecordEvent converts and queues an event.
func (b *Backend) RecordEvent(rec core.EventRecord) error {
	row, err := convert.CoreToEvent(rec)
	if err != nil {
		return err
	}
	b.events.Push(row)
	return nil
}

// Flush writes every queued row now. Failed batches are requeued and
// reported.
func (b *Backend) Flush() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	return errors.Join(
		writeQueue(b.deps.DB, b.commands, "commands", b.deps.Logger),
		writeQueue(b.deps.DB, b.events, "events", b.deps.Logger),
	)
}

// Pending returns the number of queued rows.
func (b *Backend) Pending() int {
	return b.commands.Len() + b.events.Len()
}

// writeLoop periodically drains the queues into the DB.
func (b *Backend) writeLoop() {
	defer close(b.done)

	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			_ = b.Flush()
		}
	}
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger) error {
	items := q.Drain()
	if len(items) == 0 {
		return nil
	}

	tx := db.Begin()
	if err := tx.Create(&items).Error; err != nil {
		log.Error("DB writer failed", "table", name, "count", len(items), "error", err)
		tx.Rollback()
		for _, item := range items {
			q.Push(item)
		}
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tx.Commit().Error; err != nil {
		for _, item := range items {
			q.Push(item)
		}
		return fmt.Errorf("commit %s: %w", name, err)
	}
	log.Debug("DB writer flushed", "table", name, "count", len(items))
	return nil
}
