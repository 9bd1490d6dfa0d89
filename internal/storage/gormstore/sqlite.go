package gormstore

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/mapbridge/mapbridge/internal/database"

	"gorm.io/gorm"
)

// SQLiteBackend wraps the GORM backend with periodic disk dumps of an
// in-memory SQLite database via VACUUM INTO.
type SQLiteBackend struct {
	*Backend
	db       *gorm.DB
	cfg      config.SQLiteConfig
	log      *slog.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSQLite creates a SQLite journal backend over db.
func NewSQLite(db *gorm.DB, cfg config.SQLiteConfig, log *slog.Logger) *SQLiteBackend {
	if log == nil {
		log = slog.Default()
	}
	return &SQLiteBackend{
		Backend:  New(Dependencies{DB: db, Logger: log}),
		db:       db,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *SQLiteBackend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.dumps() {
		b.wg.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, flushes the embedded backend and writes
// a final dump.
func (b *SQLiteBackend) Close() error {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.wg.Wait()

	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.dumps() {
		return database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath)
	}
	return nil
}

func (b *SQLiteBackend) dumps() bool {
	return b.cfg.Path == "" && b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
func (b *SQLiteBackend) dumpLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.log.Error("Error flushing before dump", "error", err)
			}
			start := time.Now()
			if err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
				b.log.Error("Error dumping to disk", "error", err)
			} else {
				b.log.Debug("Dumped to disk", "duration", time.Since(start))
			}
		}
	}
}
