package storage

import (
	"testing"

	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/mapbridge/mapbridge/internal/storage/gormstore"
	"github.com/mapbridge/mapbridge/internal/storage/memory"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ Backend    = Nop{}
	_ Backend    = (*memory.Backend)(nil)
	_ Backend    = (*gormstore.Backend)(nil)
	_ Backend    = (*gormstore.SQLiteBackend)(nil)
	_ Exportable = (*memory.Backend)(nil)
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want any
	}{
		{"none", config.StorageConfig{Type: "none"}, Nop{}},
		{"memory", config.StorageConfig{Type: "memory", Memory: config.MemoryConfig{OutputDir: t.TempDir()}}, &memory.Backend{}},
		{"sqlite", config.StorageConfig{Type: "sqlite"}, &gormstore.SQLiteBackend{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(tt.cfg, Dependencies{DBLogger: zerolog.Nop()})
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)

			require.NoError(t, b.Init())
			require.NoError(t, b.RecordCommand(core.CommandRecord{ViewID: "v", Command: "map#update"}))
			require.NoError(t, b.Close())
		})
	}
}

func TestNewBackend_PostgresFallsBackToSQLite(t *testing.T) {
	cfg := config.StorageConfig{
		Type: "postgres",
		DB:   config.DBConfig{Host: "127.0.0.1", Port: "1", Username: "u", Password: "p", Database: "d"},
	}

	b, err := NewBackend(cfg, Dependencies{DBLogger: zerolog.Nop()})
	require.NoError(t, err)
	assert.IsType(t, &gormstore.SQLiteBackend{}, b)
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := NewBackend(config.StorageConfig{Type: "influx"}, Dependencies{})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var b Backend = Nop{}
	s := &core.Session{ViewID: "v"}
	assert.NoError(t, b.StartSession(s))
	assert.Zero(t, s.ID)
	assert.NoError(t, b.EndSession(s))
	assert.NoError(t, b.RecordEvent(core.EventRecord{}))
}
