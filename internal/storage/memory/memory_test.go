package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

func newTestBackend(t *testing.T, compress bool) *Backend {
	t.Helper()
	b := New(config.MemoryConfig{OutputDir: t.TempDir(), CompressOutput: compress})
	b.now = func() time.Time { return start.Add(time.Hour) }
	require.NoError(t, b.Init())
	return b
}

func readExport(t *testing.T, path string) JournalExport {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var export JournalExport
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		require.NoError(t, err)
		defer gz.Close()
		require.NoError(t, json.NewDecoder(gz).Decode(&export))
	} else {
		require.NoError(t, json.NewDecoder(f).Decode(&export))
	}
	return export
}

func TestStartSession_AssignsID(t *testing.T) {
	b := newTestBackend(t, false)

	s := &core.Session{ViewID: "v1", StartedAt: start}
	require.NoError(t, b.StartSession(s))

	assert.Equal(t, uint(1), s.ID)
	assert.Contains(t, b.sessions, "v1")
}

func TestRecordCommandAndEvent(t *testing.T) {
	b := newTestBackend(t, false)
	require.NoError(t, b.StartSession(&core.Session{ViewID: "v1", StartedAt: start}))

	require.NoError(t, b.RecordCommand(core.CommandRecord{ViewID: "v1", Command: "map#waitForMap", Outcome: "ok", Time: start}))
	require.NoError(t, b.RecordEvent(core.EventRecord{ViewID: "v1", Method: "camera#onIdle", Time: start}))
	require.NoError(t, b.RecordCommand(core.CommandRecord{ViewID: "v1", Command: "map#update", Outcome: "ok", Time: start}))

	cmds := b.Commands("v1")
	require.Len(t, cmds, 2)
	assert.Equal(t, "map#waitForMap", cmds[0].Command)
	assert.Equal(t, "map#update", cmds[1].Command)
	assert.Less(t, cmds[0].ID, cmds[1].ID)

	events := b.Events("v1")
	require.Len(t, events, 1)
	assert.Equal(t, "camera#onIdle", events[0].Method)
}

func TestRecord_ImplicitSession(t *testing.T) {
	b := newTestBackend(t, false)

	require.NoError(t, b.RecordEvent(core.EventRecord{ViewID: "orphan", Method: "map#onTap", Time: start}))

	require.Contains(t, b.sessions, "orphan")
	assert.Equal(t, start, b.sessions["orphan"].Session.StartedAt)
	assert.Nil(t, b.Commands("unknown"))
}

func TestEndSession_ExportsJSON(t *testing.T) {
	b := newTestBackend(t, false)
	s := &core.Session{ViewID: "v1", Remote: "127.0.0.1:1234", StartedAt: start}
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordCommand(core.CommandRecord{
		ViewID:    "v1",
		Command:   "markers#showInfoWindow",
		Arguments: map[string]any{"markerId": "ghost"},
		Outcome:   "InvalidId",
		Message:   "invalid id: ghost",
		Duration:  250 * time.Microsecond,
		Time:      start,
	}))
	require.NoError(t, b.RecordEvent(core.EventRecord{
		ViewID:    "v1",
		Method:    "map#onTap",
		Arguments: map[string]any{"position": []any{1.0, 2.0}},
		Time:      start,
	}))

	require.NoError(t, b.EndSession(s))

	files := b.ExportedFiles()
	require.Len(t, files, 1)
	assert.Equal(t, "v1_20260301_123000.json", filepath.Base(files[0]))
	assert.Equal(t, start.Add(time.Hour), s.EndedAt)
	assert.NotContains(t, b.sessions, "v1")

	export := readExport(t, files[0])
	assert.Equal(t, ExportVersion, export.Version)
	assert.Equal(t, "v1", export.ViewID)
	assert.Equal(t, "127.0.0.1:1234", export.Remote)
	require.Len(t, export.Commands, 1)
	assert.Equal(t, "InvalidId", export.Commands[0].Outcome)
	assert.Equal(t, int64(250), export.Commands[0].DurationMicros)
	assert.Equal(t, map[string]any{"markerId": "ghost"}, export.Commands[0].Arguments)
	require.Len(t, export.Events, 1)
	assert.Equal(t, "map#onTap", export.Events[0].Method)
}

func TestEndSession_Unknown(t *testing.T) {
	b := newTestBackend(t, false)
	require.NoError(t, b.EndSession(&core.Session{ViewID: "nope"}))
	assert.Empty(t, b.ExportedFiles())
}

func TestClose_ExportsOpenSessionsCompressed(t *testing.T) {
	b := newTestBackend(t, true)
	require.NoError(t, b.StartSession(&core.Session{ViewID: "a", StartedAt: start}))
	require.NoError(t, b.StartSession(&core.Session{ViewID: "b:1", StartedAt: start}))

	require.NoError(t, b.Close())

	files := b.ExportedFiles()
	require.Len(t, files, 2)
	names := []string{filepath.Base(files[0]), filepath.Base(files[1])}
	assert.ElementsMatch(t, []string{"a_20260301_123000.json.gz", "b_1_20260301_123000.json.gz"}, names)

	export := readExport(t, files[0])
	assert.True(t, start.Add(time.Hour).Equal(export.EndedAt))
	assert.Empty(t, export.Commands)
	assert.NotNil(t, export.Commands)
}

func TestExport_OutputDirError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	b := New(config.MemoryConfig{OutputDir: filepath.Join(blocker, "sub")})
	require.NoError(t, b.StartSession(&core.Session{ViewID: "v", StartedAt: start}))

	err := b.EndSession(&core.Session{ViewID: "v"})
	assert.Error(t, err)
}
