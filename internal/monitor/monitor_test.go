package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pendingJournal int

func (p pendingJournal) Pending() int { return int(p) }

func readStatus(t *testing.T, path string) Status {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestGetStatus(t *testing.T) {
	s := NewService(Dependencies{
		Version:   "1.2.3",
		StartedAt: time.Now().Add(-90 * time.Second),
		Sessions:  func() int { return 3 },
		Journal:   pendingJournal(7),
	})

	st := s.GetStatus()
	assert.Equal(t, "1.2.3", st.Version)
	assert.Equal(t, 3, st.Sessions)
	assert.Equal(t, 7, st.JournalPending)
	assert.GreaterOrEqual(t, st.UptimeSeconds, int64(90))
}

func TestGetStatus_NoSources(t *testing.T) {
	st := NewService(Dependencies{Journal: struct{}{}}).GetStatus()
	assert.Zero(t, st.Sessions)
	assert.Zero(t, st.JournalPending)
}

func TestStart_WritesImmediatelyAndStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s := NewService(Dependencies{StatusPath: path, Interval: 10 * time.Millisecond, Sessions: func() int { return 1 }})

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Equal(t, 1, readStatus(t, path).Sessions)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestStart_WithoutPathIsNoop(t *testing.T) {
	s := NewService(Dependencies{})
	require.NoError(t, s.Start())
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestWriteStatus_BadPath(t *testing.T) {
	s := NewService(Dependencies{StatusPath: filepath.Join(t.TempDir(), "missing", "status.json")})
	assert.Error(t, s.WriteStatus())
}
