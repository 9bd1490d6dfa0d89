package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

var osPipe = os.Pipe

// captureStdout points the console sink at a pipe and returns a function
// that restores it and returns what was written.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	r, w, err := osPipe()
	require.NoError(t, err)

	orig := osStdout
	osStdout = w

	return func() string {
		w.Close()
		osStdout = orig
		var buf bytes.Buffer
		buf.ReadFrom(r)
		r.Close()
		return buf.String()
	}
}

func TestSetup_Sinks(t *testing.T) {
	t.Run("file only", func(t *testing.T) {
		restore := captureStdout(t)
		var file bytes.Buffer
		m := NewSlogManager()
		m.Setup(&file, "info", nil)
		m.Logger().Info("hello file")

		assert.Empty(t, restore())
		assert.Contains(t, file.String(), "hello file")
	})

	t.Run("console without file", func(t *testing.T) {
		restore := captureStdout(t)
		m := NewSlogManager()
		m.Setup(nil, "info", nil)
		m.Logger().Info("hello console")

		assert.Contains(t, restore(), "hello console")
	})

	t.Run("otel provider keeps file output", func(t *testing.T) {
		var file bytes.Buffer
		m := NewSlogManager()
		m.Setup(&file, "info", sdklog.NewLoggerProvider())
		m.Logger().Info("otel integrated")

		assert.Contains(t, file.String(), "otel integrated")
	})
}

func TestSetup_Levels(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	m.Logger().Debug("hidden debug")
	m.Logger().Info("visible info")
	assert.NotContains(t, buf.String(), "hidden debug")
	assert.Contains(t, buf.String(), "visible info")

	m.SetLevel("debug")
	assert.Equal(t, slog.LevelDebug, m.Level())
	m.Logger().Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(&buf1, "info", nil)
	m.Logger().Info("first")

	m.Setup(&buf2, "info", nil)
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_TimeIsUTC(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`, buf.String())
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	assert.Equal(t, slog.Default(), NewSlogManager().Logger())
}

func TestFlush(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Flush(context.Background()))

	m.Setup(&bytes.Buffer{}, "info", sdklog.NewLoggerProvider())
	assert.NoError(t, m.Flush(context.Background()))
}

func TestWithContext_AddsDynamicAttrs(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	overlays := 0
	logger := m.WithContext(func() []slog.Attr {
		return []slog.Attr{slog.String("view", "v1"), slog.Int("overlays", overlays)}
	})

	overlays = 3
	logger.Info("batch applied")

	assert.Contains(t, buf.String(), "batch applied")
	assert.Contains(t, buf.String(), "view=v1")
	assert.Contains(t, buf.String(), "overlays=3")
}

func TestWithContext_BeforeSetup(t *testing.T) {
	assert.NotNil(t, NewSlogManager().WithContext(nil))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"invalid": slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), input)
	}
}
