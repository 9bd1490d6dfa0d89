package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errorHandler fails every record.
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(context.Context, slog.Record) error { return errors.New("handler error") }
func (h *errorHandler) Enabled(context.Context, slog.Level) bool { return true }

func textHandler(buf *bytes.Buffer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})
}

func TestMultiHandler_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	slog.New(NewMultiHandler(textHandler(&buf1, slog.LevelInfo), textHandler(&buf2, slog.LevelInfo))).Info("fanned out")

	assert.Contains(t, buf1.String(), "fanned out")
	assert.Contains(t, buf2.String(), "fanned out")
}

func TestMultiHandler_FiltersNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(nil, textHandler(&buf, slog.LevelInfo), nil)
	require.Len(t, multi.handlers, 1)

	slog.New(multi).Info("works")
	assert.Contains(t, buf.String(), "works")
}

func TestMultiHandler_Enabled(t *testing.T) {
	ctx := context.Background()
	info := textHandler(&bytes.Buffer{}, slog.LevelInfo)
	debug := textHandler(&bytes.Buffer{}, slog.LevelDebug)

	infoOnly := NewMultiHandler(info)
	assert.False(t, infoOnly.Enabled(ctx, slog.LevelDebug))
	assert.True(t, infoOnly.Enabled(ctx, slog.LevelInfo))

	assert.True(t, NewMultiHandler(info, debug).Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewMultiHandler().Enabled(ctx, slog.LevelInfo))
}

func TestMultiHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(textHandler(&buf, slog.LevelInfo))

	slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "router")})).Info("with attrs")
	slog.New(multi.WithGroup("grp")).Info("grouped", "key", "val")

	assert.Contains(t, buf.String(), "component=router")
	assert.Contains(t, buf.String(), "grp.key=val")
	assert.Equal(t, multi, multi.WithGroup(""))
}

func TestMultiHandler_ErrorsDoNotStopFanOut(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(&errorHandler{}, textHandler(&buf, slog.LevelInfo))

	err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "should reach spy", 0))
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "should reach spy")
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	multi := NewMultiHandler(&errorHandler{}, &errorHandler{})
	err := multi.Handle(context.Background(), slog.Record{Level: slog.LevelInfo})
	require.Error(t, err)
	assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)
}

func TestContextHandler_WithAttrsKeepsProvider(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), func() []slog.Attr {
		return []slog.Attr{slog.String("view", "v9")}
	})

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("component", "transport")}).WithGroup("req"))
	logger.Info("frame", "method", "map#update")

	out := buf.String()
	assert.Contains(t, out, "component=transport")
	assert.Contains(t, out, "req.method=map#update")
	assert.Contains(t, out, "req.view=v9")
}
