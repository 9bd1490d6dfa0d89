// Package logging sets up the process loggers: slog for the application
// and zerolog for the command router and database layer.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// osStdout is the console sink. Tests swap it for a pipe.
var osStdout io.Writer = os.Stdout

// SlogManager owns the application logger. Its level can be changed
// after Setup without rebuilding handlers.
type SlogManager struct {
	logger      *slog.Logger
	level       slog.LevelVar
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a manager that logs through slog.Default until Setup.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel accepts slog level names in any case. Anything else is info.
func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Setup replaces the logger. Records go to file when it is set and to
// stdout otherwise, and also to provider when it is not nil. Each remote
// sink, such as a Graylog writer, gets one text line per record.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, remotes ...io.Writer) {
	m.level.Set(parseLevel(level))
	m.logProvider = provider

	sink := file
	if sink == nil {
		sink = osStdout
	}
	handlers := []slog.Handler{slog.NewTextHandler(sink, &slog.HandlerOptions{
		Level:       &m.level,
		ReplaceAttr: utcTime,
	})}
	for _, w := range remotes {
		if w == nil {
			continue
		}
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       &m.level,
			ReplaceAttr: dropTime,
		}))
	}
	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler("mapbridge", otelslog.WithLoggerProvider(provider)))
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", m.level.Level().String())
}

// utcTime renders record times as RFC3339 in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

// SetLevel changes the level of the console or file handler.
func (m *SlogManager) SetLevel(level string) {
	m.level.Set(parseLevel(level))
}

// Level returns the current level.
func (m *SlogManager) Level() slog.Level {
	return m.level.Level()
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}

// WithContext returns a logger that adds provider's attributes to every
// record. Before Setup it wraps the default logger.
func (m *SlogManager) WithContext(provider ContextProvider) *slog.Logger {
	return slog.New(NewContextHandler(m.Logger().Handler(), provider))
}
