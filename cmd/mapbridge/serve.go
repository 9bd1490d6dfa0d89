package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/mapbridge/mapbridge/internal/logging"
	"github.com/mapbridge/mapbridge/internal/monitor"
	intOtel "github.com/mapbridge/mapbridge/internal/otel"
	"github.com/mapbridge/mapbridge/internal/storage"
	"github.com/mapbridge/mapbridge/internal/transport/websocket"
	"github.com/spf13/cobra"
)

var addressOverride string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve map views over WebSocket",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&addressOverride, "address", "a", "", "listen address, overrides server.address")
}

func serve(ctx context.Context) error {
	sessionStart := time.Now()

	slogManager := logging.NewSlogManager()
	slogManager.Setup(nil, "info", nil)
	logger := slogManager.Logger()

	if err := config.Load(configDir); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	mapCfg, err := config.GetMapConfig()
	if err != nil {
		return err
	}
	storageCfg, err := config.GetStorageConfig()
	if err != nil {
		return err
	}
	serverCfg := config.GetServerConfig()
	if addressOverride != "" {
		serverCfg.Address = addressOverride
	}
	level := config.GetString("logLevel")

	logFile, logPath, err := logging.OpenLogFile(config.GetString("logsDir"), AppName, sessionStart)
	if err != nil {
		return err
	}
	defer logFile.Close()
	out := io.MultiWriter(os.Stdout, logFile)

	provider, err := intOtel.New(intOtel.FromConfig(config.GetOTelConfig(), logFile))
	if err != nil {
		logger.Error("Failed to initialize OTel provider", "error", err)
		provider, _ = intOtel.New(intOtel.Config{})
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := slogManager.Flush(shutdownCtx); err != nil {
			logger.Warn("Failed to flush logs", "error", err)
		}
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}()

	var remotes []io.Writer
	if gc := config.GetGraylogConfig(); gc.Enabled {
		gw, err := logging.OpenGraylog(gc.Address)
		if err != nil {
			logger.Warn("Graylog sink unavailable", "address", gc.Address, "error", err)
		} else {
			defer gw.Close()
			remotes = append(remotes, gw)
		}
	}

	slogManager.Setup(out, level, provider.LoggerProvider(), remotes...)
	logger = slogManager.Logger()
	logger.Info("Starting", "version", Version, "build", BuildDate, "log", logPath, "otel", provider.Enabled())

	dbLogger := logging.NewZerolog(out, level)
	backend, err := storage.NewBackend(storageCfg, storage.Dependencies{Logger: logger, DBLogger: dbLogger})
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	logger.Info("Storage backend initialized", "type", storageCfg.Type)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close storage backend", "error", err)
		}
		if exp, ok := backend.(storage.Exportable); ok {
			for _, f := range exp.ExportedFiles() {
				logger.Info("Journal exported", "path", f)
			}
		}
	}()

	var srv *websocket.Server
	serverLogger := slogManager.WithContext(func() []slog.Attr {
		if srv == nil {
			return nil
		}
		return []slog.Attr{slog.Int("sessions", srv.Sessions())}
	})
	srv = websocket.NewServer(websocket.Dependencies{
		Map:              mapCfg,
		Journal:          backend,
		Logger:           serverLogger,
		DispatcherLogger: logging.NewDispatcherLogger(dbLogger),
		Meter:            provider.Meter("github.com/mapbridge/mapbridge/internal/transport/websocket"),
	})

	statusCfg := config.GetStatusConfig()
	status := monitor.NewService(monitor.Dependencies{
		Logger:     logger,
		StatusPath: statusCfg.Path,
		Interval:   statusCfg.Interval,
		Version:    Version,
		StartedAt:  sessionStart,
		Sessions:   srv.Sessions,
		Journal:    backend,
	})
	if err := status.Start(); err != nil {
		logger.Warn("Failed to start status monitor", "error", err)
	}
	defer status.Stop()

	err = srv.ListenAndServe(ctx, serverCfg.Address, serverCfg.Path)
	logger.Info("Server stopped")
	return err
}
