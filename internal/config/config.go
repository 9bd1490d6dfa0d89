package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "mapbridge.cfg.json"

// MapConfig holds per-view defaults for new map views.
type MapConfig struct {
	Density             float64       `json:"density" mapstructure:"density"`
	TrackCameraPosition bool          `json:"trackCameraPosition" mapstructure:"trackCameraPosition"`
	DuplicatePolicy     string        `json:"duplicatePolicy" mapstructure:"duplicatePolicy"`
	ReadyDelay          time.Duration `json:"readyDelay" mapstructure:"readyDelay"`
}

// ServerConfig holds the websocket listener settings.
type ServerConfig struct {
	Address string `json:"address" mapstructure:"address"`
	Path    string `json:"path" mapstructure:"path"`
}

// StatusConfig holds the status file settings. An empty Path disables it.
type StatusConfig struct {
	Path     string        `json:"path" mapstructure:"path"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// GraylogConfig holds the optional GELF log sink settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// MemoryConfig holds in-memory/JSON journal settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite journal settings. An empty Path keeps the
// database in memory and dumps it to DumpPath every DumpInterval.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// DBConfig holds postgres connection settings.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StorageConfig selects and configures the journal backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	DB     DBConfig     `json:"db" mapstructure:"db"`
}

// OTelConfig holds OpenTelemetry export settings.
type OTelConfig struct {
	Enabled        bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName    string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout   time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	MetricInterval time.Duration `json:"metricInterval" mapstructure:"metricInterval"`
	Endpoint       string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `json:"insecure" mapstructure:"insecure"`
}

// ErrInvalid is returned for config values outside their allowed set.
var ErrInvalid = errors.New("invalid config value")

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// leaves the defaults in place.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")
	viper.SetEnvPrefix("MAPBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("server.address", ":8787")
	viper.SetDefault("server.path", "/map")
	viper.SetDefault("status.path", "")
	viper.SetDefault("status.interval", "5s")

	viper.SetDefault("map.density", 1.0)
	viper.SetDefault("map.trackCameraPosition", false)
	viper.SetDefault("map.duplicatePolicy", "reject")
	viper.SetDefault("map.readyDelay", "0s")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./journal")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "1m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "mapbridge")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "mapbridge")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.metricInterval", "1m")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetMapConfig returns the map view defaults.
func GetMapConfig() (MapConfig, error) {
	cfg := MapConfig{
		Density:             viper.GetFloat64("map.density"),
		TrackCameraPosition: viper.GetBool("map.trackCameraPosition"),
		DuplicatePolicy:     strings.ToLower(viper.GetString("map.duplicatePolicy")),
		ReadyDelay:          viper.GetDuration("map.readyDelay"),
	}
	if cfg.Density <= 0 {
		return cfg, fmt.Errorf("%w: map.density %v", ErrInvalid, cfg.Density)
	}
	switch cfg.DuplicatePolicy {
	case "reject", "replace":
	default:
		return cfg, fmt.Errorf("%w: map.duplicatePolicy %q", ErrInvalid, cfg.DuplicatePolicy)
	}
	return cfg, nil
}

// GetServerConfig returns the websocket listener settings.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Address: viper.GetString("server.address"),
		Path:    viper.GetString("server.path"),
	}
}

// GetStatusConfig returns the status file settings.
func GetStatusConfig() StatusConfig {
	return StatusConfig{
		Path:     viper.GetString("status.path"),
		Interval: viper.GetDuration("status.interval"),
	}
}

// GetStorageConfig returns the journal backend settings.
func GetStorageConfig() (StorageConfig, error) {
	cfg := StorageConfig{
		Type: strings.ToLower(viper.GetString("storage.type")),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
	switch cfg.Type {
	case "none", "memory", "sqlite", "postgres":
	default:
		return cfg, fmt.Errorf("%w: storage.type %q", ErrInvalid, cfg.Type)
	}
	return cfg, nil
}

// GetGraylogConfig returns the GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		BatchTimeout:   viper.GetDuration("otel.batchTimeout"),
		MetricInterval: viper.GetDuration("otel.metricInterval"),
		Endpoint:       viper.GetString("otel.endpoint"),
		Insecure:       viper.GetBool("otel.insecure"),
	}
}
