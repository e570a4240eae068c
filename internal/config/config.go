package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/yegors/preflight/internal/planner"
	"github.com/yegors/preflight/internal/weather"
	"github.com/yegors/preflight/pkg/logger"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`   // HTTP server settings
	Logging  LoggingConfig  `toml:"logging"`  // Application logging settings
	Storage  StorageConfig  `toml:"storage"`  // Data persistence settings
	Weather  weather.Config `toml:"wx"`       // Weather data fetching and caching settings
	Planning PlanningConfig `toml:"planning"` // Flight planning policy
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // Primary HTTP port for the server
	Host               string   `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // List of origins allowed for CORS requests (use ["*"] for all origins)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request (0 = no timeout)
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response (0 = no timeout)
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next request when keep-alives are enabled
	AdditionalPorts    []int    `toml:"additional_ports"`      // Additional HTTP ports to listen on (useful for multiple interfaces)
	StaticFilesDir     string   `toml:"static_files_dir"`      // Directory to serve the planner UI from (empty disables static serving)
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `toml:"level"`       // Log level: "debug", "info", "warn", or "error"
	Format     string `toml:"format"`      // Log format: "json" (structured) or "console" (human-readable)
	FilePath   string `toml:"file_path"`   // Optional log file, rotated when it reaches max_size_mb
	MaxSizeMB  int    `toml:"max_size_mb"` // Rotation size of the log file
	MaxBackups int    `toml:"max_backups"` // Rotated log files to keep
}

// StorageConfig contains storage settings
type StorageConfig struct {
	Type       string `toml:"type"`        // Storage backend type: "sqlite" or "memory" (nothing survives a restart)
	SQLitePath string `toml:"sqlite_path"` // Path of the SQLite database file
}

// PlanningConfig contains flight planning policy
type PlanningConfig struct {
	DayStartHour   int `toml:"day_start_hour"`   // First local hour counted as day for the VFR fuel reserve
	NightStartHour int `toml:"night_start_hour"` // First local hour counted as night for the VFR fuel reserve
}

// FuelPolicy converts the planning settings to the planner's reserve policy
func (p PlanningConfig) FuelPolicy() planner.FuelPolicy {
	return planner.FuelPolicy{
		DayStartHour:   p.DayStartHour,
		NightStartHour: p.NightStartHour,
	}
}

// LoggerConfig converts the logging settings to the logger's configuration
func (l LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      l.Level,
		Format:     l.Format,
		FilePath:   l.FilePath,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
	}
}

// Default returns the configuration used for any key the config file leaves out
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			Host:               "0.0.0.0",
			CORSAllowedOrigins: []string{"*"},
			ReadTimeoutSecs:    15,
			WriteTimeoutSecs:   30,
			IdleTimeoutSecs:    60,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  32,
			MaxBackups: 3,
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLitePath: "data/preflight.db",
		},
		Weather: weather.DefaultConfig(),
		Planning: PlanningConfig{
			DayStartHour:   planner.DefaultFuelPolicy.DayStartHour,
			NightStartHour: planner.DefaultFuelPolicy.NightStartHour,
		},
	}
}

// Load loads the configuration from the specified file path
func Load(path string) (*Config, error) {
	config := Default()

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file over the defaults
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference.
// When no file exists anywhere, the defaults are returned.
func LoadWithFallback(preferredPath string) (*Config, error) {
	// An explicit path must exist
	if preferredPath != "" {
		return Load(preferredPath)
	}

	// List of paths to check in order of preference
	searchPaths := []string{
		"configs/config.toml",
		"config.toml",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
	}

	return Default(), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	portsSeen := make(map[int]bool)
	portsSeen[c.Server.Port] = true
	for _, p := range c.Server.AdditionalPorts {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid additional server port: %d", p)
		}
		if portsSeen[p] {
			return fmt.Errorf("duplicate port configured: %d (primary or additional)", p)
		}
		portsSeen[p] = true
	}

	if c.Server.StaticFilesDir != "" {
		if _, err := os.Stat(c.Server.StaticFilesDir); os.IsNotExist(err) {
			return fmt.Errorf("static files directory does not exist: %s", c.Server.StaticFilesDir)
		}
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid log level
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
		// Valid log format
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	// Validate storage config
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required when storage type is sqlite")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid storage type: %s (must be 'sqlite' or 'memory')", c.Storage.Type)
	}

	// Validate weather config
	if err := weather.ValidateConfig(c.Weather); err != nil {
		return fmt.Errorf("invalid wx config: %w", err)
	}

	return c.ValidatePlanning()
}

// ValidatePlanning validates the day/night window used for fuel reserves
func (c *Config) ValidatePlanning() error {
	day, night := c.Planning.DayStartHour, c.Planning.NightStartHour
	if day < 0 || day > 23 {
		return fmt.Errorf("planning day_start_hour must be between 0 and 23: %d", day)
	}
	if night < 0 || night > 23 {
		return fmt.Errorf("planning night_start_hour must be between 0 and 23: %d", night)
	}
	if day >= night {
		return fmt.Errorf("planning day_start_hour (%d) must be before night_start_hour (%d)", day, night)
	}
	return nil
}
