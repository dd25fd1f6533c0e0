package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server   ServerConfig   `toml:"server"`   // HTTP server settings
	Logging  LoggingConfig  `toml:"logging"`  // Application logging settings
	Storage  StorageConfig  `toml:"storage"`  // Data persistence settings
	Weather  WeatherConfig  `toml:"weather"`  // Upstream weather fetching and caching settings
	Metrics  MetricsConfig  `toml:"metrics"`  // Prometheus metrics settings
	Briefing BriefingConfig `toml:"briefing"` // Optional AI briefing settings
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Host             string `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	Port             int    `toml:"port"`                  // HTTP port for the server
	ReadTimeoutSecs  int    `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs int    `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs  int    `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next request when keep-alives are enabled
	StaticFilesDir   string `toml:"static_files_dir"`      // Directory to serve the web UI from (e.g., "www")
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// StorageConfig contains data persistence configuration
type StorageConfig struct {
	SQLitePath        string `toml:"sqlite_path"`         // Path to the SQLite database file
	MaxRecentSearches int    `toml:"max_recent_searches"` // Maximum number of recent searches returned by the API
}

// WeatherConfig contains upstream weather fetching and caching configuration
type WeatherConfig struct {
	APIBaseURL             string `toml:"api_base_url"`             // Base URL for the aviation weather API (e.g., https://aviationweather.gov/api/data)
	RequestTimeoutSeconds  int    `toml:"request_timeout_seconds"`  // HTTP request timeout in seconds
	MaxRetries             int    `toml:"max_retries"`              // Maximum number of retry attempts for failed requests
	RetryDelayMs           int    `toml:"retry_delay_ms"`           // Base delay between retries in milliseconds (doubles per attempt)
	CacheTTLMinutes        int    `toml:"cache_ttl_minutes"`        // How long a fetched report is served from cache
	RefreshIntervalMinutes int    `toml:"refresh_interval_minutes"` // How often tracked stations are refreshed in the background
	MaxTrackedStations     int    `toml:"max_tracked_stations"`     // Maximum number of stations kept in the background refresh set
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `toml:"enabled"` // Whether to register collectors and expose /metrics
}

// BriefingConfig contains optional AI briefing configuration
type BriefingConfig struct {
	Enabled bool   `toml:"enabled"` // Whether the briefing endpoint is available
	APIKey  string `toml:"api_key"` // Gemini API key (required when enabled)
	Model   string `toml:"model"`   // Gemini model name (e.g., "gemini-2.0-flash")
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             8080,
			ReadTimeoutSecs:  15,
			WriteTimeoutSecs: 15,
			IdleTimeoutSecs:  60,
			StaticFilesDir:   "www",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			SQLitePath:        "data/metar-vibe.db",
			MaxRecentSearches: 10,
		},
		Weather: WeatherConfig{
			APIBaseURL:             "https://aviationweather.gov/api/data",
			RequestTimeoutSeconds:  10,
			MaxRetries:             3,
			RetryDelayMs:           500,
			CacheTTLMinutes:        10,
			RefreshIntervalMinutes: 10,
			MaxTrackedStations:     20,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Briefing: BriefingConfig{
			Enabled: false,
			Model:   "gemini-2.0-flash",
		},
	}
}

// Load reads and decodes a config file from the given path
func Load(path string) (*Config, error) {
	var config Config

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations
// in order of preference. When no config file exists anywhere, the built-in
// defaults are returned rather than an error.
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // Standard location in configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
	}

	// An explicitly requested path must exist; the well-known ones may not.
	if preferredPath != "" {
		return nil, fmt.Errorf("config file not found: %s", preferredPath)
	}
	return Default(), nil
}

// Validate validates the configuration and fills in defaults for any
// section left empty by a partial config file
func (c *Config) Validate() error {
	defaults := Default()

	// Validate server config
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		c.Server.Host = defaults.Server.Host
	}
	if c.Server.ReadTimeoutSecs < 0 || c.Server.WriteTimeoutSecs < 0 || c.Server.IdleTimeoutSecs < 0 {
		return fmt.Errorf("server timeouts must be 0 or greater")
	}
	if c.Server.ReadTimeoutSecs == 0 {
		c.Server.ReadTimeoutSecs = defaults.Server.ReadTimeoutSecs
	}
	if c.Server.WriteTimeoutSecs == 0 {
		c.Server.WriteTimeoutSecs = defaults.Server.WriteTimeoutSecs
	}
	if c.Server.IdleTimeoutSecs == 0 {
		c.Server.IdleTimeoutSecs = defaults.Server.IdleTimeoutSecs
	}
	if c.Server.StaticFilesDir == "" {
		c.Server.StaticFilesDir = defaults.Server.StaticFilesDir
	}

	// Validate logging config
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	// Validate storage config
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = defaults.Storage.SQLitePath
	}
	if c.Storage.MaxRecentSearches < 0 {
		return fmt.Errorf("max_recent_searches must be 0 or greater: %d", c.Storage.MaxRecentSearches)
	}
	if c.Storage.MaxRecentSearches == 0 {
		c.Storage.MaxRecentSearches = defaults.Storage.MaxRecentSearches
	}

	// Validate weather config
	if c.Weather.APIBaseURL == "" {
		c.Weather.APIBaseURL = defaults.Weather.APIBaseURL
	}
	if c.Weather.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("weather request_timeout_seconds must be 0 or greater: %d", c.Weather.RequestTimeoutSeconds)
	}
	if c.Weather.RequestTimeoutSeconds == 0 {
		c.Weather.RequestTimeoutSeconds = defaults.Weather.RequestTimeoutSeconds
	}
	if c.Weather.MaxRetries < 0 {
		return fmt.Errorf("weather max_retries must be 0 or greater: %d", c.Weather.MaxRetries)
	}
	if c.Weather.RetryDelayMs < 0 {
		return fmt.Errorf("weather retry_delay_ms must be 0 or greater: %d", c.Weather.RetryDelayMs)
	}
	if c.Weather.RetryDelayMs == 0 {
		c.Weather.RetryDelayMs = defaults.Weather.RetryDelayMs
	}
	if c.Weather.CacheTTLMinutes <= 0 {
		c.Weather.CacheTTLMinutes = defaults.Weather.CacheTTLMinutes
	}
	if c.Weather.RefreshIntervalMinutes <= 0 {
		c.Weather.RefreshIntervalMinutes = defaults.Weather.RefreshIntervalMinutes
	}
	if c.Weather.MaxTrackedStations <= 0 {
		c.Weather.MaxTrackedStations = defaults.Weather.MaxTrackedStations
	}

	// Validate briefing config
	if c.Briefing.Enabled && c.Briefing.APIKey == "" {
		return fmt.Errorf("briefing api_key is required when briefing is enabled")
	}
	if c.Briefing.Model == "" {
		c.Briefing.Model = defaults.Briefing.Model
	}

	return nil
}
