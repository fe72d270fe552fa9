package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrInvalidConfig         = errors.New("invalid config")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.3.0"

// Current version of the config files.
const (
	CurrentCommonVersion = 1
	CurrentRESTVersion   = 1
)

// Leaderboard scopes.
const (
	ScopeActive = "active"
	ScopeAll    = "all"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	REST   RESTConfig   `koanf:"rest"`
}

// CommonConfig contains configuration shared between the REST server and the CLI.
type CommonConfig struct {
	// Version of the common config.
	Version   int       `koanf:"version"`
	Debug     Debug     `koanf:"debug"`
	Database  Database  `koanf:"database"`
	Redis     Redis     `koanf:"redis"`
	Telemetry Telemetry `koanf:"telemetry"`
	Contest   Contest   `koanf:"contest"`
	Notify    Notify    `koanf:"notify"`
}

// RESTConfig contains REST API server configuration.
type RESTConfig struct {
	// Version of the rest config.
	Version int `koanf:"version"`
	// Address to listen on.
	Host string `koanf:"host"`
	// Port to listen on.
	Port int `koanf:"port"`
	// Bearer token required on admin routes.
	AdminToken string `koanf:"admin_token"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Graceful shutdown timeout in seconds.
	ShutdownTimeout int `koanf:"shutdown_timeout"`
	// Header carrying the authenticated caller id, set by the gateway.
	IdentityHeader string `koanf:"identity_header"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines retained per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Also write logs to stdout.
	Console bool `koanf:"console"`
}

// Database contains database connection configuration.
type Database struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `koanf:"driver"`
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// SQLite data source name, used when Driver is "sqlite".
	DSN string `koanf:"dsn"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
	// Log every query at debug level.
	LogQueries bool `koanf:"log_queries"`
	// Apply pending migrations on startup instead of refusing to start.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Enable the Redis notification publisher.
	Enabled bool `koanf:"enabled"`
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Telemetry contains tracing exporter configuration.
type Telemetry struct {
	// Uptrace DSN; tracing is disabled when empty.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Service name reported to the exporter.
	ServiceName string `koanf:"service_name"`
	// Deployment environment reported to the exporter.
	Environment string `koanf:"environment"`
}

// Contest contains voting contest behavior.
type Contest struct {
	// Leaderboard scope: "active" ranks only the active contest, "all" ranks
	// every application ever submitted.
	LeaderboardScope string `koanf:"leaderboard_scope"`
	// Default number of leaderboard entries returned.
	DefaultTopN int `koanf:"default_top_n"`
	// Largest number of leaderboard entries a caller may request.
	MaxTopN int `koanf:"max_top_n"`
}

// Notify contains notification delivery configuration.
type Notify struct {
	// Timeout for a single notification delivery in milliseconds.
	Timeout int `koanf:"timeout"`
	// Number of notifications kept in each Redis inbox.
	InboxSize int `koanf:"inbox_size"`
	// Redis channel prefix for published notifications.
	ChannelPrefix string `koanf:"channel_prefix"`
}

// LoadConfig loads the configuration from the config search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".folio",
		homeDir + "/.folio/config",
		"/etc/folio/config",
		"/app/config",
		"config",
		".",
	}

	return LoadConfigFrom(configPaths...)
}

// LoadConfigFrom loads common.toml and rest.toml from the first path that has each file.
func LoadConfigFrom(configPaths ...string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	configFiles := []string{"common", "rest"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("rest", config.REST.Version, CurrentRESTVersion); err != nil {
		return nil, "", err
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// applyDefaults fills in values left empty in the config files.
func (c *Config) applyDefaults() {
	if c.Common.Debug.LogLevel == "" {
		c.Common.Debug.LogLevel = "info"
	}
	if c.Common.Debug.MaxLogsToKeep <= 0 {
		c.Common.Debug.MaxLogsToKeep = 10
	}
	if c.Common.Debug.MaxLogLines <= 0 {
		c.Common.Debug.MaxLogLines = 100000
	}
	if c.Common.Database.Driver == "" {
		c.Common.Database.Driver = DriverPostgres
	}
	if c.Common.Contest.LeaderboardScope == "" {
		c.Common.Contest.LeaderboardScope = ScopeActive
	}
	if c.Common.Contest.DefaultTopN <= 0 {
		c.Common.Contest.DefaultTopN = 3
	}
	if c.Common.Contest.MaxTopN <= 0 {
		c.Common.Contest.MaxTopN = 100
	}
	if c.Common.Notify.Timeout <= 0 {
		c.Common.Notify.Timeout = 5000
	}
	if c.Common.Notify.InboxSize <= 0 {
		c.Common.Notify.InboxSize = 100
	}
	if c.Common.Notify.ChannelPrefix == "" {
		c.Common.Notify.ChannelPrefix = "folio:notifications"
	}
	if c.Common.Telemetry.ServiceName == "" {
		c.Common.Telemetry.ServiceName = "folio"
	}
	if c.REST.Port == 0 {
		c.REST.Port = 8080
	}
	if c.REST.RequestTimeout <= 0 {
		c.REST.RequestTimeout = 10000
	}
	if c.REST.ShutdownTimeout <= 0 {
		c.REST.ShutdownTimeout = 30
	}
	if c.REST.IdentityHeader == "" {
		c.REST.IdentityHeader = "X-User-ID"
	}
}

// validate rejects values the services cannot run with.
func (c *Config) validate() error {
	switch c.Common.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Common.Database.Driver)
	}

	switch c.Common.Contest.LeaderboardScope {
	case ScopeActive, ScopeAll:
	default:
		return fmt.Errorf("%w: unknown leaderboard scope %q", ErrInvalidConfig, c.Common.Contest.LeaderboardScope)
	}

	if c.Common.Contest.DefaultTopN > c.Common.Contest.MaxTopN {
		return fmt.Errorf("%w: default_top_n exceeds max_top_n", ErrInvalidConfig)
	}

	return nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/socialfolio/folio/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
