package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.3.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	Bot    BotConfig
}

// CommonConfig contains configuration shared between the bot and the tools.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version     int         `koanf:"version"`
	Discord     Discord     `koanf:"discord"`
	Submission  Submission  `koanf:"submission"`
	Review      Review      `koanf:"review"`
	Notify      Notify      `koanf:"notify"`
	Leaderboard Leaderboard `koanf:"leaderboard"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Enable the debug HTTP server (metrics and profiler).
	EnableDebugServer bool `koanf:"enable_debug_server"`
	// Debug server port.
	DebugPort int `koanf:"debug_port"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
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
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Bot token for authentication.
	Token string `koanf:"token"`
}

// Submission contains configuration for the DM submission dialogue.
type Submission struct {
	// Seconds to wait for each reply before the dialogue times out.
	PromptTimeout int `koanf:"prompt_timeout"`
}

// Review contains configuration for review sessions.
type Review struct {
	// Seconds an idle review session is kept in Redis.
	SessionTTL int `koanf:"session_ttl"`
}

// Notify contains configuration for direct message notifications.
type Notify struct {
	// Maximum deliveries in flight per event.
	MaxConcurrent int `koanf:"max_concurrent"`
	// Deliveries allowed per second across all events.
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// Leaderboard contains configuration for leaderboard rendering.
type Leaderboard struct {
	// Rows shown on each page of the leaderboard view.
	PerPage int `koanf:"per_page"`
}

// PromptTimeoutDuration returns the per-reply timeout, defaulting to two minutes.
func (s Submission) PromptTimeoutDuration() time.Duration {
	if s.PromptTimeout <= 0 {
		return 120 * time.Second
	}

	return time.Duration(s.PromptTimeout) * time.Second
}

// SessionTTLDuration returns the review session lifetime, defaulting to one hour.
func (r Review) SessionTTLDuration() time.Duration {
	if r.SessionTTL <= 0 {
		return time.Hour
	}

	return time.Duration(r.SessionTTL) * time.Second
}

// LoadConfig loads the configuration from the specified files.
func LoadConfig() (*Config, string, error) {
	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".proofboard",
		homeDir + "/.proofboard/config",
		"/etc/proofboard/config",
		"/app/config",
		"config",
		".",
	}

	return LoadFromPaths(configPaths)
}

// LoadFromPaths loads common.toml and bot.toml from the first path that holds each file.
func LoadFromPaths(configPaths []string) (*Config, string, error) {
	var (
		config         Config
		usedConfigPath string
	)

	targets := []struct {
		name string
		dest any
	}{
		{"common", &config.Common},
		{"bot", &config.Bot},
	}

	for _, target := range targets {
		k := koanf.New(".")
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, target.name)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, target.name)
		}

		if err := k.Unmarshal("", target.dest); err != nil {
			return nil, "", fmt.Errorf("error unmarshaling %s config: %w", target.name, err)
		}
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/proofboard/proofboard/tree/%s/config/%s.toml",
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
