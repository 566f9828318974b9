package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/kitebridge/zerodha-mcp/internal/common"
)

// Server modes.
const (
	ModeStdio = "stdio"
	ModeSSE   = "sse"
)

// ErrUsage marks configuration errors caused by bad command-line input,
// so main can exit with the usage status instead of the general one.
var ErrUsage = errors.New("usage error")

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Kite    KiteConfig           `toml:"kite"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains transport settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Mode string `toml:"mode"`
}

// KiteConfig contains Kite Connect API credentials.
type KiteConfig struct {
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
}

// LoadFromFile loads configuration with priority: defaults -> file.
// Flag and environment overrides are applied separately by the caller,
// in that order, so the environment always wins.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ...
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	return config, nil
}

// ApplyEnvOverrides applies environment variable overrides to config.
// PORT must parse as an integer when present; credentials and mode are
// taken as-is. Values loaded from a .env file by godotenv are visible
// here like any other environment variable.
func ApplyEnvOverrides(config *Config) error {
	if key := os.Getenv("ZERODHA_API_KEY"); key != "" {
		config.Kite.APIKey = key
	}
	if secret := os.Getenv("ZERODHA_API_SECRET"); secret != "" {
		config.Kite.APISecret = secret
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		config.Server.Port = p
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		config.Server.Mode = strings.ToLower(mode)
	}
	if level := os.Getenv("ZERODHA_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	return nil
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Zero values mean the flag was not passed and the config keeps its
// current value.
func ApplyFlagOverrides(config *Config, apiKey, apiSecret string, port int, mode string) {
	if apiKey != "" {
		config.Kite.APIKey = apiKey
	}
	if apiSecret != "" {
		config.Kite.APISecret = apiSecret
	}
	if port > 0 {
		config.Server.Port = port
	}
	if mode != "" {
		config.Server.Mode = mode
	}
}

// Validate checks that the resolved configuration is runnable.
func (c *Config) Validate() error {
	if c.Kite.APIKey == "" || c.Kite.APISecret == "" {
		return errors.New("ZERODHA_API_KEY and ZERODHA_API_SECRET must be set either in .env file or via command line arguments")
	}
	switch c.Server.Mode {
	case ModeStdio, ModeSSE:
	default:
		return fmt.Errorf("%w: invalid mode %q (expected %q or %q)", ErrUsage, c.Server.Mode, ModeStdio, ModeSSE)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Server.Port)
	}
	return nil
}
