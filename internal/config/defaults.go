package config

import "github.com/kitebridge/zerodha-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8001,
			Mode: ModeStdio,
		},
		Kite: KiteConfig{},
		Logging: common.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
