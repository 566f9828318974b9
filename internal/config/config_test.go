package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8001 {
		t.Errorf("expected default port 8001, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != ModeStdio {
		t.Errorf("expected default mode stdio, got %s", cfg.Server.Mode)
	}
	if cfg.Kite.APIKey != "" {
		t.Errorf("expected empty default API key, got %s", cfg.Kite.APIKey)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 8001 {
		t.Errorf("expected default port 8001, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 9090
mode = "sse"

[kite]
api_key = "file-key"
api_secret = "file-secret"

[logging]
level = "debug"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != ModeSSE {
		t.Errorf("expected mode sse, got %s", cfg.Server.Mode)
	}
	if cfg.Kite.APIKey != "file-key" {
		t.Errorf("expected API key file-key, got %s", cfg.Kite.APIKey)
	}
	if cfg.Kite.APISecret != "file-secret" {
		t.Errorf("expected API secret file-secret, got %s", cfg.Kite.APISecret)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "partial.toml")

	// Only override port; everything else should stay default
	content := `
[server]
port = 3000
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	// Mode should remain the default
	if cfg.Server.Mode != ModeStdio {
		t.Errorf("expected default mode stdio, got %s", cfg.Server.Mode)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/path.toml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "invalid.toml")

	if err := os.WriteFile(tomlPath, []byte("this is not valid {{toml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFiles(tomlPath)
	if err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("ZERODHA_API_KEY", "env-key")
	t.Setenv("ZERODHA_API_SECRET", "env-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("SERVER_MODE", "SSE")
	t.Setenv("ZERODHA_MCP_LOG_LEVEL", "error")

	if err := ApplyEnvOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}

	if cfg.Kite.APIKey != "env-key" {
		t.Errorf("expected env API key env-key, got %s", cfg.Kite.APIKey)
	}
	if cfg.Kite.APISecret != "env-secret" {
		t.Errorf("expected env API secret env-secret, got %s", cfg.Kite.APISecret)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected env port 9999, got %d", cfg.Server.Port)
	}
	// Mode is normalized to lower case
	if cfg.Server.Mode != ModeSSE {
		t.Errorf("expected env mode sse, got %s", cfg.Server.Mode)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env log level error, got %s", cfg.Logging.Level)
	}
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("PORT", "not-a-number")

	err := ApplyEnvOverrides(cfg)
	if err == nil {
		t.Fatal("expected error for invalid PORT env, got nil")
	}
	if !strings.Contains(err.Error(), "not-a-number") {
		t.Errorf("expected error to name the bad value, got: %v", err)
	}
	// Port should remain default when env var is not a valid integer
	if cfg.Server.Port != 8001 {
		t.Errorf("expected default port 8001 after invalid env, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, "flag-key", "flag-secret", 7777, "sse")

	if cfg.Kite.APIKey != "flag-key" {
		t.Errorf("expected flag API key flag-key, got %s", cfg.Kite.APIKey)
	}
	if cfg.Kite.APISecret != "flag-secret" {
		t.Errorf("expected flag API secret flag-secret, got %s", cfg.Kite.APISecret)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("expected flag port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != ModeSSE {
		t.Errorf("expected flag mode sse, got %s", cfg.Server.Mode)
	}
}

func TestApplyFlagOverrides_ZeroValuesNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Kite.APIKey = "existing-key"

	ApplyFlagOverrides(cfg, "", "", 0, "")

	// No override when flags were not passed
	if cfg.Kite.APIKey != "existing-key" {
		t.Errorf("expected existing key preserved, got %s", cfg.Kite.APIKey)
	}
	if cfg.Server.Port != 8001 {
		t.Errorf("expected default port 8001, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != ModeStdio {
		t.Errorf("expected default mode stdio, got %s", cfg.Server.Mode)
	}
}

func TestEnvOverridesFlags(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, "flag-key", "flag-secret", 9000, "stdio")

	t.Setenv("ZERODHA_API_KEY", "env-key")
	t.Setenv("PORT", "5555")

	if err := ApplyEnvOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}

	// Environment wins over flags
	if cfg.Kite.APIKey != "env-key" {
		t.Errorf("expected env override key env-key, got %s", cfg.Kite.APIKey)
	}
	if cfg.Server.Port != 5555 {
		t.Errorf("expected env override port 5555, got %d", cfg.Server.Port)
	}
	// Untouched values keep their flag overrides
	if cfg.Kite.APISecret != "flag-secret" {
		t.Errorf("expected flag secret preserved, got %s", cfg.Kite.APISecret)
	}
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg := NewDefaultConfig()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}

	want := "ZERODHA_API_KEY and ZERODHA_API_SECRET must be set either in .env file or via command line arguments"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestValidate_InvalidMode(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Kite.APIKey = "key"
	cfg.Kite.APISecret = "secret"
	cfg.Server.Mode = "websocket"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid mode, got nil")
	}
	if !errors.Is(err, ErrUsage) {
		t.Errorf("expected usage error for invalid mode, got: %v", err)
	}
}

func TestValidate_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := NewDefaultConfig()
		cfg.Kite.APIKey = "key"
		cfg.Kite.APISecret = "secret"
		cfg.Server.Port = port

		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d, got nil", port)
		}
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Kite.APIKey = "key"
	cfg.Kite.APISecret = "secret"

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}
