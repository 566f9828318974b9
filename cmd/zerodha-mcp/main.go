package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kitebridge/zerodha-mcp/internal/common"
	"github.com/kitebridge/zerodha-mcp/internal/config"
	"github.com/kitebridge/zerodha-mcp/internal/kite"
)

const serverName = "Zerodha MCP"

// resolveConfig merges defaults, an optional TOML config file,
// command-line flags, and environment variables, in that order of
// increasing priority. Values from a .env file in the working directory
// count as environment variables.
func resolveConfig(args []string) (*config.Config, bool, error) {
	fs := flag.NewFlagSet("zerodha-mcp", flag.ExitOnError)
	apiKey := fs.String("api-key", "", "Zerodha API Key")
	apiSecret := fs.String("api-secret", "", "Zerodha API Secret")
	port := fs.Int("port", 8001, "Server port for sse mode")
	mode := fs.String("mode", config.ModeStdio, "Server mode, stdio or sse")
	configFile := fs.String("config", "zerodha-mcp.toml", "Path to config file")
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.Parse(args)

	if *showVersion {
		return nil, true, nil
	}

	path := *configFile
	if _, err := os.Stat(path); err != nil {
		// File not found, use defaults
		path = ""
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, false, err
	}

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	// Only flags actually passed override file values. Visit distinguishes
	// an explicit --port 8001 from the unset flag default.
	var flagKey, flagSecret, flagMode string
	var flagPort int
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-key":
			flagKey = *apiKey
		case "api-secret":
			flagSecret = *apiSecret
		case "port":
			flagPort = *port
		case "mode":
			flagMode = *mode
		}
	})
	config.ApplyFlagOverrides(cfg, flagKey, flagSecret, flagPort, flagMode)
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

func main() {
	cfg, showVersion, err := resolveConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if errors.Is(err, config.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	if showVersion {
		fmt.Println(config.GetFullVersion())
		return
	}

	// Setup logging
	logger := common.NewLoggerFromConfig(cfg.Logging)

	// One broker session per process, constructed from the resolved
	// credentials and threaded into every tool handler.
	session := kite.NewSession(cfg.Kite.APIKey, cfg.Kite.APISecret, kite.WithLogger(logger))

	// Create MCP server with tool definitions
	mcpServer := server.NewMCPServer(
		serverName,
		config.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register all MCP tools
	registerTools(mcpServer, session)

	switch cfg.Server.Mode {
	case config.ModeSSE:
		if err := runSSE(mcpServer, cfg.Server.Port, logger); err != nil {
			fmt.Fprintf(os.Stderr, "sse server error: %v\n", err)
			os.Exit(1)
		}
	default:
		// Stdio transport reads stdin and writes stdout.
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
	}
}
