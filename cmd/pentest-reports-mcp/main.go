package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/pentestreports/mcp-server/pkg/client"
	"github.com/pentestreports/mcp-server/pkg/server"
	"github.com/pentestreports/mcp-server/pkg/storage"
	"github.com/pentestreports/mcp-server/pkg/tools"
	"github.com/pentestreports/mcp-server/pkg/tools/history"
	"github.com/pentestreports/mcp-server/pkg/tools/reports"
	"github.com/pentestreports/mcp-server/pkg/tools/vulns"
	"github.com/pentestreports/mcp-server/pkg/types"
)

const (
	ServerName      = "pentest-reports-mcp"
	ServiceName     = "Pentest Reports MCP Server"
	ShutdownTimeout = 10 * time.Second
)

//go:embed VERSION
var Version string

func main() {
	var (
		debug        bool
		apiURL       string
		dbPath       string
		printVersion bool
	)
	flag.BoolVar(&debug, "debug", false, "debug mode")
	flag.StringVar(&apiURL, "api-url", "http://localhost:4000", "base URL of the pentest-reports API")
	flag.StringVar(&dbPath, "db", "build/pentest-reports-mcp.db", "SQLite audit database file path")
	flag.BoolVar(&printVersion, "version", false, "print version and exit")
	flag.Parse()
	// Sanitize version
	version := strings.TrimSpace(Version)
	// Check if the version flag is set
	if printVersion {
		fmt.Printf("%s Version: %s\n", ServiceName, version)
		os.Exit(0)
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stdout carries the MCP stdio framing, so logs go to stderr.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger.Debug().Msg("debug mode enabled")
	}

	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}

	// Initialize the audit-trail storage
	storeCfg := storage.Config{
		DatabasePath: dbPath,
		Debug:        debug,
	}
	store, err := storage.NewSQLiteStorage(storeCfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to initialize storage: %v", err)
	}
	logger.Info().Msgf("Audit database initialized at %s", dbPath)

	// The default credential is optional; each call may supply its own.
	token := os.Getenv(types.TokenEnvVar)
	if token == "" {
		logger.Warn().Msgf("%s not set, calls must supply bearerToken", types.TokenEnvVar)
	}

	api := client.New(client.Config{
		BaseURL:     apiURL,
		BearerToken: token,
	}, logger)

	srv := server.NewServer(impl, api, store)

	// Create tool instances.
	toolList := []tools.Tool{
		reports.New(logger),
		vulns.New(logger),
		history.New(logger),
	}

	// Register all tools
	for _, tool := range toolList {
		if err := tool.Register(srv); err != nil {
			logger.Error().Msgf("Failed to register tool: %v", err)
		}
	}

	logger.Info().Msgf("%s serving MCP over stdio, API at %s", ServiceName, apiURL)

	if err := srv.Run(signalCtx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Msgf("%s terminated: %v", ServiceName, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	// Shutdown MCP server
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Msgf("%s shutdown error: %v", ServiceName, err)
	} else {
		logger.Info().Msgf("%s shutdown complete", ServiceName)
	}
}
