package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-export/internal/config"
	"github.com/a3tai/mcp-form-export/internal/logging"
	"github.com/a3tai/mcp-form-export/internal/mcp"
	"github.com/a3tai/mcp-form-export/internal/service"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the logger for the server mode. In stdio mode the
// parent process owns stdout, so only warnings reach stderr unless debug
// is enabled.
func setupLogging(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level: cfg.LogLevel,
		Quiet: cfg.IsStdioMode(),
	})
}

// newServer wires the service and the MCP server
func newServer(cfg *config.Config, logger *zap.Logger) (*mcp.Server, error) {
	svc, err := service.New(service.Options{
		Config:   cfg,
		Terminal: os.Stderr,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return mcp.NewServer(cfg, svc, logger.Named("mcp"))
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *zap.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		if err := <-serverErrCh; err != nil {
			return fmt.Errorf("server shutdown with error: %w", err)
		}
	case err := <-serverErrCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("Server stopped successfully")
	return nil
}

// runStdioMode runs until stdin closes; the parent process controls our
// lifecycle
func runStdioMode(ctx context.Context, server *mcp.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("Starting with configuration", zap.Stringer("config", cfg))

	server, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create MCP server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		err = runServerMode(ctx, cancel, server, logger)
	} else {
		err = runStdioMode(ctx, server)
	}
	if err != nil {
		logger.Error("Server failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Form Export\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
