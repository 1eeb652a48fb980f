package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/mcp-form-export/internal/config"
)

const testVersion = "1.2.3"

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Mode = mode
	cfg.Port = 0
	cfg.FormDirectory = filepath.Join(root, "forms")
	cfg.OutputDirectory = filepath.Join(root, "exports")
	cfg.StoreDirectory = filepath.Join(root, "store")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	t.Cleanup(func() { version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit })

	version = testVersion
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)

	for _, expected := range []string{
		"MCP Form Export",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		assert.Contains(t, buf.String(), expected)
	}
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		level     string
		wantLevel zapcore.Level
	}{
		{name: "stdio quiet", mode: config.ModeStdio, level: "info", wantLevel: zapcore.WarnLevel},
		{name: "stdio debug", mode: config.ModeStdio, level: "debug", wantLevel: zapcore.DebugLevel},
		{name: "server info", mode: config.ModeServer, level: "info", wantLevel: zapcore.InfoLevel},
		{name: "server error", mode: config.ModeServer, level: "error", wantLevel: zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Mode: tt.mode, LogLevel: tt.level}
			logger, err := setupLogging(cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
		})
	}
}

func TestSetupLogging_InvalidLevel(t *testing.T) {
	_, err := setupLogging(&config.Config{Mode: config.ModeServer, LogLevel: "verbose"})
	assert.Error(t, err)
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t, config.ModeStdio)
	server, err := newServer(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, server)

	cfg.Strategies = []string{"pdfium"}
	_, err = newServer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRunServerMode_Cancel(t *testing.T) {
	cfg := testConfig(t, config.ModeServer)
	server, err := newServer(cfg, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServerMode(ctx, cancel, server, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runServerMode did not stop")
	}
}
