package config

import (
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	for _, key := range []string{
		"MCP_FORM_MODE", "MCP_FORM_DIR", "MCP_FORM_OUT", "MCP_FORM_STORE",
		"MCP_FORM_STRATEGIES", "MCP_FORM_LOGLEVEL", "MCP_FORM_IMAGETIMEOUT",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadFromFlags_Flags(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	dir := t.TempDir()
	setArgs([]string{
		"mcp-form-export",
		"--dir=" + dir,
		"--out=" + dir + "/exports",
		"--store=" + dir + "/store",
		"--strategies=raster,layout",
		"--imagetimeout=2s",
		"--margin=12.5",
		"--loglevel=debug",
		"--clipboard=false",
		"--catalog=" + dir + "/psy.yaml",
	})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Strategies, []string{"raster", "layout"}) {
		t.Errorf("Strategies = %v", cfg.Strategies)
	}
	if cfg.ImageTimeout != 2*time.Second {
		t.Errorf("ImageTimeout = %s, want 2s", cfg.ImageTimeout)
	}
	if cfg.Margin != 12.5 {
		t.Errorf("Margin = %.1f, want 12.5", cfg.Margin)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.Clipboard {
		t.Error("Clipboard should be disabled")
	}
	if cfg.CatalogPath != dir+"/psy.yaml" {
		t.Errorf("CatalogPath = %s", cfg.CatalogPath)
	}
	if cfg.OutputDirectory != dir+"/exports" {
		t.Errorf("OutputDirectory = %s", cfg.OutputDirectory)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	dir := t.TempDir()
	setArgs([]string{"mcp-form-export"})
	resetFlags()
	clearEnvVars()

	os.Setenv("MCP_FORM_DIR", dir)
	os.Setenv("MCP_FORM_OUT", dir+"/pdf")
	os.Setenv("MCP_FORM_STORE", dir+"/keys")
	os.Setenv("MCP_FORM_STRATEGIES", "layout")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.FormDirectory != dir {
		t.Errorf("FormDirectory = %s, want %s", cfg.FormDirectory, dir)
	}
	if !reflect.DeepEqual(cfg.Strategies, []string{"layout"}) {
		t.Errorf("Strategies = %v, want [layout]", cfg.Strategies)
	}
}

func TestLoadFromFlags_InvalidStrategy(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	dir := t.TempDir()
	setArgs([]string{"mcp-form-export", "--dir=" + dir, "--out=" + dir, "--store=" + dir, "--strategies=jspdf"})
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Fatal("LoadFromFlags() expected error for unknown strategy")
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
	}()

	setArgs([]string{"mcp-form-export", "--version"})
	resetFlags()

	if _, err := LoadFromFlags(); err == nil {
		t.Fatal("LoadFromFlags() expected error when version is requested")
	}
}
