package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 20 * 1024 * 1024 // 20MB
	DefaultRootClass    = "visite-card"
	DefaultFontTimeout  = 3 * time.Second
	DefaultImageTimeout = 10 * time.Second
	DefaultMargin       = 10.0 // mm

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Rendering strategy names, tried in the configured order
const (
	StrategyLayout  = "layout"
	StrategyRaster  = "raster"
	StrategyBrowser = "browser"
)

// DefaultStrategies is the rendering chain used when none is configured
var DefaultStrategies = []string{StrategyLayout, StrategyRaster}

// Config holds all configuration for the form export server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// FormDirectory is where filled forms are read from
	FormDirectory string
	// OutputDirectory receives the exported documents
	OutputDirectory string
	// StoreDirectory holds the last built summary key
	StoreDirectory string

	// Export configuration
	RootClass    string
	Strategies   []string
	FontPath     string
	FontTimeout  time.Duration
	ImageTimeout time.Duration
	Margin       float64
	ChromeBin    string

	// Clipboard enables copying built summaries to the system clipboard
	Clipboard bool
	// CatalogPath is the disorder catalog, YAML or the reference HTML page
	CatalogPath string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum form file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		FormDirectory:   currentDir,
		OutputDirectory: filepath.Join(currentDir, "exports"),
		StoreDirectory:  filepath.Join(currentDir, ".form-export"),
		RootClass:       DefaultRootClass,
		Strategies:      append([]string(nil), DefaultStrategies...),
		FontTimeout:     DefaultFontTimeout,
		ImageTimeout:    DefaultImageTimeout,
		Margin:          DefaultMargin,
		Clipboard:       true,
		Version:         "1.0.0",
		ServerName:      "mcp-form-export",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.FormDirectory, &cfg.OutputDirectory, &cfg.StoreDirectory} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("MCP_FORM")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.FormDirectory)
	viper.SetDefault("out", cfg.OutputDirectory)
	viper.SetDefault("store", cfg.StoreDirectory)
	viper.SetDefault("root", cfg.RootClass)
	viper.SetDefault("strategies", strings.Join(cfg.Strategies, ","))
	viper.SetDefault("font", cfg.FontPath)
	viper.SetDefault("fonttimeout", cfg.FontTimeout)
	viper.SetDefault("imagetimeout", cfg.ImageTimeout)
	viper.SetDefault("margin", cfg.Margin)
	viper.SetDefault("chrome", cfg.ChromeBin)
	viper.SetDefault("clipboard", cfg.Clipboard)
	viper.SetDefault("catalog", cfg.CatalogPath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.FormDirectory, "Directory containing filled form documents")
	pflag.String("out", cfg.OutputDirectory, "Directory receiving exported PDF files")
	pflag.String("store", cfg.StoreDirectory, "Directory holding the last built summary")
	pflag.String("root", cfg.RootClass, "Class of the form element to export")
	pflag.String("strategies", strings.Join(cfg.Strategies, ","), "Rendering strategies in fallback order (layout, raster, browser)")
	pflag.String("font", cfg.FontPath, "Optional TrueType/OpenType font used by the raster renderer")
	pflag.Duration("fonttimeout", cfg.FontTimeout, "Maximum wait for the optional font")
	pflag.Duration("imagetimeout", cfg.ImageTimeout, "Maximum wait for each embedded image")
	pflag.Float64("margin", cfg.Margin, "Page margin in millimetres")
	pflag.String("chrome", cfg.ChromeBin, "Chrome/Chromium binary for the browser strategy")
	pflag.Bool("clipboard", cfg.Clipboard, "Copy built summaries to the clipboard")
	pflag.String("catalog", cfg.CatalogPath, "Disorder catalog (YAML or HTML page with a psy-table)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum form file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "out", "store", "root", "strategies", "font",
		"fonttimeout", "imagetimeout", "margin", "chrome", "clipboard", "catalog", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Form Export - flatten filled forms, export them to PDF and build summaries\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                      # stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/srv/forms --out=/srv/exports  # custom directories\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --strategies=browser,layout,raster   # try headless Chrome first\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MCP_FORM_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  MCP_FORM_DIR          Form directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_FORM_OUT          Export directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_FORM_STORE        Summary store directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_FORM_STRATEGIES   Rendering strategies\n")
		fmt.Fprintf(os.Stderr, "  MCP_FORM_LOGLEVEL     Log level\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.FormDirectory = viper.GetString("dir")
	cfg.OutputDirectory = viper.GetString("out")
	cfg.StoreDirectory = viper.GetString("store")
	cfg.RootClass = viper.GetString("root")
	cfg.Strategies = ParseStrategies(viper.GetString("strategies"))
	cfg.FontPath = viper.GetString("font")
	cfg.FontTimeout = viper.GetDuration("fonttimeout")
	cfg.ImageTimeout = viper.GetDuration("imagetimeout")
	cfg.Margin = viper.GetFloat64("margin")
	cfg.ChromeBin = viper.GetString("chrome")
	cfg.Clipboard = viper.GetBool("clipboard")
	cfg.CatalogPath = viper.GetString("catalog")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// ParseStrategies splits a comma separated strategy list
func ParseStrategies(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.FormDirectory == "" {
		return errors.New("form directory cannot be empty")
	}
	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}
	if c.StoreDirectory == "" {
		return errors.New("store directory cannot be empty")
	}

	// Create the directories we write to
	for _, dir := range []string{c.FormDirectory, c.OutputDirectory, c.StoreDirectory} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	for _, s := range c.Strategies {
		switch s {
		case StrategyLayout, StrategyRaster, StrategyBrowser:
		default:
			return fmt.Errorf("unknown rendering strategy: %s (must be one of: layout, raster, browser)", s)
		}
	}

	if c.Margin < 0 || c.Margin > 50 {
		return fmt.Errorf("margin must be between 0 and 50 mm, got %.1f", c.Margin)
	}

	if c.FontTimeout < 0 || c.ImageTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, FormDirectory: %s, OutputDirectory: %s, StoreDirectory: %s, Strategies: %v, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.FormDirectory, c.OutputDirectory, c.StoreDirectory, c.Strategies, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
