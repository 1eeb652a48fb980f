package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-export/internal/config"
	"github.com/a3tai/mcp-form-export/internal/logging"
	"github.com/a3tai/mcp-form-export/internal/service"
)

// app carries what the subcommands share
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
	svc    *service.Service
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), now: time.Now}
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:           "form_export",
		Short:         "Export filled forms to PDF and build M.E.D and psy summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("dir", defaults.FormDirectory, "Directory containing filled form documents")
	flags.String("out", defaults.OutputDirectory, "Directory receiving exported PDF files")
	flags.String("store", defaults.StoreDirectory, "Directory holding the last built summary")
	flags.String("root", defaults.RootClass, "Class of the form element to export")
	flags.String("strategies", strings.Join(defaults.Strategies, ","), "Rendering strategies in fallback order (layout, raster, browser)")
	flags.String("font", "", "Optional TrueType/OpenType font used by the raster renderer")
	flags.Duration("imagetimeout", defaults.ImageTimeout, "Maximum wait for each embedded image")
	flags.Float64("margin", defaults.Margin, "Page margin in millimetres")
	flags.String("chrome", "", "Chrome/Chromium binary for the browser strategy")
	flags.String("catalog", "", "Disorder catalog (YAML or HTML page with a psy-table)")
	flags.Bool("clipboard", defaults.Clipboard, "Use the system clipboard when copying")
	flags.String("loglevel", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newExportCmd(a),
		newPreviewCmd(a),
		newMEDCmd(a),
		newPsyCmd(a),
		newInspectCmd(a),
	)
	return root
}

// init loads the configuration from flags and MCP_FORM_* variables, then
// builds the service
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("MCP_FORM")
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.FormDirectory = a.v.GetString("dir")
	cfg.OutputDirectory = a.v.GetString("out")
	cfg.StoreDirectory = a.v.GetString("store")
	cfg.RootClass = a.v.GetString("root")
	cfg.Strategies = config.ParseStrategies(a.v.GetString("strategies"))
	cfg.FontPath = a.v.GetString("font")
	cfg.ImageTimeout = a.v.GetDuration("imagetimeout")
	cfg.Margin = a.v.GetFloat64("margin")
	cfg.ChromeBin = a.v.GetString("chrome")
	cfg.CatalogPath = a.v.GetString("catalog")
	cfg.Clipboard = a.v.GetBool("clipboard")
	cfg.LogLevel = a.v.GetString("loglevel")
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	a.logger = logger

	svc, err := service.New(service.Options{
		Config:   cfg,
		Terminal: cmd.ErrOrStderr(),
		Now:      a.now,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	a.svc = svc
	return nil
}

// parseValues reads name=value pairs; a name may repeat for checkbox groups
func parseValues(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := url.Values{}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid value %q, expected name=value", p)
		}
		values.Add(strings.TrimSpace(name), value)
	}
	return values, nil
}
