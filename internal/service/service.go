// Package service wires forms, export, summaries and the clipboard behind
// the operations exposed by the MCP server and the CLI.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-export/internal/clipboard"
	"github.com/a3tai/mcp-form-export/internal/config"
	"github.com/a3tai/mcp-form-export/internal/export"
	"github.com/a3tai/mcp-form-export/internal/form"
	"github.com/a3tai/mcp-form-export/internal/pdf"
	"github.com/a3tai/mcp-form-export/internal/psy"
	"github.com/a3tai/mcp-form-export/internal/security"
	"github.com/a3tai/mcp-form-export/internal/store"
)

var (
	// ErrNoCatalog is returned by psy operations when no catalog is configured
	ErrNoCatalog = errors.New("no disorder catalog configured")
	// ErrNoForm is returned when a request names neither a file nor markup
	ErrNoForm = errors.New("either path or markup is required")
	// ErrNoSummary is returned when no M.E.D was built yet
	ErrNoSummary = errors.New("no M.E.D built yet")
)

// Options configures a Service
type Options struct {
	Config *config.Config
	// Terminal receives the OSC 52 clipboard fallback; nil disables it
	Terminal io.Writer
	// Fs holds exports and the summary store; defaults to the OS filesystem
	Fs         afero.Fs
	HTTPClient *http.Client
	// Renderers replaces the configured strategy chain
	Renderers []export.Strategy
	Now       func() time.Time
	Logger    *zap.Logger
}

// Service implements the form export operations
type Service struct {
	cfg      *config.Config
	forms    *security.PathValidator
	exporter *export.Exporter
	inspect  *pdf.Service
	last     *store.LastSummary
	copier   *clipboard.Copier
	now      func() time.Time
	logger   *zap.Logger

	catalogMu sync.Mutex
	catalog   psy.Catalog
}

// New creates the service from its configuration
func New(opts Options) (*Service, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	forms, err := security.NewPathValidator(cfg.FormDirectory)
	if err != nil {
		return nil, fmt.Errorf("invalid form directory: %w", err)
	}
	inspect, err := pdf.NewService(cfg.OutputDirectory, cfg.MaxFileSize)
	if err != nil {
		return nil, err
	}

	exporter, err := export.New(export.Options{
		OutputDirectory: cfg.OutputDirectory,
		FormDirectory:   cfg.FormDirectory,
		Strategies:      cfg.Strategies,
		FontPath:        cfg.FontPath,
		FontTimeout:     cfg.FontTimeout,
		ImageTimeout:    cfg.ImageTimeout,
		Margin:          cfg.Margin,
		ChromeBin:       cfg.ChromeBin,
		MaxOutputSize:   cfg.MaxFileSize,
		Flatten:         form.DefaultOptions(),
		Fs:              opts.Fs,
		HTTPClient:      opts.HTTPClient,
		Renderers:       opts.Renderers,
		Now:             opts.Now,
	}, logger.Named("export"))
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	return &Service{
		cfg:      cfg,
		forms:    forms,
		exporter: exporter,
		inspect:  inspect,
		last:     store.NewLastSummary(store.New(opts.Fs, cfg.StoreDirectory)),
		copier:   clipboard.New(opts.Terminal, cfg.Clipboard, logger.Named("clipboard")),
		now:      opts.Now,
		logger:   logger,
	}, nil
}

// FormRequest names a form either by file or by inline markup
type FormRequest struct {
	Path   string     `json:"path,omitempty"`
	Markup string     `json:"markup,omitempty"`
	Values url.Values `json:"values,omitempty"`
	// RootID selects the form element by id instead of the configured class
	RootID string `json:"root_id,omitempty"`
}

// LoadForm parses the requested form and applies the submitted values
func (s *Service) LoadForm(req FormRequest) (*form.Tree, error) {
	var src io.Reader
	switch {
	case req.Path != "":
		path, info, err := s.forms.ValidateFile(req.Path)
		if err != nil {
			return nil, err
		}
		if info.Size() > s.cfg.MaxFileSize {
			return nil, fmt.Errorf("form file too large: %d bytes (max %d)", info.Size(), s.cfg.MaxFileSize)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read form: %w", err)
		}
		src = bytes.NewReader(data)
	case req.Markup != "":
		if int64(len(req.Markup)) > s.cfg.MaxFileSize {
			return nil, fmt.Errorf("form markup too large: %d bytes (max %d)", len(req.Markup), s.cfg.MaxFileSize)
		}
		src = strings.NewReader(req.Markup)
	default:
		return nil, ErrNoForm
	}

	tree, err := form.ParseHTML(src, form.ParseOptions{RootID: req.RootID, RootClass: s.cfg.RootClass})
	if err != nil {
		return nil, err
	}
	if len(req.Values) > 0 {
		tree = tree.WithValues(req.Values)
	}
	return tree, nil
}

// Preview returns the sanitised markup of the flattened form
func (s *Service) Preview(req FormRequest) (string, error) {
	tree, err := s.LoadForm(req)
	if err != nil {
		return "", err
	}
	return form.Preview(tree, form.DefaultOptions())
}

// ExportRequest is a form plus optional artifact naming overrides
type ExportRequest struct {
	FormRequest
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Export flattens the form and writes it as a PDF in the output directory
func (s *Service) Export(ctx context.Context, req ExportRequest) (*export.Result, error) {
	tree, err := s.LoadForm(req.FormRequest)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(ctx, export.Request{Tree: tree, Name: req.Name, ID: req.ID})
}

// Inspect validates and reads an exported document
func (s *Service) Inspect(path string) (*pdf.InspectResult, error) {
	return s.inspect.Inspect(pdf.InspectRequest{Path: path})
}

// Strategies lists the rendering chain in order
func (s *Service) Strategies() []string {
	return s.exporter.Strategies()
}

// catalogFile loads the configured catalog on first use
func (s *Service) catalogFile() (psy.Catalog, error) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	if s.catalog != nil {
		return s.catalog, nil
	}
	if s.cfg.CatalogPath == "" {
		return nil, ErrNoCatalog
	}

	f, err := os.Open(s.cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	var c psy.Catalog
	switch strings.ToLower(filepath.Ext(s.cfg.CatalogPath)) {
	case ".yaml", ".yml":
		c, err = psy.LoadYAML(f)
	default:
		c, err = psy.ParseTable(f)
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = psy.Catalog{}
	}
	s.logger.Debug("Loaded disorder catalog", zap.String("path", s.cfg.CatalogPath), zap.Int("entries", len(c)))
	s.catalog = c
	return c, nil
}

// Catalog returns the known disorders
func (s *Service) Catalog() (psy.Catalog, error) {
	return s.catalogFile()
}
