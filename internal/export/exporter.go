// Package export renders a flattened form to a paginated PDF through an
// ordered chain of rendering strategies.
package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-export/internal/form"
)

// Form fields read for the artifact name
const (
	NameField = "nom"
	IDField   = "id"
)

// Options configures an Exporter
type Options struct {
	OutputDirectory string
	FormDirectory   string
	Strategies      []string
	FontPath        string
	FontTimeout     time.Duration
	ImageTimeout    time.Duration
	Margin          float64
	ChromeBin       string
	MaxOutputSize   int64
	Flatten         form.Options

	// Fs defaults to the OS filesystem
	Fs afero.Fs
	// HTTPClient fetches remote images
	HTTPClient *http.Client
	// Renderers replaces the strategies built from Strategies
	Renderers []Strategy
	// Now defaults to time.Now
	Now func() time.Time
}

// Request is one export of a filled form
type Request struct {
	Tree *form.Tree
	// Name and ID override the form's name and identifier fields
	Name string
	ID   string
}

// Result describes a written artifact
type Result struct {
	Path     string           `json:"path"`
	Filename string           `json:"filename"`
	Strategy string           `json:"strategy"`
	Pages    int              `json:"pages"`
	Size     int64            `json:"size"`
	Images   int              `json:"images"`
	Attempts []*StrategyError `json:"attempts,omitempty"`
}

// Exporter flattens forms and writes them as PDF files. Export is not
// guarded against concurrent calls; each call works on its own copy.
type Exporter struct {
	opts    Options
	fs      afero.Fs
	chain   *Chain
	surface *Surface
	fonts   *FontLoader
	assets  *AssetLoader
	logger  *zap.Logger
}

// New creates an exporter
func New(opts Options, logger *zap.Logger) (*Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutputDirectory == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var chain *Chain
	if opts.Renderers != nil {
		chain = NewChainOf(opts.Renderers, nil, logger)
	} else {
		var err error
		chain, err = NewChain(opts.Strategies, ChainOptions{
			ChromeBin:     opts.ChromeBin,
			MaxOutputSize: opts.MaxOutputSize,
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	return &Exporter{
		opts:    opts,
		fs:      opts.Fs,
		chain:   chain,
		surface: NewSurface(),
		fonts:   NewFontLoader(opts.Fs, opts.FontPath, opts.FontTimeout),
		assets:  NewAssetLoader(opts.Fs, opts.FormDirectory, opts.HTTPClient, opts.ImageTimeout, logger),
		logger:  logger,
	}, nil
}

// Surface exposes the mount surface, mostly for inspection
func (e *Exporter) Surface() *Surface {
	return e.surface
}

// Strategies lists the configured rendering strategies in order
func (e *Exporter) Strategies() []string {
	return e.chain.Names()
}

// Export flattens the form, renders it and writes the PDF. The mounted
// copy is detached on every path.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	if e.chain.Empty() {
		return nil, ErrNoRenderer
	}
	if req.Tree == nil || req.Tree.Root == nil {
		return nil, fmt.Errorf("%w: no form to export", ErrEmptySurface)
	}

	name := req.Name
	if name == "" {
		name = req.Tree.FieldValue(NameField)
	}
	id := req.ID
	if id == "" {
		id = req.Tree.FieldValue(IDField)
	}
	filename := Filename(name, id, e.opts.Now()) + ".pdf"

	theme := ThemeFor(req.Tree)
	flat := form.Flatten(req.Tree, e.opts.Flatten)

	mount := e.surface.Attach(flat, theme)
	defer e.surface.Detach(mount.ID)

	fonts, err := e.fonts.Load(ctx, RasterScale)
	if err != nil {
		e.logger.Info("using built-in fonts", zap.Error(err))
	}

	images := e.assets.WaitAll(ctx, flat.Images())

	document, err := mount.Document()
	if err != nil {
		return nil, err
	}

	job := &Job{
		Tree:     flat,
		Blocks:   form.Blocks(flat),
		Images:   images,
		Fonts:    fonts,
		Theme:    theme,
		Document: document,
		Margin:   e.opts.Margin,
	}

	rendered, err := e.chain.Run(ctx, job)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(e.opts.OutputDirectory, filename)
	if err := e.fs.MkdirAll(e.opts.OutputDirectory, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := afero.WriteFile(e.fs, path, rendered.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", filename, err)
	}

	e.logger.Info("form exported",
		zap.String("file", filename),
		zap.String("strategy", rendered.Strategy),
		zap.Int("pages", rendered.Pages),
		zap.Int("failed_attempts", len(rendered.Attempts)))

	return &Result{
		Path:     path,
		Filename: filename,
		Strategy: rendered.Strategy,
		Pages:    rendered.Pages,
		Size:     int64(len(rendered.Data)),
		Images:   len(images),
		Attempts: rendered.Attempts,
	}, nil
}

// IsNoRenderer reports whether err means nothing could render at all
func IsNoRenderer(err error) bool {
	return errors.Is(err, ErrNoRenderer)
}
