package export

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-export/internal/config"
	"github.com/a3tai/mcp-form-export/internal/form"
	"github.com/a3tai/mcp-form-export/internal/pdf"
)

// Job is everything a strategy needs to render one flattened form
type Job struct {
	Tree     *form.Tree
	Blocks   []form.Block
	Images   map[string]image.Image
	Fonts    *FontSet
	Theme    Theme
	Document string // standalone HTML of the mounted copy
	Margin   float64
}

// Strategy renders a job into PDF bytes
type Strategy interface {
	Name() string
	Render(ctx context.Context, job *Job) ([]byte, error)
}

// Rendered is the accepted output of the chain
type Rendered struct {
	Strategy string
	Data     []byte
	Pages    int
	Attempts []*StrategyError
}

// Chain tries strategies in order and keeps the first readable document
type Chain struct {
	strategies []Strategy
	validator  *pdf.Validator
	logger     *zap.Logger
}

// ChainOptions configures the strategies built by NewChain
type ChainOptions struct {
	ChromeBin     string
	BrowserWait   time.Duration
	MaxOutputSize int64
}

// NewChain builds the chain for the named strategies
func NewChain(names []string, opts ChainOptions, logger *zap.Logger) (*Chain, error) {
	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, err := newStrategy(name, opts)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return NewChainOf(strategies, pdf.NewValidator(opts.MaxOutputSize), logger), nil
}

// NewChainOf builds a chain from ready strategies
func NewChainOf(strategies []Strategy, validator *pdf.Validator, logger *zap.Logger) *Chain {
	if validator == nil {
		validator = pdf.NewValidator(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{strategies: strategies, validator: validator, logger: logger}
}

func newStrategy(name string, opts ChainOptions) (Strategy, error) {
	switch name {
	case config.StrategyLayout:
		return NewLayoutRenderer(), nil
	case config.StrategyRaster:
		return NewRasterRenderer(), nil
	case config.StrategyBrowser:
		return NewBrowserRenderer(opts.ChromeBin, opts.BrowserWait), nil
	default:
		return nil, &StrategyError{
			Strategy: name,
			Op:       "create",
			Err:      fmt.Errorf("unknown strategy: %s", name),
		}
	}
}

// Names lists the strategies in the order they are tried
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Empty reports whether the chain has nothing to try
func (c *Chain) Empty() bool {
	return len(c.strategies) == 0
}

// Run renders job with each strategy until one yields a valid PDF
func (c *Chain) Run(ctx context.Context, job *Job) (*Rendered, error) {
	if c.Empty() {
		return nil, ErrNoRenderer
	}

	var attempts []*StrategyError
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, &StrategyError{Strategy: s.Name(), Op: "render", Err: err})
			break
		}

		start := time.Now()
		data, err := s.Render(ctx, job)
		if err == nil && len(data) == 0 {
			err = ErrEmptySurface
		}
		if err != nil {
			attempt := &StrategyError{Strategy: s.Name(), Op: "render", Err: err}
			attempts = append(attempts, attempt)
			c.logger.Warn("renderer skipped", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		}

		pages, err := c.validator.ValidateBytes(data)
		if err != nil {
			attempt := &StrategyError{Strategy: s.Name(), Op: "validate", Err: err}
			attempts = append(attempts, attempt)
			c.logger.Warn("renderer produced an unreadable document", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		}

		c.logger.Debug("document rendered",
			zap.String("strategy", s.Name()),
			zap.Int("pages", pages),
			zap.Int("bytes", len(data)),
			zap.Duration("elapsed", time.Since(start)))

		return &Rendered{Strategy: s.Name(), Data: data, Pages: pages, Attempts: attempts}, nil
	}

	return nil, &ExportError{Attempts: attempts}
}
