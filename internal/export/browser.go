package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const defaultBrowserWait = 30 * time.Second

// BrowserRenderer prints the mounted document with headless Chrome
type BrowserRenderer struct {
	bin  string
	wait time.Duration
}

// NewBrowserRenderer creates the headless Chrome strategy. An empty bin
// looks Chrome up on the system.
func NewBrowserRenderer(bin string, wait time.Duration) *BrowserRenderer {
	if wait <= 0 {
		wait = defaultBrowserWait
	}
	return &BrowserRenderer{bin: bin, wait: wait}
}

// Name implements Strategy
func (r *BrowserRenderer) Name() string { return "browser" }

func (r *BrowserRenderer) binary() (string, error) {
	if r.bin != "" {
		return r.bin, nil
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium binary found", ErrUnavailable)
}

// Render implements Strategy
func (r *BrowserRenderer) Render(ctx context.Context, job *Job) ([]byte, error) {
	if job.Document == "" {
		return nil, ErrEmptySurface
	}
	bin, err := r.binary()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	l := launcher.New().Bin(bin).Headless(true).Context(ctx)
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch chrome: %v", ErrUnavailable, err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(job.Document); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for document: %w", err)
	}

	margin := job.Margin / 25.4
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      inches(a4WidthMM / 25.4),
		PaperHeight:     inches(a4HeightMM / 25.4),
		MarginTop:       inches(margin),
		MarginBottom:    inches(margin),
		MarginLeft:      inches(margin),
		MarginRight:     inches(margin),
	})
	if err != nil {
		return nil, fmt.Errorf("print to PDF: %w", err)
	}
	return io.ReadAll(stream)
}

func inches(v float64) *float64 {
	return &v
}
