package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // decoders for embedded images
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // webp decoder
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/mcp-form-export/internal/form"
	"github.com/a3tai/mcp-form-export/internal/security"
)

const (
	maxImageBytes    = 10 * 1024 * 1024
	maxParallelLoads = 4
)

var (
	errUnsupportedSource = errors.New("unsupported image source")
	errOutsideBase       = errors.New("image source is outside the form directory")
)

// AssetLoader fetches and decodes the images referenced by a form
type AssetLoader struct {
	baseDir string
	// root serves local sources relative to baseDir
	root afero.Fs
	// guard follows symlinks when the loader reads the OS filesystem
	guard   *security.PathValidator
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewAssetLoader creates a loader. Local sources are read from baseDir on
// fs and must stay inside it; http(s) sources are fetched with client.
// With an empty baseDir every local source is refused.
func NewAssetLoader(fs afero.Fs, baseDir string, client *http.Client, timeout time.Duration, logger *zap.Logger) *AssetLoader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &AssetLoader{client: client, timeout: timeout, logger: logger}
	if baseDir != "" {
		if abs, err := filepath.Abs(baseDir); err == nil {
			l.baseDir = abs
			l.root = afero.NewBasePathFs(fs, abs)
		}
	}
	if _, ok := fs.(*afero.OsFs); ok && l.baseDir != "" {
		l.guard, _ = security.NewPathValidator(l.baseDir)
	}
	return l
}

// WaitAll loads every image of the tree concurrently, each bounded by the
// loader timeout. Failures are logged and the image is left out; the wait
// itself never fails.
func (l *AssetLoader) WaitAll(ctx context.Context, images []*form.Node) map[string]image.Image {
	loaded := make(map[string]image.Image)
	var mu sync.Mutex

	seen := make(map[string]bool)
	var g errgroup.Group
	g.SetLimit(maxParallelLoads)

	for _, n := range images {
		src := strings.TrimSpace(n.Image.Src)
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true

		g.Go(func() error {
			img, err := l.loadWithTimeout(ctx, src)
			if err != nil {
				l.logger.Info("image skipped", zap.String("src", shorten(src)), zap.Error(err))
				return nil
			}
			mu.Lock()
			loaded[src] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return loaded
}

func (l *AssetLoader) loadWithTimeout(ctx context.Context, src string) (image.Image, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.Load(ctx, src)
}

// Load fetches and decodes a single image source
func (l *AssetLoader) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (l *AssetLoader) fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURI(src)
	}

	u, err := url.Parse(src)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.fetchRemote(ctx, u.String())
	}
	if err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		return nil, fmt.Errorf("%w: %s", errUnsupportedSource, u.Scheme)
	}

	path := src
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	rel, err := l.localPath(path)
	if err != nil {
		return nil, err
	}

	f, err := l.root.Open(rel)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImageBytes))
}

// localPath maps a local source to a path relative to the form directory,
// refusing anything that escapes it
func (l *AssetLoader) localPath(path string) (string, error) {
	if l.root == nil {
		return "", fmt.Errorf("%w: %s", errOutsideBase, path)
	}
	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(l.baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errOutsideBase, path)
	}
	if l.guard != nil && !l.guard.Contains(path) {
		return "", fmt.Errorf("%w: %s", errOutsideBase, path)
	}
	return rel, nil
}

func (l *AssetLoader) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// decodeDataURI decodes data:[<mediatype>][;base64],<data>
func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data URI: %w", err)
		}
		return data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return []byte(unescaped), nil
}

func shorten(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
