package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font sizes in CSS pixels
const (
	textSize    = 14
	headingSize = 18
	fieldSize   = 14
)

// ErrFontTimeout is returned when the optional font did not load in time
var ErrFontTimeout = errors.New("font load timed out")

// FontSet holds the faces used by the raster renderer. Faces are not safe
// for concurrent use; build one set per job.
type FontSet struct {
	Text    font.Face
	Heading font.Face
	Field   font.Face
	// Custom is set when the field face comes from the configured font
	Custom bool
}

type faceSource struct {
	regular, bold, italic *opentype.Font
}

var builtin = func() faceSource {
	parse := func(data []byte) *opentype.Font {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil
		}
		return f
	}
	return faceSource{
		regular: parse(goregular.TTF),
		bold:    parse(gobold.TTF),
		italic:  parse(goitalic.TTF),
	}
}()

func newFace(f *opentype.Font, size, scale float64) font.Face {
	if f == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72 * scale,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// BuiltinFonts returns the Go font faces at the given scale
func BuiltinFonts(scale float64) *FontSet {
	return &FontSet{
		Text:    newFace(builtin.regular, textSize, scale),
		Heading: newFace(builtin.bold, headingSize, scale),
		Field:   newFace(builtin.italic, fieldSize, scale),
	}
}

// FontLoader loads the optional field font from a filesystem
type FontLoader struct {
	fs      afero.Fs
	path    string
	timeout time.Duration
}

// NewFontLoader creates a loader for the font at path. An empty path
// means the built-in faces are always used.
func NewFontLoader(fs afero.Fs, path string, timeout time.Duration) *FontLoader {
	return &FontLoader{fs: fs, path: path, timeout: timeout}
}

// Load returns the faces for one job. It never fails: on error or timeout
// the built-in faces are returned together with the reason.
func (l *FontLoader) Load(ctx context.Context, scale float64) (*FontSet, error) {
	set := BuiltinFonts(scale)
	if l == nil || l.path == "" {
		return set, nil
	}

	type result struct {
		font *opentype.Font
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := afero.ReadFile(l.fs, l.path)
		if err != nil {
			done <- result{err: fmt.Errorf("read font: %w", err)}
			return
		}
		f, err := opentype.Parse(data)
		if err != nil {
			done <- result{err: fmt.Errorf("parse font: %w", err)}
			return
		}
		done <- result{font: f}
	}()

	timeout := l.timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			return set, r.err
		}
		set.Field = newFace(r.font, fieldSize, scale)
		set.Custom = true
		return set, nil
	case <-timer.C:
		return set, ErrFontTimeout
	case <-ctx.Done():
		return set, ctx.Err()
	}
}
