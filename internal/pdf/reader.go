package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pageBreak = "\n\n--- Page Break ---\n\n"

// Reader extracts the text layer of exported documents
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a reader bounded by maxFileSize
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 1024 * 1024,
	}
}

// ReadFile reads the document at path
func (r *Reader) ReadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if r.maxFileSize > 0 && info.Size() > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), r.maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return r.ReadBytes(data)
}

// ReadBytes reads an in-memory document. Raster exports have no text layer,
// which is reported through ContentType rather than as an error.
func (r *Reader) ReadBytes(data []byte) (doc *Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("failed to parse PDF: %v", rec)
		}
	}()

	pr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	content := r.extractText(pr)
	images := r.countImages(pr)

	return &Document{
		Pages:       pr.NumPage(),
		Size:        int64(len(data)),
		Content:     content,
		ContentType: classify(content, images),
		ImageCount:  images,
	}, nil
}

func (r *Reader) extractText(pr *pdf.Reader) string {
	var b strings.Builder
	for n := 1; n <= pr.NumPage(); n++ {
		page := pr.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len()+len(text) > r.maxTextSize {
			if remaining := r.maxTextSize - b.Len(); remaining > 0 {
				b.WriteString(text[:remaining])
			}
			break
		}
		b.WriteString(text)
		if n < pr.NumPage() {
			b.WriteString(pageBreak)
		}
	}
	return b.String()
}

func classify(content string, images int) string {
	text := strings.TrimSpace(strings.ReplaceAll(content, strings.TrimSpace(pageBreak), ""))
	switch {
	case text == "" && images > 0:
		return ContentScannedImages
	case text == "":
		return ContentNone
	case images > 0:
		return ContentMixed
	default:
		return ContentText
	}
}

// countImages counts image XObjects across all pages
func (r *Reader) countImages(pr *pdf.Reader) int {
	count := 0
	for n := 1; n <= pr.NumPage(); n++ {
		count += imagesOnPage(pr, n)
	}
	return count
}

func imagesOnPage(pr *pdf.Reader, n int) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()

	page := pr.Page(n)
	if page.V.IsNull() {
		return 0
	}
	xObjects := page.V.Key("Resources").Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}
	for _, key := range xObjects.Keys() {
		if xObjects.Key(key).Key("Subtype").Name() == "Image" {
			count++
		}
	}
	return count
}
