package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned for zero-length or page-less output
var ErrEmptyDocument = errors.New("document has no pages")

// Validator checks that rendered output is a readable PDF
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator bounded by maxFileSize
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateBytes opens data as a PDF and returns its page count
func (v *Validator) ValidateBytes(data []byte) (pages int, err error) {
	if len(data) == 0 {
		return 0, ErrEmptyDocument
	}
	if v.maxFileSize > 0 && int64(len(data)) > v.maxFileSize {
		return 0, fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(data), v.maxFileSize)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, fmt.Errorf("invalid PDF: missing header")
	}

	// the parser panics on some truncated inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("invalid PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return 0, ErrEmptyDocument
	}
	return r.NumPage(), nil
}

// ValidateFile checks the document at path
func (v *Validator) ValidateFile(path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("path cannot be empty")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return 0, fmt.Errorf("file is not a PDF: %s", path)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return 0, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if v.maxFileSize > 0 && info.Size() > v.maxFileSize {
		return 0, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("cannot read file: %w", err)
	}
	return v.ValidateBytes(data)
}
