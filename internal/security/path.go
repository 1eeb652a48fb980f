// Package security keeps form inputs and exported artifacts inside the
// directories the server was configured with.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines paths to a single base directory
type PathValidator struct {
	baseDirectory string
}

// NewPathValidator creates a validator rooted at baseDirectory.
// The directory does not need to exist yet.
func NewPathValidator(baseDirectory string) (*PathValidator, error) {
	if baseDirectory == "" {
		return nil, fmt.Errorf("base directory cannot be empty")
	}
	abs, err := filepath.Abs(baseDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	return &PathValidator{baseDirectory: filepath.Clean(abs)}, nil
}

// BaseDirectory returns the absolute base directory
func (v *PathValidator) BaseDirectory() string {
	return v.baseDirectory
}

// Resolve turns path into an absolute path inside the base directory.
// Relative paths are taken relative to the base directory.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.baseDirectory, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if !v.Contains(abs) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return abs, nil
}

// Contains reports whether path lies within the base directory,
// following symlinks on both sides when they exist.
func (v *PathValidator) Contains(path string) bool {
	clean := filepath.Clean(path)

	realPath := clean
	if resolved, err := filepath.EvalSymlinks(clean); err == nil {
		realPath = resolved
	}
	realBase := v.baseDirectory
	if resolved, err := filepath.EvalSymlinks(v.baseDirectory); err == nil {
		realBase = resolved
	}

	within := func(p string) bool {
		return isUnder(p, v.baseDirectory) || isUnder(p, realBase)
	}
	return within(clean) && within(realPath)
}

// ValidateFile resolves path and checks that it names an existing regular file
func (v *PathValidator) ValidateFile(path string) (string, os.FileInfo, error) {
	abs, err := v.Resolve(path)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return abs, info, nil
}

func isUnder(path, dir string) bool {
	if path == dir {
		return true
	}
	withSep := dir
	if !strings.HasSuffix(withSep, string(filepath.Separator)) {
		withSep += string(filepath.Separator)
	}
	return strings.HasPrefix(path, withSep)
}
