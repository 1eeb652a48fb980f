// Package pdf inspects exported documents: validation, page count and
// text layer extraction.
package pdf

import (
	"fmt"

	"github.com/a3tai/mcp-form-export/internal/security"
)

// Service inspects documents inside the export directory
type Service struct {
	paths     *security.PathValidator
	validator *Validator
	reader    *Reader
}

// NewService creates an inspection service rooted at exportDirectory
func NewService(exportDirectory string, maxFileSize int64) (*Service, error) {
	paths, err := security.NewPathValidator(exportDirectory)
	if err != nil {
		return nil, fmt.Errorf("invalid export directory: %w", err)
	}
	return &Service{
		paths:     paths,
		validator: NewValidator(maxFileSize),
		reader:    NewReader(maxFileSize),
	}, nil
}

// Validator returns the validator used for rendered output
func (s *Service) Validator() *Validator {
	return s.validator
}

// Inspect validates and reads an exported document. An unreadable document
// is a result with Valid false, not an error.
func (s *Service) Inspect(req InspectRequest) (*InspectResult, error) {
	path, info, err := s.paths.ValidateFile(req.Path)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{Path: path, Size: info.Size()}

	pages, err := s.validator.ValidateFile(path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failure is part of the result
	}
	result.Valid = true
	result.Pages = pages

	doc, err := s.reader.ReadFile(path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // text extraction is best effort
	}
	result.ContentType = doc.ContentType
	result.ImageCount = doc.ImageCount
	result.Content = doc.Content
	return result, nil
}
