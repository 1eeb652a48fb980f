package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-export/internal/clipboard"
	"github.com/a3tai/mcp-form-export/internal/med"
	"github.com/a3tai/mcp-form-export/internal/psy"
	"github.com/a3tai/mcp-form-export/internal/store"
)

// CopyResult is the outcome of a clipboard copy
type CopyResult struct {
	Attempted bool             `json:"attempted"`
	Copied    bool             `json:"copied"`
	Method    clipboard.Method `json:"method"`
	Badge     string           `json:"badge"`
}

func (s *Service) copy(text string, attempt bool) CopyResult {
	if !attempt {
		return CopyResult{Method: clipboard.MethodNone}
	}
	method, ok := s.copier.Copy(text)
	return CopyResult{
		Attempted: true,
		Copied:    ok,
		Method:    method,
		Badge:     clipboard.Message(ok, true),
	}
}

// MEDRequest builds a summary, optionally copying it
type MEDRequest struct {
	med.Input
	Copy bool `json:"copy"`
}

// MEDResult is a built summary with its preview
type MEDResult struct {
	med.Result
	Preview string     `json:"preview"`
	Copy    CopyResult `json:"copy"`
}

// BuildMED builds the M.E.D, keeps its metadata as the last summary and
// copies the text when asked
func (s *Service) BuildMED(req MEDRequest) (*MEDResult, error) {
	now := s.now()
	res := med.Build(req.Input, now)

	preview, err := med.PreviewHTML(res, now)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	if err := s.last.Save(res.Meta); err != nil {
		s.logger.Warn("Failed to store last summary", zap.Error(err))
	}

	return &MEDResult{Result: res, Preview: preview, Copy: s.copy(res.Text, req.Copy)}, nil
}

// NoticeResult is the rights reading that comes with a summary
type NoticeResult struct {
	Summary med.Result `json:"summary"`
	Text    string     `json:"text"`
	HTML    string     `json:"html"`
	Copy    CopyResult `json:"copy"`
}

// RightsNotice builds the summary then the rights reading from it. The
// summary text is what gets copied, as when custody starts.
func (s *Service) RightsNotice(req MEDRequest) (*NoticeResult, error) {
	now := s.now()
	res := med.Build(req.Input, now)
	notice := med.NewNotice(res.Meta, now, req.FactsText)

	html, err := notice.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to render notice: %w", err)
	}
	if err := s.last.Save(res.Meta); err != nil {
		s.logger.Warn("Failed to store last summary", zap.Error(err))
	}

	cp := s.copy(res.Text, req.Copy)
	if cp.Attempted && !cp.Copied {
		cp.Badge = clipboard.CopyDenied
	}
	return &NoticeResult{Summary: res, Text: notice.Text(), HTML: html, Copy: cp}, nil
}

// LastMED returns the metadata of the last built summary
func (s *Service) LastMED() (med.Meta, error) {
	meta, err := s.last.Load()
	if errors.Is(err, store.ErrNotFound) {
		return med.Meta{}, ErrNoSummary
	}
	return meta, err
}

// PsyResult is a disorder summary with its copy outcome
type PsyResult struct {
	psy.Summary
	Copy CopyResult `json:"copy"`
}

// PsySummary summarises the selected disorders of the configured catalog
func (s *Service) PsySummary(selected []string, copyText bool) (*PsyResult, error) {
	c, err := s.catalogFile()
	if err != nil {
		return nil, err
	}
	sum, err := psy.Summarize(c, selected)
	if err != nil {
		return nil, err
	}
	// nothing to copy for an empty selection
	return &PsyResult{Summary: sum, Copy: s.copy(sum.Text, copyText && sum.Count > 0)}, nil
}
