package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRenderer means no rendering strategy is configured; the export is
	// aborted without producing anything.
	ErrNoRenderer = errors.New("no PDF renderer available")

	// ErrUnavailable means a strategy cannot run in this environment
	ErrUnavailable = errors.New("renderer unavailable")

	// ErrEmptySurface means a strategy produced nothing to paginate
	ErrEmptySurface = errors.New("rendered surface is empty")

	// ErrSurfaceTooLarge means the canvas would exceed the raster size limit
	ErrSurfaceTooLarge = errors.New("rendered surface is too large")
)

// StrategyError records why one rendering strategy was skipped
type StrategyError struct {
	Strategy string `json:"strategy"`
	Op       string `json:"operation"`
	Err      error  `json:"-"`
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s renderer failed in %s: %v", e.Strategy, e.Op, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// MarshalJSON reports the cause as its message
func (e *StrategyError) MarshalJSON() ([]byte, error) {
	var cause string
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return json.Marshal(struct {
		Strategy string `json:"strategy"`
		Op       string `json:"operation"`
		Err      string `json:"error,omitempty"`
	}{e.Strategy, e.Op, cause})
}

// ExportError is returned when every strategy of the chain failed
type ExportError struct {
	Attempts []*StrategyError
}

func (e *ExportError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return "PDF export failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every attempt to errors.Is and errors.As
func (e *ExportError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a)
	}
	return errs
}
