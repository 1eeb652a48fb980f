package export

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/a3tai/mcp-form-export/internal/form"
)

// Surface holds the copies currently mounted for rendering, together with
// the style sheets injected for them
type Surface struct {
	mu     sync.Mutex
	mounts map[uuid.UUID]*Mount
}

// Mount is one copy attached to the surface
type Mount struct {
	ID     uuid.UUID
	Tree   *form.Tree
	Styles []string
	Light  bool
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{mounts: make(map[uuid.UUID]*Mount)}
}

// Attach mounts a copy and its styles. The caller must Detach it.
func (s *Surface) Attach(tree *form.Tree, theme Theme) *Mount {
	if tree.Root != nil {
		tree.Root.ID = "tmpPdfExport"
		tree.Root.Classes = appendClass(tree.Root.Classes, ExportClass)
		if theme.Light {
			tree.Root.Classes = appendClass(tree.Root.Classes, "pdf-light-mode")
		}
	}

	m := &Mount{ID: uuid.New(), Tree: tree, Styles: theme.Styles(), Light: theme.Light}

	s.mu.Lock()
	s.mounts[m.ID] = m
	s.mu.Unlock()
	return m
}

// Detach removes a mount and its styles. Detaching twice is a no-op.
func (s *Surface) Detach(id uuid.UUID) {
	s.mu.Lock()
	delete(s.mounts, id)
	s.mu.Unlock()
}

// Len returns the number of mounted copies
func (s *Surface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mounts)
}

// Document renders the mount as a standalone HTML page. The body is
// sanitised with the preview policy before it reaches a browser.
func (m *Mount) Document() (string, error) {
	markup, err := form.RenderHTML(m.Tree)
	if err != nil {
		return "", fmt.Errorf("render mounted copy: %w", err)
	}
	body := form.Sanitize(markup)

	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\">")
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(m.ID.String()))
	b.WriteString("</title>")
	for _, css := range m.Styles {
		b.WriteString("<style>")
		b.WriteString(css)
		b.WriteString("</style>")
	}
	b.WriteString("</head><body style=\"margin:0;background:#ffffff\">")
	b.WriteString(body)
	b.WriteString("</body></html>")
	return b.String(), nil
}

func appendClass(classes []string, class string) []string {
	for _, c := range classes {
		if c == class {
			return classes
		}
	}
	return append(classes, class)
}
