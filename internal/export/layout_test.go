package export

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-form-export/internal/form"
	"github.com/a3tai/mcp-form-export/internal/pdf"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     []string
	}{
		{name: "fits", text: "Jean Dupont", maxChars: 20, want: []string{"Jean Dupont"}},
		{name: "wraps on words", text: "un deux trois", maxChars: 8, want: []string{"un deux", "trois"}},
		{name: "cuts long words", text: "abcdefghij", maxChars: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "keeps paragraphs", text: "a\n\nb", maxChars: 5, want: []string{"a", "", "b"}},
		{name: "counts runes", text: "éééé éé", maxChars: 4, want: []string{"éééé", "éé"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.maxChars))
		})
	}
}

func TestLayoutRenderer_Paginates(t *testing.T) {
	lines := make([]string, 120)
	for i := range lines {
		lines[i] = "ligne"
	}
	doc := NewLayoutRenderer().compose(textJob(lines...))

	assert.Greater(t, len(doc.Pages), 1)
	_, ok := doc.Pages["1"]
	assert.True(t, ok)
	for _, p := range doc.Pages {
		for _, text := range p.Content.Text {
			assert.LessOrEqual(t, text.Pos[1], pageHeightPt-10*ptPerMM)
		}
	}
}

func TestLayoutRenderer_Render(t *testing.T) {
	job := &Job{
		Blocks: []form.Block{
			{Kind: form.BlockHeading, Text: "Identité", Level: 2},
			{Kind: form.BlockText, Text: "Nom"},
			{Kind: form.BlockField, Text: "Jean Dupont"},
			{Kind: form.BlockListItem, Text: "DTP"},
		},
		Theme:  defaultTheme,
		Margin: 10,
	}

	data, err := NewLayoutRenderer().Render(context.Background(), job)
	require.NoError(t, err)

	pages, err := pdf.NewValidator(0).ValidateBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	doc, err := pdf.NewReader(0).ReadBytes(data)
	require.NoError(t, err)
	assert.True(t, strings.Contains(doc.Content, "Dupont"), doc.Content)
}

func TestLayoutRenderer_SkipsImagesAndEmpty(t *testing.T) {
	r := NewLayoutRenderer()

	_, err := r.Render(context.Background(), &Job{Blocks: []form.Block{{Kind: form.BlockImage, Image: &form.Image{Src: "x.png"}}}})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = r.Render(context.Background(), &Job{})
	assert.ErrorIs(t, err, ErrEmptySurface)
}
