package export

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-form-export/internal/pdf"
)

func TestBrowserRenderer_EmptyDocument(t *testing.T) {
	_, err := NewBrowserRenderer("", 0).Render(context.Background(), &Job{})
	assert.ErrorIs(t, err, ErrEmptySurface)
}

func TestBrowserRenderer_ExplicitBinary(t *testing.T) {
	r := NewBrowserRenderer("/opt/chrome/chrome", 0)
	bin, err := r.binary()
	require.NoError(t, err)
	assert.Equal(t, "/opt/chrome/chrome", bin)
	assert.Equal(t, defaultBrowserWait, r.wait)
}

// Needs a local Chrome; opt in with FORM_EXPORT_CHROME=1
func TestBrowserRenderer_Render(t *testing.T) {
	if os.Getenv("FORM_EXPORT_CHROME") == "" {
		t.Skip("set FORM_EXPORT_CHROME=1 to run against a local Chrome")
	}

	job := &Job{Document: "<!doctype html><html><body><p>Jean Dupont</p></body></html>", Margin: 10}
	data, err := NewBrowserRenderer("", 0).Render(context.Background(), job)
	require.NoError(t, err)

	pages, err := pdf.NewValidator(0).ValidateBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}
