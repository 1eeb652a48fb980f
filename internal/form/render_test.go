package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML_RoundTripsControls(t *testing.T) {
	markup := `<div class="card"><input type="checkbox" name="c" value="x" checked><textarea name="t">a &lt; b</textarea></div>`
	tree := parseCard(t, markup, "card")

	out, err := RenderHTML(tree)
	require.NoError(t, err)

	reparsed := parseCard(t, out, "card")
	controls := reparsed.Controls()
	require.Len(t, controls, 2)
	assert.True(t, controls[0].Control.Checked)
	assert.Equal(t, "a < b", controls[1].Control.Value)
}

func TestRenderHTML_ResolvedFields(t *testing.T) {
	flat := Flatten(parseCard(t, visitForm, DefaultRootClass), DefaultOptions())

	out, err := RenderHTML(flat)
	require.NoError(t, err)

	assert.Contains(t, out, `class="replaced-field"`)
	assert.Contains(t, out, "<li>DTP</li>")
	assert.Contains(t, out, "Jean Dupont")
	assert.NotContains(t, out, "<input")
	assert.NotContains(t, out, "<button")
}

func TestPreview_SanitisesMarkup(t *testing.T) {
	markup := `<div class="card"><a href="javascript:alert(1)" onclick="x()">lien</a><input name="n" value="&lt;b&gt;gras&lt;/b&gt;"></div>`

	out, err := Preview(parseCard(t, markup, "card"), DefaultOptions())
	require.NoError(t, err)

	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<b>")
	assert.True(t, strings.Contains(out, "replaced-field"))
}

func TestRenderHTML_EmptyTree(t *testing.T) {
	out, err := RenderHTML(&Tree{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
