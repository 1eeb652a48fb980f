package med

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewHTML(t *testing.T) {
	res := Build(Input{
		Name:      "Jean <script>",
		Mail:      "jean@exemple.fr",
		Facts:     []string{"Vol"},
		MEDLink:   "https://med.exemple/1",
		Matricule: "42",
		Poste:     "Nord",
	}, buildTime)

	out, err := PreviewHTML(res, buildTime)
	require.NoError(t, err)

	assert.Contains(t, out, "M.E.D — Prévisualisation")
	assert.Contains(t, out, "07/03/2024 à 09:05")
	assert.Contains(t, out, "Jean &lt;script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<li>Vol</li>")
	assert.Contains(t, out, `<a href="https://med.exemple/1"`)
	assert.Contains(t, out, "ID: 42 · Poste: Nord")
	assert.Contains(t, out, "Biens personnels")
}

func TestPreviewHTML_NoFactsNoLink(t *testing.T) {
	out, err := PreviewHTML(Build(Input{}, buildTime), buildTime)
	require.NoError(t, err)

	assert.NotContains(t, out, "<ul>")
	assert.NotContains(t, out, "<a href")
}
