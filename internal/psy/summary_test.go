package psy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalog = Catalog{
	{Name: "Dépression", Symptoms: `<ul><li>Tristesse</li><li onclick="x()">Fatigue</li></ul><script>alert(1)</script>`, Treatment: "Antidépresseurs"},
	{Name: "Anxiété", Treatment: "Thérapie <cognitive>"},
}

func TestSummarize_EmptySelection(t *testing.T) {
	s, err := Summarize(catalog, nil)
	require.NoError(t, err)

	assert.Zero(t, s.Count)
	assert.Equal(t, "<em>Aucune pathologie sélectionnée.</em>", s.HTML)
	assert.Equal(t, EmptySelection, s.Text)
}

func TestSummarize_Selection(t *testing.T) {
	s, err := Summarize(catalog, []string{"Anxiété", "Dépression", "anxiété"})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Count)
	assert.Contains(t, s.HTML, "Résumé généré — 2 élément(s)")
	assert.Contains(t, s.HTML, "<li>Tristesse</li>")
	assert.NotContains(t, s.HTML, "onclick")
	assert.NotContains(t, s.HTML, "<script>")
	assert.Contains(t, s.HTML, "Thérapie &lt;cognitive&gt;")
	assert.Less(t, strings.Index(s.HTML, "Anxiété"), strings.Index(s.HTML, "Dépression"))

	want := "Résumé généré — 2 élément(s)\n" +
		"\nAnxiété\nTraitement recommandé: Thérapie <cognitive>\n" +
		"\nDépression\nSymptômes:\nTristesse\nFatigue\nTraitement recommandé: Antidépresseurs\n"
	assert.Equal(t, want, s.Text)
}

func TestSummarize_Unknown(t *testing.T) {
	_, err := Summarize(catalog, []string{"Dépression", "Inconnue"})

	var unknown *UnknownError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"Inconnue"}, unknown.Names)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a b\nc\nd &", PlainText("a <b>b</b><br>c<p>d &amp;</p>"))
	assert.Equal(t, "", PlainText(""))
}
