package med

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRightsNotice_UsesFacts(t *testing.T) {
	meta := Meta{SuspectName: "Jean Dupont", Facts: []string{"Vol", "Outrage"}}

	text := RightsNotice(meta, buildTime, "ignored")

	assert.True(t, strings.HasPrefix(text, "Monsieur | Madame : Jean Dupont, il est actuellement 09:05 et nous sommes le 07/03/2024.\n\n"))
	assert.Contains(t, text, "pour les faits suivants : Vol, Outrage. Vous avez le droit de garder le silence.")
	assert.Contains(t, text, "Avez-vous bien compris vos droits ?\nSouhaitez-vous")
	assert.True(t, strings.HasSuffix(text, "vous pouvez passer à la suite."))
}

func TestRightsNotice_FallbackFacts(t *testing.T) {
	text := RightsNotice(Meta{}, buildTime, "  Conduite dangereuse ")
	assert.Contains(t, text, "faits suivants : Conduite dangereuse.")
}

func TestNotice_HTMLEscapes(t *testing.T) {
	n := NewNotice(Meta{SuspectName: "<b>Jean</b>"}, buildTime, "a & b")

	out, err := n.HTML()
	require.NoError(t, err)

	assert.Contains(t, out, "&lt;b&gt;Jean&lt;/b&gt;")
	assert.Contains(t, out, "<em>a &amp; b</em>")
	assert.Contains(t, out, "Lecture des droits")
	assert.NotContains(t, out, "<b>Jean")
}
