package psy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referencePage = `<html><body>
<table class="table psy-table">
  <thead><tr><th>Pathologie</th><th>Type</th><th>Symptômes</th><th>Traitement</th></tr></thead>
  <tbody>
    <tr><td> Dépression </td><td>Humeur</td><td><ul><li>Tristesse</li><li>Fatigue</li></ul></td><td> Antidépresseurs </td></tr>
    <tr><td></td><td>Anxiété</td><td>Palpitations <b>fortes</b></td></tr>
  </tbody>
</table>
</body></html>`

func TestParseTable(t *testing.T) {
	c, err := ParseTable(strings.NewReader(referencePage))
	require.NoError(t, err)

	want := Catalog{
		{Name: "Dépression", Symptoms: "<ul><li>Tristesse</li><li>Fatigue</li></ul>", Treatment: "Antidépresseurs"},
		{Name: "Ligne 2", Symptoms: "Palpitations <b>fortes</b>"},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("ParseTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTable_NoTable(t *testing.T) {
	_, err := ParseTable(strings.NewReader(`<table class="other"></table>`))
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestLoadYAML(t *testing.T) {
	src := `
- name: " Schizophrénie "
  symptoms: "<p>Hallucinations</p>"
  treatment: Antipsychotiques
- symptoms: "Insomnie"
`
	c, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, "Schizophrénie", c[0].Name)
	assert.Equal(t, "Ligne 2", c[1].Name)
	assert.Equal(t, []string{"Schizophrénie", "Ligne 2"}, c.Names())
}

func TestLoadYAML_Empty(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestLoadYAML_Invalid(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("name: [unterminated"))
	assert.Error(t, err)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Catalog{{Name: "Dépression"}}

	d, ok := c.Lookup(" dépression ")
	assert.True(t, ok)
	assert.Equal(t, "Dépression", d.Name)

	_, ok = c.Lookup("Autre")
	assert.False(t, ok)
}
