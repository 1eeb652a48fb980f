package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-form-export/internal/clipboard"
	"github.com/a3tai/mcp-form-export/internal/med"
	"github.com/a3tai/mcp-form-export/internal/psy"
)

func TestBuildMED_StoresAndCopies(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.LastMED()
	assert.ErrorIs(t, err, ErrNoSummary)

	res, err := f.svc.BuildMED(MEDRequest{
		Input: med.Input{Name: "Jean Dupont", Facts: []string{"Vol"}, ProvidedID: "A-1"},
		Copy:  true,
	})
	require.NoError(t, err)

	assert.Contains(t, res.Text, ":calendar_spiral: Date: 05/01/2024 à 14:30")
	assert.Contains(t, res.Preview, "M.E.D — Prévisualisation")
	assert.True(t, res.Copy.Copied)
	assert.Equal(t, clipboard.MethodOSC52, res.Copy.Method)
	assert.Equal(t, clipboard.Copied, res.Copy.Badge)
	assert.Contains(t, f.terminal.String(), "\x1b]52;c;")

	last, err := f.svc.LastMED()
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", last.SuspectName)
	assert.Equal(t, "A-1", last.UniqueID)
}

func TestBuildMED_NoCopy(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.BuildMED(MEDRequest{Input: med.Input{Name: "Jean"}})
	require.NoError(t, err)
	assert.False(t, res.Copy.Attempted)
	assert.Zero(t, f.terminal.Len())
}

func TestRightsNotice(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.RightsNotice(MEDRequest{Input: med.Input{Name: "Jean", FactsText: "Outrage"}})
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Monsieur | Madame : Jean, il est actuellement 14:30 et nous sommes le 05/01/2024.")
	assert.Contains(t, res.Text, "faits suivants : Outrage.")
	assert.Contains(t, res.HTML, "Lecture des droits")
	assert.Contains(t, res.Summary.Text, ":book: Faits :\n- Outrage\n")

	last, err := f.svc.LastMED()
	require.NoError(t, err)
	assert.Equal(t, "Jean", last.SuspectName)
}

func TestPsySummary(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PsySummary([]string{"Dépression"}, false)
	assert.ErrorIs(t, err, ErrNoCatalog)

	path := filepath.Join(t.TempDir(), "psy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Dépression\n  symptoms: <p>Tristesse</p>\n  treatment: Suivi\n"), 0o644))
	f.cfg.CatalogPath = path

	res, err := f.svc.PsySummary([]string{"Dépression"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Contains(t, res.Text, "Tristesse")
	assert.True(t, res.Copy.Copied)
	assert.Equal(t, 1, f.svc.Info().CatalogEntries)

	empty, err := f.svc.PsySummary(nil, true)
	require.NoError(t, err)
	assert.Equal(t, psy.EmptySelection, empty.Text)
	assert.False(t, empty.Copy.Attempted)

	_, err = f.svc.PsySummary([]string{"Inconnue"}, false)
	var unknown *psy.UnknownError
	assert.ErrorAs(t, err, &unknown)
}

func TestPsySummary_HTMLCatalog(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "psy.html")
	page := `<table class="psy-table"><tbody><tr><td>Anxiété</td><td>x</td><td>Palpitations</td><td>Repos</td></tr></tbody></table>`
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))
	f.cfg.CatalogPath = path

	res, err := f.svc.PsySummary([]string{"Anxiété"}, false)
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "Traitement recommandé:</strong> Repos")
}
