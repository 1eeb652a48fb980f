package store

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-form-export/internal/med"
)

func TestStore_PutGet(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/data")

	require.NoError(t, s.Put("k", map[string]int{"a": 1}))

	var got map[string]int
	require.NoError(t, s.Get("k", &got))
	assert.Equal(t, map[string]int{"a": 1}, got)

	exists, err := afero.Exists(fs, "/data/k.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_Missing(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/data")

	var v any
	assert.ErrorIs(t, s.Get("absent", &v), ErrNotFound)
	assert.NoError(t, s.Delete("absent"))
}

func TestStore_InvalidKey(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/data")

	assert.Error(t, s.Put("../evil", 1))
	var v any
	assert.Error(t, s.Get("", &v))
}

func TestStore_Corrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/k.json", []byte("{"), 0o644))

	var v any
	err := New(fs, "/data").Get("k", &v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLastSummary(t *testing.T) {
	fs := afero.NewMemMapFs()
	last := NewLastSummary(New(fs, "/data"))

	_, err := last.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	meta := med.Meta{SuspectName: "Jean", Facts: []string{"Vol"}, UniqueID: "ID-1"}
	require.NoError(t, last.Save(meta))

	got, err := last.Load()
	require.NoError(t, err)
	assert.Equal(t, meta, got)

	data, err := afero.ReadFile(fs, "/data/sapd_last_med.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"suspectName": "Jean"`)
}
