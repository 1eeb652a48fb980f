package form

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTML_RootSelection(t *testing.T) {
	markup := `<html><body><p>outside</p><div id="f" class="visite-card"><input name="x" value="1"></div></body></html>`

	tests := []struct {
		name    string
		opts    ParseOptions
		wantTag string
		wantErr bool
	}{
		{name: "by class", opts: ParseOptions{RootClass: "visite-card"}, wantTag: "div"},
		{name: "by id", opts: ParseOptions{RootID: "f"}, wantTag: "div"},
		{name: "body fallback", opts: ParseOptions{RootClass: "missing"}, wantTag: "body"},
		{name: "unknown id", opts: ParseOptions{RootID: "nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ParseHTML(strings.NewReader(markup), tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, tree.Root.Tag)
		})
	}
}

func TestParseHTML_ControlMapping(t *testing.T) {
	markup := `<div class="card">
		<input type="hidden" name="secret" value="s">
		<input type="email" name="mail" value="a@b.c" placeholder="mail">
		<input type="checkbox" name="c">
		<input type="radio" name="r" value="x" checked>
		<input type="file" name="photo">
		<select name="s"><option>Premier</option><option value="2">Deux</option></select>
		<textarea name="t" placeholder="notes"></textarea>
		<img src="data:image/png;base64,AAAA" alt="photo">
		<script>alert(1)</script>
	</div>`

	tree := parseCard(t, markup, "card")
	controls := tree.Controls()
	require.Len(t, controls, 5)

	assert.Equal(t, TextField, controls[0].Control.Kind)
	assert.Equal(t, "a@b.c", controls[0].Control.Value)
	assert.Equal(t, "mail", controls[0].Control.Placeholder)

	assert.Equal(t, Checkbox, controls[1].Control.Kind)
	assert.Equal(t, "on", controls[1].Control.Value)
	assert.False(t, controls[1].Control.Checked)

	assert.Equal(t, Radio, controls[2].Control.Kind)
	assert.True(t, controls[2].Control.Checked)

	assert.Equal(t, Select, controls[3].Control.Kind)
	assert.Equal(t, "Premier", controls[3].Control.Value, "first option is the default value")
	assert.Len(t, controls[3].Control.Options, 2)

	assert.Equal(t, MultiLine, controls[4].Control.Kind)
	assert.Equal(t, "notes", controls[4].Control.Placeholder)

	assert.Equal(t, 1, countKind(tree, KindTrigger))
	require.Len(t, tree.Images(), 1)
	assert.Equal(t, "photo", tree.Images()[0].Image.Alt)
}

func TestTree_FieldValue(t *testing.T) {
	markup := `<div class="card">
		<input name="nom" value="Jean Dupont">
		<input type="radio" name="sexe" value="h">
		<input type="radio" name="sexe" value="f" checked>
	</div>`
	tree := parseCard(t, markup, "card")

	assert.Equal(t, "Jean Dupont", tree.FieldValue("nom"))
	assert.Equal(t, "f", tree.FieldValue("sexe"))
	assert.Equal(t, "", tree.FieldValue("absent"))
}

func TestTree_WithValues(t *testing.T) {
	markup := `<div class="card">
		<input name="nom" value="">
		<input type="radio" name="sexe" value="h" checked>
		<input type="radio" name="sexe" value="f">
		<select name="g"><option value="A">A</option><option value="B">B</option></select>
	</div>`
	tree := parseCard(t, markup, "card")

	filled := tree.WithValues(url.Values{
		"nom":  {"Marie"},
		"sexe": {"f"},
		"g":    {"B"},
	})

	assert.Equal(t, "Marie", filled.FieldValue("nom"))
	assert.Equal(t, "f", filled.FieldValue("sexe"))
	assert.Equal(t, "B", filled.FieldValue("g"))

	// the source keeps its state
	assert.Equal(t, "", tree.FieldValue("nom"))
	assert.Equal(t, "h", tree.FieldValue("sexe"))
}

func TestTree_CloneIsDeep(t *testing.T) {
	tree := parseCard(t, `<div class="card"><input name="a" value="1"></div>`, "card")

	clone := tree.Clone()
	clone.Controls()[0].Control.Value = "2"
	clone.Root.Classes[0] = "changed"

	assert.Equal(t, "1", tree.FieldValue("a"))
	assert.True(t, tree.Root.HasClass("card"))
	assert.Same(t, clone.Root, clone.Controls()[0].Parent)
}
