package psy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// EmptySelection is shown when nothing is selected
const EmptySelection = "Aucune pathologie sélectionnée."

// UnknownError reports selected names missing from the catalog
type UnknownError struct {
	Names []string
}

func (e *UnknownError) Error() string {
	return "unknown disorder: " + strings.Join(e.Names, ", ")
}

// Summary is the generated summary. Text is the clipboard payload.
type Summary struct {
	Count int    `json:"count"`
	HTML  string `json:"html"`
	Text  string `json:"text"`
}

var symptomPolicy = bluemonday.UGCPolicy()

var summaryTemplate = pongo2.Must(pongo2.FromString(`<p><strong>Résumé généré — {{ count }} élément(s)</strong></p>
<div style="display:flex;flex-direction:column;gap:0.6rem">
{% for d in items %}<div class="psy-summary-item">
<h5 style="margin:0 0 6px 0">{{ d.Name }}</h5>
{% if d.Symptoms %}<div><strong>Symptômes:</strong><div style="margin-top:4px">{{ d.Symptoms|safe }}</div></div>
{% endif %}{% if d.Treatment %}<div style="margin-top:6px"><strong>Traitement recommandé:</strong> {{ d.Treatment }}</div>
{% endif %}</div>
{% endfor %}</div>`))

// Summarize builds the summary of the selected disorders, in selection
// order. Duplicate names are kept once.
func Summarize(c Catalog, selected []string) (Summary, error) {
	var (
		items   []Disorder
		unknown []string
		seen    = map[string]bool{}
	)
	for _, name := range selected {
		d, ok := c.Lookup(name)
		if !ok {
			unknown = append(unknown, strings.TrimSpace(name))
			continue
		}
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		d.Symptoms = symptomPolicy.Sanitize(d.Symptoms)
		items = append(items, d)
	}
	if len(unknown) > 0 {
		return Summary{}, &UnknownError{Names: unknown}
	}

	if len(items) == 0 {
		return Summary{
			HTML: "<em>" + EmptySelection + "</em>",
			Text: EmptySelection,
		}, nil
	}

	out, err := summaryTemplate.Execute(pongo2.Context{"count": len(items), "items": items})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to render summary: %w", err)
	}
	return Summary{Count: len(items), HTML: out, Text: plainSummary(items)}, nil
}

func plainSummary(items []Disorder) string {
	var b strings.Builder
	b.WriteString("Résumé généré — " + strconv.Itoa(len(items)) + " élément(s)\n")
	for _, d := range items {
		b.WriteString("\n" + d.Name + "\n")
		if d.Symptoms != "" {
			b.WriteString("Symptômes:\n" + PlainText(d.Symptoms) + "\n")
		}
		if d.Treatment != "" {
			b.WriteString("Traitement recommandé: " + d.Treatment + "\n")
		}
	}
	return b.String()
}

var breakTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "tr": true,
}

// PlainText reads markup the way it is shown, one line per block
func PlainText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var lines []string
	var line strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(line.String()), " "); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}
	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return strings.Join(lines, "\n")
		case html.TextToken:
			line.WriteString(" ")
			line.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if breakTags[string(name)] {
				flush()
			}
		}
	}
}
