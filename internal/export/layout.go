package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/mcp-form-export/internal/form"
)

// A4 portrait in points
const (
	pageWidthPt  = 595.28
	pageHeightPt = 841.89
	ptPerMM      = 72 / 25.4
	// average Helvetica advance as a share of the font size
	helveticaAdvance = 0.5
)

type lineStyle struct {
	font    string
	size    int
	leading float64
	indent  float64
	before  float64
}

var layoutStyles = map[form.BlockKind]lineStyle{
	form.BlockHeading:  {font: "Helvetica-Bold", size: 14, leading: 20, before: 8},
	form.BlockText:     {font: "Helvetica", size: 11, leading: 15, before: 2},
	form.BlockField:    {font: "Helvetica-Oblique", size: 12, leading: 16, indent: 12},
	form.BlockListItem: {font: "Helvetica-Oblique", size: 12, leading: 16, indent: 12},
}

type layoutDoc struct {
	Paper  string                `json:"paper"`
	Origin string                `json:"origin"`
	Pages  map[string]layoutPage `json:"pages"`
}

type layoutPage struct {
	Content layoutContent `json:"content"`
}

type layoutContent struct {
	Text []layoutText `json:"text"`
}

type layoutText struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  layoutFont `json:"font"`
}

type layoutFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
	Col  string `json:"col,omitempty"`
}

// LayoutRenderer typesets the flattened blocks as PDF text with pdfcpu.
// It keeps a real text layer but cannot place embedded images.
type LayoutRenderer struct{}

// NewLayoutRenderer creates the text layout strategy
func NewLayoutRenderer() *LayoutRenderer {
	return &LayoutRenderer{}
}

// Name implements Strategy
func (r *LayoutRenderer) Name() string { return "layout" }

// Render implements Strategy
func (r *LayoutRenderer) Render(ctx context.Context, job *Job) ([]byte, error) {
	for _, b := range job.Blocks {
		if b.Kind == form.BlockImage {
			return nil, fmt.Errorf("%w: form contains images", ErrUnavailable)
		}
	}

	doc := r.compose(job)
	if len(doc.Pages) == 0 {
		return nil, ErrEmptySurface
	}

	description, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode page description: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(description), &out, pdfConfiguration()); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return out.Bytes(), nil
}

// compose paginates the blocks into a pdfcpu page description
func (r *LayoutRenderer) compose(job *Job) layoutDoc {
	margin := job.Margin * ptPerMM
	width := pageWidthPt - 2*margin
	bottom := pageHeightPt - margin

	doc := layoutDoc{Paper: "A4P", Origin: "UpperLeft", Pages: map[string]layoutPage{}}
	var current []layoutText
	y := margin

	flush := func() {
		if len(current) > 0 {
			doc.Pages[strconv.Itoa(len(doc.Pages)+1)] = layoutPage{Content: layoutContent{Text: current}}
		}
		current = nil
		y = margin
	}

	for _, b := range job.Blocks {
		style, ok := layoutStyles[b.Kind]
		if !ok {
			continue
		}
		col := hexColor(job.Theme.Text)
		switch b.Kind {
		case form.BlockHeading:
			col = hexColor(job.Theme.Heading)
		case form.BlockField, form.BlockListItem:
			col = hexColor(job.Theme.Field)
		}

		text := b.Text
		if b.Kind == form.BlockListItem {
			text = "• " + text
		}
		maxChars := int((width - style.indent) / (float64(style.size) * helveticaAdvance))

		y += style.before
		for _, line := range wrapText(text, maxChars) {
			if y+style.leading > bottom {
				flush()
			}
			y += style.leading
			if line == "" {
				continue
			}
			current = append(current, layoutText{
				Value: line,
				Pos:   [2]float64{margin + style.indent, y},
				Font:  layoutFont{Name: style.font, Size: style.size, Col: col},
			})
		}
	}
	flush()
	return doc
}

// wrapText splits text on newlines, then greedily on words so that no line
// exceeds maxChars runes. Words longer than a line are cut.
func wrapText(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var line strings.Builder
		n := 0
		for _, w := range words {
			for utf8.RuneCountInString(w) > maxChars {
				if n > 0 {
					lines = append(lines, line.String())
					line.Reset()
					n = 0
				}
				runes := []rune(w)
				lines = append(lines, string(runes[:maxChars]))
				w = string(runes[maxChars:])
			}
			wl := utf8.RuneCountInString(w)
			if n > 0 && n+1+wl > maxChars {
				lines = append(lines, line.String())
				line.Reset()
				n = 0
			}
			if n > 0 {
				line.WriteByte(' ')
				n++
			}
			line.WriteString(w)
			n += wl
		}
		if n > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}

// pdfConfiguration is shared by the pdfcpu based strategies. Classic xref
// tables keep the output readable by the inspection reader.
func pdfConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}
