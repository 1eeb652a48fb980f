package form

import (
	"strings"
)

// BlockKind is the layout role of a block
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockText
	BlockField
	BlockListItem
	BlockImage
)

// Block is one line-level unit of a linearised tree
type Block struct {
	Kind  BlockKind
	Text  string
	Level int
	Image *Image
}

var blockTags = map[string]bool{
	"div": true, "p": true, "section": true, "article": true, "header": true,
	"footer": true, "form": true, "fieldset": true, "legend": true, "ul": true,
	"ol": true, "li": true, "table": true, "tr": true, "thead": true,
	"tbody": true, "br": true, "hr": true, "main": true, "aside": true,
	"body": true, "nav": true, "figure": true, "figcaption": true,
}

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

type blockWriter struct {
	blocks []Block
	line   strings.Builder
}

func (w *blockWriter) flush() {
	text := strings.Join(strings.Fields(w.line.String()), " ")
	w.line.Reset()
	if text != "" {
		w.blocks = append(w.blocks, Block{Kind: BlockText, Text: text})
	}
}

func (w *blockWriter) add(b Block) {
	w.flush()
	w.blocks = append(w.blocks, b)
}

// Blocks linearises a tree into headings, text lines, fields and images.
// Controls still present are read with their current value.
func Blocks(t *Tree) []Block {
	if t == nil || t.Root == nil {
		return nil
	}
	w := &blockWriter{}
	w.visit(t.Root)
	w.flush()
	return w.blocks
}

func (w *blockWriter) visit(n *Node) {
	switch n.Kind {
	case KindText:
		w.line.WriteString(" ")
		w.line.WriteString(n.Text)
		return
	case KindTrigger:
		return
	case KindImage:
		w.add(Block{Kind: BlockImage, Text: n.Image.Alt, Image: n.Image})
		return
	case KindResolved:
		w.flush()
		if n.Field.Multi {
			for _, v := range n.Field.Values {
				w.add(Block{Kind: BlockListItem, Text: v})
			}
			return
		}
		if n.Field.Value != "" {
			w.add(Block{Kind: BlockField, Text: n.Field.Value})
		}
		return
	case KindControl:
		if v := plainValue(n.Control); v != "" {
			w.add(Block{Kind: BlockField, Text: v})
		}
		return
	}

	if level, ok := headingLevels[n.Tag]; ok {
		text := strings.Join(strings.Fields(n.TextContent()), " ")
		if text != "" {
			w.add(Block{Kind: BlockHeading, Text: text, Level: level})
		}
		return
	}

	block := blockTags[n.Tag]
	if block {
		w.flush()
	}
	for _, c := range n.Children {
		w.visit(c)
	}
	if block {
		w.flush()
	}
}
