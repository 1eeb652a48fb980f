package form

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// DefaultRootClass is the class of the form card exported by default
const DefaultRootClass = "visite-card"

// ParseOptions selects which part of a document becomes the tree root
type ParseOptions struct {
	// RootID selects the element with this id; takes precedence over RootClass
	RootID string
	// RootClass selects the first element carrying this class
	RootClass string
}

// skippedTags never contribute to the tree
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// triggerInputTypes are inputs without data semantics
var triggerInputTypes = map[string]bool{
	"button": true,
	"submit": true,
	"reset":  true,
	"image":  true,
	"file":   true,
}

// ParseHTML builds a form tree from markup
func ParseHTML(r io.Reader, opts ParseOptions) (*Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form markup: %w", err)
	}

	root := selectRoot(doc, opts)
	if root == nil {
		return nil, fmt.Errorf("form root not found (id=%q class=%q)", opts.RootID, opts.RootClass)
	}

	node := convert(root)
	if node == nil {
		return nil, fmt.Errorf("form root %q is not convertible", root.Data)
	}
	return NewTree(node), nil
}

// ParseHTMLString is ParseHTML over a string
func ParseHTMLString(markup string, opts ParseOptions) (*Tree, error) {
	return ParseHTML(strings.NewReader(markup), opts)
}

func selectRoot(doc *html.Node, opts ParseOptions) *html.Node {
	if opts.RootID != "" {
		if n := findElement(doc, func(n *html.Node) bool { return attr(n, "id") == opts.RootID }); n != nil {
			return n
		}
		return nil
	}
	if opts.RootClass != "" {
		if n := findElement(doc, func(n *html.Node) bool { return hasClass(n, opts.RootClass) }); n != nil {
			return n
		}
	}
	return findElement(doc, func(n *html.Node) bool { return n.Data == "body" })
}

func findElement(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// convert maps one markup node (and its subtree) to a tree node; nil drops it
func convert(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return &Node{Kind: KindText, Text: n.Data}
	case html.ElementNode:
	default:
		return nil
	}

	tag := strings.ToLower(n.Data)
	if skippedTags[tag] {
		return nil
	}

	node := &Node{
		Tag:     tag,
		ID:      attr(n, "id"),
		Classes: strings.Fields(attr(n, "class")),
		Attrs:   map[string]string{},
	}
	for _, a := range n.Attr {
		if a.Key == "id" || a.Key == "class" {
			continue
		}
		node.Attrs[a.Key] = a.Val
	}

	switch tag {
	case "input":
		typ := strings.ToLower(attr(n, "type"))
		switch {
		case typ == "hidden":
			return nil
		case triggerInputTypes[typ]:
			node.Kind = KindTrigger
			return node
		}
		node.Kind = KindControl
		node.Control = &Control{
			Kind:        TextField,
			Name:        attr(n, "name"),
			Value:       attr(n, "value"),
			Placeholder: attr(n, "placeholder"),
			Group:       attr(n, "data-group"),
		}
		switch typ {
		case "checkbox":
			node.Control.Kind = Checkbox
			node.Control.Checked = hasAttr(n, "checked")
			if !hasAttr(n, "value") {
				// browsers report "on" for a checkbox without value
				node.Control.Value = "on"
			}
		case "radio":
			node.Control.Kind = Radio
			node.Control.Checked = hasAttr(n, "checked")
			if !hasAttr(n, "value") {
				node.Control.Value = "on"
			}
		}
		return node
	case "textarea":
		node.Kind = KindControl
		node.Control = &Control{
			Kind:        MultiLine,
			Name:        attr(n, "name"),
			Value:       rawText(n),
			Placeholder: attr(n, "placeholder"),
		}
		return node
	case "select":
		node.Kind = KindControl
		node.Control = &Control{
			Kind:        Select,
			Name:        attr(n, "name"),
			Placeholder: attr(n, "placeholder"),
		}
		collectOptions(n, node.Control)
		return node
	case "button":
		node.Kind = KindTrigger
		return node
	case "img":
		node.Kind = KindImage
		node.Image = &Image{Src: attr(n, "src"), Alt: attr(n, "alt")}
		return node
	}

	node.Kind = KindContainer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			node.AppendChild(child)
		}
	}
	return node
}

func rawText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// collectOptions fills the select's options and current value. Like a browser,
// the first option is the value when none is marked selected.
func collectOptions(n *html.Node, ctrl *Control) {
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == "option" {
			label := strings.TrimSpace(rawText(c))
			value := label
			if hasAttr(c, "value") {
				value = attr(c, "value")
			}
			ctrl.Options = append(ctrl.Options, Option{
				Value:    value,
				Label:    label,
				Selected: hasAttr(c, "selected"),
			})
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)

	for _, o := range ctrl.Options {
		if o.Selected {
			ctrl.Value = o.Value
			return
		}
	}
	if len(ctrl.Options) > 0 {
		ctrl.Value = ctrl.Options[0].Value
	}
}
