package form

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

// RenderHTML serialises a tree back to markup. Controls are rendered with
// their current state, resolved fields as replaced-field blocks.
func RenderHTML(t *Tree) (string, error) {
	if t == nil || t.Root == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(t.Root)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Preview flattens the tree and returns sanitised markup of the copy
func Preview(t *Tree, opts Options) (string, error) {
	markup, err := RenderHTML(Flatten(t, opts))
	if err != nil {
		return "", err
	}
	return Sanitize(markup), nil
}

// Sanitize strips scripts, event handlers and embedded frames from markup,
// keeping classes, ids and data URI images
func Sanitize(markup string) string {
	return previewSanitizer().Sanitize(markup)
}

func previewSanitizer() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class", "id").Globally()
		policy.AllowDataURIImages()
		previewPolicy = policy
	})
	return previewPolicy
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// baseAttrs returns id, class and the sorted remaining attributes, minus skip
func baseAttrs(n *Node, skip ...string) []html.Attribute {
	var attrs []html.Attribute
	if n.ID != "" {
		attrs = append(attrs, html.Attribute{Key: "id", Val: n.ID})
	}
	if len(n.Classes) > 0 {
		attrs = append(attrs, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		if contains(skip, k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	return attrs
}

func toHTML(n *Node) *html.Node {
	switch n.Kind {
	case KindText:
		return textNode(n.Text)
	case KindResolved:
		return resolvedHTML(n)
	case KindImage:
		el := element("img", baseAttrs(n, "src", "alt")...)
		el.Attr = append(el.Attr, html.Attribute{Key: "src", Val: n.Image.Src})
		if n.Image.Alt != "" {
			el.Attr = append(el.Attr, html.Attribute{Key: "alt", Val: n.Image.Alt})
		}
		return el
	case KindControl:
		return controlHTML(n)
	}

	tag := n.Tag
	if tag == "" {
		tag = "div"
	}
	el := element(tag, baseAttrs(n)...)
	for _, c := range n.Children {
		el.AppendChild(toHTML(c))
	}
	return el
}

func resolvedHTML(n *Node) *html.Node {
	el := element("div", baseAttrs(n)...)
	if n.Field == nil {
		return el
	}
	if n.Field.Multi {
		if len(n.Field.Values) == 0 {
			return el
		}
		ul := element("ul")
		for _, v := range n.Field.Values {
			li := element("li")
			li.AppendChild(textNode(v))
			ul.AppendChild(li)
		}
		el.AppendChild(ul)
		return el
	}
	el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: "white-space: pre-wrap"})
	if n.Field.Value != "" {
		el.AppendChild(textNode(n.Field.Value))
	}
	return el
}

func controlHTML(n *Node) *html.Node {
	ctrl := n.Control
	switch ctrl.Kind {
	case MultiLine:
		el := element("textarea", baseAttrs(n)...)
		if ctrl.Value != "" {
			el.AppendChild(textNode(ctrl.Value))
		}
		return el
	case Select:
		el := element("select", baseAttrs(n)...)
		for _, o := range ctrl.Options {
			opt := element("option", html.Attribute{Key: "value", Val: o.Value})
			if o.Value == ctrl.Value {
				opt.Attr = append(opt.Attr, html.Attribute{Key: "selected", Val: ""})
			}
			opt.AppendChild(textNode(o.Label))
			el.AppendChild(opt)
		}
		return el
	}

	el := element("input", baseAttrs(n, "value", "checked")...)
	el.Attr = append(el.Attr, html.Attribute{Key: "value", Val: ctrl.Value})
	if (ctrl.Kind == Checkbox || ctrl.Kind == Radio) && ctrl.Checked {
		el.Attr = append(el.Attr, html.Attribute{Key: "checked", Val: ""})
	}
	return el
}
