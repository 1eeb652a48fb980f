package form

import (
	"strings"
)

// NodeKind identifies what a node in the form tree represents
type NodeKind int

const (
	// KindContainer holds ordered children (div, label, section, ...)
	KindContainer NodeKind = iota
	// KindText is character data
	KindText
	// KindControl is an interactive input control
	KindControl
	// KindResolved is the static replacement of one or more controls
	KindResolved
	// KindImage is an embedded picture
	KindImage
	// KindTrigger is an interactive element without data (buttons)
	KindTrigger
)

// String returns a string representation of the NodeKind
func (k NodeKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindText:
		return "text"
	case KindControl:
		return "control"
	case KindResolved:
		return "resolved"
	case KindImage:
		return "image"
	case KindTrigger:
		return "trigger"
	default:
		return "unknown"
	}
}

// ControlKind is the closed set of interactive controls the flattener knows
type ControlKind int

const (
	TextField ControlKind = iota
	MultiLine
	Select
	Checkbox
	Radio
)

// String returns a string representation of the ControlKind
func (k ControlKind) String() string {
	switch k {
	case TextField:
		return "text"
	case MultiLine:
		return "multi-line"
	case Select:
		return "select"
	case Checkbox:
		return "checkbox"
	case Radio:
		return "radio"
	default:
		return "unknown"
	}
}

// Control is the state of an interactive input
type Control struct {
	Kind        ControlKind `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Value       string      `json:"value,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Checked     bool        `json:"checked,omitempty"`
	// Group is an explicit group identity declared with data-group.
	Group string `json:"group,omitempty"`
	// Options lists the option values of a select, in document order.
	Options []Option `json:"options,omitempty"`
}

// Option is one entry of a select control
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// ResolvedField is the static text standing in for a control or a group
type ResolvedField struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
	Multi  bool     `json:"multi,omitempty"`
}

// Strings returns the field content as an ordered list of lines
func (f *ResolvedField) Strings() []string {
	if f == nil {
		return nil
	}
	if f.Multi {
		return f.Values
	}
	if f.Value == "" {
		return nil
	}
	return []string{f.Value}
}

// Image is an embedded picture reference
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Node is one element of the form tree
type Node struct {
	Kind    NodeKind
	Tag     string
	ID      string
	Classes []string
	Attrs   map[string]string
	Text    string

	Control *Control
	Field   *ResolvedField
	Image   *Image

	Parent   *Node
	Children []*Node
}

// Tree is a snapshot of a form-bearing UI subtree
type Tree struct {
	Root *Node
}

// NewTree wraps a root node, fixing parent links
func NewTree(root *Node) *Tree {
	if root != nil {
		root.Parent = nil
		relink(root)
	}
	return &Tree{Root: root}
}

func relink(n *Node) {
	for _, c := range n.Children {
		c.Parent = n
		relink(c)
	}
}

// HasClass reports whether the node carries the given class
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Attr returns an attribute value, empty when absent
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// IsLabel reports whether the node is a label element
func (n *Node) IsLabel() bool {
	return n.Kind == KindContainer && n.Tag == "label"
}

// AppendChild adds a child at the end
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// index returns the position of the node among its siblings, -1 when detached
func (n *Node) index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Remove detaches the node from its parent
func (n *Node) Remove() {
	i := n.index()
	if i < 0 {
		return
	}
	p := n.Parent
	p.Children = append(p.Children[:i], p.Children[i+1:]...)
	n.Parent = nil
}

// ReplaceWith puts repl at the node's position and detaches the node
func (n *Node) ReplaceWith(repl *Node) bool {
	i := n.index()
	if i < 0 {
		return false
	}
	p := n.Parent
	if repl.Parent != nil {
		repl.Remove()
	}
	p.Children[i] = repl
	repl.Parent = p
	n.Parent = nil
	return true
}

// Attached reports whether the node is still reachable from root
func (n *Node) Attached(root *Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// Closest returns the nearest node (self included) matching pred
func (n *Node) Closest(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// NextElementSibling returns the next non-text sibling
func (n *Node) NextElementSibling() *Node {
	i := n.index()
	if i < 0 {
		return nil
	}
	for _, s := range n.Parent.Children[i+1:] {
		if s.Kind != KindText {
			return s
		}
	}
	return nil
}

// Walk visits the subtree in document order; returning false skips children
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	// copy so fn may detach the current child
	children := append([]*Node(nil), n.Children...)
	for _, c := range children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (self included) matching pred
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// TextContent concatenates the character data below the node
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		switch c.Kind {
		case KindText:
			sb.WriteString(c.Text)
		case KindResolved:
			sb.WriteString(strings.Join(c.Field.Strings(), " "))
		}
		return true
	})
	return sb.String()
}

// Clone returns a deep structural copy of the tree
func (t *Tree) Clone() *Tree {
	if t == nil || t.Root == nil {
		return &Tree{}
	}
	return &Tree{Root: cloneNode(t.Root, nil)}
}

func cloneNode(n *Node, parent *Node) *Node {
	c := &Node{
		Kind:   n.Kind,
		Tag:    n.Tag,
		ID:     n.ID,
		Text:   n.Text,
		Parent: parent,
	}
	if n.Classes != nil {
		c.Classes = append([]string(nil), n.Classes...)
	}
	if n.Attrs != nil {
		c.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			c.Attrs[k] = v
		}
	}
	if n.Control != nil {
		ctrl := *n.Control
		ctrl.Options = append([]Option(nil), n.Control.Options...)
		c.Control = &ctrl
	}
	if n.Field != nil {
		f := *n.Field
		f.Values = append([]string(nil), n.Field.Values...)
		c.Field = &f
	}
	if n.Image != nil {
		img := *n.Image
		c.Image = &img
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			c.Children = append(c.Children, cloneNode(child, c))
		}
	}
	return c
}

// Controls returns every control node in document order
func (t *Tree) Controls() []*Node {
	var out []*Node
	if t == nil || t.Root == nil {
		return out
	}
	t.Root.Walk(func(n *Node) bool {
		if n.Kind == KindControl {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Images returns every image node in document order
func (t *Tree) Images() []*Node {
	var out []*Node
	if t == nil || t.Root == nil {
		return out
	}
	t.Root.Walk(func(n *Node) bool {
		if n.Kind == KindImage {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FieldValue returns the current value of the first control with that name.
// Flattened trees have no controls, so read names before flattening.
func (t *Tree) FieldValue(name string) string {
	for _, n := range t.Controls() {
		if n.Control.Name != name {
			continue
		}
		switch n.Control.Kind {
		case Checkbox, Radio:
			if n.Control.Checked {
				return n.Control.Value
			}
		default:
			return n.Control.Value
		}
	}
	return ""
}
