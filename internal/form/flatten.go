package form

import (
	"fmt"
)

// ReplacedFieldClass marks the nodes produced by Flatten
const ReplacedFieldClass = "replaced-field"

// Options tunes how controls are resolved
type Options struct {
	// Yes and No are the literals for standalone checkboxes
	Yes string
	No  string

	// CheckboxGroupClasses are tried in order to find a checkbox group container
	CheckboxGroupClasses []string
	// InlineClass wraps a single inline option; its parent holds the group
	InlineClass string
	// RowClass is the fallback group container of radios
	RowClass string
	// ItemClass wraps one option together with its label
	ItemClass string
}

// DefaultOptions returns the options matching the visit form markup
func DefaultOptions() Options {
	return Options{
		Yes:                  "Oui",
		No:                   "Non",
		CheckboxGroupClasses: []string{"vaccin-checkboxes", "form-check-inline", "form-row"},
		InlineClass:          "form-check-inline",
		RowClass:             "form-row",
		ItemClass:            "form-check",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Yes == "" {
		o.Yes = d.Yes
	}
	if o.No == "" {
		o.No = d.No
	}
	if o.CheckboxGroupClasses == nil {
		o.CheckboxGroupClasses = d.CheckboxGroupClasses
	}
	if o.InlineClass == "" {
		o.InlineClass = d.InlineClass
	}
	if o.RowClass == "" {
		o.RowClass = d.RowClass
	}
	if o.ItemClass == "" {
		o.ItemClass = d.ItemClass
	}
	return o
}

type flattener struct {
	root       *Node
	opts       Options
	processed  map[string]bool
	containers map[*Node]int
}

// Flatten returns a copy of the tree in which every control is replaced by its
// resolved text and every trigger is removed. The input tree is not modified.
func Flatten(t *Tree, opts Options) *Tree {
	out := t.Clone()
	if out.Root == nil {
		return out
	}

	f := &flattener{
		root:       out.Root,
		opts:       opts.withDefaults(),
		processed:  map[string]bool{},
		containers: map[*Node]int{},
	}

	// snapshot first: resolution rewrites the tree under our feet
	for _, n := range out.Controls() {
		if !n.Attached(f.root) {
			// dropped together with an already resolved group
			continue
		}
		f.resolve(n)
	}
	f.removeTriggers()

	return NewTree(f.root)
}

func (f *flattener) resolve(n *Node) {
	ctrl := n.Control
	switch ctrl.Kind {
	case TextField, MultiLine, Select:
		f.replace(n, resolvedNode(&ResolvedField{Value: plainValue(ctrl)}))
	case Checkbox:
		key, container := f.checkboxGroup(n)
		if key == "" {
			value := f.opts.No
			if ctrl.Checked {
				value = f.opts.Yes
			}
			f.replace(n, resolvedNode(&ResolvedField{Value: value}))
			return
		}
		f.resolveGroup(key, container, n)
	case Radio:
		if ctrl.Name == "" {
			if !ctrl.Checked {
				n.Remove()
				return
			}
			value := ctrl.Value
			if value == "" {
				value = f.opts.Yes
			}
			f.replace(n, resolvedNode(&ResolvedField{Value: value}))
			return
		}
		f.resolveGroup(radioKey(ctrl.Name), f.radioContainer(n), n)
	default:
		f.replace(n, resolvedNode(&ResolvedField{Value: plainValue(ctrl)}))
	}
}

func plainValue(ctrl *Control) string {
	if ctrl.Value != "" {
		return ctrl.Value
	}
	return ctrl.Placeholder
}

func resolvedNode(field *ResolvedField) *Node {
	return &Node{
		Kind:    KindResolved,
		Tag:     "div",
		Classes: []string{ReplacedFieldClass},
		Field:   field,
	}
}

func radioKey(name string) string {
	return "radio:" + name
}

// resolveGroup emits one field for the whole group on first encounter and
// drops members met afterwards
func (f *flattener) resolveGroup(key string, container, n *Node) {
	if f.processed[key] {
		f.dropMember(n, container, key)
		return
	}
	f.processed[key] = true

	members := f.members(key)
	field := &ResolvedField{}
	switch n.Control.Kind {
	case Checkbox:
		field.Multi = true
		field.Values = []string{}
		for _, m := range members {
			if !m.Control.Checked {
				continue
			}
			if label := ResolveLabel(f.root, container, m, f.opts.ItemClass); label != "" {
				field.Values = append(field.Values, label)
			}
		}
	case Radio:
		for _, m := range members {
			if m.Control.Checked {
				field.Value = ResolveLabel(f.root, container, m, f.opts.ItemClass)
				break
			}
		}
	}
	fieldNode := resolvedNode(field)

	if container != nil && container != f.root && container.Attached(f.root) && f.exclusive(container, key) {
		f.replace(container, fieldNode)
		return
	}

	// shared or missing container: the field takes the first member's place
	for i, m := range members {
		if i == 0 {
			unit := f.memberUnit(m, container, key)
			f.removeLabels(unit, m)
			f.replace(unit, fieldNode)
			continue
		}
		f.dropMember(m, container, key)
	}
}

// dropMember removes a member of an already resolved group together with
// its option wrapper or, lacking one, the labels bound to it
func (f *flattener) dropMember(m, container *Node, key string) {
	unit := f.memberUnit(m, container, key)
	f.removeLabels(unit, m)
	unit.Remove()
}

func (f *flattener) removeLabels(unit, m *Node) {
	if unit != m {
		return
	}
	for _, lbl := range boundLabels(f.root, m) {
		lbl.Remove()
	}
}

// members lists the attached controls of a group in document order
func (f *flattener) members(key string) []*Node {
	var out []*Node
	f.root.Walk(func(c *Node) bool {
		if c.Kind == KindControl && f.keyOf(c) == key {
			out = append(out, c)
		}
		return true
	})
	return out
}

// keyOf returns the group identity of a control, empty for ungrouped ones
func (f *flattener) keyOf(n *Node) string {
	switch n.Control.Kind {
	case Radio:
		if n.Control.Name == "" {
			return ""
		}
		return radioKey(n.Control.Name)
	case Checkbox:
		key, _ := f.checkboxGroup(n)
		return key
	default:
		return ""
	}
}

// exclusive reports whether every control below c belongs to the group
func (f *flattener) exclusive(c *Node, key string) bool {
	ok := true
	c.Walk(func(n *Node) bool {
		if !ok {
			return false
		}
		if n.Kind == KindControl && f.keyOf(n) != key {
			ok = false
		}
		return ok
	})
	return ok
}

// memberUnit returns the option wrapper of a member when it holds nothing
// else, or the member itself
func (f *flattener) memberUnit(m, container *Node, key string) *Node {
	if m.Parent == nil {
		return m
	}
	item := m.Parent.Closest(func(c *Node) bool {
		return c == container || c == f.root || c.HasClass(f.opts.ItemClass)
	})
	if item == nil || item == container || item == f.root {
		return m
	}
	controls := 0
	item.Walk(func(c *Node) bool {
		if c.Kind == KindControl {
			controls++
		}
		return true
	})
	if controls == 1 && f.exclusive(item, key) {
		return item
	}
	return m
}

func (f *flattener) checkboxGroup(n *Node) (string, *Node) {
	container := f.checkboxContainer(n)
	if n.Control.Group != "" {
		return "checkbox:" + n.Control.Group, container
	}
	if container == nil {
		return "", nil
	}
	id, ok := f.containers[container]
	if !ok {
		id = len(f.containers) + 1
		f.containers[container] = id
	}
	return fmt.Sprintf("container:%d", id), container
}

func (f *flattener) checkboxContainer(n *Node) *Node {
	if n.Parent == nil {
		return nil
	}
	for _, class := range f.opts.CheckboxGroupClasses {
		c := n.Parent.Closest(func(c *Node) bool { return c.HasClass(class) })
		if c == nil {
			continue
		}
		if class == f.opts.InlineClass && c.Parent != nil {
			return c.Parent
		}
		return c
	}
	return nil
}

func (f *flattener) radioContainer(n *Node) *Node {
	if n.Parent == nil {
		return nil
	}
	if inline := n.Parent.Closest(func(c *Node) bool { return c.HasClass(f.opts.InlineClass) }); inline != nil && inline.Parent != nil {
		return inline.Parent
	}
	if row := n.Parent.Closest(func(c *Node) bool { return c.HasClass(f.opts.RowClass) }); row != nil {
		return row
	}
	return n.Parent
}

func (f *flattener) replace(n, repl *Node) {
	if n == f.root {
		repl.Parent = nil
		f.root = repl
		return
	}
	n.ReplaceWith(repl)
}

func (f *flattener) removeTriggers() {
	if f.root.Kind == KindTrigger {
		f.root = &Node{Kind: KindContainer, Tag: "div"}
		return
	}
	var triggers []*Node
	f.root.Walk(func(n *Node) bool {
		if n.Kind == KindTrigger {
			triggers = append(triggers, n)
			return false
		}
		return true
	})
	for _, n := range triggers {
		n.Remove()
	}
}
