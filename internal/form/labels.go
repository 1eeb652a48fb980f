package form

import "strings"

// ResolveLabel returns the display label of a control. The lookup order is:
// a label bound by id (inside scope first, then anywhere under root), the next
// sibling label, the first label of the enclosing item wrapper, the raw value.
// It never fails; when nothing is found the result is the empty string.
func ResolveLabel(root, scope, n *Node, itemClass string) string {
	if n == nil || n.Control == nil {
		return ""
	}
	for _, lbl := range []*Node{
		boundLabel(root, scope, n),
		siblingLabel(n),
		itemLabel(n, itemClass),
	} {
		if lbl == nil {
			continue
		}
		if text := strings.TrimSpace(lbl.TextContent()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(n.Control.Value)
}

// boundLabel finds label[for=id]
func boundLabel(root, scope, n *Node) *Node {
	id := n.ID
	if id == "" {
		return nil
	}
	match := func(c *Node) bool { return c.IsLabel() && c.Attr("for") == id }
	if scope != nil {
		if lbl := scope.Find(match); lbl != nil {
			return lbl
		}
	}
	if root != nil && root != scope {
		return root.Find(match)
	}
	return nil
}

func siblingLabel(n *Node) *Node {
	if next := n.NextElementSibling(); next != nil && next.IsLabel() {
		return next
	}
	return nil
}

func itemLabel(n *Node, itemClass string) *Node {
	if itemClass == "" || n.Parent == nil {
		return nil
	}
	item := n.Parent.Closest(func(c *Node) bool { return c.HasClass(itemClass) })
	if item == nil {
		return nil
	}
	return item.Find(func(c *Node) bool { return c.IsLabel() })
}

// boundLabels returns the labels tied to a control by id or by adjacency
func boundLabels(root, n *Node) []*Node {
	var out []*Node
	if lbl := boundLabel(root, nil, n); lbl != nil {
		out = append(out, lbl)
	}
	if lbl := siblingLabel(n); lbl != nil && (len(out) == 0 || out[0] != lbl) {
		out = append(out, lbl)
	}
	return out
}
