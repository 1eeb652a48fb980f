package form

import (
	"net/url"
)

// WithValues returns a copy of the tree whose controls carry the submitted
// values. Controls whose name is absent from values keep their state, except
// checkboxes and radios of a submitted name, which are re-checked from scratch.
func (t *Tree) WithValues(values url.Values) *Tree {
	out := t.Clone()
	if len(values) == 0 {
		return out
	}

	for _, n := range out.Controls() {
		ctrl := n.Control
		submitted, ok := values[ctrl.Name]
		if ctrl.Name == "" || !ok {
			continue
		}

		switch ctrl.Kind {
		case Checkbox, Radio:
			ctrl.Checked = contains(submitted, ctrl.Value)
		case Select:
			if len(submitted) > 0 {
				ctrl.Value = submitted[0]
				for i := range ctrl.Options {
					ctrl.Options[i].Selected = ctrl.Options[i].Value == ctrl.Value
				}
			}
		case TextField, MultiLine:
			if len(submitted) > 0 {
				ctrl.Value = submitted[0]
			}
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
