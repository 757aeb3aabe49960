package graphview

import (
	"sort"
)

// SetVisibleTypes shows exactly the nodes whose type is in types and the
// edges whose endpoints are both shown. The filter is kept and reapplied
// after every rebuild.
func (v *View) SetVisibleTypes(types []string) {
	v.visibleTypes = make(map[string]struct{}, len(types))
	for _, t := range types {
		v.visibleTypes[t] = struct{}{}
	}
	v.applyVisibility()
}

// ShowAllTypes removes the type filter
func (v *View) ShowAllTypes() {
	v.visibleTypes = nil
	v.applyVisibility()
}

// VisibleTypes returns the active filter, sorted. ok is false when no
// filter is set and every type is shown.
func (v *View) VisibleTypes() (types []string, ok bool) {
	if v.visibleTypes == nil {
		return nil, false
	}
	types = make([]string, 0, len(v.visibleTypes))
	for t := range v.visibleTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, true
}

func (v *View) typeVisible(nodeType string) bool {
	if v.visibleTypes == nil {
		return true
	}
	_, ok := v.visibleTypes[nodeType]
	return ok
}

func (v *View) applyVisibility() {
	for _, n := range v.nodes {
		n.Visible = v.typeVisible(n.Data.Type)
	}
	for _, l := range v.edges {
		source, target, ok := v.Endpoints(l)
		l.Visible = ok && source.Visible && target.Visible
	}
}
