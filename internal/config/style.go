package config

import (
	"fmt"
)

// StyleProvider supplies node and link styling to the engine.
// Components receive one at construction instead of reading shared state.
type StyleProvider interface {
	// NodeStyle returns the style for a node type. ok is false when the type is
	// not configured, in which case FallbackStyle is returned.
	NodeStyle(nodeType string) (style NodeStyle, ok bool)
	LinkColors() LinkColors
	Highlight() HighlightConfig
}

// Style is the mutable StyleProvider backed by a template plus per-type overrides
type Style struct {
	template  string
	base      map[string]NodeStyle
	overrides map[string]NodeStyle
	links     LinkColors
	highlight HighlightConfig
}

// NewStyle builds a Style from the style section of the config
func NewStyle(cfg StyleConfig) (*Style, error) {
	name := cfg.Template
	if name == "" {
		name = DefaultTemplate
	}
	t, err := LookupTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("style template %q: %w", name, err)
	}
	s := &Style{
		template:  name,
		base:      t.NodeTypes,
		overrides: make(map[string]NodeStyle, len(cfg.NodeTypes)),
		links:     cfg.LinkColors,
		highlight: cfg.Highlight,
	}
	for k, v := range cfg.NodeTypes {
		s.overrides[k] = v
	}
	return s, nil
}

// Reset replaces the whole style with cfg. On error s is unchanged.
func (s *Style) Reset(cfg StyleConfig) error {
	ns, err := NewStyle(cfg)
	if err != nil {
		return err
	}
	for k, v := range ns.overrides {
		if v.Shape != "" && !v.Shape.Known() {
			return fmt.Errorf("node type %s: unknown shape %q", k, v.Shape)
		}
	}
	*s = *ns
	return nil
}

// NodeStyle implements StyleProvider
func (s *Style) NodeStyle(nodeType string) (NodeStyle, bool) {
	if st, ok := s.overrides[nodeType]; ok {
		return s.complete(st), true
	}
	if st, ok := s.base[nodeType]; ok {
		return s.complete(st), true
	}
	return FallbackStyle, false
}

// complete fills a partially specified override
func (s *Style) complete(st NodeStyle) NodeStyle {
	if st.Shape == "" {
		st.Shape = FallbackStyle.Shape
	}
	return st
}

// LinkColors implements StyleProvider
func (s *Style) LinkColors() LinkColors {
	return s.links
}

// Highlight implements StyleProvider
func (s *Style) Highlight() HighlightConfig {
	return s.highlight
}

// Template returns the active template name
func (s *Style) Template() string {
	return s.template
}

// ApplyTemplate replaces the base palette. Per-type overrides are dropped.
func (s *Style) ApplyTemplate(name string) error {
	t, err := LookupTemplate(name)
	if err != nil {
		return fmt.Errorf("style template %q: %w", name, err)
	}
	s.template = name
	s.base = t.NodeTypes
	s.overrides = make(map[string]NodeStyle)
	return nil
}

// SetNodeStyle overrides the style of one node type
func (s *Style) SetNodeStyle(nodeType string, st NodeStyle) error {
	if st.Shape != "" && !st.Shape.Known() {
		return fmt.Errorf("unknown shape %q", st.Shape)
	}
	s.overrides[nodeType] = st
	return nil
}

// SetLinkColors replaces the link color set
func (s *Style) SetLinkColors(lc LinkColors) {
	s.links = lc
}

// SetHighlightDepth sets the traversal depth; negative values clamp to zero
func (s *Style) SetHighlightDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	s.highlight.Depth = depth
}

// SetNonConnectedOpacity sets the dimmed opacity, clamped to [0,1]
func (s *Style) SetNonConnectedOpacity(o float32) {
	switch {
	case o < 0:
		o = 0
	case o > 1:
		o = 1
	}
	s.highlight.NonConnectedOpacity = o
}

// Snapshot returns the effective style as a StyleConfig
func (s *Style) Snapshot() StyleConfig {
	types := make(map[string]NodeStyle, len(s.base)+len(s.overrides))
	for k, v := range s.base {
		types[k] = v
	}
	for k, v := range s.overrides {
		types[k] = s.complete(v)
	}
	return StyleConfig{
		Template:   s.template,
		NodeTypes:  types,
		LinkColors: s.links,
		Highlight:  s.highlight,
	}
}

var _ StyleProvider = (*Style)(nil)
