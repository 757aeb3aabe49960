package graphview

import (
	"go.uber.org/zap"

	"ast3d/internal/config"
	"ast3d/internal/domain"
	"ast3d/internal/logging"
	"ast3d/internal/metrics"
	"ast3d/internal/scene"
)

const (
	focusScale    = 1.15
	neighborScale = 1.1
	// darkest traversal edge color as a fraction of the base color
	darkestShade = 0.35

	hoverOrder    = 1
	selectedOrder = 2
)

// HighlightResult reports what the last refresh reached
type HighlightResult struct {
	Selected string   `json:"selected,omitempty"`
	Hovered  string   `json:"hovered,omitempty"`
	Reached  []string `json:"reached"`
	Dimmed   int      `json:"dimmed"`
}

// Highlighter recolors the view for the current hover and selection
type Highlighter struct {
	view   *View
	style  config.StyleProvider
	logger *zap.Logger
	redraw func()

	selected string
	hovered  string
}

// NewHighlighter creates a highlighter with nothing selected or hovered
func NewHighlighter(view *View, style config.StyleProvider, logger *zap.Logger) *Highlighter {
	return &Highlighter{
		view:   view,
		style:  style,
		logger: logging.OrNop(logger).Named("highlight"),
	}
}

// OnRedraw sets the callback run after every refresh
func (h *Highlighter) OnRedraw(fn func()) {
	h.redraw = fn
}

// Selected returns the selected node id, or ""
func (h *Highlighter) Selected() string {
	return h.selected
}

// Hovered returns the hovered node id, or ""
func (h *Highlighter) Hovered() string {
	return h.hovered
}

// Select sets the selected node and refreshes
func (h *Highlighter) Select(id string) HighlightResult {
	h.selected = id
	return h.Refresh()
}

// Hover sets the hovered node and refreshes. Nothing happens when id is
// already hovered; changed reports whether a refresh ran.
func (h *Highlighter) Hover(id string) (res HighlightResult, changed bool) {
	if id == h.hovered {
		return HighlightResult{Selected: h.selected, Hovered: h.hovered}, false
	}
	h.hovered = id
	return h.Refresh(), true
}

// Clear drops hover and selection and refreshes
func (h *Highlighter) Clear() HighlightResult {
	h.selected = ""
	h.hovered = ""
	return h.Refresh()
}

// Refresh recomputes color, opacity, scale and draw order of every visible
// object from the hover and selection state
func (h *Highlighter) Refresh() HighlightResult {
	metrics.HighlightRefreshTotal.Inc()

	links := h.style.LinkColors()
	cfg := h.style.Highlight()
	res := HighlightResult{Selected: h.selected, Hovered: h.hovered, Reached: []string{}}

	for _, n := range h.view.nodes {
		if !n.Visible {
			continue
		}
		n.SetColor(n.Data.OriginalColor)
		n.SetOpacity(1)
		n.Scale = 1
		n.RenderOrder = 0
	}
	for _, l := range h.view.edges {
		if l.Visible {
			resetEdge(l, links)
		}
	}

	selected, selOK := h.focus(h.selected)
	hovered, hovOK := h.focus(h.hovered)
	if hovOK && selOK && hovered == selected {
		hovOK = false
	}

	reached := make(map[*scene.LOD]struct{})
	painted := make(map[*scene.Line]struct{})

	if hovOK {
		color := links.Hover
		if selOK {
			color = links.HoverSecondary
		}
		h.traverse(hovered, cfg.Depth, color, hoverOrder, reached, painted)
	}
	if selOK {
		h.traverse(selected, cfg.Depth, links.Selected, selectedOrder, reached, painted)
	}

	if selOK || hovOK {
		for _, n := range h.view.nodes {
			if !n.Visible {
				continue
			}
			if _, ok := reached[n]; ok {
				res.Reached = append(res.Reached, n.Data.ID())
				continue
			}
			n.SetOpacity(cfg.NonConnectedOpacity)
			res.Dimmed++
		}
		for _, l := range h.view.edges {
			if !l.Visible {
				continue
			}
			if _, ok := painted[l]; !ok {
				l.Material.Opacity = cfg.NonConnectedOpacity
				l.Material.MarkDirty()
			}
		}
	}

	for _, l := range h.view.edges {
		if !l.Visible {
			continue
		}
		if source, target, ok := h.view.Endpoints(l); ok {
			l.RenderOrder = max(l.RenderOrder, source.RenderOrder, target.RenderOrder)
		}
	}

	if h.redraw != nil {
		h.redraw()
	}
	return res
}

// focus resolves id to a live visible node. Unknown or hidden ids do not
// count as an active hover or selection.
func (h *Highlighter) focus(id string) (*scene.LOD, bool) {
	if id == "" {
		return nil, false
	}
	n, ok := h.view.Node(id)
	if !ok || !n.Visible {
		h.logger.Debug("highlight focus not in scene", zap.String("id", id))
		return nil, false
	}
	return n, true
}

// traverse walks visible parent-child edges outward from start for up to
// depth hops, marking nodes reached and coloring the edges it crosses
func (h *Highlighter) traverse(start *scene.LOD, depth int, base scene.Color, order int,
	reached map[*scene.LOD]struct{}, painted map[*scene.Line]struct{}) {

	visited := map[*scene.LOD]struct{}{start: {}}
	frontier := []*scene.LOD{start}

	for d := 0; d <= depth && len(frontier) > 0; d++ {
		scale := float32(neighborScale)
		if d == 0 {
			scale = focusScale
		}
		for _, n := range frontier {
			reached[n] = struct{}{}
			n.SetOpacity(1)
			n.Scale = max(n.Scale, scale)
			n.RenderOrder = max(n.RenderOrder, order)
		}
		if d == depth {
			break
		}

		color := DepthColor(base, d, depth)
		var next []*scene.LOD
		for _, n := range frontier {
			for _, l := range h.view.ChildEdges(n.Data.ID()) {
				if !l.Visible {
					continue
				}
				child, ok := h.view.Node(l.Data.Target)
				if !ok || !child.Visible {
					continue
				}
				l.Material.Color = color
				l.Material.Opacity = 1
				l.Material.MarkDirty()
				l.RenderOrder = max(l.RenderOrder, order)
				painted[l] = struct{}{}

				if _, seen := visited[child]; !seen {
					visited[child] = struct{}{}
					next = append(next, child)
				}
			}
		}
		frontier = next
	}
}

// DepthColor darkens base linearly with d/depth. The darkest shade is a
// fixed fraction of base, so the color never reaches black.
func DepthColor(base scene.Color, d, depth int) scene.Color {
	if depth <= 0 || d <= 0 {
		return base
	}
	t := float64(d) / float64(depth)
	if t > 1 {
		t = 1
	}
	return base.Lerp(base.Scale(darkestShade), t)
}

// NormalEdgeColor returns the resting color of an edge. Dependency edges
// take precedence over edges leaving the program root.
func NormalEdgeColor(links config.LinkColors, data scene.EdgeData) scene.Color {
	switch {
	case data.Relationship == domain.RelationshipDependency:
		return links.Dependency
	case data.SourceType == domain.RootType:
		return links.Root
	}
	return links.Normal
}

func resetEdge(l *scene.Line, links config.LinkColors) {
	l.Material.Color = NormalEdgeColor(links, l.Data)
	l.Material.Opacity = links.NormalOpacity
	l.Material.Transparent = true
	l.Material.DepthWrite = false
	l.Material.MarkDirty()
	l.RenderOrder = 0
}
