package graphview

import (
	"ast3d/internal/domain"
	"ast3d/internal/scene"
)

// View indexes the objects currently attached to the scene graph
type View struct {
	scene *scene.Scene

	nodes       []*scene.LOD
	edges       []*scene.Line
	nodesByID   map[string]*scene.LOD
	nodesByType map[string][]*scene.LOD
	edgesByType map[string][]*scene.Line
	// parent-child edges keyed by source id
	childEdges map[string][]*scene.Line
	// every edge keyed by each endpoint id
	incident map[string][]*scene.Line

	visibleTypes map[string]struct{}
}

// NewView creates an empty view over s
func NewView(s *scene.Scene) *View {
	v := &View{scene: s}
	v.reset()
	return v
}

func (v *View) reset() {
	v.nodes = nil
	v.edges = nil
	v.nodesByID = make(map[string]*scene.LOD)
	v.nodesByType = make(map[string][]*scene.LOD)
	v.edgesByType = make(map[string][]*scene.Line)
	v.childEdges = make(map[string][]*scene.Line)
	v.incident = make(map[string][]*scene.Line)
}

func (v *View) addNode(n *scene.LOD) {
	v.nodes = append(v.nodes, n)
	v.nodesByID[n.Data.ID()] = n
	v.nodesByType[n.Data.Type] = append(v.nodesByType[n.Data.Type], n)
}

func (v *View) addEdge(l *scene.Line) {
	v.edges = append(v.edges, l)
	v.edgesByType[l.Data.SourceType] = append(v.edgesByType[l.Data.SourceType], l)
	if l.Data.TargetType != l.Data.SourceType {
		v.edgesByType[l.Data.TargetType] = append(v.edgesByType[l.Data.TargetType], l)
	}
	if l.Data.Relationship == domain.RelationshipParentChild {
		v.childEdges[l.Data.Source] = append(v.childEdges[l.Data.Source], l)
	}
	v.incident[l.Data.Source] = append(v.incident[l.Data.Source], l)
	if l.Data.Target != l.Data.Source {
		v.incident[l.Data.Target] = append(v.incident[l.Data.Target], l)
	}
}

// Scene returns the scene the view indexes
func (v *View) Scene() *scene.Scene {
	return v.scene
}

// Node resolves a live node object by graph id
func (v *View) Node(id string) (*scene.LOD, bool) {
	n, ok := v.nodesByID[id]
	return n, ok
}

// Endpoints resolves both ends of an edge through the id index
func (v *View) Endpoints(l *scene.Line) (source, target *scene.LOD, ok bool) {
	if l == nil {
		return nil, nil, false
	}
	source, sok := v.nodesByID[l.Data.Source]
	target, tok := v.nodesByID[l.Data.Target]
	return source, target, sok && tok
}

// Nodes returns live node objects in build order
func (v *View) Nodes() []*scene.LOD {
	return v.nodes
}

// Edges returns live edge objects in build order
func (v *View) Edges() []*scene.Line {
	return v.edges
}

// NodesOfType returns the live node objects of one type
func (v *View) NodesOfType(nodeType string) []*scene.LOD {
	return v.nodesByType[nodeType]
}

// EdgesOfType returns the edges touching a node of the given type
func (v *View) EdgesOfType(nodeType string) []*scene.Line {
	return v.edgesByType[nodeType]
}

// Types returns the node types present, in first-built order
func (v *View) Types() []string {
	seen := make(map[string]struct{}, len(v.nodesByType))
	var types []string
	for _, n := range v.nodes {
		if _, ok := seen[n.Data.Type]; !ok {
			seen[n.Data.Type] = struct{}{}
			types = append(types, n.Data.Type)
		}
	}
	return types
}

// ChildEdges returns the parent-child edges whose source is id
func (v *View) ChildEdges(id string) []*scene.Line {
	return v.childEdges[id]
}

// Children returns the node objects reached from id over parent-child edges
func (v *View) Children(id string) []*scene.LOD {
	var out []*scene.LOD
	for _, l := range v.childEdges[id] {
		if n, ok := v.nodesByID[l.Data.Target]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Connected returns the node objects sharing any edge with id
func (v *View) Connected(id string) []*scene.LOD {
	seen := make(map[*scene.LOD]struct{})
	var out []*scene.LOD
	for _, l := range v.incident[id] {
		other := l.Data.Target
		if other == id {
			other = l.Data.Source
		}
		n, ok := v.nodesByID[other]
		if !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// VisibleNodes returns the live node objects currently shown
func (v *View) VisibleNodes() []*scene.LOD {
	var out []*scene.LOD
	for _, n := range v.nodes {
		if n.Visible {
			out = append(out, n)
		}
	}
	return out
}
