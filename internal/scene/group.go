package scene

// ElementKind discriminates the variants of Element
type ElementKind uint8

const (
	KindNode ElementKind = iota + 1
	KindEdge
)

func (k ElementKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	}
	return "unknown"
}

// Element is a child of a Group: exactly one of Node or Edge is set, as named by Kind
type Element struct {
	Kind ElementKind
	Node *LOD
	Edge *Line
}

// NodeElement wraps a node object
func NodeElement(n *LOD) Element {
	return Element{Kind: KindNode, Node: n}
}

// EdgeElement wraps an edge object
func EdgeElement(l *Line) Element {
	return Element{Kind: KindEdge, Edge: l}
}

func (e Element) object() *Object3D {
	switch e.Kind {
	case KindNode:
		return &e.Node.Object3D
	case KindEdge:
		return &e.Edge.Object3D
	}
	return nil
}

// Visible reports the element's visibility flag
func (e Element) Visible() bool {
	if o := e.object(); o != nil {
		return o.Visible
	}
	return false
}

// Group is an ordered container of node and edge objects
type Group struct {
	children []Element
}

// NewGroup creates an empty group
func NewGroup() *Group {
	return &Group{}
}

// Add attaches e. An object already attached to a group is rejected.
func (g *Group) Add(e Element) bool {
	o := e.object()
	if o == nil || o.parent != nil {
		return false
	}
	o.parent = g
	g.children = append(g.children, e)
	return true
}

// Clear detaches every child and returns them in attach order
func (g *Group) Clear() []Element {
	out := g.children
	for _, e := range out {
		e.object().parent = nil
	}
	g.children = nil
	return out
}

// Children returns the attached elements. The slice must not be modified.
func (g *Group) Children() []Element {
	return g.children
}

// Len returns the number of attached elements
func (g *Group) Len() int {
	return len(g.children)
}

// Nodes returns the attached node objects in attach order
func (g *Group) Nodes() []*LOD {
	var nodes []*LOD
	for _, e := range g.children {
		if e.Kind == KindNode {
			nodes = append(nodes, e.Node)
		}
	}
	return nodes
}

// Edges returns the attached edge objects in attach order
func (g *Group) Edges() []*Line {
	var edges []*Line
	for _, e := range g.children {
		if e.Kind == KindEdge {
			edges = append(edges, e.Edge)
		}
	}
	return edges
}
