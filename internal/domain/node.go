package domain

// RootType is the node type the AST sources emit for the top of a tree
const RootType = "Program"

// GraphNode is one node of the hierarchical input graph.
// IDs are unique within a graph and stable across rebuilds of the same source.
type GraphNode struct {
	ID         string         `json:"id" yaml:"id"`
	Type       string         `json:"type" yaml:"type"`
	ScopeLevel int            `json:"scopeLevel" yaml:"scope_level"`
	Children   []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Parent     string         `json:"parent,omitempty" yaml:"parent,omitempty"`
	Label      string         `json:"label,omitempty" yaml:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// NewGraphNode creates a node with initialized collections
func NewGraphNode(id, nodeType string, scopeLevel int) *GraphNode {
	return &GraphNode{
		ID:         id,
		Type:       nodeType,
		ScopeLevel: scopeLevel,
		Children:   make([]string, 0),
		Properties: make(map[string]any),
	}
}

// ChildCount returns the number of direct children
func (n *GraphNode) ChildCount() int {
	return len(n.Children)
}

// HasParent reports whether the node names a parent
func (n *GraphNode) HasParent() bool {
	return n.Parent != ""
}

// AddChild appends a child ID and sets nothing on the child itself
func (n *GraphNode) AddChild(id string) {
	n.Children = append(n.Children, id)
}

// SetProperty sets a property value
func (n *GraphNode) SetProperty(key string, value any) {
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	n.Properties[key] = value
}

// GetProperty gets a property value
func (n *GraphNode) GetProperty(key string) (any, bool) {
	if n.Properties == nil {
		return nil, false
	}
	val, ok := n.Properties[key]
	return val, ok
}

// Clone returns a deep copy so scene objects never alias the caller's slices
func (n GraphNode) Clone() GraphNode {
	out := n
	if n.Children != nil {
		out.Children = append([]string(nil), n.Children...)
	}
	if n.Properties != nil {
		out.Properties = make(map[string]any, len(n.Properties))
		for k, v := range n.Properties {
			out.Properties[k] = v
		}
	}
	return out
}
