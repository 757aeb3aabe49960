package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidGraph is returned by Validate for structurally broken input
var ErrInvalidGraph = errors.New("invalid graph")

// Graph is the wholesale input to a scene rebuild
type Graph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]GraphNode, 0),
		Edges: make([]GraphEdge, 0),
	}
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node GraphNode) {
	g.Nodes = append(g.Nodes, node)
}

// AddEdge adds an edge to the graph
func (g *Graph) AddEdge(edge GraphEdge) {
	g.Edges = append(g.Edges, edge)
}

// Node looks up a node by ID
func (g *Graph) Node(id string) (*GraphNode, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Types returns the distinct node types in first-seen order
func (g *Graph) Types() []string {
	seen := make(map[string]bool)
	var types []string
	for _, n := range g.Nodes {
		if !seen[n.Type] {
			seen[n.Type] = true
			types = append(types, n.Type)
		}
	}
	return types
}

// Validate checks the fields every node must carry. Edges are not checked:
// the scene builder drops edges with missing or unresolved endpoints, and an
// unknown relationship renders as a plain link.
func (g *Graph) Validate() error {
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d has empty id", ErrInvalidGraph, i)
		}
		if n.ScopeLevel < 0 {
			return fmt.Errorf("%w: node %s has negative scope level %d", ErrInvalidGraph, n.ID, n.ScopeLevel)
		}
	}
	return nil
}

// LinkHierarchy derives parent-child edges from Children lists and fills in
// missing Parent fields. Existing parent-child edges are not duplicated.
func (g *Graph) LinkHierarchy() {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
	}

	existing := make(map[[2]string]bool)
	for _, e := range g.Edges {
		if e.IsParentChild() {
			existing[[2]string{e.Source, e.Target}] = true
		}
	}

	for _, n := range g.Nodes {
		for _, childID := range n.Children {
			ci, ok := index[childID]
			if !ok {
				continue
			}
			if g.Nodes[ci].Parent == "" {
				g.Nodes[ci].Parent = n.ID
			}
			key := [2]string{n.ID, childID}
			if !existing[key] {
				existing[key] = true
				g.Edges = append(g.Edges, NewGraphEdge(n.ID, childID, RelationshipParentChild))
			}
		}
	}
}
