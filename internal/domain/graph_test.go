package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraph(t *testing.T) {
	t.Run("creates empty graph with initialized collections", func(t *testing.T) {
		graph := NewGraph()

		require.NotNil(t, graph.Nodes)
		require.NotNil(t, graph.Edges)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
	})
}

func TestGraphNodeLookup(t *testing.T) {
	graph := NewGraph()
	graph.AddNode(*NewGraphNode("root", RootType, 0))
	graph.AddNode(*NewGraphNode("fn", "FunctionDeclaration", 1))

	t.Run("finds existing node", func(t *testing.T) {
		n, ok := graph.Node("fn")
		require.True(t, ok)
		assert.Equal(t, "FunctionDeclaration", n.Type)
	})

	t.Run("missing node", func(t *testing.T) {
		_, ok := graph.Node("nope")
		assert.False(t, ok)
	})

	t.Run("types in first-seen order", func(t *testing.T) {
		graph.AddNode(*NewGraphNode("fn2", "FunctionDeclaration", 1))
		assert.Equal(t, []string{RootType, "FunctionDeclaration"}, graph.Types())
	})
}

func TestGraphValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   Graph
		wantErr bool
	}{
		{
			name:  "empty graph is valid",
			graph: Graph{},
		},
		{
			name: "dangling edge is valid",
			graph: Graph{
				Nodes: []GraphNode{{ID: "a", Type: "X"}},
				Edges: []GraphEdge{{Source: "a", Target: "missing", RelationshipType: RelationshipOther}},
			},
		},
		{
			name:    "empty node id",
			graph:   Graph{Nodes: []GraphNode{{Type: "X"}}},
			wantErr: true,
		},
		{
			name:    "negative scope level",
			graph:   Graph{Nodes: []GraphNode{{ID: "a", Type: "X", ScopeLevel: -1}}},
			wantErr: true,
		},
		{
			name:  "edge without target is left to the builder",
			graph: Graph{Edges: []GraphEdge{{Source: "a"}}},
		},
		{
			name:  "unknown relationship is accepted",
			graph: Graph{Edges: []GraphEdge{{Source: "a", Target: "b", RelationshipType: "sibling"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidGraph))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGraphLinkHierarchy(t *testing.T) {
	t.Run("derives parent-child edges and parents", func(t *testing.T) {
		root := NewGraphNode("r", RootType, 0)
		root.AddChild("c1")
		root.AddChild("c2")
		graph := &Graph{Nodes: []GraphNode{*root, {ID: "c1", Type: "A", ScopeLevel: 1}, {ID: "c2", Type: "B", ScopeLevel: 1}}}

		graph.LinkHierarchy()

		require.Len(t, graph.Edges, 2)
		for _, e := range graph.Edges {
			assert.Equal(t, "r", e.Source)
			assert.True(t, e.IsParentChild())
		}
		c1, _ := graph.Node("c1")
		assert.Equal(t, "r", c1.Parent)
	})

	t.Run("does not duplicate existing edges", func(t *testing.T) {
		root := NewGraphNode("r", RootType, 0)
		root.AddChild("c")
		graph := &Graph{
			Nodes: []GraphNode{*root, {ID: "c", Type: "A", ScopeLevel: 1}},
			Edges: []GraphEdge{NewGraphEdge("r", "c", RelationshipParentChild)},
		}

		graph.LinkHierarchy()
		assert.Len(t, graph.Edges, 1)
	})

	t.Run("skips unknown children", func(t *testing.T) {
		root := NewGraphNode("r", RootType, 0)
		root.AddChild("ghost")
		graph := &Graph{Nodes: []GraphNode{*root}}

		graph.LinkHierarchy()
		assert.Empty(t, graph.Edges)
	})
}
