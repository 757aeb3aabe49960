package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ast3d/internal/domain"
	"ast3d/internal/repository"
)

// newTestRepo creates an in-memory repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleGraph() *domain.Graph {
	g := domain.NewGraph()
	root := domain.NewGraphNode("r", "Program", 0)
	root.Children = []string{"f", "c"}
	g.AddNode(*root)
	fn := domain.NewGraphNode("f", "FunctionDeclaration", 1)
	fn.Parent = "r"
	fn.SetProperty("line", 3)
	g.AddNode(*fn)
	call := domain.NewGraphNode("c", "FunctionDeclaration", 1)
	call.Parent = "r"
	g.AddNode(*call)
	g.AddEdge(domain.NewGraphEdge("r", "f", domain.RelationshipParentChild))
	g.AddEdge(domain.NewGraphEdge("r", "c", domain.RelationshipParentChild))
	g.AddEdge(domain.NewGraphEdge("c", "f", domain.RelationshipDependency))
	return g
}

func TestSaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s := &domain.Snapshot{Name: "main.go", Description: "first parse", Template: "default", Graph: sampleGraph()}
	require.NoError(t, repo.Save(ctx, s))
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 3, s.NodeCount)
	assert.Equal(t, 3, s.EdgeCount)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "main.go", got.Name)
	assert.Equal(t, "first parse", got.Description)
	assert.Equal(t, "default", got.Template)
	assert.Equal(t, 3, got.NodeCount)
	assert.WithinDuration(t, s.CreatedAt, got.CreatedAt, time.Second)

	require.NotNil(t, got.Graph)
	require.Len(t, got.Graph.Nodes, 3)
	assert.Equal(t, []string{"f", "c"}, got.Graph.Nodes[0].Children)
	assert.Equal(t, domain.RelationshipDependency, got.Graph.Edges[2].RelationshipType)
	line, ok := got.Graph.Nodes[1].GetProperty("line")
	require.True(t, ok)
	assert.Equal(t, float64(3), line, "properties round-trip through JSON")
}

func TestSaveOverwriteKeepsCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s := &domain.Snapshot{Name: "v1", Graph: sampleGraph()}
	require.NoError(t, repo.Save(ctx, s))
	created := s.CreatedAt

	s.Name = "v2"
	s.Graph = domain.NewGraph()
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.Zero(t, got.NodeCount)
	assert.Empty(t, got.Graph.Nodes)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveRequiresName(t *testing.T) {
	repo := newTestRepo(t)
	assert.Error(t, repo.Save(context.Background(), &domain.Snapshot{Name: "  "}))
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestListOmitsGraph(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &domain.Snapshot{Name: name, Graph: sampleGraph()}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, s := range list {
		assert.Nil(t, s.Graph)
		assert.Equal(t, 3, s.NodeCount)
	}
}

func TestListByTypeAndCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	withFns := &domain.Snapshot{Name: "fns", Graph: sampleGraph()}
	require.NoError(t, repo.Save(ctx, withFns))

	onlyRoot := domain.NewGraph()
	onlyRoot.AddNode(*domain.NewGraphNode("r", "Program", 0))
	require.NoError(t, repo.Save(ctx, &domain.Snapshot{Name: "root", Graph: onlyRoot}))

	tests := []struct {
		nodeType string
		want     int
	}{
		{"Program", 2},
		{"FunctionDeclaration", 1},
		{"ClassDeclaration", 0},
	}
	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			list, err := repo.ListByType(ctx, tt.nodeType)
			require.NoError(t, err)
			assert.Len(t, list, tt.want)
		})
	}

	counts, err := repo.TypeCounts(ctx, withFns.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Program": 1, "FunctionDeclaration": 2}, counts)

	_, err = repo.TypeCounts(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s := &domain.Snapshot{Name: "gone", Graph: sampleGraph()}
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), repository.ErrNotFound)

	// cascade removed the type index
	byType, err := repo.ListByType(ctx, "Program")
	require.NoError(t, err)
	assert.Empty(t, byType)
}

func TestFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ast3d.db")
	ctx := context.Background()

	repo, err := New(path, nil)
	require.NoError(t, err)
	s := &domain.Snapshot{Name: "persisted", Graph: sampleGraph()}
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Close())

	reopened, err := New(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
	assert.Len(t, got.Graph.Nodes, 3)
}
