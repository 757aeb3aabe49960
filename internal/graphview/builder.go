package graphview

import (
	"time"

	"go.uber.org/zap"

	"ast3d/internal/config"
	"ast3d/internal/domain"
	"ast3d/internal/logging"
	"ast3d/internal/metrics"
	"ast3d/internal/scene"
)

// ObjectPool is the render object pool as seen by the builder
type ObjectPool interface {
	AcquireNode(nodeType string, childCount int) *scene.LOD
	AcquireEdge() *scene.Line
	Release(e scene.Element)
}

// RebuildResult summarizes one rebuild
type RebuildResult struct {
	Nodes          int           `json:"nodes"`
	Edges          int           `json:"edges"`
	DroppedEdges   int           `json:"dropped_edges"`
	DuplicateNodes int           `json:"duplicate_nodes"`
	Released       int           `json:"released"`
	Offset         scene.Vector3 `json:"offset"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Builder replaces the scene contents from graph input
type Builder struct {
	view   *View
	pool   ObjectPool
	placer *Placer
	style  config.StyleProvider
	logger *zap.Logger
}

// NewBuilder creates a builder writing into view
func NewBuilder(view *View, pool ObjectPool, placer *Placer, style config.StyleProvider, logger *zap.Logger) *Builder {
	return &Builder{
		view:   view,
		pool:   pool,
		placer: placer,
		style:  style,
		logger: logging.OrNop(logger).Named("builder"),
	}
}

// Clear detaches every scene object and returns it to the pool
func (b *Builder) Clear() int {
	released := b.view.scene.Graph.Clear()
	for _, e := range released {
		b.pool.Release(e)
	}
	b.view.reset()
	metrics.SceneObjects.WithLabelValues("node").Set(0)
	metrics.SceneObjects.WithLabelValues("edge").Set(0)
	return len(released)
}

// Rebuild replaces the scene with nodes and edges. Edges with an endpoint
// that did not become a live node are skipped. The result is recentered on
// the origin once every object exists.
func (b *Builder) Rebuild(nodes []domain.GraphNode, edges []domain.GraphEdge) RebuildResult {
	start := time.Now()
	var res RebuildResult
	res.Released = b.Clear()

	group := b.view.scene.Graph
	lighting := b.view.scene.Lighting()

	parentOf := make(map[string]string)
	for _, n := range nodes {
		for _, c := range n.Children {
			if _, ok := parentOf[c]; !ok {
				parentOf[c] = n.ID
			}
		}
	}

	for _, n := range nodes {
		if _, dup := b.view.nodesByID[n.ID]; dup {
			res.DuplicateNodes++
			b.logger.Warn("duplicate node id skipped", zap.String("id", n.ID), zap.String("type", n.Type))
			continue
		}

		obj := b.pool.AcquireNode(n.Type, n.ChildCount())
		obj.SetLighting(lighting)

		parentID := n.Parent
		if parentID == "" {
			parentID = parentOf[n.ID]
		}
		var parent *scene.LOD
		if parentID != "" {
			parent = b.view.nodesByID[parentID]
		}
		obj.Position = b.placer.Place(n, parent)

		obj.Data = scene.NodeData{
			Node:          n.Clone(),
			Type:          obj.Data.Type,
			OriginalColor: obj.Data.OriginalColor,
		}
		b.view.addNode(obj)
		group.Add(scene.NodeElement(obj))
	}

	links := b.style.LinkColors()
	for _, e := range edges {
		source, sok := b.view.nodesByID[e.Source]
		target, tok := b.view.nodesByID[e.Target]
		if !sok || !tok {
			res.DroppedEdges++
			b.logger.Debug("edge with missing endpoint dropped",
				zap.String("source", e.Source),
				zap.String("target", e.Target),
			)
			continue
		}

		rel := e.RelationshipType
		if rel == "" {
			rel = domain.RelationshipOther
		}

		line := b.pool.AcquireEdge()
		line.Data = scene.EdgeData{
			Source:       e.Source,
			Target:       e.Target,
			SourceType:   source.Data.Type,
			TargetType:   target.Data.Type,
			Relationship: rel,
		}
		resetEdge(line, links)
		b.UpdateLine(line, source, target)
		b.view.addEdge(line)
		group.Add(scene.EdgeElement(line))
	}

	res.Offset = b.recenter()
	b.view.applyVisibility()

	res.Nodes = len(b.view.nodes)
	res.Edges = len(b.view.edges)
	res.Elapsed = time.Since(start)

	metrics.SceneObjects.WithLabelValues("node").Set(float64(res.Nodes))
	metrics.SceneObjects.WithLabelValues("edge").Set(float64(res.Edges))
	metrics.DroppedEdgesTotal.Add(float64(res.DroppedEdges))
	metrics.RebuildSeconds.Observe(res.Elapsed.Seconds())

	b.logger.Info("scene rebuilt",
		zap.Int("nodes", res.Nodes),
		zap.Int("edges", res.Edges),
		zap.Int("dropped_edges", res.DroppedEdges),
		zap.Int("released", res.Released),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

// UpdateLine moves a line's endpoints onto its nodes. Missing references are
// logged and the update is skipped.
func (b *Builder) UpdateLine(line *scene.Line, source, target *scene.LOD) bool {
	if line == nil || source == nil || target == nil {
		b.logger.Warn("line update with missing reference skipped",
			zap.Bool("line", line != nil),
			zap.Bool("source", source != nil),
			zap.Bool("target", target != nil),
		)
		return false
	}
	line.SetEndpoints(source.Position, target.Position)
	return true
}

// RefreshEdge re-resolves a line's endpoints through the view and updates it
func (b *Builder) RefreshEdge(line *scene.Line) bool {
	if line == nil {
		return b.UpdateLine(nil, nil, nil)
	}
	source, target, _ := b.view.Endpoints(line)
	return b.UpdateLine(line, source, target)
}

// recenter translates the graph so the box around node positions is
// centered on the origin, and returns the applied offset
func (b *Builder) recenter() scene.Vector3 {
	if len(b.view.nodes) == 0 {
		return scene.Vector3{}
	}
	offset := scene.BoxCenter(scene.PositionBounds(b.view.nodes)).MulScalar(-1)
	for _, n := range b.view.nodes {
		n.Position = n.Position.Add(offset)
	}
	for _, l := range b.view.edges {
		l.Translate(offset)
	}
	return offset
}
