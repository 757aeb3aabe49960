// Package pool recycles node and edge render objects across scene rebuilds.
//
// Node objects are kept in LIFO free lists keyed by node type, edges in one
// shared free list. An object is either idle in the pool or owned by the
// scene, never both. Free lists are bounded: when a release would overflow a
// list, the oldest idle object is disposed and dropped.
package pool

import (
	"go.uber.org/zap"

	"ast3d/internal/config"
	"ast3d/internal/logging"
	"ast3d/internal/metrics"
	"ast3d/internal/scene"
)

// NodeFactory builds fresh node objects and refreshes recycled ones
type NodeFactory interface {
	Build(nodeType string, childCount int) *scene.LOD
	Regenerate(l *scene.LOD, nodeType string, childCount int)
}

// Stats is a point-in-time view of pool bookkeeping
type Stats struct {
	Free         map[string]int `json:"free"`
	FreeEdges    int            `json:"free_edges"`
	Created      map[string]int `json:"created"`
	CreatedEdges int            `json:"created_edges"`
	Evicted      map[string]int `json:"evicted"`
	EvictedEdges int            `json:"evicted_edges"`
	Hits         int            `json:"hits"`
	Misses       int            `json:"misses"`
}

// Pool holds idle render objects
type Pool struct {
	factory NodeFactory
	logger  *zap.Logger

	maxPerType int
	maxEdges   int

	free      map[string][]*scene.LOD
	freeEdges []*scene.Line
	idle      map[*scene.LOD]struct{}
	idleEdges map[*scene.Line]struct{}

	created      map[string]int
	createdEdges int
	evicted      map[string]int
	evictedEdges int
	hits         int
	misses       int
}

// New creates an empty pool. A zero cap leaves that free list unbounded.
func New(factory NodeFactory, cfg config.PoolConfig, logger *zap.Logger) *Pool {
	return &Pool{
		factory:    factory,
		logger:     logging.OrNop(logger).Named("pool"),
		maxPerType: cfg.MaxFreePerType,
		maxEdges:   cfg.MaxFreeEdges,
		free:       make(map[string][]*scene.LOD),
		idle:       make(map[*scene.LOD]struct{}),
		idleEdges:  make(map[*scene.Line]struct{}),
		created:    make(map[string]int),
		evicted:    make(map[string]int),
	}
}

// AcquireNode returns a node object for nodeType sized for childCount.
// A recycled object has its geometry regenerated for the current style.
func (p *Pool) AcquireNode(nodeType string, childCount int) *scene.LOD {
	list := p.free[nodeType]
	if n := len(list); n > 0 {
		l := list[n-1]
		list[n-1] = nil
		p.free[nodeType] = list[:n-1]
		delete(p.idle, l)

		p.factory.Regenerate(l, nodeType, childCount)
		l.Visible = true
		p.hits++
		metrics.PoolAcquireTotal.WithLabelValues("node", "hit").Inc()
		metrics.PoolFree.WithLabelValues("node").Dec()
		return l
	}

	l := p.factory.Build(nodeType, childCount)
	p.created[nodeType]++
	p.misses++
	metrics.PoolAcquireTotal.WithLabelValues("node", "miss").Inc()
	return l
}

// AcquireEdge returns a line object. Callers set its color and endpoints.
func (p *Pool) AcquireEdge() *scene.Line {
	if n := len(p.freeEdges); n > 0 {
		line := p.freeEdges[n-1]
		p.freeEdges[n-1] = nil
		p.freeEdges = p.freeEdges[:n-1]
		delete(p.idleEdges, line)

		line.Visible = true
		line.RenderOrder = 0
		line.Data = scene.EdgeData{}
		p.hits++
		metrics.PoolAcquireTotal.WithLabelValues("edge", "hit").Inc()
		metrics.PoolFree.WithLabelValues("edge").Dec()
		return line
	}

	p.createdEdges++
	p.misses++
	metrics.PoolAcquireTotal.WithLabelValues("edge", "miss").Inc()
	return scene.NewLine(scene.NeutralGray, 1)
}

// Release returns a detached scene element to the pool
func (p *Pool) Release(e scene.Element) {
	switch e.Kind {
	case scene.KindNode:
		p.ReleaseNode(e.Node)
	case scene.KindEdge:
		p.ReleaseEdge(e.Edge)
	default:
		p.logger.Warn("release of empty element ignored")
	}
}

// ReleaseNode returns a node object to the free list of its tagged type
func (p *Pool) ReleaseNode(l *scene.LOD) {
	if l == nil {
		return
	}
	if _, ok := p.idle[l]; ok {
		p.logger.Warn("node object released twice", zap.String("id", l.Data.ID()), zap.String("type", l.Data.Type))
		return
	}
	if l.Parent() != nil {
		p.logger.Warn("node object released while attached", zap.String("id", l.Data.ID()))
		return
	}

	nodeType := l.Data.Type
	list := p.free[nodeType]
	if p.maxPerType > 0 && len(list) >= p.maxPerType {
		oldest := list[0]
		list = list[1:]
		delete(p.idle, oldest)
		for _, level := range oldest.Levels {
			if level.Mesh.Geometry != nil {
				level.Mesh.Geometry.Dispose()
			}
		}
		p.evicted[nodeType]++
		metrics.PoolEvictionsTotal.WithLabelValues("node").Inc()
		metrics.PoolFree.WithLabelValues("node").Dec()
	}
	p.free[nodeType] = append(list, l)
	p.idle[l] = struct{}{}
	metrics.PoolFree.WithLabelValues("node").Inc()
}

// ReleaseEdge returns a line object to the shared edge free list
func (p *Pool) ReleaseEdge(line *scene.Line) {
	if line == nil {
		return
	}
	if _, ok := p.idleEdges[line]; ok {
		p.logger.Warn("edge object released twice",
			zap.String("source", line.Data.Source), zap.String("target", line.Data.Target))
		return
	}
	if line.Parent() != nil {
		p.logger.Warn("edge object released while attached",
			zap.String("source", line.Data.Source), zap.String("target", line.Data.Target))
		return
	}

	if p.maxEdges > 0 && len(p.freeEdges) >= p.maxEdges {
		oldest := p.freeEdges[0]
		p.freeEdges = p.freeEdges[1:]
		delete(p.idleEdges, oldest)
		p.evictedEdges++
		metrics.PoolEvictionsTotal.WithLabelValues("edge").Inc()
		metrics.PoolFree.WithLabelValues("edge").Dec()
	}
	p.freeEdges = append(p.freeEdges, line)
	p.idleEdges[line] = struct{}{}
	metrics.PoolFree.WithLabelValues("edge").Inc()
}

// Contains reports whether e is idle in the pool
func (p *Pool) Contains(e scene.Element) bool {
	switch e.Kind {
	case scene.KindNode:
		_, ok := p.idle[e.Node]
		return ok
	case scene.KindEdge:
		_, ok := p.idleEdges[e.Edge]
		return ok
	}
	return false
}

// Stats returns a copy of the pool counters
func (p *Pool) Stats() Stats {
	s := Stats{
		Free:         make(map[string]int, len(p.free)),
		FreeEdges:    len(p.freeEdges),
		Created:      make(map[string]int, len(p.created)),
		CreatedEdges: p.createdEdges,
		Evicted:      make(map[string]int, len(p.evicted)),
		EvictedEdges: p.evictedEdges,
		Hits:         p.hits,
		Misses:       p.misses,
	}
	for t, list := range p.free {
		if len(list) > 0 {
			s.Free[t] = len(list)
		}
	}
	for t, n := range p.created {
		s.Created[t] = n
	}
	for t, n := range p.evicted {
		s.Evicted[t] = n
	}
	return s
}

// Close disposes every idle object's geometry and empties the pool
func (p *Pool) Close() {
	for t, list := range p.free {
		for _, l := range list {
			for _, level := range l.Levels {
				if level.Mesh.Geometry != nil {
					level.Mesh.Geometry.Dispose()
				}
			}
		}
		metrics.PoolFree.WithLabelValues("node").Sub(float64(len(list)))
		delete(p.free, t)
	}
	metrics.PoolFree.WithLabelValues("edge").Sub(float64(len(p.freeEdges)))
	p.freeEdges = nil
	p.idle = make(map[*scene.LOD]struct{})
	p.idleEdges = make(map[*scene.Line]struct{})
}
