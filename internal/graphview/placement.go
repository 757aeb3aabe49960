package graphview

import (
	"math/rand/v2"
	"slices"

	"cogentcore.org/core/math32"

	"ast3d/internal/config"
	"ast3d/internal/domain"
	"ast3d/internal/scene"
)

// Placer assigns randomized radial positions banded by scope level.
// Its source is seeded, so a given seed and input reproduce the same layout.
type Placer struct {
	cfg config.PlacementConfig
	rng *rand.Rand
}

// NewPlacer creates a placer seeded with seed
func NewPlacer(cfg config.PlacementConfig, seed uint64) *Placer {
	p := &Placer{cfg: cfg}
	p.Reseed(seed)
	return p
}

// Reseed restarts the random sequence
func (p *Placer) Reseed(seed uint64) {
	p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// IsRoot reports whether n is pinned to the origin: a configured root type,
// or a top-level node without a parent.
func (p *Placer) IsRoot(n domain.GraphNode) bool {
	if slices.Contains(p.cfg.RootTypes, n.Type) {
		return true
	}
	return n.Parent == "" && n.ScopeLevel == 0
}

// SpawnRange returns the horizontal spawn radius for a scope level
func (p *Placer) SpawnRange(scopeLevel int) float32 {
	return p.cfg.SpawnBase * math32.Pow(p.cfg.SpawnMultiplier, float32(scopeLevel))
}

// Place returns a position for n. parent is the already placed parent object,
// or nil when the node has none in the scene.
func (p *Placer) Place(n domain.GraphNode, parent *scene.LOD) scene.Vector3 {
	children := float32(n.ChildCount())
	band := -float32(n.ScopeLevel) * p.cfg.VerticalSpacing

	if p.IsRoot(n) {
		return scene.Vec3(0, band+children*p.cfg.RootLiftPerChild, 0)
	}

	var cx, cz float32
	radius := p.SpawnRange(n.ScopeLevel)
	if parent != nil {
		cx, cz = parent.Position.X, parent.Position.Z
		radius = p.cfg.LocalRadius
	}

	angle := p.rng.Float32() * 2 * math32.Pi
	r := p.rng.Float32() * radius
	y := band + p.rng.Float32()*p.cfg.Jitter + p.cfg.LiftBase + children*p.cfg.LiftPerChild

	return scene.Vec3(cx+r*math32.Cos(angle), y, cz+r*math32.Sin(angle))
}
