// Package lod builds multi-resolution node objects.
//
// A node object is a scene.LOD with one mesh per configured detail tier. Tier
// geometry is the node type's shape at a size derived from the child count,
// with segment and subdivision counts scaled by the tier's multiplier.
package lod

import (
	"cogentcore.org/core/math32"
	"go.uber.org/zap"

	"ast3d/internal/config"
	"ast3d/internal/logging"
	"ast3d/internal/scene"
)

// Factory builds and regenerates node objects for node types
type Factory struct {
	style  config.StyleProvider
	tiers  []config.LODTier
	geom   config.GeometryConfig
	logger *zap.Logger

	warned map[string]struct{}
}

// NewFactory creates a factory using the engine's tier and geometry settings
func NewFactory(style config.StyleProvider, cfg config.EngineConfig, logger *zap.Logger) *Factory {
	tiers := make([]config.LODTier, len(cfg.LODTiers))
	copy(tiers, cfg.LODTiers)
	return &Factory{
		style:  style,
		tiers:  tiers,
		geom:   cfg.Geometry,
		logger: logging.OrNop(logger).Named("lod"),
		warned: make(map[string]struct{}),
	}
}

// Tiers returns the configured detail tiers
func (f *Factory) Tiers() []config.LODTier {
	return f.tiers
}

// Size returns the node size for a child count, capped so high fan-out nodes
// don't dominate the view
func (f *Factory) Size(childCount int) float32 {
	return math32.Min(f.geom.BaseSize+float32(childCount)*f.geom.PerChildGrowth, f.geom.SizeCap)
}

// Style resolves the style for nodeType. Unknown types get the fallback style
// and are logged once.
func (f *Factory) Style(nodeType string) config.NodeStyle {
	st, ok := f.style.NodeStyle(nodeType)
	if !ok {
		if _, seen := f.warned[nodeType]; !seen {
			f.warned[nodeType] = struct{}{}
			f.logger.Warn("unknown node type, using default style",
				zap.String("type", nodeType),
				zap.String("shape", string(st.Shape)),
				zap.String("color", st.Color.Hex()),
			)
		}
	}
	return st
}

// GeometrySpec returns the primitive for shape at the given size and tier multiplier.
// Unknown shapes become a slightly enlarged sphere.
func (f *Factory) GeometrySpec(shape scene.Shape, size, multiplier float32) scene.GeometrySpec {
	segments := math32.Floor(float32(f.geom.ReferenceSegments) * multiplier)
	width := max(f.geom.MinWidthSegments, int(segments))
	height := max(f.geom.MinHeightSegments, int(segments))
	detail := int(math32.Floor(float32(f.geom.ReferenceDetail) * multiplier))

	switch shape {
	case scene.ShapeSphere:
		return scene.GeometrySpec{Shape: shape, Size: size, WidthSegments: width, HeightSegments: height}
	case scene.ShapeBox, scene.ShapeCube:
		return scene.GeometrySpec{Shape: shape, Size: size}
	case scene.ShapeTetrahedron, scene.ShapeOctahedron, scene.ShapeIcosahedron:
		return scene.GeometrySpec{Shape: shape, Size: size * f.geom.PolyhedronScale, Detail: detail}
	default:
		return scene.GeometrySpec{
			Shape:          scene.ShapeSphere,
			Size:           size * f.geom.PolyhedronScale,
			WidthSegments:  width,
			HeightSegments: height,
		}
	}
}

// Build creates a new node object for nodeType with one mesh per tier
func (f *Factory) Build(nodeType string, childCount int) *scene.LOD {
	st := f.Style(nodeType)
	size := f.Size(childCount)

	l := scene.NewLOD()
	for _, tier := range f.tiers {
		geom := scene.NewGeometry(f.GeometrySpec(st.Shape, size, tier.SegmentMultiplier))
		l.AddLevel(scene.NewMesh(geom, st.Color), tier.Distance, tier.Detail)
	}
	l.Data = scene.NodeData{Type: nodeType, OriginalColor: st.Color}
	return l
}

// Regenerate rebuilds every tier's geometry for the current style and child
// count, disposing the old geometry, and resets materials to the type color.
func (f *Factory) Regenerate(l *scene.LOD, nodeType string, childCount int) {
	st := f.Style(nodeType)
	size := f.Size(childCount)

	for i := range l.Levels {
		level := &l.Levels[i]
		geom := scene.NewGeometry(f.GeometrySpec(st.Shape, size, f.multiplierFor(level.Detail, i)))
		level.Mesh.ReplaceGeometry(geom)
	}
	l.SetColor(st.Color)
	l.SetOpacity(1)
	l.Scale = 1
	l.RenderOrder = 0
	l.Data = scene.NodeData{Type: nodeType, OriginalColor: st.Color}
}

func (f *Factory) multiplierFor(detail scene.Detail, index int) float32 {
	for _, tier := range f.tiers {
		if tier.Detail == detail {
			return tier.SegmentMultiplier
		}
	}
	if index < len(f.tiers) {
		return f.tiers[index].SegmentMultiplier
	}
	return f.tiers[len(f.tiers)-1].SegmentMultiplier
}
