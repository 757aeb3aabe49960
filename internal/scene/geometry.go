package scene

import (
	"cogentcore.org/core/math32"
)

// Shape names a geometry primitive
type Shape string

const (
	ShapeSphere      Shape = "sphere"
	ShapeBox         Shape = "box"
	ShapeCube        Shape = "cube"
	ShapeTetrahedron Shape = "tetrahedron"
	ShapeOctahedron  Shape = "octahedron"
	ShapeIcosahedron Shape = "icosahedron"
)

// Known reports whether the primitive set can build s
func (s Shape) Known() bool {
	switch s {
	case ShapeSphere, ShapeBox, ShapeCube, ShapeTetrahedron, ShapeOctahedron, ShapeIcosahedron:
		return true
	}
	return false
}

// GeometrySpec describes a primitive to build.
// Size is the radius for spheres and polyhedra and the edge length for boxes.
type GeometrySpec struct {
	Shape          Shape   `json:"shape"`
	Size           float32 `json:"size"`
	WidthSegments  int     `json:"width_segments,omitempty"`
	HeightSegments int     `json:"height_segments,omitempty"`
	Detail         int     `json:"detail,omitempty"`
}

// Geometry is a built primitive. The headless scene keeps only its parameters
// and derived bounds; a GPU renderer would hold buffers keyed on it.
type Geometry struct {
	Spec     GeometrySpec
	disposed bool
}

// NewGeometry builds the primitive described by spec
func NewGeometry(spec GeometrySpec) *Geometry {
	return &Geometry{Spec: spec}
}

// BoundingRadius returns the radius of a sphere centered on the local origin
// that contains the primitive
func (g *Geometry) BoundingRadius() float32 {
	switch g.Spec.Shape {
	case ShapeBox, ShapeCube:
		return g.Spec.Size * math32.Sqrt(3) / 2
	default:
		return g.Spec.Size
	}
}

// Dispose releases the geometry's resources. Disposed geometry must not be drawn.
func (g *Geometry) Dispose() {
	g.disposed = true
}

// Disposed reports whether Dispose has been called
func (g *Geometry) Disposed() bool {
	return g.disposed
}

// Shading selects the lighting model of a material
type Shading int

const (
	// ShadingLambert reacts to scene lights
	ShadingLambert Shading = iota
	// ShadingBasic ignores lights
	ShadingBasic
)

// Material holds the mutable appearance of a mesh or line
type Material struct {
	Shading     Shading
	Color       Color
	Emissive    Color
	Opacity     float32
	Transparent bool
	DepthTest   bool
	DepthWrite  bool
	// Version increments whenever the renderer must re-upload the material
	Version int
}

// NewMaterial returns an opaque material of the given color
func NewMaterial(shading Shading, color Color) *Material {
	return &Material{
		Shading:    shading,
		Color:      color,
		Opacity:    1,
		DepthTest:  true,
		DepthWrite: true,
	}
}

// MarkDirty flags the material for re-upload
func (m *Material) MarkDirty() {
	m.Version++
}
