package scene

import (
	"sort"

	"cogentcore.org/core/math32"

	"ast3d/internal/domain"
)

// Object3D holds the transform and draw state shared by every scene object
type Object3D struct {
	Position    Vector3
	Scale       float32
	Visible     bool
	RenderOrder int

	parent *Group
}

func newObject3D() Object3D {
	return Object3D{Scale: 1, Visible: true}
}

// Parent returns the group the object is attached to, or nil
func (o *Object3D) Parent() *Group {
	return o.parent
}

// Mesh is a geometry drawn with one of two materials depending on scene lighting
type Mesh struct {
	Geometry *Geometry
	Lit      *Material
	Unlit    *Material

	lighting bool
}

// NewMesh creates a mesh with a lit and an unlit material of the same color
func NewMesh(geometry *Geometry, color Color) *Mesh {
	return &Mesh{
		Geometry: geometry,
		Lit:      NewMaterial(ShadingLambert, color),
		Unlit:    NewMaterial(ShadingBasic, color),
		lighting: true,
	}
}

// Material returns the material currently used for drawing
func (m *Mesh) Material() *Material {
	if m.lighting {
		return m.Lit
	}
	return m.Unlit
}

// SetLighting selects the lit or unlit material
func (m *Mesh) SetLighting(on bool) {
	m.lighting = on
}

func (m *Mesh) materials() [2]*Material {
	return [2]*Material{m.Lit, m.Unlit}
}

// ReplaceGeometry disposes the current geometry before installing g
func (m *Mesh) ReplaceGeometry(g *Geometry) {
	if m.Geometry != nil {
		m.Geometry.Dispose()
	}
	m.Geometry = g
}

// Detail names an LOD tier
type Detail string

const (
	DetailHigh   Detail = "high"
	DetailMedium Detail = "medium"
	DetailLow    Detail = "low"
)

// LODLevel is one detail tier, used from Distance outward
type LODLevel struct {
	Distance float32
	Detail   Detail
	Mesh     *Mesh
}

// NodeData tags a node object with the graph node it currently represents
type NodeData struct {
	Node          domain.GraphNode `json:"node"`
	Type          string           `json:"type"`
	OriginalColor Color            `json:"original_color"`
}

// ID returns the graph node ID
func (d NodeData) ID() string {
	return d.Node.ID
}

// LOD is a node object: one logical node drawn with the level matching camera distance
type LOD struct {
	Object3D
	Levels []LODLevel
	Data   NodeData
}

// NewLOD returns an empty LOD container
func NewLOD() *LOD {
	return &LOD{Object3D: newObject3D()}
}

// AddLevel inserts a tier, keeping levels ordered by ascending distance
func (l *LOD) AddLevel(mesh *Mesh, distance float32, detail Detail) {
	l.Levels = append(l.Levels, LODLevel{Distance: distance, Detail: detail, Mesh: mesh})
	sort.SliceStable(l.Levels, func(i, j int) bool {
		return l.Levels[i].Distance < l.Levels[j].Distance
	})
}

// LevelFor returns the tier drawn at the given camera distance
func (l *LOD) LevelFor(distance float32) *LODLevel {
	if len(l.Levels) == 0 {
		return nil
	}
	for i := len(l.Levels) - 1; i >= 0; i-- {
		if distance >= l.Levels[i].Distance {
			return &l.Levels[i]
		}
	}
	return &l.Levels[0]
}

// BoundingSphere returns the world-space bounds of the largest tier
func (l *LOD) BoundingSphere() Sphere {
	var r float32
	for _, level := range l.Levels {
		if level.Mesh != nil && level.Mesh.Geometry != nil {
			r = math32.Max(r, level.Mesh.Geometry.BoundingRadius())
		}
	}
	return Sphere{Center: l.Position, Radius: r * l.Scale}
}

// SetColor sets the diffuse color of every tier
func (l *LOD) SetColor(c Color) {
	l.eachMaterial(func(m *Material) {
		m.Color = c
		m.Emissive = Black
	})
}

// SetOpacity sets the opacity of every tier. Materials stay transparent so
// they can fade without a pipeline switch.
func (l *LOD) SetOpacity(o float32) {
	l.eachMaterial(func(m *Material) {
		m.Opacity = o
		m.Transparent = true
		m.MarkDirty()
	})
}

// Color returns the current diffuse color
func (l *LOD) Color() Color {
	if len(l.Levels) == 0 {
		return l.Data.OriginalColor
	}
	return l.Levels[0].Mesh.Material().Color
}

// Opacity returns the current opacity
func (l *LOD) Opacity() float32 {
	if len(l.Levels) == 0 {
		return 1
	}
	return l.Levels[0].Mesh.Material().Opacity
}

// SetLighting switches every tier between lit and unlit materials
func (l *LOD) SetLighting(on bool) {
	for _, level := range l.Levels {
		level.Mesh.SetLighting(on)
	}
}

func (l *LOD) eachMaterial(fn func(*Material)) {
	for _, level := range l.Levels {
		for _, m := range level.Mesh.materials() {
			fn(m)
		}
	}
}

// EdgeData tags a line with the IDs of its endpoints.
// Endpoints are resolved through the node index, never held as pointers.
type EdgeData struct {
	Source       string                  `json:"source"`
	Target       string                  `json:"target"`
	SourceType   string                  `json:"source_type"`
	TargetType   string                  `json:"target_type"`
	Relationship domain.RelationshipType `json:"relationship"`
}

// Line is an edge object: a two-point polyline
type Line struct {
	Object3D
	Start    Vector3
	End      Vector3
	Material *Material
	Data     EdgeData
}

// NewLine returns a line with a half transparent material that does not write depth
func NewLine(color Color, opacity float32) *Line {
	m := NewMaterial(ShadingBasic, color)
	m.Opacity = opacity
	m.Transparent = true
	m.DepthWrite = false
	return &Line{Object3D: newObject3D(), Material: m}
}

// SetEndpoints rewrites both endpoint positions
func (l *Line) SetEndpoints(start, end Vector3) {
	l.Start = start
	l.End = end
}

// Translate moves both endpoints by offset
func (l *Line) Translate(offset Vector3) {
	l.Start = l.Start.Add(offset)
	l.End = l.End.Add(offset)
}

// BoundingSphere returns the sphere through both endpoints
func (l *Line) BoundingSphere() Sphere {
	return Sphere{
		Center: lerp3(l.Start, l.End, 0.5),
		Radius: l.Start.DistanceTo(l.End) / 2,
	}
}
