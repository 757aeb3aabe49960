package scene

import (
	"sort"

	"cogentcore.org/core/math32"
)

// Pose is a camera position and the orbit target it looks at
type Pose struct {
	Position Vector3 `json:"position"`
	Target   Vector3 `json:"target"`
}

// Lerp interpolates both position and target
func (p Pose) Lerp(o Pose, t float32) Pose {
	return Pose{
		Position: lerp3(p.Position, o.Position, t),
		Target:   lerp3(p.Target, o.Target, t),
	}
}

// Camera is a perspective camera with an orbit target
type Camera struct {
	Position Vector3
	Target   Vector3
	Up       Vector3
	// FOV is the vertical field of view in degrees
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z
func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Target: Vec3(0, 0, -1),
		Up:     Vec3(0, 1, 0),
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// FOVRadians returns the vertical field of view in radians
func (c *Camera) FOVRadians() float32 {
	return math32.DegToRad(c.FOV)
}

// Pose returns the current position and target
func (c *Camera) Pose() Pose {
	return Pose{Position: c.Position, Target: c.Target}
}

// SetPose moves the camera and its target
func (c *Camera) SetPose(p Pose) {
	c.Position = p.Position
	c.Target = p.Target
}

// Ray is a half line used for picking
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// RayFromNDC returns the ray through normalized device coordinates x, y in [-1, 1]
func (c *Camera) RayFromNDC(x, y float32) Ray {
	forward := c.Target.Sub(c.Position).Normal()
	right := forward.Cross(c.Up).Normal()
	up := right.Cross(forward)
	tanHalf := math32.Tan(c.FOVRadians() / 2)
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	dir := forward.
		Add(right.MulScalar(x * tanHalf * aspect)).
		Add(up.MulScalar(y * tanHalf))
	return Ray{Origin: c.Position, Direction: dir.Normal()}
}

// IntersectSphere returns the distance along the ray to the first hit
func (r Ray) IntersectSphere(s Sphere) (float32, bool) {
	oc := s.Center.Sub(r.Origin)
	tca := oc.Dot(r.Direction)
	d2 := oc.Dot(oc) - tca*tca
	r2 := s.Radius * s.Radius
	if d2 > r2 {
		return 0, false
	}
	thc := math32.Sqrt(r2 - d2)
	t0, t1 := tca-thc, tca+thc
	if t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		return t1, true
	}
	return t0, true
}

// Intersection is a picking hit
type Intersection struct {
	Distance float32
	Node     *LOD
}

// Raycast tests the ray against the candidates and returns hits nearest first
func Raycast(ray Ray, candidates []*LOD) []Intersection {
	var hits []Intersection
	for _, n := range candidates {
		if d, ok := ray.IntersectSphere(n.BoundingSphere()); ok {
			hits = append(hits, Intersection{Distance: d, Node: n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// NodeBounds returns the box enclosing the bounding spheres of nodes
func NodeBounds(nodes []*LOD) Box3 {
	box := math32.B3Empty()
	for _, n := range nodes {
		box.ExpandByBox(sphereBox(n.BoundingSphere()))
	}
	return box
}

// PositionBounds returns the box enclosing the node positions
func PositionBounds(nodes []*LOD) Box3 {
	box := math32.B3Empty()
	for _, n := range nodes {
		box.ExpandByPoint(n.Position)
	}
	return box
}
