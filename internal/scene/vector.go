package scene

import (
	"cogentcore.org/core/math32"
)

// Vector3 is a point or direction in world space
type Vector3 = math32.Vector3

// Box3 is an axis aligned bounding box
type Box3 = math32.Box3

// Sphere is a bounding sphere
type Sphere = math32.Sphere

// Vec3 returns a new Vector3
func Vec3(x, y, z float32) Vector3 {
	return math32.Vec3(x, y, z)
}

// lerp3 interpolates between a and b by t
func lerp3(a, b Vector3, t float32) Vector3 {
	return a.Add(b.Sub(a).MulScalar(t))
}

// ApproxEqual compares two points with an absolute per-axis tolerance
func ApproxEqual(a, b Vector3, eps float32) bool {
	return math32.Abs(a.X-b.X) <= eps && math32.Abs(a.Y-b.Y) <= eps && math32.Abs(a.Z-b.Z) <= eps
}

// BoxCenter returns the midpoint of box, or the origin when box is empty
func BoxCenter(box Box3) Vector3 {
	if box.IsEmpty() {
		return Vector3{}
	}
	return box.Center()
}

// BoxExtent returns the largest side of box, or zero when box is empty
func BoxExtent(box Box3) float32 {
	if box.IsEmpty() {
		return 0
	}
	s := box.Size()
	return math32.Max(s.X, math32.Max(s.Y, s.Z))
}

// sphereBox returns the axis aligned box around s
func sphereBox(s Sphere) Box3 {
	var box Box3
	box.SetFromCenterAndSize(s.Center, Vec3(1, 1, 1).MulScalar(2*s.Radius))
	return box
}
