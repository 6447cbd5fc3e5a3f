package math

// Plane is the set of points p where Normal·p + Distance = 0.
// Points with a positive signed distance lie on the side the normal points to.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// PlaneFromPoint builds a plane with the given normal passing through point.
// The normal is normalized.
func PlaneFromPoint(normal, point Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: -n.Dot(point)}
}

// SignedDistance returns the signed distance from p to the plane.
// The conversion blocks fused multiply-add, so the point a plane was built
// from evaluates to exactly zero.
func (pl Plane) SignedDistance(p Vec3) float32 {
	return float32(pl.Normal.Dot(p)) + pl.Distance
}
