// Package transform provides the position/rotation/scale primitive owned by
// cameras, render models and light sources.
package transform

import (
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Transform is a position, rotation and scale with a change timestamp.
//
// Timestamp increases on every mutation. Owners keep a snapshot of it and
// compare on read to notice changes made through the Transform directly.
type Transform struct {
	position  math.Vec3
	rotation  math.Quat
	scale     math.Vec3
	timestamp uint64
}

// New returns an identity transform.
func New() *Transform {
	return &Transform{
		rotation:  math.QuatIdentity(),
		scale:     math.Vec3{X: 1, Y: 1, Z: 1},
		timestamp: 1,
	}
}

// Timestamp returns the mutation counter. It starts at 1.
func (t *Transform) Timestamp() uint64 {
	return t.timestamp
}

func (t *Transform) touch() {
	t.timestamp++
}

// Position returns the world position.
func (t *Transform) Position() math.Vec3 {
	return t.position
}

// SetPosition moves the transform to p.
func (t *Transform) SetPosition(p math.Vec3) {
	t.position = p
	t.touch()
}

// Translate moves the transform by delta in world space.
func (t *Transform) Translate(delta math.Vec3) {
	t.position = t.position.Add(delta)
	t.touch()
}

// Rotation returns the orientation.
func (t *Transform) Rotation() math.Quat {
	return t.rotation
}

// SetRotation sets the orientation. q is normalized.
func (t *Transform) SetRotation(q math.Quat) {
	t.rotation = q.Normalize()
	t.touch()
}

// Rotate applies a world-space rotation of angle radians around axis.
func (t *Transform) Rotate(axis math.Vec3, angle float32) {
	delta := math.QuatFromAxisAngle(axis.Normalize(), angle)
	t.rotation = delta.Mul(t.rotation).Normalize()
	t.touch()
}

// Scale returns the scale factors.
func (t *Transform) Scale() math.Vec3 {
	return t.scale
}

// SetScale sets the scale factors.
func (t *Transform) SetScale(s math.Vec3) {
	t.scale = s
	t.touch()
}

// LookAt orients the transform so Forward points at target.
// If target coincides with the position the call is ignored.
func (t *Transform) LookAt(target, up math.Vec3) {
	f := target.Sub(t.position).Normalize()
	if f == (math.Vec3{}) {
		return
	}
	r := f.Cross(up).Normalize()
	if r == (math.Vec3{}) {
		// up is parallel to the view direction
		alt := math.Vec3{Z: 1}
		if abs32(f.Z) > 0.99 {
			alt = math.Vec3{X: 1}
		}
		r = f.Cross(alt).Normalize()
	}
	u := r.Cross(f)
	t.rotation = math.QuatFromBasis(r, u, f.Negate())
	t.touch()
}

// PositiveX returns the local +X axis in world space.
func (t *Transform) PositiveX() math.Vec3 {
	return t.rotation.Rotate(math.Vec3{X: 1})
}

// PositiveY returns the local +Y axis in world space.
func (t *Transform) PositiveY() math.Vec3 {
	return t.rotation.Rotate(math.Vec3{Y: 1})
}

// PositiveZ returns the local +Z axis in world space.
func (t *Transform) PositiveZ() math.Vec3 {
	return t.rotation.Rotate(math.Vec3{Z: 1})
}

// Right is an alias of PositiveX.
func (t *Transform) Right() math.Vec3 {
	return t.PositiveX()
}

// Up is an alias of PositiveY.
func (t *Transform) Up() math.Vec3 {
	return t.PositiveY()
}

// Forward returns the viewing direction, the local -Z axis (OpenGL convention).
func (t *Transform) Forward() math.Vec3 {
	return t.PositiveZ().Negate()
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
