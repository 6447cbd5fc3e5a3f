package lighting

import (
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// DirectionalShadowMatrix returns an orthographic view-projection that looks
// along a directional light and encloses bounds. toLight points from the
// scene towards the light.
func DirectionalShadowMatrix(toLight math.Vec3, bounds math.BoundingBox) math.Mat4 {
	center := bounds.Center()
	radius := max(bounds.Radius(), 1)
	toLight = toLight.Normalize()

	// Place the eye outside the scene so the whole box is in front of it.
	distance := radius * 2
	eye := center.Add(toLight.Scale(distance))

	up := math.Vec3{Y: 1}
	if abs32(toLight.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	view := math.LookAt(eye, center, up)

	half := radius * 1.1
	far := distance + half
	proj := math.Ortho(-half, half, -half, half, 0.1, far)
	return proj.Mul(view)
}

// ShadowMatrix returns the light-space view-projection of a directional light
// for a scene with the given bounds. Other kinds return the identity.
func (l *LightSource) ShadowMatrix(bounds math.BoundingBox) math.Mat4 {
	if l.kind != Directional {
		return math.Identity()
	}
	return DirectionalShadowMatrix(l.Direction().Negate(), bounds)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
