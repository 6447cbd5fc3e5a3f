package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// OrbitController moves a transform on a sphere around a center point,
// always looking at the center.
type OrbitController struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitController creates an orbit controller with default settings.
func NewOrbitController() *OrbitController {
	return &OrbitController{
		Distance:        20,
		Pitch:           0.5,
		MinDistance:     1,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the eye position in world space.
func (o *OrbitController) Position() math.Vec3 {
	cosPitch := gomath.Cos(float64(o.Pitch))
	return o.Center.Add(math.Vec3{
		X: o.Distance * float32(cosPitch*gomath.Sin(float64(o.Yaw))),
		Y: o.Distance * float32(gomath.Sin(float64(o.Pitch))),
		Z: o.Distance * float32(cosPitch*gomath.Cos(float64(o.Yaw))),
	})
}

// Apply places t on the orbit, facing the center.
func (o *OrbitController) Apply(t *transform.Transform) {
	t.SetPosition(o.Position())
	t.LookAt(o.Center, math.Vec3{Y: 1})
}

// HandleDrag updates rotation from a pointer drag delta in pixels.
func (o *OrbitController) HandleDrag(deltaX, deltaY float32) {
	o.Yaw -= deltaX * o.DragSensitivity
	o.Pitch = min(max(o.Pitch+deltaY*o.DragSensitivity, o.MinPitch), o.MaxPitch)
}

// HandleZoom updates distance from a scroll delta.
func (o *OrbitController) HandleZoom(delta float32) {
	o.Distance -= delta * o.Distance * o.ZoomSensitivity
	o.Distance = min(max(o.Distance, o.MinDistance), o.MaxDistance)
}

// HandleMovement pans the center on the ground plane relative to the yaw.
func (o *OrbitController) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := o.Distance * 0.01

	sin := float32(gomath.Sin(float64(o.Yaw)))
	cos := float32(gomath.Cos(float64(o.Yaw)))

	// Forward moves into the scene, away from the eye.
	o.Center.X += (-sin*forward + cos*right) * speed
	o.Center.Z += (-cos*forward - sin*right) * speed
	o.Center.Y += up * speed
}

// FitToBounds centers the orbit on box at a distance that frames it.
func (o *OrbitController) FitToBounds(box math.BoundingBox) {
	o.Center = box.Center()
	o.Distance = min(max(box.Radius()*2.5, o.MinDistance), o.MaxDistance)
	o.Pitch = min(max(0.6, o.MinPitch), o.MaxPitch) // about 35 degrees down
	o.Yaw = 0
}
