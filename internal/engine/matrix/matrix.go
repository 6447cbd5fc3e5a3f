// Package matrix builds the view, projection and model matrices consumed by
// cameras and render models. Callers treat a Factory as a pure function
// provider and never validate its output.
package matrix

import (
	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Factory fills view, projection and model matrices.
type Factory interface {
	// View returns the world-to-view matrix for t.
	View(t *transform.Transform) math.Mat4
	// RotationView is View without the translation, used for sky rendering.
	RotationView(t *transform.Transform) math.Mat4
	// Model returns the object-to-world matrix T * R * S.
	Model(t *transform.Transform) math.Mat4
	// Perspective returns a projection; fieldOfView is the vertical angle in degrees.
	Perspective(fieldOfView, aspect, zNear, zFar float32) math.Mat4
	// Orthographic returns a projection with the given view-space height.
	Orthographic(height, aspect, zNear, zFar float32) math.Mat4
}

// Default is the Factory built on pkg/math.
type Default struct{}

var _ Factory = Default{}

// View implements Factory.
func (Default) View(t *transform.Transform) math.Mat4 {
	eye := t.Position()
	return math.LookAt(eye, eye.Add(t.Forward()), t.Up())
}

// RotationView implements Factory.
func (Default) RotationView(t *transform.Transform) math.Mat4 {
	return math.LookAt(math.Vec3{}, t.Forward(), t.Up())
}

// Model implements Factory.
func (Default) Model(t *transform.Transform) math.Mat4 {
	return math.Compose(t.Position(), t.Rotation(), t.Scale())
}

// Perspective implements Factory.
func (Default) Perspective(fieldOfView, aspect, zNear, zFar float32) math.Mat4 {
	return math.Perspective(math.DegToRad(fieldOfView), aspect, zNear, zFar)
}

// Orthographic implements Factory.
func (Default) Orthographic(height, aspect, zNear, zFar float32) math.Mat4 {
	halfH := height / 2
	halfW := halfH * aspect
	return math.Ortho(-halfW, halfW, -halfH, halfH, zNear, zFar)
}
