// Package camera provides the scene camera, whose view and projection
// matrices and frustum are derived lazily from its transform, projection
// parameters and render target size.
//
// A Camera is not safe for concurrent use. It is mutated and read by the
// update thread.
package camera

import (
	"errors"

	"github.com/Faultbox/midgard-scene/internal/engine/command"
	"github.com/Faultbox/midgard-scene/internal/engine/frustum"
	"github.com/Faultbox/midgard-scene/internal/engine/invalidation"
	"github.com/Faultbox/midgard-scene/internal/engine/services"
	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// ErrNilFrameBuffer is returned when a camera is given no render target.
var ErrNilFrameBuffer = errors.New("camera: nil frame buffer")

// Flag names one derived value of a Camera.
type Flag uint32

// Camera flags.
const (
	ProjectionMatrix Flag = 1 << iota
	ViewMatrix
	ViewProjectionMatrix
	ViewRotationProjectionMatrix
	Frustum
	AspectRatio
)

// Composite masks.
const (
	// ProjectionDependent is stale after any projection parameter changes.
	ProjectionDependent = ProjectionMatrix | ViewProjectionMatrix | ViewRotationProjectionMatrix | Frustum
	// ViewDependent is stale after the transform changes.
	ViewDependent = ViewMatrix | ViewProjectionMatrix | ViewRotationProjectionMatrix | Frustum

	allFlags = ProjectionDependent | ViewDependent | AspectRatio
)

// ProjectionType selects the projection.
type ProjectionType uint8

// Projection types.
const (
	Perspective ProjectionType = iota
	Orthographic
)

func (p ProjectionType) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// FrameBuffer is the render target a camera polls for its size.
type FrameBuffer interface {
	Size() (width, height int32)
}

// Defaults for new cameras.
const (
	DefaultFieldOfView      = 60
	DefaultZNear            = 0.1
	DefaultZFar             = 1000
	DefaultOrthographicSize = 10
)

// AllLayers is the layer mask that sees every layer.
const AllLayers = ^uint32(0)

// Camera renders the scene from its transform into a frame buffer.
type Camera struct {
	id          uint64
	svc         *services.Services
	transform   *transform.Transform
	frameBuffer FrameBuffer

	fieldOfView      float32
	zNear            float32
	zFar             float32
	projection       ProjectionType
	orthographicSize float32

	enabled    bool
	layerMask  uint32
	clearColor math.Color

	flags          invalidation.Set[Flag]
	transformStamp uint64
	fbWidth        int32
	fbHeight       int32

	aspectRatio            float32
	view                   math.Mat4
	projectionMatrix       math.Mat4
	viewProjection         math.Mat4
	viewRotationProjection math.Mat4
	frustum                frustum.Frustum
}

// New creates an enabled perspective camera rendering into fb and announces
// it on the command queue.
func New(svc *services.Services, fb FrameBuffer) (*Camera, error) {
	if fb == nil {
		return nil, ErrNilFrameBuffer
	}

	c := &Camera{
		id:               svc.CameraIDs.Next(),
		svc:              svc,
		transform:        transform.New(),
		frameBuffer:      fb,
		fieldOfView:      DefaultFieldOfView,
		zNear:            DefaultZNear,
		zFar:             DefaultZFar,
		projection:       Perspective,
		orthographicSize: DefaultOrthographicSize,
		enabled:          true,
		layerMask:        AllLayers,
		clearColor:       math.ColorBlack,
		flags:            invalidation.All(allFlags),
		fbWidth:          -1,
		fbHeight:         -1,
	}

	svc.Commands.Push(command.Command{
		Subject: command.SubjectCamera,
		Kind:    command.Create,
		ID:      c.id,
		Target:  c,
		Enabled: c.enabled,
	})
	return c, nil
}

// ID returns the process-unique camera id.
func (c *Camera) ID() uint64 {
	return c.id
}

// Transform returns the camera's transform. Mutating it is detected on the
// next derived read.
func (c *Camera) Transform() *transform.Transform {
	return c.transform
}

// FrameBuffer returns the render target.
func (c *Camera) FrameBuffer() FrameBuffer {
	return c.frameBuffer
}

// SetFrameBuffer changes the render target.
func (c *Camera) SetFrameBuffer(fb FrameBuffer) error {
	if fb == nil {
		return ErrNilFrameBuffer
	}
	c.frameBuffer = fb
	c.fbWidth, c.fbHeight = -1, -1
	return nil
}

// FieldOfView returns the vertical angle in degrees.
func (c *Camera) FieldOfView() float32 {
	return c.fieldOfView
}

// SetFieldOfView sets the vertical angle in degrees, clamped to [0, 180].
// NaN is ignored.
func (c *Camera) SetFieldOfView(degrees float32) {
	if isNaN(degrees) {
		return
	}
	degrees = min(max(degrees, 0), 180)
	if degrees == c.fieldOfView {
		return
	}
	c.fieldOfView = degrees
	c.flags.Invalidate(ProjectionDependent)
}

// ZNear returns the near plane distance.
func (c *Camera) ZNear() float32 {
	return c.zNear
}

// ZFar returns the far plane distance.
func (c *Camera) ZFar() float32 {
	return c.zFar
}

// SetZNear sets the near plane. If it passes the far plane the two swap.
func (c *Camera) SetZNear(z float32) {
	c.SetZPlanes(z, c.zFar)
}

// SetZFar sets the far plane. If it passes the near plane the two swap.
func (c *Camera) SetZFar(z float32) {
	c.SetZPlanes(c.zNear, z)
}

// SetZPlanes sets both planes, keeping near <= far. A NaN plane keeps its
// current value.
func (c *Camera) SetZPlanes(near, far float32) {
	if isNaN(near) {
		near = c.zNear
	}
	if isNaN(far) {
		far = c.zFar
	}
	if near > far {
		near, far = far, near
	}
	if near == c.zNear && far == c.zFar {
		return
	}
	c.zNear, c.zFar = near, far
	c.flags.Invalidate(ProjectionDependent)
}

// Projection returns the projection type.
func (c *Camera) Projection() ProjectionType {
	return c.projection
}

// SetProjection switches between perspective and orthographic projection.
func (c *Camera) SetProjection(p ProjectionType) {
	if p == c.projection {
		return
	}
	c.projection = p
	c.flags.Invalidate(ProjectionDependent)
}

// OrthographicSize returns the view height used by orthographic projection.
func (c *Camera) OrthographicSize() float32 {
	return c.orthographicSize
}

// SetOrthographicSize sets the view height used by orthographic projection.
// NaN is ignored.
func (c *Camera) SetOrthographicSize(size float32) {
	if isNaN(size) || size == c.orthographicSize {
		return
	}
	c.orthographicSize = size
	c.flags.Invalidate(ProjectionDependent)
}

// Enabled reports whether the renderer draws this camera.
func (c *Camera) Enabled() bool {
	return c.enabled
}

// SetEnabled toggles the camera and notifies the renderer on change.
func (c *Camera) SetEnabled(enabled bool) {
	if enabled == c.enabled {
		return
	}
	c.enabled = enabled
	c.svc.Commands.Push(command.Command{
		Subject: command.SubjectCamera,
		Kind:    command.EnabledChanged,
		ID:      c.id,
		Target:  c,
		Enabled: enabled,
	})
}

// LayerMask returns the layers the camera renders, one bit per layer.
func (c *Camera) LayerMask() uint32 {
	return c.layerMask
}

// SetLayerMask sets the layers the camera renders.
func (c *Camera) SetLayerMask(mask uint32) {
	c.layerMask = mask
}

// Sees reports whether layer (0-31) is in the layer mask.
func (c *Camera) Sees(layer uint32) bool {
	return layer < 32 && c.layerMask&(1<<layer) != 0
}

// ClearColor returns the color the target is cleared to before drawing.
func (c *Camera) ClearColor() math.Color {
	return c.clearColor
}

// SetClearColor sets the clear color.
func (c *Camera) SetClearColor(col math.Color) {
	c.clearColor = col
}

// Position returns the eye position.
func (c *Camera) Position() math.Vec3 {
	return c.transform.Position()
}

// poll folds external changes into the flags: transform mutations and frame
// buffer resizes are not reported by setters.
func (c *Camera) poll() {
	if ts := c.transform.Timestamp(); ts != c.transformStamp {
		c.transformStamp = ts
		c.flags.Invalidate(ViewDependent)
	}
	if w, h := c.frameBuffer.Size(); w != c.fbWidth || h != c.fbHeight {
		c.fbWidth, c.fbHeight = w, h
		c.flags.Invalidate(AspectRatio | ProjectionDependent)
	}
}

// AspectRatio returns width over height of the frame buffer, or 1 when the
// height is zero.
func (c *Camera) AspectRatio() float32 {
	c.poll()
	c.flags.Refresh(AspectRatio, func() {
		if c.fbHeight <= 0 {
			c.aspectRatio = 1
			return
		}
		c.aspectRatio = float32(c.fbWidth) / float32(c.fbHeight)
	})
	return c.aspectRatio
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math.Mat4 {
	c.poll()
	c.flags.Refresh(ViewMatrix, func() {
		c.view = c.svc.Matrices.View(c.transform)
	})
	return c.view
}

// ProjectionMatrix returns the view-to-clip matrix.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	c.poll()
	c.flags.Refresh(ProjectionMatrix, func() {
		aspect := c.AspectRatio()
		if c.projection == Orthographic {
			c.projectionMatrix = c.svc.Matrices.Orthographic(c.orthographicSize, aspect, c.zNear, c.zFar)
			return
		}
		c.projectionMatrix = c.svc.Matrices.Perspective(c.fieldOfView, aspect, c.zNear, c.zFar)
	})
	return c.projectionMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math.Mat4 {
	c.poll()
	c.flags.Refresh(ViewProjectionMatrix, func() {
		c.viewProjection = c.ProjectionMatrix().Mul(c.ViewMatrix())
	})
	return c.viewProjection
}

// ViewRotationProjectionMatrix is ViewProjectionMatrix without the camera
// translation, for sky rendering.
func (c *Camera) ViewRotationProjectionMatrix() math.Mat4 {
	c.poll()
	c.flags.Refresh(ViewRotationProjectionMatrix, func() {
		c.viewRotationProjection = c.ProjectionMatrix().Mul(c.svc.Matrices.RotationView(c.transform))
	})
	return c.viewRotationProjection
}

// Frustum returns the view volume. The returned value is owned by the camera
// and must not be modified.
func (c *Camera) Frustum() *frustum.Frustum {
	c.poll()
	c.flags.Refresh(Frustum, func() {
		c.frustum.Update(c.transform, frustum.Params{
			FieldOfView:      c.fieldOfView,
			AspectRatio:      c.AspectRatio(),
			ZNear:            c.zNear,
			ZFar:             c.zFar,
			Orthographic:     c.projection == Orthographic,
			OrthographicSize: c.orthographicSize,
		})
	})
	return &c.frustum
}

// Stale returns the derived values that will be recomputed on next read,
// without polling.
func (c *Camera) Stale() Flag {
	return c.flags.Bits()
}

func isNaN(v float32) bool {
	return v != v
}
