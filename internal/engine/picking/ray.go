// Package picking casts rays from a camera into the scene.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-scene/internal/engine/camera"
	"github.com/Faultbox/midgard-scene/internal/engine/model"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates on the camera's frame buffer to a
// world-space ray starting on the near plane. y grows downwards.
func ScreenToRay(cam *camera.Camera, x, y float32) Ray {
	w, h := cam.FrameBuffer().Size()
	return Unproject(x, y, float32(w), float32(h), cam.ViewProjectionMatrix().Inverse())
}

// Unproject converts pixel coordinates to a world-space ray using the inverse
// view-projection matrix.
func Unproject(x, y, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*x/viewportW - 1.0
	ndcY := 1.0 - 2.0*y/viewportH

	near := unprojectPoint(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unprojectPoint(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unprojectPoint(inv math.Mat4, clip math.Vec4) math.Vec3 {
	p := inv.MulVec4(clip)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// IntersectPlaneY intersects the ray with the horizontal plane at height y.
func (r Ray) IntersectPlaneY(y float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return math.Vec3{}, false
	}
	t := (y - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectBox returns the distance to the first intersection with box. If
// the ray starts inside the box, the exit distance is returned.
func (r Ray) IntersectBox(box math.BoundingBox) (float32, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()
	for axis := range 3 {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Pick returns the enabled model whose bounding box the ray hits first.
func Pick(r Ray, models []*model.RenderModel) (*model.RenderModel, float32, bool) {
	var (
		best     *model.RenderModel
		bestDist float32
	)
	for _, m := range models {
		if !m.Enabled() || m.Mesh() == nil {
			continue
		}
		if t, ok := r.IntersectBox(m.BoundingBox()); ok && (best == nil || t < bestDist) {
			best, bestDist = m, t
		}
	}
	return best, bestDist, best != nil
}
