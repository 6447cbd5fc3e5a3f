// Package frustum computes view-volume planes and corners for culling.
package frustum

import (
	gomath "math"

	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Side indexes the six planes.
type Side int

// Frustum sides.
const (
	Near Side = iota
	Far
	Left
	Right
	Top
	Bottom
)

func (s Side) String() string {
	return [...]string{"near", "far", "left", "right", "top", "bottom"}[s]
}

// Corner indexes the eight corners: near corners first, then far, each as
// top-left, top-right, bottom-right, bottom-left.
const (
	NearTopLeft = iota
	NearTopRight
	NearBottomRight
	NearBottomLeft
	FarTopLeft
	FarTopRight
	FarBottomRight
	FarBottomLeft
)

// Params are the projection parameters a frustum is built from.
type Params struct {
	// FieldOfView is the vertical angle in degrees.
	FieldOfView  float32
	AspectRatio  float32
	ZNear        float32
	ZFar         float32
	Orthographic bool
	// OrthographicSize is the view height of an orthographic projection.
	OrthographicSize float32
}

// Frustum is a view volume bounded by six inward-facing planes.
type Frustum struct {
	planes     [6]math.Plane
	corners    [8]math.Vec3
	nearCenter math.Vec3
	farCenter  math.Vec3
}

// Update recomputes every plane and corner from the transform and p.
func (f *Frustum) Update(t *transform.Transform, p Params) {
	pos := t.Position()
	fwd := t.Forward()
	up := t.Up()
	right := t.Right()

	nc := pos.Add(fwd.Scale(p.ZNear))
	fc := pos.Add(fwd.Scale(p.ZFar))

	var nh, nw, fh, fw float32
	if p.Orthographic {
		nh = p.OrthographicSize / 2
		nw = nh * p.AspectRatio
		fh, fw = nh, nw
	} else {
		tanHalf := float32(gomath.Tan(float64(math.DegToRad(p.FieldOfView)) / 2))
		nh = tanHalf * p.ZNear
		nw = nh * p.AspectRatio
		fh = tanHalf * p.ZFar
		fw = fh * p.AspectRatio
	}

	f.nearCenter = nc
	f.farCenter = fc
	f.corners = [8]math.Vec3{
		NearTopLeft:     nc.Add(up.Scale(nh)).Sub(right.Scale(nw)),
		NearTopRight:    nc.Add(up.Scale(nh)).Add(right.Scale(nw)),
		NearBottomRight: nc.Sub(up.Scale(nh)).Add(right.Scale(nw)),
		NearBottomLeft:  nc.Sub(up.Scale(nh)).Sub(right.Scale(nw)),
		FarTopLeft:      fc.Add(up.Scale(fh)).Sub(right.Scale(fw)),
		FarTopRight:     fc.Add(up.Scale(fh)).Add(right.Scale(fw)),
		FarBottomRight:  fc.Sub(up.Scale(fh)).Add(right.Scale(fw)),
		FarBottomLeft:   fc.Sub(up.Scale(fh)).Sub(right.Scale(fw)),
	}

	f.planes[Near] = math.PlaneFromPoint(fwd, nc)
	f.planes[Far] = math.PlaneFromPoint(fwd.Negate(), fc)

	if p.Orthographic {
		f.planes[Left] = math.PlaneFromPoint(right, nc.Sub(right.Scale(nw)))
		f.planes[Right] = math.PlaneFromPoint(right.Negate(), nc.Add(right.Scale(nw)))
		f.planes[Top] = math.PlaneFromPoint(up.Negate(), nc.Add(up.Scale(nh)))
		f.planes[Bottom] = math.PlaneFromPoint(up, nc.Sub(up.Scale(nh)))
		return
	}

	// Side planes pass through the eye. Edge vectors run from the eye to the
	// far plane so a zero near distance still yields valid normals.
	toLeft := fc.Sub(right.Scale(fw)).Sub(pos)
	toRight := fc.Add(right.Scale(fw)).Sub(pos)
	toTop := fc.Add(up.Scale(fh)).Sub(pos)
	toBottom := fc.Sub(up.Scale(fh)).Sub(pos)

	f.planes[Left] = math.PlaneFromPoint(toLeft.Cross(up), pos)
	f.planes[Right] = math.PlaneFromPoint(up.Cross(toRight), pos)
	f.planes[Top] = math.PlaneFromPoint(toTop.Cross(right), pos)
	f.planes[Bottom] = math.PlaneFromPoint(right.Cross(toBottom), pos)
}

// IsInFrustum reports whether point lies inside or on the boundary.
func (f *Frustum) IsInFrustum(point math.Vec3) bool {
	for _, pl := range f.planes {
		if pl.SignedDistance(point) < 0 {
			return false
		}
	}
	return true
}

// IsBoxInFrustum reports whether box may be visible. It is conservative:
// boxes straddling a plane count as inside.
func (f *Frustum) IsBoxInFrustum(box math.BoundingBox) bool {
	for _, pl := range f.planes {
		if pl.SignedDistance(box.PositiveVertex(pl.Normal)) < 0 {
			return false
		}
	}
	return true
}

// Planes returns the six planes indexed by Side.
func (f *Frustum) Planes() [6]math.Plane {
	return f.planes
}

// Plane returns one plane.
func (f *Frustum) Plane(s Side) math.Plane {
	return f.planes[s]
}

// Corners returns the eight corner points.
func (f *Frustum) Corners() [8]math.Vec3 {
	return f.corners
}

// NearCenter returns the center of the near rectangle.
func (f *Frustum) NearCenter() math.Vec3 {
	return f.nearCenter
}

// FarCenter returns the center of the far rectangle.
func (f *Frustum) FarCenter() math.Vec3 {
	return f.farCenter
}
