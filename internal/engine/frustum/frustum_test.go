package frustum

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

func perspective() Params {
	return Params{FieldOfView: 60, AspectRatio: 16.0 / 9.0, ZNear: 0.1, ZFar: 100}
}

func TestForwardPoints(t *testing.T) {
	tr := transform.New()
	var f Frustum
	f.Update(tr, perspective())

	fwd := tr.Forward()
	assert.True(t, f.IsInFrustum(fwd.Scale(50)))
	assert.False(t, f.IsInFrustum(fwd.Scale(150)))
	assert.False(t, f.IsInFrustum(fwd.Scale(-1)), "behind the camera")
}

func TestEyeAndFarCenter(t *testing.T) {
	tr := transform.New()
	tr.SetPosition(math.Vec3{X: 3, Y: 2, Z: 10})
	tr.LookAt(math.Vec3{X: -4, Y: 0, Z: 0}, math.Vec3{Y: 1})

	var f Frustum
	f.Update(tr, perspective())

	assert.False(t, f.IsInFrustum(tr.Position()), "eye lies behind the near plane")
	assert.True(t, f.IsInFrustum(f.FarCenter()))
	assert.True(t, f.IsInFrustum(f.NearCenter()))
	assert.Zero(t, f.Plane(Far).SignedDistance(f.FarCenter()))
}

func TestCornersLieOnPlanes(t *testing.T) {
	tr := transform.New()
	tr.Rotate(math.Vec3{Y: 1}, 0.7)
	tr.SetPosition(math.Vec3{X: 1, Y: -2, Z: 5})

	var f Frustum
	f.Update(tr, perspective())

	c := f.Corners()
	near := f.Plane(Near)
	far := f.Plane(Far)
	for i := NearTopLeft; i <= NearBottomLeft; i++ {
		assert.InDelta(t, 0, near.SignedDistance(c[i]), 1e-4)
	}
	for i := FarTopLeft; i <= FarBottomLeft; i++ {
		assert.InDelta(t, 0, far.SignedDistance(c[i]), 1e-3)
	}
	assert.InDelta(t, 0, f.Plane(Left).SignedDistance(c[FarTopLeft]), 1e-3)
	assert.InDelta(t, 0, f.Plane(Right).SignedDistance(c[FarBottomRight]), 1e-3)
	assert.InDelta(t, 0, f.Plane(Top).SignedDistance(c[FarTopRight]), 1e-3)
	assert.InDelta(t, 0, f.Plane(Bottom).SignedDistance(c[FarBottomLeft]), 1e-3)
}

// extractPlanes is the Gribb-Hartmann extraction from a view-projection matrix.
func extractPlanes(vp mgl32.Mat4) [6]mgl32.Vec4 {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	raw := [6]mgl32.Vec4{
		Near:   r3.Add(r2),
		Far:    r3.Sub(r2),
		Left:   r3.Add(r0),
		Right:  r3.Sub(r0),
		Top:    r3.Sub(r1),
		Bottom: r3.Add(r1),
	}
	for i, p := range raw {
		raw[i] = p.Mul(1 / p.Vec3().Len())
	}
	return raw
}

func oracle(eye, target mgl32.Vec3, p Params) mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(p.FieldOfView), p.AspectRatio, p.ZNear, p.ZFar)
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

func TestPlanesMatchExtraction(t *testing.T) {
	eye := mgl32.Vec3{4, 3, 8}
	target := mgl32.Vec3{0, 1, -2}
	p := perspective()

	tr := transform.New()
	tr.SetPosition(math.Vec3{X: eye[0], Y: eye[1], Z: eye[2]})
	tr.LookAt(math.Vec3{X: target[0], Y: target[1], Z: target[2]}, math.Vec3{Y: 1})

	var f Frustum
	f.Update(tr, p)

	want := extractPlanes(oracle(eye, target, p))
	for s := Near; s <= Bottom; s++ {
		got := f.Plane(s)
		assert.InDelta(t, want[s][0], got.Normal.X, 1e-3, "%s normal x", s)
		assert.InDelta(t, want[s][1], got.Normal.Y, 1e-3, "%s normal y", s)
		assert.InDelta(t, want[s][2], got.Normal.Z, 1e-3, "%s normal z", s)
		assert.InDelta(t, want[s][3], got.Distance, 1e-2, "%s distance", s)
	}
}

func TestPointsMatchClipSpace(t *testing.T) {
	eye := mgl32.Vec3{-2, 5, 3}
	target := mgl32.Vec3{6, 0, -20}
	p := perspective()
	vp := oracle(eye, target, p)

	tr := transform.New()
	tr.SetPosition(math.Vec3{X: eye[0], Y: eye[1], Z: eye[2]})
	tr.LookAt(math.Vec3{X: target[0], Y: target[1], Z: target[2]}, math.Vec3{Y: 1})
	var f Frustum
	f.Update(tr, p)

	rng := rand.New(rand.NewPCG(7, 11))
	checked := 0
	for i := 0; i < 5000; i++ {
		pt := mgl32.Vec3{
			eye[0] + (rng.Float32()*2-1)*120,
			eye[1] + (rng.Float32()*2-1)*60,
			eye[2] + (rng.Float32()*2-1)*120,
		}
		clip := vp.Mul4x1(pt.Vec4(1))
		w := clip[3]
		margin := min(w-abs(clip[0]), w-abs(clip[1]), w-abs(clip[2]))
		if abs(margin) < 1e-2*abs(w)+1e-3 {
			continue
		}
		want := margin > 0
		got := f.IsInFrustum(math.Vec3{X: pt[0], Y: pt[1], Z: pt[2]})
		require.Equal(t, want, got, "point %v", pt)
		checked++
	}
	assert.Greater(t, checked, 4000)
}

func abs(x float32) float32 {
	return float32(gomath.Abs(float64(x)))
}

func TestBoxes(t *testing.T) {
	tr := transform.New()
	var f Frustum
	f.Update(tr, perspective())

	unit := func(c math.Vec3) math.BoundingBox {
		return math.BoundingBox{Min: c.Sub(math.Vec3{X: 1, Y: 1, Z: 1}), Max: c.Add(math.Vec3{X: 1, Y: 1, Z: 1})}
	}

	tests := []struct {
		name string
		box  math.BoundingBox
		want bool
	}{
		{"in front", unit(math.Vec3{Z: -20}), true},
		{"straddles near plane", unit(math.Vec3{}), true},
		{"behind", unit(math.Vec3{Z: 10}), false},
		{"beyond far", unit(math.Vec3{Z: -120}), false},
		{"straddles far", unit(math.Vec3{Z: -100.5}), true},
		{"far left", unit(math.Vec3{X: -100, Z: -20}), false},
		{"straddles left edge", unit(math.Vec3{X: -20.5, Z: -20}), true},
		{"above", unit(math.Vec3{Y: 50, Z: -20}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsBoxInFrustum(tt.box))
		})
	}
}

func TestOrthographic(t *testing.T) {
	tr := transform.New()
	var f Frustum
	f.Update(tr, Params{AspectRatio: 2, ZNear: 1, ZFar: 50, Orthographic: true, OrthographicSize: 10})

	assert.True(t, f.IsInFrustum(math.Vec3{X: 9.9, Y: 4.9, Z: -49}))
	assert.False(t, f.IsInFrustum(math.Vec3{X: 10.1, Z: -10}))
	assert.False(t, f.IsInFrustum(math.Vec3{Y: -5.1, Z: -10}))
	assert.False(t, f.IsInFrustum(math.Vec3{Z: -0.5}))

	c := f.Corners()
	assert.Equal(t, c[NearTopLeft].X, c[FarTopLeft].X, "orthographic sides are parallel")
	assert.InDelta(t, -10, c[NearTopLeft].X, 1e-5)
	assert.InDelta(t, 5, c[NearTopLeft].Y, 1e-5)
}

func TestUpdateOverwrites(t *testing.T) {
	tr := transform.New()
	var f Frustum
	f.Update(tr, perspective())
	p := math.Vec3{Z: -50}
	require.True(t, f.IsInFrustum(p))

	tr.Rotate(math.Vec3{Y: 1}, gomath.Pi)
	f.Update(tr, perspective())
	assert.False(t, f.IsInFrustum(p))
	assert.True(t, f.IsInFrustum(math.Vec3{Z: 50}))
}
