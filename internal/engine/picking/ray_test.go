package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/internal/engine/camera"
	"github.com/Faultbox/midgard-scene/internal/engine/gpu/gputest"
	"github.com/Faultbox/midgard-scene/internal/engine/model"
	"github.com/Faultbox/midgard-scene/internal/engine/services"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

type screen struct{ w, h int32 }

func (s screen) Size() (int32, int32) { return s.w, s.h }

func TestScreenToRayThroughCenter(t *testing.T) {
	cam, err := camera.New(services.New(nil), screen{800, 600})
	require.NoError(t, err)
	cam.Transform().SetPosition(math.Vec3{Z: 10})

	r := ScreenToRay(cam, 400, 300)
	assert.InDelta(t, 0, r.Direction.X, 1e-4)
	assert.InDelta(t, 0, r.Direction.Y, 1e-4)
	assert.InDelta(t, -1, r.Direction.Z, 1e-4)
	assert.InDelta(t, 10-camera.DefaultZNear, r.Origin.Z, 1e-2)

	left := ScreenToRay(cam, 0, 300)
	assert.Less(t, left.Direction.X, float32(0))
	top := ScreenToRay(cam, 400, 0)
	assert.Greater(t, top.Direction.Y, float32(0))
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1, Y: -1}.Normalize()}
	p, ok := r.IntersectPlaneY(0)
	require.True(t, ok)
	assert.InDelta(t, 10, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)

	_, ok = r.IntersectPlaneY(20)
	assert.False(t, ok, "plane behind origin")

	flat := Ray{Direction: math.Vec3{X: 1}}
	_, ok = flat.IntersectPlaneY(1)
	assert.False(t, ok)
}

func TestIntersectBox(t *testing.T) {
	box := math.BoundingBox{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	tests := []struct {
		name string
		ray  Ray
		hit  bool
		dist float32
	}{
		{"front", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}, true, 4},
		{"inside", Ray{Direction: math.Vec3{X: 1}}, true, 1},
		{"miss", Ray{Origin: math.Vec3{X: 3, Z: 5}, Direction: math.Vec3{Z: -1}}, false, 0},
		{"behind", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := tt.ray.IntersectBox(box)
			assert.Equal(t, tt.hit, ok)
			assert.InDelta(t, tt.dist, d, 1e-5)
		})
	}
}

func TestPickNearest(t *testing.T) {
	svc := services.New(nil)
	vertices, indices := model.Cube(2)
	mesh, err := model.NewMesh(gputest.New(), nil, vertices, indices)
	require.NoError(t, err)

	far := model.New(svc, mesh, nil)
	far.Transform().SetPosition(math.Vec3{Z: -10})
	near := model.New(svc, mesh, nil)
	off := model.New(svc, mesh, nil)
	off.Transform().SetPosition(math.Vec3{Z: 3})
	require.NoError(t, off.SetEnabled(false))

	r := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}
	got, dist, ok := Pick(r, []*model.RenderModel{far, near, off})
	require.True(t, ok)
	assert.Same(t, near, got)
	assert.InDelta(t, 4, dist, 1e-5)

	_, _, ok = Pick(Ray{Origin: math.Vec3{X: 50}, Direction: math.Vec3{Z: -1}}, []*model.RenderModel{near})
	assert.False(t, ok)
}
