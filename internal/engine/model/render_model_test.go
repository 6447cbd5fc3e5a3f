package model

import (
	gomath "math"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/internal/engine/command"
	"github.com/Faultbox/midgard-scene/internal/engine/gpu/gputest"
	"github.com/Faultbox/midgard-scene/internal/engine/matrix"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/internal/engine/services"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

func newCube(t *testing.T, size float32) *Mesh {
	t.Helper()
	vertices, indices := Cube(size)
	mesh, err := NewMesh(gputest.New(), nil, vertices, indices)
	require.NoError(t, err)
	return mesh
}

func newModel(t *testing.T, mesh *Mesh) (*RenderModel, *matrix.Counting, *command.Buffer) {
	t.Helper()
	counting := matrix.NewCounting(nil)
	cmds := command.NewBuffer(8)
	m := New(services.New(cmds).WithMatrices(counting), mesh, nil)
	t.Cleanup(func() { runtime.KeepAlive(m) })
	return m, counting, cmds
}

func kinds(cmds []command.Command) []command.Kind {
	out := make([]command.Kind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func TestNewPushesCreate(t *testing.T) {
	mesh := newCube(t, 1)
	m, _, cmds := newModel(t, mesh)

	got := cmds.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, command.SubjectRenderModel, got[0].Subject)
	assert.Equal(t, command.Create, got[0].Kind)
	assert.Equal(t, m.ID(), got[0].ID)
	assert.Same(t, m, got[0].Target)
	assert.True(t, got[0].Enabled)
	assert.Equal(t, mesh, got[0].Mesh)
}

func TestSettersPushOneCommandPerChange(t *testing.T) {
	m, _, cmds := newModel(t, nil)
	cmds.Drain()

	mesh := newCube(t, 1)
	require.NoError(t, m.SetMesh(mesh))
	require.NoError(t, m.SetMesh(mesh))
	require.NoError(t, m.SetEnabled(false))
	require.NoError(t, m.SetEnabled(false))
	require.NoError(t, m.SetLayer(3))
	require.NoError(t, m.SetLayer(3))
	require.NoError(t, m.SetDoubleSided(true))
	require.NoError(t, m.SetDoubleSided(true))
	require.NoError(t, m.SetMaterial(nil))

	got := cmds.Drain()
	assert.Equal(t, []command.Kind{
		command.MeshChanged,
		command.EnabledChanged,
		command.LayerChanged,
		command.DoubleSidedChanged,
	}, kinds(got))
	assert.Equal(t, uint32(3), got[2].Layer)
	assert.True(t, got[3].DoubleSided)
}

func TestSetLayerRejectsOutOfRange(t *testing.T) {
	m, _, _ := newModel(t, nil)
	assert.ErrorIs(t, m.SetLayer(32), ErrInvalidLayer)
	assert.Zero(t, m.Layer())
}

func TestDispose(t *testing.T) {
	m, _, cmds := newModel(t, newCube(t, 1))
	cmds.Drain()

	m.Dispose()
	assert.True(t, m.Disposed())
	assert.False(t, m.Enabled())

	assert.ErrorIs(t, m.SetMesh(nil), ErrDisposed)
	assert.ErrorIs(t, m.SetEnabled(true), ErrDisposed)
	assert.ErrorIs(t, m.SetLayer(1), ErrDisposed)
	assert.ErrorIs(t, m.SetDoubleSided(true), ErrDisposed)
	assert.ErrorIs(t, m.SetMaterial(nil), ErrDisposed)
	assert.False(t, m.Enabled())

	got := cmds.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, command.Disposed, got[0].Kind)
	assert.Equal(t, m.ID(), got[0].ID)
	assert.Same(t, m, got[0].Target)

	m.Dispose()
	assert.Zero(t, cmds.Len())
}

func TestDisposeDisabledModelStillReports(t *testing.T) {
	m, _, cmds := newModel(t, nil)
	require.NoError(t, m.SetEnabled(false))
	cmds.Drain()

	m.Dispose()
	got := cmds.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, command.Disposed, got[0].Kind)
}

func TestCollectedModelReportsDisposal(t *testing.T) {
	cmds := command.NewBuffer(8)
	var id uint64
	func() {
		id = New(services.New(cmds), nil, nil).ID()
	}()
	// Drop the Create command so nothing references the model.
	cmds.Drain()

	var got []command.Command
	deadline := time.Now().Add(5 * time.Second)
	for len(got) == 0 && time.Now().Before(deadline) {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
		got = cmds.Drain()
	}
	require.Len(t, got, 1)
	assert.Equal(t, command.SubjectRenderModel, got[0].Subject)
	assert.Equal(t, command.Disposed, got[0].Kind)
	assert.Equal(t, id, got[0].ID)
	assert.Nil(t, got[0].Target)
}

func TestBoundingBoxWithoutMesh(t *testing.T) {
	m, _, _ := newModel(t, nil)
	m.Transform().SetPosition(math.Vec3{X: 3})
	assert.True(t, m.BoundingBox().IsEmpty())
}

func TestBoundingBoxFollowsTransform(t *testing.T) {
	m, _, _ := newModel(t, newCube(t, 2))

	box := m.BoundingBox()
	assert.Equal(t, math.Vec3{X: -1, Y: -1, Z: -1}, box.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, box.Max)

	m.Transform().SetPosition(math.Vec3{X: 5})
	m.Transform().SetScale(math.Vec3{X: 2, Y: 2, Z: 2})
	box = m.BoundingBox()
	assert.InDelta(t, 3, box.Min.X, 1e-5)
	assert.InDelta(t, 7, box.Max.X, 1e-5)
	assert.InDelta(t, -2, box.Min.Y, 1e-5)
	assert.InDelta(t, 2, box.Max.Z, 1e-5)
}

func TestBoundingBoxUnderRotationUsesTwoCorners(t *testing.T) {
	mesh := newCube(t, 2)
	m, _, _ := newModel(t, mesh)
	m.Transform().SetRotation(math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/4))

	world := m.ModelMatrix()
	corners := mesh.Bounds().Corners()
	for i := range corners {
		corners[i] = world.TransformVec3(corners[i])
	}
	full := math.BoxFromPoints(corners[:]...)
	approx := m.BoundingBox()

	fullArea := full.Extents().X * full.Extents().Z
	approxArea := approx.Extents().X * approx.Extents().Z
	assert.Less(t, approxArea, fullArea)
}

func TestDerivedValuesAreCached(t *testing.T) {
	m, counting, _ := newModel(t, newCube(t, 1))

	m.BoundingBox()
	m.BoundingBox()
	m.ModelMatrix()
	assert.Equal(t, int64(1), counting.Counts().Model)
	assert.Zero(t, m.Stale())

	m.Transform().Translate(math.Vec3{Y: 1})
	m.ModelMatrix()
	m.ModelMatrix()
	assert.Equal(t, int64(2), counting.Counts().Model)
	assert.Equal(t, BoundingBox, m.Stale())

	m.BoundingBox()
	assert.Equal(t, int64(2), counting.Counts().Model)
}

func TestSetMeshInvalidatesOnlyBoundingBox(t *testing.T) {
	m, counting, _ := newModel(t, newCube(t, 1))
	m.BoundingBox()

	require.NoError(t, m.SetMesh(newCube(t, 4)))
	assert.Equal(t, BoundingBox, m.Stale())

	box := m.BoundingBox()
	assert.Equal(t, float32(2), box.Max.X)
	assert.Equal(t, int64(1), counting.Counts().Model)
}

func TestNewMeshValidates(t *testing.T) {
	dev := gputest.New()
	q := resource.NewReleaseQueue(1)
	vertices, indices := Cube(1)

	_, err := NewMesh(dev, q, nil, indices)
	assert.ErrorIs(t, err, ErrEmptyMesh)

	_, err = NewMesh(dev, q, vertices, []uint32{0, 1})
	assert.Error(t, err)

	_, err = NewMesh(dev, q, vertices, []uint32{0, 1, 99})
	assert.Error(t, err)
	assert.Empty(t, dev.CallsOf("CreateMesh"))

	mesh, err := NewMesh(dev, q, vertices, indices)
	require.NoError(t, err)
	assert.Equal(t, int32(36), mesh.IndexCount())
	assert.Equal(t, 24, mesh.VertexCount())
	assert.NotZero(t, mesh.Handle())
}

func TestCubeNormalsPointOutward(t *testing.T) {
	vertices, indices := Cube(2)
	for _, v := range vertices {
		assert.InDelta(t, 1, v.Position.Dot(v.Normal), 1e-6)
	}
	for i := 0; i < len(indices); i += 3 {
		a, b, c := vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]]
		face := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Greater(t, face.Dot(a.Normal), float32(0), "triangle %d is wound clockwise", i/3)
	}
}
