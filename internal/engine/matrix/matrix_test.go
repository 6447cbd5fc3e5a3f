package matrix

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

func assertMat4Near(t *testing.T, want mgl32.Mat4, got math.Mat4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
	}
}

func TestViewMatchesLookAt(t *testing.T) {
	tr := transform.New()
	tr.SetPosition(math.Vec3{X: 4, Y: 3, Z: 8})
	tr.LookAt(math.Vec3{}, math.Vec3{Y: 1})

	got := Default{}.View(tr)
	want := mgl32.LookAtV(mgl32.Vec3{4, 3, 8}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assertMat4Near(t, want, got)
}

func TestRotationViewIgnoresTranslation(t *testing.T) {
	tr := transform.New()
	tr.Rotate(math.Vec3{Y: 1}, 0.7)
	before := Default{}.RotationView(tr)

	tr.SetPosition(math.Vec3{X: 100, Y: -20, Z: 3})
	after := Default{}.RotationView(tr)

	assert.Equal(t, before, after)
	assert.Equal(t, math.Vec3{}, after.Translation())
}

func TestModelTransformsPoint(t *testing.T) {
	tr := transform.New()
	tr.SetPosition(math.Vec3{X: 1, Y: 2, Z: 3})
	tr.SetScale(math.Vec3{X: 2, Y: 2, Z: 2})

	p := Default{}.Model(tr).TransformVec3(math.Vec3{X: 1, Y: 1, Z: 1})
	assert.Equal(t, math.Vec3{X: 3, Y: 4, Z: 5}, p)
}

func TestPerspectiveTakesDegrees(t *testing.T) {
	got := Default{}.Perspective(90, 1, 1, 10)
	want := mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 10)
	assertMat4Near(t, want, got)
}

func TestOrthographicHeight(t *testing.T) {
	got := Default{}.Orthographic(10, 2, 0.5, 50)
	want := mgl32.Ortho(-10, 10, -5, 5, 0.5, 50)
	assertMat4Near(t, want, got)
}

func TestCountingCounts(t *testing.T) {
	c := NewCounting(nil)
	tr := transform.New()

	c.View(tr)
	c.View(tr)
	c.Model(tr)
	c.Perspective(60, 1, 0.1, 10)
	c.Orthographic(5, 1, 0.1, 10)

	counts := c.Counts()
	assert.Equal(t, int64(2), counts.View)
	assert.Equal(t, int64(1), counts.Model)
	assert.Equal(t, int64(0), counts.RotationView)
	assert.Equal(t, int64(2), counts.Projections())
}
