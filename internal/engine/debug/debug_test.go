package debug

import (
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-scene/internal/engine/frustum"
	"github.com/Faultbox/midgard-scene/internal/engine/gpu/gputest"
	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

func TestBoxLines(t *testing.T) {
	box := math.BoundingBox{Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	lines := BoxLines(box, 0.5)
	require.Len(t, lines, WireframeVertexCount*3)

	for i := 0; i < len(lines); i += 3 {
		for _, v := range lines[i : i+3] {
			assert.Contains(t, []float32{-0.5, 1.5}, v)
		}
	}
	// Every edge is axis-aligned: endpoints differ on exactly one axis.
	for i := 0; i < len(lines); i += 6 {
		diff := 0
		for k := range 3 {
			if lines[i+k] != lines[i+3+k] {
				diff++
			}
		}
		assert.Equal(t, 1, diff, "edge %d", i/6)
	}
}

func TestFrustumLines(t *testing.T) {
	var f frustum.Frustum
	f.Update(transform.New(), frustum.Params{FieldOfView: 90, AspectRatio: 1, ZNear: 1, ZFar: 10})

	lines := FrustumLines(&f)
	require.Len(t, lines, WireframeVertexCount*3)
	corners := f.Corners()
	assert.Equal(t, []float32{
		corners[0].X, corners[0].Y, corners[0].Z,
		corners[1].X, corners[1].Y, corners[1].Z,
	}, lines[:6])
}

func TestCaptureFromPixelsFlipsRows(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "shot")
	sc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	// Bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, sc.GenerateFilename(), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, b)
	r, _, _, _ = img.At(0, 1).RGBA()
	assert.NotZero(t, r)
}

func TestCaptureFromPixelsRejectsShortBuffer(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot")
	_, err := sc.CaptureFromPixels(make([]byte, 7), 1, 2)
	assert.Error(t, err)
}

type solidReader struct {
	gotW, gotH int32
}

func (r *solidReader) ReadPixels(width, height int32) []byte {
	r.gotW, r.gotH = width, height
	return make([]byte, width*height*4)
}

func TestCaptureReadsBoundTarget(t *testing.T) {
	dev := gputest.New()
	fb, err := framebuffer.New(dev, nil, 4, 3)
	require.NoError(t, err)

	reader := &solidReader{}
	path, err := NewScreenshotCapture(t.TempDir(), "fb").Capture(reader, fb)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, int32(4), reader.gotW)
	assert.Equal(t, int32(3), reader.gotH)
	assert.Len(t, dev.CallsOf("Viewport"), 1)
}
