package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/gpu/gputest"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
)

func TestNewSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int32
		wantW, wantH  int32
		wantErr       bool
	}{
		{"regular", 640, 360, 640, 360, false},
		{"zero clamps to one", 0, 0, 1, 1, false},
		{"negative width", -1, 10, 0, 0, true},
		{"negative height", 10, -5, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			fb, err := New(dev, resource.NewReleaseQueue(1), tt.width, tt.height)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSize)
				assert.Empty(t, dev.CallsOf("CreateFramebuffer"))
				return
			}
			require.NoError(t, err)
			w, h := fb.Size()
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestResize(t *testing.T) {
	dev := gputest.New()
	fb, err := New(dev, resource.NewReleaseQueue(1), 100, 100)
	require.NoError(t, err)

	require.NoError(t, fb.Resize(100, 100))
	assert.Empty(t, dev.CallsOf("ResizeFramebuffer"), "same size is a no-op")

	require.NoError(t, fb.Resize(200, 50))
	calls := dev.CallsOf("ResizeFramebuffer")
	require.Len(t, calls, 1)
	assert.Equal(t, [2]int32{200, 50}, calls[0].Value)

	assert.ErrorIs(t, fb.Resize(-1, 5), ErrInvalidSize)
	w, h := fb.Size()
	assert.Equal(t, int32(200), w)
	assert.Equal(t, int32(50), h)
}

func TestBindSetsViewport(t *testing.T) {
	dev := gputest.New()
	fb, err := New(dev, resource.NewReleaseQueue(1), 320, 240)
	require.NoError(t, err)
	dev.Reset()

	require.NoError(t, fb.Bind())
	calls := dev.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Bind", calls[0].Op)
	assert.Equal(t, gpu.KindFramebuffer, calls[0].Kind)
	assert.Equal(t, [2]int32{320, 240}, calls[1].Value)
}

func TestBindAfterDispose(t *testing.T) {
	dev := gputest.New()
	q := resource.NewReleaseQueue(1)
	fb, err := New(dev, q, 8, 8)
	require.NoError(t, err)

	fb.Dispose()
	q.Drain()
	assert.ErrorIs(t, fb.Bind(), resource.ErrReleased)
	assert.Len(t, dev.Deleted(gpu.KindFramebuffer), 1)
}

func TestScreenFollowsSize(t *testing.T) {
	dev := gputest.New()
	w, h := int32(800), int32(600)
	s := NewScreen(dev, func() (int32, int32) { return w, h })

	gotW, gotH := s.Size()
	assert.Equal(t, int32(800), gotW)
	assert.Equal(t, int32(600), gotH)

	w, h = 1920, 1080
	require.NoError(t, s.Bind())
	vp := dev.CallsOf("Viewport")
	require.Len(t, vp, 1)
	assert.Equal(t, [2]int32{1920, 1080}, vp[0].Value)
}
