// Package framebuffer provides render targets for cameras: offscreen
// framebuffers and the window's default framebuffer.
package framebuffer

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// ErrInvalidSize is returned for negative framebuffer dimensions.
var ErrInvalidSize = errors.New("invalid framebuffer size")

// Target is something a camera renders into. Its size is polled every frame.
type Target interface {
	Size() (width, height int32)
	Bind() error
}

// Framebuffer is an offscreen render target with color and depth attachments.
type Framebuffer struct {
	res    *resource.Resource
	width  int32
	height int32
}

var _ Target = (*Framebuffer)(nil)

// New creates a framebuffer. Zero dimensions are raised to 1.
func New(dev gpu.Device, queue *resource.ReleaseQueue, width, height int32) (*Framebuffer, error) {
	width, height, err := checkSize(width, height)
	if err != nil {
		return nil, err
	}

	handle, err := dev.CreateFramebuffer(width, height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	return &Framebuffer{
		res:    resource.New(gpu.KindFramebuffer, handle, dev, queue),
		width:  width,
		height: height,
	}, nil
}

func checkSize(width, height int32) (int32, int32, error) {
	if width < 0 || height < 0 {
		return 0, 0, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	return max(width, 1), max(height, 1), nil
}

// Resource returns the underlying GPU resource.
func (fb *Framebuffer) Resource() *resource.Resource {
	return fb.res
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize updates the framebuffer dimensions if they have changed.
func (fb *Framebuffer) Resize(width, height int32) error {
	width, height, err := checkSize(width, height)
	if err != nil {
		return err
	}
	if width == fb.width && height == fb.height {
		return nil
	}

	fb.width = width
	fb.height = height
	if h := fb.res.Handle(); h != 0 {
		fb.res.Device().ResizeFramebuffer(h, width, height)
	}
	return nil
}

// Bind makes this framebuffer the current render target.
func (fb *Framebuffer) Bind() error {
	if err := fb.res.Activate(0); err != nil {
		return err
	}
	fb.res.Device().Viewport(fb.width, fb.height)
	return nil
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	fb.res.Deactivate(0)
}

// Clear clears color and depth of the bound target.
func (fb *Framebuffer) Clear(c math.Color) {
	fb.res.Device().Clear(c)
}

// Dispose schedules the release of the framebuffer and its attachments.
func (fb *Framebuffer) Dispose() {
	fb.res.Dispose()
}

// Screen is the default framebuffer of a window. Its size follows the
// drawable size reported by sizeFn.
type Screen struct {
	dev    gpu.Device
	sizeFn func() (int32, int32)
}

var _ Target = (*Screen)(nil)

// NewScreen returns the default framebuffer target.
func NewScreen(dev gpu.Device, sizeFn func() (int32, int32)) *Screen {
	return &Screen{dev: dev, sizeFn: sizeFn}
}

// Size returns the current drawable size.
func (s *Screen) Size() (width, height int32) {
	return s.sizeFn()
}

// Bind binds the default framebuffer and sets the viewport.
func (s *Screen) Bind() error {
	w, h := s.sizeFn()
	s.dev.Unbind(gpu.KindFramebuffer, 0)
	s.dev.Viewport(w, h)
	return nil
}
