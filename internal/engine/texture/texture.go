// Package texture provides 2D and cube-map texture resources, an image
// decoder, and a repository that resolves textures by identifier.
package texture

import (
	"fmt"
	"image"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Texture is a 2D RGBA texture on the GPU.
type Texture struct {
	*resource.Resource
	width  int32
	height int32
}

// New uploads width*height RGBA pixels.
func New(dev gpu.Device, queue *resource.ReleaseQueue, width, height int32, rgba []byte) (*Texture, error) {
	handle, err := dev.CreateTexture(width, height, rgba)
	if err != nil {
		return nil, fmt.Errorf("creating texture: %w", err)
	}
	return &Texture{
		Resource: resource.New(gpu.KindTexture, handle, dev, queue),
		width:    width,
		height:   height,
	}, nil
}

// FromImage uploads img.
func FromImage(dev gpu.Device, queue *resource.ReleaseQueue, img *image.RGBA) (*Texture, error) {
	b := img.Bounds()
	return New(dev, queue, int32(b.Dx()), int32(b.Dy()), img.Pix)
}

// NewSolid creates a 1x1 texture of a single color.
func NewSolid(dev gpu.Device, queue *resource.ReleaseQueue, c math.Color) (*Texture, error) {
	px := c.Bytes()
	return New(dev, queue, 1, 1, px[:])
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height int32) {
	return t.width, t.height
}

// CubeMap is a six-faced cube texture.
type CubeMap struct {
	*resource.Resource
	size int32
}

// NewCubeMap uploads six size*size RGBA faces in +X, -X, +Y, -Y, +Z, -Z order.
func NewCubeMap(dev gpu.Device, queue *resource.ReleaseQueue, size int32, faces [6][]byte) (*CubeMap, error) {
	handle, err := dev.CreateCubeMap(size, faces)
	if err != nil {
		return nil, fmt.Errorf("creating cubemap: %w", err)
	}
	return &CubeMap{
		Resource: resource.New(gpu.KindCubeMap, handle, dev, queue),
		size:     size,
	}, nil
}

// NewSolidCubeMap creates a 1x1 cube map with every face set to c.
func NewSolidCubeMap(dev gpu.Device, queue *resource.ReleaseQueue, c math.Color) (*CubeMap, error) {
	px := c.Bytes()
	var faces [6][]byte
	for i := range faces {
		faces[i] = px[:]
	}
	return NewCubeMap(dev, queue, 1, faces)
}

// Size returns the edge length of each face.
func (c *CubeMap) Size() int32 {
	return c.size
}
