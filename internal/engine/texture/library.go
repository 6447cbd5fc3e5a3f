package texture

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Repository resolves textures by identifier. Lookups never return nil: a
// miss yields the fallback.
type Repository interface {
	Texture(id string) *Texture
	CubeMap(id string) *CubeMap
	Fallback() *Texture
	FallbackCubeMap() *CubeMap
}

// Library is the in-memory Repository. It is safe for concurrent use.
type Library struct {
	mu       sync.RWMutex
	textures map[string]*Texture
	cubemaps map[string]*CubeMap

	fallback        *Texture
	fallbackCubeMap *CubeMap
}

var _ Repository = (*Library)(nil)

// NewLibrary returns a library that answers misses with the given fallbacks.
func NewLibrary(fallback *Texture, fallbackCubeMap *CubeMap) *Library {
	return &Library{
		textures:        make(map[string]*Texture),
		cubemaps:        make(map[string]*CubeMap),
		fallback:        fallback,
		fallbackCubeMap: fallbackCubeMap,
	}
}

// NewDefaultLibrary creates white 1x1 fallbacks on dev.
func NewDefaultLibrary(dev gpu.Device, queue *resource.ReleaseQueue) (*Library, error) {
	tex, err := NewSolid(dev, queue, math.ColorWhite)
	if err != nil {
		return nil, fmt.Errorf("fallback texture: %w", err)
	}
	cube, err := NewSolidCubeMap(dev, queue, math.ColorWhite)
	if err != nil {
		return nil, fmt.Errorf("fallback cubemap: %w", err)
	}
	return NewLibrary(tex, cube), nil
}

// Register stores t under id, replacing any previous entry.
func (l *Library) Register(id string, t *Texture) {
	l.mu.Lock()
	l.textures[id] = t
	l.mu.Unlock()
}

// RegisterCubeMap stores c under id, replacing any previous entry.
func (l *Library) RegisterCubeMap(id string, c *CubeMap) {
	l.mu.Lock()
	l.cubemaps[id] = c
	l.mu.Unlock()
}

// Add stores an anonymous texture and returns its generated identifier.
func (l *Library) Add(t *Texture) string {
	id := uuid.NewString()
	l.Register(id, t)
	return id
}

// Load decodes the image file at path and registers it under id.
func (l *Library) Load(dev gpu.Device, queue *resource.ReleaseQueue, id, path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	t, err := FromImage(dev, queue, img)
	if err != nil {
		return nil, err
	}
	l.Register(id, t)

	b := img.Bounds()
	logger.Named("texture").Debug("texture loaded",
		zap.String("id", id),
		zap.String("path", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
	return t, nil
}

// Texture returns the texture registered under id, or the fallback.
func (l *Library) Texture(id string) *Texture {
	l.mu.RLock()
	t, ok := l.textures[id]
	l.mu.RUnlock()
	if !ok {
		logger.Named("texture").Debug("texture not found, using fallback", zap.String("id", id))
		return l.fallback
	}
	return t
}

// CubeMap returns the cube map registered under id, or the fallback.
func (l *Library) CubeMap(id string) *CubeMap {
	l.mu.RLock()
	c, ok := l.cubemaps[id]
	l.mu.RUnlock()
	if !ok {
		logger.Named("texture").Debug("cubemap not found, using fallback", zap.String("id", id))
		return l.fallbackCubeMap
	}
	return c
}

// Fallback returns the texture used for misses.
func (l *Library) Fallback() *Texture {
	return l.fallback
}

// FallbackCubeMap returns the cube map used for misses.
func (l *Library) FallbackCubeMap() *CubeMap {
	return l.fallbackCubeMap
}

// Len returns the number of registered textures and cube maps.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.textures) + len(l.cubemaps)
}

// Dispose releases every registered resource and the fallbacks.
func (l *Library) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, t := range l.textures {
		t.Dispose()
		delete(l.textures, id)
	}
	for id, c := range l.cubemaps {
		c.Dispose()
		delete(l.cubemaps, id)
	}
	if l.fallback != nil {
		l.fallback.Dispose()
	}
	if l.fallbackCubeMap != nil {
		l.fallbackCubeMap.Dispose()
	}
}
