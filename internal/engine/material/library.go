package material

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/engine/sequence"
	"github.com/Faultbox/midgard-scene/internal/engine/shader"
	"github.com/Faultbox/midgard-scene/internal/engine/texture"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Library creates materials and caches the default material of each shader.
// It is safe for concurrent use; the materials it returns are not.
type Library struct {
	clock    sequence.Counter
	textures texture.Repository
	shaders  shader.Repository

	mu       sync.RWMutex
	defaults map[*shader.Shader]*Material

	built atomic.Int64
}

// NewLibrary returns a library stamping writes with clock and resolving
// texture and shader identifiers through the given repositories.
func NewLibrary(clock sequence.Counter, textures texture.Repository, shaders shader.Repository) *Library {
	return &Library{
		clock:    clock,
		textures: textures,
		shaders:  shaders,
		defaults: make(map[*shader.Shader]*Material),
	}
}

// Default returns the shared default material of sh, building it on first
// use. Changing it changes the starting values of materials created later.
// Defaults are keyed by shader identity, not by program handle, since the
// backend may hand a freed handle to a reloaded shader.
func (l *Library) Default(sh *shader.Shader) *Material {
	l.mu.RLock()
	m, ok := l.defaults[sh]
	l.mu.RUnlock()
	if ok {
		return m
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.defaults[sh]; ok {
		return m
	}

	m = l.buildDefault(sh)
	l.defaults[sh] = m
	l.built.Add(1)
	logger.Named("material").Debug("default material built",
		zap.String("shader", sh.ID()),
		zap.Int("properties", len(m.layout.properties)),
		zap.Int("bytes", m.layout.size),
	)
	return m
}

func (l *Library) buildDefault(sh *shader.Shader) *Material {
	lay := newLayout(sh)
	m := &Material{
		name:   sh.ID(),
		lib:    l,
		layout: lay,
		data:   make([]byte, lay.size),
	}

	identity := math.Identity()
	white := math.ColorWhite
	for i, p := range lay.properties {
		b := m.data[lay.offsets[i]:]
		switch p.Type {
		case shader.TypeColor:
			putFloats(b, white.R, white.G, white.B, white.A)
		case shader.TypeMatrix:
			putMatrix(b, identity)
		case shader.TypeTexture, shader.TypeNormalMapTexture:
			le.PutUint32(b, textureHandle(l.textures.Fallback()))
		case shader.TypeCubeMapTexture:
			le.PutUint32(b, cubeMapHandle(l.textures.FallbackCubeMap()))
		}
	}
	m.timestamp = l.clock.Next()
	return m
}

// New returns a material for sh starting from a copy of its default.
func (l *Library) New(name string, sh *shader.Shader) *Material {
	return l.Default(sh).Clone(name)
}

// NewFromIdentifier resolves the shader by id and returns a new material
// for it. An unknown id is an error.
func (l *Library) NewFromIdentifier(name, shaderID string) (*Material, error) {
	sh, err := l.shaders.Shader(shaderID)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", name, err)
	}
	return l.New(name, sh), nil
}

// Forget drops the cached default of sh, for shaders that are being
// disposed or reloaded. It matches the shader.Library OnRelease signature.
func (l *Library) Forget(sh *shader.Shader) {
	l.mu.Lock()
	delete(l.defaults, sh)
	l.mu.Unlock()
}

// Len returns the number of cached defaults.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.defaults)
}
