package shader

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
)

// ErrNotFound is returned for unknown shader identifiers.
var ErrNotFound = errors.New("shader not found")

// Repository resolves shaders by identifier. Unlike textures there is no
// fallback: a miss is a caller error.
type Repository interface {
	Shader(id string) (*Shader, error)
}

// Library compiles and stores shaders. It is safe for concurrent use, but
// Load must run on the thread that owns the graphics context.
type Library struct {
	dev   gpu.Device
	queue *resource.ReleaseQueue

	mu        sync.RWMutex
	shaders   map[string]*Shader
	onRelease []func(*Shader)
}

var _ Repository = (*Library)(nil)

// NewLibrary returns an empty library compiling on dev.
func NewLibrary(dev gpu.Device, queue *resource.ReleaseQueue) *Library {
	return &Library{
		dev:     dev,
		queue:   queue,
		shaders: make(map[string]*Shader),
	}
}

// Load compiles the sources and stores the result under id, replacing and
// disposing any previous shader with that id.
func (l *Library) Load(id, vertexSrc, fragmentSrc string) (*Shader, error) {
	if id == "" {
		return nil, fmt.Errorf("load shader: empty id")
	}
	sh, err := Compile(l.dev, l.queue, id, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	l.Add(sh)
	return sh, nil
}

// LoadFiles reads vertex and fragment sources from disk and loads them.
func (l *Library) LoadFiles(id, vertexPath, fragmentPath string) (*Shader, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("reading vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("reading fragment shader: %w", err)
	}
	return l.Load(id, string(vs), string(fs))
}

// OnRelease registers fn to run for every shader the library replaces or
// disposes, before its program is released.
func (l *Library) OnRelease(fn func(*Shader)) {
	l.mu.Lock()
	l.onRelease = append(l.onRelease, fn)
	l.mu.Unlock()
}

// Add stores sh under its own id, releasing a different shader stored under
// the same id.
func (l *Library) Add(sh *Shader) {
	l.mu.Lock()
	old := l.shaders[sh.ID()]
	l.shaders[sh.ID()] = sh
	listeners := l.onRelease
	l.mu.Unlock()

	if old != nil && old != sh {
		release(old, listeners)
	}
}

func release(sh *Shader, listeners []func(*Shader)) {
	for _, fn := range listeners {
		fn(sh)
	}
	sh.Dispose()
}

// Shader returns the shader stored under id.
func (l *Library) Shader(id string) (*Shader, error) {
	l.mu.RLock()
	sh, ok := l.shaders[id]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return sh, nil
}

// MustShader is like Shader but panics on a miss.
func (l *Library) MustShader(id string) *Shader {
	sh, err := l.Shader(id)
	if err != nil {
		panic(err)
	}
	return sh
}

// Dispose releases every stored shader.
func (l *Library) Dispose() {
	l.mu.Lock()
	stored := l.shaders
	l.shaders = make(map[string]*Shader)
	listeners := l.onRelease
	l.mu.Unlock()

	for _, sh := range stored {
		release(sh, listeners)
	}
}
