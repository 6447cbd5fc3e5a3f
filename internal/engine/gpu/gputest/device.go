// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"sync"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Call is one recorded device call.
type Call struct {
	Op       string
	Kind     gpu.ResourceKind
	Handle   uint32
	Location int32
	Unit     int32
	Value    any
}

// Device records every call and hands out sequential handles.
type Device struct {
	// Uniforms, when set, returns the active uniforms of a compiled program.
	Uniforms func(vertexSrc, fragmentSrc string) ([]gpu.Uniform, error)

	mu         sync.Mutex
	nextHandle uint32
	calls      []Call
	uniforms   map[int32]any
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{uniforms: make(map[int32]any)}
}

func (d *Device) record(c Call) {
	d.mu.Lock()
	d.calls = append(d.calls, c)
	d.mu.Unlock()
}

func (d *Device) allocate() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) setUniform(op string, location int32, v any) {
	d.mu.Lock()
	d.calls = append(d.calls, Call{Op: op, Location: location, Value: v})
	d.uniforms[location] = v
	d.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (d *Device) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// CallsOf returns the recorded calls with the given op.
func (d *Device) CallsOf(op string) []Call {
	var out []Call
	for _, c := range d.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls and uniform values. Handles keep counting.
func (d *Device) Reset() {
	d.mu.Lock()
	d.calls = nil
	d.uniforms = make(map[int32]any)
	d.mu.Unlock()
}

// Uniform returns the last value set at location.
func (d *Device) Uniform(location int32) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.uniforms[location]
	return v, ok
}

// Deleted returns the handles released for kind, in release order.
func (d *Device) Deleted(kind gpu.ResourceKind) []uint32 {
	var out []uint32
	for _, c := range d.CallsOf("Delete") {
		if c.Kind == kind {
			out = append(out, c.Handle)
		}
	}
	return out
}

func (d *Device) SetFloat(location int32, v float32) { d.setUniform("SetFloat", location, v) }
func (d *Device) SetInt(location int32, v int32) { d.setUniform("SetInt", location, v) }
func (d *Device) SetVec2(location int32, v math.Vec2) { d.setUniform("SetVec2", location, v) }
func (d *Device) SetVec3(location int32, v math.Vec3) { d.setUniform("SetVec3", location, v) }
func (d *Device) SetVec4(location int32, v math.Vec4) { d.setUniform("SetVec4", location, v) }
func (d *Device) SetMat4(location int32, m math.Mat4) { d.setUniform("SetMat4", location, m) }

// Sampler is the value recorded for SetSampler.
type Sampler struct {
	Kind   gpu.ResourceKind
	Unit   int32
	Handle uint32
}

func (d *Device) SetSampler(location int32, kind gpu.ResourceKind, unit int32, handle uint32) {
	d.setUniform("SetSampler", location, Sampler{Kind: kind, Unit: unit, Handle: handle})
}

func (d *Device) Bind(kind gpu.ResourceKind, handle uint32, unit int32) {
	d.record(Call{Op: "Bind", Kind: kind, Handle: handle, Unit: unit})
}

func (d *Device) Unbind(kind gpu.ResourceKind, unit int32) {
	d.record(Call{Op: "Unbind", Kind: kind, Unit: unit})
}

func (d *Device) Delete(kind gpu.ResourceKind, handle uint32) {
	d.record(Call{Op: "Delete", Kind: kind, Handle: handle})
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, []gpu.Uniform, error) {
	var uniforms []gpu.Uniform
	if d.Uniforms != nil {
		var err error
		uniforms, err = d.Uniforms(vertexSrc, fragmentSrc)
		if err != nil {
			return 0, nil, err
		}
	}
	h := d.allocate()
	d.record(Call{Op: "CompileProgram", Kind: gpu.KindProgram, Handle: h})
	return h, uniforms, nil
}

func (d *Device) CreateTexture(width, height int32, rgba []byte) (uint32, error) {
	if int(width*height*4) != len(rgba) {
		return 0, fmt.Errorf("texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(rgba))
	}
	h := d.allocate()
	d.record(Call{Op: "CreateTexture", Kind: gpu.KindTexture, Handle: h})
	return h, nil
}

func (d *Device) CreateCubeMap(size int32, faces [6][]byte) (uint32, error) {
	h := d.allocate()
	d.record(Call{Op: "CreateCubeMap", Kind: gpu.KindCubeMap, Handle: h})
	return h, nil
}

func (d *Device) CreateFramebuffer(width, height int32) (uint32, error) {
	h := d.allocate()
	d.record(Call{Op: "CreateFramebuffer", Kind: gpu.KindFramebuffer, Handle: h, Value: [2]int32{width, height}})
	return h, nil
}

func (d *Device) ResizeFramebuffer(handle uint32, width, height int32) {
	d.record(Call{Op: "ResizeFramebuffer", Kind: gpu.KindFramebuffer, Handle: handle, Value: [2]int32{width, height}})
}

func (d *Device) CreateMesh(vertices []float32, indices []uint32) (uint32, error) {
	h := d.allocate()
	d.record(Call{Op: "CreateMesh", Kind: gpu.KindMesh, Handle: h, Value: len(indices)})
	return h, nil
}

func (d *Device) Viewport(width, height int32) {
	d.record(Call{Op: "Viewport", Value: [2]int32{width, height}})
}

func (d *Device) Clear(c math.Color) {
	d.record(Call{Op: "Clear", Value: c})
}

// DrawCall is the Value recorded for Draw.
type DrawCall struct {
	IndexCount  int32
	DoubleSided bool
}

func (d *Device) Draw(mesh uint32, indexCount int32, doubleSided bool) {
	d.record(Call{Op: "Draw", Kind: gpu.KindMesh, Handle: mesh, Value: DrawCall{indexCount, doubleSided}})
}
