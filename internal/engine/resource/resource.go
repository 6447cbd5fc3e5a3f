// Package resource implements the lifecycle shared by every GPU-backed object:
// handle identity, activation around draws and transfers, and deferred release
// on the thread that owns the graphics context.
package resource

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
)

// ErrReleased is returned when a disposed or never allocated resource is used.
var ErrReleased = errors.New("resource released")

// state is the part of a resource the release path needs. It must not point
// back at the Resource, or the cleanup would keep its owner alive.
type state struct {
	kind     gpu.ResourceKind
	handle   atomic.Uint32
	disposed atomic.Bool
	device   gpu.Device
}

// release deletes the native object once. It reports whether it did.
func (s *state) release() bool {
	h := s.handle.Swap(0)
	if h == 0 {
		return false
	}
	s.device.Delete(s.kind, h)
	return true
}

// Resource is a native GPU handle owned by a texture, mesh, framebuffer or
// program. Equality and hashing are defined by the handle alone.
type Resource struct {
	st      *state
	queue   *ReleaseQueue
	cleanup runtime.Cleanup
}

// New wraps handle. When the Resource becomes unreachable without Dispose
// being called, its release is posted to queue. A nil queue releases inline,
// which is only valid when the caller owns the graphics context.
func New(kind gpu.ResourceKind, handle uint32, device gpu.Device, queue *ReleaseQueue) *Resource {
	st := &state{kind: kind, device: device}
	st.handle.Store(handle)

	r := &Resource{st: st, queue: queue}
	if handle != 0 {
		r.cleanup = runtime.AddCleanup(r, queue.post, st)
	}
	return r
}

// Handle returns the native handle. Zero means not allocated or released.
func (r *Resource) Handle() uint32 {
	return r.st.handle.Load()
}

// Kind returns the native object type.
func (r *Resource) Kind() gpu.ResourceKind {
	return r.st.kind
}

// Device returns the device that owns the handle.
func (r *Resource) Device() gpu.Device {
	return r.st.device
}

// Key returns the hash key of the resource, its handle.
func (r *Resource) Key() uint32 {
	return r.Handle()
}

// Equal reports whether both resources name the same handle.
func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Handle() == other.Handle()
}

// Disposed reports whether Dispose has been called.
func (r *Resource) Disposed() bool {
	return r.st.disposed.Load()
}

// Activate binds the resource. unit selects the texture unit for textures.
func (r *Resource) Activate(unit int32) error {
	h := r.Handle()
	if h == 0 || r.Disposed() {
		return fmt.Errorf("activate %s: %w", r.st.kind, ErrReleased)
	}
	r.st.device.Bind(r.st.kind, h, unit)
	return nil
}

// Deactivate restores the default binding.
func (r *Resource) Deactivate(unit int32) {
	r.st.device.Unbind(r.st.kind, unit)
}

// Dispose schedules the native release on the context thread. It returns
// immediately; later calls are no-ops.
func (r *Resource) Dispose() {
	if !r.st.disposed.CompareAndSwap(false, true) {
		return
	}
	r.cleanup.Stop()
	r.queue.post(r.st)
}
