// Package model binds meshes and materials to transforms for drawing.
//
// A RenderModel derives its world bounding box and model matrix lazily and
// mirrors every state change as a command for the renderer. It never touches
// the GPU itself. RenderModels are not safe for concurrent use.
package model

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Faultbox/midgard-scene/internal/engine/command"
	"github.com/Faultbox/midgard-scene/internal/engine/invalidation"
	"github.com/Faultbox/midgard-scene/internal/engine/material"
	"github.com/Faultbox/midgard-scene/internal/engine/services"
	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// ErrDisposed is returned by setters of a disposed RenderModel.
var ErrDisposed = errors.New("render model disposed")

// ErrInvalidLayer is returned for layers outside 0-31.
var ErrInvalidLayer = errors.New("layer out of range")

// Flag names one derived value of a RenderModel.
type Flag uint32

// RenderModel flags.
const (
	BoundingBox Flag = 1 << iota
	ModelMatrix

	allFlags = BoundingBox | ModelMatrix
)

// RenderModel is a drawable instance in the scene.
type RenderModel struct {
	id        uint64
	svc       *services.Services
	transform *transform.Transform

	mesh        *Mesh
	material    *material.Material
	layer       uint32
	doubleSided bool
	enabled     bool
	disposed    bool
	cleanup     runtime.Cleanup

	flags          invalidation.Set[Flag]
	transformStamp uint64
	bounds         math.BoundingBox
	modelMatrix    math.Mat4
}

// New creates an enabled render model on layer 0. mesh and mat may be nil.
func New(svc *services.Services, mesh *Mesh, mat *material.Material) *RenderModel {
	m := &RenderModel{
		id:        svc.ModelIDs.Next(),
		svc:       svc,
		transform: transform.New(),
		mesh:      mesh,
		material:  mat,
		enabled:   true,
		flags:     invalidation.All(allFlags),
	}
	m.transformStamp = m.transform.Timestamp()

	m.push(command.Command{
		Kind:        command.Create,
		Enabled:     m.enabled,
		Layer:       m.layer,
		DoubleSided: m.doubleSided,
		Mesh:        mesh,
		Material:    mat,
	})
	m.cleanup = runtime.AddCleanup(m, collected, orphan{queue: svc.Commands, id: m.id})
	return m
}

// orphan is what the cleanup of an unreachable model needs. It must not
// reference the model.
type orphan struct {
	queue command.Queue
	id    uint64
}

// collected reports a model that became unreachable without Dispose.
func collected(o orphan) {
	o.queue.Push(command.Command{
		Subject: command.SubjectRenderModel,
		Kind:    command.Disposed,
		ID:      o.id,
	})
}

func (m *RenderModel) push(cmd command.Command) {
	cmd.Subject = command.SubjectRenderModel
	cmd.ID = m.id
	cmd.Target = m
	m.svc.Commands.Push(cmd)
}

// ID returns the process-unique model id.
func (m *RenderModel) ID() uint64 {
	return m.id
}

// Transform returns the model's transform. Mutating it is detected on the
// next derived read.
func (m *RenderModel) Transform() *transform.Transform {
	return m.transform
}

// Mesh returns the drawn mesh, or nil.
func (m *RenderModel) Mesh() *Mesh {
	return m.mesh
}

// SetMesh assigns the geometry. A nil mesh leaves the model with an empty
// bounding box.
func (m *RenderModel) SetMesh(mesh *Mesh) error {
	if m.disposed {
		return ErrDisposed
	}
	if mesh == m.mesh {
		return nil
	}
	m.mesh = mesh
	m.flags.Invalidate(BoundingBox)
	m.push(command.Command{Kind: command.MeshChanged, Mesh: mesh})
	return nil
}

// Material returns the material the mesh is drawn with.
func (m *RenderModel) Material() *material.Material {
	return m.material
}

// SetMaterial replaces the material and notifies the renderer on change.
func (m *RenderModel) SetMaterial(mat *material.Material) error {
	if m.disposed {
		return ErrDisposed
	}
	if mat == m.material {
		return nil
	}
	m.material = mat
	m.push(command.Command{Kind: command.MaterialChanged, Material: mat})
	return nil
}

// Enabled reports whether the renderer draws this model. A disposed model is
// never enabled.
func (m *RenderModel) Enabled() bool {
	return m.enabled
}

// SetEnabled toggles drawing and notifies the renderer on change.
func (m *RenderModel) SetEnabled(enabled bool) error {
	if m.disposed {
		return ErrDisposed
	}
	if enabled == m.enabled {
		return nil
	}
	m.enabled = enabled
	m.push(command.Command{Kind: command.EnabledChanged, Enabled: enabled})
	return nil
}

// Layer returns the layer index matched against camera layer masks.
func (m *RenderModel) Layer() uint32 {
	return m.layer
}

// SetLayer moves the model to layer (0-31).
func (m *RenderModel) SetLayer(layer uint32) error {
	if m.disposed {
		return ErrDisposed
	}
	if layer >= 32 {
		return fmt.Errorf("%w: %d", ErrInvalidLayer, layer)
	}
	if layer == m.layer {
		return nil
	}
	m.layer = layer
	m.push(command.Command{Kind: command.LayerChanged, Layer: layer})
	return nil
}

// DoubleSided reports whether back faces are drawn.
func (m *RenderModel) DoubleSided() bool {
	return m.doubleSided
}

// SetDoubleSided disables back-face culling for the model.
func (m *RenderModel) SetDoubleSided(doubleSided bool) error {
	if m.disposed {
		return ErrDisposed
	}
	if doubleSided == m.doubleSided {
		return nil
	}
	m.doubleSided = doubleSided
	m.push(command.Command{Kind: command.DoubleSidedChanged, DoubleSided: doubleSided})
	return nil
}

func (m *RenderModel) poll() {
	if ts := m.transform.Timestamp(); ts != m.transformStamp {
		m.transformStamp = ts
		m.flags.Invalidate(allFlags)
	}
}

// ModelMatrix returns the object-to-world matrix.
func (m *RenderModel) ModelMatrix() math.Mat4 {
	m.poll()
	m.flags.Refresh(ModelMatrix, func() {
		m.modelMatrix = m.svc.Matrices.Model(m.transform)
	})
	return m.modelMatrix
}

// BoundingBox returns the world-space box of the mesh. Only the local min and
// max corners are transformed, so under rotation the box can be smaller than
// the mesh.
func (m *RenderModel) BoundingBox() math.BoundingBox {
	m.poll()
	m.flags.Refresh(BoundingBox, func() {
		if m.mesh == nil {
			m.bounds = math.BoundingBox{}
			return
		}
		local := m.mesh.Bounds()
		world := m.ModelMatrix()
		m.bounds = math.BoxFromPoints(
			world.TransformVec3(local.Min),
			world.TransformVec3(local.Max),
		)
	})
	return m.bounds
}

// Stale returns the derived values that will be recomputed on next read,
// without polling.
func (m *RenderModel) Stale() Flag {
	return m.flags.Bits()
}

// Disposed reports whether Dispose was called.
func (m *RenderModel) Disposed() bool {
	return m.disposed
}

// Dispose disables the model and pushes a Disposed command once. Later
// setters return ErrDisposed. The mesh and material are shared and stay
// alive.
func (m *RenderModel) Dispose() {
	if m.disposed {
		return
	}
	m.cleanup.Stop()
	m.enabled = false
	m.disposed = true
	m.push(command.Command{Kind: command.Disposed})
}
