// Package renderer consumes scene commands and draws the scene.
//
// The renderer keeps its own tables of cameras, render models and lights,
// updated only from drained commands. It runs on the thread that owns the
// graphics context.
package renderer

import (
	"maps"
	"slices"
	"time"
	"weak"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/engine/camera"
	"github.com/Faultbox/midgard-scene/internal/engine/command"
	"github.com/Faultbox/midgard-scene/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/lighting"
	"github.com/Faultbox/midgard-scene/internal/engine/material"
	"github.com/Faultbox/midgard-scene/internal/engine/model"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/internal/engine/shader"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Source is the command stream the renderer drains.
type Source interface {
	Drain() []command.Command
}

type cameraEntry struct {
	camera  *camera.Camera
	enabled bool
}

// modelEntry holds the model weakly so an abandoned model can be collected
// and report its own disposal.
type modelEntry struct {
	model       weak.Pointer[model.RenderModel]
	enabled     bool
	layer       uint32
	doubleSided bool
	mesh        *model.Mesh
	material    *material.Material
}

type lightEntry struct {
	light   *lighting.LightSource
	enabled bool
}

// Stats describes the last rendered frame.
type Stats struct {
	Cameras  int
	Drawn    int
	Culled   int
	Released int
}

// Renderer draws every enabled camera's view of the scene.
type Renderer struct {
	dev      gpu.Device
	commands Source
	releases *resource.ReleaseQueue
	log      *zap.Logger

	cameras map[uint64]*cameraEntry
	models  map[uint64]*modelEntry
	lights  map[uint64]*lightEntry

	lightBuf   *lighting.Buffer
	shadow     math.Mat4
	hasShadow  bool
	elapsed    time.Duration
	frameCount int32
	stats      Stats
}

// New creates a renderer reading commands from commands and releasing
// resources posted to releases.
func New(dev gpu.Device, commands Source, releases *resource.ReleaseQueue) *Renderer {
	return &Renderer{
		dev:      dev,
		commands: commands,
		releases: releases,
		log:      logger.Named("renderer"),
		cameras:  make(map[uint64]*cameraEntry),
		models:   make(map[uint64]*modelEntry),
		lights:   make(map[uint64]*lightEntry),
		lightBuf: lighting.NewBuffer(),
	}
}

// Sync applies all pending commands in order and returns how many were
// applied.
func (r *Renderer) Sync() int {
	cmds := r.commands.Drain()
	for _, cmd := range cmds {
		switch cmd.Subject {
		case command.SubjectCamera:
			r.applyCamera(cmd)
		case command.SubjectRenderModel:
			r.applyModel(cmd)
		case command.SubjectLight:
			r.applyLight(cmd)
		default:
			r.log.Warn("unknown command subject", zap.Stringer("command", cmd))
		}
	}
	return len(cmds)
}

func (r *Renderer) applyCamera(cmd command.Command) {
	if cmd.Kind == command.Create {
		cam, ok := cmd.Target.(*camera.Camera)
		if !ok {
			r.log.Warn("camera command without camera", zap.Stringer("command", cmd))
			return
		}
		r.cameras[cmd.ID] = &cameraEntry{camera: cam, enabled: cmd.Enabled}
		r.log.Debug("camera registered", zap.Uint64("id", cmd.ID))
		return
	}

	e, ok := r.cameras[cmd.ID]
	if !ok {
		r.log.Warn("command for unknown camera", zap.Stringer("command", cmd))
		return
	}
	if cmd.Kind == command.EnabledChanged {
		e.enabled = cmd.Enabled
	}
}

func (r *Renderer) applyModel(cmd command.Command) {
	if cmd.Kind == command.Create {
		m, ok := cmd.Target.(*model.RenderModel)
		if !ok {
			r.log.Warn("render model command without model", zap.Stringer("command", cmd))
			return
		}
		e := &modelEntry{
			model:       weak.Make(m),
			enabled:     cmd.Enabled,
			layer:       cmd.Layer,
			doubleSided: cmd.DoubleSided,
		}
		e.mesh, _ = cmd.Mesh.(*model.Mesh)
		e.material, _ = cmd.Material.(*material.Material)
		r.models[cmd.ID] = e
		r.log.Debug("render model registered", zap.Uint64("id", cmd.ID))
		return
	}

	if cmd.Kind == command.Disposed {
		if _, ok := r.models[cmd.ID]; ok {
			delete(r.models, cmd.ID)
			r.log.Debug("render model removed", zap.Uint64("id", cmd.ID))
		}
		return
	}

	e, ok := r.models[cmd.ID]
	if !ok {
		r.log.Warn("command for unknown render model", zap.Stringer("command", cmd))
		return
	}
	switch cmd.Kind {
	case command.EnabledChanged:
		e.enabled = cmd.Enabled
	case command.LayerChanged:
		e.layer = cmd.Layer
	case command.DoubleSidedChanged:
		e.doubleSided = cmd.DoubleSided
	case command.MeshChanged:
		e.mesh, _ = cmd.Mesh.(*model.Mesh)
	case command.MaterialChanged:
		e.material, _ = cmd.Material.(*material.Material)
	}
}

func (r *Renderer) applyLight(cmd command.Command) {
	if cmd.Kind == command.Create {
		l, ok := cmd.Target.(*lighting.LightSource)
		if !ok {
			r.log.Warn("light command without light", zap.Stringer("command", cmd))
			return
		}
		r.lights[cmd.ID] = &lightEntry{light: l, enabled: cmd.Enabled}
		return
	}
	if e, ok := r.lights[cmd.ID]; ok && cmd.Kind == command.EnabledChanged {
		e.enabled = cmd.Enabled
	}
}

// RenderFrame releases dropped resources, then draws every enabled camera in
// id order. delta is the time since the previous frame.
func (r *Renderer) RenderFrame(delta time.Duration) Stats {
	r.stats = Stats{}
	if r.releases != nil {
		r.stats.Released = r.releases.Drain()
	}
	r.elapsed += delta
	r.frameCount++

	r.lightBuf.Clear()
	for _, id := range slices.Sorted(maps.Keys(r.lights)) {
		if e := r.lights[id]; e.enabled {
			r.lightBuf.Add(e.light)
		}
	}

	modelIDs := slices.Sorted(maps.Keys(r.models))
	r.updateShadow(modelIDs)
	for _, id := range slices.Sorted(maps.Keys(r.cameras)) {
		e := r.cameras[id]
		if !e.enabled {
			continue
		}
		r.renderCamera(e.camera, modelIDs, delta)
		r.stats.Cameras++
	}
	return r.stats
}

// updateShadow computes the light-space matrix of the first directional
// light over the bounds of all drawable models.
func (r *Renderer) updateShadow(modelIDs []uint64) {
	r.hasShadow = false
	var sun *lighting.LightSource
	for _, l := range r.lightBuf.Lights() {
		if l.Kind() == lighting.Directional {
			sun = l
			break
		}
	}
	if sun == nil {
		return
	}

	var corners []math.Vec3
	for _, id := range modelIDs {
		e := r.models[id]
		m := e.model.Value()
		if !e.enabled || e.mesh == nil || m == nil {
			continue
		}
		box := m.BoundingBox()
		corners = append(corners, box.Min, box.Max)
	}
	if len(corners) == 0 {
		return
	}
	r.shadow = sun.ShadowMatrix(math.BoxFromPoints(corners...))
	r.hasShadow = true
}

func (r *Renderer) renderCamera(cam *camera.Camera, modelIDs []uint64, delta time.Duration) {
	target, ok := cam.FrameBuffer().(framebuffer.Target)
	if !ok {
		r.log.Warn("camera target cannot be bound", zap.Uint64("camera", cam.ID()))
		return
	}
	if err := target.Bind(); err != nil {
		r.log.Warn("binding camera target", zap.Uint64("camera", cam.ID()), zap.Error(err))
		return
	}
	r.dev.Clear(cam.ClearColor())

	fr := cam.Frustum()
	viewProjection := cam.ViewProjectionMatrix()

	var current *shader.Shader
	for _, id := range modelIDs {
		e := r.models[id]
		m := e.model.Value()
		if !e.enabled || e.mesh == nil || e.material == nil || m == nil || !cam.Sees(e.layer) {
			continue
		}
		if !fr.IsBoxInFrustum(m.BoundingBox()) {
			r.stats.Culled++
			continue
		}

		sh := e.material.Shader()
		if sh != current {
			if err := sh.Use(); err != nil {
				r.log.Warn("using shader", zap.String("shader", sh.ID()), zap.Error(err))
				continue
			}
			current = sh
			r.applyFrameUniforms(sh, delta)
			r.applyViewUniforms(sh, cam)
			r.lightBuf.Apply(sh)
			if r.hasShadow {
				sh.SetMatrixByName(shader.ShadowMatrix, r.shadow)
			}
		}

		world := m.ModelMatrix()
		sh.SetMatrixByName(shader.ModelMatrix, world)
		sh.SetMatrixByName(shader.ModelViewProjectionMatrix, viewProjection.Mul(world))
		sh.SetMatrixByName(shader.NormalMatrix, world.Inverse().Transpose())
		e.material.TransferToShader()

		r.dev.Draw(e.mesh.Handle(), e.mesh.IndexCount(), e.doubleSided)
		r.stats.Drawn++
	}
}

func (r *Renderer) applyFrameUniforms(sh *shader.Shader, delta time.Duration) {
	sh.SetFloatByName(shader.Time, float32(r.elapsed.Seconds()))
	sh.SetFloatByName(shader.DeltaTime, float32(delta.Seconds()))
	sh.SetIntByName(shader.FrameCount, r.frameCount)
}

func (r *Renderer) applyViewUniforms(sh *shader.Shader, cam *camera.Camera) {
	w, h := cam.FrameBuffer().Size()
	sh.SetMatrixByName(shader.ViewMatrix, cam.ViewMatrix())
	sh.SetMatrixByName(shader.ProjectionMatrix, cam.ProjectionMatrix())
	sh.SetMatrixByName(shader.ViewProjectionMatrix, cam.ViewProjectionMatrix())
	sh.SetMatrixByName(shader.ViewRotationProjectionMatrix, cam.ViewRotationProjectionMatrix())
	sh.SetVector3ByName(shader.CameraPosition, cam.Position())
	sh.SetFloatByName(shader.ZNear, cam.ZNear())
	sh.SetFloatByName(shader.ZFar, cam.ZFar())
	sh.SetVector2ByName(shader.ViewportSize, math.Vec2{X: float32(w), Y: float32(h)})
}

// Stats returns the statistics of the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Counts returns the number of cameras, render models and lights known to
// the renderer.
func (r *Renderer) Counts() (cameras, models, lights int) {
	return len(r.cameras), len(r.models), len(r.lights)
}
