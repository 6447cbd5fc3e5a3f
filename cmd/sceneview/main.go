// Package main is a scene viewer that renders a grid of lit cubes through
// the engine core on a real OpenGL context.
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/cmd/sceneview/shaders"
	"github.com/Faultbox/midgard-scene/internal/config"
	"github.com/Faultbox/midgard-scene/internal/engine/camera"
	"github.com/Faultbox/midgard-scene/internal/engine/command"
	"github.com/Faultbox/midgard-scene/internal/engine/debug"
	"github.com/Faultbox/midgard-scene/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-scene/internal/engine/gpu/glbackend"
	"github.com/Faultbox/midgard-scene/internal/engine/input"
	"github.com/Faultbox/midgard-scene/internal/engine/lighting"
	"github.com/Faultbox/midgard-scene/internal/engine/material"
	"github.com/Faultbox/midgard-scene/internal/engine/model"
	"github.com/Faultbox/midgard-scene/internal/engine/picking"
	"github.com/Faultbox/midgard-scene/internal/engine/renderer"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/internal/engine/sequence"
	"github.com/Faultbox/midgard-scene/internal/engine/services"
	"github.com/Faultbox/midgard-scene/internal/engine/shader"
	"github.com/Faultbox/midgard-scene/internal/engine/texture"
	"github.com/Faultbox/midgard-scene/internal/engine/window"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

const (
	windowTitle = "Midgard Scene"
	gridSize    = 5
	gridSpacing = 2.5
	dragScale   = 0.01
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Scene Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

// viewer holds everything the frame loop touches.
type viewer struct {
	win       *window.Window
	dev       *glbackend.Device
	releases  *resource.ReleaseQueue
	textures  *texture.Library
	shaders   *shader.Library
	screen    *framebuffer.Screen
	cam       *camera.Camera
	orbit     *camera.OrbitController
	models    []*model.RenderModel
	spinner   *model.RenderModel
	selected  *material.Material
	renderer  *renderer.Renderer
	input     *input.Input
	snapshots *debug.ScreenshotCapture
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := glbackend.New()
	if err != nil {
		return err
	}

	v := &viewer{
		win:       win,
		dev:       dev,
		releases:  resource.NewReleaseQueue(cfg.Resources.ReleaseQueueCapacity),
		input:     input.New(),
		snapshots: debug.NewScreenshotCapture("screenshots", "scene"),
	}
	cmds := command.NewBuffer(cfg.Resources.CommandQueueCapacity)
	svc := services.New(cmds)

	if err := v.buildScene(cfg, svc); err != nil {
		return err
	}
	v.renderer = renderer.New(dev, cmds, v.releases)
	defer v.shutdown()

	return v.loop(cfg.Graphics.Frames)
}

func (v *viewer) buildScene(cfg *config.Config, svc *services.Services) error {
	var err error
	v.textures, err = texture.NewDefaultLibrary(v.dev, v.releases)
	if err != nil {
		return fmt.Errorf("creating texture library: %w", err)
	}
	checker, err := texture.FromImage(v.dev, v.releases, checkerboard(64, 8))
	if err != nil {
		return fmt.Errorf("creating checker texture: %w", err)
	}
	checkerID := v.textures.Add(checker)

	v.shaders = shader.NewLibrary(v.dev, v.releases)
	if cfg.Shaders.Vertex != "" {
		_, err = v.shaders.LoadFiles("lit", cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	} else {
		_, err = v.shaders.Load("lit", shaders.LitVertexShader, shaders.LitFragmentShader)
	}
	if err != nil {
		return fmt.Errorf("loading lit shader: %w", err)
	}

	materials := material.NewLibrary(sequence.NewAtomic(0), v.textures, v.shaders)
	v.shaders.OnRelease(materials.Forget)
	plain, err := materials.NewFromIdentifier("plain", "lit")
	if err != nil {
		return err
	}
	plain.SetColor("BaseColor", math.RGBA(200, 200, 210, 255))
	plain.SetFloat("Shininess", 32)

	checkered := plain.Clone("checkered")
	checkered.SetTextureByID("Diffuse", checkerID)
	checkered.SetColor("BaseColor", math.RGBA(255, 180, 120, 255))

	vertices, indices := model.Cube(1)
	cube, err := model.NewMesh(v.dev, v.releases, vertices, indices)
	if err != nil {
		return fmt.Errorf("creating cube mesh: %w", err)
	}

	var bounds []math.Vec3
	offset := float32(gridSize-1) * gridSpacing / 2
	for i := range gridSize * gridSize {
		mat := plain
		if i%2 == 0 {
			mat = checkered
		}
		m := model.New(svc, cube, mat)
		m.Transform().SetPosition(math.Vec3{
			X: float32(i%gridSize)*gridSpacing - offset,
			Z: float32(i/gridSize)*gridSpacing - offset,
		})
		box := m.BoundingBox()
		bounds = append(bounds, box.Min, box.Max)
		v.models = append(v.models, m)
	}
	v.spinner = v.models[len(v.models)/2]
	v.spinner.Transform().SetScale(math.Vec3{X: 1.5, Y: 1.5, Z: 1.5})

	sun := lighting.NewLightSource(svc, lighting.Directional)
	sun.PointAtSun(45, 60)
	sun.SetColor(math.RGBA(255, 244, 214, 255))

	lamp := lighting.NewLightSource(svc, lighting.Point)
	lamp.Transform().SetPosition(math.Vec3{Y: 3})
	lamp.SetColor(math.RGBA(120, 160, 255, 255))
	lamp.SetIntensity(1.5)
	lamp.SetRange(8)

	v.screen = framebuffer.NewScreen(v.dev, v.win.DrawableSize)
	v.cam, err = camera.New(svc, v.screen)
	if err != nil {
		return err
	}
	v.cam.SetFieldOfView(cfg.Camera.FieldOfView)
	v.cam.SetZPlanes(cfg.Camera.ZNear, cfg.Camera.ZFar)
	v.cam.SetOrthographicSize(cfg.Camera.OrthographicSize)
	if cfg.Camera.Projection == "orthographic" {
		v.cam.SetProjection(camera.Orthographic)
	}
	v.cam.SetClearColor(math.Color{R: 0.1, G: 0.1, B: 0.15, A: 1})

	v.orbit = camera.NewOrbitController()
	v.orbit.FitToBounds(math.BoxFromPoints(bounds...))
	v.orbit.Apply(v.cam.Transform())
	return nil
}

func (v *viewer) loop(maxFrames int) error {
	last := time.Now()
	for frame := 0; maxFrames == 0 || frame < maxFrames; frame++ {
		if v.input.Update() || v.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			return nil
		}
		v.handleInput()

		now := time.Now()
		delta := now.Sub(last)
		last = now

		v.spinner.Transform().Rotate(math.Vec3{Y: 1}, float32(delta.Seconds()))
		v.orbit.Apply(v.cam.Transform())

		v.renderer.Sync()
		stats := v.renderer.RenderFrame(delta)
		if frame%600 == 0 {
			logger.Debug("frame",
				zap.Int("frame", frame),
				zap.Int("drawn", stats.Drawn),
				zap.Int("culled", stats.Culled),
				zap.Int("released", stats.Released),
			)
		}

		if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
			if _, err := v.snapshots.Capture(v.dev, v.screen); err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
			}
		}
		v.win.SwapBuffers()
	}
	return nil
}

func (v *viewer) handleInput() {
	if v.input.IsButtonDown(sdl.BUTTON_RIGHT) {
		dx, dy := v.input.Drag()
		v.orbit.HandleDrag(dx*dragScale, dy*dragScale)
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.orbit.HandleZoom(wheel)
	}

	for _, e := range v.input.Events() {
		if e.Type != input.EventMouseDown || e.Button != sdl.BUTTON_LEFT {
			continue
		}
		// Mouse coordinates are in points, the camera target in pixels.
		ww, wh := v.win.GetSize()
		dw, dh := v.win.DrawableSize()
		x := float32(e.MouseX) * float32(dw) / float32(ww)
		y := float32(e.MouseY) * float32(dh) / float32(wh)

		ray := picking.ScreenToRay(v.cam, x, y)
		if hit, dist, ok := picking.Pick(ray, v.models); ok {
			v.toggleDoubleSided(hit)
			logger.Info("picked model", zap.Uint64("id", hit.ID()), zap.Float32("distance", dist))
		}
	}
}

// toggleDoubleSided flips culling of the picked model and makes its material
// pulse.
func (v *viewer) toggleDoubleSided(m *model.RenderModel) {
	if err := m.SetDoubleSided(!m.DoubleSided()); err != nil {
		logger.Warn("toggling model", zap.Error(err))
		return
	}
	if v.selected != nil {
		v.selected.SetFloat("Pulse", 0)
	}
	v.selected = m.Material()
	v.selected.SetFloat("Pulse", 1)
}

func (v *viewer) shutdown() {
	for _, m := range v.models {
		m.Dispose()
	}
	v.renderer.Sync()
	v.shaders.Dispose()
	v.textures.Dispose()
	n := v.releases.Close()
	logger.Info("released gpu resources on shutdown", zap.Int("count", n), zap.Int64("total", v.releases.Released()))
}

func checkerboard(size, cells int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	light := color.RGBA{R: 235, G: 235, B: 235, A: 255}
	dark := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	for y := range size {
		for x := range size {
			c := dark
			if (x/cell+y/cell)%2 == 0 {
				c = light
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
