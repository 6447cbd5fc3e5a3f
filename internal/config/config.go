// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Camera    CameraConfig    `yaml:"camera"`
	Resources ResourcesConfig `yaml:"resources"`
	Shaders   ShadersConfig   `yaml:"shaders"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	// Frames stops the viewer after this many frames. Zero runs until the
	// window is closed.
	Frames int `yaml:"frames"`
}

// CameraConfig holds the initial camera projection.
type CameraConfig struct {
	FieldOfView float32 `yaml:"field_of_view"`
	ZNear       float32 `yaml:"z_near"`
	ZFar        float32 `yaml:"z_far"`
	// Projection is "perspective" or "orthographic".
	Projection       string  `yaml:"projection"`
	OrthographicSize float32 `yaml:"orthographic_size"`
}

// ResourcesConfig sizes the queues between the update and render threads.
type ResourcesConfig struct {
	ReleaseQueueCapacity int `yaml:"release_queue_capacity"`
	CommandQueueCapacity int `yaml:"command_queue_capacity"`
}

// ShadersConfig points at GLSL sources. Empty paths select the built-in
// shaders.
type ShadersConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FieldOfView:      60,
			ZNear:            0.1,
			ZFar:             1000,
			Projection:       "perspective",
			OrthographicSize: 10,
		},
		Resources: ResourcesConfig{
			ReleaseQueueCapacity: 256,
			CommandQueueCapacity: 256,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView > 180 {
		errs = append(errs, fmt.Errorf("camera: field_of_view %v outside (0, 180]", c.Camera.FieldOfView))
	}
	switch c.Camera.Projection {
	case "perspective", "orthographic":
	default:
		errs = append(errs, fmt.Errorf("camera: unknown projection %q", c.Camera.Projection))
	}
	if (c.Shaders.Vertex == "") != (c.Shaders.Fragment == "") {
		errs = append(errs, errors.New("shaders: vertex and fragment must be set together"))
	}
	if c.Resources.ReleaseQueueCapacity < 0 || c.Resources.CommandQueueCapacity < 0 {
		errs = append(errs, errors.New("resources: negative queue capacity"))
	}
	return errors.Join(errs...)
}
