// Package lighting provides scene light sources and their packing into
// per-light shader uniforms.
package lighting

import (
	"fmt"

	"github.com/Faultbox/midgard-scene/internal/engine/command"
	"github.com/Faultbox/midgard-scene/internal/engine/services"
	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Kind is the shape of the emitted light. Its value is what shaders read from
// the LightType uniform.
type Kind int32

// Light kinds.
const (
	Directional Kind = iota
	Point
	Spot
)

func (k Kind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// Defaults for new lights.
const (
	DefaultIntensity = 1
	DefaultRange     = 100
	DefaultSpotAngle = 45
)

// LightSource is a light placed by its transform. Directional and spot lights
// shine along the transform's Forward.
type LightSource struct {
	id        uint64
	svc       *services.Services
	transform *transform.Transform

	kind       Kind
	color      math.Color
	intensity  float32
	lightRange float32
	spotAngle  float32
	enabled    bool
}

// NewLightSource creates an enabled white light and announces it on the
// command queue.
func NewLightSource(svc *services.Services, kind Kind) *LightSource {
	l := &LightSource{
		id:         svc.LightIDs.Next(),
		svc:        svc,
		transform:  transform.New(),
		kind:       kind,
		color:      math.ColorWhite,
		intensity:  DefaultIntensity,
		lightRange: DefaultRange,
		spotAngle:  DefaultSpotAngle,
		enabled:    true,
	}
	svc.Commands.Push(command.Command{
		Subject: command.SubjectLight,
		Kind:    command.Create,
		ID:      l.id,
		Target:  l,
		Enabled: l.enabled,
	})
	return l
}

// ID returns the process-unique light id.
func (l *LightSource) ID() uint64 {
	return l.id
}

func (l *LightSource) Transform() *transform.Transform {
	return l.transform
}

func (l *LightSource) Kind() Kind {
	return l.kind
}

func (l *LightSource) SetKind(k Kind) {
	l.kind = k
}

func (l *LightSource) Color() math.Color {
	return l.color
}

func (l *LightSource) SetColor(c math.Color) {
	l.color = c
}

func (l *LightSource) Intensity() float32 {
	return l.intensity
}

// SetIntensity sets the brightness multiplier. Negative values clamp to 0.
func (l *LightSource) SetIntensity(v float32) {
	l.intensity = max(v, 0)
}

// Range returns the falloff distance of point and spot lights.
func (l *LightSource) Range() float32 {
	return l.lightRange
}

// SetRange sets the falloff distance. Non-positive values select DefaultRange.
func (l *LightSource) SetRange(r float32) {
	if r <= 0 {
		r = DefaultRange
	}
	l.lightRange = r
}

// SpotAngle returns the full cone angle in degrees.
func (l *LightSource) SpotAngle() float32 {
	return l.spotAngle
}

// SetSpotAngle sets the full cone angle in degrees, clamped to [0, 180].
func (l *LightSource) SetSpotAngle(degrees float32) {
	l.spotAngle = min(max(degrees, 0), 180)
}

// Position returns the world position.
func (l *LightSource) Position() math.Vec3 {
	return l.transform.Position()
}

// Direction returns the direction the light travels.
func (l *LightSource) Direction() math.Vec3 {
	return l.transform.Forward()
}

// Enabled reports whether the renderer uses this light.
func (l *LightSource) Enabled() bool {
	return l.enabled
}

// SetEnabled toggles the light and notifies the renderer on change.
func (l *LightSource) SetEnabled(enabled bool) {
	if enabled == l.enabled {
		return
	}
	l.enabled = enabled
	l.svc.Commands.Push(command.Command{
		Subject: command.SubjectLight,
		Kind:    command.EnabledChanged,
		ID:      l.id,
		Target:  l,
		Enabled: enabled,
	})
}

// PointAtSun orients a directional light so it shines from the sun position
// given in degrees.
func (l *LightSource) PointAtSun(longitude, latitude float32) {
	toSun := SunDirection(longitude, latitude)
	l.transform.LookAt(l.transform.Position().Sub(toSun), math.Vec3{Y: 1})
}
