package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-scene/internal/engine/shader"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// MaxLights is the maximum number of lights a Buffer holds.
const MaxLights = 32

// Buffer collects the lights of one frame for upload.
type Buffer struct {
	lights []*LightSource
}

// NewBuffer creates an empty light buffer.
func NewBuffer() *Buffer {
	return &Buffer{lights: make([]*LightSource, 0, MaxLights)}
}

// Clear removes all lights from the buffer.
func (b *Buffer) Clear() {
	clear(b.lights)
	b.lights = b.lights[:0]
}

// Add appends an enabled light. It returns false if the buffer is full or the
// light is disabled.
func (b *Buffer) Add(l *LightSource) bool {
	if len(b.lights) >= MaxLights || !l.Enabled() {
		return false
	}
	b.lights = append(b.lights, l)
	return true
}

// Len returns the number of buffered lights.
func (b *Buffer) Len() int {
	return len(b.lights)
}

// Lights returns the buffered lights. The slice must not be modified.
func (b *Buffer) Lights() []*LightSource {
	return b.lights
}

// Apply writes the buffered lights into the light uniforms the shader
// declares. Declared slots without a light get zero intensity. Properties
// the shader does not declare are skipped.
func (b *Buffer) Apply(sh *shader.Shader) {
	cat := sh.Catalog()
	for i := range cat.LightCount() {
		if i >= len(b.lights) {
			if p, ok := cat.Light(shader.LightIntensity, i); ok && p.Type == shader.TypeFloat {
				sh.SetFloat(p, 0)
			}
			continue
		}
		l := b.lights[i]

		setVec3(sh, cat, shader.LightPosition, i, l.Position())
		setVec3(sh, cat, shader.LightDirection, i, l.Direction())
		setFloat(sh, cat, shader.LightIntensity, i, l.Intensity())
		setFloat(sh, cat, shader.LightRange, i, l.Range())
		setFloat(sh, cat, shader.LightSpotAngle, i, spotCutoff(l.SpotAngle()))
		if p, ok := cat.Light(shader.LightType, i); ok && p.Type == shader.TypeInt {
			sh.SetInt(p, int32(l.Kind()))
		}
		if p, ok := cat.Light(shader.LightColor, i); ok {
			switch p.Type {
			case shader.TypeVector3:
				c := l.Color()
				sh.SetVector3(p, math.Vec3{X: c.R, Y: c.G, Z: c.B})
			case shader.TypeVector4, shader.TypeColor:
				sh.SetColor(p, l.Color())
			}
		}
	}
}

func setVec3(sh *shader.Shader, cat *shader.Catalog, base string, i int, v math.Vec3) {
	if p, ok := cat.Light(base, i); ok && p.Type == shader.TypeVector3 {
		sh.SetVector3(p, v)
	}
}

func setFloat(sh *shader.Shader, cat *shader.Catalog, base string, i int, v float32) {
	if p, ok := cat.Light(base, i); ok && p.Type == shader.TypeFloat {
		sh.SetFloat(p, v)
	}
}

// spotCutoff converts a full cone angle in degrees to the cosine of its half
// angle, the value fragment shaders compare against.
func spotCutoff(degrees float32) float32 {
	return float32(gomath.Cos(float64(degrees) * gomath.Pi / 360))
}
