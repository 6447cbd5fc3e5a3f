// Package material packs per-material shader values into a byte buffer laid
// out once per shader, and pushes them to the shader before a draw.
//
// Setters silently ignore unknown names and type mismatches, so one material
// can feed shader variants that declare only some of its properties.
package material

import (
	"github.com/Faultbox/midgard-scene/internal/engine/shader"
	"github.com/Faultbox/midgard-scene/internal/engine/texture"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Material holds the values of a shader's material properties.
type Material struct {
	name      string
	lib       *Library
	layout    *layout
	data      []byte
	timestamp uint64
}

// Clone returns a material with a copy of m's values and the same layout.
func (m *Material) Clone(name string) *Material {
	return &Material{
		name:      name,
		lib:       m.lib,
		layout:    m.layout,
		data:      append([]byte(nil), m.data...),
		timestamp: m.lib.clock.Next(),
	}
}

// Name returns the material name. Names are not unique.
func (m *Material) Name() string {
	return m.name
}

// Shader returns the shader the material was laid out for.
func (m *Material) Shader() *shader.Shader {
	return m.layout.shader
}

// Timestamp changes on every successful write.
func (m *Material) Timestamp() uint64 {
	return m.timestamp
}

// Properties returns the material properties in layout order.
func (m *Material) Properties() []shader.Property {
	return m.layout.properties
}

// Bytes returns a copy of the packed values.
func (m *Material) Bytes() []byte {
	return append([]byte(nil), m.data...)
}

// Has reports whether the shader declares name as a material property.
func (m *Material) Has(name string) bool {
	_, ok := m.layout.index[name]
	return ok
}

func (m *Material) write(name string, t shader.PropertyType, put func(b []byte)) {
	off, ok := m.layout.slot(name, t)
	if !ok {
		return
	}
	put(m.data[off : off+t.Size()])
	m.timestamp = m.lib.clock.Next()
}

func (m *Material) read(name string, t shader.PropertyType) ([]byte, bool) {
	off, ok := m.layout.slot(name, t)
	if !ok {
		return nil, false
	}
	return m.data[off : off+t.Size()], true
}

// SetFloat writes a float property. Unknown names and type mismatches are ignored.
func (m *Material) SetFloat(name string, v float32) {
	m.write(name, shader.TypeFloat, func(b []byte) { putFloats(b, v) })
}

// SetInt writes an int property.
func (m *Material) SetInt(name string, v int32) {
	m.write(name, shader.TypeInt, func(b []byte) { le.PutUint32(b, uint32(v)) })
}

// SetMatrix writes a 4x4 matrix property.
func (m *Material) SetMatrix(name string, v math.Mat4) {
	m.write(name, shader.TypeMatrix, func(b []byte) { putMatrix(b, v) })
}

// SetVector2 writes a vec2 property.
func (m *Material) SetVector2(name string, v math.Vec2) {
	m.write(name, shader.TypeVector2, func(b []byte) { putFloats(b, v.X, v.Y) })
}

// SetVector3 writes a vec3 property.
func (m *Material) SetVector3(name string, v math.Vec3) {
	m.write(name, shader.TypeVector3, func(b []byte) { putFloats(b, v.X, v.Y, v.Z) })
}

// SetVector4 writes a vec4 property.
func (m *Material) SetVector4(name string, v math.Vec4) {
	m.write(name, shader.TypeVector4, func(b []byte) { putFloats(b, v[:]...) })
}

// SetColor writes a color property.
func (m *Material) SetColor(name string, c math.Color) {
	m.write(name, shader.TypeColor, func(b []byte) { putFloats(b, c.R, c.G, c.B, c.A) })
}

func textureHandle(t *texture.Texture) uint32 {
	if t == nil {
		return 0
	}
	return t.Handle()
}

func cubeMapHandle(c *texture.CubeMap) uint32 {
	if c == nil {
		return 0
	}
	return c.Handle()
}

func (m *Material) setHandle(name string, t shader.PropertyType, h uint32) {
	m.write(name, t, func(b []byte) { le.PutUint32(b, h) })
}

// SetTexture stores the handle of t. A nil texture selects the fallback.
func (m *Material) SetTexture(name string, t *texture.Texture) {
	if t == nil {
		t = m.lib.textures.Fallback()
	}
	m.setHandle(name, shader.TypeTexture, textureHandle(t))
}

// SetNormalMapTexture stores the handle of a normal map texture.
func (m *Material) SetNormalMapTexture(name string, t *texture.Texture) {
	if t == nil {
		t = m.lib.textures.Fallback()
	}
	m.setHandle(name, shader.TypeNormalMapTexture, textureHandle(t))
}

// SetCubeMapTexture stores the handle of c. A nil cube map selects the fallback.
func (m *Material) SetCubeMapTexture(name string, c *texture.CubeMap) {
	if c == nil {
		c = m.lib.textures.FallbackCubeMap()
	}
	m.setHandle(name, shader.TypeCubeMapTexture, cubeMapHandle(c))
}

// SetTextureByID resolves id through the texture repository, falling back on
// a miss.
func (m *Material) SetTextureByID(name, id string) {
	m.SetTexture(name, m.lib.textures.Texture(id))
}

// SetNormalMapTextureByID resolves id through the texture repository.
func (m *Material) SetNormalMapTextureByID(name, id string) {
	m.SetNormalMapTexture(name, m.lib.textures.Texture(id))
}

// SetCubeMapTextureByID resolves id through the texture repository.
func (m *Material) SetCubeMapTextureByID(name, id string) {
	m.SetCubeMapTexture(name, m.lib.textures.CubeMap(id))
}

// Float reads a float property. ok is false if name is not a float of the shader.
func (m *Material) Float(name string) (float32, bool) {
	b, ok := m.read(name, shader.TypeFloat)
	if !ok {
		return 0, false
	}
	return getFloat(b, 0), true
}

// Int reads an int property.
func (m *Material) Int(name string) (int32, bool) {
	b, ok := m.read(name, shader.TypeInt)
	if !ok {
		return 0, false
	}
	return int32(le.Uint32(b)), true
}

// Matrix reads a 4x4 matrix property.
func (m *Material) Matrix(name string) (math.Mat4, bool) {
	b, ok := m.read(name, shader.TypeMatrix)
	if !ok {
		return math.Mat4{}, false
	}
	return getMatrix(b), true
}

// Vector2 reads a vec2 property.
func (m *Material) Vector2(name string) (math.Vec2, bool) {
	b, ok := m.read(name, shader.TypeVector2)
	if !ok {
		return math.Vec2{}, false
	}
	return math.Vec2{X: getFloat(b, 0), Y: getFloat(b, 1)}, true
}

// Vector3 reads a vec3 property.
func (m *Material) Vector3(name string) (math.Vec3, bool) {
	b, ok := m.read(name, shader.TypeVector3)
	if !ok {
		return math.Vec3{}, false
	}
	return math.Vec3{X: getFloat(b, 0), Y: getFloat(b, 1), Z: getFloat(b, 2)}, true
}

// Vector4 reads a vec4 property.
func (m *Material) Vector4(name string) (math.Vec4, bool) {
	b, ok := m.read(name, shader.TypeVector4)
	if !ok {
		return math.Vec4{}, false
	}
	return getVec4(b), true
}

// Color reads a color property.
func (m *Material) Color(name string) (math.Color, bool) {
	b, ok := m.read(name, shader.TypeColor)
	if !ok {
		return math.Color{}, false
	}
	v := getVec4(b)
	return math.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, true
}

// TextureHandle returns the GPU handle stored for any texture-like property.
func (m *Material) TextureHandle(name string) (uint32, bool) {
	i, ok := m.layout.index[name]
	if !ok || !m.layout.properties[i].Type.IsTexture() {
		return 0, false
	}
	return le.Uint32(m.data[m.layout.offsets[i]:]), true
}

// TransferToShader pushes every value to the shader's uniforms. The shader
// must be in use.
func (m *Material) TransferToShader() {
	sh := m.layout.shader
	for i, p := range m.layout.properties {
		b := m.data[m.layout.offsets[i]:]
		switch p.Type {
		case shader.TypeFloat:
			sh.SetFloat(p, getFloat(b, 0))
		case shader.TypeInt:
			sh.SetInt(p, int32(le.Uint32(b)))
		case shader.TypeMatrix:
			sh.SetMatrix(p, getMatrix(b))
		case shader.TypeVector2:
			sh.SetVector2(p, math.Vec2{X: getFloat(b, 0), Y: getFloat(b, 1)})
		case shader.TypeVector3:
			sh.SetVector3(p, math.Vec3{X: getFloat(b, 0), Y: getFloat(b, 1), Z: getFloat(b, 2)})
		case shader.TypeVector4:
			sh.SetVector4(p, getVec4(b))
		case shader.TypeColor:
			v := getVec4(b)
			sh.SetColor(p, math.Color{R: v[0], G: v[1], B: v[2], A: v[3]})
		case shader.TypeTexture:
			sh.SetTexture(p, le.Uint32(b))
		case shader.TypeNormalMapTexture:
			sh.SetNormalMapTexture(p, le.Uint32(b))
		case shader.TypeCubeMapTexture:
			sh.SetCubeMapTexture(p, le.Uint32(b))
		}
	}
}
