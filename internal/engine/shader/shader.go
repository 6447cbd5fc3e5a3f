// Package shader wraps linked GPU programs and classifies their uniforms into
// the frame, view, draw, light and material buckets that feed them.
package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Shader is a linked program and its property catalog.
type Shader struct {
	*resource.Resource
	id      string
	catalog *Catalog
}

// Compile compiles and links a program on dev and introspects its uniforms.
func Compile(dev gpu.Device, queue *resource.ReleaseQueue, id, vertexSrc, fragmentSrc string) (*Shader, error) {
	handle, uniforms, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", id, err)
	}

	catalog, err := NewCatalog(uniforms)
	if err != nil {
		dev.Delete(gpu.KindProgram, handle)
		return nil, fmt.Errorf("shader %q: %w", id, err)
	}

	logger.Named("shader").Info("shader catalog built",
		zap.String("shader", id),
		zap.Uint32("program", handle),
		zap.Int("properties", catalog.Len()),
		zap.Int("material", len(catalog.Category(CategoryMaterial))),
		zap.Int("lights", catalog.LightCount()),
	)

	return &Shader{
		Resource: resource.New(gpu.KindProgram, handle, dev, queue),
		id:       id,
		catalog:  catalog,
	}, nil
}

// ID returns the identifier the shader was compiled under.
func (s *Shader) ID() string {
	return s.id
}

// Catalog returns the classified properties.
func (s *Shader) Catalog() *Catalog {
	return s.catalog
}

// Use makes the program current.
func (s *Shader) Use() error {
	return s.Activate(0)
}

// SetFloat uploads a float uniform. The shader must be in use.
func (s *Shader) SetFloat(p Property, v float32) { s.Device().SetFloat(p.Index, v) }

// SetInt uploads an int uniform.
func (s *Shader) SetInt(p Property, v int32) { s.Device().SetInt(p.Index, v) }

// SetMatrix uploads a 4x4 matrix uniform.
func (s *Shader) SetMatrix(p Property, m math.Mat4) { s.Device().SetMat4(p.Index, m) }

// SetVector2 uploads a vec2 uniform.
func (s *Shader) SetVector2(p Property, v math.Vec2) { s.Device().SetVec2(p.Index, v) }

// SetVector3 uploads a vec3 uniform.
func (s *Shader) SetVector3(p Property, v math.Vec3) { s.Device().SetVec3(p.Index, v) }

// SetVector4 uploads a vec4 uniform.
func (s *Shader) SetVector4(p Property, v math.Vec4) { s.Device().SetVec4(p.Index, v) }

// SetColor uploads a color as a vec4 uniform.
func (s *Shader) SetColor(p Property, c math.Color) { s.Device().SetVec4(p.Index, c.Vec4()) }

// SetTexture binds the 2D texture handle to the property's unit.
func (s *Shader) SetTexture(p Property, handle uint32) {
	s.Device().SetSampler(p.Index, gpu.KindTexture, p.TextureUnit, handle)
}

// SetNormalMapTexture binds a normal map handle to the property's unit.
func (s *Shader) SetNormalMapTexture(p Property, handle uint32) {
	s.Device().SetSampler(p.Index, gpu.KindTexture, p.TextureUnit, handle)
}

// SetCubeMapTexture binds the cube map handle to the property's unit.
func (s *Shader) SetCubeMapTexture(p Property, handle uint32) {
	s.Device().SetSampler(p.Index, gpu.KindCubeMap, p.TextureUnit, handle)
}

// SetMatrixByName sets a matrix property if the shader declares it with that
// type.
func (s *Shader) SetMatrixByName(name string, m math.Mat4) {
	if p, ok := s.catalog.Property(name); ok && p.Type == TypeMatrix {
		s.SetMatrix(p, m)
	}
}

// SetFloatByName sets a float property if the shader declares it.
func (s *Shader) SetFloatByName(name string, v float32) {
	if p, ok := s.catalog.Property(name); ok && p.Type == TypeFloat {
		s.SetFloat(p, v)
	}
}

// SetIntByName sets an int property if the shader declares it.
func (s *Shader) SetIntByName(name string, v int32) {
	if p, ok := s.catalog.Property(name); ok && p.Type == TypeInt {
		s.SetInt(p, v)
	}
}

// SetVector2ByName sets a vec2 property if the shader declares it.
func (s *Shader) SetVector2ByName(name string, v math.Vec2) {
	if p, ok := s.catalog.Property(name); ok && p.Type == TypeVector2 {
		s.SetVector2(p, v)
	}
}

// SetVector3ByName sets a vec3 property if the shader declares it.
func (s *Shader) SetVector3ByName(name string, v math.Vec3) {
	if p, ok := s.catalog.Property(name); ok && p.Type == TypeVector3 {
		s.SetVector3(p, v)
	}
}

// SetColorByName sets a color property. vec3 declarations receive RGB only.
func (s *Shader) SetColorByName(name string, c math.Color) {
	p, ok := s.catalog.Property(name)
	if !ok {
		return
	}
	switch p.Type {
	case TypeColor, TypeVector4:
		s.SetColor(p, c)
	case TypeVector3:
		s.SetVector3(p, math.Vec3{X: c.R, Y: c.G, Z: c.B})
	}
}
