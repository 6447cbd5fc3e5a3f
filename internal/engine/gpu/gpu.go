// Package gpu is the boundary between the scene core and a graphics backend.
//
// The core never calls a graphics API directly. It binds, releases and feeds
// resources through a Device, which the backend implements on the thread that
// owns the graphics context.
package gpu

import (
	"fmt"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// ResourceKind tags a native handle with the object type it names.
type ResourceKind uint8

// Resource kinds.
const (
	KindTexture ResourceKind = iota + 1
	KindCubeMap
	KindMesh
	KindFramebuffer
	KindProgram
)

func (k ResourceKind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindCubeMap:
		return "cubemap"
	case KindMesh:
		return "mesh"
	case KindFramebuffer:
		return "framebuffer"
	case KindProgram:
		return "program"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// UniformType is the compiler-reported type of an active uniform.
type UniformType uint8

// Uniform types a backend can report. UniformUnknown carries the backend's raw
// type code in Uniform.Raw.
const (
	UniformUnknown UniformType = iota
	UniformFloat
	UniformInt
	UniformBool
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat3
	UniformMat4
	UniformSampler2D
	UniformSamplerCube
)

func (t UniformType) String() string {
	switch t {
	case UniformFloat:
		return "float"
	case UniformInt:
		return "int"
	case UniformBool:
		return "bool"
	case UniformVec2:
		return "vec2"
	case UniformVec3:
		return "vec3"
	case UniformVec4:
		return "vec4"
	case UniformMat3:
		return "mat3"
	case UniformMat4:
		return "mat4"
	case UniformSampler2D:
		return "sampler2D"
	case UniformSamplerCube:
		return "samplerCube"
	default:
		return "unknown"
	}
}

// Uniform describes one active uniform of a linked program.
type Uniform struct {
	Name     string
	Type     UniformType
	Location int32
	// Raw is the backend's own type code, kept for diagnostics.
	Raw uint32
}

// UniformSink receives uniform values for the currently bound program.
type UniformSink interface {
	SetFloat(location int32, v float32)
	SetInt(location int32, v int32)
	SetVec2(location int32, v math.Vec2)
	SetVec3(location int32, v math.Vec3)
	SetVec4(location int32, v math.Vec4)
	SetMat4(location int32, m math.Mat4)
	// SetSampler binds handle to texture unit and points the sampler at it.
	SetSampler(location int32, kind ResourceKind, unit int32, handle uint32)
}

// Device is the graphics backend. All methods must be called on the thread
// owning the graphics context.
type Device interface {
	UniformSink

	// Bind makes handle current. unit selects the texture unit for textures
	// and is ignored otherwise.
	Bind(kind ResourceKind, handle uint32, unit int32)
	// Unbind restores the default binding for kind.
	Unbind(kind ResourceKind, unit int32)
	// Delete releases the native object.
	Delete(kind ResourceKind, handle uint32)

	// CompileProgram compiles and links a program and reports its active uniforms.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, []Uniform, error)
	CreateTexture(width, height int32, rgba []byte) (uint32, error)
	CreateCubeMap(size int32, faces [6][]byte) (uint32, error)
	CreateFramebuffer(width, height int32) (uint32, error)
	ResizeFramebuffer(handle uint32, width, height int32)
	// CreateMesh uploads interleaved position/normal/uv vertices (8 floats each).
	CreateMesh(vertices []float32, indices []uint32) (uint32, error)

	Viewport(width, height int32)
	Clear(c math.Color)
	Draw(mesh uint32, indexCount int32, doubleSided bool)
}
