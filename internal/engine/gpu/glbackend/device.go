// Package glbackend implements gpu.Device on OpenGL 4.1 core.
//
// Every method must run on the thread that owns the GL context.
package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// vertexStride is the byte size of one position/normal/uv vertex.
const vertexStride = 8 * 4

type meshBuffers struct {
	vbo, ebo uint32
}

type framebufferAttachments struct {
	color, depth uint32
}

// Device is the OpenGL gpu.Device.
type Device struct {
	meshes       map[uint32]meshBuffers
	framebuffers map[uint32]framebufferAttachments
	cullEnabled  bool
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL function pointers and sets the default state.
// IMPORTANT: Must be called AFTER the GL context is created!
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	return &Device{
		meshes:       make(map[uint32]meshBuffers),
		framebuffers: make(map[uint32]framebufferAttachments),
		cullEnabled:  true,
	}, nil
}

func (d *Device) SetFloat(location int32, v float32) { gl.Uniform1f(location, v) }
func (d *Device) SetInt(location int32, v int32) { gl.Uniform1i(location, v) }
func (d *Device) SetVec2(location int32, v math.Vec2) { gl.Uniform2f(location, v.X, v.Y) }
func (d *Device) SetVec3(location int32, v math.Vec3) { gl.Uniform3f(location, v.X, v.Y, v.Z) }
func (d *Device) SetVec4(location int32, v math.Vec4) { gl.Uniform4f(location, v[0], v[1], v[2], v[3]) }
func (d *Device) SetMat4(location int32, m math.Mat4) { gl.UniformMatrix4fv(location, 1, false, &m[0]) }

// SetSampler binds handle on unit and points the sampler uniform at it.
func (d *Device) SetSampler(location int32, kind gpu.ResourceKind, unit int32, handle uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(textureTarget(kind), handle)
	gl.Uniform1i(location, unit)
}

func textureTarget(kind gpu.ResourceKind) uint32 {
	if kind == gpu.KindCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

// Bind makes handle current.
func (d *Device) Bind(kind gpu.ResourceKind, handle uint32, unit int32) {
	switch kind {
	case gpu.KindTexture, gpu.KindCubeMap:
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(textureTarget(kind), handle)
	case gpu.KindMesh:
		gl.BindVertexArray(handle)
	case gpu.KindFramebuffer:
		gl.BindFramebuffer(gl.FRAMEBUFFER, handle)
	case gpu.KindProgram:
		gl.UseProgram(handle)
	}
}

// Unbind restores the default binding for kind.
func (d *Device) Unbind(kind gpu.ResourceKind, unit int32) {
	d.Bind(kind, 0, unit)
}

// Delete releases the native object and anything attached to it.
func (d *Device) Delete(kind gpu.ResourceKind, handle uint32) {
	switch kind {
	case gpu.KindTexture, gpu.KindCubeMap:
		gl.DeleteTextures(1, &handle)
	case gpu.KindMesh:
		if b, ok := d.meshes[handle]; ok {
			gl.DeleteBuffers(1, &b.vbo)
			gl.DeleteBuffers(1, &b.ebo)
			delete(d.meshes, handle)
		}
		gl.DeleteVertexArrays(1, &handle)
	case gpu.KindFramebuffer:
		if a, ok := d.framebuffers[handle]; ok {
			gl.DeleteTextures(1, &a.color)
			gl.DeleteRenderbuffers(1, &a.depth)
			delete(d.framebuffers, handle)
		}
		gl.DeleteFramebuffers(1, &handle)
	case gpu.KindProgram:
		gl.DeleteProgram(handle)
	}
}

// CreateTexture uploads an RGBA8 image with mipmaps.
func (d *Device) CreateTexture(width, height int32, rgba []byte) (uint32, error) {
	if width <= 0 || height <= 0 || len(rgba) != int(width*height*4) {
		return 0, fmt.Errorf("texture %dx%d: got %d bytes", width, height, len(rgba))
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return tex, nil
}

// CreateCubeMap uploads six square RGBA8 faces in +X, -X, +Y, -Y, +Z, -Z order.
func (d *Device) CreateCubeMap(size int32, faces [6][]byte) (uint32, error) {
	for i, face := range faces {
		if size <= 0 || len(face) != int(size*size*4) {
			return 0, fmt.Errorf("cubemap face %d: %dx%d got %d bytes", i, size, size, len(face))
		}
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)
	for i, face := range faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA, size, size, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&face[0]))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return tex, nil
}

// CreateFramebuffer creates an offscreen target with a color texture and a
// depth renderbuffer.
func (d *Device) CreateFramebuffer(width, height int32) (uint32, error) {
	var fbo uint32
	var a framebufferAttachments

	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	gl.GenTextures(1, &a.color)
	gl.BindTexture(gl.TEXTURE_2D, a.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, a.color, 0)

	gl.GenRenderbuffers(1, &a.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, a.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, a.depth)

	d.framebuffers[fbo] = a

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		d.Delete(gpu.KindFramebuffer, fbo)
		return 0, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return fbo, nil
}

// ResizeFramebuffer reallocates the attachments of handle.
func (d *Device) ResizeFramebuffer(handle uint32, width, height int32) {
	a, ok := d.framebuffers[handle]
	if !ok {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, a.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindRenderbuffer(gl.RENDERBUFFER, a.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// CreateMesh uploads interleaved vertices and an index buffer into a VAO.
func (d *Device) CreateMesh(vertices []float32, indices []uint32) (uint32, error) {
	if len(vertices) == 0 || len(vertices)%8 != 0 {
		return 0, fmt.Errorf("mesh: %d floats is not a whole number of vertices", len(vertices))
	}
	if len(indices) == 0 {
		return 0, fmt.Errorf("mesh: no indices")
	}

	var vao uint32
	var b meshBuffers

	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	// Position (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride, nil)
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	// TexCoord (location = 2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, vertexStride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	d.meshes[vao] = b

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", vao),
		zap.Int("vertices", len(vertices)/8),
		zap.Int("indices", len(indices)),
	)
	return vao, nil
}

// Viewport sets the viewport to the full target.
func (d *Device) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

// Clear clears color and depth.
func (d *Device) Clear(c math.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw draws indexCount indices of mesh. Double sided meshes disable culling.
func (d *Device) Draw(mesh uint32, indexCount int32, doubleSided bool) {
	if doubleSided == d.cullEnabled {
		if doubleSided {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
		}
		d.cullEnabled = !doubleSided
	}
	gl.BindVertexArray(mesh)
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// ReadPixels reads the color buffer of the bound framebuffer as RGBA, bottom
// row first.
func (d *Device) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
