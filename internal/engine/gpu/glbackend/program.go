package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/logger"
)

// CompileProgram compiles vertex and fragment shaders, links them and
// reports the active uniforms of the program.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, []gpu.Uniform, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, nil, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, nil, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, nil, fmt.Errorf("link: %s", strings.TrimRight(string(log), "\x00"))
	}

	uniforms := activeUniforms(program)
	logger.Debug("shader program created",
		zap.Uint32("program", program),
		zap.Int("uniforms", len(uniforms)),
	)
	return program, uniforms, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(string(log), "\x00"))
	}

	return shader, nil
}

// activeUniforms lists the uniforms the linker kept. Array uniforms are
// reported by their base name.
func activeUniforms(program uint32) []gpu.Uniform {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if count == 0 {
		return nil
	}

	buf := make([]uint8, maxLen+1)
	uniforms := make([]gpu.Uniform, 0, count)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, i, maxLen+1, &length, &size, &xtype, &buf[0])

		name := strings.TrimSuffix(string(buf[:length]), "[0]")
		uniforms = append(uniforms, gpu.Uniform{
			Name:     name,
			Type:     uniformType(xtype),
			Location: gl.GetUniformLocation(program, gl.Str(name+"\x00")),
			Raw:      xtype,
		})
	}
	return uniforms
}

func uniformType(xtype uint32) gpu.UniformType {
	switch xtype {
	case gl.FLOAT:
		return gpu.UniformFloat
	case gl.INT:
		return gpu.UniformInt
	case gl.BOOL:
		return gpu.UniformBool
	case gl.FLOAT_VEC2:
		return gpu.UniformVec2
	case gl.FLOAT_VEC3:
		return gpu.UniformVec3
	case gl.FLOAT_VEC4:
		return gpu.UniformVec4
	case gl.FLOAT_MAT3:
		return gpu.UniformMat3
	case gl.FLOAT_MAT4:
		return gpu.UniformMat4
	case gl.SAMPLER_2D:
		return gpu.UniformSampler2D
	case gl.SAMPLER_CUBE:
		return gpu.UniformSamplerCube
	default:
		return gpu.UniformUnknown
	}
}
