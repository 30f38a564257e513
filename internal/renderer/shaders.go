package renderer

import (
	"os"
	"path/filepath"
	"strings"

	"GopherWater/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultGLSLVersion is used for sources that do not declare their own.
const DefaultGLSLVersion = "#version 410 core"

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	Name     string
	program  uint32
	device   Device
	uniforms *UniformCache
}

// PrepareShaderSources splits a combined source into its two stages. The
// file holds both stages guarded by VERTEX_SHADER and FRAGMENT_SHADER; each
// stage gets the #version line followed by its define.
func PrepareShaderSources(source string) (vertex, fragment string) {
	version := DefaultGLSLVersion
	body := source

	trimmed := strings.TrimLeft(source, " \t\r\n")
	if strings.HasPrefix(trimmed, "#version") {
		line, rest, _ := strings.Cut(trimmed, "\n")
		version = strings.TrimSpace(line)
		body = rest
	}

	vertex = version + "\n#define VERTEX_SHADER\n" + body
	fragment = version + "\n#define FRAGMENT_SHADER\n" + body
	return vertex, fragment
}

// NewShader compiles a combined stage source.
func NewShader(device Device, name, source string) (*Shader, error) {
	vertex, fragment := PrepareShaderSources(source)
	return NewShaderFromStages(device, name, vertex, fragment)
}

// NewShaderFromStages compiles separate vertex and fragment sources.
func NewShaderFromStages(device Device, name, vertex, fragment string) (*Shader, error) {
	program, err := device.CompileProgram(vertex, fragment)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %q", name)
	}
	return &Shader{
		Name:     name,
		program:  program,
		device:   device,
		uniforms: NewUniformCache(device, program),
	}, nil
}

// LoadShader reads and compiles a combined stage source file.
func LoadShader(device Device, path string) (*Shader, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read shader")
	}
	shader, err := NewShader(device, filepath.Base(path), string(source))
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Shader loaded", zap.String("path", path), zap.Uint32("program", shader.program))
	return shader, nil
}

func (shader *Shader) Use() {
	shader.device.UseProgram(shader.program)
}

func (shader *Shader) Program() uint32 {
	return shader.program
}

func (shader *Shader) SetInt(name string, value int32) {
	shader.uniforms.SetInt(name, value)
}

func (shader *Shader) SetFloat(name string, value float32) {
	shader.uniforms.SetFloat(name, value)
}

func (shader *Shader) SetVec2(name string, value mgl32.Vec2) {
	shader.uniforms.SetVec2(name, value)
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) {
	shader.uniforms.SetVec3(name, value)
}

func (shader *Shader) SetVec4(name string, value mgl32.Vec4) {
	shader.uniforms.SetVec4(name, value)
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	shader.uniforms.SetMat4(name, value)
}

func (shader *Shader) Delete() {
	if shader.program == 0 {
		return
	}
	shader.device.DeleteProgram(shader.program)
	shader.program = 0
	shader.uniforms.Clear()
}

var quadShaderSource = `#version 410 core

#ifdef VERTEX_SHADER
layout(location = 0) in vec2 inPosition;
layout(location = 1) in vec2 inTexCoord;

out vec2 fragTexCoord;

void main() {
    fragTexCoord = inTexCoord;
    gl_Position = vec4(inPosition, 0.0, 1.0);
}
#endif

#ifdef FRAGMENT_SHADER
in vec2 fragTexCoord;

uniform sampler2D source;
uniform int mode;   // 0 = colour, 1 = depth
uniform float near;
uniform float far;

out vec4 FragColor;

float linearizeDepth(float depth) {
    float z = depth * 2.0 - 1.0;
    return (2.0 * near * far) / (far + near - z * (far - near));
}

void main() {
    if (mode == 1) {
        float d = linearizeDepth(texture(source, fragTexCoord).r) / far;
        FragColor = vec4(vec3(d), 1.0);
    } else {
        FragColor = vec4(texture(source, fragTexCoord).rgb, 1.0);
    }
}
#endif
`
