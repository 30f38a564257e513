package renderer

import (
	"image"
	"strings"

	"GopherWater/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OpenGLDevice implements Device on an OpenGL 4.1 core context. Every method
// must be called from the thread that owns the context.
type OpenGLDevice struct {
	currentProgram uint32
}

// NewOpenGLDevice loads the GL function pointers for the current context.
func NewOpenGLDevice() (*OpenGLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "opengl init")
	}
	logger.Log.Info("OpenGL device initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return &OpenGLDevice{}, nil
}

func (d *OpenGLDevice) CompileProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, errors.Wrap(err, "vertex shader")
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, errors.Wrap(err, "fragment shader")
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, errors.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}
	logger.Log.Debug("Shader program linked", zap.Uint32("program", program))
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, errors.Errorf("compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *OpenGLDevice) UseProgram(program uint32) {
	if d.currentProgram == program {
		return
	}
	gl.UseProgram(program)
	d.currentProgram = program
}

func (d *OpenGLDevice) DeleteProgram(program uint32) {
	if d.currentProgram == program {
		d.currentProgram = 0
	}
	gl.DeleteProgram(program)
}

func (d *OpenGLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *OpenGLDevice) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (d *OpenGLDevice) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (d *OpenGLDevice) Uniform2f(location int32, x, y float32) { gl.Uniform2f(location, x, y) }

func (d *OpenGLDevice) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

func (d *OpenGLDevice) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (d *OpenGLDevice) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *OpenGLDevice) CreateMesh(vertices []float32, layout VertexLayout, indices []uint32) MeshBuffers {
	var mesh MeshBuffers

	gl.GenVertexArrays(1, &mesh.VAO)
	gl.BindVertexArray(mesh.VAO)

	gl.GenBuffers(1, &mesh.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, mesh.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &mesh.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mesh.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := layout.Stride()
	offset := 0
	for i, size := range layout {
		gl.VertexAttribPointer(uint32(i), size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(size) * 4
	}

	gl.BindVertexArray(0)
	mesh.IndexCount = int32(len(indices))
	return mesh
}

func (d *OpenGLDevice) DrawMesh(mesh MeshBuffers) {
	gl.BindVertexArray(mesh.VAO)
	gl.DrawElements(gl.TRIANGLES, mesh.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (d *OpenGLDevice) DeleteMesh(mesh MeshBuffers) {
	gl.DeleteVertexArrays(1, &mesh.VAO)
	gl.DeleteBuffers(1, &mesh.VBO)
	gl.DeleteBuffers(1, &mesh.EBO)
}

func (d *OpenGLDevice) CreateTexture(img *image.RGBA, wrap TextureWrap) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Rect.Size().X), int32(img.Rect.Size().Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	wrapMode := int32(gl.REPEAT)
	if wrap == WrapClampToEdge {
		wrapMode = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return textureID
}

func (d *OpenGLDevice) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *OpenGLDevice) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (d *OpenGLDevice) CreateFramebuffer(width, height int32, kind AttachmentKind) (FramebufferHandles, error) {
	var fb FramebufferHandles

	gl.GenTextures(1, &fb.Texture)
	gl.BindTexture(gl.TEXTURE_2D, fb.Texture)
	switch kind {
	case DepthAttachment:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	default:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &fb.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.FBO)
	switch kind {
	case DepthAttachment:
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.Texture, 0)
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	default:
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.Texture, 0)
		gl.GenRenderbuffers(1, &fb.Renderbuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.Renderbuffer)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.Renderbuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteFramebuffer(fb)
		return FramebufferHandles{}, errors.Errorf("%s framebuffer incomplete: status=0x%X", kind, status)
	}
	return fb, nil
}

func (d *OpenGLDevice) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (d *OpenGLDevice) DeleteFramebuffer(fb FramebufferHandles) {
	if fb.FBO != 0 {
		gl.DeleteFramebuffers(1, &fb.FBO)
	}
	if fb.Renderbuffer != 0 {
		gl.DeleteRenderbuffers(1, &fb.Renderbuffer)
	}
	if fb.Texture != 0 {
		gl.DeleteTextures(1, &fb.Texture)
	}
}

func (d *OpenGLDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *OpenGLDevice) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *OpenGLDevice) Clear(color, depth bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
		// glClear honours the depth write mask
		gl.DepthMask(true)
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (d *OpenGLDevice) Enable(c Capability) {
	switch c {
	case DepthTest:
		gl.Enable(gl.DEPTH_TEST)
	case FaceCulling:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	case Blending:
		gl.Enable(gl.BLEND)
	case ClipDistance0:
		gl.Enable(gl.CLIP_DISTANCE0)
	}
}

func (d *OpenGLDevice) Disable(c Capability) {
	switch c {
	case DepthTest:
		gl.Disable(gl.DEPTH_TEST)
	case FaceCulling:
		gl.Disable(gl.CULL_FACE)
	case Blending:
		gl.Disable(gl.BLEND)
	case ClipDistance0:
		gl.Disable(gl.CLIP_DISTANCE0)
	}
}

func (d *OpenGLDevice) SetBlendMode(mode BlendMode) {
	if mode == BlendSourceOver {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}
