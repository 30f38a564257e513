package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Capability is a piece of fixed-function GPU state that can be toggled.
type Capability int

const (
	DepthTest Capability = iota
	FaceCulling
	Blending
	ClipDistance0
)

func (c Capability) String() string {
	switch c {
	case DepthTest:
		return "depth-test"
	case FaceCulling:
		return "face-culling"
	case Blending:
		return "blending"
	case ClipDistance0:
		return "clip-distance-0"
	}
	return "unknown"
}

type BlendMode int

const (
	// BlendSourceOver is standard alpha compositing: src*a + dst*(1-a)
	BlendSourceOver BlendMode = iota
)

// AttachmentKind selects what a framebuffer renders into.
type AttachmentKind int

const (
	// ColorAttachment renders into an RGBA texture backed by a depth renderbuffer
	ColorAttachment AttachmentKind = iota
	// DepthAttachment renders depth only into a depth texture, with no colour output
	DepthAttachment
)

func (k AttachmentKind) String() string {
	if k == DepthAttachment {
		return "depth"
	}
	return "color"
}

type TextureWrap int

const (
	WrapRepeat TextureWrap = iota
	WrapClampToEdge
)

// VertexLayout lists the component count of each interleaved float attribute,
// in attribute-location order.
type VertexLayout []int32

// Stride returns the size of one vertex in bytes.
func (l VertexLayout) Stride() int32 {
	var n int32
	for _, size := range l {
		n += size
	}
	return n * 4
}

// Floats returns the number of floats per vertex.
func (l VertexLayout) Floats() int {
	return int(l.Stride() / 4)
}

var (
	// PositionUVNormal is the layout used by generated planes
	PositionUVNormal = VertexLayout{3, 2, 3}
	// PositionUV2D is the layout used by screen-space quads
	PositionUV2D = VertexLayout{2, 2}
)

// MeshBuffers holds the GPU objects backing an uploaded mesh.
type MeshBuffers struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// FramebufferHandles holds the GPU objects backing a render target.
// Texture is the colour texture for ColorAttachment and the depth texture for
// DepthAttachment. Renderbuffer is only used by ColorAttachment.
type FramebufferHandles struct {
	FBO          uint32
	Texture      uint32
	Renderbuffer uint32
}

// Device is the set of GPU operations the scene is drawn with. The OpenGL
// implementation lives in opengl_device.go; tests use gltest.Recorder.
type Device interface {
	CompileProgram(vertexSource, fragmentSource string) (uint32, error)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix4(location int32, m mgl32.Mat4)

	CreateMesh(vertices []float32, layout VertexLayout, indices []uint32) MeshBuffers
	DrawMesh(mesh MeshBuffers)
	DeleteMesh(mesh MeshBuffers)

	CreateTexture(img *image.RGBA, wrap TextureWrap) uint32
	BindTexture(unit uint32, texture uint32)
	DeleteTexture(texture uint32)

	CreateFramebuffer(width, height int32, kind AttachmentKind) (FramebufferHandles, error)
	// BindFramebuffer makes fbo the draw destination; 0 is the window.
	BindFramebuffer(fbo uint32)
	DeleteFramebuffer(fb FramebufferHandles)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(color, depth bool)
	Enable(c Capability)
	Disable(c Capability)
	SetBlendMode(mode BlendMode)
}
