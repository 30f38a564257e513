package renderer

import "github.com/pkg/errors"

type QuadMode int32

const (
	QuadColor QuadMode = iota
	QuadDepth
)

// Rect is a viewport rectangle in window pixels, origin bottom-left.
type Rect struct {
	X, Y, Width, Height int32
}

// QuadRenderer blits a texture into a rectangle of the window framebuffer.
type QuadRenderer struct {
	shader *Shader
	mesh   *Mesh
	device Device
}

func NewQuadRenderer(device Device) (*QuadRenderer, error) {
	shader, err := NewShader(device, "quad", quadShaderSource)
	if err != nil {
		return nil, errors.Wrap(err, "quad renderer")
	}

	mesh := &Mesh{
		Name: "quad",
		Vertices: []float32{
			-1, -1, 0, 0,
			1, -1, 1, 0,
			1, 1, 1, 1,
			-1, 1, 0, 1,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Layout:  PositionUV2D,
	}
	mesh.Upload(device)

	return &QuadRenderer{shader: shader, mesh: mesh, device: device}, nil
}

// Draw samples texture into dst of the window. near and far are only used by
// QuadDepth to linearise the stored depth. window is the full window size the
// viewport is restored to afterwards.
func (q *QuadRenderer) Draw(texture uint32, mode QuadMode, dst Rect, window Rect, near, far float32) {
	q.device.BindFramebuffer(0)
	q.device.Disable(DepthTest)
	q.device.Disable(FaceCulling)
	q.device.Disable(Blending)
	q.device.Viewport(dst.X, dst.Y, dst.Width, dst.Height)

	q.shader.Use()
	q.device.BindTexture(0, texture)
	q.shader.SetInt("source", 0)
	q.shader.SetInt("mode", int32(mode))
	q.shader.SetFloat("near", near)
	q.shader.SetFloat("far", far)
	q.mesh.Draw()

	q.device.Viewport(window.X, window.Y, window.Width, window.Height)
}

func (q *QuadRenderer) Delete() {
	q.mesh.Delete()
	q.shader.Delete()
}
