package renderer

import (
	"GopherWater/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	MinPlaneResolution = 2
	MaxPlaneResolution = 4096
)

// Transform places a mesh in world space.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	scaleMatrix := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	rotationMatrix := t.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	return translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
}

type Mesh struct {
	Name       string
	Vertices   []float32 // interleaved, see Layout
	Indices    []uint32
	Layout     VertexLayout
	Resolution int

	buffers MeshBuffers
	device  Device
}

// NewPlane tessellates a flat square of the given size in the XZ plane,
// centred on the origin, with resolution vertices per side. UVs span [0,1]
// and every normal points up. Triangles wind counter-clockwise seen from +Y.
func NewPlane(name string, resolution int, size float32) (*Mesh, error) {
	if resolution < MinPlaneResolution || resolution > MaxPlaneResolution {
		return nil, errors.Errorf("plane resolution %d out of range [%d, %d]", resolution, MinPlaneResolution, MaxPlaneResolution)
	}
	if size <= 0 {
		return nil, errors.Errorf("plane size must be positive, got %f", size)
	}

	floats := PositionUVNormal.Floats()
	vertices := make([]float32, 0, resolution*resolution*floats)
	indices := make([]uint32, 0, (resolution-1)*(resolution-1)*6)

	stepSize := size / float32(resolution-1)
	start := -size * 0.5
	uvStep := 1.0 / float32(resolution-1)

	for x := 0; x < resolution; x++ {
		for z := 0; z < resolution; z++ {
			vertices = append(vertices,
				start+float32(x)*stepSize, 0, start+float32(z)*stepSize,
				float32(x)*uvStep, float32(z)*uvStep,
				0, 1, 0,
			)
		}
	}

	for x := 0; x < resolution-1; x++ {
		for z := 0; z < resolution-1; z++ {
			topLeft := uint32(x*resolution + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*resolution + z)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomRight, bottomLeft)
			indices = append(indices, topLeft, topRight, bottomRight)
		}
	}

	logger.Log.Info("Plane mesh generated",
		zap.String("name", name),
		zap.Int("vertices", resolution*resolution),
		zap.Int("triangles", len(indices)/3),
		zap.Float32("size", size),
		zap.Int("resolution", resolution))

	return &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		Layout:     PositionUVNormal,
		Resolution: resolution,
	}, nil
}

// Upload copies the mesh to the GPU. The CPU copy is kept for inspection.
func (m *Mesh) Upload(device Device) {
	m.device = device
	m.buffers = device.CreateMesh(m.Vertices, m.Layout, m.Indices)
}

func (m *Mesh) Draw() {
	if m.device == nil {
		return
	}
	m.device.DrawMesh(m.buffers)
}

func (m *Mesh) VAO() uint32 {
	return m.buffers.VAO
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / m.Layout.Floats()
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	base := i * m.Layout.Floats()
	return mgl32.Vec3{m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2]}
}

func (m *Mesh) Delete() {
	if m.device == nil {
		return
	}
	m.device.DeleteMesh(m.buffers)
	m.device = nil
	m.buffers = MeshBuffers{}
}
