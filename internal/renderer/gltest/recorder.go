// Package gltest provides a renderer.Device that records calls instead of
// talking to a GPU, for asserting on draw ordering and state in tests.
package gltest

import (
	"image"

	"GopherWater/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type Op string

const (
	OpCompileProgram    Op = "CompileProgram"
	OpUseProgram        Op = "UseProgram"
	OpDeleteProgram     Op = "DeleteProgram"
	OpUniformLocation   Op = "UniformLocation"
	OpUniform           Op = "Uniform"
	OpCreateMesh        Op = "CreateMesh"
	OpDrawMesh          Op = "DrawMesh"
	OpDeleteMesh        Op = "DeleteMesh"
	OpCreateTexture     Op = "CreateTexture"
	OpBindTexture       Op = "BindTexture"
	OpDeleteTexture     Op = "DeleteTexture"
	OpCreateFramebuffer Op = "CreateFramebuffer"
	OpBindFramebuffer   Op = "BindFramebuffer"
	OpDeleteFramebuffer Op = "DeleteFramebuffer"
	OpViewport          Op = "Viewport"
	OpClearColor        Op = "ClearColor"
	OpClear             Op = "Clear"
	OpEnable            Op = "Enable"
	OpDisable           Op = "Disable"
	OpSetBlendMode      Op = "SetBlendMode"
)

// Event is one recorded Device call together with the state it ran under.
type Event struct {
	Op Op
	// Handle is the object acted on: program, VAO, texture or FBO
	Handle     uint32
	Unit       uint32
	Name       string
	Values     []float32
	Capability renderer.Capability
	Kind       renderer.AttachmentKind
	Width      int32
	Height     int32

	// Framebuffer and Program are the bindings current when the call was made
	Framebuffer uint32
	Program     uint32
	// Enabled is a snapshot of the capabilities on at the time of the call
	Enabled map[renderer.Capability]bool
	// Textures is a snapshot of unit -> texture bindings, set on DrawMesh only
	Textures map[uint32]uint32
}

// Recorder implements renderer.Device by appending an Event per call.
type Recorder struct {
	Events []Event

	// CompileErr, when set, is returned by CompileProgram
	CompileErr error
	// FramebufferErr, when set, is returned by CreateFramebuffer
	FramebufferErr error

	next        uint32
	framebuffer uint32
	program     uint32
	enabled     map[renderer.Capability]bool
	textures    map[uint32]uint32
	locations   map[uint32]map[string]int32
	names       map[uint32]map[int32]string
}

var _ renderer.Device = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{
		enabled:   make(map[renderer.Capability]bool),
		textures:  make(map[uint32]uint32),
		locations: make(map[uint32]map[string]int32),
		names:     make(map[uint32]map[int32]string),
	}
}

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) record(e Event) {
	e.Framebuffer = r.framebuffer
	e.Program = r.program
	e.Enabled = make(map[renderer.Capability]bool, len(r.enabled))
	for c, on := range r.enabled {
		if on {
			e.Enabled[c] = true
		}
	}
	r.Events = append(r.Events, e)
}

func (r *Recorder) CompileProgram(vertexSource, fragmentSource string) (uint32, error) {
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	if vertexSource == "" || fragmentSource == "" {
		return 0, errors.New("empty shader source")
	}
	program := r.id()
	r.locations[program] = make(map[string]int32)
	r.names[program] = make(map[int32]string)
	r.record(Event{Op: OpCompileProgram, Handle: program})
	return program, nil
}

func (r *Recorder) UseProgram(program uint32) {
	r.program = program
	r.record(Event{Op: OpUseProgram, Handle: program})
}

func (r *Recorder) DeleteProgram(program uint32) {
	if r.program == program {
		r.program = 0
	}
	r.record(Event{Op: OpDeleteProgram, Handle: program})
}

// UniformLocation hands out a stable location per (program, name).
func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	locs, ok := r.locations[program]
	if !ok {
		return -1
	}
	loc, ok := locs[name]
	if !ok {
		loc = int32(len(locs))
		locs[name] = loc
		r.names[program][loc] = name
	}
	r.record(Event{Op: OpUniformLocation, Handle: program, Name: name})
	return loc
}

func (r *Recorder) uniform(location int32, values ...float32) {
	r.record(Event{Op: OpUniform, Handle: r.program, Name: r.names[r.program][location], Values: values})
}

func (r *Recorder) Uniform1i(location int32, v int32)         { r.uniform(location, float32(v)) }
func (r *Recorder) Uniform1f(location int32, v float32)       { r.uniform(location, v) }
func (r *Recorder) Uniform2f(location int32, x, y float32)    { r.uniform(location, x, y) }
func (r *Recorder) Uniform3f(location int32, x, y, z float32) { r.uniform(location, x, y, z) }

func (r *Recorder) Uniform4f(location int32, x, y, z, w float32) {
	r.uniform(location, x, y, z, w)
}

func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) {
	r.uniform(location, m[:]...)
}

func (r *Recorder) CreateMesh(vertices []float32, layout renderer.VertexLayout, indices []uint32) renderer.MeshBuffers {
	mesh := renderer.MeshBuffers{VAO: r.id(), VBO: r.id(), EBO: r.id(), IndexCount: int32(len(indices))}
	r.record(Event{Op: OpCreateMesh, Handle: mesh.VAO})
	return mesh
}

func (r *Recorder) DrawMesh(mesh renderer.MeshBuffers) {
	e := Event{Op: OpDrawMesh, Handle: mesh.VAO, Textures: make(map[uint32]uint32, len(r.textures))}
	for unit, tex := range r.textures {
		e.Textures[unit] = tex
	}
	r.record(e)
}

func (r *Recorder) DeleteMesh(mesh renderer.MeshBuffers) {
	r.record(Event{Op: OpDeleteMesh, Handle: mesh.VAO})
}

func (r *Recorder) CreateTexture(img *image.RGBA, wrap renderer.TextureWrap) uint32 {
	tex := r.id()
	size := img.Rect.Size()
	r.record(Event{Op: OpCreateTexture, Handle: tex, Width: int32(size.X), Height: int32(size.Y)})
	return tex
}

func (r *Recorder) BindTexture(unit uint32, texture uint32) {
	r.textures[unit] = texture
	r.record(Event{Op: OpBindTexture, Handle: texture, Unit: unit})
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record(Event{Op: OpDeleteTexture, Handle: texture})
}

func (r *Recorder) CreateFramebuffer(width, height int32, kind renderer.AttachmentKind) (renderer.FramebufferHandles, error) {
	if r.FramebufferErr != nil {
		return renderer.FramebufferHandles{}, r.FramebufferErr
	}
	fb := renderer.FramebufferHandles{FBO: r.id(), Texture: r.id()}
	if kind == renderer.ColorAttachment {
		fb.Renderbuffer = r.id()
	}
	r.record(Event{Op: OpCreateFramebuffer, Handle: fb.FBO, Kind: kind, Width: width, Height: height})
	return fb, nil
}

func (r *Recorder) BindFramebuffer(fbo uint32) {
	r.framebuffer = fbo
	r.record(Event{Op: OpBindFramebuffer, Handle: fbo})
}

func (r *Recorder) DeleteFramebuffer(fb renderer.FramebufferHandles) {
	r.record(Event{Op: OpDeleteFramebuffer, Handle: fb.FBO})
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record(Event{Op: OpViewport, Values: []float32{float32(x), float32(y)}, Width: width, Height: height})
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record(Event{Op: OpClearColor, Values: []float32{red, green, blue, alpha}})
}

func (r *Recorder) Clear(color, depth bool) {
	var v []float32
	if color {
		v = append(v, 1)
	} else {
		v = append(v, 0)
	}
	if depth {
		v = append(v, 1)
	} else {
		v = append(v, 0)
	}
	r.record(Event{Op: OpClear, Values: v})
}

func (r *Recorder) Enable(c renderer.Capability) {
	r.enabled[c] = true
	r.record(Event{Op: OpEnable, Capability: c})
}

func (r *Recorder) Disable(c renderer.Capability) {
	r.enabled[c] = false
	r.record(Event{Op: OpDisable, Capability: c})
}

func (r *Recorder) SetBlendMode(mode renderer.BlendMode) {
	r.record(Event{Op: OpSetBlendMode, Values: []float32{float32(mode)}})
}

// Reset drops recorded events but keeps bindings and created objects.
func (r *Recorder) Reset() {
	r.Events = nil
}

// Filter returns the events with the given op, in call order.
func (r *Recorder) Filter(op Op) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}

// IndexOf returns the index of the first event at or after from matching fn,
// or -1.
func (r *Recorder) IndexOf(from int, fn func(Event) bool) int {
	for i := from; i < len(r.Events); i++ {
		if fn(r.Events[i]) {
			return i
		}
	}
	return -1
}

// Enabled reports whether a capability is currently on.
func (r *Recorder) Enabled(c renderer.Capability) bool {
	return r.enabled[c]
}

// Framebuffer returns the currently bound framebuffer.
func (r *Recorder) Framebuffer() uint32 {
	return r.framebuffer
}

// UniformValues returns the values of the last write to name on program, or
// nil when it was never set.
func (r *Recorder) UniformValues(program uint32, name string) []float32 {
	for i := len(r.Events) - 1; i >= 0; i-- {
		e := r.Events[i]
		if e.Op == OpUniform && e.Handle == program && e.Name == name {
			return e.Values
		}
	}
	return nil
}
