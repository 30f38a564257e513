package engine

import "github.com/go-gl/glfw/v3.3/glfw"

// mouseLook accumulates cursor movement while looking is active. The first
// sample after looking starts only records the position so the view does not
// jump.
type mouseLook struct {
	lastX, lastY float64
	firstMouse   bool
	dx, dy       float64
}

func (m *mouseLook) move(xpos, ypos float64, active bool) {
	if !active {
		m.firstMouse = true
		return
	}
	if m.firstMouse {
		m.lastX, m.lastY = xpos, ypos
		m.firstMouse = false
		return
	}
	m.dx += xpos - m.lastX
	m.dy += m.lastY - ypos // window y grows downwards
	m.lastX, m.lastY = xpos, ypos
}

func (m *mouseLook) consume() (float32, float32) {
	dx, dy := m.dx, m.dy
	m.dx, m.dy = 0, 0
	return float32(dx), float32(dy)
}

type windowInput struct {
	window *glfw.Window
	look   mouseLook
}

func newWindowInput(window *glfw.Window) *windowInput {
	return &windowInput{window: window, look: mouseLook{firstMouse: true}}
}

func (in *windowInput) GetKey(key glfw.Key) glfw.Action {
	return in.window.GetKey(key)
}

func (in *windowInput) ConsumeMouseDelta() (float32, float32) {
	return in.look.consume()
}

func (in *windowInput) cursorCallback(w *glfw.Window, xpos, ypos float64) {
	active := w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press
	in.look.move(xpos, ypos, active)
}
