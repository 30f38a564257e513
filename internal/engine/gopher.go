package engine

import (
	"GopherWater/internal/logger"
	"GopherWater/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// App is driven by Gopher.Run. Every callback runs on the main thread with
// the GL context current.
type App interface {
	Init(ctx *Context) error
	Update(deltaTime float64)
	Render(deltaTime float64)
	Cleanup()
}

// Context hands the app what it needs to build its resources.
type Context struct {
	Device renderer.Device
	Input  Input
	Width  int32
	Height int32
}

// Input is the keyboard and mouse state seen by the app.
type Input interface {
	renderer.KeyState
	// ConsumeMouseDelta returns the cursor movement accumulated while the
	// right button was held since the last call, y pointing up.
	ConsumeMouseDelta() (dx, dy float32)
}

type Gopher struct {
	Width  int32
	Height int32
	Title  string
	X, Y   int
	VSync  bool

	window *glfw.Window
	input  *windowInput
}

func NewGopher(width, height int32, title string) *Gopher {
	return &Gopher{
		Width:  width,
		Height: height,
		Title:  title,
		X:      100,
		Y:      100,
		VSync:  true,
	}
}

// Run opens the window and drives app until the window closes. It must be
// called from inside mainthread.Run.
func (gopher *Gopher) Run(app App) error {
	return mainthread.CallErr(func() error {
		return gopher.run(app)
	})
}

func (gopher *Gopher) run(app App) error {
	if gopher.Width <= 0 || gopher.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", gopher.Width, gopher.Height)
	}

	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "init glfw")
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	// Render targets are sized once at init.
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(gopher.Width), int(gopher.Height), gopher.Title, nil, nil)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer window.Destroy()
	gopher.window = window

	window.MakeContextCurrent()
	if gopher.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetPos(gopher.X, gopher.Y)
	setDarkTitleBar(window)

	device, err := renderer.NewOpenGLDevice()
	if err != nil {
		return err
	}

	// The framebuffer can differ from the window size on HiDPI displays.
	fbWidth, fbHeight := window.GetFramebufferSize()

	gopher.input = newWindowInput(window)
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetCursorPosCallback(gopher.input.cursorCallback)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	ctx := &Context{
		Device: device,
		Input:  gopher.input,
		Width:  int32(fbWidth),
		Height: int32(fbHeight),
	}
	if err := app.Init(ctx); err != nil {
		return errors.Wrap(err, "init app")
	}
	defer app.Cleanup()

	logger.Log.Info("Window ready",
		zap.String("title", gopher.Title),
		zap.Int("width", fbWidth),
		zap.Int("height", fbHeight))

	gopher.renderLoop(app)
	return nil
}

func (gopher *Gopher) renderLoop(app App) {
	lastTime := glfw.GetTime()
	var frames int
	for !gopher.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		app.Update(deltaTime)
		app.Render(deltaTime)

		gopher.window.SwapBuffers()
		glfw.PollEvents()
		frames++
	}
	logger.Log.Info("Window closed", zap.Int("frames", frames))
}
