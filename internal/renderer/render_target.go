package renderer

import (
	"GopherWater/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RenderTarget is an off-screen framebuffer that is drawn into and then read
// back as a texture. Its size is fixed at creation.
type RenderTarget struct {
	Name   string
	Width  int32
	Height int32
	Kind   AttachmentKind

	handles FramebufferHandles
	device  Device
}

func NewRenderTarget(device Device, name string, width, height int32, kind AttachmentKind) (*RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid render target size: %dx%d", width, height)
	}

	handles, err := device.CreateFramebuffer(width, height, kind)
	if err != nil {
		return nil, errors.Wrapf(err, "render target %q", name)
	}

	logger.Log.Info("Render target created",
		zap.String("name", name),
		zap.Stringer("kind", kind),
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Uint32("fbo", handles.FBO))

	return &RenderTarget{
		Name:    name,
		Width:   width,
		Height:  height,
		Kind:    kind,
		handles: handles,
		device:  device,
	}, nil
}

// Bind makes the target the draw destination and sets the viewport to cover it.
func (rt *RenderTarget) Bind() {
	rt.device.BindFramebuffer(rt.handles.FBO)
	rt.device.Viewport(0, 0, rt.Width, rt.Height)
}

// Unbind restores the window framebuffer. The caller restores the viewport.
func (rt *RenderTarget) Unbind() {
	rt.device.BindFramebuffer(0)
}

// Texture is the colour texture for colour targets and the depth texture for
// depth targets.
func (rt *RenderTarget) Texture() uint32 {
	return rt.handles.Texture
}

func (rt *RenderTarget) FBO() uint32 {
	return rt.handles.FBO
}

func (rt *RenderTarget) Delete() {
	if rt.handles.FBO == 0 {
		return
	}
	rt.device.DeleteFramebuffer(rt.handles)
	rt.handles = FramebufferHandles{}
}
