// Package water is the terrain and water demo: a heightmapped terrain with a
// reflective water plane that fades out over shallow ground.
package water

import (
	"os"

	"GopherWater/internal/config"
	"GopherWater/internal/engine"
	"GopherWater/internal/logger"
	"GopherWater/internal/renderer"
	"GopherWater/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Texture units shared with the shaders in assets/shaders.
const (
	heightmapUnit  = 0
	reflectionUnit = 0
	depthUnit      = 1
)

// Scene owns every resource of the demo and renders it in five passes:
// reflection, depth, terrain, water and the debug overlay.
type Scene struct {
	cfg *config.Config

	device renderer.Device
	input  engine.Input
	width  int32
	height int32

	camera           *renderer.Camera
	reflectionCamera renderer.Camera

	terrainShader *renderer.Shader
	waterShader   *renderer.Shader

	textures  *renderer.TextureManager
	heightmap renderer.Texture

	terrainMesh  *renderer.Mesh
	waterMesh    *renderer.Mesh
	terrainModel mgl32.Mat4
	waterModel   mgl32.Mat4

	reflection *renderer.RenderTarget
	depth      *renderer.RenderTarget
	quad       *renderer.QuadRenderer

	elapsed float64
	frames  uint64
	cleanup renderer.Unwind
}

var _ engine.App = (*Scene)(nil)

func NewScene(cfg *config.Config) *Scene {
	return &Scene{cfg: cfg}
}

// Init builds the resources in dependency order: camera, shaders, heightmap
// texture, meshes, render targets and the overlay quad. Anything created
// before a failure is released again.
func (s *Scene) Init(ctx *engine.Context) (err error) {
	if ctx.Width <= 0 || ctx.Height <= 0 {
		return errors.Errorf("invalid framebuffer size %dx%d", ctx.Width, ctx.Height)
	}
	s.device = ctx.Device
	s.input = ctx.Input
	s.width, s.height = ctx.Width, ctx.Height
	defer func() {
		if err != nil {
			s.cleanup.Unwind()
		}
	}()

	s.camera = newCamera(s.cfg.Camera, s.width, s.height)

	if err := s.loadShaders(); err != nil {
		return err
	}
	if err := s.loadHeightmap(); err != nil {
		return err
	}
	if err := s.buildMeshes(); err != nil {
		return err
	}
	if err := s.createRenderTargets(); err != nil {
		return err
	}

	s.quad, err = renderer.NewQuadRenderer(s.device)
	if err != nil {
		return err
	}
	s.cleanup.Add(s.quad.Delete)

	s.device.Viewport(0, 0, s.width, s.height)
	logger.Log.Info("Scene initialized",
		zap.Int32("width", s.width),
		zap.Int32("height", s.height),
		zap.Float32("waterHeight", s.cfg.Water.Height),
		zap.Bool("debugOverlay", s.cfg.Debug.Overlay))
	return nil
}

func newCamera(cfg config.CameraConfig, width, height int32) *renderer.Camera {
	camera := renderer.NewCamera(width, height)
	camera.Position = mgl32.Vec3(cfg.Position)
	camera.Speed = cfg.Speed
	camera.Sensitivity = cfg.Sensitivity
	camera.InvertMouse = cfg.InvertMouse
	camera.SetFov(cfg.Fov)
	camera.SetNear(cfg.Near)
	camera.SetFar(cfg.Far)
	camera.SetRotation(cfg.Yaw, cfg.Pitch)
	return camera
}

func (s *Scene) loadShaders() error {
	var err error
	s.terrainShader, err = renderer.LoadShader(s.device, s.cfg.Assets.Path(s.cfg.Assets.TerrainShader))
	if err != nil {
		return errors.Wrap(err, "terrain shader")
	}
	s.cleanup.Add(s.terrainShader.Delete)

	s.waterShader, err = renderer.LoadShader(s.device, s.cfg.Assets.Path(s.cfg.Assets.WaterShader))
	if err != nil {
		return errors.Wrap(err, "water shader")
	}
	s.cleanup.Add(s.waterShader.Delete)
	return nil
}

func (s *Scene) loadHeightmap() error {
	path := s.cfg.Assets.Path(s.cfg.Assets.Heightmap)
	s.textures = renderer.NewTextureManager(s.device)

	var texture renderer.Texture
	if _, statErr := os.Stat(path); statErr != nil && s.cfg.Terrain.GenerateMissing {
		img, err := terrain.GenerateHeightmap(s.heightmapOptions())
		if err != nil {
			return errors.Wrap(err, "generate heightmap")
		}
		logger.Log.Warn("Heightmap was missing, generated a new one", zap.String("path", path))
		if err := terrain.SaveHeightmap(path, img); err != nil {
			logger.Log.Warn("Generated heightmap not saved", zap.String("path", path), zap.Error(err))
		}
		texture = s.textures.CreateTextureFromImage(img, path)
	} else {
		var err error
		texture, err = s.textures.LoadTexture(path)
		if err != nil {
			return errors.Wrap(err, "heightmap texture")
		}
	}

	s.heightmap = texture
	s.cleanup.Add(func() {
		s.textures.ReleaseTexture(s.heightmap.ID)
		s.textures.LogStats()
	})
	return nil
}

func (s *Scene) heightmapOptions() terrain.HeightmapOptions {
	opts := terrain.DefaultHeightmapOptions()
	opts.Size = s.cfg.Terrain.HeightmapSize
	opts.Seed = s.cfg.Terrain.Seed
	if opts.SampleSize > opts.Size {
		opts.SampleSize = 0
	}
	return opts
}

func (s *Scene) buildMeshes() error {
	var err error
	s.terrainMesh, err = renderer.NewPlane("terrain", s.cfg.Terrain.Resolution, s.cfg.Terrain.Size)
	if err != nil {
		return errors.Wrap(err, "terrain mesh")
	}
	s.terrainMesh.Upload(s.device)
	s.cleanup.Add(s.terrainMesh.Delete)

	s.waterMesh, err = renderer.NewPlane("water", s.cfg.Water.Resolution, s.cfg.Water.Size)
	if err != nil {
		return errors.Wrap(err, "water mesh")
	}
	s.waterMesh.Upload(s.device)
	s.cleanup.Add(s.waterMesh.Delete)

	s.terrainModel = renderer.NewTransform().Matrix()
	waterTransform := renderer.NewTransform()
	waterTransform.Position = mgl32.Vec3{0, s.cfg.Water.Height, 0}
	s.waterModel = waterTransform.Matrix()
	return nil
}

// createRenderTargets sizes both targets to the framebuffer once. They are
// never recreated; the window is not resizable.
func (s *Scene) createRenderTargets() error {
	var err error
	s.reflection, err = renderer.NewRenderTarget(s.device, "reflection", s.width, s.height, renderer.ColorAttachment)
	if err != nil {
		return err
	}
	s.cleanup.Add(s.reflection.Delete)

	s.depth, err = renderer.NewRenderTarget(s.device, "depth", s.width, s.height, renderer.DepthAttachment)
	if err != nil {
		return err
	}
	s.cleanup.Add(s.depth.Delete)
	return nil
}

// Update moves the camera from the keyboard and the right-button mouse drag
// and advances the ripple clock.
func (s *Scene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	if s.input == nil {
		return
	}
	s.camera.ProcessKeyboard(s.input, float32(deltaTime))
	if dx, dy := s.input.ConsumeMouseDelta(); dx != 0 || dy != 0 {
		s.camera.ProcessMouseMovement(dx, dy, true)
	}
}

func (s *Scene) Render(deltaTime float64) {
	s.renderReflection()
	s.renderDepth()
	s.renderTerrain()
	s.renderWater()
	if s.cfg.Debug.Overlay {
		s.renderDebugOverlay()
	}

	s.frames++
	if s.frames == 1 {
		logger.Log.Debug("First frame rendered", zap.Float64("deltaTime", deltaTime))
	}
}

func (s *Scene) Cleanup() {
	s.cleanup.Unwind()
	logger.Log.Info("Scene cleaned up", zap.Uint64("frames", s.frames))
}

// renderReflection draws the terrain seen from below the water plane into the
// reflection target. Everything under the plane is clipped so only what sits
// above the water shows up in the reflection.
func (s *Scene) renderReflection() {
	h := s.cfg.Water.Height
	s.reflectionCamera = s.camera.Reflect(h)

	s.reflection.Bind()
	s.clearSky()
	s.device.Enable(renderer.DepthTest)
	s.device.Enable(renderer.FaceCulling)
	s.device.Disable(renderer.Blending)

	s.device.Enable(renderer.ClipDistance0)
	s.drawTerrain(s.reflectionCamera.MVP(s.terrainModel), mgl32.Vec4{0, 1, 0, -h})
	s.device.Disable(renderer.ClipDistance0)

	s.reflection.Unbind()
	s.device.Viewport(0, 0, s.width, s.height)
}

// renderDepth fills the depth target with the terrain as the primary camera
// sees it. The water shader compares against it to fade shallow water.
func (s *Scene) renderDepth() {
	s.depth.Bind()
	s.device.Clear(false, true)
	s.device.Enable(renderer.DepthTest)
	s.device.Enable(renderer.FaceCulling)

	s.drawTerrain(s.camera.MVP(s.terrainModel), noClip)

	s.depth.Unbind()
	s.device.Viewport(0, 0, s.width, s.height)
}

func (s *Scene) renderTerrain() {
	s.clearSky()
	s.device.Enable(renderer.DepthTest)
	s.device.Enable(renderer.FaceCulling)
	s.device.Disable(renderer.Blending)

	s.drawTerrain(s.camera.MVP(s.terrainModel), noClip)
}

func (s *Scene) renderWater() {
	shader := s.waterShader
	shader.Use()
	s.device.BindTexture(reflectionUnit, s.reflection.Texture())
	s.device.BindTexture(depthUnit, s.depth.Texture())
	shader.SetInt("reflectionTex", reflectionUnit)
	shader.SetInt("depthTex", depthUnit)

	shader.SetFloat("time", float32(s.elapsed))
	shader.SetVec2("resolution", mgl32.Vec2{float32(s.width), float32(s.height)})
	shader.SetFloat("near", s.camera.Near)
	shader.SetFloat("far", s.camera.Far)
	shader.SetMat4("mvp", s.camera.MVP(s.waterModel))
	shader.SetMat4("model", s.waterModel)
	shader.SetVec3("cameraPos", s.camera.Position)
	shader.SetVec3("waterColor", mgl32.Vec3(s.cfg.Water.Color))
	shader.SetFloat("rippleStrength", s.cfg.Water.RippleStrength)
	shader.SetFloat("softDepth", s.cfg.Water.SoftDepth)

	s.device.Enable(renderer.DepthTest)
	s.device.Disable(renderer.FaceCulling)
	s.device.Enable(renderer.Blending)
	s.device.SetBlendMode(renderer.BlendSourceOver)

	s.waterMesh.Draw()

	s.device.Disable(renderer.Blending)
	s.device.Enable(renderer.FaceCulling)
}

// renderDebugOverlay shows the reflection target bottom-left and the depth
// target bottom-right, each a quarter of the window wide. It only reads the
// targets.
func (s *Scene) renderDebugOverlay() {
	window := renderer.Rect{Width: s.width, Height: s.height}
	w, h := s.width/4, s.height/4
	s.quad.Draw(s.reflection.Texture(), renderer.QuadColor, renderer.Rect{Width: w, Height: h}, window, s.camera.Near, s.camera.Far)
	s.quad.Draw(s.depth.Texture(), renderer.QuadDepth, renderer.Rect{X: s.width - w, Width: w, Height: h}, window, s.camera.Near, s.camera.Far)
}

// noClip keeps every vertex: the distance is always 1.
var noClip = mgl32.Vec4{0, 0, 0, 1}

func (s *Scene) drawTerrain(mvp mgl32.Mat4, clipPlane mgl32.Vec4) {
	shader := s.terrainShader
	shader.Use()
	s.device.BindTexture(heightmapUnit, s.heightmap.ID)
	shader.SetInt("heightmap", heightmapUnit)
	shader.SetMat4("mvp", mvp)
	shader.SetMat4("model", s.terrainModel)
	shader.SetFloat("heightScale", s.cfg.Terrain.HeightScale)
	shader.SetFloat("heightOffset", s.cfg.Terrain.HeightOffset)
	shader.SetFloat("waterHeight", s.cfg.Water.Height)
	shader.SetVec4("clipPlane", clipPlane)
	s.terrainMesh.Draw()
}

func (s *Scene) clearSky() {
	c := s.cfg.Window.ClearColor
	s.device.ClearColor(c[0], c[1], c[2], 1)
	s.device.Clear(true, true)
}

// Camera is the primary, input-driven camera.
func (s *Scene) Camera() *renderer.Camera {
	return s.camera
}

// ReflectionCamera is the mirrored camera of the last rendered frame.
func (s *Scene) ReflectionCamera() renderer.Camera {
	return s.reflectionCamera
}

func (s *Scene) Frames() uint64 {
	return s.frames
}

// Elapsed is the time in seconds accumulated by Update.
func (s *Scene) Elapsed() float64 {
	return s.elapsed
}
