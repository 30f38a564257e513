package renderer_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"GopherWater/internal/renderer"
	"GopherWater/internal/renderer/gltest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func countOps(rec *gltest.Recorder, op gltest.Op) int {
	return len(rec.Filter(op))
}

func TestUniformCacheLooksUpOnce(t *testing.T) {
	rec := gltest.New()
	program, err := rec.CompileProgram("v", "f")
	if err != nil {
		t.Fatal(err)
	}
	rec.UseProgram(program)
	cache := renderer.NewUniformCache(rec, program)

	cache.SetFloat("time", 1)
	cache.SetFloat("time", 2)
	cache.SetVec3("cameraPos", mgl32.Vec3{1, 2, 3})

	if n := countOps(rec, gltest.OpUniformLocation); n != 2 {
		t.Errorf("Expected 2 location lookups, got %d", n)
	}
	if got := rec.UniformValues(program, "time"); len(got) != 1 || got[0] != 2 {
		t.Errorf("Expected last time write 2, got %v", got)
	}
	if got := rec.UniformValues(program, "cameraPos"); len(got) != 3 || got[2] != 3 {
		t.Errorf("Unexpected cameraPos %v", got)
	}

	cache.Clear()
	cache.SetFloat("time", 3)
	if n := countOps(rec, gltest.OpUniformLocation); n != 3 {
		t.Errorf("Clear should force a new lookup, got %d lookups", n)
	}
}

func TestUniformCacheSkipsUnknownLocation(t *testing.T) {
	rec := gltest.New()
	// 42 was never compiled so every lookup answers -1
	cache := renderer.NewUniformCache(rec, 42)

	cache.SetMat4("mvp", mgl32.Ident4())
	cache.SetInt("tex", 0)
	if n := countOps(rec, gltest.OpUniform); n != 0 {
		t.Errorf("Writes to location -1 should be skipped, got %d", n)
	}
	if loc := cache.GetLocation("mvp"); loc != -1 {
		t.Errorf("Expected cached -1, got %d", loc)
	}
}

func TestNewShaderCompilesBothStages(t *testing.T) {
	rec := gltest.New()
	shader, err := renderer.NewShader(rec, "test", "#version 410 core\nvoid main() {}\n")
	if err != nil {
		t.Fatalf("NewShader failed: %v", err)
	}
	if shader.Program() == 0 {
		t.Error("Expected a program handle")
	}

	shader.Use()
	shader.SetVec2("resolution", mgl32.Vec2{640, 480})
	if got := rec.UniformValues(shader.Program(), "resolution"); len(got) != 2 || got[0] != 640 {
		t.Errorf("Unexpected resolution %v", got)
	}

	shader.Delete()
	shader.Delete()
	if n := countOps(rec, gltest.OpDeleteProgram); n != 1 {
		t.Errorf("Delete should release the program once, got %d", n)
	}
}

func TestNewShaderReportsCompileError(t *testing.T) {
	rec := gltest.New()
	rec.CompileErr = errors.New("0:3: syntax error")

	_, err := renderer.NewShader(rec, "broken", "void main() {")
	if err == nil {
		t.Fatal("Expected compile error")
	}
	if errors.Cause(err) != rec.CompileErr {
		t.Errorf("Expected driver log to be wrapped, got %v", err)
	}
}

func TestLoadShaderMissingFile(t *testing.T) {
	if _, err := renderer.LoadShader(gltest.New(), filepath.Join(t.TempDir(), "missing.glsl")); err == nil {
		t.Error("Expected error for missing shader file")
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestTextureManagerCachesByPath(t *testing.T) {
	rec := gltest.New()
	tm := renderer.NewTextureManager(rec)
	path := filepath.Join(t.TempDir(), "perlin.png")
	writePNG(t, path, 8, 4)

	first, err := tm.LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}
	second, err := tm.LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}

	if first.ID != second.ID {
		t.Error("Second load should hit the cache")
	}
	if first.Width != 8 || first.Height != 4 {
		t.Errorf("Expected 8x4, got %dx%d", first.Width, first.Height)
	}
	if n := countOps(rec, gltest.OpCreateTexture); n != 1 {
		t.Errorf("Expected one upload, got %d", n)
	}

	stats := tm.GetStats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 || stats.ActiveTextures != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestTextureManagerReleasesAtZero(t *testing.T) {
	rec := gltest.New()
	tm := renderer.NewTextureManager(rec)
	path := filepath.Join(t.TempDir(), "perlin.png")
	writePNG(t, path, 2, 2)

	tex, err := tm.LoadTexture(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tm.LoadTexture(path); err != nil {
		t.Fatal(err)
	}

	tm.ReleaseTexture(tex.ID)
	if n := countOps(rec, gltest.OpDeleteTexture); n != 0 {
		t.Error("Texture still referenced should not be deleted")
	}
	tm.ReleaseTexture(tex.ID)
	if n := countOps(rec, gltest.OpDeleteTexture); n != 1 {
		t.Errorf("Expected texture deleted once, got %d", n)
	}
	if tm.GetStats().ActiveTextures != 0 {
		t.Error("Released texture should be forgotten")
	}

	// unknown IDs are ignored
	tm.ReleaseTexture(tex.ID)
	tm.ReleaseTexture(999)
	if n := countOps(rec, gltest.OpDeleteTexture); n != 1 {
		t.Error("Releasing an unknown texture should not delete anything")
	}
}

func TestTextureManagerLoadErrors(t *testing.T) {
	tm := renderer.NewTextureManager(gltest.New())
	if _, err := tm.LoadTexture(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := tm.LoadTexture(garbage); err == nil {
		t.Error("Expected error for undecodable file")
	}
}

func TestCreateTextureFromImage(t *testing.T) {
	rec := gltest.New()
	tm := renderer.NewTextureManager(rec)
	img := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	img.Set(5, 5, color.NRGBA{R: 255, A: 255})

	tex := tm.CreateTextureFromImage(img, "generated")
	if tex.Width != 4 || tex.Height != 2 {
		t.Errorf("Expected 4x2, got %dx%d", tex.Width, tex.Height)
	}
	again := tm.CreateTextureFromImage(img, "generated")
	if again.ID != tex.ID {
		t.Error("Same name should reuse the cached texture")
	}

	if n := countOps(rec, gltest.OpCreateTexture); n != 1 {
		t.Errorf("Expected one upload, got %d", n)
	}

	tm.ReleaseTexture(tex.ID)
	tm.ReleaseTexture(tex.ID)
	if n := countOps(rec, gltest.OpDeleteTexture); n != 1 {
		t.Errorf("Expected texture deleted after the last release, got %d", n)
	}
}

func TestDecodeRGBA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, 3, 3)
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rgba, err := renderer.DecodeRGBA(f)
	if err != nil {
		t.Fatalf("DecodeRGBA failed: %v", err)
	}
	if len(rgba.Pix) != 3*3*4 {
		t.Errorf("Expected tightly packed pixels, got %d bytes", len(rgba.Pix))
	}
	if c := rgba.RGBAAt(1, 0); c.R != 1 || c.G != 1 || c.B != 1 || c.A != 255 {
		t.Errorf("Unexpected pixel %v", c)
	}
}

func TestRenderTargetBindSetsViewport(t *testing.T) {
	rec := gltest.New()
	rt, err := renderer.NewRenderTarget(rec, "reflection", 256, 128, renderer.ColorAttachment)
	if err != nil {
		t.Fatalf("NewRenderTarget failed: %v", err)
	}

	rt.Bind()
	if rec.Framebuffer() != rt.FBO() {
		t.Errorf("Expected framebuffer %d bound, got %d", rt.FBO(), rec.Framebuffer())
	}
	viewports := rec.Filter(gltest.OpViewport)
	if len(viewports) != 1 || viewports[0].Width != 256 || viewports[0].Height != 128 {
		t.Errorf("Bind should cover the target, got %+v", viewports)
	}

	rt.Unbind()
	if rec.Framebuffer() != 0 {
		t.Error("Unbind should restore the window framebuffer")
	}

	rt.Delete()
	rt.Delete()
	if n := countOps(rec, gltest.OpDeleteFramebuffer); n != 1 {
		t.Errorf("Expected one delete, got %d", n)
	}
}

func TestRenderTargetErrors(t *testing.T) {
	rec := gltest.New()
	if _, err := renderer.NewRenderTarget(rec, "depth", 0, 10, renderer.DepthAttachment); err == nil {
		t.Error("Expected error for zero width")
	}
	if n := countOps(rec, gltest.OpCreateFramebuffer); n != 0 {
		t.Error("Invalid size should not reach the device")
	}

	rec.FramebufferErr = errors.New("framebuffer incomplete")
	if _, err := renderer.NewRenderTarget(rec, "depth", 10, 10, renderer.DepthAttachment); err == nil {
		t.Error("Expected incomplete framebuffer to fail")
	}
}

func TestQuadRendererDraw(t *testing.T) {
	rec := gltest.New()
	quad, err := renderer.NewQuadRenderer(rec)
	if err != nil {
		t.Fatalf("NewQuadRenderer failed: %v", err)
	}
	rec.BindFramebuffer(7)
	rec.Enable(renderer.DepthTest)
	rec.Reset()

	window := renderer.Rect{Width: 800, Height: 600}
	quad.Draw(11, renderer.QuadDepth, renderer.Rect{X: 600, Width: 200, Height: 150}, window, 0.1, 1000)

	draws := rec.Filter(gltest.OpDrawMesh)
	if len(draws) != 1 {
		t.Fatalf("Expected one draw, got %d", len(draws))
	}
	d := draws[0]
	if d.Framebuffer != 0 || d.Textures[0] != 11 || d.Enabled[renderer.DepthTest] {
		t.Errorf("Unexpected draw state %+v", d)
	}
	if got := rec.UniformValues(d.Program, "mode"); len(got) != 1 || got[0] != float32(renderer.QuadDepth) {
		t.Errorf("Expected depth mode, got %v", got)
	}

	viewports := rec.Filter(gltest.OpViewport)
	if len(viewports) != 2 || viewports[0].Values[0] != 600 || viewports[1].Width != 800 {
		t.Errorf("Expected blit viewport then window restore, got %+v", viewports)
	}

	quad.Delete()
	if countOps(rec, gltest.OpDeleteMesh) != 1 || countOps(rec, gltest.OpDeleteProgram) != 1 {
		t.Error("Delete should release the quad mesh and program")
	}
}
