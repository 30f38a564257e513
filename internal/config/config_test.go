package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Debug.Overlay)
	assert.True(t, cfg.Terrain.GenerateMissing)
	assert.Equal(t, "shaders/default.glsl", cfg.Assets.TerrainShader)
	assert.Equal(t, "shaders/water.glsl", cfg.Assets.WaterShader)
	assert.Equal(t, "textures/perlin.png", cfg.Assets.Heightmap)
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waterdemo.yaml")
	data := []byte(`window:
  width: 800
  height: 600
water:
  height: 4.5
  color: [0.1, 0.2, 0.3]
debug:
  overlay: false
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(800), cfg.Window.Width)
	assert.Equal(t, int32(600), cfg.Window.Height)
	assert.Equal(t, float32(4.5), cfg.Water.Height)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, cfg.Water.Color)
	assert.False(t, cfg.Debug.Overlay)

	// untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().Terrain, cfg.Terrain)
	assert.Equal(t, DefaultConfig().Window.Title, cfg.Window.Title)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "waterdemo.yaml")
	cfg := DefaultConfig()
	cfg.Window.Width = 1024
	cfg.Terrain.Seed = 42
	cfg.Camera.InvertMouse = true

	require.NoError(t, cfg.SaveToFile(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"missing shader", func(c *Config) { c.Assets.WaterShader = "" }},
		{"near not positive", func(c *Config) { c.Camera.Near = 0 }},
		{"far before near", func(c *Config) { c.Camera.Far = c.Camera.Near }},
		{"fov too wide", func(c *Config) { c.Camera.Fov = 180 }},
		{"terrain resolution too small", func(c *Config) { c.Terrain.Resolution = 1 }},
		{"water resolution too large", func(c *Config) { c.Water.Resolution = 5000 }},
		{"zero terrain size", func(c *Config) { c.Terrain.Size = 0 }},
		{"zero heightmap size", func(c *Config) { c.Terrain.HeightmapSize = 0 }},
		{"zero soft depth", func(c *Config) { c.Water.SoftDepth = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAssetPath(t *testing.T) {
	assets := AssetsConfig{Dir: "assets"}
	assert.Equal(t, filepath.Join("assets", "shaders", "water.glsl"), assets.Path("shaders/water.glsl"))

	abs := filepath.Join(t.TempDir(), "perlin.png")
	assert.Equal(t, abs, assets.Path(abs))

	assert.Equal(t, "perlin.png", AssetsConfig{}.Path("perlin.png"))
}
