// Package config holds the demo's settings: window, asset paths, camera,
// terrain and water parameters.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	minMeshResolution = 2
	maxMeshResolution = 4096
)

type Config struct {
	Window  WindowConfig  `mapstructure:"window" yaml:"window"`
	Assets  AssetsConfig  `mapstructure:"assets" yaml:"assets"`
	Camera  CameraConfig  `mapstructure:"camera" yaml:"camera"`
	Terrain TerrainConfig `mapstructure:"terrain" yaml:"terrain"`
	Water   WaterConfig   `mapstructure:"water" yaml:"water"`
	Debug   DebugConfig   `mapstructure:"debug" yaml:"debug"`
}

// WindowConfig sizes the window. The render targets are created at this size
// and are not recreated, so the window is not resizable.
type WindowConfig struct {
	Width      int32      `mapstructure:"width" yaml:"width"`
	Height     int32      `mapstructure:"height" yaml:"height"`
	Title      string     `mapstructure:"title" yaml:"title"`
	X          int        `mapstructure:"x" yaml:"x"`
	Y          int        `mapstructure:"y" yaml:"y"`
	VSync      bool       `mapstructure:"vsync" yaml:"vsync"`
	ClearColor [3]float32 `mapstructure:"clear_color" yaml:"clear_color"`
}

type AssetsConfig struct {
	Dir           string `mapstructure:"dir" yaml:"dir"`
	TerrainShader string `mapstructure:"terrain_shader" yaml:"terrain_shader"`
	WaterShader   string `mapstructure:"water_shader" yaml:"water_shader"`
	Heightmap     string `mapstructure:"heightmap" yaml:"heightmap"`
}

// Path resolves an asset path against Dir unless it is absolute.
func (a AssetsConfig) Path(name string) string {
	if filepath.IsAbs(name) || a.Dir == "" {
		return name
	}
	return filepath.Join(a.Dir, name)
}

type CameraConfig struct {
	Position    [3]float32 `mapstructure:"position" yaml:"position"`
	Yaw         float32    `mapstructure:"yaw" yaml:"yaw"`
	Pitch       float32    `mapstructure:"pitch" yaml:"pitch"`
	Fov         float32    `mapstructure:"fov" yaml:"fov"`
	Near        float32    `mapstructure:"near" yaml:"near"`
	Far         float32    `mapstructure:"far" yaml:"far"`
	Speed       float32    `mapstructure:"speed" yaml:"speed"`
	Sensitivity float32    `mapstructure:"sensitivity" yaml:"sensitivity"`
	InvertMouse bool       `mapstructure:"invert_mouse" yaml:"invert_mouse"`
}

type TerrainConfig struct {
	Size        float32 `mapstructure:"size" yaml:"size"`
	Resolution  int     `mapstructure:"resolution" yaml:"resolution"`
	HeightScale float32 `mapstructure:"height_scale" yaml:"height_scale"`
	// HeightOffset shifts the whole terrain so part of it sits below the water
	HeightOffset float32 `mapstructure:"height_offset" yaml:"height_offset"`
	// GenerateMissing writes a Perlin heightmap when the heightmap file is absent
	GenerateMissing bool  `mapstructure:"generate_missing_heightmap" yaml:"generate_missing_heightmap"`
	HeightmapSize   int   `mapstructure:"heightmap_size" yaml:"heightmap_size"`
	Seed            int64 `mapstructure:"seed" yaml:"seed"`
}

type WaterConfig struct {
	Height     float32    `mapstructure:"height" yaml:"height"`
	Size       float32    `mapstructure:"size" yaml:"size"`
	Resolution int        `mapstructure:"resolution" yaml:"resolution"`
	Color      [3]float32 `mapstructure:"color" yaml:"color"`
	// RippleStrength scales the reflection distortion
	RippleStrength float32 `mapstructure:"ripple_strength" yaml:"ripple_strength"`
	// SoftDepth is the water depth in world units at which the surface becomes opaque
	SoftDepth float32 `mapstructure:"soft_depth" yaml:"soft_depth"`
}

type DebugConfig struct {
	Overlay bool `mapstructure:"overlay" yaml:"overlay"`
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
}

// DefaultConfig returns a new configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Title:      "GopherWater",
			X:          100,
			Y:          100,
			VSync:      true,
			ClearColor: [3]float32{0.55, 0.75, 0.95},
		},
		Assets: AssetsConfig{
			Dir:           "assets",
			TerrainShader: "shaders/default.glsl",
			WaterShader:   "shaders/water.glsl",
			Heightmap:     "textures/perlin.png",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 40, 120},
			Yaw:         -90,
			Pitch:       -15,
			Fov:         45,
			Near:        0.1,
			Far:         1000,
			Speed:       40,
			Sensitivity: 0.1,
		},
		Terrain: TerrainConfig{
			Size:            256,
			Resolution:      256,
			HeightScale:     40,
			HeightOffset:    -12,
			GenerateMissing: true,
			HeightmapSize:   512,
			Seed:            1337,
		},
		Water: WaterConfig{
			Height:         0,
			Size:           256,
			Resolution:     64,
			Color:          [3]float32{0.05, 0.25, 0.4},
			RippleStrength: 0.02,
			SoftDepth:      6,
		},
		Debug: DebugConfig{
			Overlay: true,
		},
	}
}

// Load reads configPath (YAML) on top of the defaults. An empty path looks for
// waterdemo.yaml in the working directory and is not an error when absent.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("waterdemo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create config directory")
		}
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write config")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Assets.TerrainShader == "" || c.Assets.WaterShader == "" || c.Assets.Heightmap == "" {
		return errors.New("terrain_shader, water_shader and heightmap asset paths are required")
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("invalid camera clip range near=%f far=%f", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return errors.Errorf("invalid camera fov %f", c.Camera.Fov)
	}
	if err := checkResolution("terrain", c.Terrain.Resolution); err != nil {
		return err
	}
	if err := checkResolution("water", c.Water.Resolution); err != nil {
		return err
	}
	if c.Terrain.Size <= 0 || c.Water.Size <= 0 {
		return errors.New("terrain and water size must be positive")
	}
	if c.Terrain.GenerateMissing && c.Terrain.HeightmapSize <= 0 {
		return errors.Errorf("invalid heightmap size %d", c.Terrain.HeightmapSize)
	}
	if c.Water.SoftDepth <= 0 {
		return errors.Errorf("water soft_depth must be positive, got %f", c.Water.SoftDepth)
	}
	return nil
}

func checkResolution(name string, resolution int) error {
	if resolution < minMeshResolution || resolution > maxMeshResolution {
		return errors.Errorf("%s resolution %d out of range [%d, %d]", name, resolution, minMeshResolution, maxMeshResolution)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.x", d.Window.X)
	v.SetDefault("window.y", d.Window.Y)
	v.SetDefault("window.vsync", d.Window.VSync)
	v.SetDefault("window.clear_color", d.Window.ClearColor)

	v.SetDefault("assets.dir", d.Assets.Dir)
	v.SetDefault("assets.terrain_shader", d.Assets.TerrainShader)
	v.SetDefault("assets.water_shader", d.Assets.WaterShader)
	v.SetDefault("assets.heightmap", d.Assets.Heightmap)

	v.SetDefault("camera.position", d.Camera.Position)
	v.SetDefault("camera.yaw", d.Camera.Yaw)
	v.SetDefault("camera.pitch", d.Camera.Pitch)
	v.SetDefault("camera.fov", d.Camera.Fov)
	v.SetDefault("camera.near", d.Camera.Near)
	v.SetDefault("camera.far", d.Camera.Far)
	v.SetDefault("camera.speed", d.Camera.Speed)
	v.SetDefault("camera.sensitivity", d.Camera.Sensitivity)
	v.SetDefault("camera.invert_mouse", d.Camera.InvertMouse)

	v.SetDefault("terrain.size", d.Terrain.Size)
	v.SetDefault("terrain.resolution", d.Terrain.Resolution)
	v.SetDefault("terrain.height_scale", d.Terrain.HeightScale)
	v.SetDefault("terrain.height_offset", d.Terrain.HeightOffset)
	v.SetDefault("terrain.generate_missing_heightmap", d.Terrain.GenerateMissing)
	v.SetDefault("terrain.heightmap_size", d.Terrain.HeightmapSize)
	v.SetDefault("terrain.seed", d.Terrain.Seed)

	v.SetDefault("water.height", d.Water.Height)
	v.SetDefault("water.size", d.Water.Size)
	v.SetDefault("water.resolution", d.Water.Resolution)
	v.SetDefault("water.color", d.Water.Color)
	v.SetDefault("water.ripple_strength", d.Water.RippleStrength)
	v.SetDefault("water.soft_depth", d.Water.SoftDepth)

	v.SetDefault("debug.overlay", d.Debug.Overlay)
	v.SetDefault("debug.verbose", d.Debug.Verbose)
}
