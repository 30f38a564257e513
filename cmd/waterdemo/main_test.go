package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"GopherWater/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores the root command's own flags after a test sets them.
func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waterdemo.yaml")

	out, err := execute(t, "config", "init", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = execute(t, "config", "init", "--out", path)
	assert.Error(t, err, "existing file is not overwritten without --force")

	_, err = execute(t, "config", "init", "--out", path, "--force")
	assert.NoError(t, err)
}

func TestHeightmapCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textures", "perlin.png")

	_, err := execute(t, "heightmap", "--out", path, "--size", "24", "--sample-size", "12", "--seed", "7")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 24, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waterdemo.yaml")
	require.NoError(t, config.DefaultConfig().SaveToFile(path))

	cfgFile = path
	defer func() { cfgFile = "" }()
	resetFlags(t)
	require.NoError(t, rootCmd.Flags().Set("width", "640"))
	require.NoError(t, rootCmd.Flags().Set("debug-overlay", "false"))
	require.NoError(t, rootCmd.Flags().Set("assets", "/tmp/assets"))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, int32(640), cfg.Window.Width)
	assert.Equal(t, config.DefaultConfig().Window.Height, cfg.Window.Height, "unset flags keep the file value")
	assert.False(t, cfg.Debug.Overlay)
	assert.Equal(t, "/tmp/assets", cfg.Assets.Dir)

	require.NoError(t, rootCmd.Flags().Set("width", "-1"))
	_, err = loadConfig(rootCmd)
	assert.Error(t, err)
}

func TestLoadConfigReadsVerboseFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waterdemo.yaml")
	cfg := config.DefaultConfig()
	cfg.Debug.Verbose = true
	require.NoError(t, cfg.SaveToFile(path))

	cfgFile = path
	defer func() { cfgFile = "" }()
	require.False(t, verbose)

	loaded, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.True(t, loaded.Debug.Verbose, "debug.verbose in the file turns on debug logging without --verbose")
}
