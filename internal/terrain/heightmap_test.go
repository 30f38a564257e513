package terrain

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() HeightmapOptions {
	opts := DefaultHeightmapOptions()
	opts.Size = 64
	opts.SampleSize = 32
	opts.Falloff = 0
	return opts
}

func TestGenerateHeightmapSize(t *testing.T) {
	img, err := GenerateHeightmap(smallOptions())
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}

func TestGenerateHeightmapIsDeterministic(t *testing.T) {
	a, err := GenerateHeightmap(smallOptions())
	require.NoError(t, err)
	b, err := GenerateHeightmap(smallOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)

	other := smallOptions()
	other.Seed++
	c, err := GenerateHeightmap(other)
	require.NoError(t, err)
	assert.NotEqual(t, a.Pix, c.Pix)
}

func TestGenerateHeightmapUsesFullRange(t *testing.T) {
	opts := smallOptions()
	opts.SampleSize = 0
	img, err := GenerateHeightmap(opts)
	require.NoError(t, err)

	lo, hi := uint8(255), uint8(0)
	for _, p := range img.Pix {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	assert.Equal(t, uint8(0), lo)
	assert.Equal(t, uint8(255), hi)
}

func TestGenerateHeightmapRejectsBadOptions(t *testing.T) {
	for name, mutate := range map[string]func(*HeightmapOptions){
		"zero size":       func(o *HeightmapOptions) { o.Size = 0 },
		"negative sample": func(o *HeightmapOptions) { o.SampleSize = -1 },
		"no octaves":      func(o *HeightmapOptions) { o.Octaves = 0 },
		"zero alpha":      func(o *HeightmapOptions) { o.Alpha = 0 },
		"zero frequency":  func(o *HeightmapOptions) { o.Frequency = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			opts := smallOptions()
			mutate(&opts)
			_, err := GenerateHeightmap(opts)
			assert.Error(t, err)
		})
	}
}

func TestFalloff(t *testing.T) {
	assert.InDelta(t, 1, falloff(1, 1, 3, 0.6), 1e-6)
	assert.InDelta(t, 0.4, falloff(0, 0, 3, 0.6), 1e-6)
	assert.InDelta(t, 0.4, falloff(2, 2, 3, 0.6), 1e-6)
	assert.Equal(t, float32(1), falloff(0, 0, 3, 0))
}

func TestWriteHeightmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textures", "perlin.png")
	require.NoError(t, WriteHeightmap(path, smallOptions()))

	f, err := os.Open(path)
	require.NoError(t, err)
	img, err := png.Decode(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestSaveHeightmapFailsWhenParentIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "textures")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	img, err := GenerateHeightmap(smallOptions())
	require.NoError(t, err)
	assert.Error(t, SaveHeightmap(filepath.Join(blocker, "perlin.png"), img))
}
