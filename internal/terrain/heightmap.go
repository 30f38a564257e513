// Package terrain generates the heightmap the terrain shader displaces the
// ground plane with.
package terrain

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"GopherWater/internal/logger"

	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
)

type HeightmapOptions struct {
	// Size is the edge length in pixels of the written image.
	Size int
	// SampleSize is the edge length the noise is evaluated at before it is
	// resampled to Size. Zero means Size.
	SampleSize int
	Seed       int64
	// Alpha is the weight divisor between octaves, Beta the frequency
	// multiplier, Octaves the number of noise layers.
	Alpha   float64
	Beta    float64
	Octaves int32
	// Frequency is how many noise periods span the map.
	Frequency float64
	// Falloff lowers the edges so the map reads as an island. 0 disables it.
	Falloff float32
}

func DefaultHeightmapOptions() HeightmapOptions {
	return HeightmapOptions{
		Size:       512,
		SampleSize: 128,
		Seed:       1337,
		Alpha:      2,
		Beta:       2,
		Octaves:    5,
		Frequency:  4,
		Falloff:    0.6,
	}
}

func (o HeightmapOptions) validate() error {
	if o.Size <= 0 {
		return errors.Errorf("heightmap size must be positive, got %d", o.Size)
	}
	if o.SampleSize < 0 {
		return errors.Errorf("heightmap sample size must not be negative, got %d", o.SampleSize)
	}
	if o.Octaves <= 0 {
		return errors.Errorf("heightmap octaves must be positive, got %d", o.Octaves)
	}
	if o.Alpha == 0 {
		return errors.New("heightmap alpha must not be zero")
	}
	if o.Frequency <= 0 {
		return errors.Errorf("heightmap frequency must be positive, got %f", o.Frequency)
	}
	return nil
}

// GenerateHeightmap evaluates Perlin fBm over the unit square, normalises it
// to the full 0-255 range and resamples it to opts.Size. The same options
// always produce the same image.
func GenerateHeightmap(opts HeightmapOptions) (*image.Gray, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	sampleSize := opts.SampleSize
	if sampleSize == 0 || sampleSize > opts.Size {
		sampleSize = opts.Size
	}

	noise := perlin.NewPerlin(opts.Alpha, opts.Beta, opts.Octaves, opts.Seed)
	values := make([]float64, sampleSize*sampleSize)
	lo, hi := math.Inf(1), math.Inf(-1)
	for z := 0; z < sampleSize; z++ {
		for x := 0; x < sampleSize; x++ {
			u := float64(x) / float64(sampleSize) * opts.Frequency
			v := float64(z) / float64(sampleSize) * opts.Frequency
			n := noise.Noise2D(u, v)
			values[z*sampleSize+x] = n
			lo = math.Min(lo, n)
			hi = math.Max(hi, n)
		}
	}

	sample := image.NewGray(image.Rect(0, 0, sampleSize, sampleSize))
	span := hi - lo
	for z := 0; z < sampleSize; z++ {
		for x := 0; x < sampleSize; x++ {
			h := float32(0.5)
			if span > 0 {
				h = float32((values[z*sampleSize+x] - lo) / span)
			}
			h *= falloff(x, z, sampleSize, opts.Falloff)
			sample.SetGray(x, z, color.Gray{Y: uint8(clamp01(h)*255 + 0.5)})
		}
	}

	if sampleSize == opts.Size {
		return sample, nil
	}
	out := image.NewGray(image.Rect(0, 0, opts.Size, opts.Size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), sample, sample.Bounds(), xdraw.Src, nil)
	return out, nil
}

// falloff is 1 at the centre and 1-strength at the corners.
func falloff(x, z, size int, strength float32) float32 {
	if strength <= 0 || size < 2 {
		return 1
	}
	nx := float32(x)/float32(size-1)*2 - 1
	nz := float32(z)/float32(size-1)*2 - 1
	d2 := (nx*nx + nz*nz) / 2
	return 1 - strength*d2
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

// WriteHeightmap generates a heightmap and writes it to path as PNG.
func WriteHeightmap(path string, opts HeightmapOptions) error {
	img, err := GenerateHeightmap(opts)
	if err != nil {
		return err
	}
	if err := SaveHeightmap(path, img); err != nil {
		return err
	}

	logger.Log.Info("Heightmap written",
		zap.String("path", path),
		zap.Int("size", opts.Size),
		zap.Int64("seed", opts.Seed))
	return nil
}

// SaveHeightmap encodes img as PNG at path, creating the parent directory
// when needed.
func SaveHeightmap(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create heightmap directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create heightmap file")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode heightmap %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close heightmap %s", path)
	}
	return nil
}
