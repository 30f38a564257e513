package renderer

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"GopherWater/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Texture is an image uploaded to the GPU.
type Texture struct {
	ID     uint32
	Width  int
	Height int
	Name   string
}

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// TextureManager manages texture loading, caching, and lifecycle
type TextureManager struct {
	device          Device
	textureCache    map[string]Texture // path or name -> texture
	textureRefCount map[uint32]int     // texture ID -> reference count
	texturePaths    map[uint32]string  // texture ID -> path (for debugging)
	mu              sync.RWMutex
	stats           TextureStats
}

// NewTextureManager creates a new texture manager instance
func NewTextureManager(device Device) *TextureManager {
	return &TextureManager{
		device:          device,
		textureCache:    make(map[string]Texture),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
	}
}

// DecodeRGBA decodes a PNG or JPEG stream into tightly packed RGBA pixels.
func DecodeRGBA(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// LoadTexture loads a texture from file or returns the cached one.
// Automatically increments reference count
func (tm *TextureManager) LoadTexture(filePath string) (Texture, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if texture, exists := tm.textureCache[filePath]; exists {
		tm.textureRefCount[texture.ID]++
		tm.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("path", filePath),
			zap.Uint32("textureID", texture.ID),
			zap.Int("refCount", tm.textureRefCount[texture.ID]))

		return texture, nil
	}

	tm.stats.CacheMisses++

	imgFile, err := os.Open(filePath)
	if err != nil {
		return Texture{}, errors.Wrap(err, "open texture")
	}
	defer imgFile.Close()

	rgba, err := DecodeRGBA(imgFile)
	if err != nil {
		return Texture{}, errors.Wrapf(err, "texture %s", filePath)
	}

	texture := tm.upload(rgba, filePath)

	logger.Log.Info("Texture loaded and cached",
		zap.String("path", filePath),
		zap.Uint32("textureID", texture.ID),
		zap.Int("width", texture.Width),
		zap.Int("height", texture.Height))

	return texture, nil
}

// CreateTextureFromImage creates a texture from an image.Image, cached by name
func (tm *TextureManager) CreateTextureFromImage(img image.Image, name string) Texture {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if texture, exists := tm.textureCache[name]; exists {
		tm.textureRefCount[texture.ID]++
		tm.stats.CacheHits++
		return texture
	}
	tm.stats.CacheMisses++

	texture := tm.upload(toRGBA(img), name)

	logger.Log.Info("Texture created from image",
		zap.String("name", name),
		zap.Uint32("textureID", texture.ID))

	return texture
}

// upload must be called with tm.mu held.
func (tm *TextureManager) upload(rgba *image.RGBA, name string) Texture {
	texture := Texture{
		ID:     tm.device.CreateTexture(rgba, WrapRepeat),
		Width:  rgba.Rect.Dx(),
		Height: rgba.Rect.Dy(),
		Name:   name,
	}

	tm.textureCache[name] = texture
	tm.textureRefCount[texture.ID] = 1
	tm.texturePaths[texture.ID] = name
	tm.stats.TotalTextures++
	tm.stats.ActiveTextures++
	return texture
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount

	if refCount <= 0 {
		tm.device.DeleteTexture(textureID)

		path := tm.texturePaths[textureID]
		delete(tm.textureCache, path)
		delete(tm.textureRefCount, textureID)
		delete(tm.texturePaths, textureID)
		tm.stats.ActiveTextures--

		logger.Log.Info("Texture freed",
			zap.Uint32("textureID", textureID),
			zap.String("path", path))
	}
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Float64("hitRate", hitRate))
}
