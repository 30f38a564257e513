package renderer

import "github.com/go-gl/mathgl/mgl32"

// UniformCache caches uniform locations to avoid repeated location lookups
type UniformCache struct {
	locations map[string]int32
	program   uint32
	device    Device
}

// NewUniformCache creates a new uniform cache for a shader program
func NewUniformCache(device Device, program uint32) *UniformCache {
	return &UniformCache{
		locations: make(map[string]int32),
		program:   program,
		device:    device,
	}
}

// GetLocation returns the cached uniform location or fetches and caches it.
// Unknown names resolve to -1 and are cached too.
func (uc *UniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}

	loc := uc.device.UniformLocation(uc.program, name)
	uc.locations[name] = loc
	return loc
}

func (uc *UniformCache) SetInt(name string, value int32) {
	if loc := uc.GetLocation(name); loc != -1 {
		uc.device.Uniform1i(loc, value)
	}
}

func (uc *UniformCache) SetFloat(name string, value float32) {
	if loc := uc.GetLocation(name); loc != -1 {
		uc.device.Uniform1f(loc, value)
	}
}

func (uc *UniformCache) SetVec2(name string, value mgl32.Vec2) {
	if loc := uc.GetLocation(name); loc != -1 {
		uc.device.Uniform2f(loc, value.X(), value.Y())
	}
}

func (uc *UniformCache) SetVec3(name string, value mgl32.Vec3) {
	if loc := uc.GetLocation(name); loc != -1 {
		uc.device.Uniform3f(loc, value.X(), value.Y(), value.Z())
	}
}

func (uc *UniformCache) SetVec4(name string, value mgl32.Vec4) {
	if loc := uc.GetLocation(name); loc != -1 {
		uc.device.Uniform4f(loc, value.X(), value.Y(), value.Z(), value.W())
	}
}

func (uc *UniformCache) SetMat4(name string, value mgl32.Mat4) {
	if loc := uc.GetLocation(name); loc != -1 {
		uc.device.UniformMatrix4(loc, value)
	}
}

// Clear clears the cache (call when shader program changes)
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
}
