// camera.go
package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// KeyState reports keyboard state. *glfw.Window satisfies it.
type KeyState interface {
	GetKey(key glfw.Key) glfw.Action
}

type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3 // Camera position in world space
	Front      mgl32.Vec3 // Forward direction vector
	Up         mgl32.Vec3 // Up direction vector
	Right      mgl32.Vec3 // Right direction vector
	Projection mgl32.Mat4 // Projection matrix
	Pitch      float32    // Pitch angle in degrees
	Yaw        float32    // Yaw angle in degrees

	// COLD DATA - Configuration and input handling
	WorldUp     mgl32.Vec3
	Speed       float32 // Units per second
	Sensitivity float32 // Degrees per pixel of mouse movement
	Fov         float32 // Vertical field of view in degrees
	Near        float32
	Far         float32
	AspectRatio float32
	InvertMouse bool
}

func NewCamera(width, height int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 30, 100},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Pitch:       0.0,
		Yaw:         -90.0,
		Speed:       40,
		Sensitivity: 0.1,
		Fov:         45.0,
		Near:        0.1,
		Far:         1000.0,
		AspectRatio: float32(width) / float32(height),
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

// Setter methods that automatically update projection
func (c *Camera) SetNear(near float32) {
	c.Near = near
	c.UpdateProjection()
}

func (c *Camera) SetFar(far float32) {
	c.Far = far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

// SetRotation sets yaw and pitch in degrees and recomputes the basis.
func (c *Camera) SetRotation(yaw, pitch float32) {
	c.Yaw = yaw
	c.Pitch = mgl32.Clamp(pitch, -89.0, 89.0)
	c.updateCameraVectors()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// MVP returns projection * view * model.
func (c *Camera) MVP(model mgl32.Mat4) mgl32.Mat4 {
	return c.GetViewProjection().Mul4(model)
}

// Reflect returns a copy of the camera mirrored across the horizontal plane
// y = height: the position is mirrored and the pitch negated, so the copy
// sees what the water surface reflects.
func (c *Camera) Reflect(height float32) Camera {
	mirrored := *c
	mirrored.Position[1] = 2*height - c.Position.Y()
	mirrored.Pitch = -c.Pitch
	mirrored.updateCameraVectors()
	return mirrored
}

func (c *Camera) ProcessKeyboard(keys KeyState, deltaTime float32) {
	velocity := c.Speed * deltaTime

	if keys.GetKey(glfw.KeyLeftShift) == glfw.Press || keys.GetKey(glfw.KeyRightShift) == glfw.Press {
		velocity *= 2.5
	}

	if keys.GetKey(glfw.KeyW) == glfw.Press {
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	}
	if keys.GetKey(glfw.KeyS) == glfw.Press {
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	}
	if keys.GetKey(glfw.KeyA) == glfw.Press {
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	}
	if keys.GetKey(glfw.KeyD) == glfw.Press {
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
	if keys.GetKey(glfw.KeySpace) == glfw.Press {
		c.Position = c.Position.Add(c.WorldUp.Mul(velocity))
	}
	if keys.GetKey(glfw.KeyLeftControl) == glfw.Press {
		c.Position = c.Position.Sub(c.WorldUp.Mul(velocity))
	}
}

func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	xoffset *= c.Sensitivity
	yoffset *= c.Sensitivity

	c.Yaw += xoffset

	if c.InvertMouse {
		c.Pitch -= yoffset
	} else {
		c.Pitch += yoffset
	}
	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89.0, 89.0) // Prevent flipping over the pole
	}
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)

	front := mgl32.Vec3{
		math32.Cos(yawRad) * math32.Cos(pitchRad),
		math32.Sin(pitchRad),
		math32.Sin(yawRad) * math32.Cos(pitchRad),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
