// camera.go
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFov           = 50.0
	DefaultNear          = 1.0
	DefaultFar           = 50000.0
	DefaultSceneDistance = 10000.0
)

// Projection holds the parameters of the last perspective transform.
type Projection struct {
	Fovy   float64 // Vertical field of view in degrees
	Aspect float64
	Near   float64
	Far    float64
}

func (p Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(float32(p.Fovy)), float32(p.Aspect), float32(p.Near), float32(p.Far))
}

// Camera orbits the whole scene: it pushes the scene SceneDistance units down
// the view axis, then rotates it about X and then about Y. Angles are in
// degrees and are never normalized.
type Camera struct {
	// HOT DATA - set by the host from input, read every frame
	RotationX     float32
	RotationY     float32
	SceneDistance float32

	// COLD DATA - changes only on resize
	Fov        float64
	Near       float64
	Far        float64
	Projection Projection
}

func NewDefaultCamera(width, height int) Camera {
	c := Camera{
		SceneDistance: DefaultSceneDistance,
		Fov:           DefaultFov,
		Near:          DefaultNear,
		Far:           DefaultFar,
	}
	c.UpdateProjection(width, height)
	return c
}

// UpdateProjection recomputes the projection for a surface of the given size.
// A zero height is treated as 1; the height actually used is returned.
func (c *Camera) UpdateProjection(width, height int) int {
	if height == 0 {
		height = 1
	}
	c.Projection = Projection{
		Fovy:   c.Fov,
		Aspect: float64(width) / float64(height),
		Near:   c.Near,
		Far:    c.Far,
	}
	return height
}

// ApplyProjection replaces the projection matrix in ctx. The projection
// matrix stays selected.
func (c *Camera) ApplyProjection(ctx Context) {
	p := c.Projection
	ctx.MatrixMode(MatrixProjection)
	ctx.LoadIdentity()
	ctx.Perspective(p.Fovy, p.Aspect, p.Near, p.Far)
}

// ApplyView multiplies the world frame onto the current transform. The order
// is fixed: translate, rotate about X, rotate about Y.
func (c *Camera) ApplyView(ctx Context) {
	ctx.Translate(0, 0, -c.SceneDistance)
	ctx.Rotate(c.RotationX, 1, 0, 0)
	ctx.Rotate(c.RotationY, 0, 1, 0)
}
