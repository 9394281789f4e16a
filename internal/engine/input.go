package engine

import (
	"SiteViewer/internal/config"
	"SiteViewer/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Controls maps keyboard and mouse input onto the orbit camera.
type Controls struct {
	RotationStep     float32
	DistanceStep     float32
	MinDistance      float32
	MouseSensitivity float32

	dragging     bool
	lastX, lastY float64
}

func NewControls(cfg config.Camera) *Controls {
	c := &Controls{}
	c.Apply(cfg)
	return c
}

// Apply takes new step sizes, e.g. after a config reload.
func (c *Controls) Apply(cfg config.Camera) {
	c.RotationStep = cfg.RotationStep
	c.DistanceStep = cfg.DistanceStep
	c.MinDistance = cfg.MinDistance
	c.MouseSensitivity = cfg.MouseSensitivity
}

// Key applies a key event to cam and reports whether the viewer should close.
func (c *Controls) Key(cam *renderer.Camera, key glfw.Key, action glfw.Action) bool {
	if action != glfw.Press && action != glfw.Repeat {
		return false
	}

	switch key {
	case glfw.KeyEscape:
		return true
	case glfw.KeyUp:
		cam.RotationX -= c.RotationStep
	case glfw.KeyDown:
		cam.RotationX += c.RotationStep
	case glfw.KeyLeft:
		cam.RotationY -= c.RotationStep
	case glfw.KeyRight:
		cam.RotationY += c.RotationStep
	case glfw.KeyEqual, glfw.KeyKPAdd:
		c.zoom(cam, -c.DistanceStep)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		c.zoom(cam, c.DistanceStep)
	}
	return false
}

// MouseButton starts and stops a right-button drag at the given position.
func (c *Controls) MouseButton(button glfw.MouseButton, action glfw.Action, x, y float64) {
	if button != glfw.MouseButtonRight {
		return
	}
	c.dragging = action == glfw.Press
	c.lastX, c.lastY = x, y
}

// CursorMove rotates cam while a drag is active.
func (c *Controls) CursorMove(cam *renderer.Camera, x, y float64) {
	if !c.dragging {
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y

	cam.RotationY += dx * c.MouseSensitivity
	cam.RotationX += dy * c.MouseSensitivity
}

// Scroll moves the camera closer for positive offsets.
func (c *Controls) Scroll(cam *renderer.Camera, yoff float64) {
	c.zoom(cam, -float32(yoff)*c.DistanceStep)
}

func (c *Controls) zoom(cam *renderer.Camera, delta float32) {
	cam.SceneDistance += delta
	if cam.SceneDistance < c.MinDistance {
		cam.SceneDistance = c.MinDistance
	}
}
