package renderer

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Camera generates primary rays through pixel centres
type Camera struct {
	origin core.Vec3
	u      core.Vec3 // Right
	v      core.Vec3 // Up
	w      core.Vec3 // Backward, away from the look-at point

	tanHalfFov float64
	aspect     float64
	width      int
	height     int
}

// NewCamera creates a pinhole camera for a width x height canvas
func NewCamera(config scene.CameraConfig, width, height int) *Camera {
	w := config.From.Subtract(config.At).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	return &Camera{
		origin:     config.From,
		u:          u,
		v:          v,
		w:          w,
		tanHalfFov: math.Tan(config.VFov * math.Pi / 180 / 2),
		aspect:     float64(width) / float64(height),
		width:      width,
		height:     height,
	}
}

// GetRay returns the ray through the centre of pixel (x, y), with y=0 the
// top row
func (c *Camera) GetRay(x, y int) core.Ray {
	dx := float64(x) + 0.5
	dy := float64(y) + 0.5

	alpha := c.tanHalfFov * c.aspect * (2*dx/float64(c.width) - 1)
	beta := c.tanHalfFov * (1 - 2*dy/float64(c.height))

	direction := c.u.Multiply(alpha).Add(c.v.Multiply(beta)).Subtract(c.w)
	return core.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// Size returns the canvas dimensions
func (c *Camera) Size() (int, int) {
	return c.width, c.height
}
