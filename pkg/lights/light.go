package lights

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
)

type LightType string

const (
	LightTypeDirectional LightType = "directional"
	LightTypePoint       LightType = "point"
	LightTypeQuad        LightType = "quad"
)

// Light is a closed variant over directional, point and quad area lights.
// Only the fields belonging to Type are meaningful.
type Light struct {
	Type  LightType
	Color core.Vec3

	// Directional: unit vector pointing toward the light
	Direction core.Vec3

	// Point
	Position core.Vec3

	// Quad: corner A and edges AB, AC; B, C, D are derived corners
	A, AB, AC core.Vec3
	B, C, D   core.Vec3
	Area      float64
	Normal    core.Vec3
}

// NewDirectional creates a light at infinity shining from direction
func NewDirectional(direction, color core.Vec3) Light {
	return Light{
		Type:      LightTypeDirectional,
		Color:     color,
		Direction: direction.Normalize(),
	}
}

// NewPoint creates a point light
func NewPoint(position, color core.Vec3) Light {
	return Light{
		Type:     LightTypePoint,
		Color:    color,
		Position: position,
	}
}

// NewQuad creates a parallelogram area light spanned by ab and ac from a
func NewQuad(a, ab, ac, color core.Vec3) Light {
	cross := ab.Cross(ac)
	return Light{
		Type:   LightTypeQuad,
		Color:  color,
		A:      a,
		AB:     ab,
		AC:     ac,
		B:      a.Add(ab),
		C:      a.Add(ac),
		D:      a.Add(ab).Add(ac),
		Area:   cross.Length(),
		Normal: cross.Normalize(),
	}
}

// IsArea reports whether the light has a surface
func (l *Light) IsArea() bool {
	return l.Type == LightTypeQuad
}

// Polygon returns the quad corners in boundary order A, B, D, C
func (l *Light) Polygon() [4]core.Vec3 {
	return [4]core.Vec3{l.A, l.B, l.D, l.C}
}

// ToLight returns the unit direction from point toward the light and the
// distance to it. Directional lights are infinitely far away.
func (l *Light) ToLight(point core.Vec3) (core.Vec3, float64) {
	switch l.Type {
	case LightTypePoint:
		toLight := l.Position.Subtract(point)
		return toLight.Normalize(), toLight.Length()
	default:
		return l.Direction, math.Inf(1)
	}
}

// Attenuation returns the falloff divisor for the light at point, given
// constant, linear and quadratic coefficients. Only point lights attenuate.
func (l *Light) Attenuation(point core.Vec3, coeffs core.Vec3) float64 {
	if l.Type != LightTypePoint {
		return 1
	}
	r := l.Position.Subtract(point).Length()
	return coeffs.X + coeffs.Y*r + coeffs.Z*r*r
}

// Intersect returns the ray parameter where the ray crosses the quad, or
// geometry.NoHit. Non-area lights are never hit.
func (l *Light) Intersect(ray core.Ray) float64 {
	if l.Type != LightTypeQuad || l.Area == 0 {
		return geometry.NoHit
	}

	denom := ray.Direction.Dot(l.Normal)
	if math.Abs(denom) < core.Epsilon*core.Epsilon {
		return geometry.NoHit
	}

	t := l.A.Subtract(ray.Origin).Dot(l.Normal) / denom
	if t <= core.Epsilon {
		return geometry.NoHit
	}

	alpha, beta, ok := l.planeCoords(ray.At(t))
	if !ok || alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return geometry.NoHit
	}
	return t
}

// planeCoords solves point = A + alpha*AB + beta*AC for a point in the plane
func (l *Light) planeCoords(point core.Vec3) (float64, float64, bool) {
	toPoint := point.Subtract(l.A)
	uu := l.AB.Dot(l.AB)
	vv := l.AC.Dot(l.AC)
	uv := l.AB.Dot(l.AC)

	det := uu*vv - uv*uv
	if math.Abs(det) < 1e-18 {
		return 0, 0, false
	}

	tu := toPoint.Dot(l.AB)
	tv := toPoint.Dot(l.AC)
	alpha := (vv*tu - uv*tv) / det
	beta := (uu*tv - uv*tu) / det
	return alpha, beta, true
}

// SamplePoint maps a unit-square sample onto the quad surface
func (l *Light) SamplePoint(uv core.Vec2) core.Vec3 {
	return l.A.Add(l.AB.Multiply(uv.X)).Add(l.AC.Multiply(uv.Y))
}

// Sample draws n points on the quad, uniformly or stratified over a
// ⌊√n⌋×⌊√n⌋ grid. Non-area lights yield no samples.
func (l *Light) Sample(n int, stratified bool, sampler core.Sampler) []core.Vec3 {
	if l.Type != LightTypeQuad || n <= 0 {
		return nil
	}

	points := make([]core.Vec3, n)
	for i := range points {
		var uv core.Vec2
		if stratified {
			uv = core.StratifiedSample(i, n, sampler)
		} else {
			uv = sampler.Get2D()
		}
		points[i] = l.SamplePoint(uv)
	}
	return points
}
