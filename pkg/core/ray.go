package core

// Ray represents a ray with an origin and a unit direction.
// InvDirection caches 1/Direction per axis for slab tests; a zero
// component yields an infinite reciprocal.
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	InvDirection Vec3
}

// NewRay creates a new ray, normalizing the direction
func NewRay(origin, direction Vec3) Ray {
	d := direction.Normalize()
	return Ray{
		Origin:       origin,
		Direction:    d,
		InvDirection: Vec3{X: 1.0 / d.X, Y: 1.0 / d.Y, Z: 1.0 / d.Z},
	}
}

// NewOffsetRay creates a ray whose origin is nudged by Epsilon along the
// direction, for shadow and reflection rays leaving a surface
func NewOffsetRay(point, direction Vec3) Ray {
	d := direction.Normalize()
	return NewRay(point.Add(d.Multiply(Epsilon)), d)
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
