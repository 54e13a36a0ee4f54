package geometry

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// NoHit is the ray parameter returned when a primitive is missed
const NoHit = -1.0

// Kind identifies the shape stored in a Primitive
type Kind int

const (
	KindSphere Kind = iota
	KindTriangle
	KindTriangleWithNormals
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "tri"
	case KindTriangleWithNormals:
		return "trinormal"
	default:
		return "unknown"
	}
}

// Primitive is a closed variant over spheres and triangles. Only the fields
// belonging to Kind are meaningful.
type Primitive struct {
	Kind     Kind
	Material Material

	// Sphere, in object space when transformed
	Center core.Vec3
	Radius float64

	// Object-to-world transform for spheres; identity when !transformed
	transformed  bool
	inverse      core.Mat4
	normalMatrix core.Mat4

	// Triangle vertices (world space) and per-vertex normals
	V [3]core.Vec3
	N [3]core.Vec3

	faceNormal core.Vec3
	bbox       core.AABB
}

// NewSphere creates a sphere. A non-identity transform turns it into an
// ellipsoid placed in world space.
func NewSphere(center core.Vec3, radius float64, transform core.Mat4, material Material) Primitive {
	p := Primitive{
		Kind:     KindSphere,
		Material: material,
		Center:   center,
		Radius:   radius,
	}

	r := core.NewVec3(radius, radius, radius)
	objectBox := core.NewAABB(center.Subtract(r), center.Add(r))

	if inv, ok := transform.Inverse(); ok && !transform.IsIdentity(1e-12) {
		p.transformed = true
		p.inverse = inv
		p.normalMatrix = inv.Transpose()
		p.bbox = transform.TransformBox(objectBox)
	} else {
		p.bbox = objectBox
	}
	return p
}

// NewTriangle creates a flat-shaded triangle from world-space vertices
func NewTriangle(v0, v1, v2 core.Vec3, material Material) Primitive {
	p := Primitive{
		Kind:     KindTriangle,
		Material: material,
		V:        [3]core.Vec3{v0, v1, v2},
	}
	p.faceNormal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	p.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return p
}

// NewTriangleWithNormals creates a triangle whose shading normal is
// interpolated from per-vertex normals
func NewTriangleWithNormals(v [3]core.Vec3, n [3]core.Vec3, material Material) Primitive {
	p := NewTriangle(v[0], v[1], v[2], material)
	p.Kind = KindTriangleWithNormals
	for i := range n {
		p.N[i] = n[i].Normalize()
	}
	return p
}

// BoundingBox returns the world-space bounding box
func (p *Primitive) BoundingBox() core.AABB {
	return p.bbox
}

// Intersect returns the nearest ray parameter greater than core.Epsilon,
// or NoHit
func (p *Primitive) Intersect(ray core.Ray) float64 {
	switch p.Kind {
	case KindSphere:
		return p.intersectSphere(ray)
	case KindTriangle, KindTriangleWithNormals:
		return p.intersectTriangle(ray)
	default:
		return NoHit
	}
}

func (p *Primitive) intersectSphere(ray core.Ray) float64 {
	origin, direction := ray.Origin, ray.Direction
	if p.transformed {
		// The direction is left unnormalized so t stays a world-space distance
		origin = p.inverse.TransformPoint(origin)
		direction = p.inverse.TransformVector(direction)
	}

	oc := origin.Subtract(p.Center)
	a := direction.Dot(direction)
	halfB := oc.Dot(direction)
	c := oc.Dot(oc) - p.Radius*p.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return NoHit
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root <= core.Epsilon {
		root = (-halfB + sqrtD) / a
		if root <= core.Epsilon {
			return NoHit
		}
	}
	return root
}

func (p *Primitive) intersectTriangle(ray core.Ray) float64 {
	denom := ray.Direction.Dot(p.faceNormal)
	if math.Abs(denom) < core.Epsilon*core.Epsilon {
		return NoHit
	}

	t := p.V[0].Subtract(ray.Origin).Dot(p.faceNormal) / denom
	if t <= core.Epsilon {
		return NoHit
	}

	bary, ok := p.Barycentric(ray.At(t))
	if !ok || bary[0] < 0 || bary[1] < 0 || bary[2] < 0 {
		return NoHit
	}
	return t
}

// Barycentric returns the weights of V[0], V[1], V[2] for a point in the
// triangle's plane. ok is false for degenerate triangles.
func (p *Primitive) Barycentric(point core.Vec3) ([3]float64, bool) {
	e1 := p.V[1].Subtract(p.V[0])
	e2 := p.V[2].Subtract(p.V[0])
	ep := point.Subtract(p.V[0])

	d00 := e1.Dot(e1)
	d01 := e1.Dot(e2)
	d11 := e2.Dot(e2)
	d20 := ep.Dot(e1)
	d21 := ep.Dot(e2)

	det := d00*d11 - d01*d01
	if math.Abs(det) < 1e-18 {
		return [3]float64{}, false
	}

	v := (d11*d20 - d01*d21) / det
	w := (d00*d21 - d01*d20) / det
	return [3]float64{1 - v - w, v, w}, true
}

// Normal returns the unit surface normal at a point on the primitive
func (p *Primitive) Normal(point core.Vec3) core.Vec3 {
	switch p.Kind {
	case KindSphere:
		if !p.transformed {
			return point.Subtract(p.Center).Normalize()
		}
		local := p.inverse.TransformPoint(point).Subtract(p.Center)
		return p.normalMatrix.TransformVector(local).Normalize()
	case KindTriangleWithNormals:
		bary, ok := p.Barycentric(point)
		if !ok {
			return p.faceNormal
		}
		n := p.N[0].Multiply(bary[0]).
			Add(p.N[1].Multiply(bary[1])).
			Add(p.N[2].Multiply(bary[2]))
		if n.LengthSquared() == 0 {
			return p.faceNormal
		}
		return n.Normalize()
	default:
		return p.faceNormal
	}
}
