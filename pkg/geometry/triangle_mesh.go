package geometry

import (
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// NewTriangleMesh expands an indexed mesh into triangle primitives.
// faces holds three vertex indices per triangle. When normals has one entry
// per vertex the triangles interpolate them; otherwise they are flat.
// Vertices are mapped through transform and normals through its
// inverse transpose.
func NewTriangleMesh(vertices []core.Vec3, faces []int, normals []core.Vec3, mat Material, transform core.Mat4) ([]Primitive, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}
	smooth := len(normals) > 0
	if smooth && len(normals) != len(vertices) {
		return nil, fmt.Errorf("got %d normals for %d vertices", len(normals), len(vertices))
	}

	inverse, ok := transform.Inverse()
	if !ok {
		return nil, fmt.Errorf("mesh transform is not invertible")
	}
	normalMatrix := inverse.Transpose()

	world := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		world[i] = transform.TransformPoint(v)
	}

	prims := make([]Primitive, 0, len(faces)/3)
	for f := 0; f < len(faces); f += 3 {
		var idx [3]int
		for k := 0; k < 3; k++ {
			idx[k] = faces[f+k]
			if idx[k] < 0 || idx[k] >= len(world) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range", f/3, idx[k])
			}
		}

		v := [3]core.Vec3{world[idx[0]], world[idx[1]], world[idx[2]]}
		if !smooth {
			prims = append(prims, NewTriangle(v[0], v[1], v[2], mat))
			continue
		}

		var n [3]core.Vec3
		for k := 0; k < 3; k++ {
			n[k] = normalMatrix.TransformVector(normals[idx[k]]).Normalize()
		}
		prims = append(prims, NewTriangleWithNormals(v, n, mat))
	}
	return prims, nil
}
