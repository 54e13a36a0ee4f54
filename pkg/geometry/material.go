package geometry

import "github.com/df07/go-scene-raytracer/pkg/core"

// Material holds the Phong parameters attached to a primitive
type Material struct {
	Ambient   core.Vec3
	Diffuse   core.Vec3
	Specular  core.Vec3
	Emission  core.Vec3
	Shininess float64
}

// IsEmissive reports whether the surface emits light of its own
func (m Material) IsEmissive() bool {
	return m.Emission.X > 0 || m.Emission.Y > 0 || m.Emission.Z > 0
}

// IsSpecular reports whether the surface reflects enough to spawn mirror rays
func (m Material) IsSpecular() bool {
	return m.Specular.Sum() > core.Epsilon
}
