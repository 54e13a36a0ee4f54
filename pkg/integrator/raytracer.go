package integrator

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// RaytracerIntegrator implements Whitted-style recursive ray tracing with
// Blinn-Phong local shading and perfect mirror bounces
type RaytracerIntegrator struct {
	scene *scene.Scene
}

// NewRaytracerIntegrator creates a new Whitted integrator
func NewRaytracerIntegrator(s *scene.Scene) *RaytracerIntegrator {
	return &RaytracerIntegrator{scene: s}
}

// Shade computes ambient + emission + visible point/directional lights, then
// adds a mirror bounce while depth > 1 and the surface is specular
func (rt *RaytracerIntegrator) Shade(point core.Vec3, prim int, depth int, eye core.Vec3, sampler core.Sampler) core.Vec3 {
	p := &rt.scene.Primitives[prim]
	mat := p.Material
	normal := p.Normal(point)
	viewDir := eye.Subtract(point).Normalize()

	shade := mat.Ambient.Add(mat.Emission)

	for i := range rt.scene.Lights {
		light := &rt.scene.Lights[i]
		if light.IsArea() || !rt.scene.Visible(point, light) {
			continue
		}

		local := blinnPhong(light, mat, point, normal, viewDir)
		shade = shade.Add(local.Multiply(1.0 / light.Attenuation(point, rt.scene.Attenuation)))
	}

	if depth > 1 && mat.IsSpecular() {
		reflection := core.NewOffsetRay(point, viewDir.Reflect(normal))
		hit := rt.scene.Intersect(reflection)
		if hit.Hit() {
			bounced := rt.Shade(reflection.At(hit.T), hit.Prim, depth-1, point, sampler)
			shade = shade.Add(mat.Specular.MultiplyVec(bounced))
		}
	}

	return shade
}

// blinnPhong returns the unattenuated diffuse + specular contribution of one
// light
func blinnPhong(light *lights.Light, mat geometry.Material, point, normal, viewDir core.Vec3) core.Vec3 {
	toLight, _ := light.ToLight(point)

	diffuse := light.Color.MultiplyVec(mat.Diffuse).Multiply(math.Max(normal.Dot(toLight), 0))

	half := toLight.Add(viewDir).Normalize()
	intensity := math.Pow(math.Max(normal.Dot(half), 0), mat.Shininess)
	specular := light.Color.MultiplyVec(mat.Specular).Multiply(intensity)

	return diffuse.Add(specular)
}
