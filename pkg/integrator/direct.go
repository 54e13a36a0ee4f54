package integrator

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// MonteCarloDirectIntegrator estimates direct lighting from quad lights by
// sampling points on each light
type MonteCarloDirectIntegrator struct {
	scene      *scene.Scene
	samples    int
	stratified bool
}

// NewMonteCarloDirectIntegrator creates a Monte Carlo direct integrator
// drawing samples points per light
func NewMonteCarloDirectIntegrator(s *scene.Scene, samples int, stratified bool) *MonteCarloDirectIntegrator {
	if samples < 1 {
		samples = 1
	}
	return &MonteCarloDirectIntegrator{
		scene:      s,
		samples:    samples,
		stratified: stratified,
	}
}

// Shade returns emission plus, for each quad light,
// E · A/N · Σ_visible BRDF · G
func (d *MonteCarloDirectIntegrator) Shade(point core.Vec3, prim int, depth int, eye core.Vec3, sampler core.Sampler) core.Vec3 {
	p := &d.scene.Primitives[prim]
	mat := p.Material
	normal := p.Normal(point)
	viewDir := eye.Subtract(point).Normalize()

	shade := mat.Emission
	for i := range d.scene.Lights {
		light := &d.scene.Lights[i]
		if !light.IsArea() {
			continue
		}

		sum := core.Vec3{}
		for _, sample := range light.Sample(d.samples, d.stratified, sampler) {
			if !d.scene.VisibleBetween(point, sample) {
				continue
			}

			toLight := sample.Subtract(point)
			r2 := toLight.LengthSquared()
			if r2 == 0 {
				continue
			}
			omega := toLight.Normalize()

			geometryTerm := math.Abs(normal.Dot(omega)) * math.Abs(light.Normal.Dot(omega)) / r2
			sum = sum.Add(phongBRDF(mat, normal, omega, viewDir).Multiply(geometryTerm))
		}

		scale := light.Area / float64(d.samples)
		shade = shade.Add(light.Color.MultiplyVec(sum).Multiply(scale))
	}
	return shade
}

// phongBRDF evaluates kd/π + ks·(s+2)/(2π)·(R·V)^s with R the mirror of the
// light direction about the normal
func phongBRDF(mat geometry.Material, normal, omega, viewDir core.Vec3) core.Vec3 {
	diffuse := mat.Diffuse.Multiply(1 / math.Pi)

	reflected := omega.Reflect(normal)
	lobe := math.Pow(math.Max(reflected.Dot(viewDir), 0), mat.Shininess)
	specular := mat.Specular.Multiply((mat.Shininess + 2) / (2 * math.Pi) * lobe)

	return diffuse.Add(specular)
}
