package integrator

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// AnalyticDirectIntegrator computes direct lighting from quad lights in
// closed form, without visibility
type AnalyticDirectIntegrator struct {
	scene *scene.Scene
}

// NewAnalyticDirectIntegrator creates a new analytic direct integrator
func NewAnalyticDirectIntegrator(s *scene.Scene) *AnalyticDirectIntegrator {
	return &AnalyticDirectIntegrator{scene: s}
}

// Shade returns the emission of emissive surfaces; otherwise the sum over
// quad lights of kd ⊙ E · (Φ·n)/π
func (a *AnalyticDirectIntegrator) Shade(point core.Vec3, prim int, depth int, eye core.Vec3, sampler core.Sampler) core.Vec3 {
	p := &a.scene.Primitives[prim]
	mat := p.Material
	if mat.IsEmissive() {
		return mat.Emission
	}

	normal := p.Normal(point)
	color := core.Vec3{}
	for i := range a.scene.Lights {
		light := &a.scene.Lights[i]
		if !light.IsArea() {
			continue
		}
		phi := IrradianceVector(point, light.Polygon())
		color = color.Add(mat.Diffuse.MultiplyVec(light.Color).Multiply(phi.Dot(normal) / math.Pi))
	}
	return color
}

// IrradianceVector returns Φ = ½ Σ θ_k Γ_k for a polygon seen from r, where
// θ_k is the angle subtended by edge k and Γ_k the unit normal of the plane
// through r and that edge. Φ·n is positive when the polygon winds around n
// by the right-hand rule, i.e. for a quad light when AB×AC faces along n.
func IrradianceVector(r core.Vec3, polygon [4]core.Vec3) core.Vec3 {
	phi := core.Vec3{}
	for k := range polygon {
		vk := polygon[k].Subtract(r)
		vk1 := polygon[(k+1)%len(polygon)].Subtract(r)

		cosTheta := math.Max(-1, math.Min(1, vk.Normalize().Dot(vk1.Normalize())))
		theta := math.Acos(cosTheta)
		gamma := vk.Cross(vk1).Normalize()

		phi = phi.Add(gamma.Multiply(theta))
	}
	return phi.Multiply(0.5)
}
