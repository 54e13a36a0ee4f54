package integrator

import (
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Shade returns the radiance leaving point on primitive prim toward eye.
	// depth is the remaining bounce budget; sampler feeds stochastic
	// integrators and is ignored by deterministic ones.
	Shade(point core.Vec3, prim int, depth int, eye core.Vec3, sampler core.Sampler) core.Vec3
}

// New creates the integrator of the given kind over a preprocessed scene
func New(kind scene.IntegratorKind, s *scene.Scene) (Integrator, error) {
	switch kind {
	case scene.IntegratorRaytracer:
		return NewRaytracerIntegrator(s), nil
	case scene.IntegratorAnalyticDirect:
		return NewAnalyticDirectIntegrator(s), nil
	case scene.IntegratorDirect:
		cfg := s.SamplingConfig
		return NewMonteCarloDirectIntegrator(s, cfg.LightSamples, cfg.LightStratify), nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", kind)
	}
}
