package scene

import (
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
)

// IntegratorKind selects the light transport algorithm for a scene
type IntegratorKind string

const (
	IntegratorRaytracer      IntegratorKind = "raytracer"
	IntegratorAnalyticDirect IntegratorKind = "analyticdirect"
	IntegratorDirect         IntegratorKind = "direct"
)

// ParseIntegratorKind validates an integrator name
func ParseIntegratorKind(name string) (IntegratorKind, error) {
	switch kind := IntegratorKind(name); kind {
	case IntegratorRaytracer, IntegratorAnalyticDirect, IntegratorDirect:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown integrator %q (want raytracer, analyticdirect or direct)", name)
	}
}

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	From core.Vec3 // Eye position
	At   core.Vec3 // Look-at point
	Up   core.Vec3 // Up hint, normalized
	VFov float64   // Vertical field of view in degrees
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width         int   // Image width
	Height        int   // Image height
	MaxDepth      int   // Maximum ray bounce depth
	LightSamples  int   // Samples per area light for Monte Carlo direct lighting
	LightStratify bool  // Jitter light samples over a grid instead of uniform random
	Seed          int64 // Seed for the render's sampler
	UseBVH        bool  // Build a BVH; otherwise scan every primitive
}

// DefaultSamplingConfig returns the configuration a scene starts with
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:        640,
		Height:       480,
		MaxDepth:     5,
		LightSamples: 1,
		Seed:         42,
		UseBVH:       true,
	}
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	OutputPath     string
	Camera         CameraConfig
	SamplingConfig SamplingConfig
	Integrator     IntegratorKind
	Attenuation    core.Vec3 // Constant, linear and quadratic point light falloff

	Primitives []geometry.Primitive // Arena; handles index into it
	Lights     []lights.Light
	BVH        *geometry.BVH // Acceleration structure, nil when disabled
}

// New returns an empty scene with default settings
func New() *Scene {
	return &Scene{
		Camera: CameraConfig{
			From: core.NewVec3(0, 0, 5),
			At:   core.NewVec3(0, 0, 0),
			Up:   core.NewVec3(0, 1, 0),
			VFov: 45,
		},
		SamplingConfig: DefaultSamplingConfig(),
		Integrator:     IntegratorRaytracer,
		Attenuation:    core.NewVec3(1, 0, 0),
		Primitives:     make([]geometry.Primitive, 0),
		Lights:         make([]lights.Light, 0),
	}
}

// Preprocess validates the scene and builds the BVH
func (s *Scene) Preprocess() error {
	cfg := s.SamplingConfig
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxDepth < 1 {
		return fmt.Errorf("maxdepth must be at least 1, got %d", cfg.MaxDepth)
	}
	if s.Integrator == IntegratorDirect && cfg.LightSamples < 1 {
		return fmt.Errorf("lightsamples must be at least 1, got %d", cfg.LightSamples)
	}
	if _, err := ParseIntegratorKind(string(s.Integrator)); err != nil {
		return err
	}
	if s.Camera.From.Subtract(s.Camera.At).LengthSquared() == 0 {
		return fmt.Errorf("camera eye and look-at point coincide")
	}

	s.BVH = nil
	if cfg.UseBVH {
		s.BVH = geometry.NewBVH(s.Primitives)
	}
	return nil
}

// Intersect returns the nearest primitive hit, using the BVH when built
func (s *Scene) Intersect(ray core.Ray) geometry.Intersection {
	if s.BVH != nil {
		return s.BVH.Intersect(ray)
	}
	return geometry.LinearIntersect(s.Primitives, ray)
}

// Visible reports whether a point or directional light reaches point
func (s *Scene) Visible(point core.Vec3, light *lights.Light) bool {
	direction, dist := light.ToLight(point)
	hit := s.Intersect(core.NewOffsetRay(point, direction))
	return !hit.Hit() || hit.T >= dist
}

// VisibleBetween reports whether nothing blocks the segment from point to
// target, such as a sample on an area light
func (s *Scene) VisibleBetween(point, target core.Vec3) bool {
	shadowRay := core.NewOffsetRay(point, target.Subtract(point))
	dist := target.Subtract(shadowRay.Origin).Length()
	hit := s.Intersect(shadowRay)
	return !hit.Hit() || hit.T >= dist-core.Epsilon
}

// AddPrimitive appends a primitive to the arena and returns its handle
func (s *Scene) AddPrimitive(p geometry.Primitive) int {
	s.Primitives = append(s.Primitives, p)
	return len(s.Primitives) - 1
}

// AddLight appends a light to the scene
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// AddQuadLight adds a parallelogram area light to the scene
func (s *Scene) AddQuadLight(a, ab, ac, color core.Vec3) {
	s.AddLight(lights.NewQuad(a, ab, ac, color))
}

// GetPrimitiveCount returns the total number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// AreaLightCount returns how many lights have a surface
func (s *Scene) AreaLightCount() int {
	count := 0
	for i := range s.Lights {
		if s.Lights[i].IsArea() {
			count++
		}
	}
	return count
}
