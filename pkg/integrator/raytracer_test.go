package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

func TestRaytracer_LocalShading(t *testing.T) {
	mat := geometry.Material{
		Ambient:   core.NewVec3(0.1, 0.1, 0.1),
		Diffuse:   core.NewVec3(0.5, 0.5, 0.5),
		Specular:  core.NewVec3(0.4, 0.4, 0.4),
		Shininess: 10,
	}
	point := core.NewVec3(0, 1, 0)
	eye := core.NewVec3(0, 5, 0)

	tests := []struct {
		name     string
		light    lights.Light
		occluder bool
		expected float64
	}{
		{
			name:     "Point light overhead",
			light:    lights.NewPoint(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 1)),
			expected: 0.1 + (0.5+0.4)/2, // attenuation 1 + 0.5·2
		},
		{
			name:     "Directional light overhead",
			light:    lights.NewDirectional(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
			expected: 0.1 + 0.5 + 0.4,
		},
		{
			name:     "Light below the horizon",
			light:    lights.NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)),
			expected: 0.1,
		},
		{
			name:     "Occluded point light",
			light:    lights.NewPoint(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 1)),
			occluder: true,
			expected: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New()
			s.Attenuation = core.NewVec3(1, 0.5, 0)
			s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 0), 1, core.Identity(), mat))
			if tt.occluder {
				s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 2, 0), 0.3, core.Identity(), mat))
			}
			s.AddLight(tt.light)
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess failed: %v", err)
			}

			got := NewRaytracerIntegrator(s).Shade(point, 0, 1, eye, nil)
			if math.Abs(got.X-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %v", tt.expected, got)
			}
		})
	}
}

func TestRaytracer_QuadLightsIgnored(t *testing.T) {
	mat := geometry.Material{Ambient: core.NewVec3(0.2, 0.2, 0.2), Diffuse: core.NewVec3(1, 1, 1)}
	s := createFloorScene(t, mat, unitQuadAbove())

	got := NewRaytracerIntegrator(s).Shade(core.NewVec3(0, 0, 0), 0, 5, core.NewVec3(0, 3, 3), nil)
	if !got.ApproxEqual(mat.Ambient, 1e-12) {
		t.Errorf("Expected ambient only, got %v", got)
	}
}

// mirrorPair builds two parallel mirrors at z=0 (facing +z) and z=2
// (facing -z)
func mirrorPair(t *testing.T) *scene.Scene {
	t.Helper()
	mirror := geometry.Material{
		Ambient:  core.NewVec3(0.1, 0.1, 0.1),
		Specular: core.NewVec3(0.5, 0.5, 0.5),
	}
	s := scene.New()
	// z=0: u=(10,0,0), v=(0,10,0), normal +z
	s.AddPrimitive(geometry.NewTriangle(core.NewVec3(-5, -5, 0), core.NewVec3(5, -5, 0), core.NewVec3(5, 5, 0), mirror))
	s.AddPrimitive(geometry.NewTriangle(core.NewVec3(-5, -5, 0), core.NewVec3(5, 5, 0), core.NewVec3(-5, 5, 0), mirror))
	// z=2: u=(0,10,0), v=(10,0,0), normal -z
	s.AddPrimitive(geometry.NewTriangle(core.NewVec3(-5, -5, 2), core.NewVec3(-5, 5, 2), core.NewVec3(5, 5, 2), mirror))
	s.AddPrimitive(geometry.NewTriangle(core.NewVec3(-5, -5, 2), core.NewVec3(5, 5, 2), core.NewVec3(5, -5, 2), mirror))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s
}

func TestRaytracer_DepthBoundsRecursion(t *testing.T) {
	s := mirrorPair(t)
	rt := NewRaytracerIntegrator(s)

	point := core.NewVec3(0.2, -0.1, 0)
	eye := core.NewVec3(0.2, -0.1, 1)
	prim := s.Intersect(core.NewRay(eye, core.NewVec3(0, 0, -1))).Prim
	if prim < 0 {
		t.Fatal("Expected the eye ray to hit the lower mirror")
	}

	// shade(d) = 0.1 + 0.5·shade(d-1), shade(1) = 0.1
	expected := 0.0
	for depth := 1; depth <= 6; depth++ {
		expected = 0.1 + 0.5*expected
		got := rt.Shade(point, prim, depth, eye, nil)
		if math.Abs(got.X-expected) > 1e-9 {
			t.Errorf("Depth %d: expected %f, got %f", depth, expected, got.X)
		}
	}
}

func TestRaytracer_ReflectionMiss(t *testing.T) {
	mirror := geometry.Material{
		Ambient:  core.NewVec3(0.1, 0.1, 0.1),
		Specular: core.NewVec3(0.9, 0.9, 0.9),
	}
	s := createFloorScene(t, mirror)

	got := NewRaytracerIntegrator(s).Shade(core.NewVec3(0, 0, 0), 0, 5, core.NewVec3(1, 1, 0), nil)
	if !got.ApproxEqual(mirror.Ambient, 1e-12) {
		t.Errorf("Reflection into empty space should add nothing, got %v", got)
	}
}
