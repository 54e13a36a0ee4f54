package scene

import (
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
)

// Builtin is a scene that ships with the renderer
type Builtin struct {
	ID          string
	Description string
	New         func() *Scene
}

var builtins = []Builtin{
	{"disk", "Ambient-lit unit sphere seen head on", NewDiskScene},
	{"spheres", "Mirror spheres and an ellipsoid under point and directional lights", NewSpheresScene},
	{"cornell", "Cornell box lit analytically by a quad light", NewCornellScene},
	{"cornell-direct", "Cornell box with Monte Carlo direct lighting", NewCornellDirectScene},
	{"spheregrid", "Grid of glossy spheres on a ground plane", NewSphereGridScene},
}

// Builtins returns the built-in scenes in display order
func Builtins() []Builtin {
	out := make([]Builtin, len(builtins))
	copy(out, builtins)
	return out
}

// NewBuiltin creates the built-in scene with the given id
func NewBuiltin(id string) (*Scene, error) {
	for _, b := range builtins {
		if b.ID == id {
			return b.New(), nil
		}
	}
	return nil, fmt.Errorf("unknown built-in scene %q", id)
}

// NewDiskScene creates a unit sphere at the origin with an ambient-only
// material, so it renders as a flat disk on black
func NewDiskScene() *Scene {
	s := New()
	s.Name = "disk"
	s.Camera = CameraConfig{
		From: core.NewVec3(0, 0, 5),
		At:   core.NewVec3(0, 0, 0),
		Up:   core.NewVec3(0, 1, 0),
		VFov: 30,
	}
	s.SamplingConfig.Width = 160
	s.SamplingConfig.Height = 120

	ambient := geometry.Material{Ambient: core.NewVec3(0.2, 0.4, 0.6)}
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 0), 1, core.Identity(), ambient))
	s.AddLight(lights.NewDirectional(core.NewVec3(0, 1, 1), core.NewVec3(1, 1, 1)))
	return s
}

// NewSpheresScene creates a Whitted-style scene with reflective spheres on
// a ground plane
func NewSpheresScene() *Scene {
	s := New()
	s.Name = "spheres"
	s.Camera = CameraConfig{
		From: core.NewVec3(0, 2, 7),
		At:   core.NewVec3(0, 0.5, 0),
		Up:   core.NewVec3(0, 1, 0),
		VFov: 40,
	}
	s.SamplingConfig.Width = 400
	s.SamplingConfig.Height = 300
	s.Attenuation = core.NewVec3(1, 0, 0.02)

	ground := geometry.Material{
		Ambient:  core.NewVec3(0.05, 0.05, 0.05),
		Diffuse:  core.NewVec3(0.5, 0.5, 0.5),
		Specular: core.NewVec3(0.1, 0.1, 0.1),
	}
	addQuad(s, core.NewVec3(-6, 0, -6), core.NewVec3(0, 0, 12), core.NewVec3(12, 0, 0), ground)

	mirror := geometry.Material{
		Ambient:   core.NewVec3(0.02, 0.02, 0.02),
		Diffuse:   core.NewVec3(0.1, 0.1, 0.1),
		Specular:  core.NewVec3(0.8, 0.8, 0.8),
		Shininess: 100,
	}
	red := geometry.Material{
		Ambient:   core.NewVec3(0.1, 0.02, 0.02),
		Diffuse:   core.NewVec3(0.7, 0.1, 0.1),
		Specular:  core.NewVec3(0.3, 0.3, 0.3),
		Shininess: 30,
	}
	blue := geometry.Material{
		Ambient:   core.NewVec3(0.02, 0.02, 0.1),
		Diffuse:   core.NewVec3(0.1, 0.2, 0.7),
		Specular:  core.NewVec3(0.2, 0.2, 0.2),
		Shininess: 20,
	}

	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 1, 0), 1, core.Identity(), mirror))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(-2.2, 0.6, 0.8), 0.6, core.Identity(), red))

	// Squashed sphere: an ellipsoid resting on the ground
	ellipsoid := core.Translation(core.NewVec3(2.2, 0.4, 0.6)).
		Mul(core.Rotation(core.NewVec3(0, 1, 0), 30)).
		Mul(core.Scaling(core.NewVec3(1, 0.5, 0.6)))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 0), 0.8, ellipsoid, blue))

	s.AddLight(lights.NewPoint(core.NewVec3(3, 5, 4), core.NewVec3(0.9, 0.9, 0.8)))
	s.AddLight(lights.NewDirectional(core.NewVec3(-1, 1, 0.5), core.NewVec3(0.3, 0.3, 0.35)))
	return s
}

// NewCornellScene creates a Cornell box of triangle walls lit by a quad
// light under the ceiling
func NewCornellScene() *Scene {
	s := New()
	s.Name = "cornell"
	s.Integrator = IntegratorAnalyticDirect
	s.Camera = CameraConfig{
		From: core.NewVec3(0, 0, 3.4),
		At:   core.NewVec3(0, 0, 0),
		Up:   core.NewVec3(0, 1, 0),
		VFov: 45,
	}
	s.SamplingConfig.Width = 300
	s.SamplingConfig.Height = 300

	white := geometry.Material{Diffuse: core.NewVec3(0.73, 0.73, 0.73)}
	red := geometry.Material{Diffuse: core.NewVec3(0.65, 0.05, 0.05)}
	green := geometry.Material{Diffuse: core.NewVec3(0.12, 0.45, 0.15)}

	// Walls of the [-1,1]³ box, wound so normals face inward
	addQuad(s, core.NewVec3(-1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), white) // floor
	addQuad(s, core.NewVec3(-1, 1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), white)  // ceiling
	addQuad(s, core.NewVec3(-1, -1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), white) // back
	addQuad(s, core.NewVec3(-1, -1, -1), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 2), red)   // left
	addQuad(s, core.NewVec3(1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0), green)  // right

	s.AddPrimitive(geometry.NewSphere(core.NewVec3(-0.4, -0.65, -0.3), 0.35, core.Identity(), white))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0.45, -0.7, 0.25), 0.3, core.Identity(), white))

	// AB×AC points up, away from the box interior
	s.AddQuadLight(
		core.NewVec3(-0.25, 0.98, -0.25),
		core.NewVec3(0, 0, 0.5),
		core.NewVec3(0.5, 0, 0),
		core.NewVec3(15, 15, 15),
	)
	return s
}

// NewCornellDirectScene is the Cornell box shaded with Monte Carlo direct
// lighting and a glossy sphere
func NewCornellDirectScene() *Scene {
	s := NewCornellScene()
	s.Name = "cornell-direct"
	s.Integrator = IntegratorDirect
	s.SamplingConfig.LightSamples = 16
	s.SamplingConfig.LightStratify = true

	glossy := geometry.Material{
		Diffuse:   core.NewVec3(0.3, 0.3, 0.5),
		Specular:  core.NewVec3(0.3, 0.3, 0.3),
		Shininess: 40,
	}
	s.Primitives[len(s.Primitives)-1].Material = glossy
	return s
}

// addQuad adds the parallelogram corner + a·u + b·v as two triangles whose
// normal is u×v
func addQuad(s *Scene, corner, u, v core.Vec3, material geometry.Material) {
	far := corner.Add(u).Add(v)
	s.AddPrimitive(geometry.NewTriangle(corner, corner.Add(u), far, material))
	s.AddPrimitive(geometry.NewTriangle(corner, far, corner.Add(v), material))
}
