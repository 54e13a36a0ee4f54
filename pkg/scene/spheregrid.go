package scene

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
)

// oklchToRGB converts OKLCH (lightness 0-1, chroma, hue in degrees) to
// clamped linear RGB
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, cubed
	lc := cube(l + 0.3963377774*a + 0.2158037573*b)
	mc := cube(l - 0.1055613458*a - 0.0638541728*b)
	sc := cube(l - 0.0894841775*a - 1.2914855480*b)

	r := +4.0767416621*lc - 3.3077115913*mc + 0.2309699292*sc
	g := -1.2684380046*lc + 2.6097574011*mc - 0.3413193965*sc
	blue := -0.0041960863*lc - 0.7034186147*mc + 1.7076147010*sc

	return core.NewVec3(clamp01(r), clamp01(g), clamp01(blue))
}

func cube(x float64) float64 { return x * x * x }

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }

// SphereGridSize is the number of spheres along each side of the grid
const SphereGridSize = 20

// NewSphereGridScene creates a grid of glossy spheres on a ground plane,
// enough primitives for the BVH to matter
func NewSphereGridScene() *Scene {
	s := New()
	s.Name = "spheregrid"
	s.Camera = CameraConfig{
		From: core.NewVec3(4.5, 6, 18),
		At:   core.NewVec3(4.5, 0.8, 4.5),
		Up:   core.NewVec3(0, 1, 0),
		VFov: 40,
	}
	s.SamplingConfig.Width = 480
	s.SamplingConfig.Height = 270
	s.SamplingConfig.MaxDepth = 4
	s.Attenuation = core.NewVec3(1, 0, 0.002)

	s.AddLight(lights.NewPoint(core.NewVec3(20, 25, 20), core.NewVec3(1.2, 1.15, 1.0)))
	s.AddLight(lights.NewDirectional(core.NewVec3(-0.3, 1, 0.5), core.NewVec3(0.25, 0.25, 0.3)))

	ground := geometry.Material{
		Ambient: core.NewVec3(0.05, 0.05, 0.05),
		Diffuse: core.NewVec3(0.5, 0.5, 0.5),
	}
	addQuad(s, core.NewVec3(-20, 0, -20), core.NewVec3(0, 0, 50), core.NewVec3(50, 0, 0), ground)

	// Fit the grid into roughly 9x9 units around the look-at point
	targetArea := 9.0
	spacing := targetArea / float64(SphereGridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	for i := 0; i < SphereGridSize; i++ {
		for j := 0; j < SphereGridSize; j++ {
			x := float64(i)*spacing - targetArea/2 + 4.5
			z := float64(j)*spacing - targetArea/2 + 4.5

			// Hue varies along x, chroma along z
			hue := float64(i) / float64(SphereGridSize-1) * 360
			chroma := 0.05 + float64(j)/float64(SphereGridSize-1)*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			mat := geometry.Material{
				Ambient:   color.Multiply(0.1),
				Diffuse:   color.Multiply(0.7),
				Specular:  core.NewVec3(0.3, 0.3, 0.3),
				Shininess: 20 + 40*float64((i+j)%3),
			}
			s.AddPrimitive(geometry.NewSphere(core.NewVec3(x, radius, z), radius, core.Identity(), mat))
		}
	}

	return s
}
