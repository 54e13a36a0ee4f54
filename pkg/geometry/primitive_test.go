package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

func TestSphere_Intersect(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, core.Identity(), Material{})

	tests := []struct {
		name      string
		ray       core.Ray
		expectedT float64
	}{
		{
			name:      "Aimed at centre",
			ray:       core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)),
			expectedT: 4,
		},
		{
			name:      "Diagonal approach",
			ray:       core.NewRay(core.NewVec3(3, 4, 0), core.NewVec3(-3, -4, 0)),
			expectedT: 4,
		},
		{
			name:      "Origin inside",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
			expectedT: 1,
		},
		{
			name:      "Offset beyond radius",
			ray:       core.NewRay(core.NewVec3(0, 1.5, -5), core.NewVec3(0, 0, 1)),
			expectedT: NoHit,
		},
		{
			name:      "Pointing away",
			ray:       core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)),
			expectedT: NoHit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sphere.Intersect(tt.ray)
			if math.Abs(got-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, got)
			}
		})
	}
}

func TestSphere_Transformed(t *testing.T) {
	// Stretch x by 2: an ellipsoid with semi-axes (2, 1, 1)
	transform := core.Translation(core.NewVec3(0, 0, 0)).Mul(core.Scaling(core.NewVec3(2, 1, 1)))
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, transform, Material{})

	if got := sphere.Intersect(core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))); math.Abs(got-3) > 1e-9 {
		t.Errorf("Along x: expected t=3, got %f", got)
	}
	if got := sphere.Intersect(core.NewRay(core.NewVec3(0, -5, 0), core.NewVec3(0, 1, 0))); math.Abs(got-4) > 1e-9 {
		t.Errorf("Along y: expected t=4, got %f", got)
	}

	box := sphere.BoundingBox()
	if !box.Min.ApproxEqual(core.NewVec3(-2, -1, -1), 1e-9) || !box.Max.ApproxEqual(core.NewVec3(2, 1, 1), 1e-9) {
		t.Errorf("Unexpected bounding box %v", box)
	}

	// Gradient of x²/4 + y² at (√2, 1/√2) points along (1, 2)
	n := sphere.Normal(core.NewVec3(math.Sqrt2, 1/math.Sqrt2, 0))
	expected := core.NewVec3(1, 2, 0).Normalize()
	if !n.ApproxEqual(expected, 1e-9) {
		t.Errorf("Expected normal %v, got %v", expected, n)
	}
}

func TestSphere_Normal(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2, core.Identity(), Material{})
	n := sphere.Normal(core.NewVec3(1, 4, 3))
	if !n.ApproxEqual(core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected (0,1,0), got %v", n)
	}
}

func TestTriangle_Intersect(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		Material{},
	)

	tests := []struct {
		name      string
		ray       core.Ray
		expectedT float64
	}{
		{"Inside", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)), 1},
		{"From below", core.NewRay(core.NewVec3(0.25, 0.25, -2), core.NewVec3(0, 0, 1)), 2},
		{"Plane hit outside extent", core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, -1)), NoHit},
		{"Parallel to plane", core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0)), NoHit},
		{"Pointing away", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)), NoHit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tri.Intersect(tt.ray)
			if math.Abs(got-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, got)
			}
		})
	}
}

func TestTriangle_Degenerate(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 1, 1),
		core.NewVec3(2, 2, 2),
		Material{},
	)
	ray := core.NewRay(core.NewVec3(1, 1, 5), core.NewVec3(0, 0, -1))
	if got := tri.Intersect(ray); got != NoHit {
		t.Errorf("Degenerate triangle should never be hit, got t=%f", got)
	}
}

func TestTriangle_BarycentricOfHits(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	hits := 0

	for i := 0; i < 200; i++ {
		tri := NewTriangle(randomPoint(random, 2), randomPoint(random, 2), randomPoint(random, 2), Material{})
		target := randomPoint(random, 1)
		origin := randomPoint(random, 8)
		ray := core.NewRay(origin, target.Subtract(origin))

		tHit := tri.Intersect(ray)
		if tHit == NoHit {
			continue
		}
		hits++

		bary, ok := tri.Barycentric(ray.At(tHit))
		if !ok {
			t.Fatalf("Hit on degenerate triangle %v", tri.V)
		}
		sum := 0.0
		for _, b := range bary {
			if b < -1e-9 || b > 1+1e-9 {
				t.Errorf("Weight %f outside [0,1]", b)
			}
			sum += b
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Weights sum to %f", sum)
		}
	}

	if hits == 0 {
		t.Fatal("Expected some hits")
	}
}

func TestTriangleWithNormals_Normal(t *testing.T) {
	tri := NewTriangleWithNormals(
		[3]core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
		[3]core.Vec3{core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
		Material{},
	)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"Vertex 0", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)},
		{"Vertex 1", core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0)},
		{"Edge midpoint", core.NewVec3(0.5, 0.5, 0), core.NewVec3(1, 1, 0).Normalize()},
		{"Centroid", core.NewVec3(1.0/3, 1.0/3, 0), core.NewVec3(1, 1, 1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tri.Normal(tt.point); !got.ApproxEqual(tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	flat := NewTriangle(tri.V[0], tri.V[1], tri.V[2], Material{})
	if got := flat.Normal(core.NewVec3(0.2, 0.2, 0)); !got.ApproxEqual(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Flat triangle normal: expected (0,0,1), got %v", got)
	}
}

func randomPoint(random *rand.Rand, extent float64) core.Vec3 {
	return core.NewVec3(
		(random.Float64()*2-1)*extent,
		(random.Float64()*2-1)*extent,
		(random.Float64()*2-1)*extent,
	)
}
