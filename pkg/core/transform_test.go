package core

import (
	"math"
	"testing"
)

func TestMat4_Rotation(t *testing.T) {
	tests := []struct {
		name     string
		axis     Vec3
		degrees  float64
		vector   Vec3
		expected Vec3
	}{
		{"No rotation", NewVec3(0, 0, 1), 0, NewVec3(1, 0, 0), NewVec3(1, 0, 0)},
		{"90 around Z", NewVec3(0, 0, 1), 90, NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"90 around Y", NewVec3(0, 1, 0), 90, NewVec3(1, 0, 0), NewVec3(0, 0, -1)},
		{"90 around X", NewVec3(1, 0, 0), 90, NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"180 around Y", NewVec3(0, 1, 0), 180, NewVec3(1, 0, 0), NewVec3(-1, 0, 0)},
		{"Unnormalized axis", NewVec3(0, 0, 5), 90, NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Rotation(tt.axis, tt.degrees).TransformVector(tt.vector)
			if !result.ApproxEqual(tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestMat4_MulOrder(t *testing.T) {
	// Right-multiplied stack: translate then scale means scale applies first
	m := Translation(NewVec3(1, 0, 0)).Mul(Scaling(NewVec3(2, 2, 2)))
	got := m.TransformPoint(NewVec3(1, 1, 1))
	if !got.ApproxEqual(NewVec3(3, 2, 2), 1e-12) {
		t.Errorf("Expected (3,2,2), got %v", got)
	}

	// Vectors ignore translation
	if v := m.TransformVector(NewVec3(1, 0, 0)); !v.ApproxEqual(NewVec3(2, 0, 0), 1e-12) {
		t.Errorf("Expected (2,0,0), got %v", v)
	}
}

func TestMat4_Inverse(t *testing.T) {
	m := Translation(NewVec3(1, -2, 3)).
		Mul(Rotation(NewVec3(1, 1, 0), 37)).
		Mul(Scaling(NewVec3(2, 0.5, 3)))

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Expected invertible matrix")
	}
	if !m.Mul(inv).IsIdentity(1e-9) {
		t.Errorf("m * m⁻¹ should be identity, got %v", m.Mul(inv))
	}

	p := NewVec3(0.3, -4, 2)
	if back := inv.TransformPoint(m.TransformPoint(p)); !back.ApproxEqual(p, 1e-9) {
		t.Errorf("Round trip: expected %v, got %v", p, back)
	}

	if _, ok := Scaling(NewVec3(1, 0, 1)).Inverse(); ok {
		t.Error("Singular scale should not be invertible")
	}
}

func TestMat4_TransformNormal(t *testing.T) {
	// Squashing y keeps normals perpendicular to the transformed surface
	m := Scaling(NewVec3(1, 0.5, 1))
	tangent := NewVec3(1, 1, 0)
	normal := NewVec3(1, -1, 0).Normalize()

	tn := m.TransformVector(tangent)
	nn := m.TransformNormal(normal)

	if math.Abs(tn.Dot(nn)) > 1e-12 {
		t.Errorf("Transformed normal %v not perpendicular to tangent %v", nn, tn)
	}
	if math.Abs(nn.Length()-1) > 1e-12 {
		t.Errorf("Expected unit normal, got length %f", nn.Length())
	}
}

func TestMat4_TransformBox(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	m := Translation(NewVec3(5, 0, 0)).Mul(Rotation(NewVec3(0, 0, 1), 45))
	got := m.TransformBox(box)

	r := math.Sqrt2
	expected := NewAABB(NewVec3(5-r, -r, -1), NewVec3(5+r, r, 1))
	if !got.Min.ApproxEqual(expected.Min, 1e-9) || !got.Max.ApproxEqual(expected.Max, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
