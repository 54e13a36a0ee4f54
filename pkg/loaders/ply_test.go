package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

const asciiSquarePLY = `ply
format ascii 1.0
comment unit square facing +z
element vertex 4
property float x
property float y
property float z
property float nx
property float ny
property float nz
element face 1
property list uchar int vertex_indices
end_header
0 0 0 0 0 1
1 0 0 0 0 1
1 1 0 0 0 1
0 1 0 0 0 1
4 0 1 2 3
`

// createBinaryPLY encodes a single triangle without normals plus a
// per-face property that must be skipped
func createBinaryPLY(t *testing.T, order binary.ByteOrder, format string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\nformat " + format + " 1.0\n")
	buf.WriteString("element vertex 3\nproperty double x\nproperty double y\nproperty double z\nproperty uchar red\n")
	buf.WriteString("element face 1\nproperty list uchar uint vertex_indices\nproperty ushort flags\nend_header\n")

	vertices := [][3]float64{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}}
	for _, v := range vertices {
		for _, c := range v {
			if err := binary.Write(&buf, order, c); err != nil {
				t.Fatal(err)
			}
		}
		buf.WriteByte(200)
	}
	buf.WriteByte(3)
	for _, idx := range []uint32{0, 1, 2} {
		if err := binary.Write(&buf, order, idx); err != nil {
			t.Fatal(err)
		}
	}
	if err := binary.Write(&buf, order, uint16(7)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParsePLY_ASCII(t *testing.T) {
	data, err := ParsePLY(strings.NewReader(asciiSquarePLY))
	if err != nil {
		t.Fatalf("ParsePLY failed: %v", err)
	}

	if len(data.Vertices) != 4 || len(data.Normals) != 4 {
		t.Fatalf("Expected 4 vertices with normals, got %d and %d", len(data.Vertices), len(data.Normals))
	}
	// The quad is fanned into two triangles
	expected := []int{0, 1, 2, 0, 2, 3}
	if len(data.Faces) != len(expected) {
		t.Fatalf("Expected faces %v, got %v", expected, data.Faces)
	}
	for i := range expected {
		if data.Faces[i] != expected[i] {
			t.Fatalf("Expected faces %v, got %v", expected, data.Faces)
		}
	}
	if !data.Vertices[2].ApproxEqual(core.NewVec3(1, 1, 0), 1e-12) {
		t.Errorf("Unexpected vertex %v", data.Vertices[2])
	}
}

func TestParsePLY_Binary(t *testing.T) {
	tests := []struct {
		format string
		order  binary.ByteOrder
	}{
		{"binary_little_endian", binary.LittleEndian},
		{"binary_big_endian", binary.BigEndian},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := ParsePLY(bytes.NewReader(createBinaryPLY(t, tt.order, tt.format)))
			if err != nil {
				t.Fatalf("ParsePLY failed: %v", err)
			}
			if len(data.Normals) != 0 {
				t.Errorf("Expected no normals, got %d", len(data.Normals))
			}
			if len(data.Faces) != 3 || data.Faces[1] != 1 || data.Faces[2] != 2 {
				t.Errorf("Unexpected faces %v", data.Faces)
			}
			if !data.Vertices[2].ApproxEqual(core.NewVec3(0, 3, 0), 1e-12) {
				t.Errorf("Unexpected vertex %v", data.Vertices[2])
			}
		})
	}
}

func TestParsePLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Missing magic", "format ascii 1.0\nend_header\n"},
		{"Missing format", "ply\nelement vertex 0\nend_header\n"},
		{"Unterminated header", "ply\nformat ascii 1.0\n"},
		{"Unknown format", "ply\nformat utf8 1.0\nend_header\n"},
		{"Missing z", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n"},
		{"Truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"Bad number", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 zero 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePLY(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadSceneFile_PLYDirective(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "square.ply"), []byte(asciiSquarePLY), 0o644); err != nil {
		t.Fatal(err)
	}
	source := "diffuse 0.5 0.5 0.5\ntranslate 0 0 -3\nply square.ply\n"
	path := filepath.Join(dir, "mesh.test")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSceneFile(path)
	if err != nil {
		t.Fatalf("LoadSceneFile failed: %v", err)
	}
	if s.GetPrimitiveCount() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", s.GetPrimitiveCount())
	}

	prim := s.Primitives[0]
	if prim.V[0].Z != -3 {
		t.Errorf("Expected mesh translated to z=-3, got %v", prim.V[0])
	}
	if prim.Material.Diffuse.X != 0.5 {
		t.Errorf("Expected current material, got %+v", prim.Material)
	}

	if _, err := ParseSceneFile(strings.NewReader("ply missing.ply\n")); err == nil {
		t.Error("Expected an error for a missing mesh file")
	}
}
