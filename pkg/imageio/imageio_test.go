package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// createTestRaster fills a small raster with deterministic noise
func createTestRaster(width, height int) *renderer.Raster {
	r := renderer.NewRaster(width, height)
	random := rand.New(rand.NewSource(42))
	random.Read(r.Pix)
	return r
}

func TestSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	raster := createTestRaster(7, 5)

	for _, name := range []string{"out.png", "out.rgb.zst", "out.rgb.sz", "OUT.PNG"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			if err := Save(path, raster); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded.Width != raster.Width || loaded.Height != raster.Height {
				t.Fatalf("Expected %dx%d, got %dx%d", raster.Width, raster.Height, loaded.Width, loaded.Height)
			}
			if !bytes.Equal(loaded.Pix, raster.Pix) {
				t.Error("Pixel data changed on round trip")
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"image.png", FormatPNG, false},
		{"dir/image.rgb.zst", FormatRawZstd, false},
		{"image.rgb.sz", FormatRawSnappy, false},
		{"image.zst", 0, true},
		{"image.ppm", 0, true},
		{"image", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := FormatForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil || format != tt.expected {
				t.Errorf("Expected %v, got %v (err %v)", tt.expected, format, err)
			}
		})
	}
}

func TestSave_UnsupportedDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := Save(path, createTestRaster(2, 2)); err == nil {
		t.Fatal("Expected an error for .bmp")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file to be created, stat returned %v", err)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	raster := createTestRaster(4, 4)

	var buf bytes.Buffer
	if err := Encode(&buf, FormatRawSnappy, raster); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()/2]
	if _, err := Decode(bytes.NewReader(truncated), FormatRawSnappy); err == nil {
		t.Error("Expected an error for a truncated stream")
	}

	var plain bytes.Buffer
	if err := writeRaw(&plain, raster); err != nil {
		t.Fatalf("writeRaw failed: %v", err)
	}
	data := plain.Bytes()
	copy(data, "NOPE")
	if _, err := readRaw(bytes.NewReader(data)); err == nil {
		t.Error("Expected an error for bad magic")
	}
}

// rawHeader builds a raw stream header claiming width x height
func rawHeader(width, height uint32) []byte {
	header := make([]byte, 12)
	copy(header, rawMagic)
	binary.LittleEndian.PutUint32(header[4:8], width)
	binary.LittleEndian.PutUint32(header[8:12], height)
	return header
}

func TestReadRaw_HeaderBounds(t *testing.T) {
	tests := []struct {
		name   string
		width  uint32
		height uint32
	}{
		{"Width beyond cap", 1 << 27, 1},
		{"Area beyond cap", 1 << 14, 1 << 14},
		{"Both huge", 1 << 31, 1 << 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readRaw(bytes.NewReader(rawHeader(tt.width, tt.height))); err == nil {
				t.Error("Expected an error for an oversized header")
			}
		})
	}
}

func TestReadRaw_ShortStreamAllocatesLittle(t *testing.T) {
	// Header claims 8000x8000 (192 MB) but only a few pixels follow
	data := append(rawHeader(8000, 8000), make([]byte, 30)...)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := readRaw(bytes.NewReader(data))
	runtime.ReadMemStats(&after)

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Expected unexpected EOF, got %v", err)
	}
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 16<<20 {
		t.Errorf("Short stream allocated %d bytes", allocated)
	}
}

func TestEncode_Compresses(t *testing.T) {
	// A flat raster should shrink well below its raw size
	flat := renderer.NewRaster(64, 64)
	for i := range flat.Pix {
		flat.Pix[i] = 200
	}

	for _, format := range []Format{FormatRawZstd, FormatRawSnappy} {
		var buf bytes.Buffer
		if err := Encode(&buf, format, flat); err != nil {
			t.Fatalf("%v: Encode failed: %v", format, err)
		}
		if buf.Len() >= len(flat.Pix)/4 {
			t.Errorf("%v: expected compression, got %d bytes for %d", format, buf.Len(), len(flat.Pix))
		}
	}
}
