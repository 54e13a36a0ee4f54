// Package imageio writes and reads rendered rasters as PNG or as a raw RGB
// stream compressed with zstd or snappy.
package imageio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// Format identifies an on-disk raster encoding
type Format int

const (
	FormatPNG       Format = iota // Standard PNG
	FormatRawZstd                 // Raw RGB raster, zstd stream (.rgb.zst)
	FormatRawSnappy               // Raw RGB raster, snappy framed stream (.rgb.sz)
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatRawZstd:
		return "rgb.zst"
	case FormatRawSnappy:
		return "rgb.sz"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// rawMagic starts every raw raster stream, followed by little-endian
// uint32 width and height and then the pixel bytes
const rawMagic = "RGB8"

// maxRawPixels bounds the size a raw header may claim (8192x8192)
const maxRawPixels = 1 << 26

// ErrUnsupportedFormat is returned for paths with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatForPath picks the encoding from a file name's extension
func FormatForPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".rgb.zst"):
		return FormatRawZstd, nil
	case strings.HasSuffix(lower, ".rgb.sz"):
		return FormatRawSnappy, nil
	case strings.HasSuffix(lower, ".png"):
		return FormatPNG, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Save writes the raster to path in the format its extension selects
func Save(path string, r *renderer.Raster) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := Encode(file, format, r); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Load reads a raster written by Save
func Load(path string) (*renderer.Raster, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	r, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r, nil
}

// Encode writes the raster to w
func Encode(w io.Writer, format Format, r *renderer.Raster) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, r.ToImage())
	case FormatRawZstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if err := writeRaw(encoder, r); err != nil {
			encoder.Close()
			return err
		}
		return encoder.Close()
	case FormatRawSnappy:
		stream := snappy.NewBufferedWriter(w)
		if err := writeRaw(stream, r); err != nil {
			stream.Close()
			return err
		}
		return stream.Close()
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// Decode reads a raster from rd
func Decode(rd io.Reader, format Format) (*renderer.Raster, error) {
	switch format {
	case FormatPNG:
		img, err := png.Decode(rd)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return renderer.RasterFromImage(img), nil
	case FormatRawZstd:
		decoder, err := zstd.NewReader(rd)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return readRaw(decoder)
	case FormatRawSnappy:
		return readRaw(snappy.NewReader(rd))
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

func writeRaw(w io.Writer, r *renderer.Raster) error {
	header := make([]byte, 12)
	copy(header, rawMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(r.Width))
	binary.LittleEndian.PutUint32(header[8:12], uint32(r.Height))

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(r.Pix)
	return err
}

func readRaw(rd io.Reader) (*renderer.Raster, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(rd, header); err != nil {
		return nil, fmt.Errorf("failed to read raster header: %w", err)
	}
	if string(header[:4]) != rawMagic {
		return nil, fmt.Errorf("bad raster magic %q", header[:4])
	}

	width := int(binary.LittleEndian.Uint32(header[4:8]))
	height := int(binary.LittleEndian.Uint32(header[8:12]))
	if width > maxRawPixels || height > maxRawPixels || width*height > maxRawPixels {
		return nil, fmt.Errorf("raster %dx%d too large", width, height)
	}

	// Grow with the data actually read so a short stream fails before a
	// header-sized allocation
	size := int64(width) * int64(height) * 3
	pix, err := io.ReadAll(io.LimitReader(rd, size))
	if err != nil {
		return nil, fmt.Errorf("failed to read %dx%d raster: %w", width, height, err)
	}
	if int64(len(pix)) != size {
		return nil, fmt.Errorf("failed to read %dx%d raster: %w", width, height, io.ErrUnexpectedEOF)
	}
	return &renderer.Raster{Width: width, Height: height, Pix: pix}, nil
}
