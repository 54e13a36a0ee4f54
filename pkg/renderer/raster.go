package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Raster is an 8-bit RGB image stored row-major with row 0 at the top
type Raster struct {
	Width  int
	Height int
	Pix    []byte // 3 bytes per pixel
}

// NewRaster allocates a black raster
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * 3
}

// Set stores a linear colour at (x, y) after normalization
func (r *Raster) Set(x, y int, c core.Vec3) {
	i := r.offset(x, y)
	r.Pix[i] = NormalizeColor(c.X)
	r.Pix[i+1] = NormalizeColor(c.Y)
	r.Pix[i+2] = NormalizeColor(c.Z)
}

// At returns the bytes stored at (x, y)
func (r *Raster) At(x, y int) (byte, byte, byte) {
	i := r.offset(x, y)
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// ToImage converts the raster to an opaque RGBA image
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			red, green, blue := r.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: red, G: green, B: blue, A: 255})
		}
	}
	return img
}

// RasterFromImage copies any image into a raster, dropping alpha
func RasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	r := NewRaster(bounds.Dx(), bounds.Dy())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			i := r.offset(x, y)
			r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c.R, c.G, c.B
		}
	}
	return r
}

// NormalizeColor maps a linear channel to a byte: values below 1 scale by
// 255, anything brighter saturates, negatives and NaN clamp to black
func NormalizeColor(c float64) byte {
	switch {
	case c <= 0 || math.IsNaN(c):
		return 0
	case c < 1:
		return byte(c * 255)
	default:
		return 255
	}
}
