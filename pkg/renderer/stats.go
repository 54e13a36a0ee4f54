package renderer

import (
	"time"
)

// RenderStats contains statistics about a rendered frame
type RenderStats struct {
	TotalPixels   int           // Pixels rendered
	PrimitiveHits int           // Pixels shaded from a primitive
	LightHits     int           // Pixels showing an area light directly
	Misses        int           // Pixels that hit nothing
	Elapsed       time.Duration // Wall time for the frame
}

// PixelOutcome records what the primary ray for a pixel saw
type PixelOutcome int

const (
	OutcomeMiss PixelOutcome = iota
	OutcomePrimitive
	OutcomeLight
)

// record updates the counters with one pixel's outcome
func (s *RenderStats) record(outcome PixelOutcome) {
	s.TotalPixels++
	switch outcome {
	case OutcomePrimitive:
		s.PrimitiveHits++
	case OutcomeLight:
		s.LightHits++
	default:
		s.Misses++
	}
}

// CoverageRatio returns the fraction of pixels that saw a primitive or light
func (s RenderStats) CoverageRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.PrimitiveHits+s.LightHits) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of a raster
// in [0, 1]
func CalculateAverageLuminance(r *Raster) float64 {
	pixels := r.Width * r.Height
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for i := 0; i < len(r.Pix); i += 3 {
		total += 0.2126*float64(r.Pix[i]) + 0.7152*float64(r.Pix[i+1]) + 0.0722*float64(r.Pix[i+2])
	}
	return total / 255 / float64(pixels)
}
