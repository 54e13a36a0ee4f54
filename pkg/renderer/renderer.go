package renderer

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/integrator"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Renderer turns a scene into a raster one pixel at a time
type Renderer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	sampler    *core.RandomSampler // Reseeded per pixel
	logger     core.Logger
}

// NewRenderer preprocesses the scene and creates its integrator. A nil
// logger logs to stdout.
func NewRenderer(s *scene.Scene, logger core.Logger) (*Renderer, error) {
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	integratorInst, err := integrator.New(s.Integrator, s)
	if err != nil {
		return nil, err
	}

	return NewRendererWithIntegrator(s, integratorInst, logger), nil
}

// NewRendererWithIntegrator creates a renderer around an existing integrator.
// The scene must already be preprocessed.
func NewRendererWithIntegrator(s *scene.Scene, integratorInst integrator.Integrator, logger core.Logger) *Renderer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	cfg := s.SamplingConfig
	return &Renderer{
		scene:      s,
		camera:     NewCamera(s.Camera, cfg.Width, cfg.Height),
		integrator: integratorInst,
		sampler:    core.NewSeededSampler(cfg.Seed),
		logger:     logger,
	}
}

// Camera returns the renderer's camera
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// RenderFrame renders the whole canvas
func (r *Renderer) RenderFrame() (*Raster, RenderStats) {
	raster, stats, _ := r.RenderFrameContext(context.Background())
	return raster, stats
}

// RenderFrameContext renders the whole canvas, checking for cancellation
// between rows. A cancelled render returns the rows finished so far.
func (r *Renderer) RenderFrameContext(ctx context.Context) (*Raster, RenderStats, error) {
	cfg := r.scene.SamplingConfig
	raster := NewRaster(cfg.Width, cfg.Height)

	r.logger.Printf("Rendering %dx%d with %s integrator (%d primitives, %d lights, %d area)...\n",
		cfg.Width, cfg.Height, r.scene.Integrator, r.scene.GetPrimitiveCount(), len(r.scene.Lights), r.scene.AreaLightCount())

	start := time.Now()
	stats, err := r.RenderBounds(ctx, image.Rect(0, 0, cfg.Width, cfg.Height), raster)
	stats.Elapsed = time.Since(start)
	if err != nil {
		r.logger.Printf("Rendering cancelled after %d pixels\n", stats.TotalPixels)
		return raster, stats, err
	}

	r.logger.Printf("Frame completed in %v (%d primitive hits, %d light hits, %d misses)\n",
		stats.Elapsed, stats.PrimitiveHits, stats.LightHits, stats.Misses)
	return raster, stats, nil
}

// RenderBounds renders the pixels inside bounds into raster, rows then
// columns
func (r *Renderer) RenderBounds(ctx context.Context, bounds image.Rectangle, raster *Raster) (RenderStats, error) {
	var stats RenderStats
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, outcome := r.TracePixel(x, y)
			raster.Set(x, y, color)
			stats.record(outcome)
		}
	}
	return stats, nil
}

// TracePixel returns the linear colour of pixel (x, y). An area light in
// front of the nearest primitive is shown at its emitted colour. The sampler
// is seeded from the frame seed and the pixel position, so a pixel's colour
// does not depend on which pixels were traced before it.
func (r *Renderer) TracePixel(x, y int) (core.Vec3, PixelOutcome) {
	ray := r.camera.GetRay(x, y)
	hit := r.scene.Intersect(ray)

	if light, lt := r.nearestAreaLight(ray); light >= 0 && (!hit.Hit() || hit.T > lt) {
		return r.scene.Lights[light].Color, OutcomeLight
	}
	if !hit.Hit() {
		return core.Vec3{}, OutcomeMiss
	}

	cfg := r.scene.SamplingConfig
	r.sampler.Reseed(core.PixelSeed(cfg.Seed, y*cfg.Width+x))

	point := ray.At(hit.T)
	color := r.integrator.Shade(point, hit.Prim, cfg.MaxDepth, r.camera.Origin(), r.sampler)
	return color, OutcomePrimitive
}

// nearestAreaLight returns the index and distance of the closest area light
// the ray crosses, or -1
func (r *Renderer) nearestAreaLight(ray core.Ray) (int, float64) {
	nearest, nearestT := -1, math.Inf(1)
	for i := range r.scene.Lights {
		light := &r.scene.Lights[i]
		if !light.IsArea() {
			continue
		}
		if t := light.Intersect(ray); t != geometry.NoHit && t > 0 && t < nearestT {
			nearest, nearestT = i, t
		}
	}
	return nearest, nearestT
}
