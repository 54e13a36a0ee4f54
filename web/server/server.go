package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/imageio"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Server exposes rendering over HTTP
type Server struct {
	port      int
	scenesDir string
}

// maxDimension caps the canvas width and height the server will render
const maxDimension = 2000

// NewServer creates a new web server
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest holds the query parameters shared by the render endpoints
type RenderRequest struct {
	Scene      string
	Integrator string // Empty keeps the scene's own
	Width      int    // Zero keeps the scene's own
	Height     int
	Seed       int64
	NoBVH      bool
	Format     imageio.Format
}

// Stats represents render statistics
type Stats struct {
	TotalPixels   int     `json:"totalPixels"`
	PrimitiveHits int     `json:"primitiveHits"`
	LightHits     int     `json:"lightHits"`
	Misses        int     `json:"misses"`
	ElapsedMs     int64   `json:"elapsedMs"`
	Coverage      float64 `json:"coverage"`
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:   rs.TotalPixels,
		PrimitiveHits: rs.PrimitiveHits,
		LightHits:     rs.LightHits,
		Misses:        rs.Misses,
		ElapsedMs:     rs.Elapsed.Milliseconds(),
		Coverage:      rs.CoverageRatio(),
	}
}

// Handler returns the routes served by Start
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleRender renders a full frame and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	rt, err := s.createRenderer(req, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	raster, stats, err := rt.RenderFrameContext(r.Context())
	if err != nil {
		log.Printf("Render of %s cancelled: %v", req.Scene, err)
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, req.Format, raster); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode image: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(req.Format))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Coverage", strconv.FormatFloat(stats.CoverageRatio(), 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:      query.Get("scene"),
		Integrator: query.Get("integrator"),
		NoBVH:      query.Get("nobvh") == "true",
	}
	if req.Scene == "" {
		req.Scene = "cornell"
	}
	if strings.ContainsAny(req.Scene, `/\`) || strings.HasPrefix(req.Scene, ".") {
		return nil, fmt.Errorf("invalid scene name: %s", req.Scene)
	}
	if req.Integrator != "" {
		if _, err := scene.ParseIntegratorKind(req.Integrator); err != nil {
			return nil, err
		}
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, maxDimension); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(query, "seed", 42); err != nil {
		return nil, err
	}

	req.Format = imageio.FormatPNG
	if format := query.Get("format"); format != "" {
		if req.Format, err = imageio.FormatForPath("render." + format); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// createRenderer prepares the scene and builds a renderer logging to logger
func (s *Server) createRenderer(req *RenderRequest, logger core.Logger) (*renderer.Renderer, error) {
	sceneObj, err := s.prepareScene(req)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewWebLogger(nil)
	}
	return renderer.NewRenderer(sceneObj, logger)
}

// prepareScene resolves the requested scene and applies request overrides
func (s *Server) prepareScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := loaders.ResolveScene(req.Scene, s.scenesDir)
	if err != nil {
		return nil, err
	}

	if req.Integrator != "" {
		sceneObj.Integrator = scene.IntegratorKind(req.Integrator)
	}
	if req.Width > 0 {
		sceneObj.SamplingConfig.Width = req.Width
	}
	if req.Height > 0 {
		sceneObj.SamplingConfig.Height = req.Height
	}
	sceneObj.SamplingConfig.Seed = req.Seed
	if req.NoBVH {
		sceneObj.SamplingConfig.UseBVH = false
	}

	cfg := sceneObj.SamplingConfig
	if cfg.Width > maxDimension || cfg.Height > maxDimension {
		return nil, fmt.Errorf("scene size %dx%d exceeds %dx%d", cfg.Width, cfg.Height, maxDimension, maxDimension)
	}

	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func contentType(format imageio.Format) string {
	if format == imageio.FormatPNG {
		return "image/png"
	}
	return "application/octet-stream"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
