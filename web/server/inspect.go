package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// InspectResponse describes what the primary ray through a pixel sees
type InspectResponse struct {
	Outcome   string        `json:"outcome"` // "miss", "primitive" or "light"
	Color     [3]byte       `json:"color"`   // Normalized pixel colour
	Primitive int           `json:"primitive"`
	Kind      string        `json:"kind,omitempty"`
	Distance  float64       `json:"distance,omitempty"`
	Point     *[3]float64   `json:"point,omitempty"`
	Normal    *[3]float64   `json:"normal,omitempty"`
	Material  *MaterialInfo `json:"material,omitempty"`
}

// MaterialInfo is the JSON form of a primitive's material
type MaterialInfo struct {
	Ambient   [3]float64 `json:"ambient"`
	Diffuse   [3]float64 `json:"diffuse"`
	Specular  [3]float64 `json:"specular"`
	Emission  [3]float64 `json:"emission"`
	Shininess float64    `json:"shininess"`
}

// handleInspect reports the primitive and shading of one pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sceneObj, err := s.prepareScene(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rt, err := renderer.NewRenderer(sceneObj, NewWebLogger(nil))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	cfg := sceneObj.SamplingConfig
	x, err := parseIntParam(query, "x", -1, 0, cfg.Width-1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	y, err := parseIntParam(query, "y", -1, 0, cfg.Height-1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if x < 0 || y < 0 {
		http.Error(w, "x and y are required", http.StatusBadRequest)
		return
	}

	color, outcome := rt.TracePixel(x, y)
	resp := InspectResponse{
		Outcome:   outcomeName(outcome),
		Color:     [3]byte{renderer.NormalizeColor(color.X), renderer.NormalizeColor(color.Y), renderer.NormalizeColor(color.Z)},
		Primitive: -1,
	}

	if outcome == renderer.OutcomePrimitive {
		ray := rt.Camera().GetRay(x, y)
		hit := sceneObj.Intersect(ray)
		prim := &sceneObj.Primitives[hit.Prim]
		point := ray.At(hit.T)
		normal := prim.Normal(point)
		mat := prim.Material

		resp.Primitive = hit.Prim
		resp.Kind = prim.Kind.String()
		resp.Distance = hit.T
		resp.Point = vecArray(point)
		resp.Normal = vecArray(normal)
		resp.Material = &MaterialInfo{
			Ambient:   *vecArray(mat.Ambient),
			Diffuse:   *vecArray(mat.Diffuse),
			Specular:  *vecArray(mat.Specular),
			Emission:  *vecArray(mat.Emission),
			Shininess: mat.Shininess,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func outcomeName(outcome renderer.PixelOutcome) string {
	switch outcome {
	case renderer.OutcomePrimitive:
		return "primitive"
	case renderer.OutcomeLight:
		return "light"
	default:
		return "miss"
	}
}

func vecArray(v core.Vec3) *[3]float64 {
	return &[3]float64{v.X, v.Y, v.Z}
}
