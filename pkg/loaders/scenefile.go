package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// SceneFileParser encapsulates the state and logic for parsing line-oriented
// scene description files. Material and transform commands set state that
// applies to every primitive declared after them.
type SceneFileParser struct {
	scene          *scene.Scene
	vertices       []core.Vec3
	normalVertices []core.Vec3
	vertexNormals  []core.Vec3
	material       geometry.Material
	transform      core.Mat4
	transformStack []core.Mat4
	lineNumber     int
	baseDir        string // Directory that relative mesh paths resolve against
}

// ParseSceneFile parses scene description content from an io.Reader
func ParseSceneFile(reader io.Reader) (*scene.Scene, error) {
	return NewSceneFileParser().Parse(reader)
}

// Parse reads every line from reader into the parser's scene
func (p *SceneFileParser) Parse(reader io.Reader) (*scene.Scene, error) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		p.lineNumber++
		if err := p.processLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return p.scene, nil
}

// LoadSceneFile loads and parses a scene description file
func LoadSceneFile(filename string) (*scene.Scene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	parser := NewSceneFileParser()
	parser.baseDir = filepath.Dir(filename)
	s, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// NewSceneFileParser creates a new parser instance
func NewSceneFileParser() *SceneFileParser {
	return &SceneFileParser{
		scene:          scene.New(),
		vertices:       make([]core.Vec3, 0),
		normalVertices: make([]core.Vec3, 0),
		vertexNormals:  make([]core.Vec3, 0),
		transform:      core.Identity(),
		transformStack: make([]core.Mat4, 0),
	}
}

// processLine handles a single line of the scene file
func (p *SceneFileParser) processLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	cfg := &p.scene.SamplingConfig

	switch cmd {
	case "maxverts", "maxvertnorms":
		// Sizing hints; slices grow on demand
		return nil

	case "size":
		vals, err := parseInts(cmd, args, 2)
		if err != nil {
			return err
		}
		if vals[0] <= 0 || vals[1] <= 0 {
			return fmt.Errorf("size: dimensions must be positive, got %dx%d", vals[0], vals[1])
		}
		cfg.Width, cfg.Height = vals[0], vals[1]

	case "output":
		if len(args) != 1 {
			return fmt.Errorf("output: expected 1 value, got %d", len(args))
		}
		p.scene.OutputPath = args[0]

	case "maxdepth":
		vals, err := parseInts(cmd, args, 1)
		if err != nil {
			return err
		}
		cfg.MaxDepth = vals[0]

	case "integrator":
		if len(args) != 1 {
			return fmt.Errorf("integrator: expected 1 value, got %d", len(args))
		}
		kind, err := scene.ParseIntegratorKind(args[0])
		if err != nil {
			return err
		}
		p.scene.Integrator = kind

	case "lightsamples":
		vals, err := parseInts(cmd, args, 1)
		if err != nil {
			return err
		}
		cfg.LightSamples = vals[0]

	case "lightstratify":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return fmt.Errorf("lightstratify: expected on or off")
		}
		cfg.LightStratify = args[0] == "on"

	case "camera":
		vals, err := parseFloats(cmd, args, 10)
		if err != nil {
			return err
		}
		p.scene.Camera = scene.CameraConfig{
			From: core.NewVec3(vals[0], vals[1], vals[2]),
			At:   core.NewVec3(vals[3], vals[4], vals[5]),
			Up:   core.NewVec3(vals[6], vals[7], vals[8]).Normalize(),
			VFov: vals[9],
		}

	case "vertex":
		v, err := parseVec3(cmd, args)
		if err != nil {
			return err
		}
		p.vertices = append(p.vertices, v)

	case "vertexnormal":
		vals, err := parseFloats(cmd, args, 6)
		if err != nil {
			return err
		}
		p.normalVertices = append(p.normalVertices, core.NewVec3(vals[0], vals[1], vals[2]))
		p.vertexNormals = append(p.vertexNormals, core.NewVec3(vals[3], vals[4], vals[5]))

	case "sphere":
		vals, err := parseFloats(cmd, args, 4)
		if err != nil {
			return err
		}
		center := core.NewVec3(vals[0], vals[1], vals[2])
		p.scene.AddPrimitive(geometry.NewSphere(center, vals[3], p.transform, p.material))

	case "tri":
		idx, err := parseIndices(cmd, args, len(p.vertices))
		if err != nil {
			return err
		}
		p.scene.AddPrimitive(geometry.NewTriangle(
			p.transform.TransformPoint(p.vertices[idx[0]]),
			p.transform.TransformPoint(p.vertices[idx[1]]),
			p.transform.TransformPoint(p.vertices[idx[2]]),
			p.material,
		))

	case "trinormal":
		idx, err := parseIndices(cmd, args, len(p.normalVertices))
		if err != nil {
			return err
		}
		var v, n [3]core.Vec3
		for i, k := range idx {
			v[i] = p.transform.TransformPoint(p.normalVertices[k])
			n[i] = p.transform.TransformNormal(p.vertexNormals[k])
		}
		p.scene.AddPrimitive(geometry.NewTriangleWithNormals(v, n, p.material))

	case "directional", "point":
		vals, err := parseFloats(cmd, args, 6)
		if err != nil {
			return err
		}
		v := core.NewVec3(vals[0], vals[1], vals[2])
		color := core.NewVec3(vals[3], vals[4], vals[5])
		if cmd == "directional" {
			p.scene.AddLight(lights.NewDirectional(v, color))
		} else {
			p.scene.AddLight(lights.NewPoint(v, color))
		}

	case "quadLight":
		vals, err := parseFloats(cmd, args, 12)
		if err != nil {
			return err
		}
		p.scene.AddQuadLight(
			core.NewVec3(vals[0], vals[1], vals[2]),
			core.NewVec3(vals[3], vals[4], vals[5]),
			core.NewVec3(vals[6], vals[7], vals[8]),
			core.NewVec3(vals[9], vals[10], vals[11]),
		)

	case "attenuation":
		v, err := parseVec3(cmd, args)
		if err != nil {
			return err
		}
		p.scene.Attenuation = v

	case "ambient", "diffuse", "specular", "emission":
		v, err := parseVec3(cmd, args)
		if err != nil {
			return err
		}
		switch cmd {
		case "ambient":
			p.material.Ambient = v
		case "diffuse":
			p.material.Diffuse = v
		case "specular":
			p.material.Specular = v
		default:
			p.material.Emission = v
		}

	case "shininess":
		vals, err := parseFloats(cmd, args, 1)
		if err != nil {
			return err
		}
		p.material.Shininess = vals[0]

	case "ply":
		if len(args) != 1 {
			return fmt.Errorf("ply: expected 1 value, got %d", len(args))
		}
		return p.loadMesh(args[0])

	case "pushTransform":
		p.transformStack = append(p.transformStack, p.transform)

	case "popTransform":
		if len(p.transformStack) == 0 {
			return fmt.Errorf("popTransform: transform stack is empty")
		}
		p.transform = p.transformStack[len(p.transformStack)-1]
		p.transformStack = p.transformStack[:len(p.transformStack)-1]

	case "translate":
		v, err := parseVec3(cmd, args)
		if err != nil {
			return err
		}
		p.transform = p.transform.Mul(core.Translation(v))

	case "scale":
		v, err := parseVec3(cmd, args)
		if err != nil {
			return err
		}
		p.transform = p.transform.Mul(core.Scaling(v))

	case "rotate":
		vals, err := parseFloats(cmd, args, 4)
		if err != nil {
			return err
		}
		axis := core.NewVec3(vals[0], vals[1], vals[2])
		if axis.LengthSquared() == 0 {
			return fmt.Errorf("rotate: axis must be non-zero")
		}
		p.transform = p.transform.Mul(core.Rotation(axis, vals[3]))

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}

// loadMesh adds the triangles of a PLY file with the current material and
// transform
func (p *SceneFileParser) loadMesh(path string) error {
	if !filepath.IsAbs(path) && p.baseDir != "" {
		path = filepath.Join(p.baseDir, path)
	}
	if err := validateFilePath(path); err != nil {
		return err
	}

	mesh, err := LoadPLY(path)
	if err != nil {
		return err
	}
	prims, err := geometry.NewTriangleMesh(mesh.Vertices, mesh.Faces, mesh.Normals, p.material, p.transform)
	if err != nil {
		return fmt.Errorf("ply %s: %w", path, err)
	}
	for _, prim := range prims {
		p.scene.AddPrimitive(prim)
	}
	return nil
}

// parseFloats parses exactly n float arguments
func parseFloats(cmd string, args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d values, got %d", cmd, n, len(args))
	}
	vals := make([]float64, n)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", cmd, arg)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseInts parses exactly n integer arguments
func parseInts(cmd string, args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d values, got %d", cmd, n, len(args))
	}
	vals := make([]int, n)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", cmd, arg)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseVec3(cmd string, args []string) (core.Vec3, error) {
	vals, err := parseFloats(cmd, args, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(vals[0], vals[1], vals[2]), nil
}

// parseIndices parses three vertex indices and checks them against the
// number of vertices declared so far
func parseIndices(cmd string, args []string, count int) ([3]int, error) {
	vals, err := parseInts(cmd, args, 3)
	if err != nil {
		return [3]int{}, err
	}
	var idx [3]int
	for i, v := range vals {
		if v < 0 || v >= count {
			return [3]int{}, fmt.Errorf("%s: vertex index %d out of range (have %d)", cmd, v, count)
		}
		idx[i] = v
	}
	return idx, nil
}

// validateFilePath rejects paths that cannot name a scene file
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}
	if len(filename) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}
	return nil
}
