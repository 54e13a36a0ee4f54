package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
}

// PLYData contains the mesh read from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions
	Normals  []core.Vec3 // Per-vertex normals, empty if not present
	Faces    []int       // Triangle indices, 3 per triangle; polygons are fanned
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParsePLY reads a PLY stream in ascii or binary encoding. Only vertex
// positions, vertex normals and face index lists are kept.
func ParsePLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &asciiValueReader{reader: reader}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	data, err := readPLYBody(header, values)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// parsePLYHeader consumes lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string

	for lineNum := 0; ; lineNum++ {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unexpected end of header: %w", err)
		}
		line := strings.TrimSpace(raw)

		if lineNum == 0 {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic")
			}
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format, header.Version = parts[1], parts[2]
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("missing format line")
	}
	return header, nil
}

// parsePLYProperty parses the fields after "property"
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 1 && parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{Name: parts[3], Type: parts[2], ListType: parts[1], IsList: true}, nil
	}
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}
	return PLYProperty{Name: parts[1], Type: parts[0]}, nil
}

func readPLYBody(header *PLYHeader, values plyValueReader) (*PLYData, error) {
	index := map[string]int{}
	for i, prop := range header.VertexProps {
		if prop.IsList {
			return nil, fmt.Errorf("list property %q on vertices is not supported", prop.Name)
		}
		index[prop.Name] = i
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("vertex property %q missing", name)
		}
	}
	_, hasNX := index["nx"]
	_, hasNY := index["ny"]
	_, hasNZ := index["nz"]
	hasNormals := hasNX && hasNY && hasNZ

	data := &PLYData{Vertices: make([]core.Vec3, header.VertexCount)}
	if hasNormals {
		data.Normals = make([]core.Vec3, header.VertexCount)
	}

	row := make([]float64, len(header.VertexProps))
	for v := 0; v < header.VertexCount; v++ {
		for i, prop := range header.VertexProps {
			val, err := values.scalar(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", v, err)
			}
			row[i] = val
		}
		data.Vertices[v] = core.NewVec3(row[index["x"]], row[index["y"]], row[index["z"]])
		if hasNormals {
			data.Normals[v] = core.NewVec3(row[index["nx"]], row[index["ny"]], row[index["nz"]])
		}
	}

	for f := 0; f < header.FaceCount; f++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := values.scalar(prop.Type); err != nil {
					return nil, fmt.Errorf("face %d: %w", f, err)
				}
				continue
			}

			count, err := values.scalar(prop.ListType)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", f, err)
			}
			indices := make([]int, int(count))
			for i := range indices {
				val, err := values.scalar(prop.Type)
				if err != nil {
					return nil, fmt.Errorf("face %d: %w", f, err)
				}
				indices[i] = int(val)
			}

			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			// Fan triangulation
			for i := 1; i+1 < len(indices); i++ {
				data.Faces = append(data.Faces, indices[0], indices[i], indices[i+1])
			}
		}
	}

	return data, nil
}

// plyValueReader reads one scalar of a PLY type as float64
type plyValueReader interface {
	scalar(dataType string) (float64, error)
}

type asciiValueReader struct {
	reader *bufio.Reader
	tokens []string
}

func (a *asciiValueReader) scalar(dataType string) (float64, error) {
	for len(a.tokens) == 0 {
		line, err := a.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return 0, fmt.Errorf("unexpected end of data: %w", err)
		}
		a.tokens = strings.Fields(line)
	}
	tok := a.tokens[0]
	a.tokens = a.tokens[1:]

	val, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, tok)
	}
	return val, nil
}

type binaryValueReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unknown PLY type %q", dataType)
	}
	buf := b.buf[:size]
	if _, err := io.ReadFull(b.reader, buf); err != nil {
		return 0, fmt.Errorf("unexpected end of data: %w", err)
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default: // double, float64
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}

// getTypeSize returns the byte size of a PLY scalar type, or 0
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "float", "int32", "uint32", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}
