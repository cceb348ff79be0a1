package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/shapes"
)

// LoadOBJ reads a simplified Wavefront OBJ mesh: v/vn/vt vertex data and f
// face lines, triangulated by fan if more than three indices are given.
// Unlike PLY this is a line-oriented ASCII format, so it needs none of
// ply.go's binary property-table machinery - a single scanning pass over
// "v"/"vn"/"vt"/"f" prefixes is sufficient (spec §6 mesh-loader collaborator,
// simplified per SPEC_FULL.md: no materials, groups, or smoothing-group
// directives).
func LoadOBJ(filename string) (*shapes.MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %v", err)
	}
	defer file.Close()

	var positions []core.Vec3
	var normals []core.Vec3
	var texCoords []core.Vec2

	// OBJ indexes vertex/normal/uv independently per corner; since
	// shapes.MeshData expects a single shared index per vertex, corners are
	// deduplicated into combined vertex entries keyed by their raw index
	// triple as they're first encountered.
	type corner struct{ v, vt, vn int }
	combined := make(map[corner]int)
	var outVertices []core.Vec3
	var outNormals []core.Vec3
	var outUVs []core.Vec2
	hasNormals := false
	hasUVs := false
	var faces [][3]int

	resolveCorner := func(tok string) (int, error) {
		parts := strings.Split(tok, "/")
		c := corner{v: -1, vt: -1, vn: -1}
		idx, err := parseOBJIndex(parts[0], len(positions))
		if err != nil {
			return 0, err
		}
		c.v = idx
		if len(parts) > 1 && parts[1] != "" {
			idx, err := parseOBJIndex(parts[1], len(texCoords))
			if err != nil {
				return 0, err
			}
			c.vt = idx
			hasUVs = true
		}
		if len(parts) > 2 && parts[2] != "" {
			idx, err := parseOBJIndex(parts[2], len(normals))
			if err != nil {
				return 0, err
			}
			c.vn = idx
			hasNormals = true
		}

		if existing, ok := combined[c]; ok {
			return existing, nil
		}

		out := len(outVertices)
		outVertices = append(outVertices, positions[c.v])
		if c.vn >= 0 {
			outNormals = append(outNormals, normals[c.vn])
		} else {
			outNormals = append(outNormals, core.Vec3{})
		}
		if c.vt >= 0 {
			outUVs = append(outUVs, texCoords[c.vt])
		} else {
			outUVs = append(outUVs, core.Vec2{})
		}
		combined[c] = out
		return out, nil
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseOBJVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid vertex line %q: %v", line, err)
			}
			positions = append(positions, v)
		case "vn":
			n, err := parseOBJVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid normal line %q: %v", line, err)
			}
			normals = append(normals, n)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("invalid texture coordinate line %q", line)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("invalid texture coordinate line %q", line)
			}
			texCoords = append(texCoords, core.Vec2{X: u, Y: v})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("face line needs at least 3 vertices: %q", line)
			}
			indices := make([]int, len(fields)-1)
			for i, tok := range fields[1:] {
				idx, err := resolveCorner(tok)
				if err != nil {
					return nil, fmt.Errorf("invalid face line %q: %v", line, err)
				}
				indices[i] = idx
			}
			// Fan-triangulate convex polygons with more than 3 vertices.
			for i := 1; i < len(indices)-1; i++ {
				faces = append(faces, [3]int{indices[0], indices[i], indices[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ file: %v", err)
	}

	data := &shapes.MeshData{Vertices: outVertices, Faces: faces}
	if hasNormals {
		data.Normals = outNormals
	}
	if hasUVs {
		data.UVs = outUVs
	}
	return data, nil
}

// parseOBJIndex resolves a 1-based (or negative, relative-to-end) OBJ index
// into a 0-based index into a slice of the given length.
func parseOBJIndex(s string, length int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = length + n
	} else {
		n--
	}
	if n < 0 || n >= length {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, length)
	}
	return n, nil
}

func parseOBJVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	z, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return core.Vec3{}, fmt.Errorf("invalid float components")
	}
	return core.NewVec3(x, y, z), nil
}

func isOBJPath(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".obj")
}
