package loaders

import (
	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/shapes"
)

// ToMeshData converts raw PLY vertex/face buffers into the indexed
// shapes.MeshData format the Shapes module expands into individual
// triangles. Only triangular faces are supported (LoadPLY already rejects
// non-triangular faces while reading), so every three consecutive entries
// of Faces become one [3]int.
func (d *PLYData) ToMeshData() *shapes.MeshData {
	faces := make([][3]int, len(d.Faces)/3)
	for i := range faces {
		faces[i] = [3]int{d.Faces[3*i], d.Faces[3*i+1], d.Faces[3*i+2]}
	}
	return &shapes.MeshData{
		Vertices: d.Vertices,
		Normals:  d.Normals,
		UVs:      d.TexCoords,
		Faces:    faces,
	}
}

// LoadMeshTriangles loads a mesh file (PLY or simplified OBJ, selected by
// extension) and expands it directly into Triangle shapes, applying an
// optional rigid rotation about a pivot the way a scene's mesh block
// requests (spec §6 mesh-loader collaborator).
func LoadMeshTriangles(filename string, rotation *core.Vec3, pivot *core.Vec3) ([]*shapes.Triangle, error) {
	var data *shapes.MeshData

	if isOBJPath(filename) {
		meshData, err := LoadOBJ(filename)
		if err != nil {
			return nil, err
		}
		data = meshData
	} else {
		plyData, err := LoadPLY(filename)
		if err != nil {
			return nil, err
		}
		data = plyData.ToMeshData()
	}

	return shapes.BuildTriangles(data, rotation, pivot), nil
}
