package shapes

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// MeshData holds the shared, indexed vertex buffers a loaded triangle mesh
// (PLY/OBJ) is built from before it is expanded into individual Triangle
// shapes and registered as scene primitives.
type MeshData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3 // optional, one per vertex
	UVs      []core.Vec2 // optional, one per vertex
	Faces    [][3]int    // vertex indices per triangle
}

// BuildTriangles expands indexed mesh data into individual Triangle shapes,
// one per face, optionally applying a rigid rotation about a pivot the way
// a loader's coordinate-system fixups require.
func BuildTriangles(data *MeshData, rotation *core.Vec3, pivot *core.Vec3) []*Triangle {
	vertices := data.Vertices
	if rotation != nil {
		vertices = make([]core.Vec3, len(data.Vertices))
		for i, v := range data.Vertices {
			if pivot != nil {
				v = v.Subtract(*pivot)
			}
			v = rotateVertex(v, *rotation)
			if pivot != nil {
				v = v.Add(*pivot)
			}
			vertices[i] = v
		}
	}

	triangles := make([]*Triangle, len(data.Faces))
	hasNormals := len(data.Normals) == len(data.Vertices) && len(data.Normals) > 0
	hasUVs := len(data.UVs) == len(data.Vertices) && len(data.UVs) > 0

	for i, face := range data.Faces {
		i0, i1, i2 := face[0], face[1], face[2]
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		var tri *Triangle
		if hasNormals {
			tri = NewTriangleWithNormals(v0, v1, v2, data.Normals[i0], data.Normals[i1], data.Normals[i2])
		} else {
			tri = NewTriangle(v0, v1, v2)
		}
		if hasUVs {
			tri.WithUVs(data.UVs[i0], data.UVs[i1], data.UVs[i2])
		}
		triangles[i] = tri
	}
	return triangles
}

func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}
	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}
	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}
	return vertex
}
