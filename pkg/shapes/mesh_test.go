package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
)

func quadMeshData() *MeshData {
	return &MeshData{
		Vertices: []core.Vec3{
			core.NewVec3(0, 0, 0),
			core.NewVec3(1, 0, 0),
			core.NewVec3(1, 1, 0),
			core.NewVec3(0, 1, 0),
		},
		Faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestBuildTrianglesCount(t *testing.T) {
	triangles := BuildTriangles(quadMeshData(), nil, nil)
	assert.Len(t, triangles, 2)
}

func TestBuildTrianglesBoundingBox(t *testing.T) {
	triangles := BuildTriangles(quadMeshData(), nil, nil)
	bbox := triangles[0].BoundingBox().Union(triangles[1].BoundingBox())
	assert.InDelta(t, 0, bbox.Min.Subtract(core.NewVec3(0, 0, 0)).Length(), 1e-9)
	assert.InDelta(t, 0, bbox.Max.Subtract(core.NewVec3(1, 1, 0)).Length(), 1e-9)
}

func TestBuildTrianglesHit(t *testing.T) {
	triangles := BuildTriangles(quadMeshData(), nil, nil)
	ray := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1))

	hitAny := false
	for _, tri := range triangles {
		if _, ok := tri.Intersect(ray); ok {
			hitAny = true
		}
	}
	assert.True(t, hitAny)
}

func TestBuildTrianglesWithNormals(t *testing.T) {
	data := quadMeshData()
	data.Normals = []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 1),
	}
	triangles := BuildTriangles(data, nil, nil)
	for _, tri := range triangles {
		assert.True(t, tri.hasNormals)
	}
}

func TestBuildTrianglesAppliesRotation(t *testing.T) {
	data := &MeshData{
		Vertices: []core.Vec3{core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)},
		Faces:    [][3]int{{0, 1, 2}},
	}
	rotation := core.NewVec3(0, 0, 1.5707963267948966) // 90 degrees about Z
	triangles := BuildTriangles(data, &rotation, nil)
	assert.Len(t, triangles, 1)
	assert.InDelta(t, 0, triangles[0].V0.Subtract(core.NewVec3(0, 1, 0)).Length(), 1e-6)
}
