package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSceneFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pbrt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const basicScene = `
LookAt 0 0 5  0 0 0  0 1 0
Camera "perspective" "float fov" 45
Film "rgb" "integer xresolution" 64 "integer yresolution" 48
Sampler "stratified" "integer pixelsamples" 32
Integrator "path" "integer maxdepth" 7

WorldBegin

Material "diffuse" "rgb reflectance" [0.5 0.5 0.5]
Shape "sphere" "float radius" 1.0

AttributeBegin
Material "diffuse" "rgb reflectance" [1 1 1]
AreaLightSource "area" "rgb L" [8 8 8]
Shape "sphere" "float radius" 0.3
AttributeEnd

LightSource "distant" "rgb L" [2 2 2] "point from" [0 10 0] "point to" [0 0 0]
`

func TestLoadSceneBuildsCameraAndGeometry(t *testing.T) {
	path := writeSceneFile(t, basicScene)

	camera, sc, params, err := LoadScene(path)
	require.NoError(t, err)

	assert.NotNil(t, camera)
	assert.Equal(t, 64, params.Width)
	assert.Equal(t, 48, params.Height)
	assert.Equal(t, 32, params.SamplesPerPixel)
	assert.Equal(t, 7, params.MaxDepth)

	assert.Len(t, sc.Primitives, 2)
	// One area light (inside the sphere) plus one distant light.
	assert.Len(t, sc.Emitters, 2)
}

func TestLoadSceneRejectsUnknownMaterial(t *testing.T) {
	path := writeSceneFile(t, `
WorldBegin
Material "plastic" "rgb reflectance" [0.5 0.5 0.5]
Shape "sphere" "float radius" 1.0
`)

	_, _, _, err := LoadScene(path)
	assert.Error(t, err)
}

func TestLoadSceneTriangleMesh(t *testing.T) {
	path := writeSceneFile(t, `
WorldBegin
Material "diffuse" "rgb reflectance" [0.8 0.8 0.8]
Shape "trianglemesh"
	"point3 P" [0 0 0  1 0 0  0 1 0]
	"integer indices" [0 1 2]
`)

	_, sc, _, err := LoadScene(path)
	require.NoError(t, err)
	assert.Len(t, sc.Primitives, 1)
}
