// Package loaders adapts the out-of-scope external collaborators spec §6
// names (scene-description parser, mesh loaders, image decoders) into the
// concrete Scene/Camera/BSDF/Emitter/Medium construction calls the renderer
// core expects. This file is the conversion layer: it walks a parsed
// PBRTScene (pbrt.go's tokenizer/statement output) and a mesh/image loader
// and builds the types pkg/scene, pkg/bsdf, pkg/emitters, pkg/media, and
// pkg/renderer define, grounded on the teacher's pkg/scene/pbrt_scene.go
// convertCamera/convertMaterial/convertShape/convertLight pattern —
// regeneralized from the teacher's single concrete material/light/shape
// types onto this repository's interface-based core.Material/core.Emitter/
// core.Shape/core.Medium contracts.
package loaders

import (
	"fmt"
	"path/filepath"

	"github.com/ashwoolford/pathforge/pkg/bsdf"
	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/emitters"
	"github.com/ashwoolford/pathforge/pkg/media"
	"github.com/ashwoolford/pathforge/pkg/renderer"
	"github.com/ashwoolford/pathforge/pkg/scene"
	"github.com/ashwoolford/pathforge/pkg/shapes"
)

// RenderParams collects the scene file's optional integrator/film overrides
// (spec §6: "optional integrator parameters (spp, max_depth)"), layered over
// a renderer.DefaultConfig by the caller.
type RenderParams struct {
	Width, Height   int
	SamplesPerPixel int
	MaxDepth        int
	HasWidth        bool
	HasSamples      bool
	HasMaxDepth     bool
}

// LoadScene parses a PBRT-like scene file and converts it into a ready
// Camera, Scene, and any render-parameter overrides the file specified.
// sceneDir anchors relative mesh/image filenames referenced by the scene
// (PLYmesh/OBJmesh/mapname parameters) to the scene file's own directory.
func LoadScene(filename string) (*renderer.Camera, *scene.Scene, RenderParams, error) {
	parsed, err := LoadPBRT(filename)
	if err != nil {
		return nil, nil, RenderParams{}, err
	}

	sceneDir := filepath.Dir(filename)
	builder := scene.NewBuilder()
	params := RenderParams{}

	camera, err := convertCamera(parsed, &params)
	if err != nil {
		return nil, nil, RenderParams{}, fmt.Errorf("failed to convert camera: %v", err)
	}

	materials := make([]core.Material, len(parsed.Materials))
	for i, matStmt := range parsed.Materials {
		mat, err := convertMaterial(&matStmt)
		if err != nil {
			return nil, nil, RenderParams{}, fmt.Errorf("failed to convert material: %v", err)
		}
		materials[i] = mat
	}

	for _, shapeStmt := range parsed.Shapes {
		if err := addShape(builder, &shapeStmt, materials, sceneDir); err != nil {
			return nil, nil, RenderParams{}, fmt.Errorf("failed to convert shape: %v", err)
		}
	}

	for _, lightStmt := range parsed.LightSources {
		if lightStmt.Type == "AreaLightSource" {
			continue // consumed by the shape(s) it was attached to, not a standalone emitter
		}
		if err := addLight(builder, &lightStmt, sceneDir); err != nil {
			return nil, nil, RenderParams{}, fmt.Errorf("failed to convert light: %v", err)
		}
	}

	for _, attr := range parsed.Attributes {
		localMaterials := make([]core.Material, len(attr.Materials))
		for i, matStmt := range attr.Materials {
			mat, err := convertMaterial(&matStmt)
			if err != nil {
				return nil, nil, RenderParams{}, fmt.Errorf("failed to convert material in attribute block: %v", err)
			}
			localMaterials[i] = mat
		}
		for _, shapeStmt := range attr.Shapes {
			pool := localMaterials
			if shapeStmt.MaterialIndex >= len(localMaterials) {
				pool = materials
			}
			if err := addShape(builder, &shapeStmt, pool, sceneDir); err != nil {
				return nil, nil, RenderParams{}, fmt.Errorf("failed to convert shape in attribute block: %v", err)
			}
		}
		for _, lightStmt := range attr.LightSources {
			if lightStmt.Type == "AreaLightSource" {
				continue
			}
			if err := addLight(builder, &lightStmt, sceneDir); err != nil {
				return nil, nil, RenderParams{}, fmt.Errorf("failed to convert light in attribute block: %v", err)
			}
		}
	}

	applyIntegratorParams(parsed, &params)

	return camera, builder.Build(), params, nil
}

func convertCamera(parsed *PBRTScene, params *RenderParams) (*renderer.Camera, error) {
	config := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 1.0,
	}

	if parsed.LookAt != nil && parsed.LookAtTo != nil && parsed.LookAtUp != nil {
		config.Center = *parsed.LookAt
		config.LookAt = *parsed.LookAtTo
		config.Up = *parsed.LookAtUp
	}

	if parsed.Camera != nil && parsed.Camera.Subtype == "perspective" {
		if fov, ok := parsed.Camera.GetFloatParam("fov"); ok {
			if fov <= 0 || fov >= 180 {
				return nil, fmt.Errorf("invalid camera fov %f: must be between 0 and 180 degrees", fov)
			}
			config.VFov = fov
		}
		if aperture, ok := parsed.Camera.GetFloatParam("lensradius"); ok {
			config.Aperture = aperture * 2
		}
		if focus, ok := parsed.Camera.GetFloatParam("focaldistance"); ok {
			config.FocusDistance = focus
		}
	}

	width, height := 400, 400
	if parsed.Film != nil {
		if w, ok := parsed.Film.GetFloatParam("xresolution"); ok {
			if w <= 0 || w > 8192 {
				return nil, fmt.Errorf("invalid image width %f: must be between 1 and 8192", w)
			}
			width = int(w)
			params.HasWidth = true
		}
		if h, ok := parsed.Film.GetFloatParam("yresolution"); ok {
			if h <= 0 || h > 8192 {
				return nil, fmt.Errorf("invalid image height %f: must be between 1 and 8192", h)
			}
			height = int(h)
			params.HasWidth = true
		}
	}
	config.AspectRatio = float64(width) / float64(height)
	params.Width, params.Height = width, height

	return renderer.NewCamera(config), nil
}

func applyIntegratorParams(parsed *PBRTScene, params *RenderParams) {
	if parsed.Sampler != nil {
		if spp, ok := parsed.Sampler.GetFloatParam("pixelsamples"); ok && spp > 0 {
			params.SamplesPerPixel = int(spp)
			params.HasSamples = true
		}
	}
	if parsed.Integrator != nil {
		if depth, ok := parsed.Integrator.GetFloatParam("maxdepth"); ok && depth > 0 {
			params.MaxDepth = int(depth)
			params.HasMaxDepth = true
		}
	}
}

// convertMaterial converts a "diffuse"/"conductor"/"dielectric" Material
// statement into the matching core.Material from pkg/bsdf. Diffuse and
// conductor materials are wrapped TwoSided since scene-file surfaces have
// no inherent front/back convention the way the shape's winding order alone
// would imply; the dielectric is returned unwrapped.
func convertMaterial(stmt *PBRTStatement) (core.Material, error) {
	switch stmt.Subtype {
	case "diffuse":
		albedo := core.NewVec3(0.7, 0.7, 0.7)
		if rgb, ok := stmt.GetRGBParam("reflectance"); ok {
			albedo = *rgb
		}
		return bsdf.NewTwoSided(bsdf.NewLambertian(albedo)), nil

	case "conductor":
		eta := core.NewVec3(0.2, 0.92, 1.1) // approximate copper-ish default
		k := core.NewVec3(3.9, 2.45, 2.14)
		if rgb, ok := stmt.GetRGBParam("eta"); ok {
			eta = *rgb
		}
		if rgb, ok := stmt.GetRGBParam("k"); ok {
			k = *rgb
		}
		roughness := 0.0
		if r, ok := stmt.GetFloatParam("roughness"); ok {
			if r < 0 || r > 1 {
				return nil, fmt.Errorf("invalid conductor roughness %f: must be between 0 and 1", r)
			}
			roughness = r
		}
		return bsdf.NewTwoSided(bsdf.NewRoughConductor(eta, k, roughness)), nil

	case "dielectric":
		eta := 1.5
		if e, ok := stmt.GetFloatParam("eta"); ok {
			if e <= 0 {
				return nil, fmt.Errorf("invalid dielectric eta %f: must be positive", e)
			}
			eta = e
		}
		roughness := 0.0
		if r, ok := stmt.GetFloatParam("roughness"); ok {
			roughness = r
		}
		return bsdf.NewRoughDielectric(eta, roughness), nil

	default:
		return nil, fmt.Errorf("unsupported material type: %s", stmt.Subtype)
	}
}

// blackAbsorber is the material assigned to a pure area-light shape that
// names no explicit BSDF of its own: the shape's own emission dominates,
// and a black Lambertian contributes no spurious reflected light if a ray
// bounces off the light's back.
func blackAbsorber() core.Material {
	return bsdf.NewLambertian(core.NewVec3(0, 0, 0))
}

func addShape(builder *scene.Builder, stmt *PBRTStatement, materials []core.Material, sceneDir string) error {
	var mat core.Material
	if stmt.MaterialIndex >= 0 && stmt.MaterialIndex < len(materials) {
		mat = materials[stmt.MaterialIndex]
	} else if !stmt.IsAreaLight() {
		return fmt.Errorf("shape has no valid material (index %d)", stmt.MaterialIndex)
	}
	if mat == nil {
		mat = blackAbsorber()
	}

	shapesOut, err := convertShape(stmt, sceneDir)
	if err != nil {
		return err
	}

	radiance := core.NewVec3(1, 1, 1)
	if rgb, ok := stmt.GetRGBParam("L"); ok {
		radiance = *rgb
	}

	interior := convertInteriorMedium(stmt)

	for _, s := range shapesOut {
		var e core.Emitter
		if stmt.IsAreaLight() {
			e = emitters.NewArea(s, radiance)
		}
		// AddPrimitive registers e with the scene's sampleable emitter set
		// itself when non-nil, so there is no separate AddEmitter call here.
		builder.AddPrimitive(&core.Primitive{Shape: s, Material: mat, Emitter: e, MediumInside: interior})
	}
	return nil
}

// convertInteriorMedium builds a homogeneous participating medium for a
// shape's interior from simplified inline parameters, a stand-in for PBRT's
// full MakeNamedMedium/MediumInterface directive pair (spec §6 medium
// blocks), since the scene format this repository accepts has no separate
// named-medium declaration: "sigma_a"/"sigma_s" rgb and "g" float directly
// on the shape statement.
func convertInteriorMedium(stmt *PBRTStatement) core.Medium {
	sigmaA, hasA := stmt.GetRGBParam("sigma_a")
	sigmaS, hasS := stmt.GetRGBParam("sigma_s")
	if !hasA && !hasS {
		return nil
	}
	a := core.NewVec3(0, 0, 0)
	s := core.NewVec3(0, 0, 0)
	if hasA {
		a = *sigmaA
	}
	if hasS {
		s = *sigmaS
	}
	g := 0.0
	if gv, ok := stmt.GetFloatParam("g"); ok {
		g = gv
	}
	return media.NewHomogeneous(a, s, g)
}

// convertShape converts a single Shape statement into zero or more
// core.Shape instances (a mesh reference expands into many triangles).
func convertShape(stmt *PBRTStatement, sceneDir string) ([]core.Shape, error) {
	switch stmt.Subtype {
	case "sphere":
		radius := 1.0
		if r, ok := stmt.GetFloatParam("radius"); ok {
			if r <= 0 {
				return nil, fmt.Errorf("invalid sphere radius %f: must be positive", r)
			}
			radius = r
		}
		center := core.NewVec3(0, 0, 0)
		if c, ok := stmt.GetPoint3Param("center"); ok {
			center = *c
		}
		return []core.Shape{shapes.NewSphere(center, radius)}, nil

	case "bilinearPatch":
		p00, ok1 := stmt.GetPoint3Param("P00")
		p01, ok2 := stmt.GetPoint3Param("P01")
		p10, ok3 := stmt.GetPoint3Param("P10")
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("bilinearPatch missing corner points")
		}
		u := p01.Subtract(*p00)
		v := p10.Subtract(*p00)
		return []core.Shape{shapes.NewQuad(*p00, u, v)}, nil

	case "trianglemesh":
		vertices, err := stmt.getVec3Array("P")
		if err != nil {
			return nil, err
		}
		indices, err := stmt.getIntArray("indices")
		if err != nil {
			return nil, err
		}
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("trianglemesh indices must come in groups of 3")
		}
		faces := make([][3]int, len(indices)/3)
		for i := range faces {
			faces[i] = [3]int{indices[3*i], indices[3*i+1], indices[3*i+2]}
		}
		data := &shapes.MeshData{Vertices: vertices, Faces: faces}
		triangles := shapes.BuildTriangles(data, nil, nil)
		out := make([]core.Shape, len(triangles))
		for i, t := range triangles {
			out[i] = t
		}
		return out, nil

	case "plymesh", "objmesh":
		path, ok := stmt.GetStringParam("filename")
		if !ok {
			return nil, fmt.Errorf("%s requires a filename parameter", stmt.Subtype)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(sceneDir, path)
		}
		triangles, err := LoadMeshTriangles(path, nil, nil)
		if err != nil {
			return nil, err
		}
		out := make([]core.Shape, len(triangles))
		for i, t := range triangles {
			out[i] = t
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported shape type: %s", stmt.Subtype)
	}
}

func addLight(builder *scene.Builder, stmt *PBRTStatement, sceneDir string) error {
	switch stmt.Subtype {
	case "point":
		intensity := core.NewVec3(10, 10, 10)
		if rgb, ok := stmt.GetRGBParam("I"); ok {
			intensity = *rgb
		}
		position := core.NewVec3(0, 5, 0)
		if p, ok := stmt.GetPoint3Param("from"); ok {
			position = *p
		}
		// No point-light emitter exists in this model (spec §4.4 names
		// Area/Directional/Environment only); approximate as a small
		// emissive sphere (outward side only), the same point-light-as-tiny-area-
		// light approximation the teacher used.
		sphere := shapes.NewSphere(position, 0.05)
		emitter := emitters.NewArea(sphere, intensity)
		builder.AddPrimitive(&core.Primitive{Shape: sphere, Material: blackAbsorber(), Emitter: emitter})
		return nil

	case "distant":
		radiance := core.NewVec3(3, 3, 3)
		if rgb, ok := stmt.GetRGBParam("L"); ok {
			radiance = *rgb
		}
		direction := core.NewVec3(0, -1, 0)
		from, okFrom := stmt.GetPoint3Param("from")
		to, okTo := stmt.GetPoint3Param("to")
		if okFrom && okTo {
			direction = to.Subtract(*from)
		}
		emitter := emitters.NewDirectional(direction, radiance)
		builder.AddEmitter(emitter)
		return nil

	case "infinite":
		intensity := 1.0
		if v, ok := stmt.GetFloatParam("scale"); ok {
			intensity = v
		}
		if path, ok := stmt.GetStringParam("mapname"); ok {
			if !filepath.IsAbs(path) {
				path = filepath.Join(sceneDir, path)
			}
			img, err := LoadImage(path)
			if err != nil {
				return err
			}
			env := emitters.NewEnvironment(img, intensity)
			builder.SetEnvironment(env)
			return nil
		}
		radiance := core.NewVec3(1, 1, 1)
		if rgb, ok := stmt.GetRGBParam("L"); ok {
			radiance = *rgb
		}
		env := emitters.NewEnvironment(newSolidEnvironment(radiance), intensity)
		builder.SetEnvironment(env)
		return nil

	default:
		return fmt.Errorf("unsupported light type: %s", stmt.Subtype)
	}
}

// solidEnvironment is a 1x1 constant-color EnvironmentImage, used when a
// scene names a uniform "infinite" light with no backing texture.
type solidEnvironment struct{ color core.Spectrum }

func newSolidEnvironment(color core.Vec3) *solidEnvironment { return &solidEnvironment{color: color} }

func (s *solidEnvironment) Width() int                { return 1 }
func (s *solidEnvironment) Height() int               { return 1 }
func (s *solidEnvironment) At(x, y int) core.Spectrum { return s.color }

func (stmt *PBRTStatement) getVec3Array(name string) ([]core.Vec3, error) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values)%3 != 0 {
		return nil, fmt.Errorf("%s missing or invalid vec3 array", name)
	}
	out := make([]core.Vec3, 0, len(param.Values)/3)
	for i := 0; i < len(param.Values); i += 3 {
		v, err := parseOBJVec3(param.Values[i : i+3])
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry: %v", name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (stmt *PBRTStatement) getIntArray(name string) ([]int, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return nil, fmt.Errorf("%s missing", name)
	}
	out := make([]int, len(param.Values))
	for i, s := range param.Values {
		n, err := parseOBJIndexRaw(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %v", name, s, err)
		}
		out[i] = n
	}
	return out, nil
}

func parseOBJIndexRaw(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
