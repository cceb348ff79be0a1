package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/sampler"
)

func TestCameraGetCameraForward(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        45.0,
	}
	camera := NewCamera(config)

	forward := camera.GetCameraForward()
	assert.InDelta(t, 0.0, forward.X, 1e-6)
	assert.InDelta(t, 0.0, forward.Y, 1e-6)
	assert.InDelta(t, -1.0, forward.Z, 1e-6)
}

func TestCameraGetRayCentersOnForward(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        45.0,
	}
	camera := NewCamera(config)

	ray := camera.GetRay(0.5, 0.5, core.NewVec2(0.5, 0.5))
	assert.InDelta(t, 0.0, ray.Direction.X, 1e-6)
	assert.InDelta(t, 0.0, ray.Direction.Y, 1e-6)
	assert.Less(t, ray.Direction.Z, 0.0)
}

func TestCameraGetRayOffAxisPointsAway(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        45.0,
	}
	camera := NewCamera(config)

	left := camera.GetRay(0, 0.5, core.NewVec2(0.5, 0.5))
	right := camera.GetRay(1, 0.5, core.NewVec2(0.5, 0.5))
	assert.Less(t, left.Direction.X, right.Direction.X)
}

func TestCameraPinholeIgnoresLensSample(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        45.0,
		// Aperture left at zero: pinhole.
	}
	camera := NewCamera(config)

	a := camera.GetRay(0.5, 0.5, core.NewVec2(0.1, 0.9))
	b := camera.GetRay(0.5, 0.5, core.NewVec2(0.9, 0.1))
	assert.Equal(t, a.Origin, b.Origin)
}

func TestCameraThinLensVariesOrigin(t *testing.T) {
	config := CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   1.0,
		VFov:          45.0,
		Aperture:      0.5,
		FocusDistance: 2.0,
	}
	camera := NewCamera(config)

	a := camera.GetRay(0.5, 0.5, core.NewVec2(0.1, 0.9))
	b := camera.GetRay(0.5, 0.5, core.NewVec2(0.9, 0.1))
	assert.NotEqual(t, a.Origin, b.Origin)
}

func TestCameraGetRayForPixelStaysWithinImagePlane(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        45.0,
	}
	camera := NewCamera(config)
	s := sampler.NewIndependentSeeded(3)

	ray := camera.GetRayForPixel(0, 0, 64, 64, s)
	assert.True(t, ray.Direction.IsFinite())
	assert.InDelta(t, 1.0, ray.Direction.Length(), 1e-9)
}
