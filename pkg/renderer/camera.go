// Package renderer drives the render: it maps pixels to camera rays, hands
// each to the integrator, accumulates the results into a film, and
// schedules that work across tiles and worker goroutines (spec §4.7, §4.8).
// Grounded on the teacher's pkg/renderer package — its tile/worker-pool
// shape survives, generalized from the teacher's fixed Material/Scatter
// raytracer to the core.BSDF/core.Emitter/pkg/integrator/pkg/scene
// contracts built in the rest of this repository.
package renderer

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// CameraConfig describes a perspective camera's placement and lens (spec
// §4.7). Aperture of 0 is a pinhole; a positive aperture enables thin-lens
// depth-of-field sampling.
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	VFov          float64 // vertical field of view, in degrees
	AspectRatio   float64
	Aperture      float64 // lens diameter; 0 disables depth of field
	FocusDistance float64 // 0 uses |Center-LookAt|
}

// Camera maps a raster coordinate plus a lens sample to a world-space ray.
// The image plane is spanned by lowerLeftCorner/horizontal/vertical
// (teacher's convention); u, v, w are the camera's right/up/back basis
// vectors, kept around for lens-offset sampling and GetCameraForward.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
}

// NewCamera builds a perspective camera from the given configuration.
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	viewportHeight := 2 * halfHeight
	viewportWidth := config.AspectRatio * viewportHeight

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
		if focusDistance == 0 {
			focusDistance = 1
		}
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.Center
	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}
}

// GetCameraForward returns the camera's viewing direction (opposite of w).
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// GetRay maps screen coordinates (s, t) in [0,1]^2 and a lens sample
// (lu, lv) to a world-space ray, sampling the thin-lens aperture when
// lensRadius is positive (spec §4.7: "ray through origin (pinhole) or
// through a sampled disk point (thin lens)").
func (c *Camera) GetRay(s, t float64, lens core.Vec2) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.ConcentricSampleDisk(lens).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))
	direction := target.Subtract(origin)

	return core.NewRay(origin, direction.Normalize())
}

// GetRayForPixel maps an integer pixel (x, y) in an image of the given
// dimensions to a camera ray, using the sampler for the pixel-jitter and
// lens-sample dimensions (spec §4.7's raster coordinate (x+u, y+v)).
func (c *Camera) GetRayForPixel(x, y, width, height int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	s := (float64(x) + jitter.X) / float64(width)
	// Raster y grows downward; the image plane's t grows upward.
	t := 1 - (float64(y)+jitter.Y)/float64(height)
	return c.GetRay(s, t, sampler.Get2D())
}
