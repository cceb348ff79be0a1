package emitters

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// EnvironmentImage is the minimal surface an environment emitter needs from
// a loaded HDR/LDR image: dimensions and a per-pixel radiance lookup.
type EnvironmentImage interface {
	Width() int
	Height() int
	At(x, y int) core.Spectrum
}

// distribution1D is a piecewise-constant 1D distribution over function
// values, sampled via inverse CDF with a binary search over the cumulative
// sum — the standard approach for importance-sampling a row of an image
// (grounded on the general piecewise-constant-distribution technique the
// spec calls for in §4.4, built here with gonum/floats doing the prefix-sum
// work the teacher would otherwise hand-roll).
type distribution1D struct {
	function []float64
	cdf      []float64 // cdf[i] is unnormalized cumulative sum through bin i
	integral float64
}

func newDistribution1D(function []float64) *distribution1D {
	n := len(function)
	cdf := make([]float64, n)
	floats.CumSum(cdf, function)
	integral := 0.0
	if n > 0 {
		integral = cdf[n-1]
	}
	return &distribution1D{function: function, cdf: cdf, integral: integral}
}

// sampleContinuous returns a continuous offset in [0,1), the density at that
// offset, and the discrete bin index.
func (d *distribution1D) sampleContinuous(u float64) (offset float64, pdf float64, bin int) {
	n := len(d.function)
	if n == 0 || d.integral <= 0 {
		return u, 1, 0
	}
	target := u * d.integral
	i := sort.Search(n, func(i int) bool { return d.cdf[i] >= target })
	if i >= n {
		i = n - 1
	}

	prev := 0.0
	if i > 0 {
		prev = d.cdf[i-1]
	}
	du := 0.0
	if d.cdf[i]-prev > 0 {
		du = (target - prev) / (d.cdf[i] - prev)
	}

	pdf = d.function[i] * float64(n) / d.integral
	offset = (float64(i) + du) / float64(n)
	return offset, pdf, i
}

func (d *distribution1D) pdf(u float64) float64 {
	n := len(d.function)
	if n == 0 || d.integral <= 0 {
		return 1
	}
	i := int(u * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return d.function[i] * float64(n) / d.integral
}

// distribution2D samples (u,v) pairs proportional to a 2D luminance table by
// first sampling a row from its marginal distribution, then a column from
// that row's conditional distribution.
type distribution2D struct {
	conditional []*distribution1D
	marginal    *distribution1D
}

func newDistribution2D(values [][]float64) *distribution2D {
	rows := len(values)
	conditional := make([]*distribution1D, rows)
	marginalFunc := make([]float64, rows)
	for y, row := range values {
		conditional[y] = newDistribution1D(row)
		marginalFunc[y] = conditional[y].integral
	}
	return &distribution2D{conditional: conditional, marginal: newDistribution1D(marginalFunc)}
}

func (d *distribution2D) sampleContinuous(u core.Vec2) (uv core.Vec2, pdf float64) {
	v, pdfV, row := d.marginal.sampleContinuous(u.Y)
	u2, pdfU, _ := d.conditional[row].sampleContinuous(u.X)
	return core.Vec2{X: u2, Y: v}, pdfU * pdfV
}

func (d *distribution2D) pdf(uv core.Vec2) float64 {
	row := int(uv.Y * float64(len(d.conditional)))
	if row >= len(d.conditional) {
		row = len(d.conditional) - 1
	}
	if row < 0 {
		row = 0
	}
	return d.conditional[row].pdf(uv.X) * d.marginal.pdf(uv.Y)
}

// Environment is an image-based emitter: latitude-longitude mapping with a
// precomputed piecewise-constant 2D importance distribution weighted by
// sin(theta) to account for the solid-angle distortion of the mapping
// (spec §4.4).
type Environment struct {
	Image       EnvironmentImage
	Intensity   float64 // scalar multiplier applied to the image's radiance
	WorldRadius float64 // finite scene bounding radius, for emission sampling
	WorldCenter core.Vec3

	dist *distribution2D
}

// NewEnvironment builds an environment emitter from an image, precomputing
// its sin(theta)-weighted importance table.
func NewEnvironment(image EnvironmentImage, intensity float64) *Environment {
	w, h := image.Width(), image.Height()
	values := make([][]float64, h)
	for y := 0; y < h; y++ {
		theta := math.Pi * (float64(y) + 0.5) / float64(h)
		sinTheta := math.Sin(theta)
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			row[x] = image.At(x, y).Luminance() * sinTheta
		}
		values[y] = row
	}
	return &Environment{Image: image, Intensity: intensity, dist: newDistribution2D(values)}
}

// directionToUV maps a world-space direction to latitude-longitude uv,
// the inverse of uvToDirection.
func directionToUV(dir core.Vec3) core.Vec2 {
	d := dir.Normalize()
	phi := math.Atan2(d.Z, d.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(clamp(d.Y, -1, 1))
	return core.Vec2{X: phi / (2 * math.Pi), Y: theta / math.Pi}
}

func uvToDirection(uv core.Vec2) core.Vec3 {
	phi := uv.X * 2 * math.Pi
	theta := uv.Y * math.Pi
	sinTheta := math.Sin(theta)
	return core.Vec3{
		X: sinTheta * math.Cos(phi),
		Y: math.Cos(theta),
		Z: sinTheta * math.Sin(phi),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func (e *Environment) lookup(uv core.Vec2) core.Spectrum {
	w, h := e.Image.Width(), e.Image.Height()
	x := int(uv.X * float64(w))
	y := int(uv.Y * float64(h))
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return e.Image.At(x, y).Multiply(e.Intensity)
}

func (e *Environment) SampleDirect(ref core.Vec3, u2 core.Vec2) (core.EmitterSample, bool) {
	uv, mapPdf := e.dist.sampleContinuous(u2)
	if mapPdf <= 0 {
		return core.EmitterSample{}, false
	}

	wi := uvToDirection(uv)
	theta := uv.Y * math.Pi
	sinTheta := math.Sin(theta)
	if sinTheta <= 0 {
		return core.EmitterSample{}, false
	}

	// Jacobian from (u,v) density to solid angle: pdf_solid = map_pdf / (2*pi^2*sinTheta).
	pdfSolid := mapPdf / (2 * math.Pi * math.Pi * sinTheta)
	radiance := e.lookup(uv)

	return core.EmitterSample{
		Point:         ref.Add(wi.Multiply(2 * e.WorldRadius)),
		Normal:        wi.Negate(),
		Wi:            wi,
		Distance:      infiniteDistance,
		Radiance:      radiance,
		PDFArea:       0,
		PDFSolidAngle: pdfSolid,
		Delta:         false,
	}, true
}

func (e *Environment) PDFDirect(ref core.Vec3, wi core.Vec3) float64 {
	uv := directionToUV(wi)
	theta := uv.Y * math.Pi
	sinTheta := math.Sin(theta)
	if sinTheta <= 0 {
		return 0
	}
	mapPdf := e.dist.pdf(uv)
	return mapPdf / (2 * math.Pi * math.Pi * sinTheta)
}

func (e *Environment) Le(ray core.Ray, hit *core.SurfaceInteraction) core.Spectrum {
	uv := directionToUV(ray.Direction)
	return e.lookup(uv)
}

func (e *Environment) Power() float64 {
	return e.dist.marginal.integral * 4 * math.Pi * e.WorldRadius * e.WorldRadius * e.Intensity
}

func (e *Environment) IsDelta() bool { return false }
