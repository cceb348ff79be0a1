package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// PixelStats accumulates a single pixel's samples: the color sum needed for
// the reported estimate (spec §4.7: "the reported pixel value is Σ L_i / N")
// and the luminance moments the adaptive sampler uses to judge convergence
// (teacher's pkg/renderer TileRenderer/RenderStats, generalized here to
// also track the discarded-anomaly count spec §7 requires).
type PixelStats struct {
	ColorAccum       core.Spectrum
	LuminanceAccum   float64
	LuminanceSqAccum float64
	SampleCount      int
	Discarded        int
}

// AddSample folds one estimator sample into the pixel's accumulators. Per
// spec §7's NumericalAnomaly policy, a sample with any non-finite channel
// is discarded and counted rather than accumulated.
func (ps *PixelStats) AddSample(c core.Spectrum) {
	if !c.IsFinite() {
		ps.Discarded++
		return
	}
	ps.ColorAccum = ps.ColorAccum.Add(c)
	luminance := c.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// Mean returns Σ L_i / N for this pixel, or black if no sample landed.
func (ps *PixelStats) Mean() core.Spectrum {
	if ps.SampleCount == 0 {
		return core.Spectrum{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// RelativeError returns the coefficient of variation of the pixel's
// accumulated luminance, used by the adaptive sampler to decide when a
// pixel has converged enough to stop spending further samples on it.
func (ps *PixelStats) RelativeError() float64 {
	if ps.SampleCount == 0 {
		return 1
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)
	if mean <= 1e-8 {
		return variance
	}
	return math.Sqrt(variance) / mean
}

// Film is the renderer's tone-neutral linear-RGB accumulator (spec §4.7):
// every pixel is written by exactly one tile/worker, so no per-pixel
// locking is required once tiles are partitioned (spec §5).
type Film struct {
	Width, Height int
	Pixels        [][]PixelStats
}

// NewFilm allocates a zeroed film of the given dimensions.
func NewFilm(width, height int) *Film {
	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}
	return &Film{Width: width, Height: height, Pixels: pixels}
}

// ToImage renders the film's linear radiance into a display-referred RGBA
// preview image: linear-to-sRGB encoding and [0,1] clamping are delegated
// to go-colorful's Color, which exists precisely for this linear/display
// RGB round-trip, before quantizing to 8 bits per channel. Gamma/tone
// mapping is explicitly the writer's concern (spec §4.7); the mandated EXR
// output instead writes Pixels' linear values directly, unencoded.
func (f *Film) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			mean := f.Pixels[y][x].Mean()
			display := colorful.LinearRgb(mean.X, mean.Y, mean.Z).Clamped()
			r, g, b := display.RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
