package media

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// DensityGrid is a 3D grid of scalar density values in [0,1] defined over
// object space [0,1]^3, trilinearly interpolated (spec §4.5).
type DensityGrid struct {
	NX, NY, NZ int
	Values     []float64 // NX*NY*NZ, x-fastest
}

func (g *DensityGrid) at(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= g.NX || y >= g.NY || z >= g.NZ {
		return 0
	}
	return g.Values[(z*g.NY+y)*g.NX+x]
}

// density trilinearly interpolates at a point in object-space [0,1]^3.
func (g *DensityGrid) density(p core.Vec3) float64 {
	if g.NX == 0 || g.NY == 0 || g.NZ == 0 {
		return 0
	}
	fx := p.X*float64(g.NX) - 0.5
	fy := p.Y*float64(g.NY) - 0.5
	fz := p.Z*float64(g.NZ) - 0.5

	x0, y0, z0 := int(math.Floor(fx)), int(math.Floor(fy)), int(math.Floor(fz))
	dx, dy, dz := fx-float64(x0), fy-float64(y0), fz-float64(z0)

	lerp := func(a, b, t float64) float64 { return a + t*(b-a) }

	c00 := lerp(g.at(x0, y0, z0), g.at(x0+1, y0, z0), dx)
	c10 := lerp(g.at(x0, y0+1, z0), g.at(x0+1, y0+1, z0), dx)
	c01 := lerp(g.at(x0, y0, z0+1), g.at(x0+1, y0, z0+1), dx)
	c11 := lerp(g.at(x0, y0+1, z0+1), g.at(x0+1, y0+1, z0+1), dx)

	c0 := lerp(c00, c10, dy)
	c1 := lerp(c01, c11, dy)
	return lerp(c0, c1, dz)
}

// Heterogeneous is a grid-density medium. WorldToObject maps a world-space
// point to the grid's object-space [0,1]^3; ray segments are tracked with
// delta tracking (free-flight sampling) and ratio tracking (transmittance
// estimation) against a bounding majorant SigmaMaj, per spec §4.5.
type Heterogeneous struct {
	Grid           *DensityGrid
	SigmaA, SigmaS core.Spectrum // coefficients at density == 1
	SigmaMaj       float64       // majorant: max possible sigma_t anywhere in the grid
	WorldToObject  func(core.Vec3) core.Vec3
	phase          *HenyeyGreenstein
}

// NewHeterogeneous builds a grid medium; sigmaMaj must bound
// max(density)*max(sigmaA+sigmaS) over the whole grid.
func NewHeterogeneous(grid *DensityGrid, sigmaA, sigmaS core.Vec3, sigmaMaj float64, g float64, worldToObject func(core.Vec3) core.Vec3) *Heterogeneous {
	return &Heterogeneous{
		Grid: grid, SigmaA: sigmaA, SigmaS: sigmaS, SigmaMaj: sigmaMaj,
		WorldToObject: worldToObject, phase: NewHenyeyGreenstein(g),
	}
}

func (h *Heterogeneous) Phase() core.PhaseFunction { return h.phase }

func (h *Heterogeneous) sigmaTAt(worldPoint core.Vec3) core.Spectrum {
	d := h.Grid.density(h.WorldToObject(worldPoint))
	return h.SigmaA.Add(h.SigmaS).Multiply(d)
}

// Transmittance estimates exp(-integral sigma_t) via ratio tracking:
// multiply by (1 - sigma_t(x)/sigma_maj) at each majorant-spaced step and
// use Russian roulette on the accumulated weight to bound the walk length.
func (h *Heterogeneous) Transmittance(ray core.Ray, sampler core.Sampler) core.Spectrum {
	if h.SigmaMaj <= 0 {
		return core.Spectrum{X: 1, Y: 1, Z: 1}
	}
	segLen := segmentLength(ray)
	tr := core.Spectrum{X: 1, Y: 1, Z: 1}
	t := 0.0

	for {
		u := sampler.Get1D()
		t -= math.Log(1-u) / h.SigmaMaj
		if t >= segLen {
			break
		}
		p := ray.Origin.Add(ray.Direction.Multiply(ray.TMin + t))
		sigmaT := h.sigmaTAt(p)
		ratio := core.Spectrum{
			X: 1 - sigmaT.X/h.SigmaMaj,
			Y: 1 - sigmaT.Y/h.SigmaMaj,
			Z: 1 - sigmaT.Z/h.SigmaMaj,
		}
		tr = tr.MultiplyVec(ratio)

		// Russian roulette once throughput drops low, to keep the walk
		// bounded in near-opaque regions.
		maxComp := tr.MaxComponent()
		if maxComp < 0.05 {
			q := math.Max(0.05, 1-maxComp)
			if sampler.Get1D() < q {
				return core.Spectrum{}
			}
			tr = tr.Multiply(1 / (1 - q))
		}
	}
	return tr
}

// Sample performs delta tracking: step by exponential(sigma_maj) distances
// and stochastically accept a real collision with probability
// sigma_t(x)/sigma_maj, else continue (null collision).
func (h *Heterogeneous) Sample(ray core.Ray, sampler core.Sampler) (*core.MediumInteraction, core.Spectrum) {
	if h.SigmaMaj <= 0 {
		return nil, core.Spectrum{X: 1, Y: 1, Z: 1}
	}
	segLen := segmentLength(ray)
	t := 0.0

	for {
		u := sampler.Get1D()
		t -= math.Log(1-u) / h.SigmaMaj
		if t >= segLen {
			return nil, core.Spectrum{X: 1, Y: 1, Z: 1}
		}

		p := ray.Origin.Add(ray.Direction.Multiply(ray.TMin + t))
		sigmaT := h.sigmaTAt(p)
		maxSigmaT := math.Max(sigmaT.X, math.Max(sigmaT.Y, sigmaT.Z))
		pCollide := maxSigmaT / h.SigmaMaj

		if sampler.Get1D() < pCollide {
			mi := &core.MediumInteraction{
				Point:  p,
				Wo:     ray.Direction.Negate(),
				Medium: h,
				Phase:  h.phase,
			}
			sigmaS := h.SigmaS.Multiply(h.Grid.density(h.WorldToObject(p)))
			weight := sigmaS.Multiply(1 / maxSigmaT)
			return mi, weight
		}
		// null collision: continue the walk from here, weight is 1 (delta
		// tracking's null-collision weight cancels against sigma_maj).
	}
}
