// Package accel implements the bounding volume hierarchy the Scene uses for
// ray queries (spec §4.2). It is grounded on the teacher's
// pkg/core/bvh.go median-split builder, generalized to build over
// core.Primitive (shape + bound material/emitter/medium) rather than bare
// shapes, and rewritten to use SAH binning with a median-split fallback and
// an explicit-stack traversal instead of recursion, per spec's numerical
// policy.
package accel

import (
	"sort"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// leafThreshold is the primitive count at or below which a node becomes a
// leaf rather than splitting further.
const leafThreshold = 4

// maxStackDepth bounds the explicit traversal stack; BVH depth is bounded by
// construction (spec §3 BVH node invariant: "tree depth bounded").
const maxStackDepth = 64

// sahBins is the number of centroid bins evaluated per axis when scoring
// SAH splits.
const sahBins = 12

// node is a BVH node: either an interior node (left/right child indices,
// split axis) or a leaf (primitive range), per spec §3.
type node struct {
	bounds       core.AABB
	left, right  int32 // child node indices; right == -1 for leaves
	splitAxis    int8
	primStart    int32
	primCount    int32
}

// BVH is a read-only-after-build spatial index over scene primitives.
type BVH struct {
	nodes      []node
	primitives []*core.Primitive // reordered to match leaf ranges

	// WorldCenter/WorldRadius describe the finite scene bounds (excluding
	// primitives with very large extents, e.g. ground planes), used by
	// environment/infinite emitters to convert a solid-angle pdf or to pick
	// a bounding sphere for power estimates.
	WorldCenter core.Vec3
	WorldRadius float64
}

// Build constructs a BVH over the given primitives using SAH binning with a
// median-split fallback when the SAH gain is below threshold.
func Build(primitives []*core.Primitive) *BVH {
	b := &BVH{}
	if len(primitives) == 0 {
		return b
	}

	items := make([]buildItem, len(primitives))
	for i, p := range primitives {
		bb := p.Shape.BoundingBox()
		items[i] = buildItem{prim: p, bounds: bb, centroid: bb.Center()}
	}

	b.primitives = make([]*core.Primitive, 0, len(primitives))
	b.nodes = make([]node, 0, 2*len(primitives))
	b.buildRecursive(items, 0)

	b.WorldCenter, b.WorldRadius = finiteWorldBounds(primitives)
	return b
}

type buildItem struct {
	prim     *core.Primitive
	bounds   core.AABB
	centroid core.Vec3
}

// buildRecursive appends nodes in preorder and returns the index of the node
// it created for items. Nodes at depth maxStackDepth-2 become leaves so the
// traversal stack can never overflow.
func (b *BVH) buildRecursive(items []buildItem, depth int) int32 {
	bounds := items[0].bounds
	for _, it := range items[1:] {
		bounds = bounds.Union(it.bounds)
	}

	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, node{bounds: bounds})

	if len(items) <= leafThreshold || depth >= maxStackDepth-2 {
		b.makeLeaf(idx, items)
		return idx
	}

	axis, splitPos, ok := bestSAHSplit(items, bounds)
	if !ok {
		axis, splitPos = bounds.LongestAxis(), medianSplit(items, bounds.LongestAxis())
	}

	left, right := partition(items, axis, splitPos)
	if len(left) == 0 || len(right) == 0 {
		b.makeLeaf(idx, items)
		return idx
	}

	leftIdx := b.buildRecursive(left, depth+1)
	rightIdx := b.buildRecursive(right, depth+1)
	b.nodes[idx].left = leftIdx
	b.nodes[idx].right = rightIdx
	b.nodes[idx].splitAxis = int8(axis)
	b.nodes[idx].primCount = 0
	return idx
}

func (b *BVH) makeLeaf(idx int32, items []buildItem) {
	start := int32(len(b.primitives))
	for _, it := range items {
		b.primitives = append(b.primitives, it.prim)
	}
	b.nodes[idx].left = -1
	b.nodes[idx].right = -1
	b.nodes[idx].primStart = start
	b.nodes[idx].primCount = int32(len(items))
}

func medianSplit(items []buildItem, axis int) float64 {
	sorted := make([]float64, len(items))
	for i, it := range items {
		sorted[i] = axisValue(it.centroid, axis)
	}
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// bestSAHSplit bins primitive centroids along each axis and scores
// candidate splits with the surface-area heuristic, returning the best
// (axis, split position) if its estimated cost improves on a plain leaf.
func bestSAHSplit(items []buildItem, bounds core.AABB) (int, float64, bool) {
	type bin struct {
		bounds core.AABB
		count  int
		set    bool
	}

	bestCost := float64(len(items)) // cost of not splitting: one traversal step per primitive
	bestAxis := -1
	var bestSplit float64

	for axis := 0; axis < 3; axis++ {
		lo := axisValue(bounds.Min, axis)
		hi := axisValue(bounds.Max, axis)
		extent := hi - lo
		if extent <= 0 {
			continue
		}

		bins := make([]bin, sahBins)
		for _, it := range items {
			c := axisValue(it.centroid, axis)
			b := int(float64(sahBins) * (c - lo) / extent)
			if b >= sahBins {
				b = sahBins - 1
			}
			if b < 0 {
				b = 0
			}
			if !bins[b].set {
				bins[b].bounds = it.bounds
				bins[b].set = true
			} else {
				bins[b].bounds = bins[b].bounds.Union(it.bounds)
			}
			bins[b].count++
		}

		// Sweep prefix/suffix bounds to evaluate each of the sahBins-1
		// candidate split planes in O(sahBins).
		leftBounds := make([]core.AABB, sahBins)
		leftCount := make([]int, sahBins)
		var running core.AABB
		runningSet := false
		runningCount := 0
		for i := 0; i < sahBins; i++ {
			if bins[i].set {
				if !runningSet {
					running = bins[i].bounds
					runningSet = true
				} else {
					running = running.Union(bins[i].bounds)
				}
				runningCount += bins[i].count
			}
			leftBounds[i] = running
			leftCount[i] = runningCount
		}

		var rightRunning core.AABB
		rightRunningSet := false
		rightCount := 0
		for i := sahBins - 1; i >= 1; i-- {
			if bins[i].set {
				if !rightRunningSet {
					rightRunning = bins[i].bounds
					rightRunningSet = true
				} else {
					rightRunning = rightRunning.Union(bins[i].bounds)
				}
				rightCount += bins[i].count
			}
			if leftCount[i-1] == 0 || rightCount == 0 {
				continue
			}
			cost := (leftBounds[i-1].SurfaceArea()*float64(leftCount[i-1]) +
				rightRunning.SurfaceArea()*float64(rightCount)) / bounds.SurfaceArea()
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestSplit = lo + extent*float64(i)/float64(sahBins)
			}
		}
	}

	if bestAxis < 0 {
		return 0, 0, false
	}
	return bestAxis, bestSplit, true
}

func partition(items []buildItem, axis int, splitPos float64) ([]buildItem, []buildItem) {
	var left, right []buildItem
	for _, it := range items {
		if axisValue(it.centroid, axis) < splitPos {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}
	return left, right
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Intersect returns the nearest hit along the ray within [ray.TMin,
// ray.TMax], shrinking the traversal's effective TMax as closer hits are
// found (spec §4.2). Traversal uses a fixed-size explicit stack and orders
// children front-to-back by the ray direction's sign along each node's
// split axis.
func (b *BVH) Intersect(ray core.Ray) (*core.SurfaceInteraction, bool) {
	if len(b.nodes) == 0 {
		return nil, false
	}

	invDir, dirNeg := core.InvDir(ray.Direction)

	var stack [maxStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	var best *core.SurfaceInteraction
	tMax := ray.TMax

	for sp > 0 {
		sp--
		ni := stack[sp]
		n := &b.nodes[ni]

		testRay := ray
		testRay.TMax = tMax
		if !n.bounds.IntersectP(testRay, invDir, dirNeg) {
			continue
		}

		if n.left == -1 && n.right == -1 {
			for i := n.primStart; i < n.primStart+n.primCount; i++ {
				prim := b.primitives[i]
				pr := ray
				pr.TMax = tMax
				hit, ok := prim.Shape.Intersect(pr)
				if !ok {
					continue
				}
				tMax = hit.T
				best = toSurfaceInteraction(hit, prim, ray)
			}
			continue
		}

		// Push far child first so the near child is processed first
		// (front-to-back order), per the ray direction's sign along the
		// split axis.
		near, far := n.left, n.right
		if dirNeg[n.splitAxis] {
			near, far = far, near
		}
		if sp+2 <= maxStackDepth {
			stack[sp] = far
			sp++
			stack[sp] = near
			sp++
		}
	}

	return best, best != nil
}

// Occluded is an any-hit query that short-circuits at the first
// intersection found; used for shadow/visibility rays (spec §4.2).
func (b *BVH) Occluded(ray core.Ray) bool {
	if len(b.nodes) == 0 {
		return false
	}

	invDir, dirNeg := core.InvDir(ray.Direction)

	var stack [maxStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		ni := stack[sp]
		n := &b.nodes[ni]

		if !n.bounds.IntersectP(ray, invDir, dirNeg) {
			continue
		}

		if n.left == -1 && n.right == -1 {
			for i := n.primStart; i < n.primStart+n.primCount; i++ {
				if b.primitives[i].Shape.IntersectP(ray) {
					return true
				}
			}
			continue
		}

		if sp+2 <= maxStackDepth {
			stack[sp] = n.right
			sp++
			stack[sp] = n.left
			sp++
		}
	}
	return false
}

func toSurfaceInteraction(hit core.ShapeHit, prim *core.Primitive, ray core.Ray) *core.SurfaceInteraction {
	var resolved core.BSDF
	if prim.Material != nil {
		resolved = prim.Material.BSDFAt(hit.UV, hit.Point)
	}

	si := &core.SurfaceInteraction{
		Point:           hit.Point,
		GeometricNormal: hit.GeometricNormal,
		ShadingNormal:   hit.ShadingNormal,
		Frame:           core.NewFrameFromZ(hit.ShadingNormal),
		UV:              hit.UV,
		T:               hit.T,
		Wo:              ray.Direction.Negate(),
		Primitive:       prim,
		BSDF:            resolved,
		Emitter:         prim.Emitter,
		MediumInside:    prim.MediumInside,
		MediumOutside:   prim.MediumOutside,
	}
	return si
}

func finiteWorldBounds(primitives []*core.Primitive) (core.Vec3, float64) {
	var bounds core.AABB
	has := false
	for _, p := range primitives {
		bb := p.Shape.BoundingBox()
		size := bb.Size()
		if size.X > 1e5 || size.Y > 1e5 || size.Z > 1e5 {
			continue // skip unbounded ground planes etc.
		}
		if !has {
			bounds = bb
			has = true
		} else {
			bounds = bounds.Union(bb)
		}
	}
	if !has {
		return core.Vec3{}, 0
	}
	center := bounds.Center()
	radius := bounds.Max.Subtract(center).Length()
	return center, radius
}
