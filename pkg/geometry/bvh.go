package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Intersection is the nearest hit along a ray: a ray parameter and a handle
// into the primitive arena. A miss is T == NoHit, Prim == -1.
type Intersection struct {
	T    float64
	Prim int
}

// Miss is the intersection returned when nothing is hit
var Miss = Intersection{T: NoHit, Prim: -1}

// Hit reports whether the intersection refers to a primitive
func (i Intersection) Hit() bool {
	return i.Prim >= 0
}

// LeafPrimCount is the largest number of primitives stored in one leaf
const LeafPrimCount = 4

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Prims       []int // Arena handles for leaf nodes (nil for internal nodes)
}

// IsLeaf reports whether the node stores primitives directly
func (n *BVHNode) IsLeaf() bool {
	return n.Prims != nil
}

// BVH represents a Bounding Volume Hierarchy over a primitive arena
type BVH struct {
	Root  *BVHNode
	prims []Primitive
}

// NewBVH constructs a BVH over every primitive in the arena. The arena is
// shared, not copied, and must not change while the BVH is in use.
func NewBVH(prims []Primitive) *BVH {
	if len(prims) == 0 {
		return &BVH{Root: nil, prims: prims}
	}

	handles := make([]int, len(prims))
	for i := range handles {
		handles[i] = i
	}

	return &BVH{
		Root:  BuildTree(prims, handles),
		prims: prims,
	}
}

// BuildTree recursively builds a tree over the given handles using a median
// split along the axis with the widest spread of box centres. The handles
// slice is reordered in place.
func BuildTree(prims []Primitive, handles []int) *BVHNode {
	boundingBox := core.EmptyAABB()
	for _, h := range handles {
		boundingBox = boundingBox.Union(prims[h].BoundingBox())
	}

	if len(handles) <= LeafPrimCount {
		return &BVHNode{
			BoundingBox: boundingBox,
			Prims:       handles,
		}
	}

	axis := splitAxis(prims, handles)
	sortHandlesByAxis(prims, handles, axis)

	mid := len(handles) / 2
	left := BuildTree(prims, handles[:mid])
	right := BuildTree(prims, handles[mid:])

	return &BVHNode{
		BoundingBox: left.BoundingBox.Union(right.BoundingBox),
		Left:        left,
		Right:       right,
	}
}

// splitAxis returns the axis along which primitive box centres spread the
// most. The running min/max starts at the first centre, not the origin.
// Ties go to x, then y, then z.
func splitAxis(prims []Primitive, handles []int) int {
	first := prims[handles[0]].BoundingBox().Center()
	min, max := first, first

	for _, h := range handles[1:] {
		c := prims[h].BoundingBox().Center()
		min = core.NewVec3(math.Min(min.X, c.X), math.Min(min.Y, c.Y), math.Min(min.Z, c.Z))
		max = core.NewVec3(math.Max(max.X, c.X), math.Max(max.Y, c.Y), math.Max(max.Z, c.Z))
	}

	spread := max.Subtract(min)
	axis := 0
	if spread.Y > spread.Axis(axis) {
		axis = 1
	}
	if spread.Z > spread.Axis(axis) {
		axis = 2
	}
	return axis
}

// sortHandlesByAxis sorts handles by their bounding box centre along axis
func sortHandlesByAxis(prims []Primitive, handles []int, axis int) {
	sort.SliceStable(handles, func(i, j int) bool {
		ci := prims[handles[i]].BoundingBox().Center().Axis(axis)
		cj := prims[handles[j]].BoundingBox().Center().Axis(axis)
		return ci < cj
	})
}

// Intersect returns the nearest primitive hit along the ray
func (bvh *BVH) Intersect(ray core.Ray) Intersection {
	if bvh.Root == nil {
		return Miss
	}
	return bvh.hitNode(bvh.Root, ray, math.Inf(1))
}

// hitNode recursively tests ray intersection with BVH nodes. tMax only
// prunes boxes that start beyond the best hit found so far.
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMax float64) Intersection {
	if !node.BoundingBox.Hit(ray, tMax) {
		return Miss
	}

	if node.IsLeaf() {
		return nearest(bvh.prims, node.Prims, ray)
	}

	left := bvh.hitNode(node.Left, ray, tMax)
	closestSoFar := tMax
	if left.Hit() {
		closestSoFar = left.T
	}

	right := bvh.hitNode(node.Right, ray, closestSoFar)
	if right.Hit() && (!left.Hit() || right.T < left.T) {
		return right
	}
	return left
}

// nearest scans a handle list and keeps the smallest valid hit
func nearest(prims []Primitive, handles []int, ray core.Ray) Intersection {
	closest := Miss
	for _, h := range handles {
		t := prims[h].Intersect(ray)
		if t > core.Epsilon && (!closest.Hit() || t < closest.T) {
			closest = Intersection{T: t, Prim: h}
		}
	}
	return closest
}

// LinearIntersect tests every primitive in the arena; used when no BVH is
// built and as the reference for the tree
func LinearIntersect(prims []Primitive, ray core.Ray) Intersection {
	closest := Miss
	for h := range prims {
		t := prims[h].Intersect(ray)
		if t > core.Epsilon && (!closest.Hit() || t < closest.T) {
			closest = Intersection{T: t, Prim: h}
		}
	}
	return closest
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	AvgDepth    float64
	TotalPrims  int
	MaxLeafSize int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	collectStats(bvh.Root, 0, &stats)

	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.TotalPrims += len(node.Prims)
		stats.AvgDepth += float64(depth)
		if len(node.Prims) > stats.MaxLeafSize {
			stats.MaxLeafSize = len(node.Prims)
		}
		return
	}

	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
