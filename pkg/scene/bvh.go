package scene

import (
	"container/heap"
	"math"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Leaf threshold: if we have this many or fewer objects, store them in a leaf node
const leafThreshold = 4

// boxPadding keeps node boxes conservative against rounding in shape intersection
const boxPadding = 1e-9

// bvhNode is a node of the flattened tree. Leaves reference a range of BVH.order.
type bvhNode struct {
	box         core.AABB
	left, right int // Child node indices, -1 for leaves
	start, end  int // Range in order for leaves
}

func (n bvhNode) isLeaf() bool {
	return n.left < 0
}

// BVH is a balanced bounding volume hierarchy over scene objects,
// queried by best-first search. It is immutable after construction.
type BVH struct {
	objects []Object
	nodes   []bvhNode
	order   []int // Object indices, grouped by leaf
}

// NewBVH constructs a BVH over objects. The slice is not modified.
func NewBVH(objects []Object) *BVH {
	bvh := &BVH{objects: objects}
	if len(objects) == 0 {
		return bvh
	}

	boxes := make([]core.AABB, len(objects))
	bvh.order = make([]int, len(objects))
	for i, object := range objects {
		boxes[i] = object.BoundingBox().Expand(boxPadding)
		bvh.order[i] = i
	}

	bvh.build(boxes, 0, len(objects))
	return bvh
}

// build recursively splits order[start:end] at the median along the longest
// axis of the centroid spread and returns the index of the new node
func (bvh *BVH) build(boxes []core.AABB, start, end int) int {
	box := boxes[bvh.order[start]]
	centroids := core.NewAABBFromPoints(box.Center())
	for _, idx := range bvh.order[start+1 : end] {
		box = box.Union(boxes[idx])
		centroids = centroids.Union(core.NewAABBFromPoints(boxes[idx].Center()))
	}

	nodeIndex := len(bvh.nodes)
	bvh.nodes = append(bvh.nodes, bvhNode{box: box, left: -1, right: -1, start: start, end: end})

	// Base case: few objects - create leaf node with all of them
	if end-start <= leafThreshold {
		return nodeIndex
	}

	axis := centroids.LongestAxis()
	span := bvh.order[start:end]
	sort.SliceStable(span, func(i, j int) bool {
		return boxes[span[i]].Center().Axis(axis) < boxes[span[j]].Center().Axis(axis)
	})

	mid := start + (end-start)/2
	left := bvh.build(boxes, start, mid)
	right := bvh.build(boxes, mid, end)
	bvh.nodes[nodeIndex].left = left
	bvh.nodes[nodeIndex].right = right
	return nodeIndex
}

// Hit is the nearest intersection found in a scene
type Hit struct {
	Index        int // Index of the object in the scene
	Object       *Object
	Intersection geometry.Intersection
}

// NearestHit returns the globally nearest hit along ray. Nodes are expanded
// in order of their ray entry distance; subtrees that the ray misses or that
// start beyond the best hit so far are never visited.
func (bvh *BVH) NearestHit(ray core.Ray, sampler core.Sampler) (Hit, bool) {
	if len(bvh.nodes) == 0 {
		return Hit{}, false
	}

	best := math.Inf(1)
	result := Hit{Index: -1}

	entry, ok := bvh.nodes[0].box.Entry(ray, best)
	if !ok {
		return Hit{}, false
	}

	queue := make(nodeQueue, 0, 16)
	heap.Push(&queue, queuedNode{node: 0, distance: entry})

	for queue.Len() > 0 {
		item := heap.Pop(&queue).(queuedNode)
		if item.distance >= best {
			break
		}

		node := bvh.nodes[item.node]
		if node.isLeaf() {
			for _, idx := range bvh.order[node.start:node.end] {
				object := &bvh.objects[idx]
				if hit, ok := object.Intersect(ray, sampler); ok && hit.T < best {
					best = hit.T
					result = Hit{Index: idx, Object: object, Intersection: hit}
				}
			}
			continue
		}

		for _, child := range [2]int{node.left, node.right} {
			if distance, ok := bvh.nodes[child].box.Entry(ray, best); ok {
				heap.Push(&queue, queuedNode{node: child, distance: distance})
			}
		}
	}

	return result, result.Index >= 0
}

// LinearNearestHit tests every object and returns the nearest hit.
// It defines the result NearestHit must reproduce.
func LinearNearestHit(objects []Object, ray core.Ray, sampler core.Sampler) (Hit, bool) {
	best := math.Inf(1)
	result := Hit{Index: -1}
	for i := range objects {
		if hit, ok := objects[i].Intersect(ray, sampler); ok && hit.T < best {
			best = hit.T
			result = Hit{Index: i, Object: &objects[i], Intersection: hit}
		}
	}
	return result, result.Index >= 0
}

// queuedNode is a pending node keyed by its ray entry distance
type queuedNode struct {
	node     int
	distance float64
}

// nodeQueue is a min-heap of queuedNode ordered by distance
type nodeQueue []queuedNode

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].distance < q[j].distance }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(queuedNode)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes   int
	LeafNodes    int
	MaxDepth     int
	AvgDepth     float64
	TotalObjects int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	if len(bvh.nodes) == 0 {
		return stats
	}

	bvh.collectStats(0, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(index, depth int, stats *BVHStats) {
	node := bvh.nodes[index]
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.isLeaf() {
		stats.LeafNodes++
		stats.TotalObjects += node.end - node.start
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}

	bvh.collectStats(node.left, depth+1, stats)
	bvh.collectStats(node.right, depth+1, stats)
}

// Bounds returns the box around every object, or false for an empty tree
func (bvh *BVH) Bounds() (core.AABB, bool) {
	if len(bvh.nodes) == 0 {
		return core.AABB{}, false
	}
	return bvh.nodes[0].box, true
}
