package quantize

import (
	"container/heap"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

// octreeReducer implements octree color quantization: colors are inserted
// into an 8-way tree keyed by successive RGB bit planes (most significant
// first), then leaves are merged bottom-up, reducible-level first, until
// the leaf count reaches n.
//
// Grounded on willibrandon-aseprite-mcp's pkg/aseprite/quantization.go
// octreeNode: the same eight-children-indexed-by-3-bit-RGB layout and
// reduce-the-deepest-level-first merge order, adapted here to consume a
// weighted histogram instead of walking raw pixels.
type octreeReducer struct{}

// NewOctree builds the octree Quantizer.
func NewOctree() *Quantizer { return New("Octree", octreeReducer{}) }

const octreeMaxDepth = 8

type octreeNode struct {
	children [8]*octreeNode
	isLeaf   bool
	rSum, gSum, bSum, count uint64
	level    int
}

type octreeBuilder struct {
	root      *octreeNode
	levels    [octreeMaxDepth]nodeHeap // reducible nodes per depth, min-heap by combinedWeight
	heapified [octreeMaxDepth]bool
	leafCount int
}

// nodeHeap is a container/heap min-heap of octree nodes ordered by
// combinedWeight. Every node's weight is fixed by the time its level is
// first heapified: reduceOneLevel always drains a level fully before
// touching its parent level, so a node's children (in the level below)
// never change underneath it once merging of its own level begins.
type nodeHeap []*octreeNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return combinedWeight(h[i]) < combinedWeight(h[j]) }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*octreeNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

func newOctreeBuilder() *octreeBuilder {
	return &octreeBuilder{root: &octreeNode{}}
}

func octreeIndex(c metric.RGBA, level int) int {
	shift := 7 - level
	r := (c.R >> uint(shift)) & 1
	g := (c.G >> uint(shift)) & 1
	b := (c.B >> uint(shift)) & 1
	return int(r)<<2 | int(g)<<1 | int(b)
}

func (ob *octreeBuilder) insert(c metric.RGBA, weight uint32) {
	node := ob.root
	for level := 0; level < octreeMaxDepth; level++ {
		if node.count > 0 && node.children == [8]*octreeNode{} {
			// A node that already holds a count gets no special
			// handling here: every insert descends all octreeMaxDepth
			// levels.
		}
		idx := octreeIndex(c, level)
		child := node.children[idx]
		if child == nil {
			child = &octreeNode{level: level + 1}
			node.children[idx] = child
			if level+1 < octreeMaxDepth {
				ob.levels[level+1] = append(ob.levels[level+1], child)
			}
		}
		node = child
	}
	node.isLeaf = true
	node.rSum += uint64(c.R) * uint64(weight)
	node.gSum += uint64(c.G) * uint64(weight)
	node.bSum += uint64(c.B) * uint64(weight)
	node.count += uint64(weight)
}

// combinedWeight returns the total count n's children would contribute if
// merged into n, i.e. the weight of the resulting leaf.
func combinedWeight(n *octreeNode) uint64 {
	var total uint64
	for _, c := range n.children {
		if c != nil {
			total += c.count
		}
	}
	return total
}

// reduceOneLevel merges the deepest populated level's smallest-combined-
// weight node's children back into it, turning it into a leaf, per spec
// §4.4 ("merge the deepest internal node with smallest combined weight").
//
// Each level is kept as a container/heap min-heap ordered by combinedWeight,
// heapified lazily the first time it's drained, so repeated extraction of
// the lightest node is O(log m) instead of an O(m) rescan-plus-shift —
// turning whole-level reduction into O(m log m) rather than O(m^2).
func (ob *octreeBuilder) reduceOneLevel() bool {
	for level := octreeMaxDepth - 1; level >= 1; level-- {
		if len(ob.levels[level]) == 0 {
			continue
		}
		if !ob.heapified[level] {
			heap.Init(&ob.levels[level])
			ob.heapified[level] = true
		}

		parent := heap.Pop(&ob.levels[level]).(*octreeNode)
		parent.isLeaf = true
		for i, c := range parent.children {
			if c == nil {
				continue
			}
			parent.rSum += c.rSum
			parent.gSum += c.gSum
			parent.bSum += c.bSum
			parent.count += c.count
			parent.children[i] = nil
		}
		return true
	}
	return false
}

func (ob *octreeBuilder) collectLeaves(n *octreeNode, out *[]metric.RGBA) {
	if n == nil {
		return
	}
	if n.isLeaf && n.count > 0 {
		*out = append(*out, metric.RGBA{
			A: 255,
			R: uint8(n.rSum / n.count),
			G: uint8(n.gSum / n.count),
			B: uint8(n.bSum / n.count),
		})
		return
	}
	for _, c := range n.children {
		ob.collectLeaves(c, out)
	}
}

func (ob *octreeBuilder) countLeaves(n *octreeNode) int {
	if n == nil {
		return 0
	}
	if n.isLeaf {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += ob.countLeaves(c)
	}
	return total
}

func (octreeReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	ob := newOctreeBuilder()
	for _, cc := range hist {
		ob.insert(cc.Color, cc.Count)
	}

	for ob.countLeaves(ob.root) > n {
		if !ob.reduceOneLevel() {
			break
		}
	}

	var out []metric.RGBA
	ob.collectLeaves(ob.root, &out)
	return out
}
