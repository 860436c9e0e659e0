package cribo

import "github.com/cribo-go/cribo/pkg/pyast"

// indexRangeSize bounds how many nodes a single input module may contribute
// before the allocator's reserved range for it is exhausted. Chosen generous
// enough that no realistic module collides with it; the invariant is checked, not
// merely assumed, so an overflow is visible rather than silently wrapping
// into another module's range.
const indexRangeSize = 1_000_000

// TransformContext is the monotonic node-index allocator. Each
// input module is reserved a disjoint range [moduleID*R, moduleID*R+R) at
// indexing time; indices allocated afterwards, for nodes
// synthesized during inlining/wrapping/namespace planning, begin above the
// last such range.
type TransformContext struct {
	synthetic int
}

// NewTransformContext constructs an allocator with no reserved ranges yet.
func NewTransformContext() *TransformContext {
	return &TransformContext{}
}

// ReserveModuleRange stamps every node in a module's existing body with the
// next available index in that module's reserved range, and advances the
// allocator's high-water mark so later synthetic allocations never collide
// with it.
func (t *TransformContext) ReserveModuleRange(moduleID int, body []pyast.Stmt) {
	base := moduleID * indexRangeSize
	// Index 0 means "unstamped", so the range's first index is never used.
	next := base + 1

	for _, s := range body {
		next = t.stampTree(s, next, base+indexRangeSize)
	}

	if end := base + indexRangeSize; end > t.synthetic {
		t.synthetic = end
	}
}

// stampTree stamps n and every descendant using sequential indices starting
// at next. Panics if the reserved range is exhausted, since that is an
// allocator-sizing bug, not a property of input data.
func (t *TransformContext) stampTree(n pyast.Node, next, limit int) int {
	if n == nil {
		return next
	}

	if next >= limit {
		panic("transform context: module index range exhausted")
	}

	n.SetIndex(next)
	next++

	for _, child := range pyast.Children(n) {
		next = t.stampTree(child, next, limit)
	}

	return next
}

// StampSynthetic assigns n, and every unstamped descendant of it, the next
// free indices above every reserved module range and every
// previously-allocated synthetic index.
func (t *TransformContext) StampSynthetic(n pyast.Node) {
	if n == nil {
		return
	}

	if n.Index() == 0 {
		t.synthetic++
		n.SetIndex(t.synthetic)
	}

	for _, child := range pyast.Children(n) {
		t.StampSynthetic(child)
	}
}
