package syntax

import (
	"wyweb/internal/source"
)

type heapEntry struct {
	parent Item
	origin Item // item in the parent heap this one was derived from
	span   source.Span
	hasLoc bool
}

// Heap records ownership between the items of one compilation unit.
//
// Every item knows its parent inside the heap and optionally its own span.
// A heap derived from another one (IR built from an AST) chains to it, and
// its items may name the origin item they were lowered from.
type Heap struct {
	parent  *Heap
	entries map[Item]*heapEntry
}

// NewHeap creates an empty heap chained to parent (which may be nil).
func NewHeap(parent *Heap) *Heap {
	return &Heap{parent: parent, entries: make(map[Item]*heapEntry)}
}

// Parent returns the heap this one was derived from.
func (h *Heap) Parent() *Heap {
	if h == nil {
		return nil
	}
	return h.parent
}

// Len returns the number of items in the heap.
func (h *Heap) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

func (h *Heap) entry(it Item) *heapEntry {
	e, ok := h.entries[it]
	if !ok {
		e = &heapEntry{}
		h.entries[it] = e
	}
	return e
}

// Add registers it as a child of parent. parent may be nil for roots.
func (h *Heap) Add(it, parent Item) {
	h.entry(it).parent = parent
}

// AddSpan registers it as a child of parent located at sp.
func (h *Heap) AddSpan(it, parent Item, sp source.Span) {
	e := h.entry(it)
	e.parent = parent
	e.span = sp
	e.hasLoc = true
}

// SetSpan attaches a location to it.
func (h *Heap) SetSpan(it Item, sp source.Span) {
	e := h.entry(it)
	e.span = sp
	e.hasLoc = true
}

// SetOrigin records the item of the parent heap that it was derived from.
func (h *Heap) SetOrigin(it, origin Item) {
	h.entry(it).origin = origin
}

// Contains reports whether it belongs to h or to one of its ancestors.
func (h *Heap) Contains(it Item) bool {
	for cur := h; cur != nil; cur = cur.parent {
		if _, ok := cur.entries[it]; ok {
			return true
		}
	}
	return false
}

// ParentOf returns the parent of it within the heap that owns it.
func (h *Heap) ParentOf(it Item) (Item, bool) {
	for cur := h; cur != nil; cur = cur.parent {
		if e, ok := cur.entries[it]; ok {
			return e.parent, e.parent != nil
		}
	}
	return nil, false
}

// Enclosing returns the span of it or, when it has none, of its nearest
// ancestor that has one. Items without a location that were derived from an
// item of the parent heap continue the search there.
func (h *Heap) Enclosing(it Item) (source.Span, bool) {
	budget := 0
	for c := h; c != nil; c = c.parent {
		budget += len(c.entries) + 1
	}
	cur := h
	for steps := 0; cur != nil && it != nil && steps <= budget; steps++ {
		e, ok := cur.entries[it]
		if !ok {
			// не наш элемент: возможно, он живёт выше по цепочке
			cur = cur.parent
			continue
		}
		if e.hasLoc {
			return e.span, true
		}
		if e.origin != nil && cur.parent != nil {
			it = e.origin
			cur = cur.parent
			continue
		}
		it = e.parent
	}
	return source.Span{}, false
}
