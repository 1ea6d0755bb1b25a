// Package testkit holds checks shared by front-end tests.
package testkit

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"wyweb/internal/ast"
	"wyweb/internal/source"
	"wyweb/internal/syntax"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every top-level item span is non-empty and within the content
// 2) the heap resolves each item to its own span
// 3) top-level items do not overlap
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	if f.Heap == nil {
		return fmt.Errorf("file has no heap")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	type top struct {
		item syntax.Item
		span source.Span
	}
	var items []top
	for _, imp := range f.Imports {
		items = append(items, top{imp, imp.Span})
	}
	for _, td := range f.Types {
		items = append(items, top{td, td.Span})
	}
	for _, fn := range f.Funcs {
		items = append(items, top{fn, fn.Span})
	}
	if f.Main != nil && f.Main.Body != nil {
		for _, s := range f.Main.Body.Stmts {
			items = append(items, top{s, s.Pos()})
		}
	}

	for _, it := range items {
		sp := it.span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("item span end beyond content: %d > %d", sp.End, lenContent)
		}
		got, ok := f.Heap.Enclosing(it.item)
		if !ok || got != sp {
			return fmt.Errorf("heap resolves %T to %v, want %v", it.item, got, sp)
		}
	}

	slices.SortFunc(items, func(a, b top) int { return int(a.span.Start) - int(b.span.Start) })
	for i := 1; i < len(items); i++ {
		if prev := items[i-1].span; items[i].span.Start < prev.End {
			return fmt.Errorf("item span %v overlaps %v", items[i].span, prev)
		}
	}
	return nil
}
