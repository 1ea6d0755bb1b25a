package bundle

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"fortio.org/safecast"
)

// ModuleID indexes modules in path order.
type ModuleID uint32

type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex assigns ids to the sorted module paths.
func BuildIndex(paths []string) ModuleIndex {
	sorted := slices.Clone(paths)
	sort.Strings(sorted)
	sorted = slices.Compact(sorted)
	idx := ModuleIndex{
		NameToID: make(map[string]ModuleID, len(sorted)),
		IDToName: sorted,
	}
	for i, p := range sorted {
		idx.NameToID[p] = ModuleID(i)
	}
	return idx
}

// Graph points from a module to the modules importing it, so Kahn's order
// yields dependencies first.
type Graph struct {
	Edges [][]ModuleID // Edges[dep] = []importer
	Indeg []int        // число импортов модуля внутри бандла
}

// BuildGraph links modules by their imports. Imports of modules outside the
// index are an error, so are self imports.
func BuildGraph(idx ModuleIndex, imports map[string][]string) (Graph, error) {
	n := len(idx.IDToName)
	g := Graph{Edges: make([][]ModuleID, n), Indeg: make([]int, n)}
	for from, name := range idx.IDToName {
		seen := make(map[ModuleID]struct{}, len(imports[name]))
		for _, dep := range imports[name] {
			to, ok := idx.NameToID[dep]
			if !ok {
				return Graph{}, fmt.Errorf("module %q imports unknown module %q", name, dep)
			}
			if int(to) == from {
				return Graph{}, fmt.Errorf("module %q imports itself", name)
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[to] = append(g.Edges[to], ModuleID(from))
			g.Indeg[from]++
		}
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g, nil
}

type Topo struct {
	Order   []ModuleID   // линейный порядок
	Batches [][]ModuleID // волны независимых модулей
	Cyclic  bool
	Cycles  []ModuleID // узлы, оставшиеся в цикле
}

// ToposortKahn orders g in batches; each batch depends only on earlier ones.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Edges)
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]ModuleID, 0, n)}

	current := make([]ModuleID, 0, n)
	for i := range n {
		if indeg[i] == 0 {
			current = append(current, mustID(i))
		}
	}

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)
		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != n {
		topo.Cyclic = true
		for i := range n {
			if indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, mustID(i))
			}
		}
	}
	return topo
}

// CycleError names the modules left in a cycle.
func (idx ModuleIndex) CycleError(t *Topo) error {
	names := make([]string, len(t.Cycles))
	for i, id := range t.Cycles {
		names[i] = idx.IDToName[int(id)]
	}
	return fmt.Errorf("import cycle among %s", strings.Join(names, ", "))
}

func mustID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}
