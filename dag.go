package paf

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/kendru/darwin/go/depgraph"
)

// rootNode is a synthetic node every registered stat depends on, so that a
// stat with zero Requires still appears as a vertex in the underlying
// depgraph.Graph (which only materializes a node the first time it's
// named in a DependOn call). It never appears in Graph.Order.
const rootNode = "\x00root"

// Graph is the fully validated, topologically ordered set of registered
// stat functions (spec.md §4.2, "build_typed_dag").
type Graph struct {
	byName      map[string]StatFunc
	provides    map[string]string  // slot name -> providing stat name
	providesKey map[string]StatKey // slot name -> the StatKey as declared by its provider
	order       []string           // stat names, dependency order
	depgraph    *depgraph.Graph

	// Warnings collects advisory provider/consumer type mismatches found
	// while building the edge set (spec.md §4.2 step 2, §7 "Type mismatch
	// (advisory)"). These never fail construction.
	Warnings []error
}

// Order returns the stat names in dependency order: every stat appears
// after all stats whose Provides it Requires.
func (g *Graph) Order() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// StatByName looks up a registered StatFunc.
func (g *Graph) StatByName(name string) (StatFunc, bool) {
	sf, ok := g.byName[name]
	return sf, ok
}

// ProviderOf returns the name of the stat that provides slotName, if any.
func (g *Graph) ProviderOf(slotName string) (string, bool) {
	name, ok := g.provides[slotName]
	return name, ok
}

// BuildGlobalOrder validates a set of stat functions and orders them
// topologically: every Requires slot (other than the three raw-data
// markers) must be provided by exactly one StatFunc, and the resulting
// dependency graph must be acyclic (spec.md §4.2).
//
// The ordering itself is delegated to depgraph's Kahn's-algorithm
// implementation; cycle detection is performed separately beforehand so
// that a cycle can be reported as a full named path (CycleError), which
// is more actionable than a bare "cycle detected".
func BuildGlobalOrder(funcs []StatFunc) (*Graph, error) {
	var merr *multierror.Error

	byName := make(map[string]StatFunc, len(funcs))
	provides := make(map[string]string)
	providesKey := make(map[string]StatKey)
	providedBy := make(map[string][]string)
	providedKeysBySlot := make(map[string][]StatKey)

	for _, sf := range funcs {
		if existing, ok := byName[sf.Name]; ok {
			merr = multierror.Append(merr, &DuplicateProviderError{
				SlotName:  sf.Name,
				StatNames: []string{existing.Name, sf.Name},
			})
			continue
		}
		byName[sf.Name] = sf
		for _, p := range sf.Provides {
			providedBy[p.Name] = append(providedBy[p.Name], sf.Name)
			providedKeysBySlot[p.Name] = append(providedKeysBySlot[p.Name], p)
		}
	}

	for slot, names := range providedBy {
		if len(names) > 1 {
			sorted := append([]string(nil), names...)
			sort.Strings(sorted)
			merr = multierror.Append(merr, &DuplicateProviderError{SlotName: slot, StatNames: sorted})
			continue
		}
		provides[slot] = names[0]
		providesKey[slot] = providedKeysBySlot[slot][0]
	}

	// requirement edges: stat name -> set of stat names it depends on.
	// Iterated in sorted stat-name order so Warnings (like Order) comes
	// out deterministic across calls with identical inputs (spec.md §8,
	// "Pipeline construction is deterministic").
	var warnings []error
	edges := make(map[string][]string, len(byName))
	sortedStatNames := make([]string, 0, len(byName))
	for name := range byName {
		sortedStatNames = append(sortedStatNames, name)
	}
	sort.Strings(sortedStatNames)
	for _, name := range sortedStatNames {
		sf := byName[name]
		for _, req := range sf.Requires {
			if req.isRawMarker() {
				continue
			}
			provider, ok := provides[req.Name]
			if !ok {
				merr = multierror.Append(merr, &MissingProviderError{StatName: name, SlotName: req.Name})
				continue
			}
			edges[name] = append(edges[name], provider)

			// Advisory type-compatibility check (spec.md §4.2 step 2): a
			// mismatch never fails construction, it is only collected for
			// Graph.Warnings / Pipeline.Warnings.
			provided := providesKey[req.Name]
			if req.Type != nil && req.Type != Any && provided.Type != nil && provided.Type != Any {
				if !provided.Type.AssignableTo(req.Type) {
					warnings = append(warnings, &TypeMismatchWarning{
						StatName:     name,
						SlotName:     req.Name,
						ProvidedType: provided.Type.String(),
						RequiredType: req.Type.String(),
					})
				}
			}
		}
	}

	if merr.ErrorOrNil() != nil {
		return nil, &DAGConfigError{Causes: merr.Errors}
	}

	if cyc := findCycle(edges); cyc != nil {
		return nil, &DAGConfigError{Causes: []error{&CycleError{Path: cyc}}}
	}

	dg := depgraph.New()
	for _, name := range sortedStatNames {
		deps := append([]string(nil), edges[name]...)
		sort.Strings(deps)
		if len(deps) == 0 {
			_ = dg.DependOn(name, rootNode)
			continue
		}
		for _, dep := range deps {
			_ = dg.DependOn(name, dep)
		}
	}

	order := make([]string, 0, len(byName))
	for _, layer := range dg.TopoSortedLayers() {
		sorted := append([]string(nil), layer...)
		sort.Strings(sorted)
		for _, n := range sorted {
			if n == rootNode {
				continue
			}
			order = append(order, n)
		}
	}

	return &Graph{
		byName:      byName,
		provides:    provides,
		providesKey: providesKey,
		order:       order,
		depgraph:    dg,
		Warnings:    warnings,
	}, nil
}

// findCycle runs a DFS over the requirement graph (stat name -> required
// stat names) and returns the first cycle found as a path of stat names,
// or nil if the graph is acyclic. Adapted from the path-tracking cycle
// search pattern of detecting dependency cycles via recursive DFS.
func findCycle(edges map[string][]string) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = gray
		path = append(path, n)
		for _, dep := range edges[n] {
			switch color[dep] {
			case gray:
				// Found the cycle: path from dep's first occurrence to n, plus dep again.
				start := 0
				for i, p := range path {
					if p == dep {
						start = i
						break
					}
				}
				cycle = append(append([]string(nil), path[start:]...), dep)
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return false
	}

	names := make([]string, 0, len(edges))
	for n := range edges {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if color[n] == white {
			if visit(n) {
				return cycle
			}
		}
	}
	return nil
}
