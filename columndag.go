package paf

// ColumnGraph is the global Graph narrowed to the stats applicable to one
// column type: ColumnFilter is applied, then any stat left with an unmet
// requirement is cascaded out, repeating until the set is stable
// (spec.md §4.3, "build_column_dag").
type ColumnGraph struct {
	Order   []string
	byName  map[string]StatFunc
	Removed []string
}

// StatByName looks up a stat retained for this column type.
func (cg *ColumnGraph) StatByName(name string) (StatFunc, bool) {
	sf, ok := cg.byName[name]
	return sf, ok
}

// BuildColumnOrder narrows g to the stats whose ColumnFilter accepts
// colType (a nil ColumnFilter accepts every type), then removes, in
// cascading rounds, any remaining stat whose non-raw requirement is no
// longer provided because its provider was filtered out. The result
// preserves the global dependency order.
func BuildColumnOrder(g *Graph, colType ColumnType) *ColumnGraph {
	included := make(map[string]bool, len(g.order))
	for _, name := range g.order {
		sf := g.byName[name]
		if sf.ColumnFilter == nil || sf.ColumnFilter(colType) {
			included[name] = true
		}
	}

	removed := make(map[string]bool)
	for {
		changed := false
		for _, name := range g.order {
			if !included[name] {
				continue
			}
			sf := g.byName[name]
			for _, req := range sf.Requires {
				if req.isRawMarker() {
					continue
				}
				provider, ok := g.provides[req.Name]
				if !ok || !included[provider] {
					included[name] = false
					removed[name] = true
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	order := make([]string, 0, len(included))
	byName := make(map[string]StatFunc, len(included))
	for _, name := range g.order {
		if included[name] {
			order = append(order, name)
			byName[name] = g.byName[name]
		}
	}

	removedList := make([]string, 0, len(removed))
	for name := range removed {
		removedList = append(removedList, name)
	}

	return &ColumnGraph{Order: order, byName: byName, Removed: removedList}
}
