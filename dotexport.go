package paf

import "github.com/tabstat/paf/internal/dot"

// DOT renders the full global stat DAG as Graphviz DOT text, an
// enrichment of Explain() adapted from dig's Visualize/internal/dot
// machinery (SPEC_FULL.md §6).
func (p *Pipeline) DOT() string {
	return dot.Render(buildDotGraph(p.graph.Order(), p.graph))
}

// ColumnDOT renders the column-filtered DAG for dtype.
func (p *Pipeline) ColumnDOT(dtype ColumnType) string {
	cg := BuildColumnOrder(p.graph, dtype)
	return dot.Render(buildDotGraphColumn(cg))
}

func buildDotGraph(order []string, g *Graph) *dot.Graph {
	dg := dot.NewGraph()
	for _, name := range order {
		sf, _ := g.StatByName(name)
		dg.AddStat(statToDotNode(sf))
	}
	return dg
}

func buildDotGraphColumn(cg *ColumnGraph) *dot.Graph {
	dg := dot.NewGraph()
	for _, name := range cg.Order {
		sf, _ := cg.StatByName(name)
		dg.AddStat(statToDotNode(sf))
	}
	return dg
}

func statToDotNode(sf StatFunc) *dot.Stat {
	reqs := make([]*dot.Node, 0, len(sf.Requires))
	for _, r := range sf.Requires {
		reqs = append(reqs, &dot.Node{Name: r.Name})
	}
	provs := make([]*dot.Node, 0, len(sf.Provides))
	for _, p := range sf.Provides {
		provs = append(provs, &dot.Node{Name: p.Name})
	}
	return &dot.Stat{
		Name:         sf.Name,
		RegisteredAt: sf.registeredAt,
		Requires:     reqs,
		Provides:     provs,
	}
}
