// Package dot renders a stat DAG as Graphviz DOT text. Adapted from
// go.uber.org/dig's internal/dot package, which renders a constructor
// dependency graph the same way; here the nodes are stat functions and
// slots rather than constructors and types.
package dot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Node is one slot (a Requires or Provides entry) in the graph.
type Node struct {
	Name string
}

func (n *Node) String() string {
	return n.Name
}

// Stat is one stat function's edges: the slots it requires and the slots
// it provides.
type Stat struct {
	Name         string
	RegisteredAt string
	Requires     []*Node
	Provides     []*Node
	Failed       bool
}

// Graph is the DOT-format graph of an entire stat DAG.
type Graph struct {
	Stats []*Stat
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddStat registers one stat's edges in the graph.
func (g *Graph) AddStat(s *Stat) {
	g.Stats = append(g.Stats, s)
}

// Render writes dg as "digraph { ... }" DOT text.
func Render(dg *Graph) string {
	var b strings.Builder
	b.WriteString("digraph {\n\trankdir=LR;\n")

	stats := append([]*Stat(nil), dg.Stats...)
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

	for _, s := range stats {
		color := "black"
		if s.Failed {
			color = "red"
		}
		fmt.Fprintf(&b, "\t%s [shape=box color=%s];\n", strconv.Quote(s.Name), color)
		for _, r := range s.Requires {
			fmt.Fprintf(&b, "\t%s -> %s;\n", strconv.Quote(r.Name), strconv.Quote(s.Name))
		}
		for _, p := range s.Provides {
			fmt.Fprintf(&b, "\t%s -> %s;\n", strconv.Quote(s.Name), strconv.Quote(p.Name))
		}
	}

	b.WriteString("}")
	return b.String()
}
