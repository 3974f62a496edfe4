// Package ganalyze implements the graph structural analysis operations of
// spec §4.3: connected components, source→sink path counting, EASY/HARD
// classification, and nested-DAG detection.
package ganalyze

import (
	"sort"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/grailbio/scallop/sgraph"
)

// ConnectedComponents returns a partition of vertex ids into sets, each set
// being one connected component of g's undirected projection (spec §4.3).
// Grounded on gonum/graph/topo.ConnectedComponents, the idiomatic choice
// demonstrated by kortschak-ins for graph-structural analysis in this
// lineage, rather than a hand-rolled union-find.
func ConnectedComponents(g *sgraph.Graph) [][]int {
	ug := g.UndirectedTopology()
	comps := topo.ConnectedComponents(ug)
	out := make([][]int, len(comps))
	for i, c := range comps {
		ids := make([]int, len(c))
		for j, n := range c {
			ids[j] = int(n.ID())
		}
		sort.Ints(ids)
		out[i] = ids
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
