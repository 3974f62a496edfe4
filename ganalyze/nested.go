package ganalyze

import (
	"sort"

	"github.com/grailbio/scallop/sgraph"
)

// DecideNested reports whether g's edges, viewed as intervals [U,V] on the
// topological vertex order, are properly nested: for every pair of edges
// (a,b), (c,d) with a < c < b, either d <= b or c >= b holds (spec §4.3).
// Since the premise already forces c < b, the c >= b branch can never
// trigger; the check reduces to requiring full containment (d <= b)
// whenever one edge's left endpoint falls strictly inside another's span.
//
// Implemented by sweeping edges ordered by left endpoint and maintaining a
// stack of still-open (left, right) endpoints, per spec §4.3.
func DecideNested(g *sgraph.Graph) bool {
	edges := append([]sgraph.Edge(nil), g.Edges...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})

	type open struct{ u, v int }
	var stack []open
	for _, e := range edges {
		kept := stack[:0]
		for _, o := range stack {
			if o.v > e.U {
				kept = append(kept, o)
			}
		}
		stack = kept
		for _, o := range stack {
			if o.u < e.U && o.v > e.U && o.v < e.V {
				return false
			}
		}
		stack = append(stack, open{u: e.U, v: e.V})
	}
	return true
}
