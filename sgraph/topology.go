package sgraph

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/simple"
)

// node wraps a Graph vertex id as a gonum graph.Node, following the
// node/edge wrapping technique used for custom typed graphs in
// kortschak-ins/cmd/cmpint/main.go (there over string identities, here over
// the splice graph's own integer vertex ids).
type node int64

func (n node) ID() int64 { return int64(n) }

// wedge is a weighted edge that also exposes its weight and bridge count as
// encoding attributes.
type wedge struct {
	f, t    node
	w       float64
	bridges int
}

func (e wedge) From() graph.Node         { return e.f }
func (e wedge) To() graph.Node           { return e.t }
func (e wedge) ReversedEdge() graph.Edge { return wedge{f: e.t, t: e.f, w: e.w, bridges: e.bridges} }
func (e wedge) Weight() float64          { return e.w }
func (e wedge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "weight", Value: fmt.Sprint(e.w)},
		{Key: "bridges", Value: fmt.Sprint(e.bridges)},
	}
}

// Topology builds a gonum/graph/simple.DirectedGraph view of g, with edge
// weights and bridge counts carried as edge attributes. Package ganalyze
// uses UndirectedTopology rather than this view, and package drawer uses
// its own adapter.
func (g *Graph) Topology() *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for i := range g.Vertices {
		dg.AddNode(node(i))
	}
	for _, e := range g.Edges {
		dg.SetEdge(wedge{f: node(e.U), t: node(e.V), w: e.Weight, bridges: len(e.Bridges)})
	}
	return dg
}

// UndirectedTopology builds the undirected projection of g used by
// ganalyze's connected-components analysis (spec §4.3).
func (g *Graph) UndirectedTopology() *simple.WeightedUndirectedGraph {
	ug := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range g.Vertices {
		ug.AddNode(node(i))
	}
	for _, e := range g.Edges {
		ug.SetWeightedEdge(wedge{f: node(e.U), t: node(e.V), w: e.Weight, bridges: len(e.Bridges)})
	}
	return ug
}
