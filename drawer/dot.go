// Package drawer emits a splice graph's optional DOT visualization (spec
// §6, "not part of the core contract").
//
// Grounded on kortschak-ins/cmd/cmpint/main.go's custom node/edge types
// implementing gonum.org/v1/gonum/graph.Node and
// gonum.org/v1/gonum/graph/encoding.Attributer, marshaled via
// gonum.org/v1/gonum/graph/encoding/dot.
package drawer

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"

	"github.com/grailbio/scallop/sgraph"
)

type node struct {
	id int64
	v  sgraph.Vertex
}

func (n node) ID() int64 { return n.id }

func (n node) DOTID() string {
	switch n.id {
	case 0:
		return "source"
	default:
		return fmt.Sprintf("v%d", n.id)
	}
}

func (n node) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: fmt.Sprintf("%q", fmt.Sprintf("%d-%d\\nw=%.2f", n.v.Lo, n.v.Hi, n.v.Weight))},
	}
}

type edge struct {
	f, t graph.Node
	w    float64
}

func (e edge) From() graph.Node         { return e.f }
func (e edge) To() graph.Node           { return e.t }
func (e edge) ReversedEdge() graph.Edge { return edge{f: e.t, t: e.f, w: e.w} }
func (e edge) Weight() float64          { return e.w }

func (e edge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: fmt.Sprintf("%.2f", e.w)}}
}

// Marshal renders g as a DOT-format byte slice named by graphName.
func Marshal(g *sgraph.Graph, graphName string) ([]byte, error) {
	dg := dotGraph{g: g}
	return dot.Marshal(dg, graphName, "", "\t")
}

// dotGraph adapts sgraph.Graph to gonum's graph.Graph so dot.Marshal can
// walk it, following the same adapter shape as sgraph.Graph.Topology.
type dotGraph struct {
	g *sgraph.Graph
}

func (d dotGraph) Node(id int64) graph.Node {
	v := int(id)
	if v < 0 || v >= d.g.NumVertices() {
		return nil
	}
	return node{id: id, v: d.g.Vertices[v]}
}

func (d dotGraph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, d.g.NumVertices())
	for i := 0; i < d.g.NumVertices(); i++ {
		nodes[i] = node{id: int64(i), v: d.g.Vertices[i]}
	}
	return &nodeIterator{nodes: nodes, pos: -1}
}

func (d dotGraph) From(id int64) graph.Nodes {
	var nodes []graph.Node
	for _, idx := range d.g.OutEdges(int(id)) {
		e := d.g.Edges[idx]
		nodes = append(nodes, node{id: int64(e.V), v: d.g.Vertices[e.V]})
	}
	return &nodeIterator{nodes: nodes, pos: -1}
}

// nodeIterator is a minimal slice-backed graph.Nodes, following the shape
// gonum's own iterator.OrderedNodes exposes (Next/Node/Len/Reset), written
// directly here since dot.Marshal only needs the interface, not that
// concrete type.
type nodeIterator struct {
	nodes []graph.Node
	pos   int
}

func (it *nodeIterator) Next() bool {
	if it.pos+1 >= len(it.nodes) {
		return false
	}
	it.pos++
	return true
}

func (it *nodeIterator) Node() graph.Node {
	if it.pos < 0 || it.pos >= len(it.nodes) {
		return nil
	}
	return it.nodes[it.pos]
}

func (it *nodeIterator) Len() int { return len(it.nodes) - it.pos - 1 }

func (it *nodeIterator) Reset() { it.pos = -1 }

func (d dotGraph) HasEdgeBetween(xid, yid int64) bool {
	return d.edgeBetween(xid, yid) != nil || d.edgeBetween(yid, xid) != nil
}

func (d dotGraph) Edge(uid, vid int64) graph.Edge {
	return d.edgeBetween(uid, vid)
}

func (d dotGraph) edgeBetween(uid, vid int64) graph.Edge {
	for _, idx := range d.g.OutEdges(int(uid)) {
		e := d.g.Edges[idx]
		if int64(e.V) == vid {
			return edge{
				f: node{id: uid, v: d.g.Vertices[uid]},
				t: node{id: vid, v: d.g.Vertices[vid]},
				w: e.Weight,
			}
		}
	}
	return nil
}
