// Package sgraph implements the splice graph data model (spec §3, "Splice
// graph"): a weighted DAG with a unique source and sink, vertices
// one-to-one with partial exons, and edges carrying weight and bridge
// evidence.
//
// Per spec §9 Design Notes ("Cyclic-reference concerns"), the graph is
// stored as flat arrays addressed by integer id rather than a pointer
// structure; this is the same shape used by package imap for its entries
// and avoids any ownership cycle between a bundle, its splice graph, and
// the paths later derived from it.
package sgraph

import "sort"

// BoundaryType is the kind of event that produced a partial exon's side.
type BoundaryType int8

const (
	BoundaryUnknown BoundaryType = iota
	BoundaryStartOfTranscript
	BoundaryEndOfTranscript
	BoundaryLeftOfJunction
	BoundaryRightOfJunction
	BoundaryInternalBreakpoint
)

// Source is the fixed id of the graph's source vertex, present in every
// non-empty Graph. The sink's id is not fixed: it is Sink(), the last vertex.
const (
	Source = 0
)

// Vertex is one node of the splice graph: the source, the sink, or a
// partial exon.
type Vertex struct {
	Lo, Hi    int32 // genomic extent; zero for source/sink
	Weight    float64
	Stddev    float64
	LeftType  BoundaryType
	RightType BoundaryType
	Adjusted  bool // spec §3: "adjust" flag after weight reconciliation
}

// Length returns Hi - Lo.
func (v Vertex) Length() int32 { return v.Hi - v.Lo }

// Edge is a directed edge (U, V) with U < V, a weight, and a possibly-empty
// list of supporting junction bridges.
type Edge struct {
	U, V    int
	Weight  float64
	Bridges []BridgeID
}

// BridgeID identifies one paired-junction evidence record linking two
// edges; see package bundle for how bridges are produced.
type BridgeID int

// Graph is a splice graph in the index-based representation described
// above. Vertex 0 is the source; vertex Sink() is the sink; vertices
// 1..Sink()-1 are partial exons in genomic order.
type Graph struct {
	Vertices []Vertex
	Edges    []Edge

	// adj and rev index Edges by endpoint for fast neighbour iteration,
	// kept sorted by the other endpoint. Built lazily by reindex.
	adj, rev [][]int
}

// NumVertices returns V.
func (g *Graph) NumVertices() int { return len(g.Vertices) }

// Sink returns the sink vertex id, V-1.
func (g *Graph) Sink() int { return len(g.Vertices) - 1 }

// AddVertex appends v and returns its id.
func (g *Graph) AddVertex(v Vertex) int {
	g.Vertices = append(g.Vertices, v)
	g.adj = nil
	return len(g.Vertices) - 1
}

// AddEdge appends e. Edges must be added with U < V to preserve the DAG
// invariant (spec §3).
func (g *Graph) AddEdge(e Edge) int {
	g.Edges = append(g.Edges, e)
	g.adj = nil
	return len(g.Edges) - 1
}

// reindex (re)builds adjacency indices from Edges, sorted by (source,
// destination) per spec §4.4's determinism requirement ("Edges are ordered
// by (source id, destination id)").
func (g *Graph) reindex() {
	if g.adj != nil {
		return
	}
	order := make([]int, len(g.Edges))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := g.Edges[order[i]], g.Edges[order[j]]
		if a.U != b.U {
			return a.U < b.U
		}
		return a.V < b.V
	})
	reordered := make([]Edge, len(order))
	for i, idx := range order {
		reordered[i] = g.Edges[idx]
	}
	g.Edges = reordered

	n := len(g.Vertices)
	g.adj = make([][]int, n)
	g.rev = make([][]int, n)
	for i, e := range g.Edges {
		g.adj[e.U] = append(g.adj[e.U], i)
		g.rev[e.V] = append(g.rev[e.V], i)
	}
}

// OutEdges returns the indices into Edges of v's out-edges, sorted by
// destination id.
func (g *Graph) OutEdges(v int) []int {
	g.reindex()
	return g.adj[v]
}

// InEdges returns the indices into Edges of v's in-edges, sorted by source
// id.
func (g *Graph) InEdges(v int) []int {
	g.reindex()
	return g.rev[v]
}

// OutDegree and InDegree report degree counts used by the decomposer's
// min-degree vertex selection (spec §4.4 step 1).
func (g *Graph) OutDegree(v int) int { return len(g.OutEdges(v)) }
func (g *Graph) InDegree(v int) int  { return len(g.InEdges(v)) }
