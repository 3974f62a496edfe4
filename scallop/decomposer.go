// Package scallop implements the Decomposer component (spec §4.4): turning
// an annotated splice graph into a set of source→sink paths with
// abundances, by repeated vertex splitting.
//
// Grounded on original_source/src/src/scallop1.{h,cc} and scallop2.{h,cc},
// which share a vertex-splitting skeleton (the original's `scallop` base
// class) and differ only in decomposition-strategy preference; that shared
// skeleton is `decompose` in scallop.go, parameterized by a
// preferPerfectMatching flag set by scallop1.go/scallop2.go.
package scallop

import (
	"sort"

	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/sgraph"
)

// DiagnosticKind classifies a Diagnostic emitted during decomposition.
type DiagnosticKind int

const (
	DiagnosticDecompositionInconsistent DiagnosticKind = iota
	DiagnosticIncompatibleBridge
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticDecompositionInconsistent:
		return "DecompositionInconsistent"
	case DiagnosticIncompatibleBridge:
		return "IncompatibleBridge"
	default:
		return "Unknown"
	}
}

// Diagnostic records one non-fatal anomaly encountered while decomposing a
// vertex (spec §4.4, "Failure modes"; spec §7).
type Diagnostic struct {
	Kind     DiagnosticKind
	VertexID int
}

// Decomposer turns a splice graph into a labeled set of source→sink paths.
// scallop.go's shared skeleton backs Scallop1Decomposer and
// Scallop2Decomposer; StringtieDecomposer (stringtie.go) implements the
// heaviest-path baseline independently.
type Decomposer interface {
	// Name labels the decomposer's output stream (spec §12 item 1:
	// manager.cc's stringtie_fout/scallop1_fout/scallop2_fout).
	Name() string
	Decompose(g *sgraph.Graph, opts config.Opts) ([]sgraph.Path, []Diagnostic)
}

// liveEdge is one edge of the decomposer's working copy of the graph: the
// original edges initially, and progressively fused edges as vertices are
// removed. path is the full chain of original vertex ids this edge
// represents; origIDs and bridges are the union, over every original edge
// folded into this one, of g.Edges indices and BridgeIDs (spec §4.4,
// "edge-provenance map").
type liveEdge struct {
	id        int
	u, v      int
	weight    float64
	path      []int
	origIDs   map[int]bool
	bridges   map[sgraph.BridgeID]bool
	unbridged bool
}

func newLiveEdgeFromOriginal(idx int, e sgraph.Edge) liveEdge {
	bridges := make(map[sgraph.BridgeID]bool, len(e.Bridges))
	for _, b := range e.Bridges {
		bridges[b] = true
	}
	return liveEdge{
		id:      idx,
		u:       e.U,
		v:       e.V,
		weight:  e.Weight,
		path:    []int{e.U, e.V},
		origIDs: map[int]bool{idx: true},
		bridges: bridges,
	}
}

// fuse concatenates in and out through their shared vertex into a new
// liveEdge carrying routed weight w.
func fuse(nextID int, in, out liveEdge, w float64, forcedUnbridged bool) liveEdge {
	path := make([]int, 0, len(in.path)+len(out.path)-1)
	path = append(path, in.path...)
	path = append(path, out.path[1:]...)

	origIDs := make(map[int]bool, len(in.origIDs)+len(out.origIDs))
	for k := range in.origIDs {
		origIDs[k] = true
	}
	for k := range out.origIDs {
		origIDs[k] = true
	}
	bridges := make(map[sgraph.BridgeID]bool, len(in.bridges)+len(out.bridges))
	for k := range in.bridges {
		bridges[k] = true
	}
	for k := range out.bridges {
		bridges[k] = true
	}

	return liveEdge{
		id:        nextID,
		u:         in.u,
		v:         out.v,
		weight:    w,
		path:      path,
		origIDs:   origIDs,
		bridges:   bridges,
		unbridged: in.unbridged || out.unbridged || forcedUnbridged,
	}
}

// workingState is the decomposer's mutable state: the live edge set and
// which internal vertices have been fully processed (spec §4.4, "State").
type workingState struct {
	g       *sgraph.Graph
	edges   []liveEdge
	done    map[int]bool
	nextID  int
	results []sgraph.Path
	diags   []Diagnostic
}

func newWorkingState(g *sgraph.Graph) *workingState {
	ws := &workingState{g: g, done: make(map[int]bool)}
	for i, e := range g.Edges {
		ws.edges = append(ws.edges, newLiveEdgeFromOriginal(i, e))
	}
	ws.nextID = len(g.Edges)
	return ws
}

func (ws *workingState) outEdges(v int) []liveEdge {
	var out []liveEdge
	for _, e := range ws.edges {
		if e.u == v {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].v < out[j].v })
	return out
}

func (ws *workingState) inEdges(v int) []liveEdge {
	var in []liveEdge
	for _, e := range ws.edges {
		if e.v == v {
			in = append(in, e)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].u < in[j].u })
	return in
}

func (ws *workingState) removeEdges(ids map[int]bool) {
	out := ws.edges[:0]
	for _, e := range ws.edges {
		if !ids[e.id] {
			out = append(out, e)
		}
	}
	ws.edges = out
}

// addResult either appends a completed source→sink path or a new live edge,
// depending on whether e already spans source to sink.
func (ws *workingState) addResult(e liveEdge) {
	if e.u == sgraph.Source && e.v == ws.g.Sink() {
		ws.results = append(ws.results, sgraph.Path{
			Vertices:  e.path,
			Abundance: e.weight,
			Unbridged: e.unbridged,
		})
		return
	}
	ws.edges = append(ws.edges, e)
}

// selectVertex picks the unprocessed internal vertex with smallest
// in-degree+out-degree, breaking ties by smallest vertex weight, then by
// smallest id (spec §4.4 step 1).
func (ws *workingState) selectVertex() (int, bool) {
	best := -1
	bestDeg := -1
	bestWeight := 0.0
	for v := 1; v < ws.g.Sink(); v++ {
		if ws.done[v] {
			continue
		}
		deg := len(ws.inEdges(v)) + len(ws.outEdges(v))
		w := ws.g.Vertices[v].Weight
		if best == -1 || deg < bestDeg || (deg == bestDeg && w < bestWeight) {
			best, bestDeg, bestWeight = v, deg, w
		}
	}
	return best, best != -1
}
