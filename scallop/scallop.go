package scallop

import (
	"sort"

	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/sgraph"
)

// triple is one (in-edge, out-edge, routed-weight) decomposition unit (spec
// §4.4 step 3).
type triple struct {
	in, out   liveEdge
	weight    float64
	unbridged bool
}

// decompose runs the shared vertex-splitting main loop (spec §4.4) against
// g, preferring perfect matching (strategy 3b) over greedy max-pair (3c)
// when preferPerfectMatching is set and in(v)=out(v); scallop1 never tries
// 3b, scallop2 always does when it applies.
func decompose(g *sgraph.Graph, opts config.Opts, preferPerfectMatching bool) ([]sgraph.Path, []Diagnostic) {
	ws := newWorkingState(g)
	for {
		v, ok := ws.selectVertex()
		if !ok {
			break
		}
		ws.done[v] = true

		in := ws.inEdges(v)
		out := ws.outEdges(v)
		if len(in) == 0 && len(out) == 0 {
			continue
		}

		triples := decomposeVertex(ws, in, out, opts, preferPerfectMatching)

		removed := make(map[int]bool, len(in)+len(out))
		for _, e := range in {
			removed[e.id] = true
		}
		for _, e := range out {
			removed[e.id] = true
		}
		ws.removeEdges(removed)

		for _, t := range triples {
			ne := fuse(ws.nextID, t.in, t.out, t.weight, t.unbridged)
			ws.nextID++
			ws.addResult(ne)
		}
	}
	sort.Slice(ws.results, func(i, j int) bool {
		if len(ws.results[i].Vertices) != len(ws.results[j].Vertices) {
			return len(ws.results[i].Vertices) < len(ws.results[j].Vertices)
		}
		for k := range ws.results[i].Vertices {
			if ws.results[i].Vertices[k] != ws.results[j].Vertices[k] {
				return ws.results[i].Vertices[k] < ws.results[j].Vertices[k]
			}
		}
		return false
	})
	return ws.results, ws.diags
}

// decomposeVertex selects and runs one of the three strategies of spec
// §4.4 step 3, returning the routing triples for vertex v.
func decomposeVertex(ws *workingState, in, out []liveEdge, opts config.Opts, preferPerfectMatching bool) []triple {
	// 3a: trivial split.
	if len(in) == 1 {
		return fanOut(in[0], out)
	}
	if len(out) == 1 {
		return fanIn(in, out[0])
	}

	m := compatMatrix(in, out)

	// 3b: perfect matching, scallop2 only.
	if preferPerfectMatching && len(in) == len(out) {
		if t, ok := tryPerfectMatching(in, out, m); ok {
			return t
		}
	}

	// 3c: greedy max-pair, falling back to bridge-blind if compatibility
	// forbids every pairing for some edge with non-zero weight. With
	// opts.DecomposerBridgeStrict set, such a vertex is not decomposed at
	// all: no triples are returned, so its incident edges are dropped.
	forceBlind := allFalseRowOrColumn(m, in, out)
	if forceBlind {
		ws.diags = append(ws.diags, Diagnostic{Kind: DiagnosticIncompatibleBridge, VertexID: in[0].v})
		if opts.DecomposerBridgeStrict {
			return nil
		}
	}
	triples, residual := greedyMaxPair(in, out, m, forceBlind)
	if residual > opts.ReconciliationTolerance*maxWeightSum(in, out) {
		ws.diags = append(ws.diags, Diagnostic{Kind: DiagnosticDecompositionInconsistent, VertexID: in[0].v})
	}
	return triples
}

func fanOut(single liveEdge, out []liveEdge) []triple {
	triples := make([]triple, len(out))
	for j, o := range out {
		triples[j] = triple{in: single, out: o, weight: o.weight}
	}
	return triples
}

func fanIn(in []liveEdge, single liveEdge) []triple {
	triples := make([]triple, len(in))
	for i, e := range in {
		triples[i] = triple{in: e, out: single, weight: e.weight}
	}
	return triples
}

// tryPerfectMatching looks for a bijection i -> sigma(i) such that
// M[i][sigma(i)] holds and weight_i == weight_sigma(i) for all i (spec
// §4.4 step 3b: "weight-preserving perfect matching"). Brute-force
// backtracking is adequate: vertex degree in a splice graph is small.
func tryPerfectMatching(in, out []liveEdge, m [][]bool) ([]triple, bool) {
	n := len(in)
	assign := make([]int, n)
	used := make([]bool, len(out))
	var backtrack func(i int) bool
	backtrack = func(i int) bool {
		if i == n {
			return true
		}
		for j := range out {
			if used[j] || !m[i][j] {
				continue
			}
			if in[i].weight != out[j].weight {
				continue
			}
			used[j] = true
			assign[i] = j
			if backtrack(i + 1) {
				return true
			}
			used[j] = false
		}
		return false
	}
	if !backtrack(0) {
		return nil, false
	}
	triples := make([]triple, n)
	for i := 0; i < n; i++ {
		triples[i] = triple{in: in[i], out: out[assign[i]], weight: in[i].weight}
	}
	return triples, true
}

// greedyMaxPair repeatedly routes the compatible pair maximising
// min(residual_i, residual_j) until no positive-weight compatible pair
// remains, then distributes any leftover residual proportionally to
// surviving weights, ignoring compatibility if blind is set (spec §4.4
// step 3c and "Failure modes").
func greedyMaxPair(in, out []liveEdge, m [][]bool, blind bool) ([]triple, float64) {
	ri := make([]float64, len(in))
	ro := make([]float64, len(out))
	for i, e := range in {
		ri[i] = e.weight
	}
	for j, e := range out {
		ro[j] = e.weight
	}

	var triples []triple
	route := func(i, j int, w float64, unbridged bool) {
		if w <= 0 {
			return
		}
		triples = append(triples, triple{in: in[i], out: out[j], weight: w, unbridged: unbridged})
		ri[i] -= w
		ro[j] -= w
	}

	for {
		bi, bj, bw := -1, -1, 0.0
		for i := range in {
			if ri[i] <= 0 {
				continue
			}
			for j := range out {
				if ro[j] <= 0 {
					continue
				}
				if !blind && !m[i][j] {
					continue
				}
				w := ri[i]
				if ro[j] < w {
					w = ro[j]
				}
				if w > bw {
					bi, bj, bw = i, j, w
				}
			}
		}
		if bi == -1 {
			break
		}
		route(bi, bj, bw, blind)
	}

	var residual float64
	var remIn, remOut []int
	for i := range in {
		if ri[i] > 0 {
			residual += ri[i]
			remIn = append(remIn, i)
		}
	}
	for j := range out {
		if ro[j] > 0 {
			remOut = append(remOut, j)
		}
	}
	if len(remIn) > 0 && len(remOut) > 0 {
		snapIn := make(map[int]float64, len(remIn))
		snapOut := make(map[int]float64, len(remOut))
		var sumOut float64
		for _, i := range remIn {
			snapIn[i] = ri[i]
		}
		for _, j := range remOut {
			snapOut[j] = ro[j]
			sumOut += ro[j]
		}
		for _, i := range remIn {
			for _, j := range remOut {
				share := snapIn[i] * snapOut[j] / sumOut
				route(i, j, share, true)
			}
		}
	}
	return triples, residual
}

func maxWeightSum(in, out []liveEdge) float64 {
	var si, so float64
	for _, e := range in {
		si += e.weight
	}
	for _, e := range out {
		so += e.weight
	}
	if si > so {
		return si
	}
	return so
}
