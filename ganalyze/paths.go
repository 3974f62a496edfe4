package ganalyze

import "github.com/grailbio/scallop/sgraph"

// Classification is the EASY/HARD label from spec §4.3.
type Classification int

const (
	Easy Classification = iota
	Hard
)

func (c Classification) String() string {
	if c == Easy {
		return "EASY"
	}
	return "HARD"
}

// ComputeNumPaths returns the number of distinct source→sink paths through
// g, via a single topological pass: cnt[source] = 1, cnt[v] = Σ cnt[u] over
// v's in-edges. g's vertex order 0..V-1 is itself a valid topological order
// (spec §3 invariant), so no separate sort is needed.
//
// Grounded on original_source/src/src/manager.cc's compute_num_paths.
func ComputeNumPaths(g *sgraph.Graph) int64 {
	n := g.NumVertices()
	if n == 0 {
		return 0
	}
	cnt := make([]int64, n)
	cnt[sgraph.Source] = 1
	for v := 1; v < n; v++ {
		var sum int64
		for _, ei := range g.InEdges(v) {
			sum += cnt[g.Edges[ei].U]
		}
		cnt[v] = sum
	}
	return cnt[g.Sink()]
}

// Classify reports EASY when ComputeNumPaths attains its theoretical
// minimum E-V+2 (series-parallel, no merge-then-split structure), HARD
// otherwise (spec §4.3, §8 invariant 4).
func Classify(g *sgraph.Graph) Classification {
	e := int64(len(g.Edges))
	v := int64(g.NumVertices())
	min := e - v + 2
	if ComputeNumPaths(g) == min {
		return Easy
	}
	return Hard
}
