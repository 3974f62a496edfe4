package scallop

import (
	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/sgraph"
)

// StringtieDecomposer is the textbook heaviest-path decomposition
// baseline (spec §12 item 2): repeatedly extract the heaviest
// source-to-sink path, measured by its minimum edge weight, subtract that
// weight from every edge on the path, and recurse until no positive-weight
// source-to-sink path remains. Distinct from the vertex-splitting strategy
// shared by Scallop1Decomposer/Scallop2Decomposer.
type StringtieDecomposer struct{}

func (StringtieDecomposer) Name() string { return "stringtie" }

func (StringtieDecomposer) Decompose(g *sgraph.Graph, opts config.Opts) ([]sgraph.Path, []Diagnostic) {
	residual := make([]float64, len(g.Edges))
	for i, e := range g.Edges {
		residual[i] = e.Weight
	}

	var paths []sgraph.Path
	for {
		verts, edgeIdx, bottleneck := heaviestPath(g, residual)
		if verts == nil || bottleneck <= 0 {
			break
		}
		for _, idx := range edgeIdx {
			residual[idx] -= bottleneck
		}
		paths = append(paths, sgraph.Path{Vertices: verts, Abundance: bottleneck})
	}
	return paths, nil
}

// heaviestPath finds a source→sink path maximizing its bottleneck (minimum
// residual edge weight) via DP over the DAG in vertex-id order (vertices
// are already topologically numbered: every edge (u,v) has u<v, spec §3).
func heaviestPath(g *sgraph.Graph, residual []float64) ([]int, []int, float64) {
	n := g.NumVertices()
	best := make([]float64, n)
	from := make([]int, n)
	viaEdge := make([]int, n)
	for i := range best {
		best[i] = -1
		from[i] = -1
		viaEdge[i] = -1
	}
	best[sgraph.Source] = maxFloat

	for v := 0; v < n; v++ {
		if best[v] < 0 {
			continue
		}
		for _, idx := range g.OutEdges(v) {
			e := g.Edges[idx]
			if residual[idx] <= 0 {
				continue
			}
			w := residual[idx]
			if best[v] < w {
				w = best[v]
			}
			if w > best[e.V] {
				best[e.V] = w
				from[e.V] = v
				viaEdge[e.V] = idx
			}
		}
	}

	sink := g.Sink()
	if best[sink] <= 0 {
		return nil, nil, 0
	}
	var verts []int
	var edges []int
	for v := sink; v != -1; v = from[v] {
		verts = append([]int{v}, verts...)
		if viaEdge[v] != -1 {
			edges = append([]int{viaEdge[v]}, edges...)
		}
	}
	return verts, edges, best[sink]
}

const maxFloat = 1e18
