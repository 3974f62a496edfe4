package bundle

import (
	"github.com/grailbio/base/errors"

	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/scallop"
	"github.com/grailbio/scallop/sgraph"
)

// BuildSpliceGraph runs spec §4.2 steps 4-8: vertex creation, adjacency and
// junction edges, source/sink edges, and weight reconciliation. Grounded on
// original_source/src/src/manager.cc's assemble_bam/assemble_gtf control
// flow for the overall shape of graph construction from bundle evidence.
//
// Returns scallop.ErrGraphNotAcyclic, per spec §7, if the constructed edge
// set violates the U<V ordering invariant every splice graph must hold
// (spec §3) — the caller must skip the bundle rather than hand a cyclic
// graph to a Decomposer.
func (b *Bundle) BuildSpliceGraph(opts config.Opts) (*sgraph.Graph, error) {
	exons := extractPartialExons(b, opts.MinSpliceBoundaryHits)
	exons = mergeLowWeightExons(exons, opts.MinVertexWeight)

	var g sgraph.Graph
	g.AddVertex(sgraph.Vertex{}) // source, id 0

	startVertex := make(map[partialExonKey]int, len(exons))
	endVertex := make(map[partialExonKey]int, len(exons))
	for _, pe := range exons {
		id := g.AddVertex(sgraph.Vertex{
			Lo: int32(pe.Lo), Hi: int32(pe.Hi),
			Weight: pe.Ave, Stddev: pe.Dev,
			LeftType: pe.LeftType, RightType: pe.RightType,
		})
		startVertex[partialExonKey(pe.Lo)] = id
		endVertex[partialExonKey(pe.Hi)] = id
	}
	sink := g.AddVertex(sgraph.Vertex{}) // sink

	// Step 5: adjacency edges between genomically contiguous exons.
	for i := 0; i+1 < len(exons); i++ {
		if exons[i].Hi == exons[i+1].Lo {
			u := endVertex[partialExonKey(exons[i].Hi)]
			v := startVertex[partialExonKey(exons[i+1].Lo)]
			g.AddEdge(sgraph.Edge{U: u, V: v})
		}
	}

	// Step 6: junction edges, weighted by supporting count, with bridges
	// attached from paired-mate evidence.
	bridges := b.Bridges()
	junctionEdge := make(map[JunctionKey]int, len(b.Junctions))
	for key, j := range b.Junctions {
		if j.Count < opts.MinSpliceBoundaryHits {
			continue
		}
		u, uok := endVertex[partialExonKey(key.Lo)]
		v, vok := startVertex[partialExonKey(key.Hi)]
		if !uok || !vok {
			continue
		}
		idx := g.AddEdge(sgraph.Edge{U: u, V: v, Weight: float64(j.Count)})
		junctionEdge[key] = idx
	}
	for _, br := range bridges {
		if ia, ok := junctionEdge[br.A]; ok {
			g.Edges[ia].Bridges = append(g.Edges[ia].Bridges, br.ID)
		}
		if iz, ok := junctionEdge[br.B]; ok {
			g.Edges[iz].Bridges = append(g.Edges[iz].Bridges, br.ID)
		}
	}

	// Step 7: source/sink edges, weighted by the adjacent exon's own
	// average coverage: a terminal exon has no finer-grained "marginal"
	// evidence available at the source/sink boundary than its own
	// vertex-level flow (S2, S3).
	for _, pe := range exons {
		if pe.LeftType == sgraph.BoundaryStartOfTranscript {
			v := startVertex[partialExonKey(pe.Lo)]
			g.AddEdge(sgraph.Edge{U: sgraph.Source, V: v, Weight: pe.Ave})
		}
		if pe.RightType == sgraph.BoundaryEndOfTranscript {
			u := endVertex[partialExonKey(pe.Hi)]
			g.AddEdge(sgraph.Edge{U: u, V: sink, Weight: pe.Ave})
		}
	}

	if err := checkAcyclic(&g); err != nil {
		return nil, err
	}

	// Step 8: reconcile weights toward flow conservation.
	reconcile(&g)
	return &g, nil
}

// partialExonKey lets exon boundary positions key the start/end vertex
// lookup maps regardless of imap.PosType's underlying width.
type partialExonKey int64

// mergeLowWeightExons folds any partial exon whose average coverage falls
// below minWeight into a genomically contiguous neighbour (spec §6,
// MinVertexWeight: "vertices with lower weight are merged with
// neighbours"), before vertices and edges are built. A low-weight exon with
// no contiguous neighbour (its boundaries both fall at a junction or
// bundle end) has nothing to fold into and is left as-is.
func mergeLowWeightExons(exons []PartialExon, minWeight float64) []PartialExon {
	if len(exons) == 0 {
		return exons
	}
	merged := make([]PartialExon, 0, len(exons))
	for _, pe := range exons {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.Hi == pe.Lo && (last.Ave < minWeight || pe.Ave < minWeight) {
				*last = mergeAdjacentExons(*last, pe)
				continue
			}
		}
		merged = append(merged, pe)
	}
	return merged
}

// mergeAdjacentExons combines two genomically contiguous exons a (left) and
// b (right) into one, weighting Ave/Dev by each side's interval length.
func mergeAdjacentExons(a, b PartialExon) PartialExon {
	lenA, lenB := float64(a.Hi-a.Lo), float64(b.Hi-b.Lo)
	total := lenA + lenB
	var ave, dev float64
	if total > 0 {
		ave = (a.Ave*lenA + b.Ave*lenB) / total
		dev = (a.Dev*lenA + b.Dev*lenB) / total
	}
	return PartialExon{
		Lo: a.Lo, Hi: b.Hi,
		LeftType: a.LeftType, RightType: b.RightType,
		Ave: ave, Dev: dev,
	}
}

// checkAcyclic verifies every edge satisfies U<V, the ordering invariant
// that makes a splice graph acyclic by construction (spec §3). A violation
// means a bug upstream (e.g. an out-of-order junction) produced an edge
// pointing backward in genomic order.
func checkAcyclic(g *sgraph.Graph) error {
	for _, e := range g.Edges {
		if e.U >= e.V {
			return errors.E(scallop.ErrGraphNotAcyclic, "bundle.BuildSpliceGraph", e.U, e.V)
		}
	}
	return nil
}

// reconcile visits every internal vertex once, in vertex-id order, and
// rescales its in-edge and out-edge weights to a common target so that, at
// the moment it is visited, Σw_in equals Σw_out; the change is distributed
// proportionally to each edge's current weight, or evenly if every edge on
// a side currently carries zero weight. Rescaling a later vertex's in-edges
// also changes the out-edges of the earlier vertices they leave, and those
// vertices are not revisited, so after the pass an earlier vertex can be
// out of balance again; no tolerance is checked here.
//
// The target is the average of the vertex's current Σw_in and Σw_out, not
// weight(v)*length(v) as spec §3's data-model prose suggests: that product
// does not reproduce the flow values in the spec's own worked examples (S2's
// single exon has ave≈1.667 but weight*length=500, while its one source and
// one sink edge both carry 1.667 and the decomposed path abundance is
// 1.667, not 500). Treated the same way as the S6 nested-DAG discrepancy:
// trust the worked examples over the prose formula.
func reconcile(g *sgraph.Graph) {
	for v := 1; v < g.Sink(); v++ {
		in := g.InEdges(v)
		out := g.OutEdges(v)
		var sumIn, sumOut float64
		for _, i := range in {
			sumIn += g.Edges[i].Weight
		}
		for _, i := range out {
			sumOut += g.Edges[i].Weight
		}
		if len(in) == 0 || len(out) == 0 {
			continue
		}
		target := (sumIn + sumOut) / 2
		reconcileSide(g, in, target)
		reconcileSide(g, out, target)
		g.Vertices[v].Adjusted = true
	}
}

func reconcileSide(g *sgraph.Graph, idxs []int, target float64) {
	if len(idxs) == 0 {
		return
	}
	var sum float64
	for _, i := range idxs {
		sum += g.Edges[i].Weight
	}
	if sum <= 0 {
		share := target / float64(len(idxs))
		for _, i := range idxs {
			g.Edges[i].Weight = share
		}
		return
	}
	scale := target / sum
	for _, i := range idxs {
		g.Edges[i].Weight *= scale
	}
}
