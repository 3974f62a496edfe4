package sgraph

// Path is a source-to-sink sequence of vertex indices with an abundance,
// produced by the decomposer and consumed by the external writer (spec §3,
// "Path"). Immutable once constructed.
type Path struct {
	Vertices  []int
	Abundance float64

	// Unbridged marks a path whose route ignored bridge constraints at some
	// vertex because no compatible decomposition existed (spec §4.4,
	// "Failure modes").
	Unbridged bool
}

// ExonIntervals derives the path's (start, end) exon intervals from g's
// vertex extents, skipping the source and sink (spec §6 Outputs).
func (p Path) ExonIntervals(g *Graph) [][2]int32 {
	var out [][2]int32
	for _, v := range p.Vertices {
		if v == Source || v == g.Sink() {
			continue
		}
		out = append(out, [2]int32{g.Vertices[v].Lo, g.Vertices[v].Hi})
	}
	return out
}
