// Package annotation implements the Annotation source (spec §6): reading
// GTF-style exon records grouped by gene_id and building one splice graph
// directly per gene, bypassing the coverage-driven bundle pipeline (spec
// §12 item 4).
//
// Grounded on kortschak-ins/cmd/cmpint/main.go's use of
// github.com/biogo/biogo/io/featio/gff for GTF/GFF parsing.
package annotation

import (
	"io"
	"sort"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/klauspost/compress/gzip"

	"github.com/grailbio/scallop/sgraph"
)

// exon is one parsed GTF exon record.
type exon struct {
	geneID, transcriptID string
	lo, hi               int32
}

// readExons scans r as GTF and returns every "exon"-feature record,
// following kortschak-ins/cmd/cmpint/main.go's
// featio.NewScanner(gff.NewReader(...)) loop.
func readExons(r io.Reader) ([]exon, error) {
	br, err := maybeGunzip(r)
	if err != nil {
		return nil, err
	}
	sc := featio.NewScanner(gff.NewReader(br))
	var exons []exon
	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok || f.Feature != "exon" {
			continue
		}
		geneID := f.FeatAttributes.Get("gene_id")
		txID := f.FeatAttributes.Get("transcript_id")
		if geneID == "" {
			continue
		}
		exons = append(exons, exon{
			geneID:       geneID,
			transcriptID: txID,
			lo:           int32(f.FeatStart) - 1, // GTF is 1-based inclusive
			hi:           int32(f.FeatEnd),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return exons, nil
}

// maybeGunzip transparently decompresses r if it looks gzip-magic-prefixed,
// following pileup/common.go's gzip-transparent input handling.
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := &peekReader{r: r}
	magic, err := br.peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(br)
	}
	return br, nil
}

// peekReader lets maybeGunzip inspect the first two bytes without consuming
// them from the underlying stream.
type peekReader struct {
	r   io.Reader
	buf []byte
	pos int
}

func (p *peekReader) peek(n int) ([]byte, error) {
	for len(p.buf) < n {
		b := make([]byte, n-len(p.buf))
		m, err := p.r.Read(b)
		p.buf = append(p.buf, b[:m]...)
		if err != nil {
			return p.buf, err
		}
	}
	return p.buf, nil
}

func (p *peekReader) Read(b []byte) (int, error) {
	if p.pos < len(p.buf) {
		n := copy(b, p.buf[p.pos:])
		p.pos += n
		return n, nil
	}
	return p.r.Read(b)
}

// BuildFromExons reads GTF exon records from r and returns one splice
// graph per gene_id, built directly from transcript exon structure with no
// coverage map involved (spec §12 item 4). Edge and source/sink boundary
// weights are the number of transcripts within the gene that traverse
// them.
func BuildFromExons(r io.Reader) (map[string]*sgraph.Graph, error) {
	exons, err := readExons(r)
	if err != nil {
		return nil, err
	}

	type txKey struct{ gene, tx string }
	byTx := map[txKey][]exon{}
	var geneOrder []string
	seenGene := map[string]bool{}
	for _, e := range exons {
		if !seenGene[e.geneID] {
			seenGene[e.geneID] = true
			geneOrder = append(geneOrder, e.geneID)
		}
		k := txKey{e.geneID, e.transcriptID}
		byTx[k] = append(byTx[k], e)
	}
	sort.Strings(geneOrder)

	txByGene := map[string][]txKey{}
	for k := range byTx {
		txByGene[k.gene] = append(txByGene[k.gene], k)
	}
	for gene := range txByGene {
		sort.Slice(txByGene[gene], func(i, j int) bool {
			return txByGene[gene][i].tx < txByGene[gene][j].tx
		})
	}

	graphs := make(map[string]*sgraph.Graph, len(geneOrder))
	for _, gene := range geneOrder {
		var transcripts [][]exon
		for _, k := range txByGene[gene] {
			sorted := append([]exon(nil), byTx[k]...)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].lo < sorted[j].lo })
			transcripts = append(transcripts, sorted)
		}
		graphs[gene] = buildGeneGraph(transcripts)
	}
	return graphs, nil
}

// buildGeneGraph builds one splice graph from a gene's transcripts, each a
// sorted list of exons. Distinct (lo, hi) intervals across all transcripts
// become vertices; consecutive exons within one transcript become an edge
// (or accumulate weight on an existing one); a transcript's first and last
// exon connect to source and sink respectively.
func buildGeneGraph(transcripts [][]exon) *sgraph.Graph {
	type interval struct{ lo, hi int32 }

	// Collect the distinct exon intervals first and sort them genomically,
	// so vertex ids respect the U<V DAG invariant other components assume
	// (spec §3: "vertices 1..Sink()-1 are partial exons in genomic order").
	seen := map[interval]bool{}
	var uniq []interval
	for _, tx := range transcripts {
		for _, e := range tx {
			iv := interval{e.lo, e.hi}
			if !seen[iv] {
				seen[iv] = true
				uniq = append(uniq, iv)
			}
		}
	}
	sort.Slice(uniq, func(i, j int) bool {
		if uniq[i].lo != uniq[j].lo {
			return uniq[i].lo < uniq[j].lo
		}
		return uniq[i].hi < uniq[j].hi
	})

	var g sgraph.Graph
	g.AddVertex(sgraph.Vertex{}) // source

	vertexID := map[interval]int{}
	for _, iv := range uniq {
		vertexID[iv] = g.AddVertex(sgraph.Vertex{
			Lo: iv.lo, Hi: iv.hi,
			LeftType:  sgraph.BoundaryLeftOfJunction,
			RightType: sgraph.BoundaryRightOfJunction,
		})
	}
	vertexOf := func(iv interval) int { return vertexID[iv] }

	type edgeKey struct{ u, v int }
	edgeWeight := map[edgeKey]float64{}
	srcWeight := map[int]float64{}
	sinkWeight := map[int]float64{}

	for _, tx := range transcripts {
		if len(tx) == 0 {
			continue
		}
		ids := make([]int, len(tx))
		for i, e := range tx {
			ids[i] = vertexOf(interval{e.lo, e.hi})
		}
		srcWeight[ids[0]]++
		sinkWeight[ids[len(ids)-1]]++
		for i := 0; i+1 < len(ids); i++ {
			edgeWeight[edgeKey{ids[i], ids[i+1]}]++
		}
	}

	sink := g.AddVertex(sgraph.Vertex{})
	for v := range srcWeight {
		g.Vertices[v].LeftType = sgraph.BoundaryStartOfTranscript
	}
	for v := range sinkWeight {
		g.Vertices[v].RightType = sgraph.BoundaryEndOfTranscript
	}

	for v, w := range srcWeight {
		g.AddEdge(sgraph.Edge{U: sgraph.Source, V: v, Weight: w})
	}
	for ek, w := range edgeWeight {
		g.AddEdge(sgraph.Edge{U: ek.u, V: ek.v, Weight: w})
	}
	for v, w := range sinkWeight {
		g.AddEdge(sgraph.Edge{U: v, V: sink, Weight: w})
	}
	return &g
}
