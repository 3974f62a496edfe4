package bundle

import (
	"gonum.org/v1/gonum/stat"

	"github.com/grailbio/scallop/imap"
	"github.com/grailbio/scallop/sgraph"
)

// PartialExon is a maximal half-open interval of contiguous non-zero
// coverage bounded by boundary events (spec §3, "Partial exon").
type PartialExon struct {
	Lo, Hi    imap.PosType
	LeftType  sgraph.BoundaryType
	RightType sgraph.BoundaryType
	Ave, Dev  float64
	Adjust    bool
}

// extractPartialExons runs spec §4.2 steps 1-3: gather candidate
// boundaries (junction endpoints, bundle ends, and coverage-run edges),
// split the coverage map at each, and build one PartialExon per maximal
// non-zero-coverage run between consecutive boundaries.
func extractPartialExons(b *Bundle, minSpliceBoundaryHits int) []PartialExon {
	leftType := map[imap.PosType]sgraph.BoundaryType{b.Lo: sgraph.BoundaryStartOfTranscript}
	rightType := map[imap.PosType]sgraph.BoundaryType{b.Hi: sgraph.BoundaryEndOfTranscript}

	boundaries := []imap.PosType{b.Lo, b.Hi}
	for key, j := range b.Junctions {
		if j.Count < minSpliceBoundaryHits {
			continue
		}
		boundaries = append(boundaries, key.Lo, key.Hi)
		rightType[key.Lo] = sgraph.BoundaryRightOfJunction
		leftType[key.Hi] = sgraph.BoundaryLeftOfJunction
	}
	for _, p := range boundaries {
		b.Cov.SplitAt(p)
	}
	boundaries = append(boundaries, b.Cov.RunBoundaries()...)
	boundaries = imap.SortedUnique(boundaries)
	for _, p := range boundaries {
		b.Cov.SplitAt(p)
	}
	// Splitting at the freshly discovered run boundaries cannot introduce
	// further run boundaries (they already coincide with entry edges), so
	// one more sorted-unique pass over the (unchanged) list is sufficient.

	var exons []PartialExon
	sc := imap.NewBoundaryScanner(&b.Cov, boundaries)
	for {
		lo, hi, ok := sc.Next()
		if !ok {
			break
		}
		ave, dev := coverageMoments(&b.Cov, lo, hi)
		lt, ok := leftType[lo]
		if !ok {
			lt = sgraph.BoundaryStartOfTranscript
		}
		rt, ok := rightType[hi]
		if !ok {
			rt = sgraph.BoundaryEndOfTranscript
		}
		exons = append(exons, PartialExon{
			Lo: lo, Hi: hi,
			LeftType: lt, RightType: rt,
			Ave: ave, Dev: dev,
		})
	}
	return exons
}

// coverageMoments computes the weighted mean and sample standard deviation
// of coverage over [lo, hi), treating each imap entry's weight as a
// per-position observation with multiplicity equal to its overlap length.
// Uses gonum.org/v1/gonum/stat rather than hand-rolled Welford/variance
// code.
func coverageMoments(m *imap.Map, lo, hi imap.PosType) (ave, dev float64) {
	lit, rit := m.Boundary(lo, hi)
	if lit == imap.NoIndex {
		return 0, 0
	}
	var weights, values []float64
	for i := int(lit); i <= int(rit); i++ {
		e := m.Entry(imap.Index(i))
		values = append(values, float64(e.Weight))
		weights = append(weights, float64(e.Hi-e.Lo))
	}
	ave = stat.Mean(values, weights)
	if len(values) < 2 {
		return ave, 0
	}
	dev = stat.StdDev(values, weights)
	return ave, dev
}
