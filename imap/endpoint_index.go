package imap

// This file supports representing a sorted, deduplicated set of candidate
// genomic boundaries as a plain []PosType and scanning runs of coverage
// between them. Package bundle uses this while extracting partial exons: the
// candidate boundaries are every junction endpoint plus the bundle's outer
// left/right positions (spec §4.2 step 1), and BoundaryScanner walks them
// alongside Map.CoverageAt to find maximal non-zero-coverage runs (step
// 2-3).

// SortedUnique returns a sorted copy of ps with duplicates removed.
func SortedUnique(ps []PosType) []PosType {
	if len(ps) == 0 {
		return nil
	}
	cp := append([]PosType(nil), ps...)
	insertionSort(cp)
	out := cp[:1]
	for _, p := range cp[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// insertionSort is adequate here: boundary-candidate lists are bounded by
// the number of junctions in one bundle, typically a few dozen.
func insertionSort(a []PosType) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// RunBoundaries returns, in sorted order, every position at which coverage
// transitions between touching nothing and touching some entry: the start
// and end of each maximal span of contiguous entries (regardless of their
// individual weights). Package bundle combines these with junction and
// bundle-end positions to get the full candidate-boundary set for
// NewBoundaryScanner, so that a partial exon's internal weight can vary
// without being split, while true coverage gaps always are (spec §4.2 step
// 2).
func (m *Map) RunBoundaries() []PosType {
	var out []PosType
	n := len(m.entries)
	for i := 0; i < n; i++ {
		if i == 0 || m.entries[i].Lo != m.entries[i-1].Hi {
			out = append(out, m.entries[i].Lo)
		}
		if i == n-1 || m.entries[i].Hi != m.entries[i+1].Lo {
			out = append(out, m.entries[i].Hi)
		}
	}
	return out
}

// BoundaryScanner walks a sorted list of candidate boundaries, pairing it
// with a Map's coverage to discover maximal runs of non-zero coverage
// between consecutive candidates.
type BoundaryScanner struct {
	m          *Map
	boundaries []PosType
	idx        int
}

// NewBoundaryScanner returns a scanner over boundaries (sorted, unique)
// backed by coverage map m.
func NewBoundaryScanner(m *Map, boundaries []PosType) *BoundaryScanner {
	return &BoundaryScanner{m: m, boundaries: boundaries}
}

// Next returns the next maximal [lo, hi) run of non-zero coverage whose
// endpoints are both candidate boundaries, or ok=false when exhausted.
func (s *BoundaryScanner) Next() (lo, hi PosType, ok bool) {
	for s.idx+1 < len(s.boundaries) {
		a, b := s.boundaries[s.idx], s.boundaries[s.idx+1]
		s.idx++
		if s.m.CoverageAt(a) > 0 {
			return a, b, true
		}
	}
	return 0, 0, false
}
