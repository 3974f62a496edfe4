package imap

import (
	"math"
	"sort"

	"github.com/grailbio/base/errors"
)

// PosType is the integer type used to represent genomic positions. int32 is
// wide enough for BAM coordinates, which are themselves int32-limited.
type PosType int32

// PosTypeMax is the maximum value representable by a PosType.
const PosTypeMax = math.MaxInt32

// ErrInvalidInterval is returned by Add/Subtract when l >= r.
var ErrInvalidInterval = errors.New("imap: invalid interval")

// Entry is one disjoint [Lo, Hi) run and its weight.
type Entry struct {
	Lo, Hi PosType
	Weight int64
}

func (e Entry) len() int64 { return int64(e.Hi - e.Lo) }

// Index identifies an Entry by its position in Map's internal order. NoIndex
// is returned by queries that find nothing, mirroring the "end()"/"none"
// iterator idiom of the map this package's semantics were ported from
// (original_source/src/src/imap.cc uses imap.end() the same way).
type Index int

// NoIndex is the Index value meaning "no such entry".
const NoIndex Index = -1

// Map is a mutable map from disjoint half-open intervals to non-negative
// integer weights. The zero value is an empty Map.
//
// Map is not safe for concurrent use; callers (package bundle) own one Map
// per bundle.
type Map struct {
	entries []Entry
}

// NumEntries returns the number of disjoint entries currently stored.
func (m *Map) NumEntries() int { return len(m.entries) }

// Entry returns the entry at idx. idx must be in [0, NumEntries()).
func (m *Map) Entry(idx Index) Entry { return m.entries[idx] }

// lowerBound returns the index of the first entry with Hi > p, i.e. the
// first entry that could possibly contain or follow position p.
func (m *Map) lowerBound(p PosType) int {
	return sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Hi > p })
}

// find returns the Index of the entry containing p, or NoIndex.
func (m *Map) find(p PosType) Index {
	i := m.lowerBound(p)
	if i < len(m.entries) && m.entries[i].Lo <= p {
		return Index(i)
	}
	return NoIndex
}

// CoverageAt returns the weight of the entry containing p, or 0.
func (m *Map) CoverageAt(p PosType) int64 {
	idx := m.find(p)
	if idx == NoIndex {
		return 0
	}
	return m.entries[idx].Weight
}

// SplitAt splits the entry containing p (if any) into [a,p) and [p,b), same
// weight. It is a no-op if p lies on an existing boundary or outside every
// entry. SplitAt is idempotent and commutes with SplitAt at any other
// position, since splitting never changes any query's result.
func (m *Map) SplitAt(p PosType) {
	idx := m.find(p)
	if idx == NoIndex {
		return
	}
	e := m.entries[idx]
	if e.Lo == p || e.Hi == p {
		return
	}
	m.entries = append(m.entries, Entry{})
	copy(m.entries[idx+2:], m.entries[idx+1:])
	m.entries[idx] = Entry{Lo: e.Lo, Hi: p, Weight: e.Weight}
	m.entries[idx+1] = Entry{Lo: p, Hi: e.Hi, Weight: e.Weight}
}

// merge applies delta to every position in [l, r), splitting and inserting
// entries as needed. delta may be negative (Subtract).
func (m *Map) merge(l, r PosType, delta int64) error {
	if l >= r {
		return errors.E(ErrInvalidInterval, "imap.merge", l, r)
	}
	m.SplitAt(l)
	m.SplitAt(r)

	// Re-locate after splitting: the first entry with Lo >= l.
	start := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Lo >= l })

	var out []Entry
	out = append(out, m.entries[:start]...)
	pos := l
	i := start
	for pos < r {
		if i < len(m.entries) && m.entries[i].Lo == pos {
			e := m.entries[i]
			w := e.Weight + delta
			if w < 0 {
				w = 0
			}
			out = append(out, Entry{Lo: e.Lo, Hi: e.Hi, Weight: w})
			pos = e.Hi
			i++
			continue
		}
		// Gap: the disjoint region of [l,r) not previously covered.
		next := r
		if i < len(m.entries) && m.entries[i].Lo < next {
			next = m.entries[i].Lo
		}
		w := delta
		if w < 0 {
			w = 0
		}
		out = append(out, Entry{Lo: pos, Hi: next, Weight: w})
		pos = next
	}
	out = append(out, m.entries[i:]...)
	m.entries = out
	return nil
}

// Add performs the additive merge described in spec §4.1: [l,r) contributes
// +w to every position it covers.
func (m *Map) Add(l, r PosType, w int64) error {
	return m.merge(l, r, w)
}

// Subtract performs the subtractive merge described in spec §4.1. Weights
// are clamped at 0 rather than going negative; entries that reach weight 0
// are retained (queries treat them identically to absent entries).
func (m *Map) Subtract(l, r PosType, w int64) error {
	return m.merge(l, r, -w)
}

// LocateRight returns the first entry whose Lo >= x, i.e. strictly to the
// right of x-1.
func (m *Map) LocateRight(x PosType) (Entry, Index) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Lo >= x })
	if i == len(m.entries) {
		return Entry{}, NoIndex
	}
	return m.entries[i], Index(i)
}

// LocateLeft returns the last entry whose Hi <= x. It returns NoIndex if no
// such entry exists.
func (m *Map) LocateLeft(x PosType) (Entry, Index) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Lo >= x })
	i--
	if i >= 0 && m.entries[i].Hi > x {
		// entries[i] straddles x; the entry before it ends at or before
		// entries[i].Lo, which is below x.
		i--
	}
	if i < 0 {
		return Entry{}, NoIndex
	}
	return m.entries[i], Index(i)
}

// Boundary returns the index range [lit, rit] (inclusive on both ends)
// bracketing every entry fully contained in [x, y). If no entry is fully
// contained, both returned indices are NoIndex.
func (m *Map) Boundary(x, y PosType) (lit, rit Index) {
	_, lit = m.LocateRight(x)
	if lit != NoIndex && m.entries[lit].Hi > y {
		lit = NoIndex
	}
	_, rit = m.LocateLeft(y)
	if rit != NoIndex && m.entries[rit].Lo < x {
		rit = NoIndex
	}
	if lit == NoIndex {
		rit = NoIndex
	}
	return lit, rit
}

// CoverageSum returns the total weighted length (Σ weight*length) over the
// inclusive entry-index range [lit, rit]. It returns 0 if lit is NoIndex.
func (m *Map) CoverageSum(lit, rit Index) int64 {
	if lit == NoIndex {
		return 0
	}
	var sum int64
	for i := int(lit); i <= int(rit); i++ {
		sum += m.entries[i].len() * m.entries[i].Weight
	}
	return sum
}
