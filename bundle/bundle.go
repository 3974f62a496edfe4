// Package bundle implements per-locus aggregation of spliced alignments
// (spec §3, "Bundle") and the construction of a splice graph from that
// aggregation (spec §4.2, "build_splice_graph").
//
// Grounded on original_source/src/src/manager.cc's bundle accumulation and
// assembler.h's bundle_base field set.
package bundle

import (
	"github.com/grailbio/base/errors"

	"github.com/grailbio/scallop/hit"
	"github.com/grailbio/scallop/imap"
)

// JunctionKey identifies a splice junction by its left-exon-end and
// right-exon-start positions (spec §3: "a triple (left_exon_end,
// right_exon_start, count)" — the count lives in Junction, keyed by the
// first two fields).
type JunctionKey struct {
	Lo, Hi imap.PosType
}

// Junction is one recorded intron event with its supporting hit count.
type Junction struct {
	Lo, Hi imap.PosType
	Count  int
}

// Bundle is a contiguous group of hits on one reference sequence: leftmost
// and rightmost positions seen, the ordered hit list, a coverage interval
// map, and a multiset of junctions.
type Bundle struct {
	RefID int
	Lo, Hi imap.PosType

	Hits      []hit.Hit
	Cov       imap.Map
	Junctions map[JunctionKey]*Junction

	// fragmentJunctions groups, by FragmentID, the distinct junctions any
	// hit belonging to that fragment traversed. A fragment traversing two
	// or more junctions is paired-mate evidence for a bridge between them
	// (spec §3 Glossary, "Bridge").
	fragmentJunctions map[uint64]map[JunctionKey]bool

	started bool
	lastPos imap.PosType
}

// New returns an empty bundle rooted at the given reference id.
func New(refID int) *Bundle {
	return &Bundle{
		RefID:             refID,
		Junctions:         make(map[JunctionKey]*Junction),
		fragmentJunctions: make(map[uint64]map[JunctionKey]bool),
	}
}

// AddHit accumulates h into the bundle (spec §4.2): extends rpos, adds
// coverage for each match run, and records a junction for each skip run.
// Hits must arrive in reference order; AddHit returns hit.ErrOutOfOrderHit
// without mutating the bundle if h starts before the previous hit.
func (b *Bundle) AddHit(h hit.Hit) error {
	if b.started && imap.PosType(h.Pos) < b.lastPos {
		return errors.E(hit.ErrOutOfOrderHit, "bundle.AddHit", h.Pos, b.lastPos)
	}

	var runErr error
	h.Runs(func(r hit.Run) {
		if runErr != nil {
			return
		}
		if r.Skip {
			key := JunctionKey{Lo: imap.PosType(r.Lo), Hi: imap.PosType(r.Hi)}
			j, ok := b.Junctions[key]
			if !ok {
				j = &Junction{Lo: key.Lo, Hi: key.Hi}
				b.Junctions[key] = j
			}
			j.Count++
			if h.FragmentID != 0 {
				set, ok := b.fragmentJunctions[h.FragmentID]
				if !ok {
					set = make(map[JunctionKey]bool)
					b.fragmentJunctions[h.FragmentID] = set
				}
				set[key] = true
			}
			return
		}
		if err := b.Cov.Add(imap.PosType(r.Lo), imap.PosType(r.Hi), 1); err != nil {
			runErr = errors.E(err, "bundle.AddHit: coverage")
		}
	})
	if runErr != nil {
		return runErr
	}

	end := imap.PosType(h.End())
	if !b.started {
		b.Lo = imap.PosType(h.Pos)
		b.Hi = end
		b.started = true
	} else if end > b.Hi {
		b.Hi = end
	}
	b.lastPos = imap.PosType(h.Pos)
	b.Hits = append(b.Hits, h)
	return nil
}

// NumHits returns the number of hits accumulated so far.
func (b *Bundle) NumHits() int { return len(b.Hits) }

// Strand returns the bundle's majority strand by vote among its hits,
// ignoring hit.StrandUnknown; a tie (including zero votes either way)
// reports hit.StrandUnknown.
func (b *Bundle) Strand() hit.Strand {
	var fwd, rev int
	for _, h := range b.Hits {
		switch h.Strand {
		case hit.StrandForward:
			fwd++
		case hit.StrandReverse:
			rev++
		}
	}
	switch {
	case fwd > rev:
		return hit.StrandForward
	case rev > fwd:
		return hit.StrandReverse
	default:
		return hit.StrandUnknown
	}
}
