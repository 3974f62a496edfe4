// Package hit defines the Hit type — one spliced alignment — and the
// cigar-driven run iteration used by package bundle to accumulate coverage
// and junction evidence (spec §3, "Hit").
package hit

import (
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// Strand is the strand a hit aligns to.
type Strand int8

const (
	// StrandUnknown means the hit carries no usable strand evidence.
	StrandUnknown Strand = iota
	// StrandForward is the '+' strand.
	StrandForward
	// StrandReverse is the '-' strand.
	StrandReverse
)

// Hit is a single spliced alignment: reference id, start/end positions,
// strand, cigar, quality, and optional mate linkage. Immutable after
// construction.
type Hit struct {
	RefID int
	Pos   int32 // 0-based leftmost aligned position
	Cigar sam.Cigar
	Strand
	MapQ      byte
	MateRefID int
	MatePos   int32
	flags     sam.Flags

	// FragmentID groups hits belonging to the same sequenced fragment
	// (read pair), derived from the alignment's QNAME. Bundle uses it to
	// build bridges: paired-mate evidence linking two junction edges
	// (spec §3 Glossary, "Bridge"). Zero means no grouping is available
	// (unpaired or QNAME-less input).
	FragmentID uint64
}

// NewHit constructs a Hit from a decoded *sam.Record, deriving strand from
// the XS aux tag when present (standard for spliced-RNA aligners) and
// falling back to the alignment-flag strand otherwise. FragmentID is the
// farm hash of the record's QNAME, following fusion/kmer_index.go's use of
// github.com/dgryski/go-farm for fast non-cryptographic hashing.
func NewHit(r *sam.Record) Hit {
	h := Hit{
		RefID:     r.Ref.ID(),
		Pos:       int32(r.Pos),
		Cigar:     r.Cigar,
		MapQ:      r.MapQ,
		MateRefID: -1,
		flags:     r.Flags,
	}
	if r.MateRef != nil {
		h.MateRefID = r.MateRef.ID()
		h.MatePos = int32(r.MatePos)
	}
	if r.Name != "" {
		h.FragmentID = farm.Hash64([]byte(r.Name))
	}
	h.Strand = strandFromTag(r)
	return h
}

func strandFromTag(r *sam.Record) Strand {
	if aux := r.AuxFields.Get(sam.NewTag("XS")); aux != nil {
		switch v := aux.Value(); v {
		case "+":
			return StrandForward
		case "-":
			return StrandReverse
		}
	}
	if r.Flags&sam.Reverse != 0 {
		return StrandReverse
	}
	return StrandForward
}

// End returns the rightmost reference position (exclusive) this hit's cigar
// reaches, i.e. Pos plus the sum of reference-consuming op lengths.
func (h Hit) End() int32 {
	end := h.Pos
	for _, co := range h.Cigar {
		if consumesReference(co.Type()) {
			end += int32(co.Len())
		}
	}
	return end
}

func consumesReference(op sam.CigarOp) bool {
	switch op {
	case sam.CigarMatch, sam.CigarDeletion, sam.CigarSkipped,
		sam.CigarEqual, sam.CigarMismatch:
		return true
	default:
		return false
	}
}

// Run is one contiguous reference-consuming cigar run: a match ([a,b) to
// add coverage to) or a skip ("N", a candidate junction).
type Run struct {
	Lo, Hi int32
	Skip   bool // true for an "N" (splice junction) run
}

// ErrMalformedCigar is returned by Runs when the cigar contains an
// unexpected operation or would consume a negative-length run.
var ErrMalformedCigar = errors.New("hit: malformed cigar")

// Runs walks h's cigar and invokes fn once per match run and once per skip
// run, in genomic order, mirroring spec §4.2 step 2-3 ("for each match run
// ... for each skip run ...").
func (h Hit) Runs(fn func(Run)) error {
	pos := h.Pos
	for _, co := range h.Cigar {
		n := int32(co.Len())
		if n < 0 {
			return errors.E(ErrMalformedCigar, "negative cigar op length")
		}
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			fn(Run{Lo: pos, Hi: pos + n})
			pos += n
		case sam.CigarSkipped:
			fn(Run{Lo: pos, Hi: pos + n, Skip: true})
			pos += n
		case sam.CigarDeletion:
			pos += n
		case sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarHardClipped, sam.CigarPadded:
			// Do not consume reference positions.
		default:
			return errors.E(ErrMalformedCigar, "unexpected cigar op", co.Type())
		}
	}
	return nil
}
