package hit

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"

	"github.com/grailbio/scallop/config"
)

// ErrOutOfOrderHit is returned by bundle accumulation (bundle.Bundle.AddHit)
// when a hit starts before the previous hit's start position.
var ErrOutOfOrderHit = errors.New("hit: out of order")

// Keep reports whether a raw *sam.Record should reach the core, applying the
// alignment-source filter from spec §6: unmapped, secondary, empty cigar, or
// cigar op-count above opts.MaxCigarOps are dropped. Grounded on
// original_source/src/src/manager.cc's assemble_bam flag checks
// (p.flag & 0x4 unmapped, p.flag & 0x100 secondary, p.n_cigar count).
func Keep(r *sam.Record, opts config.Opts) bool {
	if r.Flags&sam.Unmapped != 0 {
		return false
	}
	if r.Flags&sam.Secondary != 0 {
		return false
	}
	if len(r.Cigar) == 0 {
		return false
	}
	if len(r.Cigar) > opts.MaxCigarOps {
		return false
	}
	return true
}
