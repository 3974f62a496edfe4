package assembler

import "github.com/grailbio/scallop/hit"

// TranscriptRecord is one assembled transcript emitted per bundle (spec §6
// Outputs): bundle index, strand, exon intervals derived from a path's
// vertex sequence, and an abundance score.
type TranscriptRecord struct {
	BundleIndex int
	Decomposer  string
	Strand      hit.Strand
	Exons       [][2]int32
	Abundance   float64

	// Unbridged marks a transcript whose path ignored bridge constraints at
	// some vertex because no compatible decomposition existed (spec §4.4,
	// "Failure modes").
	Unbridged bool
}

// Writer receives one TranscriptRecord at a time, in the bundle-index order
// the Driver produces them (spec §5, "a consuming writer serializes output
// with the stable bundle index").
type Writer interface {
	Write(TranscriptRecord) error
}

// SliceWriter collects every TranscriptRecord it receives, for tests and
// small-scale use.
type SliceWriter struct {
	Records []TranscriptRecord
}

func (w *SliceWriter) Write(r TranscriptRecord) error {
	w.Records = append(w.Records, r)
	return nil
}
