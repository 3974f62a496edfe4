package scallop

import (
	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/sgraph"
)

// Scallop1Decomposer is the greedy max-pair variant: trivial split where it
// applies, greedy max-pair (spec §4.4 step 3c) everywhere else. Grounded on
// original_source/src/src/scallop1.cc, which never attempts perfect
// matching.
type Scallop1Decomposer struct{}

func (Scallop1Decomposer) Name() string { return "scallop1" }

func (Scallop1Decomposer) Decompose(g *sgraph.Graph, opts config.Opts) ([]sgraph.Path, []Diagnostic) {
	return decompose(g, opts, false)
}
