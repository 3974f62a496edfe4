package scallop

import (
	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/sgraph"
)

// Scallop2Decomposer prefers the perfect-matching strategy (spec §4.4 step
// 3b) whenever in(v) = out(v) admits one, falling back to greedy max-pair
// (3c) otherwise. Grounded on original_source/src/src/scallop2.cc.
type Scallop2Decomposer struct{}

func (Scallop2Decomposer) Name() string { return "scallop2" }

func (Scallop2Decomposer) Decompose(g *sgraph.Graph, opts config.Opts) ([]sgraph.Path, []Diagnostic) {
	return decompose(g, opts, true)
}
