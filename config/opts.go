// Package config holds the single immutable configuration structure passed
// explicitly to every component of the assembler (spec §9, "Global
// configuration"). There is no process-wide mutable state.
package config

// Opts collects every tunable named in spec §6 plus the two provisional
// defaults pinned by Open Questions (b).
type Opts struct {
	// MinBundleGap is the minimum gap, in bp, between a hit and the current
	// bundle's right end that forces a new bundle to start.
	MinBundleGap int

	// MinNumHitsInBundle: bundles with fewer hits than this are discarded
	// without building a splice graph.
	MinNumHitsInBundle int

	// MaxNumBundles caps the total number of bundles processed by the
	// driver. 0 means unlimited.
	MaxNumBundles int

	// MinSpliceBoundaryHits is the minimum supporting count a junction needs
	// before build_splice_graph creates an edge for it.
	MinSpliceBoundaryHits int

	// MinVertexWeight: vertices with lower weight than this are merged with
	// neighbours during splice graph construction.
	MinVertexWeight float64

	// DecomposerBridgeStrict: if true, the decomposer refuses to decompose a
	// vertex whose bridges forbid every in/out pairing rather than falling
	// back to the unbridged greedy strategy.
	//
	// Open Question (b): not pinned numerically by the source; false
	// (non-strict) adopted as the provisional default.
	DecomposerBridgeStrict bool

	// ReconciliationTolerance is ε in spec §8 invariants 2 and 3: the
	// fraction of flow imbalance tolerated at a vertex, and of weight
	// mismatch tolerated per edge after decomposition.
	//
	// Open Question (b): default 0.01 adopted as provisional, per spec §8
	// invariant 2's "default ε = 0.01".
	ReconciliationTolerance float64

	// MaxCigarOps: alignments with more cigar operations than this are
	// filtered before reaching the core (spec §6, Alignment source).
	MaxCigarOps int
}

// DefaultOpts holds the default values of Opts.
var DefaultOpts = Opts{
	MinBundleGap:            50,    // scallop: -a/--min_bundle_gap
	MinNumHitsInBundle:      1,     // scallop: --min_num_hits_in_bundle
	MaxNumBundles:           0,     // 0 = unlimited, scallop: --max_num_bundles
	MinSpliceBoundaryHits:   1,     // scallop: --min_splice_boundary_hits
	MinVertexWeight:         1.0,   // scallop: --min_vertex_weight
	DecomposerBridgeStrict:  false, // Open Question (b): provisional
	ReconciliationTolerance: 0.01,  // Open Question (b): spec §8 invariant 2 default
	MaxCigarOps:             7,     // spec §6: "cigar op-count > 7" filtered
}
