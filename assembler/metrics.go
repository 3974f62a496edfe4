package assembler

import "fmt"

// Metrics is a plain run-wide counters struct, following
// markduplicates/metrics.go's shape: accumulated during a run and reported
// at the end rather than exposed as live gauges.
type Metrics struct {
	HitsSeen               int
	HitsFiltered           int
	BundlesClosed          int
	BundlesDiscarded       int // fewer than MinNumHitsInBundle hits
	BundlesNotAcyclic      int // scallop.ErrGraphNotAcyclic, skipped per spec §7
	DecompositionsRun      int
	DecompositionInconsist int
	IncompatibleBridges    int
}

func (m Metrics) String() string {
	return fmt.Sprintf(
		"hits=%d filtered=%d bundles=%d discarded=%d not_acyclic=%d decompositions=%d inconsistent=%d incompatible_bridge=%d",
		m.HitsSeen, m.HitsFiltered, m.BundlesClosed, m.BundlesDiscarded, m.BundlesNotAcyclic,
		m.DecompositionsRun, m.DecompositionInconsist, m.IncompatibleBridges)
}
