// Package imap implements a mutable map from disjoint half-open integer
// intervals to non-negative integer weights, indexed for O(log N) point and
// boundary queries. It is the coverage-accumulation structure used by
// package bundle while building a splice graph from a set of spliced
// alignments: every base a read's match run touches adds weight 1 to the
// interval covering it, and every junction/transcript-end boundary splits
// entries so that partial-exon extraction can walk whole, already-merged
// runs of uniform coverage.
//
// It assumes every position fits in a PosType, currently int32, since that's
// what BAM coordinates are limited to.
package imap
