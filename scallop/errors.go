package scallop

import "github.com/grailbio/base/errors"

// ErrGraphNotAcyclic is returned by bundle.Bundle.BuildSpliceGraph when an
// edge of the constructed graph violates the U<V ordering that keeps it
// acyclic; per spec §7 this aborts the bundle.
var ErrGraphNotAcyclic = errors.New("scallop: graph not acyclic")

// ErrDecompositionInconsistent marks a decomposition whose reconciliation
// residual at some vertex exceeded config.Opts.ReconciliationTolerance.
// Recorded on the affected Diagnostics slice; processing continues with
// best-effort output (spec §4.4, "Failure modes").
var ErrDecompositionInconsistent = errors.New("scallop: decomposition inconsistent")

// ErrIncompatibleBridge marks a vertex where bridge evidence forbade every
// candidate pairing (an all-false row or column with non-zero weight in the
// compatibility matrix). The decomposer falls back to bridge-blind greedy
// max-pair at that vertex and flags the resulting paths Unbridged.
var ErrIncompatibleBridge = errors.New("scallop: incompatible bridge")
