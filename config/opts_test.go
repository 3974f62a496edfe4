package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptsValues(t *testing.T) {
	o := DefaultOpts
	assert.Equal(t, 50, o.MinBundleGap)
	assert.Equal(t, 1, o.MinNumHitsInBundle)
	assert.Equal(t, 0, o.MaxNumBundles)
	assert.Equal(t, 1, o.MinSpliceBoundaryHits)
	assert.False(t, o.DecomposerBridgeStrict)
	assert.InDelta(t, 0.01, o.ReconciliationTolerance, 1e-9)
	assert.Equal(t, 7, o.MaxCigarOps)
}

func TestOptsAreIndependentCopies(t *testing.T) {
	o := DefaultOpts
	o.MinBundleGap = 999
	assert.Equal(t, 50, DefaultOpts.MinBundleGap)
}
