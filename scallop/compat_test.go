package scallop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/scallop/sgraph"
)

// TestCompatibleForbidsBridgeMismatch exercises the adversarial case plain
// greedy-by-weight would get wrong: four equal-weight edges where a bridge
// ties in-edge i1 to out-edge j2 specifically, so i1 must not pair with the
// weight-identical j1.
func TestCompatibleForbidsBridgeMismatch(t *testing.T) {
	bridged := map[sgraph.BridgeID]bool{1: true}
	i1 := liveEdge{id: 0, weight: 4, bridges: bridged}
	i2 := liveEdge{id: 1, weight: 4, bridges: map[sgraph.BridgeID]bool{}}
	j1 := liveEdge{id: 2, weight: 4, bridges: map[sgraph.BridgeID]bool{}}
	j2 := liveEdge{id: 3, weight: 4, bridges: bridged}
	out := []liveEdge{j1, j2}

	assert.False(t, compatible(i1, j1, out))
	assert.True(t, compatible(i1, j2, out))
	assert.True(t, compatible(i2, j1, out))
	assert.True(t, compatible(i2, j2, out))
}

// TestGreedyMaxPairRespectsCompatibility checks that the bridged in-edge is
// routed to its bridge partner rather than to the weight-identical
// unbridged out-edge, which unconstrained greedy-by-weight could pick
// first (tie-break would otherwise go to whichever pair is scanned first).
func TestGreedyMaxPairRespectsCompatibility(t *testing.T) {
	bridged := map[sgraph.BridgeID]bool{1: true}
	in := []liveEdge{
		{id: 0, weight: 4, bridges: bridged},
		{id: 1, weight: 4, bridges: map[sgraph.BridgeID]bool{}},
	}
	out := []liveEdge{
		{id: 2, weight: 4, bridges: map[sgraph.BridgeID]bool{}},
		{id: 3, weight: 4, bridges: bridged},
	}
	m := compatMatrix(in, out)
	triples, residual := greedyMaxPair(in, out, m, false)
	assert.InDelta(t, 0, residual, 1e-9)

	found := false
	for _, tr := range triples {
		if tr.in.id == 0 {
			assert.Equal(t, 3, tr.out.id)
			found = true
		}
	}
	assert.True(t, found)
}
