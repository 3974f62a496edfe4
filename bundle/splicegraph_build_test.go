package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/scallop/scallop"
	"github.com/grailbio/scallop/sgraph"
)

// TestMergeLowWeightExonsFoldsNeighbor covers the MinVertexWeight option
// (spec §6): a low-weight exon contiguous with a neighbour is folded into
// it, with Ave/Dev length-weighted across the merged interval.
func TestMergeLowWeightExonsFoldsNeighbor(t *testing.T) {
	exons := []PartialExon{
		{Lo: 0, Hi: 100, Ave: 10, Dev: 1, LeftType: sgraph.BoundaryStartOfTranscript},
		{Lo: 100, Hi: 110, Ave: 0.5, Dev: 0, RightType: sgraph.BoundaryEndOfTranscript}, // below minWeight
	}
	merged := mergeLowWeightExons(exons, 1.0)
	require.Len(t, merged, 1)
	assert.EqualValues(t, 0, merged[0].Lo)
	assert.EqualValues(t, 110, merged[0].Hi)
	assert.Equal(t, sgraph.BoundaryStartOfTranscript, merged[0].LeftType)
	assert.Equal(t, sgraph.BoundaryEndOfTranscript, merged[0].RightType)
	assert.InDelta(t, 9.136, merged[0].Ave, 0.01)
}

// TestMergeLowWeightExonsCascades checks that a run of several low-weight
// exons folds into one, not just adjacent pairs.
func TestMergeLowWeightExonsCascades(t *testing.T) {
	exons := []PartialExon{
		{Lo: 0, Hi: 10, Ave: 0.2},
		{Lo: 10, Hi: 20, Ave: 0.1},
		{Lo: 20, Hi: 30, Ave: 0.05},
	}
	merged := mergeLowWeightExons(exons, 1.0)
	require.Len(t, merged, 1)
	assert.EqualValues(t, 0, merged[0].Lo)
	assert.EqualValues(t, 30, merged[0].Hi)
}

// TestMergeLowWeightExonsLeavesHighWeightAlone checks that exons at or
// above minWeight pass through untouched, including when not contiguous.
func TestMergeLowWeightExonsLeavesHighWeightAlone(t *testing.T) {
	exons := []PartialExon{
		{Lo: 0, Hi: 100, Ave: 5},
		{Lo: 200, Hi: 300, Ave: 5}, // not contiguous with the first
	}
	merged := mergeLowWeightExons(exons, 1.0)
	assert.Equal(t, exons, merged)
}

// TestCheckAcyclicDetectsBackwardEdge verifies the U<V invariant check that
// backs ErrGraphNotAcyclic (spec §7): a backward or self edge is rejected.
func TestCheckAcyclicDetectsBackwardEdge(t *testing.T) {
	var g sgraph.Graph
	g.AddVertex(sgraph.Vertex{})
	g.AddVertex(sgraph.Vertex{})
	g.AddVertex(sgraph.Vertex{})
	g.AddEdge(sgraph.Edge{U: 0, V: 1})
	g.AddEdge(sgraph.Edge{U: 2, V: 1}) // backward: U>V

	err := checkAcyclic(&g)
	require.Error(t, err)
	assert.ErrorIs(t, err, scallop.ErrGraphNotAcyclic)
}

func TestCheckAcyclicAcceptsOrderedEdges(t *testing.T) {
	var g sgraph.Graph
	g.AddVertex(sgraph.Vertex{})
	g.AddVertex(sgraph.Vertex{})
	g.AddVertex(sgraph.Vertex{})
	g.AddEdge(sgraph.Edge{U: 0, V: 1})
	g.AddEdge(sgraph.Edge{U: 1, V: 2})

	assert.NoError(t, checkAcyclic(&g))
}
