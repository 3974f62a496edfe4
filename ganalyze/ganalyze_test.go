package ganalyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/scallop/sgraph"
)

func chainGraph(extra ...[2]int) *sgraph.Graph {
	var g sgraph.Graph
	for i := 0; i < 6; i++ {
		g.AddVertex(sgraph.Vertex{})
	}
	for i := 0; i < 5; i++ {
		g.AddEdge(sgraph.Edge{U: i, V: i + 1, Weight: 1})
	}
	for _, e := range extra {
		g.AddEdge(sgraph.Edge{U: e[0], V: e[1], Weight: 1})
	}
	return &g
}

// TestS6NestedDAGDetection reproduces the unambiguous first half of spec.md
// scenario S6: the base chain plus bridge edge (1,4) is properly nested.
func TestS6NestedDAGDetection(t *testing.T) {
	g := chainGraph([2]int{1, 4})
	assert.True(t, DecideNested(g))
}

// TestDecideNestedDetectsCrossing checks the false branch against a textbook
// crossing pair (1,3) and (2,4): 1 < 2 < 3 but 4 > 3, so the two arcs
// properly cross rather than nest.
func TestDecideNestedDetectsCrossing(t *testing.T) {
	var g sgraph.Graph
	for i := 0; i < 5; i++ {
		g.AddVertex(sgraph.Vertex{})
	}
	g.AddEdge(sgraph.Edge{U: 1, V: 3, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 2, V: 4, Weight: 1})
	assert.False(t, DecideNested(g))
}

func TestComputeNumPathsLinear(t *testing.T) {
	var g sgraph.Graph
	g.AddVertex(sgraph.Vertex{})
	g.AddVertex(sgraph.Vertex{})
	g.AddVertex(sgraph.Vertex{})
	g.AddEdge(sgraph.Edge{U: 0, V: 1, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 1, V: 2, Weight: 1})
	assert.EqualValues(t, 1, ComputeNumPaths(&g))
	assert.Equal(t, Easy, Classify(&g))
}

// TestComputeNumPathsForkIsEasy builds a source->{A,B}->sink fork, which is
// series-parallel and should classify EASY (spec §4.3 invariant 4).
func TestComputeNumPathsForkIsEasy(t *testing.T) {
	var g sgraph.Graph
	for i := 0; i < 4; i++ {
		g.AddVertex(sgraph.Vertex{})
	}
	g.AddEdge(sgraph.Edge{U: 0, V: 1, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 0, V: 2, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 1, V: 3, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 2, V: 3, Weight: 1})
	assert.EqualValues(t, 2, ComputeNumPaths(&g))
	assert.Equal(t, Easy, Classify(&g))
}

// TestComputeNumPathsDiamondWithSkipEdge builds a split-then-merge diamond
// plus a direct source->sink skip edge; it remains series-parallel (EASY).
func TestComputeNumPathsDiamondWithSkipEdge(t *testing.T) {
	var g sgraph.Graph
	for i := 0; i < 4; i++ {
		g.AddVertex(sgraph.Vertex{})
	}
	g.AddEdge(sgraph.Edge{U: 0, V: 1, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 0, V: 2, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 1, V: 3, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 2, V: 3, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 0, V: 3, Weight: 1})
	// E=5, V=4, min = 5-4+2 = 3; actual paths = 3 (0-1-3, 0-2-3, 0-3) => EASY
	assert.EqualValues(t, 3, ComputeNumPaths(&g))
	assert.Equal(t, Easy, Classify(&g))
}

// TestComputeNumPathsTwoDiamondsIsHard chains two diamonds in series, so
// flow merges and then splits again at the shared middle vertex 3: the path
// count 4 exceeds E-V+2 = 3, so it classifies HARD (spec §4.3 invariant 4).
func TestComputeNumPathsTwoDiamondsIsHard(t *testing.T) {
	var g sgraph.Graph
	for i := 0; i < 7; i++ {
		g.AddVertex(sgraph.Vertex{})
	}
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {3, 4}, {3, 5}, {4, 6}, {5, 6}} {
		g.AddEdge(sgraph.Edge{U: e[0], V: e[1], Weight: 1})
	}
	assert.EqualValues(t, 4, ComputeNumPaths(&g))
	assert.Equal(t, Hard, Classify(&g))
}

func TestConnectedComponentsSplitsDisjointGraphs(t *testing.T) {
	var g sgraph.Graph
	for i := 0; i < 6; i++ {
		g.AddVertex(sgraph.Vertex{})
	}
	g.AddEdge(sgraph.Edge{U: 0, V: 1, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 1, V: 2, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 3, V: 4, Weight: 1})
	g.AddEdge(sgraph.Edge{U: 4, V: 5, Weight: 1})

	comps := ConnectedComponents(&g)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, comps)
}
