package drawer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/scallop/sgraph"
)

// smallGraph builds source -> v1 -> sink, a minimal but non-trivial splice
// graph to exercise Marshal end to end.
func smallGraph() *sgraph.Graph {
	var g sgraph.Graph
	g.AddVertex(sgraph.Vertex{}) // source
	g.AddVertex(sgraph.Vertex{Lo: 100, Hi: 200, Weight: 5})
	g.AddVertex(sgraph.Vertex{}) // sink
	g.AddEdge(sgraph.Edge{U: 0, V: 1, Weight: 5})
	g.AddEdge(sgraph.Edge{U: 1, V: 2, Weight: 5})
	return &g
}

func TestMarshalProducesValidDOT(t *testing.T) {
	b, err := Marshal(smallGraph(), "bundle1")
	require.NoError(t, err)
	out := string(b)

	assert.True(t, strings.Contains(out, "bundle1"))
	assert.True(t, strings.Contains(out, "source"))
	assert.True(t, strings.Contains(out, "v1"))
	assert.True(t, strings.Contains(out, "v2"))
	assert.True(t, strings.Contains(out, "->"))
}

func TestMarshalEdgeWeightLabel(t *testing.T) {
	b, err := Marshal(smallGraph(), "g")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "5.00"))
}
