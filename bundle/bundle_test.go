package bundle

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/hit"
	"github.com/grailbio/scallop/sgraph"
)

func matchHit(pos int32, length int) hit.Hit {
	op, err := sam.NewCigarOp(sam.CigarMatch, length)
	if err != nil {
		panic(err)
	}
	return hit.Hit{Pos: pos, Cigar: sam.Cigar{op}}
}

// TestLinearBundleSingleExon covers spec §8 Scenario S2: five 100M hits
// starting 50bp apart overlap into one partial exon [1000,1300) with
// ave≈1.667, a 3-vertex splice graph (source, exon, sink), and one
// source→exon→sink path of abundance ≈1.667.
func TestLinearBundleSingleExon(t *testing.T) {
	b := New(0)
	for _, pos := range []int32{1000, 1050, 1100, 1150, 1200} {
		require.NoError(t, b.AddHit(matchHit(pos, 100)))
	}
	assert.EqualValues(t, 1000, b.Lo)
	assert.EqualValues(t, 1300, b.Hi)
	assert.Equal(t, 5, b.NumHits())

	g, err := b.BuildSpliceGraph(config.DefaultOpts)
	require.NoError(t, err)
	require.Equal(t, 3, g.NumVertices())
	require.Equal(t, 2, g.Sink())

	exon := g.Vertices[1]
	assert.EqualValues(t, 1000, exon.Lo)
	assert.EqualValues(t, 1300, exon.Hi)
	assert.InDelta(t, 1.667, exon.Weight, 0.001)
	assert.Equal(t, sgraph.BoundaryStartOfTranscript, exon.LeftType)
	assert.Equal(t, sgraph.BoundaryEndOfTranscript, exon.RightType)

	require.Len(t, g.Edges, 2)
	in := g.InEdges(1)
	out := g.OutEdges(1)
	require.Len(t, in, 1)
	require.Len(t, out, 1)
	assert.InDelta(t, 1.667, g.Edges[in[0]].Weight, 0.001)
	assert.InDelta(t, 1.667, g.Edges[out[0]].Weight, 0.001)
	assert.Equal(t, sgraph.Source, g.Edges[in[0]].U)
	assert.Equal(t, g.Sink(), g.Edges[out[0]].V)
}

// TestTwoExonJunction covers spec §8 Scenario S3: ten hits with cigar
// 50M100N50M spanning exon A [100,150) and exon B [250,300) produce two
// vertices plus source/sink, a junction edge of weight 10, and a single
// source→A→B→sink path carrying abundance 10.
func TestTwoExonJunction(t *testing.T) {
	m, err := sam.NewCigarOp(sam.CigarMatch, 50)
	require.NoError(t, err)
	n, err := sam.NewCigarOp(sam.CigarSkipped, 100)
	require.NoError(t, err)

	b := New(0)
	for i := 0; i < 10; i++ {
		require.NoError(t, b.AddHit(hit.Hit{Pos: 100, Cigar: sam.Cigar{m, n, m}}))
	}
	assert.EqualValues(t, 100, b.Lo)
	assert.EqualValues(t, 300, b.Hi)
	require.Len(t, b.Junctions, 1)
	j, ok := b.Junctions[JunctionKey{Lo: 150, Hi: 250}]
	require.True(t, ok)
	assert.Equal(t, 10, j.Count)

	g, err := b.BuildSpliceGraph(config.DefaultOpts)
	require.NoError(t, err)
	require.Equal(t, 4, g.NumVertices())
	sink := g.Sink()

	exonA, exonB := g.Vertices[1], g.Vertices[2]
	assert.EqualValues(t, 100, exonA.Lo)
	assert.EqualValues(t, 150, exonA.Hi)
	assert.EqualValues(t, 250, exonB.Lo)
	assert.EqualValues(t, 300, exonB.Hi)
	assert.InDelta(t, 10, exonA.Weight, 1e-9)
	assert.InDelta(t, 10, exonB.Weight, 1e-9)

	require.Len(t, g.Edges, 3)
	srcOut := g.OutEdges(sgraph.Source)
	require.Len(t, srcOut, 1)
	assert.Equal(t, 1, g.Edges[srcOut[0]].V)
	assert.InDelta(t, 10, g.Edges[srcOut[0]].Weight, 1e-9)

	junctionOut := g.OutEdges(1)
	require.Len(t, junctionOut, 1)
	assert.Equal(t, 2, g.Edges[junctionOut[0]].V)
	assert.InDelta(t, 10, g.Edges[junctionOut[0]].Weight, 1e-9)

	sinkIn := g.InEdges(sink)
	require.Len(t, sinkIn, 1)
	assert.Equal(t, 2, g.Edges[sinkIn[0]].U)
	assert.InDelta(t, 10, g.Edges[sinkIn[0]].Weight, 1e-9)
}

func TestAddHitOutOfOrderRejected(t *testing.T) {
	b := New(0)
	require.NoError(t, b.AddHit(matchHit(100, 50)))
	err := b.AddHit(matchHit(50, 50))
	assert.ErrorIs(t, err, hit.ErrOutOfOrderHit)
}

func TestBridgesLinkPairedJunctions(t *testing.T) {
	m, err := sam.NewCigarOp(sam.CigarMatch, 10)
	require.NoError(t, err)
	n1, err := sam.NewCigarOp(sam.CigarSkipped, 100)
	require.NoError(t, err)
	n2, err := sam.NewCigarOp(sam.CigarSkipped, 100)
	require.NoError(t, err)

	b := New(0)
	// One fragment whose single alignment spans two junctions back-to-back:
	// three exons joined by two introns, mimicking one mate's hit crossing
	// both splice sites.
	h := hit.Hit{Pos: 100, Cigar: sam.Cigar{m, n1, m, n2, m}, FragmentID: 42}
	require.NoError(t, b.AddHit(h))

	bridges := b.Bridges()
	require.Len(t, bridges, 1)
	assert.Equal(t, JunctionKey{Lo: 110, Hi: 210}, bridges[0].A)
	assert.Equal(t, JunctionKey{Lo: 220, Hi: 320}, bridges[0].B)
	assert.Equal(t, 1, bridges[0].Count)
}

func TestBundleStrandMajorityVote(t *testing.T) {
	b := New(0)
	fwd := matchHit(100, 50)
	fwd.Strand = hit.StrandForward
	rev := matchHit(200, 50)
	rev.Strand = hit.StrandReverse
	unk := matchHit(300, 50)

	require.NoError(t, b.AddHit(fwd))
	require.NoError(t, b.AddHit(fwd))
	require.NoError(t, b.AddHit(rev))
	require.NoError(t, b.AddHit(unk))
	assert.Equal(t, hit.StrandForward, b.Strand())
}

func TestBundleStrandTieIsUnknown(t *testing.T) {
	b := New(0)
	fwd := matchHit(100, 50)
	fwd.Strand = hit.StrandForward
	rev := matchHit(200, 50)
	rev.Strand = hit.StrandReverse

	require.NoError(t, b.AddHit(fwd))
	require.NoError(t, b.AddHit(rev))
	assert.Equal(t, hit.StrandUnknown, b.Strand())
}
