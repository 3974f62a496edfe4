package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestS1IntervalMapEdits reproduces spec.md scenario S1.
func TestS1IntervalMapEdits(t *testing.T) {
	var m Map
	require.NoError(t, m.Add(1, 3, 3))
	require.NoError(t, m.Add(1, 2, 1))
	require.NoError(t, m.Add(2, 5, 2))
	require.NoError(t, m.Add(6, 7, 3))
	m.SplitAt(4)

	want := []Entry{
		{1, 2, 4},
		{2, 3, 5},
		{3, 4, 2},
		{4, 5, 2},
		{6, 7, 3},
	}
	require.Equal(t, len(want), m.NumEntries())
	for i, e := range want {
		assert.Equal(t, e, m.Entry(Index(i)))
	}

	assert.EqualValues(t, 0, m.CoverageAt(5))

	lit, rit := m.Boundary(0, 8)
	require.NotEqual(t, NoIndex, lit)
	require.NotEqual(t, NoIndex, rit)
	assert.Equal(t, want[0], m.Entry(lit))
	assert.Equal(t, want[len(want)-1], m.Entry(rit))

	assert.EqualValues(t, 16, m.CoverageSum(lit, rit))
}

func TestAddInvalidInterval(t *testing.T) {
	var m Map
	err := m.Add(5, 5, 1)
	assert.ErrorIs(t, err, ErrInvalidInterval)
	err = m.Add(5, 3, 1)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

// TestAddSubtractRoundTrip checks invariant 6: add then subtract the same
// interval/weight returns every query to its prior value.
func TestAddSubtractRoundTrip(t *testing.T) {
	var m Map
	require.NoError(t, m.Add(10, 20, 5))
	require.NoError(t, m.Add(15, 25, 3))

	before := map[PosType]int64{}
	for p := PosType(0); p < 30; p++ {
		before[p] = m.CoverageAt(p)
	}

	require.NoError(t, m.Add(12, 18, 7))
	require.NoError(t, m.Subtract(12, 18, 7))

	for p := PosType(0); p < 30; p++ {
		assert.Equal(t, before[p], m.CoverageAt(p), "position %d", p)
	}
}

// TestSplitAtIdempotent checks invariant 7.
func TestSplitAtIdempotent(t *testing.T) {
	var m Map
	require.NoError(t, m.Add(0, 100, 1))
	m.SplitAt(40)
	n1 := m.NumEntries()
	m.SplitAt(40)
	assert.Equal(t, n1, m.NumEntries())

	m.SplitAt(70)
	n2 := m.NumEntries()

	var m2 Map
	require.NoError(t, m2.Add(0, 100, 1))
	m2.SplitAt(70)
	m2.SplitAt(40)
	assert.Equal(t, n2, m2.NumEntries())
	for p := PosType(0); p < 100; p++ {
		assert.Equal(t, m.CoverageAt(p), m2.CoverageAt(p))
	}
}

func TestCoverageAtMatchesAddSubtractHistory(t *testing.T) {
	var m Map
	require.NoError(t, m.Add(0, 10, 2))
	require.NoError(t, m.Add(5, 15, 3))
	require.NoError(t, m.Subtract(8, 12, 1))

	expect := func(p PosType) int64 {
		var w int64
		if p >= 0 && p < 10 {
			w += 2
		}
		if p >= 5 && p < 15 {
			w += 3
		}
		if p >= 8 && p < 12 {
			w -= 1
		}
		if w < 0 {
			w = 0
		}
		return w
	}
	for p := PosType(0); p < 20; p++ {
		assert.Equal(t, expect(p), m.CoverageAt(p), "position %d", p)
	}
}

func TestLocateRightLeft(t *testing.T) {
	var m Map
	require.NoError(t, m.Add(10, 20, 1))
	require.NoError(t, m.Add(30, 40, 1))

	e, idx := m.LocateRight(5)
	require.NotEqual(t, NoIndex, idx)
	assert.Equal(t, PosType(10), e.Lo)

	e, idx = m.LocateRight(25)
	require.NotEqual(t, NoIndex, idx)
	assert.Equal(t, PosType(30), e.Lo)

	_, idx = m.LocateRight(41)
	assert.Equal(t, NoIndex, idx)

	e, idx = m.LocateLeft(25)
	require.NotEqual(t, NoIndex, idx)
	assert.Equal(t, PosType(20), e.Hi)

	_, idx = m.LocateLeft(9)
	assert.Equal(t, NoIndex, idx)
}

func TestBoundaryNoneWhenNothingContained(t *testing.T) {
	var m Map
	require.NoError(t, m.Add(10, 20, 1))
	lit, rit := m.Boundary(12, 18)
	assert.Equal(t, NoIndex, lit)
	assert.Equal(t, NoIndex, rit)
}

func TestBoundaryScanner(t *testing.T) {
	var m Map
	require.NoError(t, m.Add(100, 150, 1))
	require.NoError(t, m.Add(250, 300, 1))

	boundaries := SortedUnique([]PosType{100, 150, 250, 300})
	sc := NewBoundaryScanner(&m, boundaries)
	var runs [][2]PosType
	for {
		lo, hi, ok := sc.Next()
		if !ok {
			break
		}
		runs = append(runs, [2]PosType{lo, hi})
	}
	assert.Equal(t, [][2]PosType{{100, 150}, {250, 300}}, runs)
}
