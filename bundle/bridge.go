package bundle

import (
	"sort"

	"github.com/grailbio/scallop/sgraph"
)

// Bridge is paired-mate evidence linking two junctions: some fragment's two
// mates each spanned a different intron within the same bundle (spec §3
// Glossary, "Bridge").
type Bridge struct {
	ID    sgraph.BridgeID
	A, B  JunctionKey
	Count int
}

func (k JunctionKey) less(other JunctionKey) bool {
	if k.Lo != other.Lo {
		return k.Lo < other.Lo
	}
	return k.Hi < other.Hi
}

// Bridges derives the bundle's bridge set from fragmentJunctions: every
// fragment whose hits collectively span two or more distinct junctions
// contributes one unit of evidence to each unordered pair of junctions it
// touches. Bridge ids are assigned in a sorted, deterministic order (spec
// §4.4, "Tie-breaks and determinism").
func (b *Bundle) Bridges() []Bridge {
	type pair struct{ a, z JunctionKey }
	counts := map[pair]int{}
	for _, set := range b.fragmentJunctions {
		if len(set) < 2 {
			continue
		}
		keys := make([]JunctionKey, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				counts[pair{keys[i], keys[j]}]++
			}
		}
	}

	pairs := make([]pair, 0, len(counts))
	for p := range counts {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a.less(pairs[j].a)
		}
		return pairs[i].z.less(pairs[j].z)
	})

	bridges := make([]Bridge, len(pairs))
	for i, p := range pairs {
		bridges[i] = Bridge{ID: sgraph.BridgeID(i), A: p.a, B: p.z, Count: counts[p]}
	}
	return bridges
}
