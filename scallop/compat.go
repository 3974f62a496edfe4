package scallop

// compatible reports whether routing flow from in-edge i through j is
// consistent with bridge evidence (spec §4.4 step 2): a bridge carried by i
// is satisfied by j if j carries the same bridge, and forbids pairing i
// with any other out-edge that does not. Strand consistency and read-pair
// phasing are folded into bridge derivation upstream (bundle.Bridges), so
// this reduces to a bridge-membership check.
func compatible(i, j liveEdge, outEdges []liveEdge) bool {
	for bid := range i.bridges {
		if j.bridges[bid] {
			continue
		}
		for _, k := range outEdges {
			if k.id == j.id {
				continue
			}
			if k.bridges[bid] {
				return false
			}
		}
	}
	return true
}

// compatMatrix builds the in(v) x out(v) compatibility matrix (spec §4.4
// step 2).
func compatMatrix(in, out []liveEdge) [][]bool {
	m := make([][]bool, len(in))
	for i := range in {
		m[i] = make([]bool, len(out))
		for j := range out {
			m[i][j] = compatible(in[i], out[j], out)
		}
	}
	return m
}

// allFalseRowOrColumn reports whether some in-edge (row) or out-edge
// (column) with non-zero weight has no compatible partner at all — the
// condition that forces the bridge-blind fallback (spec §4.4, "Failure
// modes").
func allFalseRowOrColumn(m [][]bool, in, out []liveEdge) bool {
	for i, row := range m {
		if in[i].weight <= 0 {
			continue
		}
		anyTrue := false
		for _, v := range row {
			if v {
				anyTrue = true
				break
			}
		}
		if !anyTrue {
			return true
		}
	}
	for j := range out {
		if out[j].weight <= 0 {
			continue
		}
		anyTrue := false
		for i := range in {
			if m[i][j] {
				anyTrue = true
				break
			}
		}
		if !anyTrue {
			return true
		}
	}
	return false
}
