package mincut

import "fmt"

// StoerWagner computes global minimum cuts with the Stoer-Wagner algorithm
// over the symmetrized, unit-weight simple graph induced by the edge list.
// A disconnected input yields a cut of zero with one component on each side.
type StoerWagner struct{}

func NewStoerWagner() *StoerWagner {
	return &StoerWagner{}
}

// Cut implements the Oracle interface.
func (sw *StoerWagner) Cut(src, dst []int64, n int) (int, []uint8, error) {
	if n < 2 {
		return 0, nil, fmt.Errorf("%w: need at least 2 vertices, got %d", ErrOracleFailure, n)
	}
	if len(src) != len(dst) {
		return 0, nil, fmt.Errorf("%w: edge arrays have mismatched lengths %d and %d",
			ErrOracleFailure, len(src), len(dst))
	}

	// Symmetrize to unit weights: one undirected edge per distinct pair,
	// regardless of how many directions the input lists.
	weights := make([]map[int]int, n)
	for i := 0; i < n; i++ {
		weights[i] = make(map[int]int)
	}
	for i := range src {
		u, v := int(src[i]), int(dst[i])
		if u < 0 || u >= n || v < 0 || v >= n {
			return 0, nil, fmt.Errorf("%w: edge (%d, %d) out of range for %d vertices",
				ErrOracleFailure, u, v, n)
		}
		if u == v {
			continue
		}
		if weights[u][v] == 0 {
			weights[u][v] = 1
			weights[v][u] = 1
		}
	}

	// Each supervertex tracks the input vertices merged into it.
	merged := make([][]int, n)
	active := make([]int, n)
	for i := 0; i < n; i++ {
		merged[i] = []int{i}
		active[i] = i
	}

	bestCut := -1
	var bestSide []int

	for len(active) > 1 {
		cutOfPhase, s, t := sw.minimumCutPhase(weights, active)

		if bestCut < 0 || cutOfPhase < bestCut {
			bestCut = cutOfPhase
			bestSide = append([]int(nil), merged[t]...)
		}

		// Contract t into s.
		for v, w := range weights[t] {
			delete(weights[v], t)
			if v != s {
				weights[s][v] += w
				weights[v][s] += w
			}
		}
		weights[t] = nil
		merged[s] = append(merged[s], merged[t]...)
		merged[t] = nil

		for i, v := range active {
			if v == t {
				active = append(active[:i], active[i+1:]...)
				break
			}
		}
	}

	side := make([]uint8, n)
	for _, v := range bestSide {
		side[v] = 1
	}
	return bestCut, side, nil
}

// minimumCutPhase runs one maximum-adjacency ordering over the active
// supervertices and returns the cut-of-the-phase together with the last two
// vertices of the ordering.
func (sw *StoerWagner) minimumCutPhase(weights []map[int]int, active []int) (int, int, int) {
	added := make(map[int]bool, len(active))
	connect := make(map[int]int, len(active))

	cutOfPhase := 0
	s, t := -1, -1
	for range active {
		sel := -1
		for _, v := range active {
			if !added[v] && (sel < 0 || connect[v] > connect[sel]) {
				sel = v
			}
		}
		added[sel] = true
		s, t = t, sel
		cutOfPhase = connect[sel]

		for v, w := range weights[sel] {
			if !added[v] {
				connect[v] += w
			}
		}
	}
	return cutOfPhase, s, t
}
