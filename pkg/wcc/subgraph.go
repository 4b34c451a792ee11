package wcc

import (
	"sort"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
)

// InducedEdgeList is the transient, renumbered edge list handed to the
// minimum-cut oracle, together with the table mapping dense local ids back
// to the internal ids used by the graph. It is built fresh for every cut
// invocation and discarded immediately after.
type InducedEdgeList struct {
	Src []int64
	Dst []int64

	// Mapper[localId] = internal vertex id. A bijection between 0..N-1 and
	// the distinct internal ids touched by the edge list.
	Mapper []int64

	N int // distinct vertices
	M int // edges after deduplication
}

// SubgraphBuilder extracts the edge list induced by a cluster's member set.
type SubgraphBuilder struct {
	graph *graph.Graph
}

func NewSubgraphBuilder(g *graph.Graph) *SubgraphBuilder {
	return &SubgraphBuilder{graph: g}
}

// BuildInducedEdgeList emits one directed edge (u, v) for every member u and
// every neighbor v of u (the full neighbor list, including neighbors
// outside the member set, so the oracle sees boundary edges). The edge list
// is sorted lexicographically, exact duplicates are dropped, and vertex ids
// are renumbered densely from 0 in order of first appearance after the sort.
func (b *SubgraphBuilder) BuildInducedEdgeList(members map[int64]struct{}) *InducedEdgeList {
	edges := make([][2]int64, 0, len(members))
	for u := range members {
		for _, v := range b.graph.Neighbors(u) {
			edges = append(edges, [2]int64{u, v})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	out := &InducedEdgeList{
		Src: make([]int64, 0, len(edges)),
		Dst: make([]int64, 0, len(edges)),
	}
	local := make(map[int64]int64, len(members))
	renumber := func(internal int64) int64 {
		id, ok := local[internal]
		if !ok {
			id = int64(len(out.Mapper))
			local[internal] = id
			out.Mapper = append(out.Mapper, internal)
		}
		return id
	}

	for i, e := range edges {
		if i > 0 && e == edges[i-1] {
			continue
		}
		out.Src = append(out.Src, renumber(e[0]))
		out.Dst = append(out.Dst, renumber(e[1]))
	}
	out.N = len(out.Mapper)
	out.M = len(out.Src)

	return out
}
