package graph

import (
	"fmt"
	"sort"
)

// Graph is a read-only compressed adjacency structure over dense internal
// vertex ids 0..n-1. Internal id i corresponds to the i-th smallest original
// vertex id, so the original↔internal mapping is a single sorted table.
type Graph struct {
	offsets   []int64 // offsets[u]..offsets[u+1] index into neighbors
	neighbors []int64 // sorted, duplicate-free per vertex
	originals []int64 // originals[u] = external id of internal vertex u
	numEdges  int64   // undirected edge count
}

// NumVertices returns the number of vertices in the graph.
func (g *Graph) NumVertices() int64 {
	return int64(len(g.originals))
}

// NumEdges returns the number of undirected edges in the graph.
func (g *Graph) NumEdges() int64 {
	return g.numEdges
}

// Neighbors returns the sorted neighbor list of internal vertex u. The
// returned slice is owned by the graph and must not be modified.
func (g *Graph) Neighbors(u int64) []int64 {
	return g.neighbors[g.offsets[u]:g.offsets[u+1]]
}

// Degree returns the number of neighbors of internal vertex u.
func (g *Graph) Degree(u int64) int64 {
	return g.offsets[u+1] - g.offsets[u]
}

// OriginalID translates an internal vertex id back to its external id.
func (g *Graph) OriginalID(u int64) int64 {
	return g.originals[u]
}

// FindInternalID locates the internal id of an external vertex id via binary
// search over the sorted id-mapping table. The second return value reports
// whether the id exists in the graph.
func (g *Graph) FindInternalID(original int64) (int64, bool) {
	i := sort.Search(len(g.originals), func(i int) bool {
		return g.originals[i] >= original
	})
	if i < len(g.originals) && g.originals[i] == original {
		return int64(i), true
	}
	return -1, false
}

// MapToOriginal translates a sequence of internal ids to external ids.
func (g *Graph) MapToOriginal(internal []int64) []int64 {
	out := make([]int64, len(internal))
	for i, u := range internal {
		out[i] = g.originals[u]
	}
	return out
}

// Validate checks structural consistency of the adjacency arrays.
func (g *Graph) Validate() error {
	n := g.NumVertices()
	if int64(len(g.offsets)) != n+1 {
		return fmt.Errorf("offset table has %d entries for %d vertices", len(g.offsets), n)
	}
	for u := int64(0); u < n; u++ {
		nbrs := g.Neighbors(u)
		for i, v := range nbrs {
			if v < 0 || v >= n {
				return fmt.Errorf("vertex %d has out-of-range neighbor %d", u, v)
			}
			if i > 0 && nbrs[i-1] >= v {
				return fmt.Errorf("neighbor list of vertex %d is not sorted unique", u)
			}
		}
	}
	return nil
}

// NewFromEdges builds an undirected graph from an edge list over original
// vertex ids. Duplicate edges and self-loops are dropped, neighbor lists are
// sorted, and original ids are renumbered to dense internal ids by rank.
func NewFromEdges(edges [][2]int64) *Graph {
	seen := make(map[int64]struct{})
	for _, e := range edges {
		seen[e[0]] = struct{}{}
		seen[e[1]] = struct{}{}
	}

	originals := make([]int64, 0, len(seen))
	for id := range seen {
		originals = append(originals, id)
	}
	sort.Slice(originals, func(i, j int) bool { return originals[i] < originals[j] })

	rank := make(map[int64]int64, len(originals))
	for i, id := range originals {
		rank[id] = int64(i)
	}

	adj := make([][]int64, len(originals))
	for _, e := range edges {
		if e[0] == e[1] {
			continue
		}
		u, v := rank[e[0]], rank[e[1]]
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}

	g := &Graph{
		offsets:   make([]int64, len(originals)+1),
		originals: originals,
	}
	for u, nbrs := range adj {
		nbrs = sortedUnique(nbrs)
		g.neighbors = append(g.neighbors, nbrs...)
		g.offsets[u+1] = int64(len(g.neighbors))
		g.numEdges += int64(len(nbrs))
	}
	g.numEdges /= 2

	return g
}

func sortedUnique(ids []int64) []int64 {
	if len(ids) == 0 {
		return ids
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	unique := ids[:1]
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[i-1] {
			unique = append(unique, ids[i])
		}
	}
	return unique
}
