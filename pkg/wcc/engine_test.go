package wcc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/mincut"
)

// stubOracle returns a fixed cut value and a caller-supplied side
// assignment, and counts invocations. Not safe for concurrent use; tests
// run the engine with a single worker.
type stubOracle struct {
	cut   int
	side  func(n int) []uint8
	err   error
	calls int
}

func (o *stubOracle) Cut(src, dst []int64, n int) (int, []uint8, error) {
	o.calls++
	if o.err != nil {
		return 0, nil, o.err
	}
	if o.side != nil {
		// Read the cut before invoking the side callback: tests may swap
		// o.cut from inside it, and the evaluation order of a return
		// statement's non-call operands is unspecified.
		cut := o.cut
		return cut, o.side(n), nil
	}
	return o.cut, make([]uint8, n), nil
}

func newTestEngine(t *testing.T, g *graph.Graph, oracle mincut.Oracle) *Engine {
	t.Helper()
	cfg := NewConfig()
	cfg.Set("logging.level", "error")
	cfg.Set("performance.num_workers", 1)
	engine, err := NewEngine(g, oracle, cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// cliqueEdges appends all edges of a complete graph over ids lo..hi.
func cliqueEdges(edges [][2]int64, lo, hi int64) [][2]int64 {
	for i := lo; i <= hi; i++ {
		for j := i + 1; j <= hi; j++ {
			edges = append(edges, [2]int64{i, j})
		}
	}
	return edges
}

// barbellGraph builds two k-cliques joined by a single bridging edge, with
// contiguous original ids so internal ids coincide with them.
func barbellGraph(k int64) *graph.Graph {
	edges := cliqueEdges(nil, 0, k-1)
	edges = cliqueEdges(edges, k, 2*k-1)
	edges = append(edges, [2]int64{k - 1, k})
	return graph.NewFromEdges(edges)
}

func allVertexCluster(g *graph.Graph, id int64) *Cluster {
	ids := make([]int64, g.NumVertices())
	for i := range ids {
		ids[i] = int64(i)
	}
	c := NewCluster(ids)
	c.ID = id
	return c
}

func TestAcceptanceThreshold(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{2, 0}, {5, 0}, {9, 0},
		{10, 1}, {11, 1}, {99, 1},
		{100, 2}, {999, 2}, {1000, 3},
	}
	for _, tt := range tests {
		if got := acceptanceThreshold(tt.size); got != tt.want {
			t.Errorf("acceptanceThreshold(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestWellConnectedBoundary(t *testing.T) {
	tests := []struct {
		name string
		size int
		cut  int
		want bool
	}{
		{"size 5 cut 0 rejected", 5, 0, false},
		{"size 5 cut 1 accepted", 5, 1, true},
		{"size 12 cut 1 rejected", 12, 1, false},
		{"size 12 cut 2 accepted", 12, 2, true},
		{"size 100 cut 2 rejected", 100, 2, false},
		{"size 100 cut 3 accepted", 100, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wellConnected(tt.size, tt.cut); got != tt.want {
				t.Errorf("wellConnected(%d, %d) = %v, want %v", tt.size, tt.cut, got, tt.want)
			}
		})
	}
}

func TestPruneRemovesLowDegreeChain(t *testing.T) {
	// Triangle 0-1-2 with a pendant path 2-3-4. Vertex 4 has degree 1; once
	// it is gone vertex 3 drops to degree 1 as well, so pruning iterates to
	// a fixpoint and removes both.
	g := graph.NewFromEdges([][2]int64{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}})
	engine := newTestEngine(t, g, &stubOracle{})

	c := allVertexCluster(g, 1)
	removed := engine.prune(c)

	if removed != 2 {
		t.Errorf("prune() removed %d vertices, want 2", removed)
	}
	for _, v := range []int64{0, 1, 2} {
		if !c.Contains(v) {
			t.Errorf("triangle vertex %d pruned, want kept", v)
		}
	}
	for _, v := range []int64{3, 4} {
		if c.Contains(v) {
			t.Errorf("chain vertex %d kept, want pruned", v)
		}
	}
}

func TestPruneIdempotent(t *testing.T) {
	g := graph.NewFromEdges([][2]int64{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}})
	engine := newTestEngine(t, g, &stubOracle{})

	c := allVertexCluster(g, 1)
	engine.prune(c)

	if removed := engine.prune(c); removed != 0 {
		t.Errorf("second prune() removed %d vertices, want 0", removed)
	}
}

func TestSizeGateDiscardsWithoutCut(t *testing.T) {
	tests := []struct {
		name        string
		cliqueSize  int64
		wantCalls   int
		wantResults int
	}{
		{"size 10 discarded before cut", 10, 0, 0},
		{"size 11 reaches cut evaluation", 11, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.NewFromEdges(cliqueEdges(nil, 0, tt.cliqueSize-1))
			oracle := &stubOracle{cut: 5} // over any threshold at these sizes
			engine := newTestEngine(t, g, oracle)

			summaries, err := engine.ProcessCluster(context.Background(), allVertexCluster(g, 1))
			if err != nil {
				t.Fatalf("ProcessCluster() error = %v", err)
			}
			if oracle.calls != tt.wantCalls {
				t.Errorf("oracle calls = %d, want %d", oracle.calls, tt.wantCalls)
			}
			if len(summaries) != tt.wantResults {
				t.Errorf("summaries = %v, want %d entries", summaries, tt.wantResults)
			}
		})
	}
}

func TestDenseClusterAcceptedDirectly(t *testing.T) {
	// Single dense cluster of size 20, oracle reports cut 3, threshold
	// floor(log10(20)) = 1: accepted without splitting.
	g := graph.NewFromEdges(cliqueEdges(nil, 0, 19))
	oracle := &stubOracle{cut: 3}
	engine := newTestEngine(t, g, oracle)

	c := allVertexCluster(g, 42)
	clusters := map[int64]*Cluster{42: c}

	result, err := engine.Run(context.Background(), clusters)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Clusters) != 1 {
		t.Fatalf("Clusters = %v, want exactly one", result.Clusters)
	}
	if result.Clusters[0].ClusterID != 42 || result.Clusters[0].Size != 20 {
		t.Errorf("Clusters[0] = %+v, want {42 20}", result.Clusters[0])
	}
	if !c.IsWCC {
		t.Error("IsWCC = false on accepted cluster, want true")
	}
	if oracle.calls != 1 {
		t.Errorf("oracle calls = %d, want 1", oracle.calls)
	}
	if result.Statistics.MeanSize != 20 || result.Statistics.MedianSize != 20 {
		t.Errorf("size stats = (%v, %v), want (20, 20)",
			result.Statistics.MeanSize, result.Statistics.MedianSize)
	}
}

func TestBarbellEndToEnd(t *testing.T) {
	// 12-vertex barbell, all vertices in initial cluster 7. The real oracle
	// finds the bridge cut of 1, which does not exceed threshold
	// floor(log10(12)) = 1, so the cluster splits into the two 6-cliques;
	// each fails the size gate and the final result is empty.
	g := barbellGraph(6)
	engine := newTestEngine(t, g, mincut.NewStoerWagner())

	c := allVertexCluster(g, 7)
	result, err := engine.Run(context.Background(), map[int64]*Cluster{7: c})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Clusters) != 0 {
		t.Errorf("Clusters = %v, want empty", result.Clusters)
	}
	if result.Statistics.PrunedVertices != 0 {
		t.Errorf("PrunedVertices = %d, want 0", result.Statistics.PrunedVertices)
	}
	if result.Statistics.CutEvaluations != 1 {
		t.Errorf("CutEvaluations = %d, want 1 (children stop at the size gate)",
			result.Statistics.CutEvaluations)
	}
	if result.Statistics.DiscardedClusters != 2 {
		t.Errorf("DiscardedClusters = %d, want 2", result.Statistics.DiscardedClusters)
	}
}

func TestSplitPartitionsMembers(t *testing.T) {
	// Force a split of a 24-vertex clique down the middle and check the
	// children partition the parent exactly; with cut 9 each 12-vertex half
	// is then accepted (9 > floor(log10(12))).
	g := graph.NewFromEdges(cliqueEdges(nil, 0, 23))
	first := true
	oracle := &stubOracle{}
	oracle.side = func(n int) []uint8 {
		side := make([]uint8, n)
		if first {
			// Mapper order of a clique follows sorted edge order, so the
			// first half of the dense ids is one side of the split.
			for i := n / 2; i < n; i++ {
				side[i] = 1
			}
		}
		return side
	}
	engine := newTestEngine(t, g, oracle)

	// First call: cut 1 (below threshold 1 for size 24), forces the split.
	// Subsequent calls: cut 9, accepting each half.
	oracle.cut = 1
	c := allVertexCluster(g, 3)
	run := func(ctx context.Context, cl *Cluster) []ClusterSummary {
		summaries, err := engine.ProcessCluster(ctx, cl)
		if err != nil {
			t.Fatalf("ProcessCluster() error = %v", err)
		}
		return summaries
	}

	// Swap the oracle behavior after the first invocation.
	baseSide := oracle.side
	oracle.side = func(n int) []uint8 {
		defer func() {
			first = false
			oracle.cut = 9
		}()
		return baseSide(n)
	}

	summaries := run(context.Background(), c)

	if len(summaries) != 2 {
		t.Fatalf("summaries = %v, want two accepted halves", summaries)
	}
	total := 0
	for _, s := range summaries {
		if s.ClusterID != 3 {
			t.Errorf("ClusterID = %d, want inherited id 3", s.ClusterID)
		}
		total += s.Size
	}
	if total != 24 {
		t.Errorf("sum of child sizes = %d, want 24 (strict partition)", total)
	}
}

func TestBoundaryOnlyCutDiscards(t *testing.T) {
	// Two 11-cliques joined by a bridge, refined one clique at a time. The
	// induced edge list includes the bridge to the other clique, so the
	// minimum cut (1) isolates the boundary vertex; restricted to members
	// one side is empty and the cluster is discarded rather than re-split.
	edges := cliqueEdges(nil, 0, 10)
	edges = cliqueEdges(edges, 11, 21)
	edges = append(edges, [2]int64{10, 11})
	g := graph.NewFromEdges(edges)
	engine := newTestEngine(t, g, mincut.NewStoerWagner())

	ids := make([]int64, 0, 11)
	for v := int64(0); v <= 10; v++ {
		ids = append(ids, v)
	}
	c := NewCluster(ids)
	c.ID = 1

	summaries, err := engine.ProcessCluster(context.Background(), c)
	if err != nil {
		t.Fatalf("ProcessCluster() error = %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("summaries = %v, want empty (boundary-only cut)", summaries)
	}
	if got := engine.discarded.Load(); got != 1 {
		t.Errorf("discarded = %d, want 1", got)
	}
}

func TestRunDropsSingletons(t *testing.T) {
	g := graph.NewFromEdges([][2]int64{{0, 1}, {1, 2}, {2, 0}})
	oracle := &stubOracle{}
	engine := newTestEngine(t, g, oracle)

	singleton := NewCluster([]int64{0})
	singleton.ID = 5

	result, err := engine.Run(context.Background(), map[int64]*Cluster{5: singleton})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Statistics.SingletonsDropped != 1 {
		t.Errorf("SingletonsDropped = %d, want 1", result.Statistics.SingletonsDropped)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle calls = %d, want 0", oracle.calls)
	}
}

func TestOracleFailureIsFatal(t *testing.T) {
	g := graph.NewFromEdges(cliqueEdges(nil, 0, 11))
	wantErr := fmt.Errorf("%w: solver exploded", mincut.ErrOracleFailure)
	engine := newTestEngine(t, g, &stubOracle{err: wantErr})

	_, err := engine.Run(context.Background(), map[int64]*Cluster{1: allVertexCluster(g, 1)})
	if !errors.Is(err, mincut.ErrOracleFailure) {
		t.Errorf("Run() error = %v, want wrapped ErrOracleFailure", err)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	g := graph.NewFromEdges(cliqueEdges(nil, 0, 11))
	engine := newTestEngine(t, g, &stubOracle{cut: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, map[int64]*Cluster{1: allVertexCluster(g, 1)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
