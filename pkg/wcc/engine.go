package wcc

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/mincut"
)

// minRefinableSize is the size gate: clusters at or below this size are
// discarded without a cut evaluation. Fixed policy constant.
const minRefinableSize = 10

// Engine runs the recursive refinement. Top-level clusters own disjoint
// data and are refined concurrently on a bounded worker pool; within one
// top-level cluster the recursion is strictly sequential.
type Engine struct {
	graph   *graph.Graph
	oracle  mincut.Oracle
	builder *SubgraphBuilder
	config  *Config
	logger  zerolog.Logger
	writer  *ResultWriter

	prunedVertices atomic.Int64
	cutEvaluations atomic.Int64
	accepted       atomic.Int64
	discarded      atomic.Int64
}

// NewEngine creates a refinement engine. A result writer is attached only
// when the config names an output directory.
func NewEngine(g *graph.Graph, oracle mincut.Oracle, config *Config) (*Engine, error) {
	e := &Engine{
		graph:   g,
		oracle:  oracle,
		builder: NewSubgraphBuilder(g),
		config:  config,
		logger:  config.CreateLogger(),
	}
	if dir := config.OutputDir(); dir != "" {
		writer, err := NewResultWriter(g, dir)
		if err != nil {
			return nil, err
		}
		e.writer = writer
	}
	return e, nil
}

// Run refines every non-singleton initial cluster and aggregates the
// accepted well-connected clusters into a single result.
func (e *Engine) Run(ctx context.Context, clusters map[int64]*Cluster) (*Result, error) {
	startTime := time.Now()

	e.prunedVertices.Store(0)
	e.cutEvaluations.Store(0)
	e.accepted.Store(0)
	e.discarded.Store(0)

	result := &Result{Statistics: Statistics{InitialClusters: len(clusters)}}

	// Singleton initial clusters are dropped without processing. The rest
	// are dispatched in id order so logs stay reproducible.
	work := make([]*Cluster, 0, len(clusters))
	for _, c := range clusters {
		if c.IsSingleton() {
			result.Statistics.SingletonsDropped++
			continue
		}
		work = append(work, c)
	}
	sort.Slice(work, func(i, j int) bool { return work[i].ID < work[j].ID })

	e.logger.Info().
		Int("clusters", len(work)).
		Int("singletons_dropped", result.Statistics.SingletonsDropped).
		Int64("graph_vertices", e.graph.NumVertices()).
		Msg("Starting well-connectedness refinement")

	numWorkers := e.config.NumWorkers()
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(work) {
		numWorkers = len(work)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan *Cluster)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				summaries, err := e.processCluster(runCtx, c, 0)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
						cancel()
					}
				} else {
					result.Clusters = append(result.Clusters, summaries...)
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, c := range work {
		select {
		case jobs <- c:
		case <-runCtx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Statistics.AcceptedClusters = int(e.accepted.Load())
	result.Statistics.DiscardedClusters = int(e.discarded.Load())
	result.Statistics.PrunedVertices = e.prunedVertices.Load()
	result.Statistics.CutEvaluations = e.cutEvaluations.Load()
	result.Statistics.RuntimeMS = time.Since(startTime).Milliseconds()
	result.Statistics.MemoryPeakMB = getMemoryUsage()
	result.finalizeSizeStats()

	e.logger.Info().
		Int("accepted", result.Statistics.AcceptedClusters).
		Int("discarded", result.Statistics.DiscardedClusters).
		Int64("pruned_vertices", result.Statistics.PrunedVertices).
		Int64("cut_evaluations", result.Statistics.CutEvaluations).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Refinement completed")

	return result, nil
}

// ProcessCluster refines a single cluster and returns the accepted
// well-connected clusters of its recursion branch.
func (e *Engine) ProcessCluster(ctx context.Context, c *Cluster) ([]ClusterSummary, error) {
	return e.processCluster(ctx, c, 0)
}

func (e *Engine) processCluster(ctx context.Context, c *Cluster, depth int) ([]ClusterSummary, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if depth > e.config.MaxDepth() {
		e.discarded.Add(1)
		e.logger.Warn().
			Int64("cluster_id", c.ID).
			Int("size", c.Size()).
			Int("depth", depth).
			Msg("Recursion depth limit exceeded, discarding branch")
		return nil, nil
	}

	removed := e.prune(c)
	e.prunedVertices.Add(int64(removed))

	if c.IsSingleton() || c.Size() <= minRefinableSize {
		e.discarded.Add(1)
		e.logger.Debug().
			Int64("cluster_id", c.ID).
			Int("size", c.Size()).
			Int("depth", depth).
			Msg("Cluster below size gate, discarding")
		return nil, nil
	}

	size := c.Size()
	induced := e.builder.BuildInducedEdgeList(c.Members())
	e.cutEvaluations.Add(1)

	cut, side, err := e.oracle.Cut(induced.Src, induced.Dst, induced.N)
	if err != nil {
		return nil, fmt.Errorf("minimum cut of cluster %d (size %d) failed: %w", c.ID, size, err)
	}

	if wellConnected(size, cut) {
		c.IsWCC = true
		e.accepted.Add(1)
		e.logger.Debug().
			Int64("cluster_id", c.ID).
			Int("size", size).
			Int("cut", cut).
			Int("depth", depth).
			Msg("Cluster accepted as well connected")
		if e.writer != nil {
			if err := e.writer.WriteCluster(c); err != nil {
				return nil, err
			}
		}
		return []ClusterSummary{{ClusterID: c.ID, Size: size}}, nil
	}

	// The oracle also assigns boundary vertices that appear only as edge
	// targets; children take only the parent's members so every split is a
	// strict partition of the member set.
	var sideA, sideB []int64
	for local, internal := range induced.Mapper {
		if !c.Contains(internal) {
			continue
		}
		if side[local] == 0 {
			sideA = append(sideA, internal)
		} else {
			sideB = append(sideB, internal)
		}
	}

	if len(sideA) == 0 || len(sideB) == 0 {
		// The cut separated only boundary vertices; splitting again would
		// reproduce the same cluster.
		e.discarded.Add(1)
		e.logger.Warn().
			Int64("cluster_id", c.ID).
			Int("size", size).
			Int("cut", cut).
			Msg("Cut left all members on one side, discarding cluster")
		return nil, nil
	}

	e.logger.Debug().
		Int64("cluster_id", c.ID).
		Int("size", size).
		Int("cut", cut).
		Int("side_a", len(sideA)).
		Int("side_b", len(sideB)).
		Int("depth", depth).
		Msg("Splitting cluster along minimum cut")

	childA := NewCluster(sideA)
	childA.ID = c.ID
	childB := NewCluster(sideB)
	childB.ID = c.ID

	summaries, err := e.processCluster(ctx, childA, depth+1)
	if err != nil {
		return nil, err
	}
	more, err := e.processCluster(ctx, childB, depth+1)
	if err != nil {
		return nil, err
	}
	return append(summaries, more...), nil
}

// prune removes vertices whose within-cluster degree is below 2. Degrees in
// each pass are evaluated against a frozen snapshot of the member set, and
// passes repeat until a fixpoint, so the outcome is independent of
// iteration order and re-running is a no-op.
func (e *Engine) prune(c *Cluster) int {
	removed := 0
	for {
		var doomed []int64
		for v := range c.Members() {
			degree := 0
			for _, nb := range e.graph.Neighbors(v) {
				if nb != v && c.Contains(nb) {
					degree++
					if degree >= 2 {
						break
					}
				}
			}
			if degree < 2 {
				doomed = append(doomed, v)
			}
		}
		if len(doomed) == 0 {
			return removed
		}
		for _, v := range doomed {
			c.Remove(v)
		}
		removed += len(doomed)
	}
}

// acceptanceThreshold is floor(log10(size)). Sizes in 2..9 yield 0, so any
// strictly positive cut passes; size 1 never reaches this point because
// singletons are filtered beforehand.
func acceptanceThreshold(size int) int {
	return int(math.Floor(math.Log10(float64(size))))
}

// wellConnected reports whether a cluster of the given size with the given
// minimum cut passes the acceptance test.
func wellConnected(size, cut int) bool {
	return cut > acceptanceThreshold(size)
}

// getMemoryUsage returns current memory usage in MB.
func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
