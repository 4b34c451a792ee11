package wcc

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ClusterSummary is one accepted well-connected cluster. Because split
// descendants inherit the initial cluster id, the same id may appear in
// several summaries.
type ClusterSummary struct {
	ClusterID int64 `json:"cluster_id"`
	Size      int   `json:"size"`
}

// Result is the externally visible output of a refinement run: the flat,
// order-irrelevant sequence of accepted clusters plus run statistics.
type Result struct {
	Clusters   []ClusterSummary `json:"clusters"`
	Statistics Statistics       `json:"statistics"`
}

// Statistics contains refinement performance metrics.
type Statistics struct {
	InitialClusters   int     `json:"initial_clusters"`
	SingletonsDropped int     `json:"singletons_dropped"`
	AcceptedClusters  int     `json:"accepted_clusters"`
	DiscardedClusters int     `json:"discarded_clusters"`
	PrunedVertices    int64   `json:"pruned_vertices"`
	CutEvaluations    int64   `json:"cut_evaluations"`
	MeanSize          float64 `json:"mean_size"`
	MedianSize        float64 `json:"median_size"`
	RuntimeMS         int64   `json:"runtime_ms"`
	MemoryPeakMB      int64   `json:"memory_peak_mb"`
}

// finalizeSizeStats fills in the accepted-size distribution statistics.
func (r *Result) finalizeSizeStats() {
	if len(r.Clusters) == 0 {
		return
	}
	sizes := make([]float64, len(r.Clusters))
	for i, c := range r.Clusters {
		sizes[i] = float64(c.Size)
	}
	sort.Float64s(sizes)
	r.Statistics.MeanSize = stat.Mean(sizes, nil)
	r.Statistics.MedianSize = stat.Quantile(0.5, stat.Empirical, sizes, nil)
}
