package wcc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
)

// ResultWriter persists accepted clusters to per-cluster files. Because
// split descendants inherit their parent's cluster id, several files may be
// written for one initial cluster; a running sequence number per id keeps
// the file names distinct.
type ResultWriter struct {
	graph  *graph.Graph
	dir    string
	mu     sync.Mutex
	serial map[int64]int
}

func NewResultWriter(g *graph.Graph, dir string) (*ResultWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory %s: %w", dir, err)
	}
	return &ResultWriter{graph: g, dir: dir, serial: make(map[int64]int)}, nil
}

// WriteCluster writes one accepted cluster: a header line with the cluster
// id and member count, then one original vertex id per line, sorted.
func (w *ResultWriter) WriteCluster(c *Cluster) error {
	w.mu.Lock()
	seq := w.serial[c.ID]
	w.serial[c.ID]++
	w.mu.Unlock()

	filename := filepath.Join(w.dir, fmt.Sprintf("cluster_%d_%d_wcc.tsv", c.ID, seq))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create cluster file %s: %w", filename, err)
	}
	defer file.Close()

	originals := w.graph.MapToOriginal(c.MemberSlice())
	sort.Slice(originals, func(i, j int) bool { return originals[i] < originals[j] })

	fmt.Fprintf(file, "# cluster %d size %d\n", c.ID, len(originals))
	for _, id := range originals {
		fmt.Fprintf(file, "%d\n", id)
	}
	return nil
}
