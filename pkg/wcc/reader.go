package wcc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
)

// MembershipReader parses cluster-membership files into initial clusters.
type MembershipReader struct {
	graph *graph.Graph
}

func NewMembershipReader(g *graph.Graph) *MembershipReader {
	return &MembershipReader{graph: g}
}

// ReadFromFile parses a text file with one `<originalVertexId> <clusterId>`
// pair per line (whitespace-separated, extra columns ignored) into a mapping
// from cluster id to cluster. Malformed lines are skipped. Original ids not
// present in the graph are dropped silently; a cluster whose every id is
// unresolvable never materializes.
func (r *MembershipReader) ReadFromFile(filename string) (map[int64]*Cluster, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open membership file %s: %w", filename, err)
	}
	defer file.Close()

	members := make(map[int64][]int64)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		original, err1 := strconv.ParseInt(parts[0], 10, 64)
		clusterID, err2 := strconv.ParseInt(parts[1], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}

		internal, found := r.graph.FindInternalID(original)
		if !found {
			continue
		}
		members[clusterID] = append(members[clusterID], internal)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read membership file %s: %w", filename, err)
	}

	clusters := make(map[int64]*Cluster, len(members))
	for id, ids := range members {
		c := NewCluster(ids)
		c.ID = id
		clusters[id] = c
	}
	return clusters, nil
}
