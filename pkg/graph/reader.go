package graph

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Reader loads graphs from whitespace-separated edge-list files.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadFromFile parses a text file with one `<src> <dst>` pair per line into
// an undirected Graph. Blank lines, comment lines starting with '#', and
// lines that do not parse as two integers are skipped.
func (r *Reader) ReadFromFile(filename string) (*Graph, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open graph file %s: %w", filename, err)
	}
	defer file.Close()

	var edges [][2]int64

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
		src, err1 := strconv.ParseInt(parts[0], 10, 64)
		dst, err2 := strconv.ParseInt(parts[1], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		edges = append(edges, [2]int64{src, dst})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read graph file %s: %w", filename, err)
	}

	return NewFromEdges(edges), nil
}
