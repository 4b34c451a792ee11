package graph

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewFromEdges(t *testing.T) {
	// Original ids deliberately sparse and unsorted.
	g := NewFromEdges([][2]int64{
		{300, 100},
		{100, 200},
		{200, 300},
		{100, 200}, // duplicate
		{200, 100}, // reverse duplicate
		{300, 300}, // self-loop
	})

	if got := g.NumVertices(); got != 3 {
		t.Fatalf("NumVertices() = %d, want 3", got)
	}
	if got := g.NumEdges(); got != 3 {
		t.Errorf("NumEdges() = %d, want 3", got)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	// Internal ids follow original-id rank: 100->0, 200->1, 300->2.
	for internal, original := range []int64{100, 200, 300} {
		if got := g.OriginalID(int64(internal)); got != original {
			t.Errorf("OriginalID(%d) = %d, want %d", internal, got, original)
		}
	}

	if got := g.Neighbors(0); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Errorf("Neighbors(0) = %v, want [1 2]", got)
	}
	if got := g.Degree(1); got != 2 {
		t.Errorf("Degree(1) = %d, want 2", got)
	}
}

func TestFindInternalID(t *testing.T) {
	g := NewFromEdges([][2]int64{{10, 20}, {20, 40}})

	tests := []struct {
		name     string
		original int64
		want     int64
		found    bool
	}{
		{"first", 10, 0, true},
		{"middle", 20, 1, true},
		{"last", 40, 2, true},
		{"absent between", 30, -1, false},
		{"absent below", 5, -1, false},
		{"absent above", 99, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := g.FindInternalID(tt.original)
			if got != tt.want || found != tt.found {
				t.Errorf("FindInternalID(%d) = (%d, %v), want (%d, %v)",
					tt.original, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestMapToOriginal(t *testing.T) {
	g := NewFromEdges([][2]int64{{7, 9}, {9, 11}})

	got := g.MapToOriginal([]int64{2, 0})
	if !reflect.DeepEqual(got, []int64{11, 7}) {
		t.Errorf("MapToOriginal([2 0]) = %v, want [11 7]", got)
	}
}

func TestReaderSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.tsv")
	content := "# comment\n" +
		"1 2\n" +
		"\n" +
		"2 3 extra-column-ok\n" +
		"not numbers\n" +
		"4\n" +
		"3 1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := NewReader().ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got := g.NumVertices(); got != 3 {
		t.Errorf("NumVertices() = %d, want 3", got)
	}
	if got := g.NumEdges(); got != 3 {
		t.Errorf("NumEdges() = %d, want 3", got)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader().ReadFromFile(filepath.Join(t.TempDir(), "missing.tsv")); err == nil {
		t.Error("ReadFromFile() on missing file: error = nil, want error")
	}
}
