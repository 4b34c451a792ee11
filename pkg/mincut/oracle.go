// Package mincut provides global minimum edge-cut computation for the
// cluster refinement engine. The engine depends only on the Oracle
// interface, so alternative cut algorithms can be substituted.
package mincut

import "errors"

// ErrOracleFailure marks failures of the minimum-cut computation. The
// refinement engine treats any error wrapping it as fatal: an uncertain cut
// result would corrupt the recursion.
var ErrOracleFailure = errors.New("minimum cut oracle failure")

// Oracle computes a global minimum 2-way edge cut. Input is an edge list
// over dense 0-based vertex ids (src and dst of equal length, ids < n).
// Output is the cut value and a per-vertex binary side assignment of
// length n, with every vertex assigned to exactly one side.
type Oracle interface {
	Cut(src, dst []int64, n int) (cut int, side []uint8, err error)
}
