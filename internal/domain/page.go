package domain

import "math"

// Direction of a page-scroll step
type Direction int

const (
	Down Direction = iota
	Up
)

// PositionFunc reports the rendered top offset of a node. ok is false when the
// node has no known position (not laid out).
type PositionFunc func(n *Node) (top float64, ok bool)

// PageBoundary walks from start in dir and returns the last node whose
// distance from start does not exceed budget (normally the viewport height).
// The walk also stops at a node without a position. start is returned when
// no neighbour fits.
func (t *Tree) PageBoundary(start *Node, dir Direction, budget float64, pos PositionFunc) *Node {
	if start == nil {
		return nil
	}
	origin, ok := pos(start)
	if !ok {
		return start
	}
	step := t.Next
	if dir == Up {
		step = t.Previous
	}
	boundary := start
	for candidate := step(start); candidate != nil; candidate = step(candidate) {
		top, ok := pos(candidate)
		if !ok || math.Abs(top-origin) > budget {
			break
		}
		boundary = candidate
	}
	return boundary
}

// RowPositions lays visible nodes out in fixed-height rows
func RowPositions(t *Tree, rowHeight float64) PositionFunc {
	return func(n *Node) (float64, bool) {
		row := t.VisibleIndex(n)
		if row < 0 {
			return 0, false
		}
		return float64(row) * rowHeight, true
	}
}
