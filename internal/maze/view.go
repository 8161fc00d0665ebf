package maze

import "fmt"

// ViewDepth is the compile-time maximum corridor depth reported to a
// client.
const ViewDepth = 6

// ViewWidth is the number of columns per view row: left wall, corridor,
// right wall.
const ViewWidth = 3

// View column indices.
const (
	LeftWall = iota
	Corridor
	RightWall
)

// View is a ViewDepth x ViewWidth matrix of cells as seen by a player at a
// given position and gaze. Rows beyond the actual depth returned by
// GetView are left zero-valued and must not be read.
type View [ViewDepth][ViewWidth]byte

// Cell change describes one (depth, column) view cell that differs
// between two views, ready to become a SHOW packet.
type CellChange struct {
	Depth  int
	Column int
	Value  byte
}

// Diff returns every (depth, column) cell in next (within [0, depth)) that
// differs from prev, in depth-major, column-minor order — the order in
// which a full CLEAR+SHOW refresh would also emit them.
func Diff(prev, next View, depth int) []CellChange {
	var changes []CellChange
	for d := 0; d < depth; d++ {
		for x := 0; x < ViewWidth; x++ {
			if prev[d][x] != next[d][x] {
				changes = append(changes, CellChange{Depth: d, Column: x, Value: next[d][x]})
			}
		}
	}
	return changes
}

// All returns every (depth, column) cell of next within [0, depth), used
// for a full CLEAR+SHOW refresh when there is no valid cache to diff
// against.
func All(next View, depth int) []CellChange {
	changes := make([]CellChange, 0, depth*ViewWidth)
	for d := 0; d < depth; d++ {
		for x := 0; x < ViewWidth; x++ {
			changes = append(changes, CellChange{Depth: d, Column: x, Value: next[d][x]})
		}
	}
	return changes
}

// String renders a view for debug logging, one "left corridor right" line
// per depth, matching the original's show_view() dump.
func (v View) String(depth int) string {
	s := ""
	for d := 0; d < depth; d++ {
		s += fmt.Sprintf("%c %c %c\n", v[d][LeftWall], v[d][Corridor], v[d][RightWall])
	}
	return s
}
