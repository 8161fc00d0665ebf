package maze

import "testing"

func small(t *testing.T) *Maze {
	t.Helper()
	m, err := New([]string{
		"*****",
		"*   *",
		"* * *",
		"*   *",
		"*****",
	}, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestDimensions(t *testing.T) {
	m := small(t)
	rows, cols := m.Dimensions()
	if rows != 5 || cols != 5 {
		t.Errorf("Dimensions() = (%d,%d), want (5,5)", rows, cols)
	}
}

func TestPlaceAndCellUniqueness(t *testing.T) {
	m := small(t)
	if !m.Place('A', 1, 1) {
		t.Fatal("expected placement at empty cell to succeed")
	}
	if m.Place('B', 1, 1) {
		t.Error("expected placement at occupied cell to fail")
	}
	if m.Place('C', 0, 0) {
		t.Error("expected placement on a wall cell to fail")
	}
	if m.Place('D', 99, 99) {
		t.Error("expected out-of-bounds placement to fail")
	}
}

func TestPlaceRandomAvoidsWalls(t *testing.T) {
	m := small(t)
	for i := 0; i < 50; i++ {
		avatar := byte('A' + i%20)
		m.Remove(avatar, 0, 0) // harmless no-op, keeps avatar reusable
		r, c, ok := m.PlaceRandom(avatar)
		if !ok {
			continue
		}
		if !IsEmpty(byte(' ')) {
			t.Fatal("sanity: space must be empty")
		}
		if m.cell[r][c] != avatar {
			t.Fatalf("PlaceRandom returned (%d,%d) holding %q, want %q placed on an empty cell", r, c, m.cell[r][c], avatar)
		}
		m.Remove(avatar, r, c)
	}
}

func TestPlaceRandomExhaustion(t *testing.T) {
	m, err := New([]string{"*A*"}, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Every cell is a wall; random placement must fail cleanly.
	m2, err := New([]string{"**"}, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, ok := m2.PlaceRandom('Z'); ok {
		t.Error("expected placement to fail when no empty cells exist")
	}
	_ = m
}

func TestMoveAtomicity(t *testing.T) {
	m := small(t)
	m.Place('A', 1, 1)
	if !m.Move(1, 1, East) {
		t.Fatal("expected move into empty east cell to succeed")
	}
	if m.cell[1][1] != ' ' {
		t.Error("origin cell should be empty after move")
	}
	if m.cell[1][2] != 'A' {
		t.Error("destination cell should hold the moved avatar")
	}
}

func TestMoveRejectsWallsAndOccupiedCells(t *testing.T) {
	m := small(t)
	m.Place('A', 1, 1)
	if m.Move(1, 1, North) {
		t.Error("expected move into a wall cell to fail")
	}
	m.Place('B', 1, 2)
	if m.Move(1, 1, East) {
		t.Error("expected move into an occupied cell to fail")
	}
}

func TestMoveFromEmptyOrWallCellFails(t *testing.T) {
	m := small(t)
	if m.Move(1, 1, East) {
		t.Error("expected move from an empty cell to fail")
	}
	if m.Move(0, 0, East) {
		t.Error("expected move from a wall cell to fail")
	}
}

func TestFindTargetHitsAvatar(t *testing.T) {
	m := small(t)
	m.Place('A', 1, 1)
	m.Place('B', 3, 1)
	if got := m.FindTarget(1, 1, South); got != 'B' {
		t.Errorf("FindTarget south = %q, want 'B'", got)
	}
}

func TestFindTargetStopsAtWall(t *testing.T) {
	m := small(t)
	m.Place('A', 2, 1)
	if got := m.FindTarget(2, 1, West); got != ' ' {
		t.Errorf("FindTarget into a wall = %q, want empty", got)
	}
}

func TestFindTargetRunsOffMaze(t *testing.T) {
	m := small(t)
	if got := m.FindTarget(-5, -5, North); got != ' ' {
		t.Errorf("FindTarget from off-grid start = %q, want empty", got)
	}
}

func TestGetViewScansThroughWallsAndStopsOnlyAtMazeEdge(t *testing.T) {
	m := small(t)
	view, depth := m.GetView(1, 1, North, ViewDepth)
	// (1,1) is empty, one step north (0,1) is a wall, and two steps north
	// is off the maze: the wall must be recorded, not treated as a stop
	// condition, so the scan only ends when it runs off the grid.
	if depth != 2 {
		t.Fatalf("depth = %d, want 2 (own cell, then the wall one step north, then off the maze)", depth)
	}
	if view[0][Corridor] != ' ' {
		t.Errorf("corridor[0] = %q, want empty", view[0][Corridor])
	}
	if view[1][Corridor] != WallChar {
		t.Errorf("corridor[1] = %q, want wall", view[1][Corridor])
	}
}

func TestGetViewSideWallOutOfBoundsReportsWallChar(t *testing.T) {
	m := small(t)
	// Row 0 is the maze's own top wall, so scanning east along it puts
	// the left-hand side cell (row -1) off the grid at every depth.
	view, depth := m.GetView(0, 1, East, 3)
	if depth != 3 {
		t.Fatalf("depth = %d, want 3 (forward scan stays in bounds)", depth)
	}
	for d := 0; d < depth; d++ {
		if view[d][LeftWall] != WallChar {
			t.Errorf("leftWall[%d] = %q, want wall char for an out-of-bounds side cell", d, view[d][LeftWall])
		}
	}
}

func TestGetViewMatchesFormula(t *testing.T) {
	m, err := New([]string{
		"*******",
		"*     *",
		"*******",
	}, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	view, depth := m.GetView(1, 1, East, ViewDepth)
	// 5 open cells then the far wall exactly fill ViewDepth rows; the wall
	// is reached because maxDepth runs out here, not because it stops the
	// scan.
	if depth != 6 {
		t.Fatalf("depth = %d, want 6 (5 open cells plus the far wall, filling ViewDepth)", depth)
	}
	for d := 0; d < depth-1; d++ {
		if view[d][Corridor] != ' ' {
			t.Errorf("corridor[%d] = %q, want empty", d, view[d][Corridor])
		}
		if view[d][LeftWall] != WallChar || view[d][RightWall] != WallChar {
			t.Errorf("walls[%d] = (%q,%q), want (%q,%q)", d, view[d][LeftWall], view[d][RightWall], WallChar, WallChar)
		}
	}
	if last := view[depth-1][Corridor]; last != WallChar {
		t.Errorf("final corridor cell = %q, want wall", last)
	}
}
