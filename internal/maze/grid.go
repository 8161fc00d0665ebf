package maze

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// MaxPlacementAttempts bounds random placement per the protocol's
// documented retry budget.
const MaxPlacementAttempts = 1000

// WallChar is reported for any view cell that falls outside the maze
// rectangle.
const WallChar = '*'

// IsEmpty reports whether c is the literal space character.
func IsEmpty(c byte) bool { return c == ' ' }

// IsAvatar reports whether c is an uppercase ASCII letter.
func IsAvatar(c byte) bool { return c >= 'A' && c <= 'Z' }

// Maze is the shared rectangular grid of cells. Every operation acquires
// the single maze-wide lock; none may call back into a component that
// could re-enter it.
type Maze struct {
	mu   sync.Mutex
	rows int
	cols int
	cell [][]byte
	rng  *rand.Rand
}

// New allocates a maze from a template: one string per row, all rows
// assumed the same length as the first. The random generator is seeded
// once here and reused for every PlaceRandom call, mirroring the
// original's srand(time(NULL)) at init.
func New(template []string, seed int64) (*Maze, error) {
	if len(template) == 0 || len(template[0]) == 0 {
		return nil, fmt.Errorf("maze: template is empty")
	}
	rows := len(template)
	cols := len(template[0])

	cell := make([][]byte, rows)
	for i, line := range template {
		row := make([]byte, cols)
		copy(row, line)
		for j := len(line); j < cols; j++ {
			row[j] = ' '
		}
		cell[i] = row
	}

	return &Maze{
		rows: rows,
		cols: cols,
		cell: cell,
		rng:  rand.New(rand.NewSource(seed)),
	}, nil
}

// Dimensions returns (rows, cols).
func (m *Maze) Dimensions() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, m.cols
}

func (m *Maze) inBounds(r, c int) bool {
	return r >= 0 && r < m.rows && c >= 0 && c < m.cols
}

// Place sets cell (r,c) to avatar iff it is in bounds and currently empty.
func (m *Maze) Place(avatar byte, r, c int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placeLocked(avatar, r, c)
}

func (m *Maze) placeLocked(avatar byte, r, c int) bool {
	if !m.inBounds(r, c) || !IsEmpty(m.cell[r][c]) {
		return false
	}
	m.cell[r][c] = avatar
	return true
}

// PlaceRandom tries up to MaxPlacementAttempts uniformly-random cells and
// places avatar on the first empty one found. Callers must not hold an
// existing placement for avatar — this never removes a prior position.
func (m *Maze) PlaceRandom(avatar byte) (row, col int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < MaxPlacementAttempts; i++ {
		r := m.rng.Intn(m.rows)
		c := m.rng.Intn(m.cols)
		if m.placeLocked(avatar, r, c) {
			return r, c, true
		}
	}
	return 0, 0, false
}

// Remove clears (r,c) iff it currently holds avatar; otherwise it is a
// no-op, guarding against double-removal races.
func (m *Maze) Remove(avatar byte, r, c int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inBounds(r, c) && m.cell[r][c] == avatar {
		m.cell[r][c] = ' '
	}
}

// Move shifts the avatar occupying (r,c) one cell in dir, iff that cell
// holds an avatar and the destination is in bounds and empty. The swap is
// performed entirely under the maze lock so no intermediate state is ever
// observable.
func (m *Maze) Move(r, c int, dir Direction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.inBounds(r, c) || !IsAvatar(m.cell[r][c]) {
		return false
	}
	d := dir.delta()
	nr, nc := r+d.dr, c+d.dc
	if !m.inBounds(nr, nc) || !IsEmpty(m.cell[nr][nc]) {
		return false
	}
	m.cell[nr][nc] = m.cell[r][c]
	m.cell[r][c] = ' '
	return true
}

// FindTarget scans from (r,c) one cell at a time in dir and returns the
// first non-empty cell's character if it is an avatar, or ' ' if the
// first obstruction is a wall/scenery cell or the scan runs off the maze.
func (m *Maze) FindTarget(r, c int, dir Direction) byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := dir.delta()
	for {
		r += d.dr
		c += d.dc
		if !m.inBounds(r, c) {
			return ' '
		}
		if !IsEmpty(m.cell[r][c]) {
			if IsAvatar(m.cell[r][c]) {
				return m.cell[r][c]
			}
			return ' '
		}
	}
}

// GetView fills a view matrix of up to maxDepth rows for a player at
// (r,c) facing gaze, and returns the actual depth reached: less than
// maxDepth only when the corridor ran off the maze before maxDepth rows
// were recorded. Walls, scenery, and avatars along the corridor do not
// stop the scan; they are recorded like any other cell and the scan
// continues past them.
func (m *Maze) GetView(r, c int, gaze Direction, maxDepth int) (View, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var view View
	g := gaze.delta()
	left := gaze.leftDelta()
	right := gaze.rightDelta()

	depth := 0
	for d := 0; d < maxDepth; d++ {
		rr, cc := r+d*g.dr, c+d*g.dc
		if !m.inBounds(rr, cc) {
			break
		}
		view[d][Corridor] = m.cell[rr][cc]
		view[d][LeftWall] = m.cellOrWall(rr+left.dr, cc+left.dc)
		view[d][RightWall] = m.cellOrWall(rr+right.dr, cc+right.dc)
		depth++
	}
	return view, depth
}

func (m *Maze) cellOrWall(r, c int) byte {
	if !m.inBounds(r, c) {
		return WallChar
	}
	return m.cell[r][c]
}

// String renders the current maze state, one line per row. It exists for
// debug logging and tests, matching the original's show_maze() dump.
func (m *Maze) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	for _, row := range m.cell {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}
