// Package game implements the shared multiplayer state: the maze, the
// avatar table, and the per-player operations that mutate them under the
// locking order avatar-table lock -> player lock -> maze lock.
package game

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/FardinIqbal/concurrent-network-game-server/internal/maze"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/wire"
)

// ScoreRemoved is the SCORE packet param2 value that asks a client to
// drop an avatar from its scoreboard display.
const ScoreRemoved = 0xFF // encodes the protocol's -1 in an unsigned param byte

// Game bundles the maze and avatar table that every session shares, plus
// the view depth and logger it needs while dispatching player
// operations. It has no notion of connections beyond what is stored on
// each Player and carries no registry — that lifecycle is the session
// layer's concern.
type Game struct {
	Maze    *maze.Maze
	table   *avatarTable
	ViewMax int
	Log     *slog.Logger
}

// New builds a Game over an already-constructed maze.
func New(m *maze.Maze, viewMax int, log *slog.Logger) *Game {
	if log == nil {
		log = slog.Default()
	}
	return &Game{Maze: m, table: newAvatarTable(), ViewMax: viewMax, Log: log}
}

// ErrAvatarInUse is returned by Login when the requested avatar already
// has a live player.
var ErrAvatarInUse = fmt.Errorf("game: avatar in use")

// ErrNoPlacement is returned by Login when the maze has no empty cell
// left after the documented placement-attempt budget.
var ErrNoPlacement = fmt.Errorf("game: no empty cell available for placement")

// Login allocates a player record for avatar on conn, places it
// randomly in the maze, and installs it into the avatar table. An empty
// name is stored as "Anonymous". On any failure the record is not left
// behind.
func (g *Game) Login(conn net.Conn, avatar byte, name string) (*Player, error) {
	if name == "" {
		name = "Anonymous"
	}
	p := newPlayer(avatar, name, conn)
	if !g.table.tryInstall(p) {
		return nil, ErrAvatarInUse
	}

	row, col, ok := g.Maze.PlaceRandom(avatar)
	if !ok {
		g.table.clearIfCurrent(p)
		return nil, ErrNoPlacement
	}
	p.setPosition(row, col)
	return p, nil
}

// Logout removes p from the avatar table and the maze, broadcasts its
// removal from every scoreboard, and releases the login reference.
func (g *Game) Logout(p *Player) {
	g.table.clearIfCurrent(p)

	row, col, _ := p.Position()
	g.Maze.Remove(p.Avatar, row, col)

	g.broadcastScore(p.Avatar, ScoreRemoved)
	g.release(p)
}

// release drops the caller's reference to p, freeing it once the
// refcount reaches zero. There is nothing further to tear down beyond
// dropping the Go references — no explicit destructor is needed for the
// mutexes or channel that newPlayer allocated.
func (g *Game) release(p *Player) {
	p.Unref()
}

// Move moves p one cell in its gaze direction (sign +1) or the reverse
// (sign -1), then refreshes every live player's view whether or not the
// move succeeded.
func (g *Game) Move(p *Player, sign int) {
	row, col, gaze := p.Position()
	dir := gaze
	if sign < 0 {
		dir = maze.Reverse(gaze)
	}
	if g.Maze.Move(row, col, dir) {
		dr, dc := dir.Delta()
		p.setPosition(row+dr, col+dc)
	}
	g.updateViewAll()
}

// Rotate turns p left (dir +1) or right (dir -1), invalidates only p's
// own view cache, and refreshes p's view — rotation never changes what
// any other player sees.
func (g *Game) Rotate(p *Player, dir int) {
	row, col, gaze := p.Position()
	if dir > 0 {
		gaze = maze.TurnLeft(gaze)
	} else {
		gaze = maze.TurnRight(gaze)
	}
	p.stateMu.Lock()
	p.dir = gaze
	p.stateMu.Unlock()

	p.InvalidateView()
	g.updateView(p, row, col, gaze)
}

// UpdateView recomputes p's view and sends either a full CLEAR+SHOW
// refresh (cache was invalid) or a diff (SHOW for changed cells only),
// then updates the cache.
func (g *Game) UpdateView(p *Player) {
	row, col, gaze := p.Position()
	g.updateView(p, row, col, gaze)
}

func (g *Game) updateView(p *Player, row, col int, gaze maze.Direction) {
	view, depth := g.Maze.GetView(row, col, gaze, g.ViewMax)

	p.stateMu.Lock()
	validBefore := p.viewValidDepth
	prev := p.lastView
	p.lastView = view
	p.viewValidDepth = depth
	p.stateMu.Unlock()

	var changes []maze.CellChange
	if validBefore < 0 {
		if err := p.SendPacket(wire.Packet{Type: wire.Clear}, nil); err != nil {
			g.Log.Warn("send clear failed", "avatar", string(p.Avatar), "err", err)
			return
		}
		changes = maze.All(view, depth)
	} else {
		changes = maze.Diff(prev, view, depth)
	}

	for _, ch := range changes {
		pkt := wire.Packet{Type: wire.Show, Param1: ch.Value, Param2: uint8(ch.Column), Param3: uint8(ch.Depth)}
		if err := p.SendPacket(pkt, nil); err != nil {
			g.Log.Warn("send show failed", "avatar", string(p.Avatar), "err", err)
			return
		}
	}
}

func (g *Game) updateViewAll() {
	g.table.forEach(func(p *Player) { g.UpdateView(p) })
}

// FireLaser resolves p's shot: find_target along p's gaze, and if it
// lands on a live avatar, mark that victim's asynchronous laser-hit flag
// and wake its session task, then credit the shooter and broadcast the
// new score.
func (g *Game) FireLaser(p *Player) {
	row, col, gaze := p.Position()
	target := g.Maze.FindTarget(row, col, gaze)
	if !maze.IsAvatar(target) {
		return
	}

	victim := g.table.get(target)
	if victim == nil {
		return
	}
	victim.MarkLaserHit()
	g.release(victim)

	p.stateMu.Lock()
	p.score++
	newScore := p.score
	p.stateMu.Unlock()

	g.broadcastScore(p.Avatar, uint8(newScore))
}

// CheckForLaserHit must be called by p's own session task at the top of
// its receive loop and again immediately after a receive returns. If a
// hit is pending, it removes p from the maze, refreshes every view,
// sends ALERT, and reports that the caller must hold p in purgatory
// before calling Reset.
func (g *Game) CheckForLaserHit(p *Player) (hit bool) {
	if !p.takeLaserHit() {
		return false
	}

	row, col, _ := p.Position()
	g.Maze.Remove(p.Avatar, row, col)
	g.updateViewAll()

	if err := p.SendPacket(wire.Packet{Type: wire.Alert}, nil); err != nil {
		g.Log.Warn("send alert failed", "avatar", string(p.Avatar), "err", err)
	}
	return true
}

// Reset re-places p after a laser hit, zeros its score, seeds its
// scoreboard view of every other live player, and broadcasts the reset
// score to everyone. Placement failure is logged and tolerated: the
// session continues with p off-grid until its next reset.
func (g *Game) Reset(p *Player) {
	row, col, _ := p.Position()
	g.Maze.Remove(p.Avatar, row, col)

	newRow, newCol, ok := g.Maze.PlaceRandom(p.Avatar)
	if !ok {
		g.Log.Warn("reset placement failed, player left off-grid", "avatar", string(p.Avatar))
	} else {
		p.setPosition(newRow, newCol)
	}

	p.stateMu.Lock()
	p.score = 0
	p.stateMu.Unlock()

	g.table.forEach(func(other *Player) {
		if other == p {
			return
		}
		pkt := wire.Packet{Type: wire.Score, Param1: other.Avatar, Param2: uint8(other.Score())}
		if err := p.SendPacket(pkt, nil); err != nil {
			g.Log.Warn("send scoreboard seed failed", "avatar", string(p.Avatar), "err", err)
		}
	})

	g.broadcastScore(p.Avatar, 0)
	g.updateViewAll()
}

// SendChat formats "<name>[<avatar>] <msg>" and broadcasts it as a CHAT
// packet to every live player, truncating to the implementation's
// bounded buffer if necessary.
func (g *Game) SendChat(p *Player, msg string) {
	const maxChat = 1024
	line := fmt.Sprintf("%s[%c] %s", p.Name, p.Avatar, msg)
	if len(line) > maxChat {
		line = line[:maxChat]
	}
	payload := []byte(line)
	pkt := wire.Packet{Type: wire.Chat, Size: uint16(len(payload))}

	g.table.forEach(func(other *Player) {
		if err := other.SendPacket(pkt, payload); err != nil {
			g.Log.Warn("send chat failed", "avatar", string(other.Avatar), "err", err)
		}
	})
}

func (g *Game) broadcastScore(avatar, param2 byte) {
	pkt := wire.Packet{Type: wire.Score, Param1: avatar, Param2: param2}
	g.table.forEach(func(p *Player) {
		if err := p.SendPacket(pkt, nil); err != nil {
			g.Log.Warn("broadcast score failed", "avatar", string(p.Avatar), "err", err)
		}
	})
}
