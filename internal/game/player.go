package game

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/FardinIqbal/concurrent-network-game-server/internal/maze"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/wire"
)

// Player is one logged-in avatar's live state. Two locks guard it rather
// than one reentrant lock (Go's sync.Mutex is not reentrant): stateMu
// protects the position, gaze, score and view-cache fields and is never
// held across a socket write;
// writeMu serializes the physical writes made by SendPacket. A caller
// that needs to both mutate state and send packets built from it (update
// view, reset, fire_laser's broadcast) computes everything it needs to
// send while holding stateMu, releases it, then calls SendPacket — which
// takes writeMu on its own.
type Player struct {
	Avatar byte
	Name   string
	Conn   net.Conn

	// Wake lets an asynchronous notifier (FireLaser, on a shooter's
	// session task) prompt this player's own session task to stop
	// waiting for network bytes and re-check CheckForLaserHit. It is
	// buffered with capacity 1 so a notification is never lost even if
	// no one is receiving at the moment it is sent.
	Wake chan struct{}

	stateMu sync.Mutex
	row     int
	col     int
	dir     maze.Direction
	score   int

	viewValidDepth int
	lastView       maze.View

	// laserHit is set by a shooter's FireLaser and read-and-cleared by
	// this player's own CheckForLaserHit. It is the only datum mutated
	// across task boundaries outside of a lock, so it lives in atomic
	// storage to rule out tearing.
	laserHit atomic.Bool

	writeMu sync.Mutex

	refcount atomic.Int32
}

// newPlayer allocates a player record with refcount 1 (the login-held
// reference), direction NORTH, and an invalid view cache, per login's
// initialization rule.
func newPlayer(avatar byte, name string, conn net.Conn) *Player {
	p := &Player{
		Avatar:         avatar,
		Name:           name,
		Conn:           conn,
		Wake:           make(chan struct{}, 1),
		dir:            maze.North,
		viewValidDepth: -1,
	}
	p.refcount.Store(1)
	return p
}

// Ref increments the reference count.
func (p *Player) Ref() {
	p.refcount.Add(1)
}

// Unref decrements the reference count and reports whether it reached
// zero, at which point the caller should release the record.
func (p *Player) Unref() bool {
	return p.refcount.Add(-1) == 0
}

// Position returns the player's current (row, col, gaze) under lock.
func (p *Player) Position() (row, col int, gaze maze.Direction) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.row, p.col, p.dir
}

// Score returns the player's current score under lock.
func (p *Player) Score() int {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.score
}

// setPosition installs a new (row, col) without changing gaze, used
// right after a successful maze placement.
func (p *Player) setPosition(row, col int) {
	p.stateMu.Lock()
	p.row, p.col = row, col
	p.stateMu.Unlock()
}

// MarkLaserHit records an asynchronous laser hit and wakes the player's
// session task if it is blocked waiting for network bytes. Safe to call
// from any goroutine.
func (p *Player) MarkLaserHit() {
	p.laserHit.Store(true)
	select {
	case p.Wake <- struct{}{}:
	default:
	}
}

// takeLaserHit reads and clears the laser-hit flag atomically, so a
// concurrent MarkLaserHit can never be observed twice or lost.
func (p *Player) takeLaserHit() bool {
	return p.laserHit.Swap(false)
}

// InvalidateView marks the view cache stale; the next UpdateView will
// send a full CLEAR+SHOW refresh instead of a diff.
func (p *Player) InvalidateView() {
	p.stateMu.Lock()
	p.viewValidDepth = -1
	p.stateMu.Unlock()
}

// SendPacket serializes pkt+payload onto the player's connection under
// writeMu, so that concurrent senders (the player's own session task and
// broadcasts from other sessions) never interleave partial writes.
func (p *Player) SendPacket(pkt wire.Packet, payload []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if err := wire.Send(p.Conn, pkt, payload); err != nil {
		return fmt.Errorf("game: send to %c: %w", p.Avatar, err)
	}
	return nil
}
