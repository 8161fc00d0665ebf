// Package session drives one client connection's state machine:
// UNREGISTERED -> AWAIT_LOGIN -> IN_GAME -> CLEANUP, dispatching wire
// packets onto the shared game state.
package session

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/FardinIqbal/concurrent-network-game-server/internal/game"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/registry"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/wire"
)

// DefaultPurgatory is how long a hit player waits, unreachable, before
// Reset re-places it in the maze, when a session is built with a
// non-positive purgatory duration. Not interruptible: a shutdown in
// progress may be delayed by up to this long per player caught
// mid-purgatory.
const DefaultPurgatory = 3 * time.Second

// Session owns one connection's full lifetime: registration, the
// AWAIT_LOGIN / IN_GAME dispatch loop, and cleanup on disconnect.
type Session struct {
	conn    net.Conn
	reg     *registry.Registry
	g       *game.Game
	log     *slog.Logger
	limiter *rate.Limiter

	pollInterval time.Duration
	purgatory    time.Duration
	player       *game.Player
}

// New builds a session for a freshly-accepted connection. limiter may be
// nil to disable per-connection rate limiting. A non-positive purgatory
// falls back to DefaultPurgatory.
func New(conn net.Conn, reg *registry.Registry, g *game.Game, limiter *rate.Limiter, pollInterval, purgatory time.Duration, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	if purgatory <= 0 {
		purgatory = DefaultPurgatory
	}
	return &Session{conn: conn, reg: reg, g: g, limiter: limiter, pollInterval: pollInterval, purgatory: purgatory, log: log}
}

// Run registers the connection, drives the dispatch loop until the peer
// disconnects or a protocol failure occurs, and runs cleanup before
// returning. If the registry is full, the connection is closed at once and
// neither the loop nor cleanup runs.
func (s *Session) Run(ctx context.Context) {
	if !s.reg.Register(s.conn) {
		s.log.Warn("registry at capacity, dropping connection", "remote", s.conn.RemoteAddr())
		s.conn.Close()
		return
	}
	defer s.cleanup()

	if !s.awaitLogin(ctx) {
		return
	}
	s.inGame(ctx)
}

// awaitLogin repeatedly discards non-LOGIN packets until a successful
// login, returning true once the session has entered IN_GAME. It
// returns false if the connection fails before any login succeeds.
func (s *Session) awaitLogin(ctx context.Context) bool {
	for {
		pkt, payload, err := s.recv(nil)
		if err != nil {
			s.logRecvEnd(err)
			return false
		}
		if pkt.Type != wire.Login {
			continue // any non-LOGIN packet is discarded in this state
		}

		avatar := pkt.Param1
		name := string(payload)
		p, err := s.g.Login(s.conn, avatar, name)
		if err != nil {
			if sendErr := wire.Send(s.conn, wire.Packet{Type: wire.InUse}, nil); sendErr != nil {
				s.log.Warn("send inuse failed", "err", sendErr)
				return false
			}
			continue
		}

		s.player = p
		if err := p.SendPacket(wire.Packet{Type: wire.Ready}, nil); err != nil {
			s.log.Warn("send ready failed", "avatar", string(avatar), "err", err)
			return false
		}
		s.g.Reset(p)
		return true
	}
}

// inGame dispatches client packets until the connection fails. At the
// top of every iteration, and again immediately after a recv returns, it
// checks for a pending async laser hit so that a hit delivered while
// this session was blocked in recv is never missed before the next
// client packet is processed.
func (s *Session) inGame(ctx context.Context) {
	p := s.player
	for {
		if s.handleLaserHit(p) {
			continue
		}

		pkt, payload, err := s.recv(p.Wake)
		if err != nil {
			s.logRecvEnd(err)
			return
		}

		s.handleLaserHit(p)

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
		}

		s.dispatch(p, pkt, payload)
	}
}

// handleLaserHit runs the purgatory sequence if p has a pending hit:
// CheckForLaserHit, a fixed sleep, then Reset. It reports whether a hit
// was processed so the caller can re-enter its recv wait.
func (s *Session) handleLaserHit(p *game.Player) bool {
	if !s.g.CheckForLaserHit(p) {
		return false
	}
	time.Sleep(s.purgatory)
	s.g.Reset(p)
	return true
}

func (s *Session) dispatch(p *game.Player, pkt wire.Packet, payload []byte) {
	switch pkt.Type {
	case wire.Move:
		s.g.Move(p, signOf(pkt.Param1))
	case wire.Turn:
		s.g.Rotate(p, signOf(pkt.Param1))
	case wire.Fire:
		s.g.FireLaser(p)
	case wire.Refresh:
		p.InvalidateView()
		s.g.UpdateView(p)
	case wire.SendMsg:
		s.g.SendChat(p, string(payload))
	case wire.Login:
		// Duplicate LOGIN while already in game is ignored.
	default:
		// Unknown or otherwise unexpected packet types are silently
		// ignored, per the wire contract.
	}
}

func signOf(param1 uint8) int {
	if int8(param1) < 0 {
		return -1
	}
	return 1
}

// recv wraps wire.Recv with this session's poll interval, passing
// handleLaserHit as the idle hook so a pending hit surfaces the moment
// the read loop notices wake or times out, not just when bytes finally
// arrive.
func (s *Session) recv(wake <-chan struct{}) (wire.Packet, []byte, error) {
	return wire.Recv(s.conn, wake, s.pollInterval, func() {
		if s.player != nil {
			s.handleLaserHit(s.player)
		}
	})
}

func (s *Session) logRecvEnd(err error) {
	if err == io.EOF {
		s.log.Debug("connection closed by peer", "remote", s.conn.RemoteAddr())
		return
	}
	s.log.Debug("connection ended", "remote", s.conn.RemoteAddr(), "err", err)
}

// cleanup logs the player out (if one ever logged in), unregisters the
// connection, and closes the socket. Always runs, regardless of how the
// session loop exited.
func (s *Session) cleanup() {
	if s.player != nil {
		s.g.Logout(s.player)
	}
	s.reg.Unregister(s.conn)
	s.conn.Close()
}
