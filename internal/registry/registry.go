// Package registry tracks every live client connection so that a server
// shutdown can half-close them all and wait for the last session task to
// drain, without the accept loop or any session needing to know about the
// others.
package registry

import (
	"fmt"
	"net"
	"sync"

	"golang.org/x/sys/unix"
)

// Capacity is the default maximum number of simultaneously registered
// connections, used when a caller does not override it via config. A
// registration past capacity is silently dropped, matching the
// documented limitation of the bounded slot table.
const Capacity = 128

// Registry is a bounded set of live connections plus a drain
// notification posted on every transition to zero occupancy.
type Registry struct {
	mu      sync.Mutex
	slots   []net.Conn
	count   int
	drained chan struct{}
}

// New returns an empty registry sized for capacity simultaneous
// connections. A non-positive capacity falls back to Capacity.
func New(capacity int) *Registry {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Registry{slots: make([]net.Conn, capacity), drained: make(chan struct{})}
}

// Register stores conn in the first empty slot and returns true, or
// returns false without blocking if the registry is already at capacity.
func (r *Registry) Register(conn net.Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i] == nil {
			r.slots[i] = conn
			r.count++
			return true
		}
	}
	return false
}

// Unregister clears the slot holding conn, if any, and posts the drain
// notification exactly once per transition from non-zero to zero
// occupancy.
func (r *Registry) Unregister(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i] == conn {
			r.slots[i] = nil
			r.count--
			if r.count == 0 {
				r.postDrainLocked()
			}
			return
		}
	}
}

// postDrainLocked closes and replaces the drain channel, waking every
// current WaitForEmpty waiter exactly once. Must be called with mu held.
func (r *Registry) postDrainLocked() {
	close(r.drained)
	r.drained = make(chan struct{})
}

// WaitForEmpty blocks until the registry holds zero connections. It
// samples the counter under the lock first so a registry that is already
// empty (or becomes empty between the post and this call) returns
// immediately rather than missing a signal that fired before the wait
// began — the counter-checked fast path the drain notification alone
// cannot provide.
func (r *Registry) WaitForEmpty() {
	for {
		r.mu.Lock()
		if r.count == 0 {
			r.mu.Unlock()
			return
		}
		ch := r.drained
		r.mu.Unlock()
		<-ch
	}
}

// Count reports the current occupancy, for diagnostics and tests.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// ShutdownAll half-closes the read side of every occupied slot's TCP
// connection (a connection of any other type is closed outright) so that
// any session task blocked in a socket read observes end-of-stream and
// proceeds to its own cleanup path. It does not wait for those sessions
// to unregister; call WaitForEmpty afterward for that.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		conn := r.slots[i]
		if conn == nil {
			continue
		}
		if err := halfCloseRead(conn); err != nil {
			// Best effort: a connection that is already dead or not a
			// TCP socket is left for its own session task to notice via
			// a failed read or write.
			_ = err
		}
	}
}

// halfCloseRead shuts down only the read direction of a TCP connection's
// underlying file descriptor, mirroring the original server's
// shutdown(fd, SHUT_RD). A connection that is not a *net.TCPConn is
// closed instead.
func halfCloseRead(conn net.Conn) error {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return conn.Close()
	}
	raw, err := tcp.SyscallConn()
	if err != nil {
		return fmt.Errorf("registry: SyscallConn: %w", err)
	}
	var shutdownErr error
	err = raw.Control(func(fd uintptr) {
		shutdownErr = unix.Shutdown(int(fd), unix.SHUT_RD)
	})
	if err != nil {
		return fmt.Errorf("registry: Control: %w", err)
	}
	return shutdownErr
}
