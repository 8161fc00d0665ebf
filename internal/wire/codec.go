package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"
)

// Send stamps the current time into pkt, byte-swaps the multi-byte fields
// into the wire encoding, and writes the header followed by payload (if
// any) to conn. Partial writes are retried until the full frame is on the
// wire.
func Send(conn net.Conn, pkt Packet, payload []byte) error {
	now := time.Now()
	pkt.TimestampSec = uint32(now.Unix())
	pkt.TimestampNsec = uint32(now.Nanosecond())
	pkt.Size = uint16(len(payload))

	buf := encodeHeader(pkt)
	if err := writeFull(conn, buf); err != nil {
		return fmt.Errorf("send header: %w", err)
	}
	if len(payload) > 0 {
		if err := writeFull(conn, payload); err != nil {
			return fmt.Errorf("send payload: %w", err)
		}
	}
	return nil
}

func encodeHeader(pkt Packet) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(pkt.Type)
	buf[1] = pkt.Param1
	buf[2] = pkt.Param2
	buf[3] = pkt.Param3
	binary.BigEndian.PutUint16(buf[4:6], pkt.Size)
	// buf[6:8] reserved, left zero.
	binary.BigEndian.PutUint32(buf[8:12], pkt.TimestampSec)
	binary.BigEndian.PutUint32(buf[12:16], pkt.TimestampNsec)
	return buf
}

func decodeHeader(buf []byte) Packet {
	return Packet{
		Type:          Type(buf[0]),
		Param1:        buf[1],
		Param2:        buf[2],
		Param3:        buf[3],
		Size:          binary.BigEndian.Uint16(buf[4:6]),
		TimestampSec:  binary.BigEndian.Uint32(buf[8:12]),
		TimestampNsec: binary.BigEndian.Uint32(buf[12:16]),
	}
}

func writeFull(conn net.Conn, buf []byte) error {
	written := 0
	for written < len(buf) {
		n, err := conn.Write(buf[written:])
		written += n
		if err != nil {
			return err
		}
	}
	return nil
}

// Recv reads one full packet (header plus payload, if any) from conn.
//
// Go has no signal-delivery mechanism to interrupt a blocked read the way
// a POSIX server can use SIGUSR1/EINTR. Instead, Recv polls: it arms a
// short read deadline, and a deadline timeout is treated like EINTR would
// be — the partial read is kept and the read retried — except that on
// every such timeout, and whenever wake fires, onIdle runs, giving the
// caller a chance to check for and act on an asynchronous event before
// going back to waiting. wake is the wake-up signal; the poll tick is the
// checkpoint that guarantees onIdle still runs even if wake is never sent.
//
// onIdle may be nil. wake may be nil (recv then falls back to pure
// poll-interval checkpoints).
func Recv(conn net.Conn, wake <-chan struct{}, pollInterval time.Duration, onIdle func()) (Packet, []byte, error) {
	hdr := make([]byte, HeaderSize)
	if err := readFullInterruptible(conn, hdr, wake, pollInterval, onIdle); err != nil {
		return Packet{}, nil, err
	}
	pkt := decodeHeader(hdr)

	var payload []byte
	if pkt.Size > 0 {
		payload = make([]byte, pkt.Size)
		if err := readFullInterruptible(conn, payload, wake, pollInterval, onIdle); err != nil {
			return Packet{}, nil, err
		}
	}
	return pkt, payload, nil
}

func readFullInterruptible(conn net.Conn, buf []byte, wake <-chan struct{}, pollInterval time.Duration, onIdle func()) error {
	defer conn.SetReadDeadline(time.Time{})

	read := 0
	for read < len(buf) {
		select {
		case <-wake:
			if onIdle != nil {
				onIdle()
			}
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return err
		}
		n, err := conn.Read(buf[read:])
		read += n
		if err != nil {
			if isTimeout(err) {
				if onIdle != nil {
					onIdle()
				}
				continue
			}
			if err == io.EOF {
				return io.EOF
			}
			return err
		}
	}
	if onIdle != nil {
		onIdle()
	}
	return nil
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
