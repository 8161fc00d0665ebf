// Package wire implements the MazeWar on-the-wire packet format: a fixed
// 16-byte header (type, three single-byte params, payload size, and a
// send timestamp taken from the wall clock, not a monotonic clock) followed
// by an optional payload, encoded big-endian
// for the multi-byte fields per the protocol contract.
package wire

// Type identifies a MazeWar packet's purpose. Values are assigned in
// protocol-table order; they are this server's own wire encoding, not a
// re-implementation of any specific byte values from a prior build.
type Type uint8

const (
	Login Type = iota
	Ready
	InUse
	Move
	Turn
	Fire
	Refresh
	SendMsg
	Show
	Clear
	Alert
	Score
	Chat
)

func (t Type) String() string {
	switch t {
	case Login:
		return "LOGIN"
	case Ready:
		return "READY"
	case InUse:
		return "INUSE"
	case Move:
		return "MOVE"
	case Turn:
		return "TURN"
	case Fire:
		return "FIRE"
	case Refresh:
		return "REFRESH"
	case SendMsg:
		return "SEND"
	case Show:
		return "SHOW"
	case Clear:
		return "CLEAR"
	case Alert:
		return "ALERT"
	case Score:
		return "SCORE"
	case Chat:
		return "CHAT"
	default:
		return "UNKNOWN"
	}
}

// HeaderSize is the fixed packet header length in bytes: 1 (type) + 3
// (params) + 2 (payload size) + 2 (reserved, for 4-byte alignment of the
// timestamp fields) + 4 + 4 (timestamp seconds/nanoseconds) = 16.
const HeaderSize = 16

// MaxPayload is the largest payload size expressible in the 16-bit size
// field.
const MaxPayload = 1<<16 - 1

// Packet is a decoded MazeWar packet header. Payload travels alongside it,
// never embedded in the struct, since its length is dynamic.
type Packet struct {
	Type          Type
	Param1        uint8
	Param2        uint8
	Param3        uint8
	Size          uint16
	TimestampSec  uint32
	TimestampNsec uint32
}
