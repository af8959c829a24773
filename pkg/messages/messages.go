package messages

const (
	// MessageReadLimit is the largest frame a connection accepts
	MessageReadLimit = 64 * 1024
	// MaxDecodedSize bounds a message after decompression
	MaxDecodedSize = 16 * MessageReadLimit
)

type MessageType byte

const (
	MessageTypeClientPing MessageType = iota + 1
	MessageTypeServerPong
	MessageTypeClientDirection
	MessageTypeClientPause
	MessageTypeClientReset
	MessageTypeClientKey
	MessageTypeClientSwipe
	MessageTypeServerSession
	MessageTypeServerSnapshot
	MessageTypeServerGameOver
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeClientPing:
		return "ping"
	case MessageTypeServerPong:
		return "pong"
	case MessageTypeClientDirection:
		return "direction"
	case MessageTypeClientPause:
		return "pause"
	case MessageTypeClientReset:
		return "reset"
	case MessageTypeClientKey:
		return "key"
	case MessageTypeClientSwipe:
		return "swipe"
	case MessageTypeServerSession:
		return "session"
	case MessageTypeServerSnapshot:
		return "snapshot"
	case MessageTypeServerGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	Type    MessageType
	Payload []byte
}

type ClientPing struct {
	Timestamp int64 `json:"timestamp"`
}

type ServerPong struct {
	ClientTimestamp int64 `json:"clientTimestamp"`
	ServerTimestamp int64 `json:"serverTimestamp"`
}

type ClientDirection struct {
	Direction string `json:"direction"`
}

// ClientKey carries a raw KeyboardEvent.key value to be mapped server-side.
type ClientKey struct {
	Key string `json:"key"`
}

type ClientSwipe struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ServerSession is the first message a client receives.
type ServerSession struct {
	SessionID string `json:"sessionID"`
	Cols      int    `json:"cols"`
	Rows      int    `json:"rows"`
	CellSize  int    `json:"cellSize"`
}

type ServerGameOver struct {
	Score     int    `json:"score"`
	Collision string `json:"collision"`
}
