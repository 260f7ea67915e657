package wsconn

// State is the lifecycle position of a Conn.
type State int

const (
	// StateDisconnected means no socket is open; a reconnect may be scheduled.
	StateDisconnected State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateOpen means the socket is usable and heartbeats are running.
	StateOpen
	// StateClosingIntentional is entered only through Close and never left.
	StateClosingIntentional
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosingIntentional:
		return "closed"
	default:
		return "unknown"
	}
}

// Kind selects which lifecycle notifications a handler receives.
type Kind int

const (
	KindOpened Kind = iota
	KindClosed
	KindMessage
	KindError
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindOpened:
		return "opened"
	case KindClosed:
		return "closed"
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is delivered to handlers. Only the fields relevant to Kind are set:
// Data for KindMessage, Err for KindError, Code and Reason for KindClosed.
type Notice struct {
	Kind   Kind
	Data   []byte
	Err    error
	Code   int
	Reason string
}

// Handler receives notices for the kind it was registered under.
type Handler func(Notice)

// Subscription identifies a registered handler for Off.
type Subscription struct {
	kind Kind
	id   uint64
}
