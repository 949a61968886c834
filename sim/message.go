package sim

import "fmt"

// PayloadKind tags the variant held by a Payload.
type PayloadKind int

const (
	// PayloadNone is the zero Payload: the message carries no data.
	PayloadNone PayloadKind = iota
	// PayloadPing is a liveness probe.
	PayloadPing
	// PayloadPong answers a PayloadPing.
	PayloadPong
	// PayloadSend carries a broadcast sender's initial value.
	PayloadSend
	// PayloadEcho repeats a value received in a PayloadSend.
	PayloadEcho
)

var payloadKindNames = map[PayloadKind]string{
	PayloadNone: "none",
	PayloadPing: "ping",
	PayloadPong: "pong",
	PayloadSend: "send",
	PayloadEcho: "echo",
}

func (k PayloadKind) String() string {
	if name, ok := payloadKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PayloadKind(%d)", int(k))
}

// Payload is a closed tagged value. Only the fields meaningful for Kind are set:
//   - PayloadPing, PayloadPong: Round
//   - PayloadSend, PayloadEcho: Value
type Payload struct {
	Kind  PayloadKind
	Value string
	Round int
}

// IsZero reports whether the payload is absent.
func (p Payload) IsZero() bool {
	return p == Payload{}
}

func (p Payload) String() string {
	switch p.Kind {
	case PayloadSend, PayloadEcho:
		return fmt.Sprintf("%s(%q)", p.Kind, p.Value)
	case PayloadPing, PayloadPong:
		if p.Round != 0 {
			return fmt.Sprintf("%s(round=%d)", p.Kind, p.Round)
		}
		return p.Kind.String()
	default:
		return p.Kind.String()
	}
}

// Message is addressed to Path on the receiving node: a specific sub-channel of a
// specific protocol instance. Sender is the node that sent it.
type Message struct {
	Path    Path
	Sender  NodeID
	Payload Payload
}

func (m Message) String() string {
	return fmt.Sprintf("msg{path=%s, from=%d, payload=%s}", m.Path, m.Sender, m.Payload)
}
