package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoinCall  = "join-call"
	InboundTypeSignal    = "signal"
	InboundTypeChat      = "chat-message"
	InboundTypeLeaveCall = "leave-call"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventJoined      = "joined"
	EventPeerJoined  = "peer-joined"
	EventPeerLeft    = "peer-left"
	EventSignal      = "signal"
	EventChatMessage = "chat-message"
	EventHistory     = "history"
)

// JoinCallData requests to join a room, optionally announcing a
// display name.
type JoinCallData struct {
	Room string `json:"room"`
	Name string `json:"name,omitempty"`
}

// SignalData relays an opaque negotiation payload to one peer. The
// payload is never inspected and round-trips byte for byte.
type SignalData struct {
	To      string          `json:"to"`
	Payload json.RawMessage `json:"payload"`
	Name    string          `json:"name,omitempty"`
}

// ChatData is a chat message from the client to its current room.
type ChatData struct {
	Text string `json:"text"`
	Name string `json:"name,omitempty"`
}

// LeaveCallData requests to leave the current room. Best effort; the
// client may instead just disconnect.
type LeaveCallData struct {
	Room string `json:"room,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Member describes a room participant in presence events.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EventJoined confirms a join to the joiner itself.
type EventJoinedData struct {
	Room    string   `json:"room"`
	Self    string   `json:"self"`
	Members []Member `json:"members"`
}

// EventPeerJoinedData notifies room members about a new participant.
type EventPeerJoinedData struct {
	Room    string   `json:"room"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// EventPeerLeftData notifies room members that a participant left.
type EventPeerLeftData struct {
	Room string `json:"room"`
	ID   string `json:"id"`
}

// EventSignalData delivers a relayed negotiation payload.
type EventSignalData struct {
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
	Name    string          `json:"name"`
}

// EventChatData delivers a chat message to a room member.
type EventChatData struct {
	Room string `json:"room"`
	Text string `json:"text"`
	Name string `json:"name"`
	From string `json:"from"`
	TS   int64  `json:"ts"`
}

// EventHistoryData replays retained chat history to a new joiner.
type EventHistoryData struct {
	Room     string          `json:"room"`
	Messages []EventChatData `json:"messages"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
