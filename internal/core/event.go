package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoined confirms a join to the joiner with the member snapshot.
	EventJoined EventKind = iota
	// EventPeerJoined notifies room members about a new participant.
	EventPeerJoined
	// EventPeerLeft notifies room members that a participant left.
	EventPeerLeft
	// EventSignal delivers an opaque negotiation payload to one peer.
	EventSignal
	// EventChatMessage delivers a chat message to every room member.
	EventChatMessage
	// EventHistory replays retained chat history to a new joiner.
	EventHistory
	// EventError notifies the sender about a rejected command.
	EventError
)

// Member is a room participant as reported in presence events.
type Member struct {
	ID   string
	Name string
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	Conn     string // subject connection id (joiner, leaver, signal sender)
	Name     string // subject display name
	Members  []Member
	Payload  json.RawMessage // opaque, for EventSignal
	Message  Message         // for EventChatMessage
	Messages []Message       // for EventHistory
	Error    *CoreError
}
