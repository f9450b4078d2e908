package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinCall subscribes the connection to a room.
	CommandJoinCall CommandKind = iota
	// CommandSignal relays an opaque negotiation payload to one peer.
	CommandSignal
	// CommandChatMessage broadcasts a chat message to the room.
	CommandChatMessage
	// CommandLeaveCall unsubscribes the connection from its room.
	CommandLeaveCall
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	Room    string          // join-call, leave-call
	Name    string          // display name announced with the command
	Target  string          // destination connection id for signal
	Payload json.RawMessage // opaque signaling blob, relayed untouched
	Text    string          // chat message body
}
