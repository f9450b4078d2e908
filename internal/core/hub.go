package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Recorder is notified when an authenticated user joins a room.
// Implementations persist meeting history. Failures are logged by the
// Hub and never affect relay behavior.
type Recorder interface {
	RecordJoin(ctx context.Context, userID int64, displayName, roomID string, at time.Time) error
}

// Hub is the relay dispatcher. It interprets commands from clients,
// mutates the Registry, and fans events out to the affected clients.
//
// There is no central run loop: each connection's read loop calls
// Dispatch synchronously, so commands from a single connection are
// processed in order while connections proceed concurrently, all
// sharing the one Registry. Outbound delivery goes through each
// client's buffered event channel and never blocks the dispatcher.
type Hub struct {
	registry *Registry
	recorder Recorder
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a hub over the given registry. recorder may be nil,
// as may logger.
func NewHub(registry *Registry, recorder Recorder, logger *zerolog.Logger) *Hub {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Hub{
		registry: registry,
		recorder: recorder,
		log:      l,
		clients:  make(map[string]*Client),
	}
}

// Register makes a client addressable for signal routing and fan-out.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.log.Debug().Str("conn_id", c.ID).Msg("client registered")
}

// Unregister runs the disconnect cleanup: the client is removed from
// the routing table and from its room, and remaining members are told
// it left. Safe to call more than once; only the first call acts.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	h.mu.Unlock()

	if roomID, ok := h.registry.RoomOf(c.ID); ok {
		h.leaveRoom(c, roomID)
	}
	h.log.Debug().Str("conn_id", c.ID).Msg("client unregistered")
}

// Dispatch executes one inbound command to completion, including all
// outbound fan-out sends.
func (h *Hub) Dispatch(ctx context.Context, client *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinCall:
		h.joinCall(ctx, client, cmd)
	case CommandSignal:
		h.relaySignal(client, cmd)
	case CommandChatMessage:
		h.relayChat(client, cmd)
	case CommandLeaveCall:
		h.leaveCall(client)
	}
}

// joinCall subscribes the client to a room. Rooms are created
// implicitly on first join. Joining the current room again is a no-op
// beyond re-sending the snapshot; joining a different room first leaves
// the old one (leave-then-join policy).
func (h *Hub) joinCall(ctx context.Context, client *Client, cmd *Command) {
	if cmd.Room == "" {
		h.sendError(client, ErrCodeBadRequest, "room is required")
		return
	}
	client.setName(cmd.Name)

	if prev, ok := h.registry.RoomOf(client.ID); ok {
		if prev == cmd.Room {
			members, _, _ := h.registry.Join(cmd.Room, client.ID)
			h.send(client, &Event{
				Kind:    EventJoined,
				Room:    cmd.Room,
				Conn:    client.ID,
				Name:    client.Name(),
				Members: h.roster(members),
			})
			return
		}
		h.leaveRoom(client, prev)
	}

	members, history, _ := h.registry.Join(cmd.Room, client.ID)
	roster := h.roster(members)

	h.send(client, &Event{
		Kind:    EventJoined,
		Room:    cmd.Room,
		Conn:    client.ID,
		Name:    client.Name(),
		Members: roster,
	})
	if len(history) > 0 {
		h.send(client, &Event{Kind: EventHistory, Room: cmd.Room, Messages: history})
	}

	joined := &Event{
		Kind:    EventPeerJoined,
		Room:    cmd.Room,
		Conn:    client.ID,
		Name:    client.Name(),
		Members: roster,
	}
	for _, id := range members {
		if id != client.ID {
			h.sendTo(id, joined)
		}
	}

	h.log.Info().
		Str("conn_id", client.ID).
		Str("room", cmd.Room).
		Int("members", len(members)).
		Msg("joined call")

	if h.recorder != nil && client.UserID != 0 {
		go h.recordJoin(ctx, client, cmd.Room)
	}
}

// relaySignal forwards an opaque payload to exactly one live peer.
// An unknown target is the normal consequence of an asynchronous
// departure and is dropped silently.
func (h *Hub) relaySignal(client *Client, cmd *Command) {
	if cmd.Target == "" {
		h.sendError(client, ErrCodeBadRequest, "signal target is required")
		return
	}
	if _, ok := h.registry.RoomOf(client.ID); !ok {
		h.sendError(client, ErrCodeNotInRoom, "join a call before signaling")
		return
	}

	target, ok := h.client(cmd.Target)
	if !ok {
		h.log.Debug().
			Str("conn_id", client.ID).
			Str("target", cmd.Target).
			Msg("signal target gone, dropped")
		return
	}

	name := cmd.Name
	if name == "" {
		name = client.Name()
	}
	h.send(target, &Event{
		Kind:    EventSignal,
		Conn:    client.ID,
		Name:    name,
		Payload: cmd.Payload,
	})
}

// relayChat broadcasts a chat message to every member of the sender's
// room, sender included. Membership is resolved at dispatch time, not
// cached from join time.
func (h *Hub) relayChat(client *Client, cmd *Command) {
	roomID, ok := h.registry.RoomOf(client.ID)
	if !ok {
		h.sendError(client, ErrCodeNotInRoom, "join a call before chatting")
		return
	}

	name := cmd.Name
	if name == "" {
		name = client.Name()
	}
	msg := Message{
		Room:   roomID,
		From:   client.ID,
		Name:   name,
		Text:   cmd.Text,
		SentAt: time.Now(),
	}
	h.registry.AppendHistory(roomID, msg)

	ev := &Event{Kind: EventChatMessage, Room: roomID, Message: msg}
	for _, id := range h.registry.Members(roomID) {
		h.sendTo(id, ev)
	}
}

// leaveCall removes the client from its room. Redundant leaves are
// no-ops, not errors.
func (h *Hub) leaveCall(client *Client) {
	roomID, ok := h.registry.RoomOf(client.ID)
	if !ok {
		return
	}
	h.leaveRoom(client, roomID)
}

// leaveRoom performs the registry removal and notifies whoever is
// still in the room. If the removal emptied the room there is nobody
// to notify and the registry has already deleted it.
func (h *Hub) leaveRoom(client *Client, roomID string) {
	remaining, removed := h.registry.Leave(roomID, client.ID)
	if !removed {
		return
	}
	left := &Event{Kind: EventPeerLeft, Room: roomID, Conn: client.ID}
	for _, id := range remaining {
		h.sendTo(id, left)
	}
	h.log.Info().
		Str("conn_id", client.ID).
		Str("room", roomID).
		Int("remaining", len(remaining)).
		Msg("left call")
}

func (h *Hub) recordJoin(ctx context.Context, client *Client, roomID string) {
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := h.recorder.RecordJoin(recordCtx, client.UserID, client.Name(), roomID, time.Now()); err != nil {
		h.log.Warn().Err(err).
			Int64("user_id", client.UserID).
			Str("room", roomID).
			Msg("failed to record meeting join")
	}
}

// roster resolves member ids to presence entries. Ids with no live
// client are skipped rather than reported half-filled.
func (h *Hub) roster(ids []string) []Member {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Member, 0, len(ids))
	for _, id := range ids {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		out = append(out, Member{ID: id, Name: c.Name()})
	}
	return out
}

func (h *Hub) client(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	return c, ok
}

func (h *Hub) sendTo(id string, ev *Event) {
	if c, ok := h.client(id); ok {
		h.send(c, ev)
	}
}

// send delivers without blocking. A full event buffer means a stalled
// consumer; the event is dropped so the room is not held up.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("conn_id", c.ID).Msg("event buffer full, dropped")
	}
}

func (h *Hub) sendError(c *Client, code, msg string) {
	h.send(c, &Event{Kind: EventError, Error: coreError(code, msg)})
}
