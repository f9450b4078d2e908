package core

import "sync"

// Registry is the authoritative mapping from room id to member set.
// It holds connection ids only, never client objects; clients are owned
// by the transport layer and resolved through the Hub at fan-out time.
//
// Every method computes its returned snapshot inside the critical
// section, so membership mutation and fan-out list derivation are a
// single atomic step. Rooms exist exactly while they have at least one
// member: created implicitly on the first Join, deleted in the same
// critical section as the Leave that empties them.
type Registry struct {
	mu           sync.Mutex
	rooms        map[string]*Room
	byConn       map[string]string // connection id -> room id
	historyLimit int
}

// NewRegistry builds an empty registry. historyLimit caps the per-room
// chat history replayed to late joiners; zero disables history.
func NewRegistry(historyLimit int) *Registry {
	if historyLimit < 0 {
		historyLimit = 0
	}
	return &Registry{
		rooms:        make(map[string]*Room),
		byConn:       make(map[string]string),
		historyLimit: historyLimit,
	}
}

// Join adds connID to roomID, creating the room on first join.
// It returns the member snapshot after insertion (insertion order),
// the room's retained chat history, and whether the connection was
// already a member (in which case the call is a no-op).
//
// If the connection is still recorded in another room, it is removed
// from there first so a connection id never appears in two rooms.
func (r *Registry) Join(roomID, connID string) (members []string, history []Message, already bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byConn[connID]; ok && prev != roomID {
		r.removeLocked(prev, connID)
	}

	room, ok := r.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		r.rooms[roomID] = room
	}

	already = !room.add(connID)
	r.byConn[connID] = roomID

	return room.snapshot(), room.historySnapshot(), already
}

// Leave removes connID from roomID and returns the remaining member
// snapshot. removed reports whether the connection was actually a
// member; calling Leave on an unknown room or absent member is a no-op.
func (r *Registry) Leave(roomID, connID string) (remaining []string, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(roomID, connID)
}

func (r *Registry) removeLocked(roomID, connID string) ([]string, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	if !room.remove(connID) {
		return room.snapshot(), false
	}
	if r.byConn[connID] == roomID {
		delete(r.byConn, connID)
	}
	if room.empty() {
		// Check-then-delete stays inside the same critical section as
		// the removal, so two concurrent leaves cannot race the delete.
		delete(r.rooms, roomID)
		return nil, true
	}
	return room.snapshot(), true
}

// RoomOf resolves the room a connection currently belongs to.
func (r *Registry) RoomOf(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.byConn[connID]
	return roomID, ok
}

// Members returns the current member snapshot of a room, or nil if the
// room does not exist.
func (r *Registry) Members(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return room.snapshot()
}

// AppendHistory records a chat message in the room's capped history.
// No-op when history is disabled or the room does not exist.
func (r *Registry) AppendHistory(roomID string, msg Message) {
	if r.historyLimit == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[roomID]; ok {
		room.appendHistory(msg, r.historyLimit)
	}
}

// RoomCount reports how many rooms currently have members.
func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
