package core

// Room tracks the connection ids sharing one presence/chat/signaling
// scope. It stores ids only (weak references); the Hub resolves them to
// live clients when fanning out. All access goes through the Registry
// lock, so Room itself carries no synchronization.
type Room struct {
	ID      string
	members map[string]struct{}
	order   []string // insertion order, for presence lists
	history []Message
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make(map[string]struct{}),
	}
}

// add inserts a connection id. Returns false if it was already present.
func (r *Room) add(connID string) bool {
	if _, ok := r.members[connID]; ok {
		return false
	}
	r.members[connID] = struct{}{}
	r.order = append(r.order, connID)
	return true
}

// remove deletes a connection id. Returns false if it was not a member.
func (r *Room) remove(connID string) bool {
	if _, ok := r.members[connID]; !ok {
		return false
	}
	delete(r.members, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot copies the member ids in insertion order.
func (r *Room) snapshot() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Room) empty() bool {
	return len(r.members) == 0
}

// appendHistory retains msg, evicting the oldest entries past limit.
func (r *Room) appendHistory(msg Message, limit int) {
	r.history = append(r.history, msg)
	if len(r.history) > limit {
		r.history = r.history[len(r.history)-limit:]
	}
}

func (r *Room) historySnapshot() []Message {
	if len(r.history) == 0 {
		return nil
	}
	out := make([]Message, len(r.history))
	copy(out, r.history)
	return out
}
