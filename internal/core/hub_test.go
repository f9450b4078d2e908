package core

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func newTestHub(historyLimit int) *Hub {
	return NewHub(NewRegistry(historyLimit), nil, nil)
}

func joinRoom(t *testing.T, h *Hub, c *Client, room string) {
	t.Helper()
	h.Dispatch(context.Background(), c, &Command{Kind: CommandJoinCall, Room: room, Name: c.Name()})
}

func TestHubPresenceSequence(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	carol := NewClient("c", "carol", 0, false)
	for _, c := range []*Client{alice, bob, carol} {
		hub.Register(c)
	}

	joinRoom(t, hub, alice, "r1")
	ev := mustEvent(t, alice.Events, EventJoined)
	if !equalIDs(memberIDs(ev.Members), []string{"a"}) {
		t.Fatalf("unexpected initial snapshot: %+v", ev.Members)
	}

	joinRoom(t, hub, bob, "r1")
	ev = mustEvent(t, alice.Events, EventPeerJoined)
	if ev.Conn != "b" || ev.Name != "bob" {
		t.Fatalf("unexpected peer-joined: %+v", ev)
	}
	mustEvent(t, bob.Events, EventJoined)

	joinRoom(t, hub, carol, "r1")
	if ev = mustEvent(t, alice.Events, EventPeerJoined); ev.Conn != "c" {
		t.Fatalf("alice expected carol, got %+v", ev)
	}
	if ev = mustEvent(t, bob.Events, EventPeerJoined); ev.Conn != "c" {
		t.Fatalf("bob expected carol, got %+v", ev)
	}
	ev = mustEvent(t, carol.Events, EventJoined)
	if !equalIDs(memberIDs(ev.Members), []string{"a", "b", "c"}) {
		t.Fatalf("unexpected join snapshot: %+v", ev.Members)
	}

	// Bob disconnects: alice and carol each see exactly one peer-left.
	hub.Unregister(bob)
	for _, c := range []*Client{alice, carol} {
		ev = mustEvent(t, c.Events, EventPeerLeft)
		if ev.Conn != "b" || ev.Room != "r1" {
			t.Fatalf("unexpected peer-left: %+v", ev)
		}
		mustNoEvent(t, c.Events)
	}

	// Chat reaches every remaining member exactly once, sender included.
	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandChatMessage, Text: "hi"})
	for _, c := range []*Client{alice, carol} {
		ev = mustEvent(t, c.Events, EventChatMessage)
		if ev.Message.Text != "hi" || ev.Message.From != "a" || ev.Message.Name != "alice" {
			t.Fatalf("unexpected chat event: %+v", ev.Message)
		}
		mustNoEvent(t, c.Events)
	}
}

func TestHubChatRecomputesMembership(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	hub.Register(alice)
	hub.Register(bob)

	joinRoom(t, hub, alice, "r1")
	joinRoom(t, hub, bob, "r1")
	drain(alice)
	drain(bob)

	hub.Dispatch(context.Background(), bob, &Command{Kind: CommandLeaveCall})
	drain(alice)

	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandChatMessage, Text: "anyone?"})
	mustEvent(t, alice.Events, EventChatMessage)
	mustNoEvent(t, bob.Events)
}

func TestHubSignalDeliveredOnlyToTarget(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	carol := NewClient("c", "carol", 0, false)
	for _, c := range []*Client{alice, bob, carol} {
		hub.Register(c)
		joinRoom(t, hub, c, "r1")
	}
	for _, c := range []*Client{alice, bob, carol} {
		drain(c)
	}

	payload := json.RawMessage(`{"type":"offer","sdp":"v=0\r\no=- 46117 2","candidates":[1,2,3]}`)
	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandSignal, Target: "b", Payload: payload})

	ev := mustEvent(t, bob.Events, EventSignal)
	if ev.Conn != "a" || ev.Name != "alice" {
		t.Fatalf("unexpected signal envelope: %+v", ev)
	}
	if string(ev.Payload) != string(payload) {
		t.Fatalf("payload not preserved: %s", ev.Payload)
	}
	mustNoEvent(t, alice.Events)
	mustNoEvent(t, carol.Events)
}

func TestHubSignalUnknownTargetDroppedSilently(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	hub.Register(alice)
	joinRoom(t, hub, alice, "r1")
	drain(alice)

	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandSignal, Target: "ghost", Payload: json.RawMessage(`{}`)})
	mustNoEvent(t, alice.Events)
}

func TestHubSignalBeforeJoinRejected(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	hub.Register(alice)

	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandSignal, Target: "b", Payload: json.RawMessage(`{}`)})
	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeNotInRoom {
		t.Fatalf("expected not_in_room error, got %+v", ev)
	}
}

func TestHubChatBeforeJoinRejected(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	hub.Register(alice)

	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandChatMessage, Text: "hi"})
	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeNotInRoom {
		t.Fatalf("expected not_in_room error, got %+v", ev)
	}
}

func TestHubJoinWithoutRoomRejected(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	hub.Register(alice)

	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandJoinCall, Room: ""})
	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", ev)
	}
	if hub.registry.RoomCount() != 0 {
		t.Fatalf("rejected join mutated the registry")
	}
}

func TestHubRejoinSameRoomIsQuiet(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	hub.Register(alice)
	hub.Register(bob)
	joinRoom(t, hub, alice, "r1")
	joinRoom(t, hub, bob, "r1")
	drain(alice)
	drain(bob)

	joinRoom(t, hub, alice, "r1")

	ev := mustEvent(t, alice.Events, EventJoined)
	if !equalIDs(memberIDs(ev.Members), []string{"a", "b"}) {
		t.Fatalf("rejoin snapshot wrong: %+v", ev.Members)
	}
	// No duplicate presence noise for the other member.
	mustNoEvent(t, bob.Events)
}

func TestHubJoinOtherRoomLeavesFirst(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	hub.Register(alice)
	hub.Register(bob)
	joinRoom(t, hub, alice, "r1")
	joinRoom(t, hub, bob, "r1")
	drain(alice)
	drain(bob)

	joinRoom(t, hub, alice, "r2")

	ev := mustEvent(t, bob.Events, EventPeerLeft)
	if ev.Conn != "a" || ev.Room != "r1" {
		t.Fatalf("unexpected peer-left: %+v", ev)
	}
	ev = mustEvent(t, alice.Events, EventJoined)
	if ev.Room != "r2" || !equalIDs(memberIDs(ev.Members), []string{"a"}) {
		t.Fatalf("unexpected join after move: %+v", ev)
	}
	if !equalIDs(hub.registry.Members("r1"), []string{"b"}) {
		t.Fatalf("old room membership wrong: %v", hub.registry.Members("r1"))
	}
}

func TestHubLeaveIdempotent(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	hub.Register(alice)
	hub.Register(bob)
	joinRoom(t, hub, alice, "r1")
	joinRoom(t, hub, bob, "r1")
	drain(alice)
	drain(bob)

	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandLeaveCall})
	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandLeaveCall})

	ev := mustEvent(t, bob.Events, EventPeerLeft)
	if ev.Conn != "a" {
		t.Fatalf("unexpected peer-left: %+v", ev)
	}
	mustNoEvent(t, bob.Events)
	mustNoEvent(t, alice.Events)
}

func TestHubUnregisterIdempotent(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	hub.Register(alice)
	hub.Register(bob)
	joinRoom(t, hub, alice, "r1")
	joinRoom(t, hub, bob, "r1")
	drain(alice)
	drain(bob)

	hub.Unregister(alice)
	hub.Unregister(alice)

	mustEvent(t, bob.Events, EventPeerLeft)
	mustNoEvent(t, bob.Events)
}

func TestHubLastLeaveDeletesRoomQuietly(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", "alice", 0, false)
	hub.Register(alice)
	joinRoom(t, hub, alice, "r1")
	drain(alice)

	hub.Unregister(alice)
	mustNoEvent(t, alice.Events)
	if hub.registry.RoomCount() != 0 {
		t.Fatalf("room survived its last member")
	}
}

func TestHubHistoryReplayOnJoin(t *testing.T) {
	hub := newTestHub(2)

	alice := NewClient("a", "alice", 0, false)
	bob := NewClient("b", "bob", 0, false)
	hub.Register(alice)
	hub.Register(bob)
	joinRoom(t, hub, alice, "r1")
	drain(alice)

	for _, text := range []string{"one", "two", "three"} {
		hub.Dispatch(context.Background(), alice, &Command{Kind: CommandChatMessage, Text: text})
	}
	drain(alice)

	joinRoom(t, hub, bob, "r1")
	mustEvent(t, bob.Events, EventJoined)
	ev := mustEvent(t, bob.Events, EventHistory)
	if len(ev.Messages) != 2 {
		t.Fatalf("expected 2 replayed messages, got %d", len(ev.Messages))
	}
	if ev.Messages[0].Text != "two" || ev.Messages[1].Text != "three" {
		t.Fatalf("unexpected replay window: %+v", ev.Messages)
	}
}

type stubRecorder struct {
	mu    sync.Mutex
	calls []string
	err   error
	done  chan struct{}
}

func (r *stubRecorder) RecordJoin(_ context.Context, userID int64, _ string, roomID string, _ time.Time) error {
	r.mu.Lock()
	r.calls = append(r.calls, roomID)
	r.mu.Unlock()
	select {
	case r.done <- struct{}{}:
	default:
	}
	return r.err
}

func TestHubRecordsAuthenticatedJoin(t *testing.T) {
	rec := &stubRecorder{done: make(chan struct{}, 1)}
	hub := NewHub(NewRegistry(0), rec, nil)

	alice := NewClient("a", "alice", 42, false)
	hub.Register(alice)
	joinRoom(t, hub, alice, "r1")

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("recorder was not invoked")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) != 1 || rec.calls[0] != "r1" {
		t.Fatalf("unexpected recorder calls: %v", rec.calls)
	}
}

func TestHubRecorderFailureDoesNotAffectRelay(t *testing.T) {
	rec := &stubRecorder{err: context.DeadlineExceeded, done: make(chan struct{}, 1)}
	hub := NewHub(NewRegistry(0), rec, nil)

	alice := NewClient("a", "alice", 42, false)
	hub.Register(alice)
	joinRoom(t, hub, alice, "r1")

	mustEvent(t, alice.Events, EventJoined)
	<-rec.done

	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandChatMessage, Text: "still works"})
	ev := mustEvent(t, alice.Events, EventChatMessage)
	if ev.Message.Text != "still works" {
		t.Fatalf("relay degraded after recorder failure: %+v", ev)
	}
}

func TestHubAnonymousJoinNotRecorded(t *testing.T) {
	rec := &stubRecorder{done: make(chan struct{}, 1)}
	hub := NewHub(NewRegistry(0), rec, nil)

	alice := NewClient("a", "alice", 0, false)
	hub.Register(alice)
	joinRoom(t, hub, alice, "r1")
	mustEvent(t, alice.Events, EventJoined)

	select {
	case <-rec.done:
		t.Fatalf("recorder invoked for anonymous connection")
	case <-time.After(50 * time.Millisecond):
	}
}

func drain(c *Client) {
	for {
		select {
		case <-c.Events:
		default:
			return
		}
	}
}
