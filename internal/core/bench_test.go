package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkChatFanout(b *testing.B, recipients int) {
	ctx := context.Background()
	hub := newTestHub(0)

	sender := NewClient("sender", "sender", 0, false)
	hub.Register(sender)
	hub.Dispatch(ctx, sender, &Command{Kind: CommandJoinCall, Room: "bench"})

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient(fmt.Sprintf("c%d", i), "client", 0, false)
		hub.Register(c)
		hub.Dispatch(ctx, c, &Command{Kind: CommandJoinCall, Room: "bench"})
		clients = append(clients, c)
	}

	// Drain everyone but the first recipient so their buffers never fill.
	target := clients[0]
	for _, c := range append(clients[1:], sender) {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}
	drain(target)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		hub.Dispatch(ctx, sender, &Command{Kind: CommandChatMessage, Text: "payload"})
		<-target.Events
	}
}

func BenchmarkChatFanout_10(b *testing.B)  { benchmarkChatFanout(b, 10) }
func BenchmarkChatFanout_100(b *testing.B) { benchmarkChatFanout(b, 100) }
func BenchmarkChatFanout_500(b *testing.B) { benchmarkChatFanout(b, 500) }
