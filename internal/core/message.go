package core

import "time"

// Message is the domain model for a relayed chat message.
type Message struct {
	Room   string
	From   string // connection id of the sender
	Name   string // display name the sender announced
	Text   string
	SentAt time.Time
}
