package core

import "sync"

// DefaultDisplayName is used until a client announces a name.
const DefaultDisplayName = "Guest"

// Client is one relay participant as seen by the core layer. The
// transport owns the client and its underlying connection; the Hub and
// Registry refer to it by ID only.
type Client struct {
	ID     string
	UserID int64 // 0 for unauthenticated connections
	Guest  bool
	Events chan *Event

	mu   sync.RWMutex
	name string
}

// NewClient constructs a client with an initialized event channel.
// userID identifies an authenticated account, 0 otherwise.
func NewClient(id, name string, userID int64, guest bool) *Client {
	if name == "" {
		name = DefaultDisplayName
	}
	return &Client{
		ID:     id,
		UserID: userID,
		Guest:  guest,
		Events: make(chan *Event, 32),
		name:   name,
	}
}

// Name returns the current display name.
func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Client) setName(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}
