package store

import (
	"context"
	"time"
)

// User represents an account in the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsGuest      bool
	SessionID    string // guest session tracking
	CreatedAt    time.Time
}

// Meeting is one entry in a user's meeting history: the user joined
// the room identified by Code at StartedAt.
type Meeting struct {
	ID        int64
	UserID    int64
	Code      string
	StartedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// CreateGuestUser creates a temporary guest user with session ID.
	CreateGuestUser(ctx context.Context, sessionID string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a registered user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserBySessionID retrieves a guest user by session ID.
	GetUserBySessionID(ctx context.Context, sessionID string) (*User, error)
}

// MeetingStore handles meeting history persistence.
type MeetingStore interface {
	// AddMeeting records that the user joined a meeting room.
	AddMeeting(ctx context.Context, userID int64, code string, startedAt time.Time) (*Meeting, error)

	// ListMeetings returns the user's meeting history, newest first,
	// capped at limit entries.
	ListMeetings(ctx context.Context, userID int64, limit int) ([]*Meeting, error)
}

// Store combines all persistence interfaces.
type Store interface {
	UserStore
	MeetingStore

	// Close releases underlying resources.
	Close() error
}
