package domain

import "time"

type MessageID string

// ChatMessage is append-only: created when the chat gate admits a send,
// never mutated or deleted.
type ChatMessage struct {
	ID        MessageID
	StreamID  StreamID
	UserID    UserID
	Text      string
	CreatedAt time.Time

	// Username is denormalized from the sending user for listings.
	Username string
}
