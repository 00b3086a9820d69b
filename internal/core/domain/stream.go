package domain

import "time"

type StreamID string

// Stream is the single per-user stream record. Exactly one Stream exists
// per User, keyed by the unique UserID ownership column.
type Stream struct {
	ID           StreamID
	UserID       UserID
	Title        string
	CategoryID   string
	ThumbnailURL string
	IngressID    string
	ServerURL    string
	StreamKey    string
	IsLive       bool
	ChatSettings ChatSettings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChatSettings are orthogonal toggles, not states. They apply to the next
// admitted send, they do not affect messages already written.
type ChatSettings struct {
	IsChatEnabled              bool
	IsChatFollowersOnly        bool
	IsChatPremiumFollowersOnly bool
}

// StreamFilters narrows directory listings.
type StreamFilters struct {
	Take       int
	Skip       int
	SearchTerm string
}
