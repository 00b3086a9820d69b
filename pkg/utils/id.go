package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewUserID generates a unique user ID
func NewUserID() string {
	return uuid.New().String()
}

// NewStreamID generates a unique stream ID
func NewStreamID() string {
	return uuid.New().String()
}

// NewMessageID generates a unique chat message ID
func NewMessageID() string {
	return uuid.New().String()
}

// NewStreamKey generates an opaque ingest stream key
func NewStreamKey() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("sk_%s", hex.EncodeToString(b))
}

// NewRequestID generates a unique request ID
func NewRequestID() string {
	timestamp := time.Now().UnixNano()
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", timestamp, hex.EncodeToString(b))
}
