package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
)

type MemoryChatRepository struct {
	messages map[domain.StreamID][]*domain.ChatMessage
	mu       sync.RWMutex
}

func NewMemoryChatRepository() ports.ChatMessageRepository {
	return &MemoryChatRepository{
		messages: make(map[domain.StreamID][]*domain.ChatMessage),
	}
}

func (r *MemoryChatRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *message
	r.messages[message.StreamID] = append(r.messages[message.StreamID], &copied)
	return nil
}

// FindByStream returns the stream's messages newest-first.
func (r *MemoryChatRepository) FindByStream(ctx context.Context, streamID domain.StreamID) ([]*domain.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[streamID]
	result := make([]*domain.ChatMessage, 0, len(stored))
	for _, message := range stored {
		copied := *message
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
