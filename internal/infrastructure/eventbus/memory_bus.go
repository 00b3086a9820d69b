package eventbus

import (
	"context"
	"sync"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
)

// MemoryChatBus is the single-instance fallback used when Redis is
// disabled. Delivery is synchronous and in-process.
type MemoryChatBus struct {
	mu       sync.RWMutex
	handlers []func(*domain.ChatMessage)
}

func NewMemoryChatBus() *MemoryChatBus {
	return &MemoryChatBus{}
}

func (b *MemoryChatBus) PublishMessage(ctx context.Context, message *domain.ChatMessage) error {
	b.mu.RLock()
	handlers := make([]func(*domain.ChatMessage), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(message)
	}
	return nil
}

// Subscribe registers handler and blocks until ctx is cancelled, matching
// the redis bus contract so the composition root treats both the same.
func (b *MemoryChatBus) Subscribe(ctx context.Context, handler func(*domain.ChatMessage)) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}
