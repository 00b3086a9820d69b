package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
)

type MemoryStreamRepository struct {
	streams map[domain.StreamID]*domain.Stream
	mu      sync.RWMutex
}

func NewMemoryStreamRepository() ports.StreamRepository {
	return &MemoryStreamRepository{
		streams: make(map[domain.StreamID]*domain.Stream),
	}
}

func (r *MemoryStreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.streams[stream.ID]; exists {
		return fmt.Errorf("stream already exists: %s", stream.ID)
	}

	copied := *stream
	r.streams[stream.ID] = &copied
	return nil
}

func (r *MemoryStreamRepository) GetByID(ctx context.Context, id domain.StreamID) (*domain.Stream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stream, exists := r.streams[id]
	if !exists {
		return nil, domain.ErrStreamNotFound
	}

	copied := *stream
	return &copied, nil
}

func (r *MemoryStreamRepository) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Stream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stream := range r.streams {
		if stream.UserID == userID {
			copied := *stream
			return &copied, nil
		}
	}

	return nil, domain.ErrStreamNotFound
}

func (r *MemoryStreamRepository) Update(ctx context.Context, stream *domain.Stream) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.streams[stream.ID]; !exists {
		return domain.ErrStreamNotFound
	}

	copied := *stream
	r.streams[stream.ID] = &copied
	return nil
}

// List returns streams ordered live-first, newest-first. The in-memory
// search only matches titles; the postgres implementation also matches
// the owner's username.
func (r *MemoryStreamRepository) List(ctx context.Context, filters domain.StreamFilters) ([]*domain.Stream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Stream, 0, len(r.streams))
	term := strings.ToLower(filters.SearchTerm)
	for _, stream := range r.streams {
		if term != "" && !strings.Contains(strings.ToLower(stream.Title), term) {
			continue
		}
		copied := *stream
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].IsLive != matched[j].IsLive {
			return matched[i].IsLive
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filters.Skip >= len(matched) {
		return []*domain.Stream{}, nil
	}
	matched = matched[filters.Skip:]

	if filters.Take > 0 && filters.Take < len(matched) {
		matched = matched[:filters.Take]
	}

	return matched, nil
}

func (r *MemoryStreamRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams), nil
}
