package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/cache"
)

// CachedStreamService wraps StreamService with read caching for the
// directory listings. Mutations invalidate the affected entries.
type CachedStreamService struct {
	baseService ports.StreamService
	cache       *cache.CacheWithFallback
	listTTL     time.Duration
}

func NewCachedStreamService(baseService ports.StreamService, listTTL time.Duration) *CachedStreamService {
	return &CachedStreamService{
		baseService: baseService,
		cache:       cache.NewCacheWithFallback(listTTL),
		listTTL:     listTTL,
	}
}

func (s *CachedStreamService) FindAll(ctx context.Context, filters domain.StreamFilters) ([]*domain.Stream, error) {
	// Search results are not cached, only plain pages.
	if filters.SearchTerm != "" {
		return s.baseService.FindAll(ctx, filters)
	}

	cacheKey := fmt.Sprintf("streams:list:%d:%d", filters.Take, filters.Skip)

	value, err := s.cache.GetOrSet(ctx, cacheKey, func(ctx context.Context) (interface{}, error) {
		return s.baseService.FindAll(ctx, filters)
	}, s.listTTL)
	if err != nil {
		return nil, err
	}

	return value.([]*domain.Stream), nil
}

func (s *CachedStreamService) FindRandom(ctx context.Context) ([]*domain.Stream, error) {
	return s.baseService.FindRandom(ctx)
}

func (s *CachedStreamService) FindByUserID(ctx context.Context, userID domain.UserID) (*domain.Stream, error) {
	cacheKey := fmt.Sprintf("stream:user:%s", userID)

	value, err := s.cache.GetOrSet(ctx, cacheKey, func(ctx context.Context) (interface{}, error) {
		return s.baseService.FindByUserID(ctx, userID)
	}, s.listTTL)
	if err != nil {
		return nil, err
	}

	return value.(*domain.Stream), nil
}

func (s *CachedStreamService) ChangeInfo(ctx context.Context, userID domain.UserID, title, categoryID string) error {
	if err := s.baseService.ChangeInfo(ctx, userID, title, categoryID); err != nil {
		return err
	}
	s.invalidateFor(userID)
	return nil
}

func (s *CachedStreamService) ChangeThumbnail(ctx context.Context, userID domain.UserID, filename string, data io.Reader) error {
	if err := s.baseService.ChangeThumbnail(ctx, userID, filename, data); err != nil {
		return err
	}
	s.invalidateFor(userID)
	return nil
}

func (s *CachedStreamService) RemoveThumbnail(ctx context.Context, userID domain.UserID) error {
	if err := s.baseService.RemoveThumbnail(ctx, userID); err != nil {
		return err
	}
	s.invalidateFor(userID)
	return nil
}

func (s *CachedStreamService) SetLive(ctx context.Context, userID domain.UserID, live bool) error {
	if err := s.baseService.SetLive(ctx, userID, live); err != nil {
		return err
	}
	s.invalidateFor(userID)
	return nil
}

// InvalidateUser evicts the entries that project the user's stream.
// Collaborators writing stream rows outside this service call it to keep
// reads fresh.
func (s *CachedStreamService) InvalidateUser(userID domain.UserID) {
	s.invalidateFor(userID)
}

func (s *CachedStreamService) invalidateFor(userID domain.UserID) {
	s.cache.Invalidate(fmt.Sprintf("stream:user:%s", userID))
	s.cache.Invalidate("streams:list:")
}

// Stop stops the cache cleanup
func (s *CachedStreamService) Stop() {
	s.cache.Stop()
}
