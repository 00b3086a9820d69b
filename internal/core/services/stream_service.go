package services

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
)

const (
	defaultStreamPageSize = 12
	randomStreamCount     = 4
)

type streamService struct {
	streams ports.StreamRepository
	storage ports.FileStorage
}

func NewStreamService(streams ports.StreamRepository, storage ports.FileStorage) ports.StreamService {
	return &streamService{
		streams: streams,
		storage: storage,
	}
}

func (s *streamService) FindAll(ctx context.Context, filters domain.StreamFilters) ([]*domain.Stream, error) {
	if filters.Take <= 0 {
		filters.Take = defaultStreamPageSize
	}
	if filters.Skip < 0 {
		filters.Skip = 0
	}
	return s.streams.List(ctx, filters)
}

// FindRandom returns up to four random streams for the discovery rail.
func (s *streamService) FindRandom(ctx context.Context) ([]*domain.Stream, error) {
	total, err := s.streams.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	streams, err := s.streams.List(ctx, domain.StreamFilters{Take: total})
	if err != nil {
		return nil, err
	}

	count := randomStreamCount
	if count > len(streams) {
		count = len(streams)
	}

	picked := make(map[int]struct{}, count)
	for len(picked) < count {
		picked[rand.Intn(len(streams))] = struct{}{}
	}

	result := make([]*domain.Stream, 0, count)
	for index := range picked {
		result = append(result, streams[index])
	}
	return result, nil
}

func (s *streamService) FindByUserID(ctx context.Context, userID domain.UserID) (*domain.Stream, error) {
	return s.streams.GetByUserID(ctx, userID)
}

func (s *streamService) ChangeInfo(ctx context.Context, userID domain.UserID, title, categoryID string) error {
	stream, err := s.streams.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	stream.Title = title
	stream.CategoryID = categoryID
	stream.UpdatedAt = time.Now()

	if err := s.streams.Update(ctx, stream); err != nil {
		return fmt.Errorf("failed to update stream info: %w", err)
	}
	return nil
}

func (s *streamService) ChangeThumbnail(ctx context.Context, userID domain.UserID, filename string, data io.Reader) error {
	stream, err := s.streams.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if stream.ThumbnailURL != "" {
		if err := s.storage.Remove(ctx, stream.ThumbnailURL); err != nil {
			return fmt.Errorf("failed to remove previous thumbnail: %w", err)
		}
	}

	name := fmt.Sprintf("streams/%s%s", stream.UserID, fileExtension(filename))
	url, err := s.storage.Save(ctx, name, data)
	if err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}

	stream.ThumbnailURL = url
	stream.UpdatedAt = time.Now()

	if err := s.streams.Update(ctx, stream); err != nil {
		return fmt.Errorf("failed to update stream thumbnail: %w", err)
	}
	return nil
}

func (s *streamService) RemoveThumbnail(ctx context.Context, userID domain.UserID) error {
	stream, err := s.streams.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if stream.ThumbnailURL == "" {
		return nil
	}

	if err := s.storage.Remove(ctx, stream.ThumbnailURL); err != nil {
		return fmt.Errorf("failed to remove thumbnail: %w", err)
	}

	stream.ThumbnailURL = ""
	stream.UpdatedAt = time.Now()

	if err := s.streams.Update(ctx, stream); err != nil {
		return fmt.Errorf("failed to update stream: %w", err)
	}
	return nil
}

// SetLive is the ingest lifecycle hook: the media pipeline reports the
// stream going online or offline.
func (s *streamService) SetLive(ctx context.Context, userID domain.UserID, live bool) error {
	stream, err := s.streams.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	stream.IsLive = live
	stream.UpdatedAt = time.Now()

	if err := s.streams.Update(ctx, stream); err != nil {
		return fmt.Errorf("failed to update live flag: %w", err)
	}
	return nil
}

func fileExtension(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return ".webp"
	}
	return ext
}
