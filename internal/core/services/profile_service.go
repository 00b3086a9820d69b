package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/utils"
)

type profileService struct {
	users   ports.UserRepository
	storage ports.FileStorage
}

func NewProfileService(users ports.UserRepository, storage ports.FileStorage) ports.ProfileService {
	return &profileService{
		users:   users,
		storage: storage,
	}
}

func (s *profileService) ChangeInfo(ctx context.Context, userID domain.UserID, username, displayName, bio string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	username = utils.NormalizeUsername(username)

	if username != user.Username {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
	}

	user.Username = username
	user.DisplayName = displayName
	user.Bio = bio
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (s *profileService) ChangeAvatar(ctx context.Context, userID domain.UserID, filename string, data io.Reader) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Avatar != "" {
		if err := s.storage.Remove(ctx, user.Avatar); err != nil {
			return fmt.Errorf("failed to remove previous avatar: %w", err)
		}
	}

	name := fmt.Sprintf("channels/%s%s", user.ID, fileExtension(filename))
	url, err := s.storage.Save(ctx, name, data)
	if err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	user.Avatar = url
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

func (s *profileService) RemoveAvatar(ctx context.Context, userID domain.UserID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Avatar == "" {
		return nil
	}

	if err := s.storage.Remove(ctx, user.Avatar); err != nil {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}

	user.Avatar = ""
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
