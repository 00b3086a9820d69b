package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type accountService struct {
	users   ports.UserRepository
	streams ports.StreamRepository
}

func NewAccountService(users ports.UserRepository, streams ports.StreamRepository) ports.AccountService {
	return &accountService{
		users:   users,
		streams: streams,
	}
}

func (s *accountService) Me(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create registers a new account and its 1:1 stream record. Username and
// email collisions surface as typed conflicts.
func (s *accountService) Create(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = utils.NormalizeUsername(username)
	email = utils.NormalizeEmail(email)

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:          domain.UserID(utils.NewUserID()),
		Username:    username,
		Email:       email,
		Password:    string(hash),
		DisplayName: username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	stream := &domain.Stream{
		ID:        domain.StreamID(utils.NewStreamID()),
		UserID:    user.ID,
		Title:     fmt.Sprintf("%s's stream", username),
		StreamKey: utils.NewStreamKey(),
		ChatSettings: domain.ChatSettings{
			IsChatEnabled: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.streams.Create(ctx, stream); err != nil {
		return nil, fmt.Errorf("failed to create stream record: %w", err)
	}

	return user, nil
}

func (s *accountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, utils.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.IsDeactivated {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *accountService) Deactivate(ctx context.Context, id domain.UserID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	user.IsDeactivated = true
	user.DeactivatedAt = &now
	user.UpdatedAt = now

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
