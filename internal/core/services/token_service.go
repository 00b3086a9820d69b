package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// JoinTokenClaims is the wire contract shared with the external media
// service. Claim names and the roomJoin/canPublish semantics must match
// what the media side verifies; do not rename fields.
type JoinTokenClaims struct {
	Identity   string `json:"identity"`
	Name       string `json:"name"`
	Room       string `json:"room"`
	RoomJoin   bool   `json:"roomJoin"`
	CanPublish bool   `json:"canPublish"`
	jwt.RegisteredClaims
}

// TokenConfig carries the signing credentials shared with the media service.
type TokenConfig struct {
	APIKey    string
	APISecret string
	TTL       time.Duration
}

type tokenService struct {
	identity ports.IdentityService
	users    ports.UserRepository
	cfg      TokenConfig
}

func NewTokenService(identity ports.IdentityService, users ports.UserRepository, cfg TokenConfig) ports.TokenService {
	return &tokenService{
		identity: identity,
		users:    users,
		cfg:      cfg,
	}
}

// IssueJoinToken issues a signed, time-scoped capability token granting
// join rights to the requested channel's room. This endpoint is reachable
// by anonymous viewers, so canPublish is always false here; publish
// capability is granted by a separate authenticated flow.
func (s *tokenService) IssueJoinToken(ctx context.Context, requesterID, channelID domain.UserID) (string, error) {
	self := s.identity.Resolve(ctx, requesterID)

	channel, err := s.users.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrChannelNotFound
		}
		return "", fmt.Errorf("failed to look up channel: %w", err)
	}

	isHost := self.ID == channel.ID

	identity := string(self.ID)
	if isHost {
		identity = "Host-" + identity
	}

	now := time.Now()
	claims := &JoinTokenClaims{
		Identity:   identity,
		Name:       self.DisplayName,
		Room:       string(channel.ID),
		RoomJoin:   true,
		CanPublish: false,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.APIKey,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.APISecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign join token: %w", err)
	}

	return signed, nil
}
