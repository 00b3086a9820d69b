package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
)

const anonymousSuffixBound = 100000

type identityService struct {
	users ports.UserRepository
}

func NewIdentityService(users ports.UserRepository) ports.IdentityService {
	return &identityService{users: users}
}

// Resolve maps a candidate user id to a display identity. Unknown or
// deactivated users fall back to an anonymous viewer identity instead of
// an error. The random suffix only disambiguates anonymous viewers in
// listings; collisions are harmless.
func (s *identityService) Resolve(ctx context.Context, candidateUserID domain.UserID) domain.Identity {
	user, err := s.users.GetByID(ctx, candidateUserID)
	if err == nil && !user.IsDeactivated {
		return domain.Identity{
			ID:           user.ID,
			DisplayName:  user.Username,
			IsRegistered: true,
		}
	}

	return domain.Identity{
		ID:           candidateUserID,
		DisplayName:  fmt.Sprintf("Viewer-%d", rand.Intn(anonymousSuffixBound)),
		IsRegistered: false,
	}
}
