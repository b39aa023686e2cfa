package services

import (
	"context"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// AccessService guards every society-scoped operation. The actor comes
// from the request context, the society from the URL, and the membership
// row joining them decides the role.
type AccessService interface {
	// RequireAccess returns the actor's membership when their role meets
	// minRole. Missing actor yields Unauthenticated; missing membership or
	// insufficient rank yields AccessDenied.
	RequireAccess(ctx context.Context, societyID uuid.UUID, minRole string) (*models.SocietyMember, error)

	// RequireActor returns the authenticated actor id without any society
	// scoping, for operator-level operations.
	RequireActor(ctx context.Context) (uuid.UUID, error)
}

type accessService struct {
	membershipRepo repositories.MembershipRepository
}

func NewAccessService(membershipRepo repositories.MembershipRepository) AccessService {
	return &accessService{membershipRepo: membershipRepo}
}

func (s *accessService) RequireActor(ctx context.Context) (uuid.UUID, error) {
	actorID, ok := common.GetActorIDFromContext(ctx)
	if !ok || actorID == uuid.Nil {
		return uuid.Nil, common.Unauthenticated()
	}
	return actorID, nil
}

func (s *accessService) RequireAccess(ctx context.Context, societyID uuid.UUID, minRole string) (*models.SocietyMember, error) {
	actorID, err := s.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.GetByUserAndSociety(ctx, actorID, societyID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, common.AccessDenied("no access to this society")
	}
	if !models.HasRole(membership.Role, minRole) {
		return nil, common.AccessDenied("insufficient role for this operation")
	}
	return membership, nil
}
